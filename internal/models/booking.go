package models

import "time"

// BookingStatus статус бронирования.
type BookingStatus string

// Статусы бронирования.
const (
	StatusPending   BookingStatus = "pending"
	StatusPaid      BookingStatus = "paid"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusRejected  BookingStatus = "rejected"
	StatusCompleted BookingStatus = "completed"
	StatusBlocked   BookingStatus = "blocked"
)

// BookingStatuses все известные статусы.
var BookingStatuses = []BookingStatus{
	StatusPending, StatusPaid, StatusConfirmed, StatusCancelled,
	StatusRejected, StatusCompleted, StatusBlocked,
}

// OccupyingStatuses статусы, которые занимают номер на даты проживания.
var OccupyingStatuses = []BookingStatus{StatusConfirmed, StatusPending, StatusBlocked, StatusPaid}

// ConsumesInventory сообщает, занимает ли бронирование в этом статусе номер.
func (s BookingStatus) ConsumesInventory() bool {
	for _, o := range OccupyingStatuses {
		if s == o {
			return true
		}
	}
	return false
}

// Valid сообщает, известен ли статус.
func (s BookingStatus) Valid() bool {
	for _, known := range BookingStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Booking бронирование номера. Номер занят на [CheckIn, CheckOut).
type Booking struct {
	ID                       string        `json:"id"`
	RoomID                   string        `json:"room_id"`
	UserID                   string        `json:"user_id"`
	CheckIn                  time.Time     `json:"check_in_date"`
	CheckOut                 time.Time     `json:"check_out_date"`
	Status                   BookingStatus `json:"status"`
	TotalPrice               int64         `json:"total_price"`
	GuestPassportEncrypted   string        `json:"-"`
	GuestPhoneEncrypted      string        `json:"-"`
	SpecialRequestsEncrypted string        `json:"-"`
	Note                     string        `json:"note,omitempty"`
	CreatedAt                time.Time     `json:"created_at"`
}

// BookingView бронирование с названиями номера и отеля для списков.
type BookingView struct {
	Booking
	RoomName  string `json:"room_name"`
	HotelID   string `json:"hotel_id"`
	HotelName string `json:"hotel_name"`
	GuestName string `json:"guest_name,omitempty"`
	Email     string `json:"guest_email,omitempty"`
}

// BookingDetails бронирование с расшифрованными персональными данными.
type BookingDetails struct {
	BookingView
	HotelOwnerID    string `json:"hotel_owner_id"`
	GuestPassport   string `json:"guest_passport"`
	GuestPhone      string `json:"guest_phone"`
	SpecialRequests string `json:"special_requests"`
}

// BookingRequest данные, с которыми гость создаёт бронирование.
type BookingRequest struct {
	RoomID          string `json:"room_id" validate:"required,uuid"`
	CheckIn         string `json:"check_in" validate:"required"`
	CheckOut        string `json:"check_out" validate:"required"`
	GuestPassport   string `json:"guest_passport" validate:"required,min=5"`
	GuestPhone      string `json:"guest_phone" validate:"required,min=8"`
	SpecialRequests string `json:"special_requests"`
}

// BookingResult ответ на создание бронирования.
type BookingResult struct {
	BookingID          string `json:"booking_id"`
	TotalPrice         int64  `json:"total_price"`
	Nights             int    `json:"nights"`
	PaymentRedirectURL string `json:"payment_redirect_url,omitempty"`
}

// BlockRequest массовая блокировка номеров администратором.
type BlockRequest struct {
	RoomIDs   []string `json:"room_ids" validate:"required,min=1,dive,uuid"`
	StartDate string   `json:"start_date" validate:"required"`
	EndDate   string   `json:"end_date" validate:"required"`
	Reason    string   `json:"reason"`
}

// BookingEvent сообщение о бронировании для очереди уведомлений.
type BookingEvent struct {
	BookingID string        `json:"booking_id"`
	Email     string        `json:"email"`
	GuestName string        `json:"guest_name"`
	HotelName string        `json:"hotel_name"`
	RoomName  string        `json:"room_name"`
	Dates     string        `json:"dates"`
	Status    BookingStatus `json:"status"`
}
