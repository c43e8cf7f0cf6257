package models

import "time"

// Hotel отель, принадлежащий администратору (туроператору).
type Hotel struct {
	ID           string    `json:"id"`
	OwnerID      string    `json:"owner_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Address      string    `json:"address,omitempty"`
	Stars        int       `json:"stars"`
	Amenities    []string  `json:"amenities"`
	Images       []string  `json:"images"`
	HotelType    string    `json:"hotel_type"`
	ContactPhone string    `json:"contact_phone,omitempty"`
	ContactEmail string    `json:"contact_email,omitempty"`
	Website      string    `json:"website,omitempty"`
	CheckInTime  string    `json:"check_in_time,omitempty"`
	CheckOutTime string    `json:"check_out_time,omitempty"`
	Latitude     *float64  `json:"latitude,omitempty"`
	Longitude    *float64  `json:"longitude,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// HotelSummary строка публичного каталога.
type HotelSummary struct {
	Hotel
	MinPrice   *int64   `json:"min_price,omitempty"`
	DistanceKM *float64 `json:"distance_km,omitempty"`
}

// HotelDetails отель вместе с номерами.
type HotelDetails struct {
	Hotel
	Rooms []Room `json:"rooms"`
}

// HotelInput данные формы создания и редактирования отеля.
type HotelInput struct {
	Name         string   `json:"name" validate:"required,min=2"`
	Description  string   `json:"description"`
	Address      string   `json:"address"`
	Stars        int      `json:"stars" validate:"omitempty,min=1,max=5"`
	Amenities    []string `json:"amenities"`
	Images       []string `json:"images"`
	HotelType    string   `json:"hotel_type"`
	ContactPhone string   `json:"contact_phone"`
	ContactEmail string   `json:"contact_email" validate:"omitempty,email"`
	Website      string   `json:"website" validate:"omitempty,url"`
	CheckInTime  string   `json:"check_in_time"`
	CheckOutTime string   `json:"check_out_time"`
	Latitude     *float64 `json:"latitude" validate:"omitempty,min=-90,max=90"`
	Longitude    *float64 `json:"longitude" validate:"omitempty,min=-180,max=180"`
}

// HotelFilter параметры поиска в каталоге.
type HotelFilter struct {
	Query     string
	MinStars  int
	Amenities []string
	MinPrice  *int64
	MaxPrice  *int64
	SortBy    string
}
