package models

import "time"

// DayAvailability занятость типа номера на одну ночь.
type DayAvailability struct {
	Date      time.Time `json:"date"`
	Booked    int       `json:"booked"`
	Available int       `json:"available"`
}

// RoomAvailability доступность номера на период.
type RoomAvailability struct {
	RoomID         string            `json:"room_id"`
	TotalInventory int               `json:"total_inventory"`
	Days           []DayAvailability `json:"days"`
	MinAvailable   int               `json:"min_available"`
	Bookable       bool              `json:"bookable"`
}

// InventoryRow строка сетки загрузки в админке.
type InventoryRow struct {
	RoomID         string            `json:"room_id"`
	RoomName       string            `json:"room_name"`
	HotelName      string            `json:"hotel_name"`
	TotalInventory int               `json:"total_inventory"`
	Days           []DayAvailability `json:"days"`
}

// InventoryGrid сетка загрузки номеров по датам.
type InventoryGrid struct {
	Dates []string       `json:"dates"`
	Rooms []InventoryRow `json:"rooms"`
}

// RoomWithHotel номер вместе с названием отеля.
type RoomWithHotel struct {
	Room
	HotelName    string
	HotelOwnerID string
}

// DashboardStats сводка для главной страницы админки.
type DashboardStats struct {
	TotalBookings   int   `json:"total_bookings"`
	Revenue         int64 `json:"revenue"`
	PendingBookings int   `json:"pending_bookings"`
	ActiveGuests    int   `json:"active_guests"`
	OccupancyRate   int   `json:"occupancy_rate"`
}
