package models

import "time"

// Room тип номера в отеле. TotalInventory количество продаваемых единиц этого типа.
type Room struct {
	ID             string    `json:"id"`
	HotelID        string    `json:"hotel_id"`
	Name           string    `json:"name"`
	Description    string    `json:"description,omitempty"`
	Type           string    `json:"type"`
	PricePerNight  int64     `json:"price_per_night"`
	Capacity       int       `json:"capacity"`
	Amenities      []string  `json:"amenities"`
	Images         []string  `json:"images"`
	TotalInventory int       `json:"total_inventory"`
	CreatedAt      time.Time `json:"created_at"`
}

// RoomInput данные формы создания номера.
type RoomInput struct {
	Name           string   `json:"name" validate:"required,min=2"`
	Description    string   `json:"description"`
	Type           string   `json:"type" validate:"required"`
	PricePerNight  int64    `json:"price_per_night" validate:"required,gt=0"`
	Capacity       int      `json:"capacity" validate:"required,gt=0"`
	Amenities      []string `json:"amenities"`
	Images         []string `json:"images"`
	TotalInventory int      `json:"total_inventory" validate:"required,gt=0"`
}
