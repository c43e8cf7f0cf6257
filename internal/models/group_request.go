package models

import "time"

// Статусы групповой заявки.
const (
	GroupPending  = "pending"
	GroupApproved = "approved"
	GroupRejected = "rejected"
	GroupClosed   = "closed"
)

// GroupRequest заявка организации на групповое размещение (от 5 гостей).
type GroupRequest struct {
	ID                  string    `json:"id"`
	OrganizationName    string    `json:"organization_name"`
	ContactName         string    `json:"contact_name"`
	ContactEmail        string    `json:"contact_email"`
	ContactPhone        string    `json:"contact_phone"`
	GuestCount          int       `json:"guest_count"`
	CheckIn             time.Time `json:"check_in_date"`
	CheckOut            time.Time `json:"check_out_date"`
	PreferredHotel      string    `json:"preferred_hotel,omitempty"`
	BudgetRange         string    `json:"budget_range,omitempty"`
	SpecialRequirements string    `json:"special_requirements,omitempty"`
	Status              string    `json:"status"`
	AssignedLiaisonID   string    `json:"assigned_liaison_id,omitempty"`
	Notes               string    `json:"notes,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
}

// GroupRequestInput данные публичной формы групповой заявки.
type GroupRequestInput struct {
	OrganizationName    string `json:"organization_name" validate:"required,min=2"`
	ContactName         string `json:"contact_name" validate:"required,min=2"`
	ContactEmail        string `json:"contact_email" validate:"required,email"`
	ContactPhone        string `json:"contact_phone" validate:"required,min=8"`
	GuestCount          int    `json:"guest_count" validate:"required,min=5"`
	CheckIn             string `json:"check_in" validate:"required"`
	CheckOut            string `json:"check_out" validate:"required"`
	PreferredHotel      string `json:"preferred_hotel"`
	BudgetRange         string `json:"budget_range"`
	SpecialRequirements string `json:"special_requirements"`
}

// GroupRequestEvent сообщение о новой заявке для очереди уведомлений.
type GroupRequestEvent struct {
	RequestID        string `json:"request_id"`
	OrganizationName string `json:"organization_name"`
	ContactName      string `json:"contact_name"`
	ContactEmail     string `json:"contact_email"`
	GuestCount       int    `json:"guest_count"`
	Dates            string `json:"dates"`
}
