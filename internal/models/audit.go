package models

import (
	"encoding/json"
	"time"
)

// AuditLog запись журнала административных действий.
type AuditLog struct {
	ID        string          `json:"id"`
	TableName string          `json:"table_name"`
	RecordID  string          `json:"record_id,omitempty"`
	Action    string          `json:"action"`
	NewData   json.RawMessage `json:"new_data,omitempty"`
	ChangedBy string          `json:"changed_by,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// Notification уведомление в колокольчике админки.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	Link      string    `json:"link,omitempty"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}
