// Package models содержит доменные структуры сервиса бронирования отелей:
// профили, отели, номера, бронирования и служебные записи.
package models

import "time"

// Role грубая метка прав доступа в профиле пользователя.
type Role string

// Допустимые роли.
const (
	RoleGuest      Role = "guest"
	RoleVIP        Role = "vip"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
	RoleLiaison    Role = "liaison"
)

// Roles перечисляет все роли в порядке отображения.
var Roles = []Role{RoleGuest, RoleVIP, RoleAdmin, RoleSuperAdmin, RoleLiaison}

// Profile один профиль на пользователя.
type Profile struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name,omitempty"`
	Role         Role      `json:"role"`
	Organization string    `json:"organization,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Actor пользователь, от имени которого выполняется запрос.
type Actor struct {
	ID    string
	Email string
	Role  Role
}

// DisplayName имя для писем и админки.
func (p Profile) DisplayName() string {
	if p.FullName != "" {
		return p.FullName
	}
	if p.Email != "" {
		return p.Email
	}
	return "Guest"
}
