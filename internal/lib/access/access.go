// Package access отвечает на вопрос "может ли пользователь это сделать".
//
// Роль читается из профиля и сравнивается с небольшим перечнем ролей.
// Для записи в бронирование дополнительно проверяется владелец.
package access

import (
	"errors"
	"strings"

	"github.com/magabrotheeeer/hotel-booking/internal/models"
)

// ErrUnknownRole строка не является известной ролью.
var ErrUnknownRole = errors.New("unknown role")

// IsAdmin истинно только для admin и super_admin.
func IsAdmin(role models.Role) bool {
	return role == models.RoleAdmin || role == models.RoleSuperAdmin
}

// IsSuperAdmin истинно только для super_admin.
func IsSuperAdmin(role models.Role) bool {
	return role == models.RoleSuperAdmin
}

// CanMutate разрешает изменение записи владельцу и администраторам.
func CanMutate(actor models.Actor, ownerID string) bool {
	if IsAdmin(actor.Role) {
		return true
	}
	return actor.ID != "" && actor.ID == ownerID
}

// CanManageHotel разрешает управление отелем его владельцу-администратору
// и super_admin.
func CanManageHotel(actor models.Actor, ownerID string) bool {
	if IsSuperAdmin(actor.Role) {
		return true
	}
	return actor.Role == models.RoleAdmin && actor.ID != "" && actor.ID == ownerID
}

// CanHandleGroupRequests роли, которые работают с групповыми заявками.
func CanHandleGroupRequests(role models.Role) bool {
	return IsAdmin(role) || role == models.RoleLiaison
}

// SeesAllHotels сообщает, что фильтр по владельцу отеля не нужен.
func SeesAllHotels(role models.Role) bool {
	return IsSuperAdmin(role)
}

// ParseRole разбирает строку роли без учёта регистра и пробелов по краям.
func ParseRole(s string) (models.Role, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, r := range models.Roles {
		if string(r) == s {
			return r, nil
		}
	}
	return "", ErrUnknownRole
}
