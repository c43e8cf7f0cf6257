// Package jwt выпускает и проверяет токены доступа к API бронирования.
//
// В токене хранятся идентификатор профиля, email и роль. Роль из токена
// не используется для проверки прав: middlewarectx.ProfileMiddleware
// заменяет её ролью из профиля в базе на каждом запросе.
package jwt

import (
	"time"

	"github.com/magabrotheeeer/hotel-booking/internal/models"
)

// Maker выпускает и разбирает токены.
type Maker interface {
	GenerateToken(userID, email string, role models.Role) (string, error)
	ParseToken(tokenStr string) (*Claims, error)
}

// MakerImpl подписывает токены HS256 общим секретом.
type MakerImpl struct {
	secretKey string
	tokenTTL  time.Duration
}

// NewJWTMaker создаёт MakerImpl с секретом и временем жизни токена.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
