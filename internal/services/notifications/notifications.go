// Package notifications уведомления в админке.
package notifications

import (
	"context"

	"github.com/magabrotheeeer/hotel-booking/internal/models"
)

const defaultLimit = 20

// Repository хранилище уведомлений.
type Repository interface {
	ListNotifications(ctx context.Context, userID string, limit int) ([]models.Notification, error)
}

// Service сервис уведомлений.
type Service struct {
	repo Repository
}

// NewService создаёт сервис.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List последние уведомления пользователя.
func (s *Service) List(ctx context.Context, actor models.Actor, limit int) ([]models.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = defaultLimit
	}
	return s.repo.ListNotifications(ctx, actor.ID, limit)
}
