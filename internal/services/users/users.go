// Package users управление пользователями и журнал аудита для super_admin.
package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/hotel-booking/internal/lib/access"
	"github.com/magabrotheeeer/hotel-booking/internal/lib/password"
	"github.com/magabrotheeeer/hotel-booking/internal/lib/sl"
	"github.com/magabrotheeeer/hotel-booking/internal/models"
	"github.com/magabrotheeeer/hotel-booking/internal/storage"
)

// DefaultAuditLimit сколько записей журнала отдаётся без явного лимита.
const DefaultAuditLimit = 100

var (
	ErrForbidden  = errors.New("forbidden")
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already registered")
	ErrSelf       = errors.New("cannot change own account")
)

// Repository хранилище профилей и журнала.
type Repository interface {
	ListProfiles(ctx context.Context) ([]models.Profile, error)
	CreateProfile(ctx context.Context, actor models.Actor, p models.Profile) (string, error)
	UpdateRole(ctx context.Context, actor models.Actor, id string, role models.Role) error
	DeleteProfile(ctx context.Context, actor models.Actor, id string) error
	ListAuditLogs(ctx context.Context, limit int) ([]models.AuditLog, error)
}

// Service операции super_admin над пользователями.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// NewService создаёт сервис.
func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// List все профили, новые первыми.
func (s *Service) List(ctx context.Context, actor models.Actor) ([]models.Profile, error) {
	if !access.IsSuperAdmin(actor.Role) {
		return nil, ErrForbidden
	}
	return s.repo.ListProfiles(ctx)
}

// Create заводит пользователя с заданной ролью.
func (s *Service) Create(ctx context.Context, actor models.Actor, req models.CreateUserRequest) (string, error) {
	const op = "users.Create"
	if !access.IsSuperAdmin(actor.Role) {
		return "", ErrForbidden
	}
	role, err := access.ParseRole(string(req.Role))
	if err != nil {
		return "", err
	}
	hashed, err := password.GetHash(req.Password)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	id, err := s.repo.CreateProfile(ctx, actor, models.Profile{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		FullName:     strings.TrimSpace(req.FullName),
		Role:         role,
		Organization: req.Organization,
		PasswordHash: hashed,
	})
	if errors.Is(err, storage.ErrAlreadyExists) {
		return "", ErrEmailTaken
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("user created", slog.String("user_id", id), slog.String("role", string(role)),
		sl.Actor(actor.ID, string(actor.Role)))
	return id, nil
}

// SetRole меняет роль пользователя. Свою роль super_admin менять не может.
func (s *Service) SetRole(ctx context.Context, actor models.Actor, id, role string) error {
	const op = "users.SetRole"
	if !access.IsSuperAdmin(actor.Role) {
		return ErrForbidden
	}
	if id == actor.ID {
		return ErrSelf
	}
	parsed, err := access.ParseRole(role)
	if err != nil {
		return err
	}
	err = s.repo.UpdateRole(ctx, actor, id, parsed)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("role changed", slog.String("user_id", id), slog.String("role", string(parsed)),
		sl.Actor(actor.ID, string(actor.Role)))
	return nil
}

// Delete удаляет пользователя. Удалить себя нельзя.
func (s *Service) Delete(ctx context.Context, actor models.Actor, id string) error {
	const op = "users.Delete"
	if !access.IsSuperAdmin(actor.Role) {
		return ErrForbidden
	}
	if id == actor.ID {
		return ErrSelf
	}
	err := s.repo.DeleteProfile(ctx, actor, id)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("user deleted", slog.String("user_id", id), sl.Actor(actor.ID, string(actor.Role)))
	return nil
}

// AuditLogs последние записи журнала.
func (s *Service) AuditLogs(ctx context.Context, actor models.Actor, limit int) ([]models.AuditLog, error) {
	if !access.IsSuperAdmin(actor.Role) {
		return nil, ErrForbidden
	}
	if limit <= 0 || limit > 1000 {
		limit = DefaultAuditLimit
	}
	return s.repo.ListAuditLogs(ctx, limit)
}
