// Package auth регистрация гостей и вход с выдачей JWT.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/magabrotheeeer/hotel-booking/internal/lib/jwt"
	"github.com/magabrotheeeer/hotel-booking/internal/lib/password"
	"github.com/magabrotheeeer/hotel-booking/internal/models"
	"github.com/magabrotheeeer/hotel-booking/internal/storage"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ProfileRepository описывает контракт для работы с профилями пользователей.
type ProfileRepository interface {
	// CreateProfile сохраняет профиль и возвращает его ID.
	CreateProfile(ctx context.Context, actor models.Actor, p models.Profile) (string, error)
	// GetProfileByEmail ищет профиль без учёта регистра email.
	GetProfileByEmail(ctx context.Context, email string) (models.Profile, error)
}

// Service отвечает за регистрацию и вход.
type Service struct {
	profiles ProfileRepository
	jwtMaker jwt.Maker
}

// NewService создает новый экземпляр Service.
func NewService(profiles ProfileRepository, jwtMaker jwt.Maker) *Service {
	return &Service{profiles: profiles, jwtMaker: jwtMaker}
}

// Register создает профиль гостя с хэшированным паролем.
func (s *Service) Register(ctx context.Context, req models.RegisterRequest) (string, error) {
	const op = "auth.Register"
	hashed, err := password.GetHash(req.Password)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	id, err := s.profiles.CreateProfile(ctx, storage.System, models.Profile{
		Email:        normalizeEmail(req.Email),
		FullName:     strings.TrimSpace(req.FullName),
		Role:         models.RoleGuest,
		PasswordHash: hashed,
	})
	if errors.Is(err, storage.ErrAlreadyExists) {
		return "", ErrEmailTaken
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// Login проверяет пароль и выдаёт JWT с ID, email и ролью пользователя.
func (s *Service) Login(ctx context.Context, req models.LoginRequest) (string, models.Profile, error) {
	const op = "auth.Login"
	p, err := s.profiles.GetProfileByEmail(ctx, normalizeEmail(req.Email))
	if errors.Is(err, storage.ErrNotFound) {
		return "", models.Profile{}, ErrInvalidCredentials
	}
	if err != nil {
		return "", models.Profile{}, fmt.Errorf("%s: %w", op, err)
	}
	if p.PasswordHash == "" {
		return "", models.Profile{}, ErrInvalidCredentials
	}
	if err := password.CompareHash(p.PasswordHash, req.Password); err != nil {
		return "", models.Profile{}, ErrInvalidCredentials
	}
	token, err := s.jwtMaker.GenerateToken(p.ID, p.Email, p.Role)
	if err != nil {
		return "", models.Profile{}, fmt.Errorf("%s: %w", op, err)
	}
	return token, p, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
