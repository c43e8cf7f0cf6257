package middlewarectx_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/hotel-booking/internal/http/middlewarectx"
	"github.com/magabrotheeeer/hotel-booking/internal/lib/jwt"
	"github.com/magabrotheeeer/hotel-booking/internal/models"
	"github.com/magabrotheeeer/hotel-booking/internal/storage"
)

type ParserMock struct {
	mock.Mock
}

func (m *ParserMock) ParseToken(tokenStr string) (*jwt.Claims, error) {
	args := m.Called(tokenStr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*jwt.Claims), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

var guest = models.Actor{ID: "u-1", Email: "guest@example.com", Role: models.RoleGuest}

func guestClaims() *jwt.Claims {
	return &jwt.Claims{UserID: guest.ID, Email: guest.Email, Role: guest.Role}
}

func TestJWTMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		authHeader     string
		setup          func(*ParserMock)
		wantStatusCode int
		wantCalled     bool
	}{
		{
			name:           "missing Authorization header",
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "invalid Authorization header prefix",
			authHeader:     "Basic sometoken",
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:       "token parse error",
			authHeader: "Bearer bad",
			setup: func(m *ParserMock) {
				m.On("ParseToken", "bad").Return(nil, errors.New("expired")).Once()
			},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:       "valid token",
			authHeader: "Bearer good",
			setup: func(m *ParserMock) {
				m.On("ParseToken", "good").Return(guestClaims(), nil).Once()
			},
			wantStatusCode: http.StatusOK,
			wantCalled:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := new(ParserMock)
			if tt.setup != nil {
				tt.setup(parser)
			}

			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				actor, ok := middlewarectx.ActorFromContext(r.Context())
				assert.True(t, ok)
				assert.Equal(t, guest, actor)
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/bookings/my", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			middlewarectx.JWTMiddleware(parser, newNoopLogger())(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.Equal(t, tt.wantCalled, called)
			parser.AssertExpectations(t)
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	parser := new(ParserMock)
	parser.On("ParseToken", "good").Return(guestClaims(), nil)
	parser.On("ParseToken", "bad").Return(nil, errors.New("bad token"))

	tests := []struct {
		name       string
		authHeader string
		wantActor  bool
	}{
		{name: "anonymous", wantActor: false},
		{name: "bad token", authHeader: "Bearer bad", wantActor: false},
		{name: "good token", authHeader: "Bearer good", wantActor: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotActor bool
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, gotActor = middlewarectx.ActorFromContext(r.Context())
			})

			req := httptest.NewRequest(http.MethodPost, "/group-requests", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			middlewarectx.OptionalAuth(parser)(next).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.wantActor, gotActor)
		})
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name     string
		actor    *models.Actor
		wantCode int
	}{
		{name: "anonymous", wantCode: http.StatusUnauthorized},
		{name: "guest", actor: &guest, wantCode: http.StatusForbidden},
		{name: "admin", actor: &models.Actor{ID: "a-1", Role: models.RoleAdmin}, wantCode: http.StatusOK},
		{name: "super admin", actor: &models.Actor{ID: "s-1", Role: models.RoleSuperAdmin}, wantCode: http.StatusOK},
	}

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := middlewarectx.RequireRole(newNoopLogger(), models.RoleAdmin, models.RoleSuperAdmin)(next)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
			if tt.actor != nil {
				req = req.WithContext(middlewarectx.WithActor(req.Context(), *tt.actor))
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

type ProfilesMock struct {
	mock.Mock
}

func (m *ProfilesMock) GetProfile(ctx context.Context, id string) (models.Profile, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Profile), args.Error(1)
}

func TestProfileMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		actor      *models.Actor
		setup      func(*ProfilesMock)
		wantCode   int
		wantCalled bool
		wantRole   models.Role
	}{
		{name: "anonymous", wantCode: http.StatusUnauthorized},
		{
			name:  "role from profile",
			actor: &guest,
			setup: func(m *ProfilesMock) {
				m.On("GetProfile", mock.Anything, guest.ID).
					Return(models.Profile{ID: guest.ID, Email: guest.Email, Role: models.RoleVIP}, nil).Once()
			},
			wantCode:   http.StatusOK,
			wantCalled: true,
			wantRole:   models.RoleVIP,
		},
		{
			name:  "deleted user",
			actor: &guest,
			setup: func(m *ProfilesMock) {
				m.On("GetProfile", mock.Anything, guest.ID).
					Return(models.Profile{}, storage.ErrNotFound).Once()
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:  "storage error",
			actor: &guest,
			setup: func(m *ProfilesMock) {
				m.On("GetProfile", mock.Anything, guest.ID).
					Return(models.Profile{}, errors.New("connection refused")).Once()
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profiles := new(ProfilesMock)
			if tt.setup != nil {
				tt.setup(profiles)
			}

			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				actor, ok := middlewarectx.ActorFromContext(r.Context())
				assert.True(t, ok)
				assert.Equal(t, tt.wantRole, actor.Role)
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/bookings/my", nil)
			if tt.actor != nil {
				req = req.WithContext(middlewarectx.WithActor(req.Context(), *tt.actor))
			}
			rec := httptest.NewRecorder()
			middlewarectx.ProfileMiddleware(newNoopLogger(), profiles)(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantCalled, called)
			profiles.AssertExpectations(t)
		})
	}
}

func TestProfileMiddleware_DemotedAdminLosesAdminRoutes(t *testing.T) {
	parser := new(ParserMock)
	parser.On("ParseToken", "admin-token").
		Return(&jwt.Claims{UserID: "u-9", Email: "former@example.com", Role: models.RoleAdmin}, nil)
	profiles := new(ProfilesMock)
	profiles.On("GetProfile", mock.Anything, "u-9").
		Return(models.Profile{ID: "u-9", Email: "former@example.com", Role: models.RoleGuest}, nil)

	reached := false
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	})
	log := newNoopLogger()
	h := middlewarectx.JWTMiddleware(parser, log)(
		middlewarectx.ProfileMiddleware(log, profiles)(
			middlewarectx.RequireRole(log, models.RoleAdmin, models.RoleSuperAdmin)(next)))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/bookings", nil)
	req.Header.Set("Authorization", "Bearer admin-token")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, reached)
}

func TestRateLimitMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := middlewarectx.RateLimitMiddleware(newNoopLogger(), 0.001, 2)(next)

	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodGet, "/hotels", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	req := httptest.NewRequest(http.MethodGet, "/hotels", nil)
	req.RemoteAddr = "10.0.0.2:5555"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code, "another client has its own budget")
}
