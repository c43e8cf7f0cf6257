package role

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/hotel-booking/internal/http/middlewarectx"
	"github.com/magabrotheeeer/hotel-booking/internal/lib/access"
	"github.com/magabrotheeeer/hotel-booking/internal/models"
	"github.com/magabrotheeeer/hotel-booking/internal/services/users"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) SetRole(ctx context.Context, actor models.Actor, id, role string) error {
	return m.Called(ctx, actor, id, role).Error(0)
}

func TestRoleHandler(t *testing.T) {
	const userID = "9b2d1c3e-1111-4a2b-8c3d-123456789abc"
	super := models.Actor{ID: "s-1", Role: models.RoleSuperAdmin}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name           string
		role           string
		serviceErr     error
		expectedStatus int
		expectedBody   string
	}{
		{name: "promoted", role: "admin", expectedStatus: http.StatusOK},
		{name: "unknown role", role: "owner", serviceErr: access.ErrUnknownRole,
			expectedStatus: http.StatusUnprocessableEntity},
		{name: "own account", role: "guest", serviceErr: users.ErrSelf,
			expectedStatus: http.StatusForbidden, expectedBody: users.ErrSelf.Error()},
		{name: "not super admin", role: "admin", serviceErr: users.ErrForbidden,
			expectedStatus: http.StatusForbidden, expectedBody: "forbidden"},
		{name: "missing user", role: "vip", serviceErr: users.ErrNotFound, expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			svc.On("SetRole", mock.Anything, super, userID, tt.role).Return(tt.serviceErr).Once()

			req := httptest.NewRequest(http.MethodPut, "/admin/users/"+userID+"/role",
				strings.NewReader(`{"role":"`+tt.role+`"}`))
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", userID)
			ctx := middlewarectx.WithActor(context.WithValue(req.Context(), chi.RouteCtxKey, rctx), super)
			w := httptest.NewRecorder()

			New(logger, svc).ServeHTTP(w, req.WithContext(ctx))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			svc.AssertExpectations(t)
		})
	}
}
