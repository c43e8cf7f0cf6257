package remove

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/hotel-booking/internal/http/middlewarectx"
	"github.com/magabrotheeeer/hotel-booking/internal/models"
	"github.com/magabrotheeeer/hotel-booking/internal/services/hotel"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Delete(ctx context.Context, actor models.Actor, id string) error {
	return m.Called(ctx, actor, id).Error(0)
}

func TestRemoveHandler(t *testing.T) {
	const id = "5b0c7d0e-3f4a-4b7e-9a51-8d2f3c1e6a90"
	owner := models.Actor{ID: "a-1", Role: models.RoleAdmin}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name           string
		serviceErr     error
		expectedStatus int
	}{
		{name: "deleted", expectedStatus: http.StatusOK},
		{name: "not owner", serviceErr: hotel.ErrForbidden, expectedStatus: http.StatusForbidden},
		{name: "missing", serviceErr: hotel.ErrNotFound, expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			svc.On("Delete", mock.Anything, owner, id).Return(tt.serviceErr).Once()

			req := httptest.NewRequest(http.MethodDelete, "/admin/hotels/"+id, nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", id)
			ctx := middlewarectx.WithActor(context.WithValue(req.Context(), chi.RouteCtxKey, rctx), owner)
			w := httptest.NewRecorder()

			New(logger, svc).ServeHTTP(w, req.WithContext(ctx))

			assert.Equal(t, tt.expectedStatus, w.Code)
			svc.AssertExpectations(t)
		})
	}
}
