package mine

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
	"github.com/magabrotheeeer/hotel-booking/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Mine(ctx context.Context, actor models.Actor) ([]models.BookingView, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.BookingView), args.Error(1)
}

func TestMineHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	guest := models.Actor{ID: "u-1", Role: models.RoleGuest}

	t.Run("lists bookings", func(t *testing.T) {
		svc := new(MockService)
		svc.On("Mine", mock.Anything, guest).Return([]models.BookingView{{
			Booking:   models.Booking{ID: "b-1", Status: models.StatusPaid, GuestPassportEncrypted: "secret"},
			RoomName:  "Deluxe",
			HotelName: "Blue Sky",
		}}, nil)

		req := httptest.NewRequest(http.MethodGet, "/bookings/my", nil)
		req = req.WithContext(middlewarectx.WithActor(req.Context(), guest))
		w := httptest.NewRecorder()
		New(logger, svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"hotel_name":"Blue Sky"`)
		assert.NotContains(t, w.Body.String(), "secret")
	})

	t.Run("anonymous", func(t *testing.T) {
		w := httptest.NewRecorder()
		New(logger, new(MockService)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bookings/my", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("service error", func(t *testing.T) {
		svc := new(MockService)
		svc.On("Mine", mock.Anything, guest).Return(nil, errors.New("db error"))

		req := httptest.NewRequest(http.MethodGet, "/bookings/my", nil)
		req = req.WithContext(middlewarectx.WithActor(req.Context(), guest))
		w := httptest.NewRecorder()
		New(logger, svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
