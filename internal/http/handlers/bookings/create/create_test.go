package create

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/hotel-booking/internal/http/middlewarectx"
	"github.com/magabrotheeeer/hotel-booking/internal/lib/stay"
	"github.com/magabrotheeeer/hotel-booking/internal/models"
	"github.com/magabrotheeeer/hotel-booking/internal/services/booking"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, actor models.Actor, req models.BookingRequest) (models.BookingResult, error) {
	args := m.Called(ctx, actor, req)
	return args.Get(0).(models.BookingResult), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

var guest = models.Actor{ID: "u-1", Email: "guest@example.com", Role: models.RoleGuest}

func validRequest() models.BookingRequest {
	return models.BookingRequest{
		RoomID:        "0f8fad5b-d9cb-469f-a165-70867728950e",
		CheckIn:       "2026-08-16",
		CheckOut:      "2026-08-18",
		GuestPassport: "AB123456",
		GuestPhone:    "+97699112233",
	}
}

func TestCreateHandler(t *testing.T) {
	created := models.BookingResult{BookingID: "b-1", TotalPrice: 300000, Nights: 2,
		PaymentRedirectURL: "http://localhost:8080/mock-payment?transactionId=b-1"}

	tests := []struct {
		name           string
		body           any
		anonymous      bool
		mockRes        models.BookingResult
		mockErr        error
		callService    bool
		wantStatusCode int
		wantError      string
		wantBookingID  string
	}{
		{
			name:           "created",
			body:           validRequest(),
			mockRes:        created,
			callService:    true,
			wantStatusCode: http.StatusCreated,
			wantBookingID:  "b-1",
		},
		{
			name:           "anonymous",
			body:           validRequest(),
			anonymous:      true,
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "unauthorized",
		},
		{
			name:           "invalid json",
			body:           "{",
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request body",
		},
		{
			name: "room id is not uuid",
			body: func() models.BookingRequest {
				r := validRequest()
				r.RoomID = "42"
				return r
			}(),
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "field RoomID can contain only uuid",
		},
		{
			name:           "fully booked",
			body:           validRequest(),
			mockErr:        booking.ErrFullyBooked,
			callService:    true,
			wantStatusCode: http.StatusConflict,
			wantError:      booking.ErrFullyBooked.Error(),
		},
		{
			name:           "reversed dates",
			body:           validRequest(),
			mockErr:        stay.ErrInvalidRange,
			callService:    true,
			wantStatusCode: http.StatusBadRequest,
			wantError:      stay.ErrInvalidRange.Error(),
		},
		{
			name:           "malformed date",
			body:           validRequest(),
			mockErr:        fmt.Errorf("stay.Parse: check-in %q: %w", "16/08", stay.ErrBadDate),
			callService:    true,
			wantStatusCode: http.StatusBadRequest,
			wantError:      stay.ErrBadDate.Error(),
		},
		{
			name:           "check-in in the past",
			body:           validRequest(),
			mockErr:        booking.ErrPastCheckIn,
			callService:    true,
			wantStatusCode: http.StatusBadRequest,
			wantError:      booking.ErrPastCheckIn.Error(),
		},
		{
			name:           "unknown room",
			body:           validRequest(),
			mockErr:        fmt.Errorf("booking.Create: %w", booking.ErrNotFound),
			callService:    true,
			wantStatusCode: http.StatusNotFound,
			wantError:      "room not found",
		},
		{
			name:           "invoice failed",
			body:           validRequest(),
			mockRes:        models.BookingResult{BookingID: "b-2", TotalPrice: 300000, Nights: 2},
			mockErr:        fmt.Errorf("booking.Create: %w", booking.ErrPaymentUnavailable),
			callService:    true,
			wantStatusCode: http.StatusBadGateway,
			wantError:      booking.ErrPaymentUnavailable.Error(),
			wantBookingID:  "b-2",
		},
		{
			name:           "storage error",
			body:           validRequest(),
			mockErr:        errors.New("db error"),
			callService:    true,
			wantStatusCode: http.StatusInternalServerError,
			wantError:      "could not create booking",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			if tt.callService {
				svc.On("Create", mock.Anything, guest, tt.body).Return(tt.mockRes, tt.mockErr).Once()
			}

			var body []byte
			if s, ok := tt.body.(string); ok {
				body = []byte(s)
			} else {
				var err error
				body, err = json.Marshal(tt.body)
				require.NoError(t, err)
			}
			req := httptest.NewRequest(http.MethodPost, "/bookings", bytes.NewReader(body))
			if !tt.anonymous {
				req = req.WithContext(middlewarectx.WithActor(req.Context(), guest))
			}
			rec := httptest.NewRecorder()

			New(newNoopLogger(), svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			var got map[string]any
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			if tt.wantError != "" {
				assert.Equal(t, "Error", got["status"])
				assert.Equal(t, tt.wantError, got["error"])
			} else {
				assert.Equal(t, "OK", got["status"])
			}
			if tt.wantBookingID != "" {
				data, ok := got["data"].(map[string]any)
				require.True(t, ok)
				assert.Equal(t, tt.wantBookingID, data["booking_id"])
			}
			svc.AssertExpectations(t)
		})
	}
}
