package block

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/hotel-booking/internal/http/middlewarectx"
	"github.com/magabrotheeeer/hotel-booking/internal/lib/stay"
	"github.com/magabrotheeeer/hotel-booking/internal/models"
	"github.com/magabrotheeeer/hotel-booking/internal/services/booking"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Block(ctx context.Context, actor models.Actor, req models.BlockRequest) ([]string, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

const roomID = "0f8fad5b-d9cb-469f-a165-70867728950e"

func TestBlockHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	admin := models.Actor{ID: "a-1", Role: models.RoleAdmin}
	body := `{"room_ids":["` + roomID + `"],"start_date":"2026-08-16","end_date":"2026-08-18","reason":"Event"}`
	req := models.BlockRequest{RoomIDs: []string{roomID}, StartDate: "2026-08-16", EndDate: "2026-08-18", Reason: "Event"}

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "blocked",
			body: body,
			setupMock: func(m *MockService) {
				m.On("Block", mock.Anything, admin, req).Return([]string{"b-1"}, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"booking_ids":["b-1"]`,
		},
		{
			name:           "no rooms",
			body:           `{"room_ids":[],"start_date":"2026-08-16","end_date":"2026-08-18"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "foreign room",
			body: body,
			setupMock: func(m *MockService) {
				m.On("Block", mock.Anything, admin, req).
					Return(nil, fmt.Errorf("booking.Block: room %s: %w", roomID, booking.ErrForbidden))
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name: "reversed period",
			body: body,
			setupMock: func(m *MockService) {
				m.On("Block", mock.Anything, admin, req).Return(nil, stay.ErrInvalidRange)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   stay.ErrInvalidRange.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			r := httptest.NewRequest(http.MethodPost, "/admin/inventory/block", strings.NewReader(tt.body))
			r = r.WithContext(middlewarectx.WithActor(r.Context(), admin))
			w := httptest.NewRecorder()
			New(logger, svc).ServeHTTP(w, r)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			svc.AssertExpectations(t)
		})
	}
}
