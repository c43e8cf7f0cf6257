package callback

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/hotel-booking/internal/models"
	"github.com/magabrotheeeer/hotel-booking/internal/paymentprovider"
	"github.com/magabrotheeeer/hotel-booking/internal/services/booking"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) PaymentCallback(ctx context.Context, cb models.PaymentCallback) (models.BookingStatus, error) {
	args := m.Called(ctx, cb)
	return args.Get(0).(models.BookingStatus), args.Error(1)
}

const txn = "7c9e6679-7425-40de-944b-e07fc1f90ae7"

func TestCallbackHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	body := `{"transactionId":"` + txn + `","amount":"300000.00","checksum":"abc"}`
	cb := models.PaymentCallback{TransactionID: txn, Amount: "300000.00", Checksum: "abc"}

	tests := []struct {
		name           string
		body           string
		mockStatus     models.BookingStatus
		mockErr        error
		callService    bool
		expectedStatus int
		expectedBody   string
	}{
		{name: "paid", body: body, mockStatus: models.StatusPaid, callService: true,
			expectedStatus: http.StatusOK, expectedBody: `"status":"paid"`},
		{name: "still pending", body: body, mockStatus: models.StatusPending, callService: true,
			expectedStatus: http.StatusOK, expectedBody: `"status":"pending"`},
		{name: "bad checksum", body: body, mockErr: fmt.Errorf("verify: %w", paymentprovider.ErrChecksum),
			callService: true, expectedStatus: http.StatusBadRequest, expectedBody: "invalid checksum"},
		{name: "wrong amount", body: body, mockErr: booking.ErrAmountMismatch, callService: true,
			expectedStatus: http.StatusBadRequest},
		{name: "unknown booking", body: body, mockErr: booking.ErrNotFound, callService: true,
			expectedStatus: http.StatusNotFound},
		{name: "gateway down", body: body, mockErr: booking.ErrPaymentUnavailable, callService: true,
			expectedStatus: http.StatusBadGateway},
		{name: "storage error", body: body, mockErr: errors.New("db"), callService: true,
			expectedStatus: http.StatusInternalServerError},
		{name: "missing checksum", body: `{"transactionId":"` + txn + `","amount":"1.00"}`,
			expectedStatus: http.StatusUnprocessableEntity, expectedBody: "field Checksum is a required field"},
		{name: "garbage", body: `nope`, expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			if tt.callService {
				svc.On("PaymentCallback", mock.Anything, cb).Return(tt.mockStatus, tt.mockErr).Once()
			}

			req := httptest.NewRequest(http.MethodPost, "/payments/callback", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			New(logger, svc).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			svc.AssertExpectations(t)
		})
	}
}
