// Package callback принимает уведомления платёжного шлюза Golomt.
//
// Подпись уведомления и сумма сверяются с бронированием, статус оплаты
// перепроверяется запросом к шлюзу. Повторные уведомления безопасны.
package callback

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/hotel-booking/internal/http/response"
	"github.com/magabrotheeeer/hotel-booking/internal/lib/sl"
	"github.com/magabrotheeeer/hotel-booking/internal/models"
	"github.com/magabrotheeeer/hotel-booking/internal/paymentprovider"
	"github.com/magabrotheeeer/hotel-booking/internal/services/booking"
)

// Handler обрабатывает уведомления об оплате.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс обработки уведомления.
type Service interface {
	PaymentCallback(ctx context.Context, cb models.PaymentCallback) (models.BookingStatus, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Уведомление об оплате
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body models.PaymentCallback true "Уведомление шлюза"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 502 {object} response.ErrorResponse
// @Router /payments/callback [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payments.callback"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.PaymentCallback
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode callback", sl.Err(err))
		response.Fail(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		log.Warn("validation failed", sl.Err(err))
		response.Invalid(w, r, err)
		return
	}
	log = log.With(slog.String("booking_id", req.TransactionID))

	status, err := h.service.PaymentCallback(r.Context(), req)
	switch {
	case errors.Is(err, paymentprovider.ErrChecksum):
		log.Warn("callback checksum mismatch")
		response.Fail(w, r, http.StatusBadRequest, "invalid checksum")
		return
	case errors.Is(err, booking.ErrAmountMismatch):
		log.Warn("callback amount mismatch", slog.String("amount", req.Amount))
		response.Fail(w, r, http.StatusBadRequest, booking.ErrAmountMismatch.Error())
		return
	case errors.Is(err, booking.ErrNotFound):
		response.Fail(w, r, http.StatusNotFound, "booking not found")
		return
	case errors.Is(err, booking.ErrPaymentUnavailable):
		log.Error("payment gateway unavailable", sl.Err(err))
		response.Fail(w, r, http.StatusBadGateway, booking.ErrPaymentUnavailable.Error())
		return
	case err != nil:
		log.Error("failed to process callback", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "could not process callback")
		return
	}

	log.Info("callback processed", slog.String("status", string(status)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"booking_id": req.TransactionID,
		"status":     status,
	}))
}
