// Package mockpay реализует страницу оплаты для mock-режима платёжного шлюза.
// Переход по ссылке счёта сразу подтверждает оплату и возвращает гостя на returnUrl.
package mockpay

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/hotel-booking/internal/http/response"
	"github.com/magabrotheeeer/hotel-booking/internal/lib/sl"
	"github.com/magabrotheeeer/hotel-booking/internal/models"
	"github.com/magabrotheeeer/hotel-booking/internal/paymentprovider"
	"github.com/magabrotheeeer/hotel-booking/internal/services/booking"
)

// Handler подтверждает mock-счёт.
type Handler struct {
	log       *slog.Logger
	service   Service
	publicURL string
}

// Service описывает интерфейс обработки оплаты.
type Service interface {
	PaymentCallback(ctx context.Context, cb models.PaymentCallback) (models.BookingStatus, error)
}

// New создает новый Handler. Перенаправление разрешено только внутри publicURL.
func New(log *slog.Logger, service Service, publicURL string) *Handler {
	return &Handler{
		log:       log,
		service:   service,
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

// ServeHTTP godoc
// @Summary Оплата в mock-режиме
// @Tags Payments
// @Param txnId query string true "ID бронирования"
// @Param amount query string true "Сумма"
// @Param checksum query string true "Подпись"
// @Param returnUrl query string false "Куда вернуть гостя"
// @Success 302
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Router /mock-payment [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payments.mockpay"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	q := r.URL.Query()
	cb := models.PaymentCallback{
		TransactionID: q.Get("txnId"),
		Amount:        q.Get("amount"),
		Checksum:      q.Get("checksum"),
	}
	if cb.TransactionID == "" || cb.Amount == "" || cb.Checksum == "" {
		response.Fail(w, r, http.StatusBadRequest, "txnId, amount and checksum are required")
		return
	}

	status, err := h.service.PaymentCallback(r.Context(), cb)
	switch {
	case errors.Is(err, paymentprovider.ErrChecksum), errors.Is(err, booking.ErrAmountMismatch):
		response.Fail(w, r, http.StatusBadRequest, "invalid invoice")
		return
	case errors.Is(err, booking.ErrNotFound):
		response.Fail(w, r, http.StatusNotFound, "booking not found")
		return
	case err != nil:
		log.Error("failed to settle mock invoice", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "could not settle invoice")
		return
	}
	log.Info("mock invoice settled", slog.String("booking_id", cb.TransactionID), slog.String("status", string(status)))

	if ret := q.Get("returnUrl"); ret != "" && h.publicURL != "" && strings.HasPrefix(ret, h.publicURL+"/") {
		http.Redirect(w, r, ret, http.StatusFound)
		return
	}
	render.JSON(w, r, response.OKWithData(map[string]any{
		"booking_id": cb.TransactionID,
		"status":     status,
	}))
}
