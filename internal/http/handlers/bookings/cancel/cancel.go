// Package cancel реализует HTTP-обработчик отмены бронирования.
//
// Отменить бронирование может его владелец или администратор.
// Отменяются только pending, paid и confirmed.
package cancel

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/hotel-booking/internal/http/middlewarectx"
	"github.com/magabrotheeeer/hotel-booking/internal/http/response"
	"github.com/magabrotheeeer/hotel-booking/internal/lib/sl"
	"github.com/magabrotheeeer/hotel-booking/internal/models"
	"github.com/magabrotheeeer/hotel-booking/internal/services/booking"
)

// Handler отменяет бронирование.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс отмены.
type Service interface {
	Cancel(ctx context.Context, actor models.Actor, id string) error
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Отменить бронирование
// @Tags Bookings
// @Security BearerAuth
// @Produce json
// @Param id path string true "ID бронирования"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /bookings/{id}/cancel [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.bookings.cancel"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	actor, ok := middlewarectx.ActorFromContext(r.Context())
	if !ok {
		log.Error("actor not found in context")
		response.Fail(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Fail(w, r, http.StatusBadRequest, "invalid booking id")
		return
	}

	err = h.service.Cancel(r.Context(), actor, id.String())
	switch {
	case errors.Is(err, booking.ErrNotFound):
		response.Fail(w, r, http.StatusNotFound, "booking not found")
		return
	case errors.Is(err, booking.ErrForbidden):
		log.Warn("cancel rejected", sl.Actor(actor.ID, string(actor.Role)), slog.String("booking_id", id.String()))
		response.Fail(w, r, http.StatusForbidden, "forbidden")
		return
	case errors.Is(err, booking.ErrNotCancellable):
		response.Fail(w, r, http.StatusConflict, booking.ErrNotCancellable.Error())
		return
	case err != nil:
		log.Error("failed to cancel booking", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "could not cancel booking")
		return
	}

	log.Info("booking cancelled", slog.String("booking_id", id.String()))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"status": models.StatusCancelled,
	}))
}
