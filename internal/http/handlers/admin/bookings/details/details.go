// Package details реализует HTTP-обработчик карточки бронирования
// с расшифрованными паспортом, телефоном и пожеланиями гостя.
package details

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

// Handler отдаёт бронирование целиком.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс чтения бронирования.
type Service interface {
	Details(ctx context.Context, actor models.Actor, id string) (models.BookingDetails, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Бронирование с данными гостя
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param id path string true "ID бронирования"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /admin/bookings/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.bookings.details"
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

	res, err := h.service.Details(r.Context(), actor, id.String())
	switch {
	case errors.Is(err, booking.ErrNotFound):
		response.Fail(w, r, http.StatusNotFound, "booking not found")
		return
	case errors.Is(err, booking.ErrForbidden):
		response.Fail(w, r, http.StatusForbidden, "forbidden")
		return
	case err != nil:
		log.Error("failed to read booking", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "could not read booking")
		return
	}

	log.Info("guest data viewed", slog.String("booking_id", res.ID), sl.Actor(actor.ID, string(actor.Role)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"booking": res,
	}))
}
