// Package status реализует HTTP-обработчик смены статуса бронирования администратором.
package status

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/hotel-booking/internal/http/middlewarectx"
	"github.com/magabrotheeeer/hotel-booking/internal/http/response"
	"github.com/magabrotheeeer/hotel-booking/internal/lib/sl"
	"github.com/magabrotheeeer/hotel-booking/internal/models"
	"github.com/magabrotheeeer/hotel-booking/internal/services/booking"
)

// Request новый статус бронирования.
type Request struct {
	Status models.BookingStatus `json:"status" validate:"required"`
}

// Handler меняет статус бронирования.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс смены статуса.
type Service interface {
	UpdateStatus(ctx context.Context, actor models.Actor, id string, status models.BookingStatus) error
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
// @Summary Сменить статус бронирования
// @Description Изменение пишется в журнал аудита, гостю уходит письмо.
// @Tags Admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "ID бронирования"
// @Param request body Request true "Новый статус"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /admin/bookings/{id}/status [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.bookings.status"
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

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		response.Fail(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Invalid(w, r, err)
		return
	}

	err = h.service.UpdateStatus(r.Context(), actor, id.String(), req.Status)
	switch {
	case errors.Is(err, booking.ErrInvalidStatus):
		response.Fail(w, r, http.StatusUnprocessableEntity, booking.ErrInvalidStatus.Error())
		return
	case errors.Is(err, booking.ErrNotFound):
		response.Fail(w, r, http.StatusNotFound, "booking not found")
		return
	case errors.Is(err, booking.ErrForbidden):
		response.Fail(w, r, http.StatusForbidden, "forbidden")
		return
	case err != nil:
		log.Error("failed to update status", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "could not update status")
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"id":     id.String(),
		"status": req.Status,
	}))
}
