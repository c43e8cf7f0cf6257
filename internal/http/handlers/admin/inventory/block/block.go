// Package block реализует HTTP-обработчик массовой блокировки номеров.
//
// Для каждого номера создаётся бронирование в статусе blocked с нулевой
// ценой, которое занимает одну единицу на каждую ночь периода.
package block

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/hotel-booking/internal/http/middlewarectx"
	"github.com/magabrotheeeer/hotel-booking/internal/http/response"
	"github.com/magabrotheeeer/hotel-booking/internal/lib/sl"
	"github.com/magabrotheeeer/hotel-booking/internal/lib/stay"
	"github.com/magabrotheeeer/hotel-booking/internal/models"
	"github.com/magabrotheeeer/hotel-booking/internal/services/booking"
)

// Handler блокирует номера.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс блокировки.
type Service interface {
	Block(ctx context.Context, actor models.Actor, req models.BlockRequest) ([]string, error)
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
// @Summary Заблокировать номера
// @Tags Admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.BlockRequest true "Номера и период"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /admin/inventory/block [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.inventory.block"
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

	var req models.BlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		response.Fail(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		log.Warn("validation failed", sl.Err(err))
		response.Invalid(w, r, err)
		return
	}

	ids, err := h.service.Block(r.Context(), actor, req)
	switch {
	case errors.Is(err, stay.ErrBadDate):
		response.Fail(w, r, http.StatusBadRequest, stay.ErrBadDate.Error())
		return
	case errors.Is(err, stay.ErrInvalidRange):
		response.Fail(w, r, http.StatusBadRequest, stay.ErrInvalidRange.Error())
		return
	case errors.Is(err, booking.ErrForbidden):
		log.Warn("block rejected", sl.Err(err))
		response.Fail(w, r, http.StatusForbidden, "forbidden")
		return
	case err != nil:
		log.Error("failed to block rooms", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "could not block rooms")
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"booking_ids": ids,
	}))
}
