// Package remove реализует HTTP-обработчик удаления отеля.
// Номера и бронирования отеля удаляются каскадом в базе.
package remove

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
	"github.com/magabrotheeeer/hotel-booking/internal/services/hotel"
)

// Handler удаляет отель.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс удаления отеля.
type Service interface {
	Delete(ctx context.Context, actor models.Actor, id string) error
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Удалить отель
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param id path string true "ID отеля"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /admin/hotels/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.hotels.remove"
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
		response.Fail(w, r, http.StatusBadRequest, "invalid hotel id")
		return
	}

	err = h.service.Delete(r.Context(), actor, id.String())
	switch {
	case errors.Is(err, hotel.ErrNotFound):
		response.Fail(w, r, http.StatusNotFound, "hotel not found")
		return
	case errors.Is(err, hotel.ErrForbidden):
		response.Fail(w, r, http.StatusForbidden, "forbidden")
		return
	case err != nil:
		log.Error("failed to delete hotel", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "could not delete hotel")
		return
	}

	log.Info("hotel deleted", slog.String("hotel_id", id.String()))
	render.JSON(w, r, response.OK())
}
