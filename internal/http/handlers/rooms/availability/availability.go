// Package availability реализует HTTP-обработчик доступности номера на даты.
//
// Ответ содержит остаток по каждой ночи периода [check_in, check_out)
// и признак bookable: хотя бы одна единица свободна на все ночи.
package availability

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/hotel-booking/internal/http/response"
	"github.com/magabrotheeeer/hotel-booking/internal/lib/sl"
	"github.com/magabrotheeeer/hotel-booking/internal/lib/stay"
	"github.com/magabrotheeeer/hotel-booking/internal/models"
	"github.com/magabrotheeeer/hotel-booking/internal/storage"
)

// Handler считает доступность номера.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс расчёта доступности.
type Service interface {
	RoomAvailability(ctx context.Context, roomID string, rng stay.Range) (models.RoomAvailability, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Доступность номера
// @Tags Rooms
// @Produce json
// @Param id path string true "ID номера"
// @Param check_in query string true "Дата заезда YYYY-MM-DD"
// @Param check_out query string true "Дата выезда YYYY-MM-DD"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /rooms/{id}/availability [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.rooms.availability"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	roomID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Fail(w, r, http.StatusBadRequest, "invalid room id")
		return
	}

	rng, err := stay.Parse(r.URL.Query().Get("check_in"), r.URL.Query().Get("check_out"))
	switch {
	case errors.Is(err, stay.ErrBadDate):
		response.Fail(w, r, http.StatusBadRequest, stay.ErrBadDate.Error())
		return
	case errors.Is(err, stay.ErrInvalidRange):
		response.Fail(w, r, http.StatusBadRequest, stay.ErrInvalidRange.Error())
		return
	case err != nil:
		response.Fail(w, r, http.StatusBadRequest, "invalid dates")
		return
	}

	res, err := h.service.RoomAvailability(r.Context(), roomID.String(), rng)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		response.Fail(w, r, http.StatusNotFound, "room not found")
		return
	case err != nil:
		log.Error("failed to compute availability", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "could not compute availability")
		return
	}

	render.JSON(w, r, response.OKWithData(res))
}
