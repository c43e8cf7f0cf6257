// Package get реализует HTTP-обработчик карточки отеля с номерами.
package get

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
	"github.com/magabrotheeeer/hotel-booking/internal/models"
	"github.com/magabrotheeeer/hotel-booking/internal/services/hotel"
)

// Handler отдаёт отель по ID.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс чтения отеля.
type Service interface {
	Details(ctx context.Context, id string) (models.HotelDetails, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Карточка отеля
// @Tags Hotels
// @Produce json
// @Param id path string true "ID отеля"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /hotels/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.hotels.get"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		log.Warn("failed to decode id from url", sl.Err(err))
		response.Fail(w, r, http.StatusBadRequest, "invalid hotel id")
		return
	}

	res, err := h.service.Details(r.Context(), id.String())
	switch {
	case errors.Is(err, hotel.ErrNotFound):
		response.Fail(w, r, http.StatusNotFound, "hotel not found")
		return
	case err != nil:
		log.Error("failed to read hotel", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "could not read hotel")
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"hotel": res,
	}))
}
