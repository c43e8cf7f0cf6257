// Package mine реализует HTTP-обработчик списка бронирований текущего пользователя.
package mine

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/hotel-booking/internal/http/middlewarectx"
	"github.com/magabrotheeeer/hotel-booking/internal/http/response"
	"github.com/magabrotheeeer/hotel-booking/internal/lib/sl"
	"github.com/magabrotheeeer/hotel-booking/internal/models"
)

// Handler отдаёт бронирования пользователя, новые первыми.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс чтения своих бронирований.
type Service interface {
	Mine(ctx context.Context, actor models.Actor) ([]models.BookingView, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Мои бронирования
// @Tags Bookings
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /bookings/my [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.bookings.mine"
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

	res, err := h.service.Mine(r.Context(), actor)
	if err != nil {
		log.Error("failed to list bookings", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "could not list bookings")
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"bookings": res,
	}))
}
