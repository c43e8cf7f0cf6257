// Package list реализует HTTP-обработчик списка бронирований в админке.
// super_admin видит все бронирования, admin только по своим отелям.
package list

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

// Handler отдаёт бронирования для админки.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс списка бронирований.
type Service interface {
	List(ctx context.Context, actor models.Actor) ([]models.BookingView, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Бронирования отелей
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param status query string false "Фильтр по статусу"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /admin/bookings [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.bookings.list"
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

	res, err := h.service.List(r.Context(), actor)
	if err != nil {
		log.Error("failed to list bookings", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "could not list bookings")
		return
	}

	if status := models.BookingStatus(r.URL.Query().Get("status")); status != "" {
		filtered := make([]models.BookingView, 0, len(res))
		for _, b := range res {
			if b.Status == status {
				filtered = append(filtered, b)
			}
		}
		res = filtered
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"bookings": res,
	}))
}
