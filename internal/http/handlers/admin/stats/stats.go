// Package stats реализует HTTP-обработчик сводки для главной страницы админки.
package stats

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

// Handler отдаёт сводку.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс сводки.
type Service interface {
	Stats(ctx context.Context, actor models.Actor) (models.DashboardStats, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Сводка по бронированиям
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Failure 500 {object} response.ErrorResponse
// @Router /admin/stats [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.stats"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	actor, ok := middlewarectx.ActorFromContext(r.Context())
	if !ok {
		response.Fail(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}

	res, err := h.service.Stats(r.Context(), actor)
	if err != nil {
		log.Error("failed to compute stats", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "could not compute stats")
		return
	}
	render.JSON(w, r, response.OKWithData(res))
}
