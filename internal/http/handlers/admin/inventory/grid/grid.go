// Package grid реализует HTTP-обработчик сетки загрузки номеров.
//
// Параметры: start (YYYY-MM-DD, по умолчанию сегодня) и days (1..90,
// по умолчанию 21). Каждая ячейка содержит booked и available на ночь.
package grid

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/hotel-booking/internal/http/middlewarectx"
	"github.com/magabrotheeeer/hotel-booking/internal/http/response"
	"github.com/magabrotheeeer/hotel-booking/internal/lib/sl"
	"github.com/magabrotheeeer/hotel-booking/internal/lib/stay"
	"github.com/magabrotheeeer/hotel-booking/internal/models"
	"github.com/magabrotheeeer/hotel-booking/internal/services/availability"
)

// Handler строит сетку загрузки.
type Handler struct {
	log     *slog.Logger
	service Service
	now     func() time.Time
}

// Service описывает интерфейс расчёта сетки.
type Service interface {
	InventoryGrid(ctx context.Context, actor models.Actor, start time.Time, days int) (models.InventoryGrid, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
		now:     time.Now,
	}
}

// ServeHTTP godoc
// @Summary Сетка загрузки номеров
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param start query string false "Первый день YYYY-MM-DD"
// @Param days query int false "Количество дней, 1..90"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /admin/inventory [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.inventory.grid"
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

	start := stay.Day(h.now())
	if v := r.URL.Query().Get("start"); v != "" {
		parsed, err := time.Parse(stay.Layout, v)
		if err != nil {
			response.Fail(w, r, http.StatusBadRequest, stay.ErrBadDate.Error())
			return
		}
		start = parsed
	}
	days := 0
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			response.Fail(w, r, http.StatusBadRequest, availability.ErrGridDays.Error())
			return
		}
		days = n
	}

	grid, err := h.service.InventoryGrid(r.Context(), actor, start, days)
	switch {
	case errors.Is(err, availability.ErrGridDays):
		response.Fail(w, r, http.StatusBadRequest, availability.ErrGridDays.Error())
		return
	case err != nil:
		log.Error("failed to build inventory grid", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "could not build inventory grid")
		return
	}

	render.JSON(w, r, response.OKWithData(grid))
}
