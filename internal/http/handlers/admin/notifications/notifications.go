// Package notifications реализует HTTP-обработчик уведомлений текущего пользователя.
package notifications

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/hotel-booking/internal/http/middlewarectx"
	"github.com/magabrotheeeer/hotel-booking/internal/http/response"
	"github.com/magabrotheeeer/hotel-booking/internal/lib/sl"
	"github.com/magabrotheeeer/hotel-booking/internal/models"
)

// Handler отдаёт уведомления.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс чтения уведомлений.
type Service interface {
	List(ctx context.Context, actor models.Actor, limit int) ([]models.Notification, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Уведомления
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param limit query int false "Сколько последних уведомлений вернуть"
// @Success 200 {object} response.Response
// @Router /admin/notifications [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.notifications"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	actor, ok := middlewarectx.ActorFromContext(r.Context())
	if !ok {
		response.Fail(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	res, err := h.service.List(r.Context(), actor, limit)
	if err != nil {
		log.Error("failed to list notifications", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "could not list notifications")
		return
	}
	render.JSON(w, r, response.OKWithData(map[string]any{
		"notifications": res,
	}))
}
