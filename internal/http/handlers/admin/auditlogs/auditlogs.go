// Package auditlogs реализует HTTP-обработчик журнала административных действий.
package auditlogs

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/hotel-booking/internal/http/middlewarectx"
	"github.com/magabrotheeeer/hotel-booking/internal/http/response"
	"github.com/magabrotheeeer/hotel-booking/internal/lib/sl"
	"github.com/magabrotheeeer/hotel-booking/internal/models"
	"github.com/magabrotheeeer/hotel-booking/internal/services/users"
)

// Handler отдаёт журнал.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс чтения журнала.
type Service interface {
	AuditLogs(ctx context.Context, actor models.Actor, limit int) ([]models.AuditLog, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Журнал аудита
// @Tags SuperAdmin
// @Security BearerAuth
// @Produce json
// @Param limit query int false "Количество записей, по умолчанию 100"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.ErrorResponse
// @Router /admin/audit-logs [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.auditlogs"
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

	res, err := h.service.AuditLogs(r.Context(), actor, limit)
	switch {
	case errors.Is(err, users.ErrForbidden):
		response.Fail(w, r, http.StatusForbidden, "forbidden")
		return
	case err != nil:
		log.Error("failed to read audit logs", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "could not read audit logs")
		return
	}
	render.JSON(w, r, response.OKWithData(map[string]any{
		"logs": res,
	}))
}
