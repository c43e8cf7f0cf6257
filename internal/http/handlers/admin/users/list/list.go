// Package list реализует HTTP-обработчик списка пользователей для super_admin.
package list

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/hotel-booking/internal/http/middlewarectx"
	"github.com/magabrotheeeer/hotel-booking/internal/http/response"
	"github.com/magabrotheeeer/hotel-booking/internal/lib/sl"
	"github.com/magabrotheeeer/hotel-booking/internal/models"
	"github.com/magabrotheeeer/hotel-booking/internal/services/users"
)

// Handler отдаёт всех пользователей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс списка пользователей.
type Service interface {
	List(ctx context.Context, actor models.Actor) ([]models.Profile, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Пользователи
// @Tags SuperAdmin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Failure 403 {object} response.ErrorResponse
// @Router /admin/users [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.users.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	actor, ok := middlewarectx.ActorFromContext(r.Context())
	if !ok {
		response.Fail(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}

	res, err := h.service.List(r.Context(), actor)
	switch {
	case errors.Is(err, users.ErrForbidden):
		response.Fail(w, r, http.StatusForbidden, "forbidden")
		return
	case err != nil:
		log.Error("failed to list users", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "could not list users")
		return
	}
	render.JSON(w, r, response.OKWithData(map[string]any{
		"users": res,
	}))
}
