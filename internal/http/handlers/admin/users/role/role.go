// Package role реализует HTTP-обработчик смены роли пользователя.
package role

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/hotel-booking/internal/http/middlewarectx"
	"github.com/magabrotheeeer/hotel-booking/internal/http/response"
	"github.com/magabrotheeeer/hotel-booking/internal/lib/access"
	"github.com/magabrotheeeer/hotel-booking/internal/lib/sl"
	"github.com/magabrotheeeer/hotel-booking/internal/models"
	"github.com/magabrotheeeer/hotel-booking/internal/services/users"
)

// Request новая роль.
type Request struct {
	Role string `json:"role"`
}

// Handler меняет роль.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс смены роли.
type Service interface {
	SetRole(ctx context.Context, actor models.Actor, id, role string) error
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Сменить роль пользователя
// @Tags SuperAdmin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "ID пользователя"
// @Param request body Request true "Роль: guest, vip, admin, super_admin, liaison"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /admin/users/{id}/role [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.users.role"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	actor, ok := middlewarectx.ActorFromContext(r.Context())
	if !ok {
		response.Fail(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Fail(w, r, http.StatusBadRequest, "invalid user id")
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		response.Fail(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	err = h.service.SetRole(r.Context(), actor, id.String(), req.Role)
	switch {
	case errors.Is(err, users.ErrSelf):
		response.Fail(w, r, http.StatusForbidden, users.ErrSelf.Error())
		return
	case errors.Is(err, users.ErrForbidden):
		response.Fail(w, r, http.StatusForbidden, "forbidden")
		return
	case errors.Is(err, access.ErrUnknownRole):
		response.Fail(w, r, http.StatusUnprocessableEntity, access.ErrUnknownRole.Error())
		return
	case errors.Is(err, users.ErrNotFound):
		response.Fail(w, r, http.StatusNotFound, users.ErrNotFound.Error())
		return
	case err != nil:
		log.Error("failed to set role", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "could not set role")
		return
	}

	render.JSON(w, r, response.OK())
}
