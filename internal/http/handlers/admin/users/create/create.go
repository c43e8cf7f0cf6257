// Package create реализует HTTP-обработчик создания пользователя super_admin'ом.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/hotel-booking/internal/http/middlewarectx"
	"github.com/magabrotheeeer/hotel-booking/internal/http/response"
	"github.com/magabrotheeeer/hotel-booking/internal/lib/access"
	"github.com/magabrotheeeer/hotel-booking/internal/lib/sl"
	"github.com/magabrotheeeer/hotel-booking/internal/models"
	"github.com/magabrotheeeer/hotel-booking/internal/services/users"
)

// Handler создаёт пользователя с любой ролью.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс создания пользователя.
type Service interface {
	Create(ctx context.Context, actor models.Actor, req models.CreateUserRequest) (string, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Создать пользователя
// @Tags SuperAdmin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.CreateUserRequest true "Пользователь"
// @Success 201 {object} response.Response
// @Failure 403 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /admin/users [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.users.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	actor, ok := middlewarectx.ActorFromContext(r.Context())
	if !ok {
		response.Fail(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req models.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		response.Fail(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Invalid(w, r, err)
		return
	}

	id, err := h.service.Create(r.Context(), actor, req)
	switch {
	case errors.Is(err, users.ErrForbidden):
		response.Fail(w, r, http.StatusForbidden, "forbidden")
		return
	case errors.Is(err, access.ErrUnknownRole):
		response.Fail(w, r, http.StatusUnprocessableEntity, access.ErrUnknownRole.Error())
		return
	case errors.Is(err, users.ErrEmailTaken):
		response.Fail(w, r, http.StatusConflict, users.ErrEmailTaken.Error())
		return
	case err != nil:
		log.Error("failed to create user", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "could not create user")
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"id": id,
	}))
}
