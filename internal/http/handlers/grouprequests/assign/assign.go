// Package assign реализует HTTP-обработчик назначения координатора на заявку.
package assign

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/hotel-booking/internal/http/middlewarectx"
	"github.com/magabrotheeeer/hotel-booking/internal/http/response"
	"github.com/magabrotheeeer/hotel-booking/internal/lib/sl"
	"github.com/magabrotheeeer/hotel-booking/internal/models"
	"github.com/magabrotheeeer/hotel-booking/internal/services/grouprequest"
)

// Request тело запроса назначения.
type Request struct {
	LiaisonID string `json:"liaison_id" validate:"required,uuid"`
}

// Handler назначает координатора.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс назначения.
type Service interface {
	Assign(ctx context.Context, actor models.Actor, id, liaisonID string) error
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
// @Summary Назначить координатора
// @Tags GroupRequests
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "ID заявки"
// @Param request body Request true "Координатор"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /admin/group-requests/{id}/assign [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.grouprequests.assign"
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
		response.Fail(w, r, http.StatusBadRequest, "invalid group request id")
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		response.Fail(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Invalid(w, r, err)
		return
	}

	err = h.service.Assign(r.Context(), actor, id.String(), req.LiaisonID)
	switch {
	case errors.Is(err, grouprequest.ErrForbidden):
		response.Fail(w, r, http.StatusForbidden, "forbidden")
		return
	case errors.Is(err, grouprequest.ErrNotLiaison):
		response.Fail(w, r, http.StatusUnprocessableEntity, grouprequest.ErrNotLiaison.Error())
		return
	case errors.Is(err, grouprequest.ErrNotFound):
		response.Fail(w, r, http.StatusNotFound, grouprequest.ErrNotFound.Error())
		return
	case err != nil:
		log.Error("failed to assign liaison", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "could not assign liaison")
		return
	}
	render.JSON(w, r, response.OK())
}
