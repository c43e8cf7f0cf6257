// Package status реализует HTTP-обработчик смены статуса групповой заявки.
package status

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

// Request новый статус и заметки координатора.
type Request struct {
	Status string `json:"status" validate:"required"`
	Notes  string `json:"notes"`
}

// Handler меняет статус заявки.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс смены статуса.
type Service interface {
	SetStatus(ctx context.Context, actor models.Actor, id, status, notes string) error
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
// @Summary Статус групповой заявки
// @Tags GroupRequests
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "ID заявки"
// @Param request body Request true "pending, approved, rejected, closed"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /admin/group-requests/{id}/status [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.grouprequests.status"
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

	err = h.service.SetStatus(r.Context(), actor, id.String(), req.Status, req.Notes)
	switch {
	case errors.Is(err, grouprequest.ErrForbidden):
		response.Fail(w, r, http.StatusForbidden, "forbidden")
		return
	case errors.Is(err, grouprequest.ErrInvalidStatus):
		response.Fail(w, r, http.StatusUnprocessableEntity, grouprequest.ErrInvalidStatus.Error())
		return
	case errors.Is(err, grouprequest.ErrNotFound):
		response.Fail(w, r, http.StatusNotFound, grouprequest.ErrNotFound.Error())
		return
	case err != nil:
		log.Error("failed to update group request", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "could not update group request")
		return
	}
	render.JSON(w, r, response.OKWithData(map[string]any{
		"status": req.Status,
	}))
}
