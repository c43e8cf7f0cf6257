// Package submit реализует публичный HTTP-обработчик групповых заявок.
package submit

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
	"github.com/magabrotheeeer/hotel-booking/internal/lib/sl"
	"github.com/magabrotheeeer/hotel-booking/internal/lib/stay"
	"github.com/magabrotheeeer/hotel-booking/internal/models"
	"github.com/magabrotheeeer/hotel-booking/internal/services/grouprequest"
)

// Handler принимает заявку на групповое размещение.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс приёма заявки.
type Service interface {
	Submit(ctx context.Context, in models.GroupRequestInput) (string, error)
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
// @Summary Групповая заявка
// @Description Заявка организации на размещение от 5 гостей. Авторизация не требуется.
// @Tags GroupRequests
// @Accept json
// @Produce json
// @Param request body models.GroupRequestInput true "Заявка"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /group-requests [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.grouprequests.submit"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var in models.GroupRequestInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		response.Fail(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(in); err != nil {
		response.Invalid(w, r, err)
		return
	}

	id, err := h.service.Submit(r.Context(), in)
	switch {
	case errors.Is(err, grouprequest.ErrTooFewGuests):
		response.Fail(w, r, http.StatusBadRequest, grouprequest.ErrTooFewGuests.Error())
		return
	case errors.Is(err, stay.ErrBadDate):
		response.Fail(w, r, http.StatusBadRequest, stay.ErrBadDate.Error())
		return
	case errors.Is(err, stay.ErrInvalidRange):
		response.Fail(w, r, http.StatusBadRequest, stay.ErrInvalidRange.Error())
		return
	case err != nil:
		log.Error("failed to submit group request", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "could not submit group request")
		return
	}

	attrs := []any{slog.String("id", id)}
	if actor, ok := middlewarectx.ActorFromContext(r.Context()); ok {
		attrs = append(attrs, sl.Actor(actor.ID, string(actor.Role)))
	}
	log.Info("group request accepted", attrs...)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"id": id,
	}))
}
