// Package list реализует HTTP-обработчик списка групповых заявок для сотрудников.
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
	"github.com/magabrotheeeer/hotel-booking/internal/services/grouprequest"
)

// Handler отдаёт групповые заявки.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс списка заявок.
type Service interface {
	List(ctx context.Context, actor models.Actor) ([]models.GroupRequest, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Групповые заявки
// @Tags GroupRequests
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Failure 403 {object} response.ErrorResponse
// @Router /admin/group-requests [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.grouprequests.list"
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
	case errors.Is(err, grouprequest.ErrForbidden):
		response.Fail(w, r, http.StatusForbidden, "forbidden")
		return
	case err != nil:
		log.Error("failed to list group requests", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "could not list group requests")
		return
	}
	render.JSON(w, r, response.OKWithData(map[string]any{
		"requests": res,
	}))
}
