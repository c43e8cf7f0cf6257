// Package create реализует HTTP-обработчик создания бронирования гостем.
//
// Handler валидирует форму, передаёт её сервису бронирования и возвращает
// ID бронирования, сумму и ссылку на оплату. Если номер распродан на
// выбранные даты, отвечает 409.
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
	"github.com/magabrotheeeer/hotel-booking/internal/lib/sl"
	"github.com/magabrotheeeer/hotel-booking/internal/lib/stay"
	"github.com/magabrotheeeer/hotel-booking/internal/models"
	"github.com/magabrotheeeer/hotel-booking/internal/services/booking"
)

// Handler управляет HTTP-запросами на создание бронирования.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бронирования
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики создания бронирования.
type Service interface {
	Create(ctx context.Context, actor models.Actor, req models.BookingRequest) (models.BookingResult, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Забронировать номер
// @Description Создаёт бронирование в статусе pending и счёт на оплату.
// @Tags Bookings
// @Security BearerAuth
// @Accept  json
// @Produce  json
// @Param request body models.BookingRequest true "Форма бронирования"
// @Success 201 {object} response.Response "Бронирование создано"
// @Failure 400 {object} response.ErrorResponse "Некорректные даты или JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Номер не найден"
// @Failure 409 {object} response.ErrorResponse "Нет свободных номеров"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 502 {object} response.Response "Бронирование создано, счёт не выставлен"
// @Router /bookings [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.bookings.create"
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

	var req models.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		response.Fail(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		log.Warn("validation failed", sl.Err(err))
		response.Invalid(w, r, err)
		return
	}

	res, err := h.service.Create(r.Context(), actor, req)
	switch {
	case errors.Is(err, stay.ErrBadDate), errors.Is(err, stay.ErrInvalidRange), errors.Is(err, booking.ErrPastCheckIn):
		response.Fail(w, r, http.StatusBadRequest, rootMessage(err))
		return
	case errors.Is(err, booking.ErrFullyBooked):
		log.Info("room is fully booked", slog.String("room_id", req.RoomID))
		response.Fail(w, r, http.StatusConflict, booking.ErrFullyBooked.Error())
		return
	case errors.Is(err, booking.ErrNotFound):
		response.Fail(w, r, http.StatusNotFound, "room not found")
		return
	case errors.Is(err, booking.ErrPaymentUnavailable):
		log.Error("booking created without invoice", slog.String("booking_id", res.BookingID), sl.Err(err))
		render.Status(r, http.StatusBadGateway)
		render.JSON(w, r, response.Response{
			Status: response.StatusError,
			Error:  booking.ErrPaymentUnavailable.Error(),
			Data:   res,
		})
		return
	case err != nil:
		log.Error("failed to create booking", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "could not create booking")
		return
	}

	log.Info("booking created", slog.String("booking_id", res.BookingID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OKWithData(res))
}

// rootMessage сообщение клиентской ошибки без служебного префикса.
func rootMessage(err error) string {
	for _, known := range []error{stay.ErrBadDate, stay.ErrInvalidRange, booking.ErrPastCheckIn} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return err.Error()
}
