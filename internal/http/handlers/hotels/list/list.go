// Package list реализует HTTP-обработчик публичного каталога отелей.
//
// Фильтры приходят в query: query, stars, amenities (через запятую),
// min_price, max_price и sort.
package list

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/hotel-booking/internal/http/response"
	"github.com/magabrotheeeer/hotel-booking/internal/lib/sl"
	"github.com/magabrotheeeer/hotel-booking/internal/models"
	"github.com/magabrotheeeer/hotel-booking/internal/services/hotel"
)

// Handler обрабатывает поиск отелей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс поиска отелей.
type Service interface {
	List(ctx context.Context, f models.HotelFilter) ([]models.HotelSummary, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Каталог отелей
// @Description Поиск по названию и адресу, фильтры по звёздам, удобствам и цене, сортировка.
// @Tags Hotels
// @Produce json
// @Param query query string false "Строка поиска"
// @Param stars query int false "Минимум звёзд"
// @Param amenities query string false "Удобства через запятую"
// @Param min_price query int false "Минимальная цена самого дешёвого номера"
// @Param max_price query int false "Максимальная цена самого дешёвого номера"
// @Param sort query string false "newest, price-asc, price-desc, stars-desc, distance"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /hotels [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.hotels.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	filter, err := parseFilter(r.URL.Query())
	if err != nil {
		log.Warn("invalid filter", sl.Err(err))
		response.Fail(w, r, http.StatusBadRequest, err.Error())
		return
	}

	hotels, err := h.service.List(r.Context(), filter)
	switch {
	case errors.Is(err, hotel.ErrUnknownSort):
		response.Fail(w, r, http.StatusBadRequest, "unknown sort order")
		return
	case err != nil:
		log.Error("failed to list hotels", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "could not list hotels")
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"hotels": hotels,
	}))
}

func parseFilter(q url.Values) (models.HotelFilter, error) {
	f := models.HotelFilter{
		Query:  strings.TrimSpace(q.Get("query")),
		SortBy: q.Get("sort"),
	}
	if v := q.Get("stars"); v != "" {
		stars, err := strconv.Atoi(v)
		if err != nil {
			return f, fmt.Errorf("invalid stars %q", v)
		}
		f.MinStars = stars
	}
	if v := q.Get("amenities"); v != "" {
		for _, a := range strings.Split(v, ",") {
			if a = strings.TrimSpace(a); a != "" {
				f.Amenities = append(f.Amenities, a)
			}
		}
	}
	var err error
	if f.MinPrice, err = price(q, "min_price"); err != nil {
		return f, err
	}
	if f.MaxPrice, err = price(q, "max_price"); err != nil {
		return f, err
	}
	return f, nil
}

func price(q url.Values, key string) (*int64, error) {
	v := q.Get(key)
	if v == "" {
		return nil, nil
	}
	p, err := strconv.ParseInt(v, 10, 64)
	if err != nil || p < 0 {
		return nil, fmt.Errorf("invalid %s %q", key, v)
	}
	return &p, nil
}
