// Package hotel публичный каталог отелей и управление отелями и номерами в админке.
package hotel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/magabrotheeeer/hotel-booking/internal/cache"
	"github.com/magabrotheeeer/hotel-booking/internal/lib/access"
	"github.com/magabrotheeeer/hotel-booking/internal/lib/sl"
	"github.com/magabrotheeeer/hotel-booking/internal/models"
	"github.com/magabrotheeeer/hotel-booking/internal/storage"
)

// Варианты сортировки каталога.
const (
	SortNewest    = "newest"
	SortPriceAsc  = "price-asc"
	SortPriceDesc = "price-desc"
	SortStarsDesc = "stars-desc"
	SortDistance  = "distance"
)

var (
	ErrNotFound    = errors.New("hotel not found")
	ErrForbidden   = errors.New("forbidden")
	ErrUnknownSort = errors.New("unknown sort order")
)

// Repository хранилище отелей и номеров.
type Repository interface {
	ListHotels(ctx context.Context, f models.HotelFilter) ([]models.HotelSummary, error)
	GetHotel(ctx context.Context, id string) (models.Hotel, error)
	ListRoomsByHotel(ctx context.Context, hotelID string) ([]models.Room, error)
	CreateHotel(ctx context.Context, actor models.Actor, ownerID string, in models.HotelInput) (string, error)
	UpdateHotel(ctx context.Context, actor models.Actor, id string, in models.HotelInput) error
	DeleteHotel(ctx context.Context, actor models.Actor, id string) error
	CreateRoom(ctx context.Context, actor models.Actor, hotelID string, in models.RoomInput) (string, error)
}

// Cache кеш карточек отелей.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(keys ...string) error
}

// Service сервис отелей.
type Service struct {
	repo     Repository
	cache    Cache
	cacheTTL time.Duration
	venue    Venue
	log      *slog.Logger
}

// NewService создаёт сервис отелей.
func NewService(repo Repository, c Cache, cacheTTL time.Duration, venue Venue, log *slog.Logger) *Service {
	return &Service{repo: repo, cache: c, cacheTTL: cacheTTL, venue: venue, log: log}
}

// List ищет отели по фильтру, считает расстояние до площадки и сортирует.
func (s *Service) List(ctx context.Context, f models.HotelFilter) ([]models.HotelSummary, error) {
	const op = "hotel.List"
	if f.SortBy == "" {
		f.SortBy = SortNewest
	}
	switch f.SortBy {
	case SortNewest, SortPriceAsc, SortPriceDesc, SortStarsDesc, SortDistance:
	default:
		return nil, ErrUnknownSort
	}

	hotels, err := s.repo.ListHotels(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := make([]models.HotelSummary, 0, len(hotels))
	for _, h := range hotels {
		if f.MinPrice != nil && h.MinPrice != nil && *h.MinPrice < *f.MinPrice {
			continue
		}
		if f.MaxPrice != nil && (h.MinPrice == nil || *h.MinPrice > *f.MaxPrice) {
			continue
		}
		if s.venue.Set() && h.Latitude != nil && h.Longitude != nil {
			d := Distance(s.venue.Latitude, s.venue.Longitude, *h.Latitude, *h.Longitude)
			h.DistanceKM = &d
		}
		result = append(result, h)
	}

	sortHotels(result, f.SortBy)
	return result, nil
}

func sortHotels(hotels []models.HotelSummary, by string) {
	price := func(h models.HotelSummary) int64 {
		if h.MinPrice == nil {
			return 0
		}
		return *h.MinPrice
	}
	sort.SliceStable(hotels, func(i, j int) bool {
		a, b := hotels[i], hotels[j]
		switch by {
		case SortPriceAsc:
			return price(a) < price(b)
		case SortPriceDesc:
			return price(a) > price(b)
		case SortStarsDesc:
			return a.Stars > b.Stars
		case SortDistance:
			if a.DistanceKM == nil || b.DistanceKM == nil {
				return a.DistanceKM != nil
			}
			return *a.DistanceKM < *b.DistanceKM
		default:
			return a.CreatedAt.After(b.CreatedAt)
		}
	})
}

// Details отель с номерами, сначала из кеша.
func (s *Service) Details(ctx context.Context, id string) (models.HotelDetails, error) {
	const op = "hotel.Details"
	key := cache.HotelKey(id)

	var details models.HotelDetails
	found, err := s.cache.Get(key, &details)
	if err != nil {
		s.log.Warn("failed to read hotel from cache", slog.String("key", key), sl.Err(err))
	}
	if found {
		return details, nil
	}

	h, err := s.repo.GetHotel(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return models.HotelDetails{}, ErrNotFound
	}
	if err != nil {
		return models.HotelDetails{}, fmt.Errorf("%s: %w", op, err)
	}
	rooms, err := s.repo.ListRoomsByHotel(ctx, id)
	if err != nil {
		return models.HotelDetails{}, fmt.Errorf("%s: %w", op, err)
	}
	details = models.HotelDetails{Hotel: h, Rooms: rooms}

	if err := s.cache.Set(key, details, s.cacheTTL); err != nil {
		s.log.Warn("failed to cache hotel", slog.String("key", key), sl.Err(err))
	}
	return details, nil
}

// Create добавляет отель, владельцем становится actor.
func (s *Service) Create(ctx context.Context, actor models.Actor, in models.HotelInput) (string, error) {
	const op = "hotel.Create"
	if !access.IsAdmin(actor.Role) {
		return "", ErrForbidden
	}
	id, err := s.repo.CreateHotel(ctx, actor, actor.ID, in)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("hotel created", slog.String("hotel_id", id), sl.Actor(actor.ID, string(actor.Role)))
	return id, nil
}

// Update изменяет отель владельца или любой отель для super_admin.
func (s *Service) Update(ctx context.Context, actor models.Actor, id string, in models.HotelInput) error {
	const op = "hotel.Update"
	if err := s.authorize(ctx, actor, id); err != nil {
		return err
	}
	if err := s.repo.UpdateHotel(ctx, actor, id, in); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(cache.HotelKey(id))
	return nil
}

// Delete удаляет отель вместе с номерами.
func (s *Service) Delete(ctx context.Context, actor models.Actor, id string) error {
	const op = "hotel.Delete"
	if err := s.authorize(ctx, actor, id); err != nil {
		return err
	}
	rooms, err := s.repo.ListRoomsByHotel(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repo.DeleteHotel(ctx, actor, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	keys := []string{cache.HotelKey(id)}
	for _, r := range rooms {
		keys = append(keys, cache.RoomKey(r.ID))
	}
	s.invalidate(keys...)
	s.log.Info("hotel deleted", slog.String("hotel_id", id), sl.Actor(actor.ID, string(actor.Role)))
	return nil
}

// AddRoom добавляет тип номера в отель.
func (s *Service) AddRoom(ctx context.Context, actor models.Actor, hotelID string, in models.RoomInput) (string, error) {
	const op = "hotel.AddRoom"
	if err := s.authorize(ctx, actor, hotelID); err != nil {
		return "", err
	}
	id, err := s.repo.CreateRoom(ctx, actor, hotelID, in)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(cache.HotelKey(hotelID))
	return id, nil
}

func (s *Service) authorize(ctx context.Context, actor models.Actor, hotelID string) error {
	const op = "hotel.authorize"
	h, err := s.repo.GetHotel(ctx, hotelID)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !access.CanManageHotel(actor, h.OwnerID) {
		return ErrForbidden
	}
	return nil
}

func (s *Service) invalidate(keys ...string) {
	if err := s.cache.Invalidate(keys...); err != nil {
		s.log.Warn("failed to invalidate cache", slog.Any("keys", keys), sl.Err(err))
	}
}
