// Package availability считает оставшиеся единицы номера по ночам.
//
// Бронирование в статусе confirmed, pending, blocked или paid занимает
// одну единицу на каждую ночь из [CheckIn, CheckOut). Доступно на дату D
// столько единиц, сколько осталось от TotalInventory, но не меньше нуля.
package availability

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/hotel-booking/internal/cache"
	"github.com/magabrotheeeer/hotel-booking/internal/lib/access"
	"github.com/magabrotheeeer/hotel-booking/internal/lib/stay"
	"github.com/magabrotheeeer/hotel-booking/internal/models"
)

// Границы окна сетки загрузки.
const (
	DefaultGridDays = 21
	MaxGridDays     = 90
)

// ErrGridDays возвращается для окна вне 1..MaxGridDays.
var ErrGridDays = errors.New("days must be between 1 and 90")

// Repository источник номеров и занимающих их бронирований.
type Repository interface {
	GetRoom(ctx context.Context, id string) (models.RoomWithHotel, error)
	ListOccupying(ctx context.Context, roomIDs []string, rng stay.Range) ([]models.Booking, error)
	ListManagedRooms(ctx context.Context, ownerID string, all bool) ([]models.RoomWithHotel, error)
}

// Cache кеш номеров.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
}

// Occupies сообщает, занимает ли бронирование b единицу номера в ночь day.
func Occupies(b models.Booking, day time.Time) bool {
	if !b.Status.ConsumesInventory() {
		return false
	}
	return stay.Range{CheckIn: stay.Day(b.CheckIn), CheckOut: stay.Day(b.CheckOut)}.Contains(day)
}

// Daily возвращает занятость номера на каждую ночь периода rng.
// Бронирования других номеров не учитываются.
func Daily(room models.Room, bookings []models.Booking, rng stay.Range) []models.DayAvailability {
	days := rng.Days()
	result := make([]models.DayAvailability, 0, len(days))
	for _, day := range days {
		booked := 0
		for _, b := range bookings {
			if b.RoomID == room.ID && Occupies(b, day) {
				booked++
			}
		}
		result = append(result, models.DayAvailability{
			Date:      day,
			Booked:    booked,
			Available: max(0, room.TotalInventory-booked),
		})
	}
	return result
}

// MinAvailable наименьший остаток за период. Для пустого периода 0.
func MinAvailable(days []models.DayAvailability) int {
	if len(days) == 0 {
		return 0
	}
	lowest := days[0].Available
	for _, d := range days[1:] {
		lowest = min(lowest, d.Available)
	}
	return lowest
}

// Service считает доступность поверх хранилища.
type Service struct {
	repo     Repository
	cache    Cache
	cacheTTL time.Duration
	log      *slog.Logger
}

// NewService создаёт сервис доступности.
func NewService(repo Repository, c Cache, cacheTTL time.Duration, log *slog.Logger) *Service {
	return &Service{repo: repo, cache: c, cacheTTL: cacheTTL, log: log}
}

// Room возвращает номер, сначала из кеша.
func (s *Service) Room(ctx context.Context, roomID string) (models.RoomWithHotel, error) {
	const op = "availability.Room"
	key := cache.RoomKey(roomID)

	var room models.RoomWithHotel
	found, err := s.cache.Get(key, &room)
	if err != nil {
		s.log.Warn("failed to read room from cache", slog.String("key", key), slog.Any("err", err))
	}
	if found {
		return room, nil
	}

	room, err = s.repo.GetRoom(ctx, roomID)
	if err != nil {
		return models.RoomWithHotel{}, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.cache.Set(key, room, s.cacheTTL); err != nil {
		s.log.Warn("failed to cache room", slog.String("key", key), slog.Any("err", err))
	}
	return room, nil
}

// RoomAvailability считает остаток номера roomID на каждую ночь периода rng.
func (s *Service) RoomAvailability(ctx context.Context, roomID string, rng stay.Range) (models.RoomAvailability, error) {
	const op = "availability.RoomAvailability"
	room, err := s.Room(ctx, roomID)
	if err != nil {
		return models.RoomAvailability{}, err
	}
	bookings, err := s.repo.ListOccupying(ctx, []string{roomID}, rng)
	if err != nil {
		return models.RoomAvailability{}, fmt.Errorf("%s: %w", op, err)
	}

	days := Daily(room.Room, bookings, rng)
	lowest := MinAvailable(days)
	return models.RoomAvailability{
		RoomID:         room.ID,
		TotalInventory: room.TotalInventory,
		Days:           days,
		MinAvailable:   lowest,
		Bookable:       lowest >= 1,
	}, nil
}

// InventoryGrid строит сетку загрузки на days дней начиная со start.
// super_admin видит все отели, остальные только свои.
func (s *Service) InventoryGrid(ctx context.Context, actor models.Actor, start time.Time,
	days int) (models.InventoryGrid, error) {
	const op = "availability.InventoryGrid"
	if days == 0 {
		days = DefaultGridDays
	}
	if days < 1 || days > MaxGridDays {
		return models.InventoryGrid{}, ErrGridDays
	}
	rng, err := stay.Window(start, days)
	if err != nil {
		return models.InventoryGrid{}, err
	}

	rooms, err := s.repo.ListManagedRooms(ctx, actor.ID, access.SeesAllHotels(actor.Role))
	if err != nil {
		return models.InventoryGrid{}, fmt.Errorf("%s: %w", op, err)
	}

	grid := models.InventoryGrid{Dates: make([]string, 0, days), Rooms: make([]models.InventoryRow, 0, len(rooms))}
	for _, d := range rng.Days() {
		grid.Dates = append(grid.Dates, d.Format(stay.Layout))
	}
	if len(rooms) == 0 {
		return grid, nil
	}

	ids := make([]string, 0, len(rooms))
	for _, r := range rooms {
		ids = append(ids, r.ID)
	}
	bookings, err := s.repo.ListOccupying(ctx, ids, rng)
	if err != nil {
		return models.InventoryGrid{}, fmt.Errorf("%s: %w", op, err)
	}

	for _, r := range rooms {
		grid.Rooms = append(grid.Rooms, models.InventoryRow{
			RoomID:         r.ID,
			RoomName:       r.Name,
			HotelName:      r.HotelName,
			TotalInventory: r.TotalInventory,
			Days:           Daily(r.Room, bookings, rng),
		})
	}
	return grid, nil
}
