// Package scheduler периодические задачи по бронированиям.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/hotel-booking/internal/cache"
	"github.com/magabrotheeeer/hotel-booking/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/hotel-booking/internal/lib/sl"
	"github.com/magabrotheeeer/hotel-booking/internal/lib/stay"
	"github.com/magabrotheeeer/hotel-booking/internal/metrics"
	"github.com/magabrotheeeer/hotel-booking/internal/models"
)

// Имена задач для метрик.
const (
	JobComplete = "complete_finished"
	JobCancel   = "cancel_stale_pending"
	JobReminder = "checkin_reminder"
)

// reminderTTL отметка о напоминании живёт дольше суток, чтобы не дублировать письмо.
const reminderTTL = 48 * time.Hour

// BookingRepository запросы планировщика к хранилищу.
type BookingRepository interface {
	CompleteFinished(ctx context.Context, today time.Time) (int64, error)
	CancelStalePending(ctx context.Context, before time.Time) (int64, error)
	ListArrivals(ctx context.Context, day time.Time) ([]models.BookingView, error)
}

// Publisher публикует события в очередь уведомлений.
type Publisher interface {
	Publish(routingKey string, message any) error
}

// Marker отмечает уже отправленные напоминания.
type Marker interface {
	SetOnce(key string, expiration time.Duration) (bool, error)
}

// Service планировщик.
type Service struct {
	repo       BookingRepository
	publisher  Publisher
	marker     Marker
	pendingTTL time.Duration
	log        *slog.Logger
	now        func() time.Time
}

// NewService создает новый экземпляр Service.
func NewService(repo BookingRepository, publisher Publisher, marker Marker, pendingTTL time.Duration,
	log *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		publisher:  publisher,
		marker:     marker,
		pendingTTL: pendingTTL,
		log:        log,
		now:        time.Now,
	}
}

// Run выполняет задачи сразу и затем каждые interval, пока не отменён ctx.
func (s *Service) Run(ctx context.Context, interval time.Duration) {
	s.RunOnce(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopped")
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce один проход всех задач.
func (s *Service) RunOnce(ctx context.Context) {
	now := s.now()
	s.completeFinished(ctx, now)
	s.cancelStalePending(ctx, now)
	s.remindArrivals(ctx, now)
}

func (s *Service) completeFinished(ctx context.Context, now time.Time) {
	n, err := s.repo.CompleteFinished(ctx, now)
	if err != nil {
		s.log.Error("failed to complete finished bookings", sl.Err(err))
		return
	}
	if n > 0 {
		metrics.SchedulerUpdates.WithLabelValues(JobComplete).Add(float64(n))
		s.log.Info("completed finished bookings", slog.Int64("count", n))
	}
}

// cancelStalePending освобождает номера, за которые не заплатили вовремя.
func (s *Service) cancelStalePending(ctx context.Context, now time.Time) {
	n, err := s.repo.CancelStalePending(ctx, now.Add(-s.pendingTTL))
	if err != nil {
		s.log.Error("failed to cancel stale pending bookings", sl.Err(err))
		return
	}
	if n > 0 {
		metrics.SchedulerUpdates.WithLabelValues(JobCancel).Add(float64(n))
		s.log.Info("cancelled unpaid bookings", slog.Int64("count", n))
	}
}

func (s *Service) remindArrivals(ctx context.Context, now time.Time) {
	tomorrow := stay.Day(now).AddDate(0, 0, 1)
	arrivals, err := s.repo.ListArrivals(ctx, tomorrow)
	if err != nil {
		s.log.Error("failed to find arrivals", sl.Err(err))
		return
	}
	if len(arrivals) == 0 {
		return
	}

	sent := 0
	for _, b := range arrivals {
		if b.Email == "" {
			continue
		}
		first, err := s.marker.SetOnce(cache.ReminderKey(b.ID), reminderTTL)
		if err != nil {
			s.log.Warn("failed to mark reminder", slog.String("booking_id", b.ID), sl.Err(err))
			continue
		}
		if !first {
			continue
		}
		event := models.BookingEvent{
			BookingID: b.ID,
			Email:     b.Email,
			GuestName: b.GuestName,
			HotelName: b.HotelName,
			RoomName:  b.RoomName,
			Dates:     stay.Range{CheckIn: b.CheckIn, CheckOut: b.CheckOut}.String(),
			Status:    b.Status,
		}
		if err := s.publisher.Publish(rabbitmq.KeyCheckInReminder, event); err != nil {
			s.log.Error("failed to publish message", slog.String("booking_id", b.ID), sl.Err(err))
			continue
		}
		sent++
	}
	if sent > 0 {
		metrics.SchedulerUpdates.WithLabelValues(JobReminder).Add(float64(sent))
		s.log.Info("check-in reminders queued", slog.Int("count", sent))
	}
}
