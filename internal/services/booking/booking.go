// Package booking бизнес-логика бронирований: создание с проверкой доступности,
// отмена, работа администратора и подтверждение оплаты.
package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/hotel-booking/internal/lib/access"
	"github.com/magabrotheeeer/hotel-booking/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/hotel-booking/internal/lib/sl"
	"github.com/magabrotheeeer/hotel-booking/internal/lib/stay"
	"github.com/magabrotheeeer/hotel-booking/internal/metrics"
	"github.com/magabrotheeeer/hotel-booking/internal/models"
	"github.com/magabrotheeeer/hotel-booking/internal/paymentprovider"
	"github.com/magabrotheeeer/hotel-booking/internal/services/availability"
	"github.com/magabrotheeeer/hotel-booking/internal/storage"
)

// DecryptionFailed подставляется вместо поля, которое не удалось расшифровать.
const DecryptionFailed = "[decryption failed]"

var (
	ErrFullyBooked        = errors.New("this room type is fully booked for the selected dates")
	ErrNotFound           = errors.New("booking not found")
	ErrForbidden          = errors.New("forbidden")
	ErrNotCancellable     = errors.New("booking cannot be cancelled")
	ErrInvalidStatus      = errors.New("unknown booking status")
	ErrPastCheckIn        = errors.New("check-in date is in the past")
	ErrPaymentUnavailable = errors.New("payment service unavailable")
	ErrAmountMismatch     = errors.New("payment amount does not match booking")
)

// Repository хранилище бронирований.
type Repository interface {
	CreateBooking(ctx context.Context, actor models.Actor, roomID string, rng stay.Range,
		guard storage.BookingGuard) (models.Booking, error)
	CreateBlocks(ctx context.Context, actor models.Actor, roomIDs []string, rng stay.Range, reason string) ([]string, error)
	GetBooking(ctx context.Context, id string) (models.BookingDetails, error)
	ListUserBookings(ctx context.Context, userID string) ([]models.BookingView, error)
	ListHotelBookings(ctx context.Context, ownerID string, all bool) ([]models.BookingView, error)
	ListManagedRooms(ctx context.Context, ownerID string, all bool) ([]models.RoomWithHotel, error)
	UpdateBookingStatus(ctx context.Context, actor models.Actor, id string, status models.BookingStatus,
		from ...models.BookingStatus) error
	DashboardStats(ctx context.Context, ownerID string, all bool, today time.Time) (models.DashboardStats, error)
}

// Cipher шифрует персональные данные гостя.
type Cipher interface {
	Encrypt(plain string) (string, error)
	Decrypt(encoded string) (string, error)
}

// Payments платёжный шлюз.
type Payments interface {
	CreateInvoice(ctx context.Context, transactionID string, amount int64, returnURL string) (*paymentprovider.Invoice, error)
	VerifyChecksum(transactionID, amount, checksum string) error
	CheckStatus(ctx context.Context, transactionID string) (*paymentprovider.PaymentStatus, error)
}

// Publisher публикует события в очередь уведомлений.
type Publisher interface {
	Publish(routingKey string, message any) error
}

// Service сервис бронирований.
type Service struct {
	repo      Repository
	box       Cipher
	payments  Payments
	publisher Publisher
	publicURL string
	log       *slog.Logger
	now       func() time.Time
}

// NewService создаёт сервис. publicURL используется в адресе возврата после оплаты.
func NewService(repo Repository, box Cipher, payments Payments, publisher Publisher, publicURL string,
	log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		box:       box,
		payments:  payments,
		publisher: publisher,
		publicURL: publicURL,
		log:       log,
		now:       time.Now,
	}
}

// Create бронирует номер на период из запроса.
//
// Доступность проверяется внутри транзакции, которая держит блокировку строки
// номера, поэтому два параллельных запроса на последнюю единицу не пройдут оба.
func (s *Service) Create(ctx context.Context, actor models.Actor, req models.BookingRequest) (models.BookingResult, error) {
	const op = "booking.Create"
	rng, err := stay.Parse(req.CheckIn, req.CheckOut)
	if err != nil {
		return models.BookingResult{}, err
	}
	if rng.CheckIn.Before(stay.Day(s.now())) {
		return models.BookingResult{}, ErrPastCheckIn
	}

	passport, err := s.box.Encrypt(req.GuestPassport)
	if err != nil {
		return models.BookingResult{}, fmt.Errorf("%s: %w", op, err)
	}
	phone, err := s.box.Encrypt(req.GuestPhone)
	if err != nil {
		return models.BookingResult{}, fmt.Errorf("%s: %w", op, err)
	}
	requests, err := s.box.Encrypt(req.SpecialRequests)
	if err != nil {
		return models.BookingResult{}, fmt.Errorf("%s: %w", op, err)
	}

	guard := func(room models.Room, overlapping []models.Booking) (models.Booking, error) {
		if availability.MinAvailable(availability.Daily(room, overlapping, rng)) < 1 {
			return models.Booking{}, ErrFullyBooked
		}
		return models.Booking{
			UserID:                   actor.ID,
			CheckIn:                  rng.CheckIn,
			CheckOut:                 rng.CheckOut,
			Status:                   models.StatusPending,
			TotalPrice:               int64(rng.Nights()) * room.PricePerNight,
			GuestPassportEncrypted:   passport,
			GuestPhoneEncrypted:      phone,
			SpecialRequestsEncrypted: requests,
		}, nil
	}

	b, err := s.repo.CreateBooking(ctx, actor, req.RoomID, rng, guard)
	switch {
	case errors.Is(err, ErrFullyBooked):
		metrics.BookingAttempts.WithLabelValues(metrics.ResultFullyBooked).Inc()
		return models.BookingResult{}, ErrFullyBooked
	case errors.Is(err, storage.ErrNotFound):
		metrics.BookingAttempts.WithLabelValues(metrics.ResultError).Inc()
		return models.BookingResult{}, fmt.Errorf("%s: room %s: %w", op, req.RoomID, ErrNotFound)
	case err != nil:
		metrics.BookingAttempts.WithLabelValues(metrics.ResultError).Inc()
		return models.BookingResult{}, fmt.Errorf("%s: %w", op, err)
	}
	metrics.BookingAttempts.WithLabelValues(metrics.ResultCreated).Inc()
	s.log.Info("booking created", slog.String("booking_id", b.ID), slog.String("room_id", b.RoomID),
		slog.String("range", rng.String()), sl.Actor(actor.ID, string(actor.Role)))

	s.publishEvent(ctx, rabbitmq.KeyBookingCreated, b.ID)

	result := models.BookingResult{BookingID: b.ID, TotalPrice: b.TotalPrice, Nights: rng.Nights()}
	returnURL := fmt.Sprintf("%s/booking/success?bookingId=%s", s.publicURL, b.ID)
	inv, err := s.payments.CreateInvoice(ctx, b.ID, b.TotalPrice, returnURL)
	if err != nil {
		// бронирование остаётся pending и снимется планировщиком по истечении срока оплаты
		s.log.Error("failed to create invoice", slog.String("booking_id", b.ID), sl.Err(err))
		return result, fmt.Errorf("%s: %w", op, ErrPaymentUnavailable)
	}
	result.PaymentRedirectURL = inv.RedirectURL
	return result, nil
}

// Mine бронирования пользователя, новые первыми.
func (s *Service) Mine(ctx context.Context, actor models.Actor) ([]models.BookingView, error) {
	return s.repo.ListUserBookings(ctx, actor.ID)
}

// Cancel отменяет бронирование. Отменить можно только pending, paid и confirmed.
func (s *Service) Cancel(ctx context.Context, actor models.Actor, id string) error {
	const op = "booking.Cancel"
	b, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if !access.CanMutate(actor, b.UserID) {
		return ErrForbidden
	}

	err = s.repo.UpdateBookingStatus(ctx, actor, id, models.StatusCancelled,
		models.StatusPending, models.StatusPaid, models.StatusConfirmed)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrNotCancellable
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.statusChanged(ctx, id, models.StatusCancelled)
	return nil
}

// List бронирования для админки: super_admin видит все, admin только своих отелей.
func (s *Service) List(ctx context.Context, actor models.Actor) ([]models.BookingView, error) {
	return s.repo.ListHotelBookings(ctx, actor.ID, access.SeesAllHotels(actor.Role))
}

// UpdateStatus меняет статус бронирования от имени администратора.
func (s *Service) UpdateStatus(ctx context.Context, actor models.Actor, id string, status models.BookingStatus) error {
	const op = "booking.UpdateStatus"
	if !status.Valid() {
		return ErrInvalidStatus
	}
	b, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if !access.CanMutate(actor, b.UserID) {
		return ErrForbidden
	}
	if err := s.repo.UpdateBookingStatus(ctx, actor, id, status); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("booking status updated", slog.String("booking_id", id), slog.String("status", string(status)),
		sl.Actor(actor.ID, string(actor.Role)))
	s.statusChanged(ctx, id, status)
	return nil
}

// Details бронирование с расшифрованными паспортом, телефоном и пожеланиями.
// Данные гостя видят сам гость, владелец отеля и super_admin.
func (s *Service) Details(ctx context.Context, actor models.Actor, id string) (models.BookingDetails, error) {
	d, err := s.get(ctx, id)
	if err != nil {
		return models.BookingDetails{}, err
	}
	if actor.ID != d.UserID && !access.CanManageHotel(actor, d.HotelOwnerID) {
		return models.BookingDetails{}, ErrForbidden
	}
	d.GuestPassport = s.decrypt(id, d.GuestPassportEncrypted)
	d.GuestPhone = s.decrypt(id, d.GuestPhoneEncrypted)
	d.SpecialRequests = s.decrypt(id, d.SpecialRequestsEncrypted)
	return d, nil
}

// Block закрывает номера на период. Номера должны принадлежать отелям actor,
// кроме super_admin.
func (s *Service) Block(ctx context.Context, actor models.Actor, req models.BlockRequest) ([]string, error) {
	const op = "booking.Block"
	rng, err := stay.Parse(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	managed, err := s.repo.ListManagedRooms(ctx, actor.ID, access.SeesAllHotels(actor.Role))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	allowed := make(map[string]struct{}, len(managed))
	for _, r := range managed {
		allowed[r.ID] = struct{}{}
	}
	for _, id := range req.RoomIDs {
		if _, ok := allowed[id]; !ok {
			return nil, fmt.Errorf("%s: room %s: %w", op, id, ErrForbidden)
		}
	}

	reason := req.Reason
	if reason == "" {
		reason = "Bulk Block"
	}
	ids, err := s.repo.CreateBlocks(ctx, actor, req.RoomIDs, rng, reason)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("rooms blocked", slog.Int("count", len(ids)), slog.String("range", rng.String()),
		sl.Actor(actor.ID, string(actor.Role)))
	return ids, nil
}

// Stats сводка для главной страницы админки.
func (s *Service) Stats(ctx context.Context, actor models.Actor) (models.DashboardStats, error) {
	return s.repo.DashboardStats(ctx, actor.ID, access.SeesAllHotels(actor.Role), s.now())
}

// PaymentCallback обрабатывает уведомление шлюза. Бронирование переходит
// из pending в paid, только если подпись и сумма совпали, а шлюз подтвердил оплату.
// Повторное уведомление по уже оплаченному бронированию ничего не меняет.
func (s *Service) PaymentCallback(ctx context.Context, cb models.PaymentCallback) (models.BookingStatus, error) {
	const op = "booking.PaymentCallback"
	if err := s.payments.VerifyChecksum(cb.TransactionID, cb.Amount, cb.Checksum); err != nil {
		return "", err
	}
	b, err := s.get(ctx, cb.TransactionID)
	if err != nil {
		return "", err
	}
	if paymentprovider.FormatAmount(b.TotalPrice) != cb.Amount {
		return "", ErrAmountMismatch
	}

	st, err := s.payments.CheckStatus(ctx, cb.TransactionID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, ErrPaymentUnavailable)
	}
	if st.Status != paymentprovider.StatusPaid {
		s.log.Info("payment not completed", slog.String("booking_id", b.ID), slog.String("status", st.Status))
		return b.Status, nil
	}

	err = s.repo.UpdateBookingStatus(ctx, storage.System, b.ID, models.StatusPaid, models.StatusPending)
	if errors.Is(err, storage.ErrNotFound) {
		return b.Status, nil
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("booking paid", slog.String("booking_id", b.ID))
	s.statusChanged(ctx, b.ID, models.StatusPaid)
	return models.StatusPaid, nil
}

func (s *Service) get(ctx context.Context, id string) (models.BookingDetails, error) {
	const op = "booking.get"
	d, err := s.repo.GetBooking(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return models.BookingDetails{}, ErrNotFound
	}
	if err != nil {
		return models.BookingDetails{}, fmt.Errorf("%s: %w", op, err)
	}
	return d, nil
}

func (s *Service) decrypt(id, value string) string {
	if value == "" {
		return ""
	}
	plain, err := s.box.Decrypt(value)
	if err != nil {
		s.log.Warn("failed to decrypt guest data", slog.String("booking_id", id), sl.Err(err))
		return DecryptionFailed
	}
	return plain
}

func (s *Service) statusChanged(ctx context.Context, id string, status models.BookingStatus) {
	metrics.BookingStatusChanges.WithLabelValues(string(status)).Inc()
	s.publishEvent(ctx, rabbitmq.KeyBookingStatus, id)
}

// publishEvent отправляет событие по бронированию. Ошибки публикации только логируются.
func (s *Service) publishEvent(ctx context.Context, key, id string) {
	d, err := s.repo.GetBooking(ctx, id)
	if err != nil {
		s.log.Warn("failed to load booking for event", slog.String("booking_id", id), sl.Err(err))
		return
	}
	if d.Email == "" {
		return
	}
	event := models.BookingEvent{
		BookingID: d.ID,
		Email:     d.Email,
		GuestName: d.GuestName,
		HotelName: d.HotelName,
		RoomName:  d.RoomName,
		Dates:     stay.Range{CheckIn: d.CheckIn, CheckOut: d.CheckOut}.String(),
		Status:    d.Status,
	}
	if err := s.publisher.Publish(key, event); err != nil {
		s.log.Warn("failed to publish event", slog.String("key", key), slog.String("booking_id", id), sl.Err(err))
	}
}
