package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/hotel-booking/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/hotel-booking/internal/models"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CompleteFinished(ctx context.Context, today time.Time) (int64, error) {
	args := m.Called(ctx, today)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) CancelStalePending(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) ListArrivals(ctx context.Context, day time.Time) ([]models.BookingView, error) {
	args := m.Called(ctx, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.BookingView), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(routingKey string, message any) error {
	return m.Called(routingKey, message).Error(0)
}

// memoryMarker помнит ключи в памяти.
type memoryMarker map[string]bool

func (m memoryMarker) SetOnce(key string, _ time.Duration) (bool, error) {
	if m[key] {
		return false, nil
	}
	m[key] = true
	return true, nil
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

var now = time.Date(2026, 8, 16, 10, 30, 0, 0, time.UTC)

func arrival(id, email string) models.BookingView {
	return models.BookingView{
		Booking: models.Booking{ID: id, Status: models.StatusPaid,
			CheckIn:  time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC),
			CheckOut: time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)},
		Email: email, GuestName: "Guest", HotelName: "Blue Sky", RoomName: "Deluxe",
	}
}

func newService(repo *MockRepository, pub *MockPublisher, marker Marker) *Service {
	svc := NewService(repo, pub, marker, 30*time.Minute, newNoopLogger())
	svc.now = func() time.Time { return now }
	return svc
}

func TestService_RunOnce(t *testing.T) {
	tomorrow := time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC)

	repo := new(MockRepository)
	pub := new(MockPublisher)
	repo.On("CompleteFinished", mock.Anything, now).Return(int64(2), nil).Once()
	repo.On("CancelStalePending", mock.Anything, now.Add(-30*time.Minute)).Return(int64(1), nil).Once()
	repo.On("ListArrivals", mock.Anything, tomorrow).
		Return([]models.BookingView{arrival("b1", "a@example.com"), arrival("b2", "")}, nil).Once()
	pub.On("Publish", rabbitmq.KeyCheckInReminder, mock.MatchedBy(func(e models.BookingEvent) bool {
		return e.BookingID == "b1" && e.Dates == "2026-08-17 - 2026-08-20"
	})).Return(nil).Once()

	newService(repo, pub, memoryMarker{}).RunOnce(context.Background())

	repo.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestService_RemindersAreSentOnce(t *testing.T) {
	repo := new(MockRepository)
	pub := new(MockPublisher)
	repo.On("CompleteFinished", mock.Anything, mock.Anything).Return(int64(0), nil)
	repo.On("CancelStalePending", mock.Anything, mock.Anything).Return(int64(0), nil)
	repo.On("ListArrivals", mock.Anything, mock.Anything).
		Return([]models.BookingView{arrival("b1", "a@example.com")}, nil)
	pub.On("Publish", rabbitmq.KeyCheckInReminder, mock.Anything).Return(nil).Once()

	svc := newService(repo, pub, memoryMarker{})
	svc.RunOnce(context.Background())
	svc.RunOnce(context.Background())

	pub.AssertNumberOfCalls(t, "Publish", 1)
}

func TestService_JobErrorsDoNotStopOthers(t *testing.T) {
	repo := new(MockRepository)
	pub := new(MockPublisher)
	repo.On("CompleteFinished", mock.Anything, mock.Anything).Return(int64(0), errors.New("db down")).Once()
	repo.On("CancelStalePending", mock.Anything, mock.Anything).Return(int64(0), errors.New("db down")).Once()
	repo.On("ListArrivals", mock.Anything, mock.Anything).Return(nil, errors.New("db down")).Once()

	newService(repo, pub, memoryMarker{}).RunOnce(context.Background())

	repo.AssertExpectations(t)
	pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestService_RunStopsOnCancel(t *testing.T) {
	repo := new(MockRepository)
	repo.On("CompleteFinished", mock.Anything, mock.Anything).Return(int64(0), nil)
	repo.On("CancelStalePending", mock.Anything, mock.Anything).Return(int64(0), nil)
	repo.On("ListArrivals", mock.Anything, mock.Anything).Return([]models.BookingView{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		newService(repo, new(MockPublisher), memoryMarker{}).Run(ctx, time.Hour)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
	assert.GreaterOrEqual(t, len(repo.Calls), 3)
}
