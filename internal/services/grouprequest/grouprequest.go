// Package grouprequest заявки организаций на групповое размещение и работа координаторов.
package grouprequest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/hotel-booking/internal/lib/access"
	"github.com/magabrotheeeer/hotel-booking/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/hotel-booking/internal/lib/sl"
	"github.com/magabrotheeeer/hotel-booking/internal/lib/stay"
	"github.com/magabrotheeeer/hotel-booking/internal/models"
	"github.com/magabrotheeeer/hotel-booking/internal/storage"
)

// MinGuests минимальный размер группы.
const MinGuests = 5

// notifyLimit сколько сотрудников получают уведомление о новой заявке.
const notifyLimit = 5

const boardLink = "/admin/group-requests"

var (
	ErrTooFewGuests  = errors.New("group requests need at least 5 guests")
	ErrForbidden     = errors.New("forbidden")
	ErrNotFound      = errors.New("group request not found")
	ErrNotLiaison    = errors.New("assignee must be a liaison")
	ErrInvalidStatus = errors.New("unknown group request status")
)

// staffRoles получатели уведомлений о новых заявках.
var staffRoles = []models.Role{models.RoleAdmin, models.RoleSuperAdmin, models.RoleLiaison}

// Repository хранилище заявок, профилей и уведомлений.
type Repository interface {
	CreateGroupRequest(ctx context.Context, g models.GroupRequest) (string, error)
	GetGroupRequest(ctx context.Context, id string) (models.GroupRequest, error)
	ListGroupRequests(ctx context.Context) ([]models.GroupRequest, error)
	AssignGroupRequest(ctx context.Context, actor models.Actor, id, liaisonID string) error
	UpdateGroupRequestStatus(ctx context.Context, actor models.Actor, id, status, notes string) error
	GetProfile(ctx context.Context, id string) (models.Profile, error)
	ListProfilesByRoles(ctx context.Context, roles []models.Role, limit int) ([]models.Profile, error)
	CreateNotifications(ctx context.Context, items []models.Notification) error
}

// Publisher публикует события в очередь уведомлений.
type Publisher interface {
	Publish(routingKey string, message any) error
}

// Service сервис групповых заявок.
type Service struct {
	repo      Repository
	publisher Publisher
	log       *slog.Logger
}

// NewService создаёт сервис.
func NewService(repo Repository, publisher Publisher, log *slog.Logger) *Service {
	return &Service{repo: repo, publisher: publisher, log: log}
}

// Submit принимает публичную заявку, уведомляет сотрудников и отправляет
// подтверждение на почту контакта.
func (s *Service) Submit(ctx context.Context, in models.GroupRequestInput) (string, error) {
	const op = "grouprequest.Submit"
	if in.GuestCount < MinGuests {
		return "", ErrTooFewGuests
	}
	rng, err := stay.Parse(in.CheckIn, in.CheckOut)
	if err != nil {
		return "", err
	}

	id, err := s.repo.CreateGroupRequest(ctx, models.GroupRequest{
		OrganizationName:    in.OrganizationName,
		ContactName:         in.ContactName,
		ContactEmail:        in.ContactEmail,
		ContactPhone:        in.ContactPhone,
		GuestCount:          in.GuestCount,
		CheckIn:             rng.CheckIn,
		CheckOut:            rng.CheckOut,
		PreferredHotel:      in.PreferredHotel,
		BudgetRange:         in.BudgetRange,
		SpecialRequirements: in.SpecialRequirements,
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("group request submitted", slog.String("request_id", id), slog.Int("guests", in.GuestCount))

	s.notifyStaff(ctx, in, rng)
	event := models.GroupRequestEvent{
		RequestID:        id,
		OrganizationName: in.OrganizationName,
		ContactName:      in.ContactName,
		ContactEmail:     in.ContactEmail,
		GuestCount:       in.GuestCount,
		Dates:            rng.String(),
	}
	if err := s.publisher.Publish(rabbitmq.KeyGroupRequestCreated, event); err != nil {
		s.log.Warn("failed to publish group request", slog.String("request_id", id), sl.Err(err))
	}
	return id, nil
}

func (s *Service) notifyStaff(ctx context.Context, in models.GroupRequestInput, rng stay.Range) {
	staff, err := s.repo.ListProfilesByRoles(ctx, staffRoles, notifyLimit)
	if err != nil {
		s.log.Warn("failed to load staff for notifications", sl.Err(err))
		return
	}
	items := make([]models.Notification, 0, len(staff))
	for _, p := range staff {
		items = append(items, models.Notification{
			UserID: p.ID,
			Title:  "New Group Request",
			Message: fmt.Sprintf("%s (%d guests) requested dates %s to %s.", in.OrganizationName, in.GuestCount,
				rng.CheckIn.Format(stay.Layout), rng.CheckOut.Format(stay.Layout)),
			Type: "group_request",
			Link: boardLink,
		})
	}
	if err := s.repo.CreateNotifications(ctx, items); err != nil {
		s.log.Warn("failed to create notifications", sl.Err(err))
	}
}

// List все заявки для админки.
func (s *Service) List(ctx context.Context, actor models.Actor) ([]models.GroupRequest, error) {
	if !access.CanHandleGroupRequests(actor.Role) {
		return nil, ErrForbidden
	}
	return s.repo.ListGroupRequests(ctx)
}

// Assign назначает заявке координатора и одобряет её.
func (s *Service) Assign(ctx context.Context, actor models.Actor, id, liaisonID string) error {
	const op = "grouprequest.Assign"
	if !access.CanHandleGroupRequests(actor.Role) {
		return ErrForbidden
	}
	liaison, err := s.repo.GetProfile(ctx, liaisonID)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrNotLiaison
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if liaison.Role != models.RoleLiaison {
		return ErrNotLiaison
	}

	err = s.repo.AssignGroupRequest(ctx, actor, id, liaisonID)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = s.repo.CreateNotifications(ctx, []models.Notification{{
		UserID:  liaisonID,
		Title:   "New Assignment",
		Message: "You have been assigned to a new group request.",
		Type:    "assignment",
		Link:    boardLink,
	}})
	if err != nil {
		s.log.Warn("failed to notify liaison", slog.String("liaison_id", liaisonID), sl.Err(err))
	}
	return nil
}

// SetStatus меняет статус заявки и, если переданы, заметки.
func (s *Service) SetStatus(ctx context.Context, actor models.Actor, id, status, notes string) error {
	const op = "grouprequest.SetStatus"
	if !access.CanHandleGroupRequests(actor.Role) {
		return ErrForbidden
	}
	switch status {
	case models.GroupPending, models.GroupApproved, models.GroupRejected, models.GroupClosed:
	default:
		return ErrInvalidStatus
	}
	err := s.repo.UpdateGroupRequestStatus(ctx, actor, id, status, notes)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
