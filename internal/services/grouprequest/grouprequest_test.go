package grouprequest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/hotel-booking/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/hotel-booking/internal/lib/stay"
	"github.com/magabrotheeeer/hotel-booking/internal/models"
	"github.com/magabrotheeeer/hotel-booking/internal/storage"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateGroupRequest(ctx context.Context, g models.GroupRequest) (string, error) {
	args := m.Called(ctx, g)
	return args.String(0), args.Error(1)
}

func (m *RepoMock) GetGroupRequest(ctx context.Context, id string) (models.GroupRequest, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.GroupRequest), args.Error(1)
}

func (m *RepoMock) ListGroupRequests(ctx context.Context) ([]models.GroupRequest, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.GroupRequest), args.Error(1)
}

func (m *RepoMock) AssignGroupRequest(ctx context.Context, actor models.Actor, id, liaisonID string) error {
	return m.Called(ctx, actor, id, liaisonID).Error(0)
}

func (m *RepoMock) UpdateGroupRequestStatus(ctx context.Context, actor models.Actor, id, status, notes string) error {
	return m.Called(ctx, actor, id, status, notes).Error(0)
}

func (m *RepoMock) GetProfile(ctx context.Context, id string) (models.Profile, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Profile), args.Error(1)
}

func (m *RepoMock) ListProfilesByRoles(ctx context.Context, roles []models.Role, limit int) ([]models.Profile, error) {
	args := m.Called(ctx, roles, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Profile), args.Error(1)
}

func (m *RepoMock) CreateNotifications(ctx context.Context, items []models.Notification) error {
	return m.Called(ctx, items).Error(0)
}

type PublisherMock struct{ mock.Mock }

func (m *PublisherMock) Publish(routingKey string, message any) error {
	return m.Called(routingKey, message).Error(0)
}

var (
	admin   = models.Actor{ID: "admin-1", Role: models.RoleAdmin}
	liaison = models.Actor{ID: "liaison-1", Role: models.RoleLiaison}
	guest   = models.Actor{ID: "guest-1", Role: models.RoleGuest}
)

func newService(repo *RepoMock, pub *PublisherMock) *Service {
	return NewService(repo, pub, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func validInput() models.GroupRequestInput {
	return models.GroupRequestInput{
		OrganizationName: "UNCCD Delegation",
		ContactName:      "Jane Doe",
		ContactEmail:     "jane@example.org",
		ContactPhone:     "+97699001122",
		GuestCount:       12,
		CheckIn:          "2026-08-17",
		CheckOut:         "2026-08-29",
	}
}

func TestService_Submit(t *testing.T) {
	t.Run("stores request and notifies staff", func(t *testing.T) {
		repo := new(RepoMock)
		pub := new(PublisherMock)
		repo.On("CreateGroupRequest", mock.Anything, mock.MatchedBy(func(g models.GroupRequest) bool {
			return g.GuestCount == 12 && g.CheckIn.Format(stay.Layout) == "2026-08-17"
		})).Return("gr-1", nil).Once()
		repo.On("ListProfilesByRoles", mock.Anything, staffRoles, notifyLimit).
			Return([]models.Profile{{ID: "admin-1"}, {ID: "liaison-1"}}, nil).Once()
		repo.On("CreateNotifications", mock.Anything, mock.MatchedBy(func(items []models.Notification) bool {
			return len(items) == 2 && items[0].UserID == "admin-1" && items[0].Type == "group_request" &&
				items[0].Message == "UNCCD Delegation (12 guests) requested dates 2026-08-17 to 2026-08-29."
		})).Return(nil).Once()
		pub.On("Publish", rabbitmq.KeyGroupRequestCreated, mock.MatchedBy(func(e models.GroupRequestEvent) bool {
			return e.RequestID == "gr-1" && e.ContactEmail == "jane@example.org"
		})).Return(nil).Once()

		id, err := newService(repo, pub).Submit(context.Background(), validInput())
		require.NoError(t, err)
		assert.Equal(t, "gr-1", id)
		repo.AssertExpectations(t)
		pub.AssertExpectations(t)
	})

	t.Run("notification failures do not fail submission", func(t *testing.T) {
		repo := new(RepoMock)
		pub := new(PublisherMock)
		repo.On("CreateGroupRequest", mock.Anything, mock.Anything).Return("gr-1", nil).Once()
		repo.On("ListProfilesByRoles", mock.Anything, staffRoles, notifyLimit).
			Return(nil, errors.New("db down")).Once()
		pub.On("Publish", rabbitmq.KeyGroupRequestCreated, mock.Anything).Return(errors.New("broker down")).Once()

		_, err := newService(repo, pub).Submit(context.Background(), validInput())
		assert.NoError(t, err)
	})

	t.Run("too few guests", func(t *testing.T) {
		in := validInput()
		in.GuestCount = 4
		_, err := newService(new(RepoMock), new(PublisherMock)).Submit(context.Background(), in)
		assert.ErrorIs(t, err, ErrTooFewGuests)
	})

	t.Run("reversed dates", func(t *testing.T) {
		in := validInput()
		in.CheckIn, in.CheckOut = in.CheckOut, in.CheckIn
		_, err := newService(new(RepoMock), new(PublisherMock)).Submit(context.Background(), in)
		assert.ErrorIs(t, err, stay.ErrInvalidRange)
	})
}

func TestService_List(t *testing.T) {
	repo := new(RepoMock)
	repo.On("ListGroupRequests", mock.Anything).Return([]models.GroupRequest{{ID: "gr-1"}}, nil).Once()
	svc := newService(repo, new(PublisherMock))

	got, err := svc.List(context.Background(), liaison)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = svc.List(context.Background(), guest)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestService_Assign(t *testing.T) {
	tests := []struct {
		name       string
		actor      models.Actor
		setupMocks func(r *RepoMock)
		wantErr    error
	}{
		{
			name:  "assigns liaison and notifies",
			actor: admin,
			setupMocks: func(r *RepoMock) {
				r.On("GetProfile", mock.Anything, "liaison-1").
					Return(models.Profile{ID: "liaison-1", Role: models.RoleLiaison}, nil).Once()
				r.On("AssignGroupRequest", mock.Anything, admin, "gr-1", "liaison-1").Return(nil).Once()
				r.On("CreateNotifications", mock.Anything, mock.MatchedBy(func(items []models.Notification) bool {
					return len(items) == 1 && items[0].UserID == "liaison-1" && items[0].Type == "assignment"
				})).Return(nil).Once()
			},
		},
		{
			name:       "guest is forbidden",
			actor:      guest,
			setupMocks: func(*RepoMock) {},
			wantErr:    ErrForbidden,
		},
		{
			name:  "assignee is not a liaison",
			actor: admin,
			setupMocks: func(r *RepoMock) {
				r.On("GetProfile", mock.Anything, "liaison-1").
					Return(models.Profile{ID: "liaison-1", Role: models.RoleGuest}, nil).Once()
			},
			wantErr: ErrNotLiaison,
		},
		{
			name:  "missing request",
			actor: admin,
			setupMocks: func(r *RepoMock) {
				r.On("GetProfile", mock.Anything, "liaison-1").
					Return(models.Profile{ID: "liaison-1", Role: models.RoleLiaison}, nil).Once()
				r.On("AssignGroupRequest", mock.Anything, admin, "gr-1", "liaison-1").Return(storage.ErrNotFound).Once()
			},
			wantErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			tt.setupMocks(repo)
			err := newService(repo, new(PublisherMock)).Assign(context.Background(), tt.actor, "gr-1", "liaison-1")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestService_SetStatus(t *testing.T) {
	repo := new(RepoMock)
	repo.On("UpdateGroupRequestStatus", mock.Anything, liaison, "gr-1", models.GroupClosed, "done").Return(nil).Once()
	svc := newService(repo, new(PublisherMock))

	require.NoError(t, svc.SetStatus(context.Background(), liaison, "gr-1", models.GroupClosed, "done"))
	assert.ErrorIs(t, svc.SetStatus(context.Background(), liaison, "gr-1", "archived", ""), ErrInvalidStatus)
	repo.AssertExpectations(t)
}
