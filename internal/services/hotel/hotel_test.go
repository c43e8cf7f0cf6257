package hotel

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/hotel-booking/internal/cache"
	"github.com/magabrotheeeer/hotel-booking/internal/config"
	"github.com/magabrotheeeer/hotel-booking/internal/models"
	"github.com/magabrotheeeer/hotel-booking/internal/storage"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) ListHotels(ctx context.Context, f models.HotelFilter) ([]models.HotelSummary, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.HotelSummary), args.Error(1)
}

func (m *RepoMock) GetHotel(ctx context.Context, id string) (models.Hotel, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Hotel), args.Error(1)
}

func (m *RepoMock) ListRoomsByHotel(ctx context.Context, hotelID string) ([]models.Room, error) {
	args := m.Called(ctx, hotelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Room), args.Error(1)
}

func (m *RepoMock) CreateHotel(ctx context.Context, actor models.Actor, ownerID string, in models.HotelInput) (string, error) {
	args := m.Called(ctx, actor, ownerID, in)
	return args.String(0), args.Error(1)
}

func (m *RepoMock) UpdateHotel(ctx context.Context, actor models.Actor, id string, in models.HotelInput) error {
	return m.Called(ctx, actor, id, in).Error(0)
}

func (m *RepoMock) DeleteHotel(ctx context.Context, actor models.Actor, id string) error {
	return m.Called(ctx, actor, id).Error(0)
}

func (m *RepoMock) CreateRoom(ctx context.Context, actor models.Actor, hotelID string, in models.RoomInput) (string, error) {
	args := m.Called(ctx, actor, hotelID, in)
	return args.String(0), args.Error(1)
}

var (
	venue = Venue{Name: "Sukhbaatar Square", Latitude: 47.9188, Longitude: 106.9176}
	owner = models.Actor{ID: "admin-1", Role: models.RoleAdmin}
)

func newTestService(t *testing.T, repo *RepoMock) (*Service, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	c, err := cache.InitServer(context.Background(), config.RedisConnection{AddressRedis: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	return NewService(repo, c, time.Hour, venue, slog.New(slog.NewTextHandler(io.Discard, nil))), mr
}

func ptr[T any](v T) *T { return &v }

func TestDistance(t *testing.T) {
	assert.Equal(t, 0.0, Distance(47.9188, 106.9176, 47.9188, 106.9176))
	// Улан-Батор - Эрдэнэт, около 245 км по прямой.
	d := Distance(47.9188, 106.9176, 49.0278, 104.0446)
	assert.InDelta(t, 245, d, 10)
	assert.Equal(t, d, Distance(49.0278, 104.0446, 47.9188, 106.9176))
}

func catalogue() []models.HotelSummary {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return []models.HotelSummary{
		{Hotel: models.Hotel{ID: "far", Stars: 3, CreatedAt: base,
			Latitude: ptr(49.0278), Longitude: ptr(104.0446)}, MinPrice: ptr(int64(80000))},
		{Hotel: models.Hotel{ID: "near", Stars: 5, CreatedAt: base.Add(time.Hour),
			Latitude: ptr(47.92), Longitude: ptr(106.92)}, MinPrice: ptr(int64(300000))},
		{Hotel: models.Hotel{ID: "nowhere", Stars: 4, CreatedAt: base.Add(2 * time.Hour)}},
	}
}

func ids(hotels []models.HotelSummary) []string {
	out := make([]string, 0, len(hotels))
	for _, h := range hotels {
		out = append(out, h.ID)
	}
	return out
}

func TestService_List(t *testing.T) {
	tests := []struct {
		name    string
		filter  models.HotelFilter
		want    []string
		wantErr error
	}{
		{name: "newest by default", filter: models.HotelFilter{}, want: []string{"nowhere", "near", "far"}},
		{name: "price ascending", filter: models.HotelFilter{SortBy: SortPriceAsc}, want: []string{"nowhere", "far", "near"}},
		{name: "price descending", filter: models.HotelFilter{SortBy: SortPriceDesc}, want: []string{"near", "far", "nowhere"}},
		{name: "stars", filter: models.HotelFilter{SortBy: SortStarsDesc}, want: []string{"near", "nowhere", "far"}},
		{name: "distance puts unknown last", filter: models.HotelFilter{SortBy: SortDistance},
			want: []string{"near", "far", "nowhere"}},
		{name: "max price drops hotels without rooms",
			filter: models.HotelFilter{MaxPrice: ptr(int64(100000))}, want: []string{"far"}},
		{name: "min price keeps hotels without rooms",
			filter: models.HotelFilter{MinPrice: ptr(int64(100000))}, want: []string{"nowhere", "near"}},
		{name: "unknown sort", filter: models.HotelFilter{SortBy: "random"}, wantErr: ErrUnknownSort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			if tt.wantErr == nil {
				repo.On("ListHotels", mock.Anything, mock.Anything).Return(catalogue(), nil).Once()
			}
			svc, _ := newTestService(t, repo)

			got, err := svc.List(context.Background(), tt.filter)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
			repo.AssertExpectations(t)
		})
	}
}

func TestService_List_Distance(t *testing.T) {
	repo := new(RepoMock)
	repo.On("ListHotels", mock.Anything, mock.Anything).Return(catalogue(), nil).Once()
	svc, _ := newTestService(t, repo)

	got, err := svc.List(context.Background(), models.HotelFilter{SortBy: SortDistance})
	require.NoError(t, err)
	require.NotNil(t, got[0].DistanceKM)
	assert.Less(t, *got[0].DistanceKM, 1.0)
	assert.Nil(t, got[2].DistanceKM)
}

func TestService_Details_UsesCache(t *testing.T) {
	repo := new(RepoMock)
	hotel := models.Hotel{ID: "h1", OwnerID: owner.ID, Name: "Blue Sky"}
	rooms := []models.Room{{ID: "r1", HotelID: "h1", Name: "Deluxe", TotalInventory: 3}}
	repo.On("GetHotel", mock.Anything, "h1").Return(hotel, nil).Once()
	repo.On("ListRoomsByHotel", mock.Anything, "h1").Return(rooms, nil).Once()
	svc, mr := newTestService(t, repo)

	first, err := svc.Details(context.Background(), "h1")
	require.NoError(t, err)
	assert.True(t, mr.Exists(cache.HotelKey("h1")))

	second, err := svc.Details(context.Background(), "h1")
	require.NoError(t, err)
	assert.Equal(t, first.Name, second.Name)
	assert.Len(t, second.Rooms, 1)
	repo.AssertExpectations(t)
}

func TestService_Details_NotFound(t *testing.T) {
	repo := new(RepoMock)
	repo.On("GetHotel", mock.Anything, "h1").Return(models.Hotel{}, storage.ErrNotFound).Once()
	svc, _ := newTestService(t, repo)

	_, err := svc.Details(context.Background(), "h1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_Mutations(t *testing.T) {
	in := models.HotelInput{Name: "Blue Sky", Stars: 4}
	hotel := models.Hotel{ID: "h1", OwnerID: owner.ID}

	t.Run("guest cannot create", func(t *testing.T) {
		svc, _ := newTestService(t, new(RepoMock))
		_, err := svc.Create(context.Background(), models.Actor{ID: "g", Role: models.RoleGuest}, in)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("admin creates own hotel", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("CreateHotel", mock.Anything, owner, owner.ID, in).Return("h1", nil).Once()
		svc, _ := newTestService(t, repo)

		id, err := svc.Create(context.Background(), owner, in)
		require.NoError(t, err)
		assert.Equal(t, "h1", id)
	})

	t.Run("update invalidates cached card", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("GetHotel", mock.Anything, "h1").Return(hotel, nil).Once()
		repo.On("UpdateHotel", mock.Anything, owner, "h1", in).Return(nil).Once()
		svc, mr := newTestService(t, repo)
		require.NoError(t, mr.Set(cache.HotelKey("h1"), `{}`))

		require.NoError(t, svc.Update(context.Background(), owner, "h1", in))
		assert.False(t, mr.Exists(cache.HotelKey("h1")))
		repo.AssertExpectations(t)
	})

	t.Run("other admin is forbidden", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("GetHotel", mock.Anything, "h1").Return(hotel, nil).Once()
		svc, _ := newTestService(t, repo)

		err := svc.Update(context.Background(), models.Actor{ID: "admin-2", Role: models.RoleAdmin}, "h1", in)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("super admin deletes any hotel and drops room cache", func(t *testing.T) {
		root := models.Actor{ID: "root", Role: models.RoleSuperAdmin}
		repo := new(RepoMock)
		repo.On("GetHotel", mock.Anything, "h1").Return(hotel, nil).Once()
		repo.On("ListRoomsByHotel", mock.Anything, "h1").Return([]models.Room{{ID: "r1"}}, nil).Once()
		repo.On("DeleteHotel", mock.Anything, root, "h1").Return(nil).Once()
		svc, mr := newTestService(t, repo)
		require.NoError(t, mr.Set(cache.RoomKey("r1"), `{}`))

		require.NoError(t, svc.Delete(context.Background(), root, "h1"))
		assert.False(t, mr.Exists(cache.RoomKey("r1")))
		repo.AssertExpectations(t)
	})

	t.Run("add room to missing hotel", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("GetHotel", mock.Anything, "h9").Return(models.Hotel{}, storage.ErrNotFound).Once()
		svc, _ := newTestService(t, repo)

		_, err := svc.AddRoom(context.Background(), owner, "h9", models.RoomInput{Name: "Twin"})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
