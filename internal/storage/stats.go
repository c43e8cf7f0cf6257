package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/magabrotheeeer/hotel-booking/internal/lib/stay"
	"github.com/magabrotheeeer/hotel-booking/internal/models"
)

// DashboardStats считает сводку по отелям владельца ownerID (или по всем при all)
// на день today.
func (s *Storage) DashboardStats(ctx context.Context, ownerID string, all bool, today time.Time) (models.DashboardStats, error) {
	const op = "storage.DashboardStats"
	if err := checkCtx(ctx, op); err != nil {
		return models.DashboardStats{}, err
	}

	var (
		st       models.DashboardStats
		occupied int
		capacity int
	)
	err := s.DB.QueryRowContext(ctx, `
		WITH scoped_rooms AS (
			SELECT r.id, r.total_inventory
			FROM rooms r JOIN hotels h ON h.id = r.hotel_id
			WHERE $1::boolean OR h.owner_id::text = $2
		), scoped AS (
			SELECT b.* FROM bookings b JOIN scoped_rooms sr ON sr.id = b.room_id
			WHERE b.status <> 'blocked'
		)
		SELECT
			(SELECT COUNT(*) FROM scoped),
			(SELECT COALESCE(SUM(total_price), 0) FROM scoped WHERE status NOT IN ('cancelled', 'rejected')),
			(SELECT COUNT(*) FROM scoped WHERE status = 'pending'),
			(SELECT COUNT(*) FROM scoped
				WHERE status IN ('paid', 'confirmed') AND check_in_date <= $3 AND check_out_date > $3),
			(SELECT COUNT(*) FROM bookings b JOIN scoped_rooms sr ON sr.id = b.room_id
				WHERE b.status = ANY($4::text[]) AND b.check_in_date <= $3 AND b.check_out_date > $3),
			(SELECT COALESCE(SUM(total_inventory), 0) FROM scoped_rooms)`,
		all, ownerID, stay.Day(today), occupyingStatuses()).
		Scan(&st.TotalBookings, &st.Revenue, &st.PendingBookings, &st.ActiveGuests, &occupied, &capacity)
	if err != nil {
		return models.DashboardStats{}, fmt.Errorf("%s: %w", op, err)
	}
	if capacity > 0 {
		st.OccupancyRate = min(100, occupied*100/capacity)
	}
	return st, nil
}
