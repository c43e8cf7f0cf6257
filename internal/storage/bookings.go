package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/magabrotheeeer/hotel-booking/internal/lib/stay"
	"github.com/magabrotheeeer/hotel-booking/internal/models"
)

const bookingColumns = `b.id, b.room_id, b.user_id, b.check_in_date, b.check_out_date, b.status, b.total_price,
	b.guest_passport_encrypted, b.guest_phone_encrypted, b.special_requests_encrypted, b.note, b.created_at`

const bookingViewFrom = `FROM bookings b
	JOIN rooms r ON r.id = b.room_id
	JOIN hotels h ON h.id = r.hotel_id
	JOIN profiles p ON p.id = b.user_id`

const bookingViewColumns = bookingColumns + `, r.name, h.id, h.name, p.full_name, p.email`

// BookingGuard получает заблокированный номер и пересекающиеся с периодом
// бронирования, занимающие номер, и возвращает запись для вставки.
// Ошибка guard отменяет транзакцию и возвращается вызывающему без изменений.
type BookingGuard func(room models.Room, overlapping []models.Booking) (models.Booking, error)

func scanBooking(row scanner, extra ...any) (models.Booking, error) {
	var b models.Booking
	dest := []any{&b.ID, &b.RoomID, &b.UserID, &b.CheckIn, &b.CheckOut, &b.Status, &b.TotalPrice,
		&b.GuestPassportEncrypted, &b.GuestPhoneEncrypted, &b.SpecialRequestsEncrypted, &b.Note, &b.CreatedAt}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return models.Booking{}, err
	}
	b.CheckIn, b.CheckOut = stay.Day(b.CheckIn), stay.Day(b.CheckOut)
	return b, nil
}

func scanBookingView(row scanner, extra ...any) (models.BookingView, error) {
	var v models.BookingView
	b, err := scanBooking(row, append([]any{&v.RoomName, &v.HotelID, &v.HotelName, &v.GuestName, &v.Email}, extra...)...)
	if err != nil {
		return models.BookingView{}, err
	}
	v.Booking = b
	return v, nil
}

func occupyingStatuses() []string {
	out := make([]string, 0, len(models.OccupyingStatuses))
	for _, s := range models.OccupyingStatuses {
		out = append(out, string(s))
	}
	return out
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// ListOccupying возвращает бронирования номеров roomIDs, которые занимают
// номер хотя бы одну ночь периода rng.
func (s *Storage) ListOccupying(ctx context.Context, roomIDs []string, rng stay.Range) ([]models.Booking, error) {
	const op = "storage.ListOccupying"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	result, err := listOccupying(ctx, s.DB, roomIDs, rng)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// listOccupying читает занятость через room_occupancy: политика bookings_select
// скрыла бы от гостя чужие бронирования и номер ушёл бы в овербукинг.
func listOccupying(ctx context.Context, q queryer, roomIDs []string, rng stay.Range) ([]models.Booking, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+bookingColumns+`
			  FROM room_occupancy($1::text[], $2::text[], $3::date, $4::date) b
			  ORDER BY b.check_in_date`,
		nonNil(roomIDs), occupyingStatuses(), rng.CheckIn, rng.CheckOut)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []models.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	return result, rows.Err()
}

// CreateBooking вставляет бронирование номера roomID на период rng.
//
// Строка номера блокируется через lock_room (SELECT ... FOR UPDATE), поэтому
// проверка доступности в guard и вставка не пересекаются с параллельными
// запросами на тот же номер.
func (s *Storage) CreateBooking(ctx context.Context, actor models.Actor, roomID string, rng stay.Range,
	guard BookingGuard) (models.Booking, error) {
	const op = "storage.CreateBooking"
	if err := checkCtx(ctx, op); err != nil {
		return models.Booking{}, err
	}

	tx, err := s.beginAs(ctx, actor)
	if err != nil {
		return models.Booking{}, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	room, err := scanRoom(tx.QueryRowContext(ctx, `SELECT `+roomColumns+` FROM lock_room($1::uuid) r`, roomID))
	if err != nil {
		return models.Booking{}, fmt.Errorf("%s: %w", op, mapErr(err))
	}
	existing, err := listOccupying(ctx, tx, []string{roomID}, rng)
	if err != nil {
		return models.Booking{}, fmt.Errorf("%s: %w", op, err)
	}

	b, err := guard(room, existing)
	if err != nil {
		return models.Booking{}, err
	}

	err = tx.QueryRowContext(ctx, `INSERT INTO bookings (room_id, user_id, check_in_date, check_out_date, status,
			      total_price, guest_passport_encrypted, guest_phone_encrypted, special_requests_encrypted, note)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			  RETURNING id, created_at`,
		room.ID, b.UserID, b.CheckIn, b.CheckOut, string(b.Status), b.TotalPrice,
		b.GuestPassportEncrypted, b.GuestPhoneEncrypted, b.SpecialRequestsEncrypted, b.Note).Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		return models.Booking{}, fmt.Errorf("%s: %w", op, mapErr(err))
	}
	if err := tx.Commit(); err != nil {
		return models.Booking{}, fmt.Errorf("%s: %w", op, err)
	}
	b.RoomID = room.ID
	return b, nil
}

// CreateBlocks закрывает номера roomIDs на период rng бронированиями
// со статусом blocked от имени actor.
func (s *Storage) CreateBlocks(ctx context.Context, actor models.Actor, roomIDs []string, rng stay.Range,
	reason string) ([]string, error) {
	const op = "storage.CreateBlocks"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	if len(roomIDs) == 0 {
		return nil, fmt.Errorf("%s: no rooms", op)
	}

	tx, err := s.beginAs(ctx, actor)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	ids := make([]string, 0, len(roomIDs))
	for _, roomID := range roomIDs {
		var id string
		err := tx.QueryRowContext(ctx, `INSERT INTO bookings (room_id, user_id, check_in_date, check_out_date,
			      status, total_price, note)
			  VALUES ($1, $2, $3, $4, $5, 0, $6)
			  RETURNING id`,
			roomID, actor.ID, rng.CheckIn, rng.CheckOut, string(models.StatusBlocked), reason).Scan(&id)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, mapErr(err))
		}
		ids = append(ids, id)
	}
	if err := audit(ctx, tx, actor, "bookings", "", "BULK_BLOCK", map[string]any{
		"room_ids": roomIDs, "range": rng.String(), "reason": reason,
	}); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ids, nil
}

// GetBooking возвращает бронирование с названиями и владельцем отеля.
func (s *Storage) GetBooking(ctx context.Context, id string) (models.BookingDetails, error) {
	const op = "storage.GetBooking"
	if err := checkCtx(ctx, op); err != nil {
		return models.BookingDetails{}, err
	}

	var d models.BookingDetails
	v, err := scanBookingView(s.DB.QueryRowContext(ctx, `SELECT `+bookingViewColumns+`, h.owner_id `+bookingViewFrom+`
			  WHERE b.id = $1`, id), &d.HotelOwnerID)
	if err != nil {
		return models.BookingDetails{}, fmt.Errorf("%s: %w", op, mapErr(err))
	}
	d.BookingView = v
	return d, nil
}

// ListUserBookings возвращает бронирования пользователя, новые первыми.
func (s *Storage) ListUserBookings(ctx context.Context, userID string) ([]models.BookingView, error) {
	const op = "storage.ListUserBookings"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	return s.queryBookingViews(ctx, op, `SELECT `+bookingViewColumns+` `+bookingViewFrom+`
			  WHERE b.user_id = $1
			  ORDER BY b.created_at DESC`, userID)
}

// ListHotelBookings возвращает бронирования отелей владельца ownerID,
// или всех отелей при all = true.
func (s *Storage) ListHotelBookings(ctx context.Context, ownerID string, all bool) ([]models.BookingView, error) {
	const op = "storage.ListHotelBookings"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	return s.queryBookingViews(ctx, op, `SELECT `+bookingViewColumns+` `+bookingViewFrom+`
			  WHERE $1::boolean OR h.owner_id::text = $2
			  ORDER BY b.created_at DESC`, all, ownerID)
}

// ListArrivals возвращает подтверждённые и оплаченные заезды на день day.
func (s *Storage) ListArrivals(ctx context.Context, day time.Time) ([]models.BookingView, error) {
	const op = "storage.ListArrivals"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	return s.queryBookingViews(ctx, op, `SELECT `+bookingViewColumns+` `+bookingViewFrom+`
			  WHERE b.check_in_date = $1 AND b.status IN ('paid', 'confirmed')
			  ORDER BY b.created_at`, stay.Day(day))
}

func (s *Storage) queryBookingViews(ctx context.Context, op, query string, args ...any) ([]models.BookingView, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	result := []models.BookingView{}
	for rows.Next() {
		v, err := scanBookingView(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateBookingStatus переводит бронирование в статус status.
// Если передан from, обновление выполняется только из этих статусов,
// иначе возвращается ErrNotFound.
func (s *Storage) UpdateBookingStatus(ctx context.Context, actor models.Actor, id string,
	status models.BookingStatus, from ...models.BookingStatus) error {
	const op = "storage.UpdateBookingStatus"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	allowed := make([]string, 0, len(from))
	for _, f := range from {
		allowed = append(allowed, string(f))
	}

	tx, err := s.beginAs(ctx, actor)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `UPDATE bookings SET status = $1
			  WHERE id = $2 AND (cardinality($3::text[]) = 0 OR status = ANY($3::text[]))`,
		string(status), id, allowed)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := affected(res); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := audit(ctx, tx, actor, "bookings", id, "UPDATE_STATUS", map[string]any{"status": status}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// CompleteFinished закрывает оплаченные и подтверждённые бронирования,
// дата выезда которых не позже today.
func (s *Storage) CompleteFinished(ctx context.Context, today time.Time) (int64, error) {
	const op = "storage.CompleteFinished"
	n, err := s.bulkStatus(ctx, `UPDATE bookings SET status = 'completed'
			  WHERE status IN ('paid', 'confirmed') AND check_out_date <= $1`, stay.Day(today))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

// CancelStalePending отменяет неоплаченные бронирования, созданные раньше before.
func (s *Storage) CancelStalePending(ctx context.Context, before time.Time) (int64, error) {
	const op = "storage.CancelStalePending"
	n, err := s.bulkStatus(ctx, `UPDATE bookings SET status = 'cancelled'
			  WHERE status = 'pending' AND created_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

func (s *Storage) bulkStatus(ctx context.Context, query string, arg any) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	tx, err := s.beginAs(ctx, System)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, query, arg)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return n, nil
}
