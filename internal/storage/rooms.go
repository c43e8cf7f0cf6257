package storage

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/hotel-booking/internal/models"
)

const roomColumns = `r.id, r.hotel_id, r.name, r.description, r.type, r.price_per_night, r.capacity,
	to_json(r.amenities), to_json(r.images), r.total_inventory, r.created_at`

func scanRoom(row scanner, extra ...any) (models.Room, error) {
	var (
		r                 models.Room
		amenities, images stringList
	)
	dest := []any{&r.ID, &r.HotelID, &r.Name, &r.Description, &r.Type, &r.PricePerNight, &r.Capacity,
		&amenities, &images, &r.TotalInventory, &r.CreatedAt}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return models.Room{}, err
	}
	r.Amenities, r.Images = amenities, images
	return r, nil
}

// GetRoom возвращает номер вместе с названием и владельцем отеля.
func (s *Storage) GetRoom(ctx context.Context, id string) (models.RoomWithHotel, error) {
	const op = "storage.GetRoom"
	if err := checkCtx(ctx, op); err != nil {
		return models.RoomWithHotel{}, err
	}

	var out models.RoomWithHotel
	room, err := scanRoom(s.DB.QueryRowContext(ctx, `SELECT `+roomColumns+`, h.name, h.owner_id
			  FROM rooms r JOIN hotels h ON h.id = r.hotel_id
			  WHERE r.id = $1`, id), &out.HotelName, &out.HotelOwnerID)
	if err != nil {
		return models.RoomWithHotel{}, fmt.Errorf("%s: %w", op, mapErr(err))
	}
	out.Room = room
	return out, nil
}

// ListRoomsByHotel возвращает номера отеля, дешёвые первыми.
func (s *Storage) ListRoomsByHotel(ctx context.Context, hotelID string) ([]models.Room, error) {
	const op = "storage.ListRoomsByHotel"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT `+roomColumns+` FROM rooms r
			  WHERE r.hotel_id = $1
			  ORDER BY r.price_per_night, r.name`, hotelID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	result := []models.Room{}
	for rows.Next() {
		r, err := scanRoom(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListManagedRooms возвращает номера отелей владельца ownerID.
// При all = true возвращаются номера всех отелей.
func (s *Storage) ListManagedRooms(ctx context.Context, ownerID string, all bool) ([]models.RoomWithHotel, error) {
	const op = "storage.ListManagedRooms"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT `+roomColumns+`, h.name, h.owner_id
			  FROM rooms r JOIN hotels h ON h.id = r.hotel_id
			  WHERE $1::boolean OR h.owner_id::text = $2
			  ORDER BY h.name, r.name`, all, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	result := []models.RoomWithHotel{}
	for rows.Next() {
		var item models.RoomWithHotel
		room, err := scanRoom(rows, &item.HotelName, &item.HotelOwnerID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		item.Room = room
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CreateRoom добавляет тип номера в отель.
func (s *Storage) CreateRoom(ctx context.Context, actor models.Actor, hotelID string, in models.RoomInput) (string, error) {
	const op = "storage.CreateRoom"
	if err := checkCtx(ctx, op); err != nil {
		return "", err
	}

	tx, err := s.beginAs(ctx, actor)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	var id string
	err = tx.QueryRowContext(ctx, `INSERT INTO rooms (hotel_id, name, description, type, price_per_night,
			      capacity, amenities, images, total_inventory)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			  RETURNING id`,
		hotelID, in.Name, in.Description, in.Type, in.PricePerNight, in.Capacity,
		nonNil(in.Amenities), nonNil(in.Images), in.TotalInventory).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, mapErr(err))
	}
	if err := audit(ctx, tx, actor, "rooms", id, "CREATE_ROOM", in); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}
