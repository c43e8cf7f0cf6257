package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/hotel-booking/internal/models"
)

const hotelColumns = `h.id, h.owner_id, h.name, h.description, h.address, h.stars,
	to_json(h.amenities), to_json(h.images), h.hotel_type, h.contact_phone, h.contact_email,
	h.website, h.check_in_time, h.check_out_time, h.latitude, h.longitude, h.created_at`

func scanHotel(row scanner, extra ...any) (models.Hotel, error) {
	var (
		h                   models.Hotel
		amenities, images   stringList
		latitude, longitude sql.NullFloat64
	)
	dest := []any{&h.ID, &h.OwnerID, &h.Name, &h.Description, &h.Address, &h.Stars,
		&amenities, &images, &h.HotelType, &h.ContactPhone, &h.ContactEmail,
		&h.Website, &h.CheckInTime, &h.CheckOutTime, &latitude, &longitude, &h.CreatedAt}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return models.Hotel{}, err
	}
	h.Amenities, h.Images = amenities, images
	h.Latitude, h.Longitude = nullFloat(latitude), nullFloat(longitude)
	return h, nil
}

// ListHotels ищет отели по названию или адресу, минимальной звёздности
// и набору удобств. Каждый отель содержит цену самого дешёвого номера.
func (s *Storage) ListHotels(ctx context.Context, f models.HotelFilter) ([]models.HotelSummary, error) {
	const op = "storage.ListHotels"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + hotelColumns + `,
			      (SELECT MIN(r.price_per_night) FROM rooms r WHERE r.hotel_id = h.id)
			  FROM hotels h
			  WHERE ($1::text = '' OR h.name ILIKE '%' || $1::text || '%' OR h.address ILIKE '%' || $1::text || '%')
			    AND h.stars >= $2
			    AND h.amenities @> $3::text[]
			  ORDER BY h.created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, f.Query, f.MinStars, nonNil(f.Amenities))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	result := []models.HotelSummary{}
	for rows.Next() {
		var minPrice sql.NullInt64
		h, err := scanHotel(rows, &minPrice)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		item := models.HotelSummary{Hotel: h}
		if minPrice.Valid {
			v := minPrice.Int64
			item.MinPrice = &v
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetHotel возвращает отель по ID.
func (s *Storage) GetHotel(ctx context.Context, id string) (models.Hotel, error) {
	const op = "storage.GetHotel"
	if err := checkCtx(ctx, op); err != nil {
		return models.Hotel{}, err
	}
	h, err := scanHotel(s.DB.QueryRowContext(ctx, `SELECT `+hotelColumns+` FROM hotels h WHERE h.id = $1`, id))
	if err != nil {
		return models.Hotel{}, fmt.Errorf("%s: %w", op, mapErr(err))
	}
	return h, nil
}

// CreateHotel создаёт отель, владельцем которого становится ownerID.
func (s *Storage) CreateHotel(ctx context.Context, actor models.Actor, ownerID string, in models.HotelInput) (string, error) {
	const op = "storage.CreateHotel"
	if err := checkCtx(ctx, op); err != nil {
		return "", err
	}

	tx, err := s.beginAs(ctx, actor)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	stars := in.Stars
	if stars == 0 {
		stars = 3
	}
	var id string
	err = tx.QueryRowContext(ctx, `INSERT INTO hotels (owner_id, name, description, address, stars, amenities, images,
			      hotel_type, contact_phone, contact_email, website, check_in_time, check_out_time, latitude, longitude)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, COALESCE(NULLIF($8, ''), 'hotel'), $9, $10, $11,
			      COALESCE(NULLIF($12, ''), '14:00'), COALESCE(NULLIF($13, ''), '12:00'), $14, $15)
			  RETURNING id`,
		ownerID, in.Name, in.Description, in.Address, stars, nonNil(in.Amenities), nonNil(in.Images),
		in.HotelType, in.ContactPhone, in.ContactEmail, in.Website, in.CheckInTime, in.CheckOutTime,
		in.Latitude, in.Longitude).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, mapErr(err))
	}
	if err := audit(ctx, tx, actor, "hotels", id, "CREATE_HOTEL", in); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// UpdateHotel перезаписывает поля отеля.
func (s *Storage) UpdateHotel(ctx context.Context, actor models.Actor, id string, in models.HotelInput) error {
	const op = "storage.UpdateHotel"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	tx, err := s.beginAs(ctx, actor)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `UPDATE hotels
			  SET name = $1, description = $2, address = $3, stars = COALESCE(NULLIF($4, 0), stars),
			      amenities = $5, images = $6, hotel_type = COALESCE(NULLIF($7, ''), hotel_type),
			      contact_phone = $8, contact_email = $9, website = $10,
			      check_in_time = COALESCE(NULLIF($11, ''), check_in_time),
			      check_out_time = COALESCE(NULLIF($12, ''), check_out_time),
			      latitude = $13, longitude = $14
			  WHERE id = $15`,
		in.Name, in.Description, in.Address, in.Stars, nonNil(in.Amenities), nonNil(in.Images), in.HotelType,
		in.ContactPhone, in.ContactEmail, in.Website, in.CheckInTime, in.CheckOutTime,
		in.Latitude, in.Longitude, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := affected(res); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := audit(ctx, tx, actor, "hotels", id, "UPDATE_HOTEL", in); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DeleteHotel удаляет отель вместе с номерами и бронированиями.
func (s *Storage) DeleteHotel(ctx context.Context, actor models.Actor, id string) error {
	const op = "storage.DeleteHotel"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	tx, err := s.beginAs(ctx, actor)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	var name string
	if err := tx.QueryRowContext(ctx, `DELETE FROM hotels WHERE id = $1 RETURNING name`, id).Scan(&name); err != nil {
		return fmt.Errorf("%s: %w", op, mapErr(err))
	}
	if err := audit(ctx, tx, actor, "hotels", id, "DELETE_HOTEL", map[string]any{"name": name}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
