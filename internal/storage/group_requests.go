package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/hotel-booking/internal/lib/stay"
	"github.com/magabrotheeeer/hotel-booking/internal/models"
)

const groupRequestColumns = `id, organization_name, contact_name, contact_email, contact_phone, guest_count,
	check_in_date, check_out_date, preferred_hotel, budget_range, special_requirements, status,
	assigned_liaison_id, notes, created_at`

func scanGroupRequest(row scanner) (models.GroupRequest, error) {
	var (
		g       models.GroupRequest
		liaison sql.NullString
	)
	err := row.Scan(&g.ID, &g.OrganizationName, &g.ContactName, &g.ContactEmail, &g.ContactPhone, &g.GuestCount,
		&g.CheckIn, &g.CheckOut, &g.PreferredHotel, &g.BudgetRange, &g.SpecialRequirements, &g.Status,
		&liaison, &g.Notes, &g.CreatedAt)
	if err != nil {
		return models.GroupRequest{}, err
	}
	g.CheckIn, g.CheckOut = stay.Day(g.CheckIn), stay.Day(g.CheckOut)
	g.AssignedLiaisonID = liaison.String
	return g, nil
}

// CreateGroupRequest сохраняет заявку со статусом pending.
func (s *Storage) CreateGroupRequest(ctx context.Context, g models.GroupRequest) (string, error) {
	const op = "storage.CreateGroupRequest"
	if err := checkCtx(ctx, op); err != nil {
		return "", err
	}

	var id string
	err := s.DB.QueryRowContext(ctx, `INSERT INTO group_requests (organization_name, contact_name, contact_email,
			      contact_phone, guest_count, check_in_date, check_out_date, preferred_hotel, budget_range,
			      special_requirements)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			  RETURNING id`,
		g.OrganizationName, g.ContactName, g.ContactEmail, g.ContactPhone, g.GuestCount,
		g.CheckIn, g.CheckOut, g.PreferredHotel, g.BudgetRange, g.SpecialRequirements).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, mapErr(err))
	}
	return id, nil
}

// GetGroupRequest возвращает заявку по ID.
func (s *Storage) GetGroupRequest(ctx context.Context, id string) (models.GroupRequest, error) {
	const op = "storage.GetGroupRequest"
	if err := checkCtx(ctx, op); err != nil {
		return models.GroupRequest{}, err
	}
	g, err := scanGroupRequest(s.DB.QueryRowContext(ctx,
		`SELECT `+groupRequestColumns+` FROM group_requests WHERE id = $1`, id))
	if err != nil {
		return models.GroupRequest{}, fmt.Errorf("%s: %w", op, mapErr(err))
	}
	return g, nil
}

// ListGroupRequests возвращает все заявки, новые первыми.
func (s *Storage) ListGroupRequests(ctx context.Context) ([]models.GroupRequest, error) {
	const op = "storage.ListGroupRequests"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT `+groupRequestColumns+` FROM group_requests ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	result := []models.GroupRequest{}
	for rows.Next() {
		g, err := scanGroupRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// AssignGroupRequest назначает координатора и одобряет заявку.
func (s *Storage) AssignGroupRequest(ctx context.Context, actor models.Actor, id, liaisonID string) error {
	const op = "storage.AssignGroupRequest"
	return s.updateGroupRequest(ctx, op, actor, id, "ASSIGN_LIAISON",
		`UPDATE group_requests SET assigned_liaison_id = $1, status = 'approved' WHERE id = $2`,
		map[string]any{"liaison_id": liaisonID}, liaisonID, id)
}

// UpdateGroupRequestStatus меняет статус заявки и заметки координатора.
func (s *Storage) UpdateGroupRequestStatus(ctx context.Context, actor models.Actor, id, status, notes string) error {
	const op = "storage.UpdateGroupRequestStatus"
	return s.updateGroupRequest(ctx, op, actor, id, "UPDATE_GROUP_STATUS",
		`UPDATE group_requests SET status = $1, notes = COALESCE(NULLIF($2, ''), notes) WHERE id = $3`,
		map[string]any{"status": status}, status, notes, id)
}

func (s *Storage) updateGroupRequest(ctx context.Context, op string, actor models.Actor, id, action, query string,
	data any, args ...any) error {
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	tx, err := s.beginAs(ctx, actor)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapErr(err))
	}
	if err := affected(res); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := audit(ctx, tx, actor, "group_requests", id, action, data); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
