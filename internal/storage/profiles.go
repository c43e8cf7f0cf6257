package storage

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/hotel-booking/internal/models"
)

const profileColumns = `id, email, full_name, role, organization, password_hash, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanProfile(row scanner) (models.Profile, error) {
	var p models.Profile
	err := row.Scan(&p.ID, &p.Email, &p.FullName, &p.Role, &p.Organization, &p.PasswordHash, &p.CreatedAt)
	return p, err
}

// CreateProfile сохраняет профиль и возвращает его ID.
func (s *Storage) CreateProfile(ctx context.Context, actor models.Actor, p models.Profile) (string, error) {
	const op = "storage.CreateProfile"
	if err := checkCtx(ctx, op); err != nil {
		return "", err
	}

	tx, err := s.beginAs(ctx, actor)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	var id string
	err = tx.QueryRowContext(ctx, `INSERT INTO profiles (email, full_name, role, organization, password_hash)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`,
		p.Email, p.FullName, string(p.Role), p.Organization, p.PasswordHash).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, mapErr(err))
	}
	if actor.ID != "" {
		if err := audit(ctx, tx, actor, "profiles", id, "CREATE_USER",
			map[string]any{"email": p.Email, "role": p.Role}); err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// GetProfile возвращает профиль по ID.
func (s *Storage) GetProfile(ctx context.Context, id string) (models.Profile, error) {
	const op = "storage.GetProfile"
	if err := checkCtx(ctx, op); err != nil {
		return models.Profile{}, err
	}
	p, err := scanProfile(s.DB.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id))
	if err != nil {
		return models.Profile{}, fmt.Errorf("%s: %w", op, mapErr(err))
	}
	return p, nil
}

// GetProfileByEmail возвращает профиль по email без учёта регистра.
func (s *Storage) GetProfileByEmail(ctx context.Context, email string) (models.Profile, error) {
	const op = "storage.GetProfileByEmail"
	if err := checkCtx(ctx, op); err != nil {
		return models.Profile{}, err
	}
	p, err := scanProfile(s.DB.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE lower(email) = lower($1)`, email))
	if err != nil {
		return models.Profile{}, fmt.Errorf("%s: %w", op, mapErr(err))
	}
	return p, nil
}

// ListProfiles возвращает все профили, новые первыми.
func (s *Storage) ListProfiles(ctx context.Context) ([]models.Profile, error) {
	const op = "storage.ListProfiles"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	return s.queryProfiles(ctx, op, `SELECT `+profileColumns+` FROM profiles ORDER BY created_at DESC`)
}

// ListProfilesByRoles возвращает до limit профилей с указанными ролями.
func (s *Storage) ListProfilesByRoles(ctx context.Context, roles []models.Role, limit int) ([]models.Profile, error) {
	const op = "storage.ListProfilesByRoles"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, string(r))
	}
	return s.queryProfiles(ctx, op, `SELECT `+profileColumns+` FROM profiles
			  WHERE role = ANY($1::text[])
			  ORDER BY created_at
			  LIMIT $2`, names, limit)
}

func (s *Storage) queryProfiles(ctx context.Context, op, query string, args ...any) ([]models.Profile, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	result := []models.Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateRole меняет роль пользователя и пишет запись в журнал.
func (s *Storage) UpdateRole(ctx context.Context, actor models.Actor, id string, role models.Role) error {
	const op = "storage.UpdateRole"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	tx, err := s.beginAs(ctx, actor)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `UPDATE profiles SET role = $1 WHERE id = $2`, string(role), id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := affected(res); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := audit(ctx, tx, actor, "profiles", id, "UPDATE_ROLE", map[string]any{"role": role}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SetRoleByEmail меняет роль по email. Используется утилитой обслуживания.
func (s *Storage) SetRoleByEmail(ctx context.Context, email string, role models.Role) error {
	const op = "storage.SetRoleByEmail"
	p, err := s.GetProfileByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.UpdateRole(ctx, System, p.ID, role); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DeleteProfile удаляет пользователя вместе с его бронированиями.
func (s *Storage) DeleteProfile(ctx context.Context, actor models.Actor, id string) error {
	const op = "storage.DeleteProfile"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	tx, err := s.beginAs(ctx, actor)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	var email string
	err = tx.QueryRowContext(ctx, `DELETE FROM profiles WHERE id = $1 RETURNING email`, id).Scan(&email)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapErr(err))
	}
	if err := audit(ctx, tx, actor, "profiles", id, "DELETE_USER", map[string]any{"email": email}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
