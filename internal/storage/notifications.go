package storage

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/hotel-booking/internal/models"
)

// CreateNotifications сохраняет уведомления одним запросом на каждое.
func (s *Storage) CreateNotifications(ctx context.Context, items []models.Notification) error {
	const op = "storage.CreateNotifications"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, n := range items {
		if _, err := tx.ExecContext(ctx, `INSERT INTO notifications (user_id, title, message, type, link)
			  VALUES ($1, $2, $3, $4, $5)`,
			n.UserID, n.Title, n.Message, n.Type, n.Link); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListNotifications возвращает последние limit уведомлений пользователя.
func (s *Storage) ListNotifications(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	const op = "storage.ListNotifications"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT id, user_id, title, message, type, link, is_read, created_at
			  FROM notifications
			  WHERE user_id = $1
			  ORDER BY created_at DESC
			  LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	result := []models.Notification{}
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &n.Link, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
