package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/hotel-booking/internal/models"
)

// ListAuditLogs возвращает последние limit записей журнала.
func (s *Storage) ListAuditLogs(ctx context.Context, limit int) ([]models.AuditLog, error) {
	const op = "storage.ListAuditLogs"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT id, table_name, record_id, action, new_data, changed_by, created_at
			  FROM audit_logs
			  ORDER BY created_at DESC
			  LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	result := []models.AuditLog{}
	for rows.Next() {
		var (
			l         models.AuditLog
			data      []byte
			changedBy sql.NullString
		)
		if err := rows.Scan(&l.ID, &l.TableName, &l.RecordID, &l.Action, &data, &changedBy, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		l.NewData = data
		l.ChangedBy = changedBy.String
		result = append(result, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListPolicies возвращает политики row level security приложения
// в формате "таблица: политика (команда)".
func (s *Storage) ListPolicies(ctx context.Context) ([]string, error) {
	const op = "storage.ListPolicies"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT tablename, policyname, cmd
			  FROM pg_policies
			  WHERE schemaname = 'public'
			  ORDER BY tablename, policyname`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var result []string
	for rows.Next() {
		var table, name, cmd string
		if err := rows.Scan(&table, &name, &cmd); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, fmt.Sprintf("%s: %s (%s)", table, name, cmd))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
