// Package storage хранит отели, номера, бронирования и профили в PostgreSQL.
//
// Все операции записи выполняются в транзакции, в начале которой сервис
// передаёт пользователя запроса в app.user_id и app.role. На эти настройки
// опираются политики row level security из миграций 000002 и 000003.
// Чтение вне такой транзакции идёт от служебной роли system, его
// ограничивает сервисный слой.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/magabrotheeeer/hotel-booking/internal/models"
)

var (
	// ErrNotFound запись не найдена.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists нарушено ограничение уникальности.
	ErrAlreadyExists = errors.New("already exists")
)

// System пользователь фоновых задач и платёжного колбэка.
var System = models.Actor{Role: models.RoleSuperAdmin}

// Storage обёртка над пулом соединений с PostgreSQL.
type Storage struct {
	DB *sql.DB
}

// New открывает пул соединений и проверяет доступность базы.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// CheckDatabaseReady проверяет, что миграции применены.
func CheckDatabaseReady(storage *Storage) error {
	var exists bool
	err := storage.DB.QueryRow(`SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'bookings'
    )`).Scan(&exists)
	if err != nil {
		return fmt.Errorf("storage.CheckDatabaseReady: %w", err)
	}
	if !exists {
		return errors.New("storage.CheckDatabaseReady: required table bookings missing")
	}
	return nil
}

// RowSecurityBypassed сообщает, что роль подключения обходит row level
// security (суперпользователь или BYPASSRLS) и политики не действуют.
func (s *Storage) RowSecurityBypassed(ctx context.Context) (bool, error) {
	const op = "storage.RowSecurityBypassed"
	var bypassed bool
	err := s.DB.QueryRowContext(ctx,
		`SELECT rolsuper OR rolbypassrls FROM pg_roles WHERE rolname = current_user`).Scan(&bypassed)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return bypassed, nil
}

// Ping проверяет соединение с базой.
func (s *Storage) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

// Close закрывает пул соединений.
func (s *Storage) Close() error {
	return s.DB.Close()
}

func checkCtx(ctx context.Context, op string) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
		return nil
	}
}

// beginAs открывает транзакцию от имени actor. Пустая роль считается guest,
// иначе политики приняли бы транзакцию за служебную.
func (s *Storage) beginAs(ctx context.Context, actor models.Actor) (*sql.Tx, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	role := actor.Role
	if role == "" {
		role = models.RoleGuest
	}
	_, err = tx.ExecContext(ctx,
		`SELECT set_config('app.user_id', $1, true), set_config('app.role', $2, true)`,
		actor.ID, string(role))
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}
	return tx, nil
}

// mapErr переводит ошибки драйвера в ошибки пакета.
func mapErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrAlreadyExists
	}
	return err
}

func affected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// audit пишет запись журнала в той же транзакции, что и изменение.
func audit(ctx context.Context, tx *sql.Tx, actor models.Actor, table, recordID, action string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	var changedBy any
	if actor.ID != "" {
		changedBy = actor.ID
	}
	_, err = tx.ExecContext(ctx, `INSERT INTO audit_logs (table_name, record_id, action, new_data, changed_by)
			  VALUES ($1, $2, $3, $4, $5)`,
		table, recordID, action, payload, changedBy)
	return err
}

// stringList читает text[], выбранный через to_json.
type stringList []string

func (l *stringList) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = []string{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("stringList: unsupported type %T", src)
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return err
	}
	if out == nil {
		out = []string{}
	}
	*l = out
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nullFloat(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}
