// Package sl содержит вспомогательные функции для работы с логгером slog.
package sl

import (
	"io"
	"log/slog"
)

// Err возвращает slog.Attr с ключом "error" и текстом ошибки.
//
// Пример:
//
//	log.Error("failed to create booking", sl.Err(err))
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.String("error", err.Error())
}

// Actor возвращает группу атрибутов с идентификатором и ролью пользователя,
// от имени которого выполняется операция.
func Actor(id, role string) slog.Attr {
	return slog.Group("actor", slog.String("id", id), slog.String("role", role))
}

// EnvLocal окружение разработчика, в нём включены отладочные логи.
const EnvLocal = "local"

// New создаёт текстовый логгер. В окружении EnvLocal уровень Debug, в остальных Info.
func New(w io.Writer, env string) *slog.Logger {
	level := slog.LevelInfo
	if env == EnvLocal {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
