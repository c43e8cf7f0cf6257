package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/hotel-booking/internal/http/response"
	"github.com/magabrotheeeer/hotel-booking/internal/lib/sl"
	"github.com/magabrotheeeer/hotel-booking/internal/models"
	"github.com/magabrotheeeer/hotel-booking/internal/storage"
)

// ProfileLoader читает профиль пользователя из базы.
type ProfileLoader interface {
	GetProfile(ctx context.Context, id string) (models.Profile, error)
}

// ProfileMiddleware перечитывает профиль пользователя из токена и заменяет
// роль и email в контексте на текущие значения из базы. Должен стоять
// после JWTMiddleware и до RequireRole.
//
// Удалённый пользователь получает 401, даже если токен ещё не истёк.
func ProfileMiddleware(log *slog.Logger, profiles ProfileLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.ProfileMiddleware"

			actor, ok := ActorFromContext(r.Context())
			if !ok {
				response.Fail(w, r, http.StatusUnauthorized, "authentication required")
				return
			}

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
				sl.Actor(actor.ID, string(actor.Role)),
			)

			p, err := profiles.GetProfile(r.Context(), actor.ID)
			if errors.Is(err, storage.ErrNotFound) {
				log.Warn("profile of token owner no longer exists")
				response.Fail(w, r, http.StatusUnauthorized, "account no longer exists")
				return
			}
			if err != nil {
				log.Error("failed to load profile", sl.Err(err))
				response.Fail(w, r, http.StatusInternalServerError, "internal error")
				return
			}

			if p.Role != actor.Role {
				log.Info("role in token is stale", slog.String("profile_role", string(p.Role)))
			}
			actor.Role = p.Role
			actor.Email = p.Email
			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}
