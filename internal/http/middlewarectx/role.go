package middlewarectx

import (
	"log/slog"
	"net/http"
	"slices"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/hotel-booking/internal/http/response"
	"github.com/magabrotheeeer/hotel-booking/internal/models"
)

// RequireRole пропускает только пользователей с одной из ролей.
// Должен стоять после JWTMiddleware.
func RequireRole(log *slog.Logger, roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFromContext(r.Context())
			if !ok {
				response.Fail(w, r, http.StatusUnauthorized, "authentication required")
				return
			}
			if !slices.Contains(roles, actor.Role) {
				log.Warn("role is not allowed",
					slog.String("request_id", middleware.GetReqID(r.Context())),
					slog.String("user_id", actor.ID),
					slog.String("role", string(actor.Role)),
				)
				response.Fail(w, r, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
