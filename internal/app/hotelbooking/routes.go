// Package hotelbooking собирает HTTP-приложение бронирования.
package hotelbooking

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/hotel-booking/internal/config"
	"github.com/magabrotheeeer/hotel-booking/internal/http/handlers/admin/auditlogs"
	"github.com/magabrotheeeer/hotel-booking/internal/http/handlers/admin/bookings/details"
	adminbookings "github.com/magabrotheeeer/hotel-booking/internal/http/handlers/admin/bookings/list"
	bookingstatus "github.com/magabrotheeeer/hotel-booking/internal/http/handlers/admin/bookings/status"
	"github.com/magabrotheeeer/hotel-booking/internal/http/handlers/admin/inventory/block"
	"github.com/magabrotheeeer/hotel-booking/internal/http/handlers/admin/inventory/grid"
	"github.com/magabrotheeeer/hotel-booking/internal/http/handlers/admin/notifications"
	"github.com/magabrotheeeer/hotel-booking/internal/http/handlers/admin/stats"
	usercreate "github.com/magabrotheeeer/hotel-booking/internal/http/handlers/admin/users/create"
	userlist "github.com/magabrotheeeer/hotel-booking/internal/http/handlers/admin/users/list"
	userremove "github.com/magabrotheeeer/hotel-booking/internal/http/handlers/admin/users/remove"
	"github.com/magabrotheeeer/hotel-booking/internal/http/handlers/admin/users/role"
	"github.com/magabrotheeeer/hotel-booking/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/hotel-booking/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/hotel-booking/internal/http/handlers/bookings/cancel"
	bookingcreate "github.com/magabrotheeeer/hotel-booking/internal/http/handlers/bookings/create"
	"github.com/magabrotheeeer/hotel-booking/internal/http/handlers/bookings/mine"
	"github.com/magabrotheeeer/hotel-booking/internal/http/handlers/grouprequests/assign"
	grouplist "github.com/magabrotheeeer/hotel-booking/internal/http/handlers/grouprequests/list"
	groupstatus "github.com/magabrotheeeer/hotel-booking/internal/http/handlers/grouprequests/status"
	"github.com/magabrotheeeer/hotel-booking/internal/http/handlers/grouprequests/submit"
	"github.com/magabrotheeeer/hotel-booking/internal/http/handlers/health"
	"github.com/magabrotheeeer/hotel-booking/internal/http/handlers/hotels/addroom"
	hotelcreate "github.com/magabrotheeeer/hotel-booking/internal/http/handlers/hotels/create"
	"github.com/magabrotheeeer/hotel-booking/internal/http/handlers/hotels/get"
	hotellist "github.com/magabrotheeeer/hotel-booking/internal/http/handlers/hotels/list"
	hotelremove "github.com/magabrotheeeer/hotel-booking/internal/http/handlers/hotels/remove"
	"github.com/magabrotheeeer/hotel-booking/internal/http/handlers/hotels/update"
	"github.com/magabrotheeeer/hotel-booking/internal/http/handlers/payments/callback"
	"github.com/magabrotheeeer/hotel-booking/internal/http/handlers/payments/mockpay"
	"github.com/magabrotheeeer/hotel-booking/internal/http/handlers/rooms/availability"
	"github.com/magabrotheeeer/hotel-booking/internal/http/middlewarectx"
	"github.com/magabrotheeeer/hotel-booking/internal/metrics"
	"github.com/magabrotheeeer/hotel-booking/internal/models"
	authservice "github.com/magabrotheeeer/hotel-booking/internal/services/auth"
	availabilityservice "github.com/magabrotheeeer/hotel-booking/internal/services/availability"
	bookingservice "github.com/magabrotheeeer/hotel-booking/internal/services/booking"
	groupservice "github.com/magabrotheeeer/hotel-booking/internal/services/grouprequest"
	hotelservice "github.com/magabrotheeeer/hotel-booking/internal/services/hotel"
	notificationservice "github.com/magabrotheeeer/hotel-booking/internal/services/notifications"
	userservice "github.com/magabrotheeeer/hotel-booking/internal/services/users"
)

// Services набор сервисов, которые обслуживают маршруты.
type Services struct {
	Auth          *authservice.Service
	Hotels        *hotelservice.Service
	Availability  *availabilityservice.Service
	Bookings      *bookingservice.Service
	Users         *userservice.Service
	Groups        *groupservice.Service
	Notifications *notificationservice.Service
	Tokens        middlewarectx.TokenParser
	Profiles      middlewarectx.ProfileLoader
	DB            health.Pinger
	// MockPayments монтирует /mock-payment, когда шлюз работает без endpoint.
	MockPayments bool
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg config.HTTPServer, s Services) {
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		metrics.HTTPMiddleware,
	)

	staff := middlewarectx.RequireRole(logger, models.RoleAdmin, models.RoleSuperAdmin)
	superAdmin := middlewarectx.RequireRole(logger, models.RoleSuperAdmin)
	groupDesk := middlewarectx.RequireRole(logger, models.RoleAdmin, models.RoleSuperAdmin, models.RoleLiaison)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middlewarectx.RateLimitMiddleware(logger, cfg.RateLimit, cfg.RateBurst))

		// Открытые конечные точки
		r.Post("/register", register.New(logger, s.Auth).ServeHTTP)
		r.Post("/login", login.New(logger, s.Auth).ServeHTTP)
		r.Get("/hotels", hotellist.New(logger, s.Hotels).ServeHTTP)
		r.Get("/hotels/{id}", get.New(logger, s.Hotels).ServeHTTP)
		r.Get("/rooms/{id}/availability", availability.New(logger, s.Availability).ServeHTTP)
		r.With(middlewarectx.OptionalAuth(s.Tokens)).Post("/group-requests", submit.New(logger, s.Groups).ServeHTTP)

		// Колбэк платёжного шлюза проверяется контрольной суммой, а не токеном
		r.Post("/payments/callback", callback.New(logger, s.Bookings).ServeHTTP)

		// Группа с JWT аутентификацией, роль берётся из профиля, а не из токена
		r.Group(func(r chi.Router) {
			r.Use(
				middlewarectx.JWTMiddleware(s.Tokens, logger),
				middlewarectx.ProfileMiddleware(logger, s.Profiles),
			)

			r.Post("/bookings", bookingcreate.New(logger, s.Bookings).ServeHTTP)
			r.Get("/bookings/my", mine.New(logger, s.Bookings).ServeHTTP)
			r.Post("/bookings/{id}/cancel", cancel.New(logger, s.Bookings).ServeHTTP)

			r.Route("/admin", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(staff)
					r.Post("/hotels", hotelcreate.New(logger, s.Hotels).ServeHTTP)
					r.Put("/hotels/{id}", update.New(logger, s.Hotels).ServeHTTP)
					r.Delete("/hotels/{id}", hotelremove.New(logger, s.Hotels).ServeHTTP)
					r.Post("/hotels/{id}/rooms", addroom.New(logger, s.Hotels).ServeHTTP)

					r.Get("/bookings", adminbookings.New(logger, s.Bookings).ServeHTTP)
					r.Get("/bookings/{id}", details.New(logger, s.Bookings).ServeHTTP)
					r.Put("/bookings/{id}/status", bookingstatus.New(logger, s.Bookings).ServeHTTP)

					r.Get("/inventory", grid.New(logger, s.Availability).ServeHTTP)
					r.Post("/inventory/block", block.New(logger, s.Bookings).ServeHTTP)
					r.Get("/stats", stats.New(logger, s.Bookings).ServeHTTP)
				})

				r.Group(func(r chi.Router) {
					r.Use(groupDesk)
					r.Get("/notifications", notifications.New(logger, s.Notifications).ServeHTTP)
					r.Get("/group-requests", grouplist.New(logger, s.Groups).ServeHTTP)
					r.Put("/group-requests/{id}/assign", assign.New(logger, s.Groups).ServeHTTP)
					r.Put("/group-requests/{id}/status", groupstatus.New(logger, s.Groups).ServeHTTP)
				})

				r.Group(func(r chi.Router) {
					r.Use(superAdmin)
					r.Get("/users", userlist.New(logger, s.Users).ServeHTTP)
					r.Post("/users", usercreate.New(logger, s.Users).ServeHTTP)
					r.Put("/users/{id}/role", role.New(logger, s.Users).ServeHTTP)
					r.Delete("/users/{id}", userremove.New(logger, s.Users).ServeHTTP)
					r.Get("/audit-logs", auditlogs.New(logger, s.Users).ServeHTTP)
				})
			})
		})
	})

	if s.MockPayments {
		r.Get("/mock-payment", mockpay.New(logger, s.Bookings, cfg.PublicURL).ServeHTTP)
	}
	r.Get("/health", health.New(logger, s.DB).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
