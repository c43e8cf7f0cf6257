// Package main Hotel Booking API
//
// @title           Hotel Booking API
// @version         1.0
// @description     API бронирования гостиниц: поиск, доступность номеров, бронирования и админка отелей

// @contact.name   API Support
// @contact.email  support@hotel-booking.mn

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/magabrotheeeer/hotel-booking/internal/app/hotelbooking"
	"github.com/magabrotheeeer/hotel-booking/internal/config"
	"github.com/magabrotheeeer/hotel-booking/internal/lib/sl"
)

func main() {
	cfg := config.MustLoad()
	logger := sl.New(os.Stdout, cfg.Env)

	logger.Info("starting hotel-booking", slog.String("env", cfg.Env))
	logger.Debug("config loaded", slog.String("config", cfg.String()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := hotelbooking.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize app", sl.Err(err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("app stopped with error", sl.Err(err))
		os.Exit(1)
	}

	logger.Info("hotel-booking stopped gracefully")
}
