// Команда hbctl обслуживает базу: миграции, назначение ролей, просмотр политик RLS.
//
//	hbctl migrate [--down N]
//	hbctl version
//	hbctl set-role --email admin@example.mn --role super_admin
//	hbctl policies
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/magabrotheeeer/hotel-booking/internal/config"
	"github.com/magabrotheeeer/hotel-booking/internal/lib/access"
	"github.com/magabrotheeeer/hotel-booking/internal/lib/sl"
	"github.com/magabrotheeeer/hotel-booking/internal/migrations"
	"github.com/magabrotheeeer/hotel-booking/internal/storage"
)

const usage = `usage: hbctl <command> [flags]

commands:
  migrate    apply migrations (--down N rolls back N steps)
  version    print schema version
  set-role   change role of a user by email
  policies   list row level security policies
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg := config.MustLoad()
	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		logger.Error("failed to connect to storage", sl.Err(err))
		os.Exit(1)
	}
	defer func() {
		_ = db.Close()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := run(ctx, os.Stdout, db, cfg.MigrationsPath, os.Args[1], os.Args[2:]); err != nil {
		logger.Error("command failed", slog.String("command", os.Args[1]), sl.Err(err))
		cancel()
		os.Exit(1)
	}
}

func run(ctx context.Context, out io.Writer, db *storage.Storage, migrationsPath, cmd string, args []string) error {
	switch cmd {
	case "migrate":
		fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
		down := fs.Int("down", 0, "roll back N migrations")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if *down > 0 {
			if err := migrations.Rollback(db.DB, migrationsPath, *down); err != nil {
				return err
			}
			fmt.Fprintf(out, "rolled back %d migration(s)\n", *down)
			return nil
		}
		if err := migrations.Run(db.DB, migrationsPath); err != nil {
			return err
		}
		fmt.Fprintln(out, "migrations applied")
		return nil

	case "version":
		v, dirty, err := migrations.Version(db.DB, migrationsPath)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "version %d dirty=%t\n", v, dirty)
		return nil

	case "set-role":
		fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
		email := fs.String("email", "", "user email")
		roleName := fs.String("role", "", "guest, vip, admin, super_admin or liaison")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if *email == "" {
			return fmt.Errorf("--email is required")
		}
		role, err := access.ParseRole(*roleName)
		if err != nil {
			return err
		}
		if err := db.SetRoleByEmail(ctx, *email, role); err != nil {
			return err
		}
		fmt.Fprintf(out, "%s is now %s\n", *email, role)
		return nil

	case "policies":
		policies, err := db.ListPolicies(ctx)
		if err != nil {
			return err
		}
		for _, p := range policies {
			fmt.Fprintln(out, p)
		}
		return nil
	}
	return fmt.Errorf("unknown command %q\n%s", cmd, usage)
}
