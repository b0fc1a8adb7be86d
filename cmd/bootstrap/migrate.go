package bootstrap

import (
	"context"
	"log/slog"

	"psyconnect/internal/pkg/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/fx"
)

var MigrateModule = fx.Module("migrate",
	fx.Invoke(RunMigrations),
)

// RunMigrations applies pending goose migrations before the server accepts
// traffic. Goose works on *sql.DB, so a throwaway connection is opened from
// the pool config.
func RunMigrations(cfg config.Config, pool *pgxpool.Pool) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	sqlDB := stdlib.OpenDBFromPool(pool)
	defer func() {
		if err := sqlDB.Close(); err != nil {
			slog.Warn("failed to close migration connection", "error", err)
		}
	}()

	if err := goose.UpContext(context.Background(), sqlDB, cfg.DB.MigrationsPath); err != nil {
		return err
	}

	version, err := goose.GetDBVersionContext(context.Background(), sqlDB)
	if err != nil {
		return err
	}
	slog.Info("migrations applied", "version", version)
	return nil
}
