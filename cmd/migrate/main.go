package main

// Run database migrations:
//   go run ./cmd/migrate

import (
	"context"
	"os"

	"resume-builder/internal/shared/config"
	"resume-builder/internal/shared/storage/db"
	mongostore "resume-builder/internal/shared/storage/mongo"
	"resume-builder/internal/shared/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		telemetry.Error("config.invalid", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	telemetry.Configure(cfg.LogFormat, cfg.LogLevel)

	if cfg.DatabaseURL == "" || mongostore.IsMongoURL(cfg.DatabaseURL) {
		telemetry.Info("migrate.skipped", map[string]any{"reason": "DATABASE_URL is not a Postgres URL"})
		return
	}

	ctx := context.Background()
	opts := db.OptionsFromEnv(db.DefaultMigrateOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		telemetry.Error("migrate.connect_failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	defer sqlDB.Close()

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		telemetry.Error("migrate.failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	telemetry.Info("migrate.complete", nil)
}
