package main

// Run database migrations:
//   go run ./cmd/migrate [up|down|status]

import (
	"context"
	"flag"
	"log"
	"os"

	"quickai-backend/internal/shared/config"
	"quickai-backend/internal/shared/storage/db"
	"quickai-backend/internal/shared/telemetry"
)

func main() {
	flag.Parse()
	command := flag.Arg(0)
	if command == "" {
		command = db.MigrateUp
	}

	cfg := config.Load()
	telemetry.Configure(os.Stdout, cfg.LogLevel)
	ctx := context.Background()

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultMigrateOptions()))
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	defer sqlDB.Close()

	if err := db.Migrate(ctx, sqlDB, command); err != nil {
		log.Fatalf("migrate %s: %v", command, err)
	}
	telemetry.Info("migrate.done", map[string]any{"command": command})
}
