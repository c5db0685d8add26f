package main

import (
	"context"
	"log"
	"os"

	"physical-ai-textbook-be/internal/bootstrap"
	"physical-ai-textbook-be/internal/cli"
	"physical-ai-textbook-be/internal/config"
	"physical-ai-textbook-be/internal/pkg/logger"
	"physical-ai-textbook-be/internal/service"
	"physical-ai-textbook-be/pkg/database"

	"gorm.io/gorm"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	// Without a DSN the index lives in memory for the life of the command.
	var db *gorm.DB
	if cfg.Database.Connection != "" {
		var err error
		db, err = database.NewGormDBFromDSN(cfg.Database.Connection, database.Options{LogLevel: cfg.Database.LogLevel})
		if err != nil {
			log.Fatalf("Unable to connect to GORM DB: %v", err)
		}
	}

	// Console output belongs to the command; structured logs go to the file only.
	sysLogger := logger.NewIsolatedLogger(cfg.App.LogFilePath)
	defer sysLogger.Sync()

	engine := bootstrap.NewRAGEngine(ctx, db, cfg, sysLogger)
	limiter := bootstrap.NewRateLimiter(ctx, db, cfg)

	svc := &cli.Services{
		Chat:        service.NewChatService(engine, nil, nil, nil, sysLogger),
		RateLimit:   service.NewRateLimitService(limiter, nil, sysLogger),
		ContentRoot: cfg.Content.Root,
	}

	if err := cli.Execute(ctx, svc); err != nil {
		os.Exit(1)
	}
}
