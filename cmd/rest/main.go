package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"physical-ai-textbook-be/internal/bootstrap"
	"physical-ai-textbook-be/internal/config"
	"physical-ai-textbook-be/internal/server"
	"physical-ai-textbook-be/internal/tracer"
	"physical-ai-textbook-be/pkg/database"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 2. Tracing (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer(cfg.Otel, cfg.App.Version)
	defer shutdownTracer(context.Background())

	// 3. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection, database.Options{LogLevel: cfg.Database.LogLevel})
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 4. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(ctx, gormDB, cfg)
	defer container.Close()

	// 5. Start Background Services
	if err := container.ConsumerService.Consume(ctx); err != nil {
		log.Printf("[WARN] Ingest consumer failed to start: %v", err)
	}
	container.RateLimitService.StartCleanup(ctx, cfg.RateLimit.CleanupInterval)
	if container.SecurityAlertService != nil {
		if err := container.SecurityAlertService.Start(); err != nil {
			log.Printf("[WARN] Security alert worker failed to start: %v", err)
		}
	}

	// 6. Initialize Server
	srv := server.New(cfg, container)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		log.Println("[INFO] Shutting down...")
		cancel()
		if err := srv.Shutdown(); err != nil {
			log.Printf("[WARN] Server shutdown: %v", err)
		}
	}()

	// 7. Run Server
	if err := srv.Run(); err != nil {
		log.Printf("[ERROR] Server stopped: %v", err)
	}
}
