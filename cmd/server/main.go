package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"competency-matrix/internal/app"
	"competency-matrix/internal/config"
	"competency-matrix/internal/database/migration"
	"competency-matrix/internal/database/seeder"
	"competency-matrix/migrations"
)

func main() {
	logger := log.New(os.Stdout, "", log.LstdFlags|log.Lmicroseconds)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}

	bootstrap, cleanup, err := app.Bootstrap(cfg, logger)
	if err != nil {
		logger.Fatalf("failed to bootstrap app: %v", err)
	}
	defer func() {
		if err := cleanup(); err != nil {
			logger.Printf("cleanup error: %v", err)
		}
	}()
	c := bootstrap.Container

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	migrator := migration.Runner{Dir: cfg.Database.MigrationsDir, FS: migrations.FS, Logger: logger}
	if err := migrator.Run(ctx, c.DB.SQLDB()); err != nil {
		logger.Fatalf("failed to apply migrations: %v", err)
	}

	// A failed startup sync leaves the store untouched and aborts startup.
	seeders := seeder.Runner{Seeders: seeder.Defaults(c.Synchronizer, cfg.Competency, logger), Logger: logger}
	if err := seeders.Run(ctx); err != nil {
		logger.Fatalf("competency synchronization failed: %v", err)
	}

	go c.Hub.Run(ctx)

	addr, err := app.ListenAddr(cfg.App.HTTPPort)
	if err != nil {
		logger.Fatalf("invalid HTTP port: %v", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- bootstrap.Fiber.Listen(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Fatalf("server error: %v", err)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := bootstrap.Fiber.ShutdownWithContext(shutdownCtx); err != nil {
			logger.Printf("shutdown error: %v", err)
		}
	}
}
