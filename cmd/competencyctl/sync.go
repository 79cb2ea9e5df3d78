package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"competency-matrix/internal/app"
	"competency-matrix/internal/competencysync"
	"competency-matrix/internal/config"
	"competency-matrix/internal/database/migration"
	dbpostgres "competency-matrix/internal/database/postgres"
	"competency-matrix/internal/infrastructure/cache"
	"competency-matrix/internal/repository"
	"competency-matrix/migrations"

	"github.com/spf13/cobra"
)

func newSyncCmd() *cobra.Command {
	var (
		mode    modeValue
		dir     string
		migrate bool
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Run one competency synchronization against the configured database",
		Long: `Runs a single synchronization in one transaction. Database and Redis settings
come from the same environment variables as the server. --mode and --dir
override COMPETENCY_SYNC_MODE and COMPETENCY_SEED_DIR.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if mode.set {
				cfg.Competency.Mode = mode.mode
			}
			if cmd.Flags().Changed("dir") {
				cfg.Competency.SeedDir = dir
			}
			if cfg.Competency.Mode == competencysync.ModeNone {
				printWarning(cmd.OutOrStdout(), "mode is none, nothing to do (use --mode merge|replace)")
				return nil
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger := log.New(cmd.ErrOrStderr(), "", log.LstdFlags)
			return runSync(ctx, cmd, cfg, migrate, logger)
		},
	}
	cmd.Flags().Var(&mode, "mode", "sync mode")
	cmd.Flags().StringVar(&dir, "dir", "", "configuration directory (default: bundled defaults)")
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply pending migrations first")
	return cmd
}

func runSync(ctx context.Context, cmd *cobra.Command, cfg config.Config, migrate bool, logger *log.Logger) error {
	db, err := dbpostgres.Connect(ctx, cfg.Database, "competencyctl")
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if migrate {
		m := migration.Runner{Dir: cfg.Database.MigrationsDir, FS: migrations.FS, Logger: logger}
		if err := m.Run(ctx, db.SQLDB()); err != nil {
			return err
		}
	}

	rdb := cache.NewRedis(cfg.Redis, logger)
	defer rdb.Close()

	s := competencysync.NewSynchronizer(
		competencysync.NewLoader(app.SeedSource(cfg.Competency.SeedDir), logger),
		repository.NewPostgresUnitOfWork(db, logger),
		logger,
		competencysync.WithRunLock(cache.NewRunLock(rdb, cfg.Competency.LockTTL, logger)),
		competencysync.WithObserver(cache.NewSyncStatus(rdb, logger)),
	)

	res, err := s.Run(ctx, cfg.Competency.Mode)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printResult(out, res)
	printSuccess(out, "%s", res.Summary())
	return nil
}
