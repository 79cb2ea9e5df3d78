package app

import (
	"context"
	"io/fs"
	"log"
	"os"
	"time"

	"competency-matrix/internal/competencysync"
	"competency-matrix/internal/config"
	"competency-matrix/internal/database"
	dbpostgres "competency-matrix/internal/database/postgres"
	"competency-matrix/internal/infrastructure/cache"
	"competency-matrix/internal/pkg/jwt"
	"competency-matrix/internal/repository"
	"competency-matrix/internal/usecase"
	"competency-matrix/internal/ws"
	"competency-matrix/seed"
)

// Container owns the process-wide dependencies. Redis is optional: when it
// is unreachable the run lock and status cache degrade to this process only.
type Container struct {
	Config config.Config
	Logger *log.Logger

	DB    database.DB
	Redis *cache.Redis
	Hub   *ws.Hub

	SyncStatus   *cache.SyncStatus
	Synchronizer *competencysync.Synchronizer
	SyncUsecase  *usecase.CompetencySync

	// JWT is nil when ADMIN_JWT_SECRET is not configured.
	JWT *jwt.HMACService
}

func NewContainer(cfg config.Config, logger *log.Logger) (*Container, error) {
	if logger == nil {
		logger = log.Default()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database, cfg.App.AppName)
	if err != nil {
		return nil, err
	}

	c := &Container{Config: cfg, Logger: logger, DB: db}
	c.Redis = cache.NewRedis(cfg.Redis, logger)
	c.Hub = ws.NewHub(logger)
	c.SyncStatus = cache.NewSyncStatus(c.Redis, logger)

	c.Synchronizer = competencysync.NewSynchronizer(
		competencysync.NewLoader(SeedSource(cfg.Competency.SeedDir), logger),
		repository.NewPostgresUnitOfWork(db, logger),
		logger,
		competencysync.WithRunLock(cache.NewRunLock(c.Redis, cfg.Competency.LockTTL, logger)),
		competencysync.WithObserver(c.SyncStatus),
		competencysync.WithObserver(ws.NewNotifier(c.Hub)),
	)
	c.SyncUsecase = usecase.NewCompetencySyncUsecase(c.Synchronizer, c.SyncStatus, db, c.Redis, cfg.Competency, logger)

	if cfg.Admin.Enabled() {
		c.JWT = jwt.NewHMACService(cfg.Admin.JWTSecret, cfg.Admin.TokenExpiresIn, cfg.App.AppName)
	}

	return c, nil
}

// SeedSource is the configured document directory, or the bundled defaults
// when dir is empty.
func SeedSource(dir string) fs.FS {
	if dir == "" {
		return seed.FS
	}
	return os.DirFS(dir)
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.Logger.Printf("[App] redis close error err=%v", err)
		}
	}
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
