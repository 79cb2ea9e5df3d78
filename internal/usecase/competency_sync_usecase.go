package usecase

import (
	"context"
	"log"
	"time"

	"competency-matrix/internal/competencysync"
	"competency-matrix/internal/config"
	"competency-matrix/internal/database"
	"competency-matrix/internal/infrastructure/cache"
	"competency-matrix/internal/repository"
)

type CompetencySyncUsecase interface {
	Reload(ctx context.Context) (competencysync.Result, error)
	GetStatus(ctx context.Context) (*CompetencySyncStatus, error)
}

type SyncRunner interface {
	Run(ctx context.Context, mode competencysync.Mode) (competencysync.Result, error)
}

type SyncStatusReader interface {
	Last(ctx context.Context) (competencysync.Report, bool)
}

type pinger interface {
	Ping(ctx context.Context) error
}

type CompetencySyncStatus struct {
	Mode            string                 `json:"mode"`
	ReloadEnabled   bool                   `json:"reload_enabled"`
	LastRun         *competencysync.Report `json:"last_run"`
	Inventory       *repository.Inventory  `json:"inventory"`
	DatabaseHealthy bool                   `json:"database_healthy"`
	RedisHealthy    bool                   `json:"redis_healthy"`
	ServerTime      time.Time              `json:"server_time"`
}

type CompetencySync struct {
	runner      SyncRunner
	status      SyncStatusReader
	mode        competencysync.Mode
	allowReload bool

	db        pinger
	redis     pinger
	inventory func(ctx context.Context) (repository.Inventory, error)

	log *log.Logger
	now func() time.Time
}

func NewCompetencySyncUsecase(
	runner SyncRunner,
	status SyncStatusReader,
	db database.DB,
	redis *cache.Redis,
	cfg config.CompetencyConfig,
	logger *log.Logger,
) *CompetencySync {
	if logger == nil {
		logger = log.Default()
	}
	u := &CompetencySync{
		runner:      runner,
		status:      status,
		mode:        cfg.Mode,
		allowReload: cfg.AllowReload,
		log:         logger,
		now:         time.Now,
	}
	if db != nil {
		u.db = db
		u.inventory = func(ctx context.Context) (repository.Inventory, error) {
			return repository.CountAll(ctx, repository.NewStores(db))
		}
	}
	if redis != nil {
		u.redis = redis
	}
	return u
}

// Reload runs one synchronization with the configured mode.
func (u *CompetencySync) Reload(ctx context.Context) (competencysync.Result, error) {
	if !u.allowReload {
		return competencysync.Result{}, competencysync.ErrSyncDisabled
	}

	start := u.now()
	u.log.Printf("competency_reload mode=%s status=started", u.mode)
	res, err := u.runner.Run(ctx, u.mode)
	if err != nil {
		u.log.Printf("competency_reload mode=%s status=error duration=%s err=%v", u.mode, u.now().Sub(start), err)
		return competencysync.Result{}, err
	}
	u.log.Printf("competency_reload mode=%s status=ok duration=%s", u.mode, u.now().Sub(start))
	return res, nil
}

func (u *CompetencySync) GetStatus(ctx context.Context) (*CompetencySyncStatus, error) {
	out := &CompetencySyncStatus{
		Mode:            u.mode.String(),
		ReloadEnabled:   u.allowReload,
		DatabaseHealthy: ping(ctx, u.db),
		RedisHealthy:    ping(ctx, u.redis),
		ServerTime:      u.now().UTC(),
	}

	if u.status != nil {
		if last, ok := u.status.Last(ctx); ok {
			out.LastRun = &last
		}
	}

	if u.inventory != nil && out.DatabaseHealthy {
		inv, err := u.inventory(ctx)
		if err != nil {
			u.log.Printf("competency_status step=inventory status=error err=%v", err)
		} else {
			out.Inventory = &inv
		}
	}

	return out, nil
}

func ping(ctx context.Context, p pinger) bool {
	if p == nil {
		return false
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return p.Ping(pingCtx) == nil
}
