package seeder

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"competency-matrix/internal/competencysync"
	"competency-matrix/internal/config"
)

const defaultLockRetry = 2 * time.Second

type SyncRunner interface {
	Run(ctx context.Context, mode competencysync.Mode) (competencysync.Result, error)
}

// CompetencySeeder runs the startup synchronization with the configured mode.
// A run held by another instance is retried until it frees up or ctx ends;
// the lease expires on its own if its holder died.
type CompetencySeeder struct {
	sync   SyncRunner
	cfg    config.CompetencyConfig
	logger *log.Logger
	retry  time.Duration
}

func NewCompetencySeeder(sync SyncRunner, cfg config.CompetencyConfig, logger *log.Logger) CompetencySeeder {
	if logger == nil {
		logger = log.Default()
	}
	return CompetencySeeder{sync: sync, cfg: cfg, logger: logger, retry: defaultLockRetry}
}

func (CompetencySeeder) Name() string { return "competencies" }

func (s CompetencySeeder) Run(ctx context.Context) error {
	if !s.cfg.ModeSet {
		s.logger.Printf("[Seeder] COMPETENCY_SYNC_MODE not set, defaulting to none")
	}

	for attempt := 1; ; attempt++ {
		_, err := s.sync.Run(ctx, s.cfg.Mode)
		if !errors.Is(err, competencysync.ErrSyncInProgress) {
			return err
		}

		s.logger.Printf("[Seeder] competency sync held by another instance, retrying in %s attempt=%d", s.retry, attempt)
		t := time.NewTimer(s.retry)
		select {
		case <-ctx.Done():
			t.Stop()
			return fmt.Errorf("wait for competency sync lock: %w", ctx.Err())
		case <-t.C:
		}
	}
}
