package cache

import (
	"context"
	"log"
	"sync"
	"time"

	"competency-matrix/internal/competencysync"
)

const SyncStatusKey = "competency:sync:last"

const syncStatusTTL = 30 * 24 * time.Hour

// SyncStatus remembers the last finished run, in process and in Redis so
// every instance can report it.
type SyncStatus struct {
	redis  *Redis
	logger *log.Logger

	mu   sync.RWMutex
	last *competencysync.Report
}

func NewSyncStatus(r *Redis, logger *log.Logger) *SyncStatus {
	if logger == nil {
		logger = log.Default()
	}
	return &SyncStatus{redis: r, logger: logger}
}

func (s *SyncStatus) SyncFinished(ctx context.Context, r competencysync.Report) {
	s.mu.Lock()
	s.last = &r
	s.mu.Unlock()

	if err := s.redis.SetJSON(ctx, SyncStatusKey, r, syncStatusTTL); err != nil {
		s.logger.Printf("[Cache] store sync status failed err=%v", err)
	}
}

// Last prefers the shared copy and falls back to this process's own.
func (s *SyncStatus) Last(ctx context.Context) (competencysync.Report, bool) {
	var r competencysync.Report
	found, err := s.redis.GetJSON(ctx, SyncStatusKey, &r)
	if err != nil {
		s.logger.Printf("[Cache] read sync status failed err=%v", err)
	}
	if found {
		return r, true
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return competencysync.Report{}, false
	}
	return *s.last, true
}
