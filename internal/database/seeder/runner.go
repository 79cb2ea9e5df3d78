package seeder

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Runner executes seeders in order and stops at the first failure.
type Runner struct {
	Seeders []Seeder
	Logger  *log.Logger
}

func (r Runner) Run(ctx context.Context) error {
	logger := r.Logger
	if logger == nil {
		logger = log.Default()
	}
	for _, s := range r.Seeders {
		if s == nil {
			continue
		}
		start := time.Now()
		if err := s.Run(ctx); err != nil {
			logger.Printf("[Seeder] %s failed duration=%s err=%v", s.Name(), time.Since(start), err)
			return fmt.Errorf("seed %s: %w", s.Name(), err)
		}
		logger.Printf("[Seeder] %s done duration=%s", s.Name(), time.Since(start))
	}
	return nil
}
