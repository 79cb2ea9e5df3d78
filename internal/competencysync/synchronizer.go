package competencysync

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"competency-matrix/internal/domain/competency"

	"github.com/google/uuid"
)

// RunLock guards runs across processes sharing one store. acquired is false
// when another holder owns the lock; err reports that the lock backend
// itself could not be reached.
type RunLock interface {
	Acquire(ctx context.Context) (release func(context.Context), acquired bool, err error)
}

// Report describes one finished run. Err is empty on success.
type Report struct {
	RunID      string        `json:"runId"`
	Mode       string        `json:"mode"`
	Result     Result        `json:"result"`
	Summary    string        `json:"summary"`
	Err        string        `json:"error,omitempty"`
	StartedAt  time.Time     `json:"startedAt"`
	Duration   time.Duration `json:"durationNs"`
	Successful bool          `json:"successful"`
}

// Observer is told about every run that got past the run guard.
type Observer interface {
	SyncFinished(ctx context.Context, r Report)
}

// Synchronizer is the single entry point that loads, validates and
// reconciles configuration inside one unit of work. At most one run is in
// flight per Synchronizer; a RunLock extends that across instances.
type Synchronizer struct {
	loader    *Loader
	uow       competency.UnitOfWork
	logger    *log.Logger
	lock      RunLock
	observers []Observer

	sem chan struct{}
	now func() time.Time
}

type Option func(*Synchronizer)

func WithRunLock(l RunLock) Option {
	return func(s *Synchronizer) { s.lock = l }
}

func WithObserver(o Observer) Option {
	return func(s *Synchronizer) {
		if o != nil {
			s.observers = append(s.observers, o)
		}
	}
}

func NewSynchronizer(loader *Loader, uow competency.UnitOfWork, logger *log.Logger, opts ...Option) *Synchronizer {
	if logger == nil {
		logger = log.Default()
	}
	s := &Synchronizer{
		loader: loader,
		uow:    uow,
		logger: logger,
		sem:    make(chan struct{}, 1),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Check loads and validates the configuration without touching the store.
func (s *Synchronizer) Check() (Dataset, error) {
	ds, err := s.loader.Load()
	if err != nil {
		return Dataset{}, err
	}
	if err := Validate(ds); err != nil {
		s.logger.Printf("[Sync] %v", err)
		return Dataset{}, err
	}
	return ds, nil
}

// Run performs one reconciliation in the given mode. ModeNone returns an
// empty result without loading anything. A second concurrent call waits for
// the first to finish or for ctx to end; a run held by another instance
// fails with ErrSyncInProgress.
func (s *Synchronizer) Run(ctx context.Context, mode Mode) (Result, error) {
	switch mode {
	case ModeNone:
		s.logger.Printf("[Sync] mode=none, skipping competency synchronization")
		return Result{}, nil
	case ModeMerge, ModeReplace:
	default:
		return Result{}, fmt.Errorf("%w: unsupported mode %s", ErrConfig, mode)
	}

	select {
	case s.sem <- struct{}{}:
	case <-ctx.Done():
		return Result{}, fmt.Errorf("wait for running sync: %w", ctx.Err())
	}
	defer func() { <-s.sem }()

	if s.lock != nil {
		release, acquired, err := s.lock.Acquire(ctx)
		switch {
		case err != nil:
			s.logger.Printf("[Sync] run lock unavailable, continuing with local guard only err=%v", err)
		case !acquired:
			s.logger.Printf("[Sync] another instance holds the run lock")
			return Result{}, ErrSyncInProgress
		default:
			defer release(context.WithoutCancel(ctx))
		}
	}

	report := Report{RunID: uuid.NewString(), Mode: mode.String(), StartedAt: s.now()}
	s.logger.Printf("[Sync] starting run=%s mode=%s", report.RunID, mode)

	res, err := s.run(ctx, mode)

	report.Duration = s.now().Sub(report.StartedAt)
	outcome := "success"
	if err != nil {
		outcome = "failure"
		report.Err = err.Error()
		s.logger.Printf("[Sync] run=%s failed, no changes were committed err=%v", report.RunID, err)
	} else {
		report.Result = res
		report.Summary = res.Summary()
		report.Successful = true
		s.logger.Printf("[Sync] run=%s %s", report.RunID, report.Summary)
	}
	recordRun(mode, outcome, report.Duration, report.Result)

	for _, o := range s.observers {
		o.SyncFinished(ctx, report)
	}

	if err != nil {
		return Result{}, err
	}
	return res, nil
}

func (s *Synchronizer) run(ctx context.Context, mode Mode) (Result, error) {
	ds, err := s.Check()
	if err != nil {
		return Result{}, err
	}

	var res Result
	err = s.uow.Do(ctx, func(ctx context.Context, stores competency.Stores) error {
		rec := NewReconciler(stores, s.logger)
		var err error
		res, err = apply(ctx, rec, mode, ds)
		return err
	})
	if err != nil {
		return Result{}, err
	}
	return res, nil
}

// apply is the single dispatch point over Mode.
func apply(ctx context.Context, rec *Reconciler, mode Mode, ds Dataset) (Result, error) {
	switch mode {
	case ModeMerge:
		return rec.Merge(ctx, ds)
	case ModeReplace:
		return rec.Replace(ctx, ds)
	case ModeNone:
		return Result{}, nil
	default:
		return Result{}, fmt.Errorf("%w: unsupported mode %s", ErrConfig, mode)
	}
}

// IsUserError reports whether err stems from the configuration documents or
// settings rather than from infrastructure.
func IsUserError(err error) bool {
	for _, kind := range []error{ErrParse, ErrSchema, ErrValidation, ErrDuplicate, ErrReference, ErrConfig} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}
