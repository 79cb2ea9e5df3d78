package repository

import (
	"context"
	"fmt"
	"log"

	"competency-matrix/internal/database"
	"competency-matrix/internal/domain/competency"
)

// syncLockKey is the transaction-scoped advisory lock every run takes, so
// two instances never reconcile the same database at once.
const syncLockKey int64 = 746295200

// RequiredColumns is checked before each run.
var RequiredColumns = map[string][]string{
	"competency_categories":   {"id", "name", "display_order"},
	"competency_skills":       {"id", "name", "category_id", "basic_description", "decent_description", "good_description", "excellent_description"},
	"competency_roles":        {"id", "name", "description", "role_family", "seniority_order"},
	"role_skill_requirements": {"id", "role_id", "skill_id", "required_level"},
	"role_progressions":       {"id", "from_role_id", "to_role_id"},
}

type PostgresUnitOfWork struct {
	db     database.DB
	logger *log.Logger
}

func NewPostgresUnitOfWork(db database.DB, logger *log.Logger) *PostgresUnitOfWork {
	if logger == nil {
		logger = log.Default()
	}
	return &PostgresUnitOfWork{db: db, logger: logger}
}

// Do runs fn inside one transaction holding the sync advisory lock.
func (u *PostgresUnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, stores competency.Stores) error) error {
	if u == nil || u.db == nil {
		return fmt.Errorf("nil db")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin sync transaction: %w", err)
	}
	committed := false
	defer func() {
		if committed {
			return
		}
		if err := tx.Rollback(context.Background()); err != nil {
			u.logger.Printf("[Sync] rollback failed err=%v", err)
			return
		}
		u.logger.Printf("[Sync] transaction rolled back")
	}()

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, syncLockKey); err != nil {
		return fmt.Errorf("acquire sync lock: %w", err)
	}
	if err := database.EnsureSchema(ctx, tx, RequiredColumns); err != nil {
		return err
	}

	if err := fn(ctx, NewStores(tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit sync transaction: %w", err)
	}
	committed = true
	return nil
}

// Inventory is the number of persisted rows per kind.
type Inventory struct {
	Categories   int64 `json:"categories"`
	Skills       int64 `json:"skills"`
	Roles        int64 `json:"roles"`
	Requirements int64 `json:"requirements"`
	Progressions int64 `json:"progressions"`
}

func CountAll(ctx context.Context, stores competency.Stores) (Inventory, error) {
	var (
		inv Inventory
		err error
	)
	steps := []struct {
		dst   *int64
		count func(context.Context) (int64, error)
	}{
		{&inv.Categories, stores.Categories.Count},
		{&inv.Skills, stores.Skills.Count},
		{&inv.Roles, stores.Roles.Count},
		{&inv.Requirements, stores.Requirements.Count},
		{&inv.Progressions, stores.Progressions.Count},
	}
	for _, st := range steps {
		if *st.dst, err = st.count(ctx); err != nil {
			return Inventory{}, err
		}
	}
	return inv, nil
}
