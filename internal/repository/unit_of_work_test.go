package repository

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log"
	"strings"
	"testing"

	"competency-matrix/internal/database"
	"competency-matrix/internal/domain/competency"
)

type fakeTx struct {
	*fakeQuerier
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Commit(ctx context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

type fakeDB struct {
	*fakeQuerier
	tx *fakeTx
}

func (db *fakeDB) Ping(ctx context.Context) error { return nil }
func (db *fakeDB) Close() error                   { return nil }
func (db *fakeDB) SQLDB() *sql.DB                 { return nil }
func (db *fakeDB) Begin(ctx context.Context) (database.Tx, error) {
	return db.tx, nil
}

// newFakeDBWithSchema answers the schema check with every required column.
func newFakeDBWithSchema() *fakeDB {
	q := newFakeQuerier()
	cols := map[string]bool{}
	for _, columns := range RequiredColumns {
		for _, c := range columns {
			cols[c] = true
		}
	}
	data := make([][]any, 0, len(cols))
	for c := range cols {
		data = append(data, []any{c})
	}
	q.rowsFor["information_schema.columns"] = data
	return &fakeDB{fakeQuerier: newFakeQuerier(), tx: &fakeTx{fakeQuerier: q}}
}

func quietLogger() *log.Logger { return log.New(io.Discard, "", 0) }

func TestUnitOfWork_CommitsOnSuccess(t *testing.T) {
	db := newFakeDBWithSchema()
	uow := NewPostgresUnitOfWork(db, quietLogger())

	called := false
	err := uow.Do(context.Background(), func(ctx context.Context, stores competency.Stores) error {
		called = true
		_, err := stores.Progressions.DeleteAll(ctx)
		return err
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !called || !db.tx.committed || db.tx.rolledBack {
		t.Fatalf("expected commit, called=%v committed=%v rolledBack=%v", called, db.tx.committed, db.tx.rolledBack)
	}
	if !strings.Contains(db.tx.queries[0], "pg_advisory_xact_lock") {
		t.Fatalf("expected advisory lock first, got %s", db.tx.queries[0])
	}
	if !strings.Contains(db.tx.queries[len(db.tx.queries)-1], "DELETE FROM role_progressions") {
		t.Fatalf("expected statements on the transaction")
	}
}

func TestUnitOfWork_RollsBackOnError(t *testing.T) {
	db := newFakeDBWithSchema()
	uow := NewPostgresUnitOfWork(db, quietLogger())
	boom := errors.New("boom")

	err := uow.Do(context.Background(), func(ctx context.Context, stores competency.Stores) error {
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if db.tx.committed || !db.tx.rolledBack {
		t.Fatalf("expected rollback")
	}
}

func TestUnitOfWork_SchemaMismatchAborts(t *testing.T) {
	db := &fakeDB{fakeQuerier: newFakeQuerier(), tx: &fakeTx{fakeQuerier: newFakeQuerier()}}
	uow := NewPostgresUnitOfWork(db, quietLogger())

	err := uow.Do(context.Background(), func(ctx context.Context, stores competency.Stores) error {
		t.Fatalf("fn must not run")
		return nil
	})
	if err == nil || !strings.Contains(err.Error(), "schema mismatch") {
		t.Fatalf("expected schema mismatch, got %v", err)
	}
	if !db.tx.rolledBack {
		t.Fatalf("expected rollback")
	}
}

func TestCountAll(t *testing.T) {
	q := newFakeQuerier()
	q.rowFor["COUNT(*) FROM competency_categories"] = fakeRow{vals: []any{int64(1)}}
	q.rowFor["COUNT(*) FROM competency_skills"] = fakeRow{vals: []any{int64(2)}}
	q.rowFor["COUNT(*) FROM competency_roles"] = fakeRow{vals: []any{int64(3)}}
	q.rowFor["COUNT(*) FROM role_skill_requirements"] = fakeRow{vals: []any{int64(4)}}
	q.rowFor["COUNT(*) FROM role_progressions"] = fakeRow{vals: []any{int64(5)}}

	inv, err := CountAll(context.Background(), NewStores(q))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	want := Inventory{Categories: 1, Skills: 2, Roles: 3, Requirements: 4, Progressions: 5}
	if inv != want {
		t.Fatalf("inventory=%+v want %+v", inv, want)
	}
}
