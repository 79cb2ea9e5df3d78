package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"

	"competency-matrix/internal/database"
	"competency-matrix/internal/domain/competency"

	"github.com/jackc/pgx/v5"
)

func assign(dest []any, vals []any) error {
	if len(dest) != len(vals) {
		return fmt.Errorf("scan dest mismatch: %d != %d", len(dest), len(vals))
	}
	for i := range dest {
		switch d := dest[i].(type) {
		case *int64:
			v, ok := vals[i].(int64)
			if !ok {
				return fmt.Errorf("scan type mismatch int64 at %d", i)
			}
			*d = v
		case *int:
			v, ok := vals[i].(int)
			if !ok {
				return fmt.Errorf("scan type mismatch int at %d", i)
			}
			*d = v
		case *string:
			v, ok := vals[i].(string)
			if !ok {
				return fmt.Errorf("scan type mismatch string at %d", i)
			}
			*d = v
		default:
			return fmt.Errorf("unsupported scan type %T", d)
		}
	}
	return nil
}

type fakeRow struct {
	vals []any
	err  error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return assign(dest, r.vals)
}

type fakeRows struct {
	data [][]any
	i    int
}

func (r *fakeRows) Close()     {}
func (r *fakeRows) Err() error { return nil }
func (r *fakeRows) Next() bool {
	if r.i >= len(r.data) {
		return false
	}
	r.i++
	return true
}
func (r *fakeRows) Scan(dest ...any) error { return assign(dest, r.data[r.i-1]) }

// fakeQuerier answers by the first handler whose key is contained in the query.
type fakeQuerier struct {
	queries []string
	args    [][]any

	rowFor  map[string]fakeRow
	rowsFor map[string][][]any
	execFor map[string]int64
	execErr map[string]error
}

func newFakeQuerier() *fakeQuerier {
	return &fakeQuerier{
		rowFor:  map[string]fakeRow{},
		rowsFor: map[string][][]any{},
		execFor: map[string]int64{},
		execErr: map[string]error{},
	}
}

func (q *fakeQuerier) record(query string, args []any) {
	q.queries = append(q.queries, query)
	q.args = append(q.args, args)
}

func (q *fakeQuerier) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	q.record(query, args)
	for k, err := range q.execErr {
		if strings.Contains(query, k) {
			return 0, err
		}
	}
	for k, n := range q.execFor {
		if strings.Contains(query, k) {
			return n, nil
		}
	}
	return 0, nil
}

func (q *fakeQuerier) Query(ctx context.Context, query string, args ...any) (database.Rows, error) {
	q.record(query, args)
	for k, data := range q.rowsFor {
		if strings.Contains(query, k) {
			return &fakeRows{data: data}, nil
		}
	}
	return &fakeRows{}, nil
}

func (q *fakeQuerier) QueryRow(ctx context.Context, query string, args ...any) database.Row {
	q.record(query, args)
	for k, row := range q.rowFor {
		if strings.Contains(query, k) {
			return row
		}
	}
	return fakeRow{err: pgx.ErrNoRows}
}

func TestCategoryRepository_FindByNormalizedName(t *testing.T) {
	q := newFakeQuerier()
	repo := NewStores(q).Categories

	got, err := repo.FindByNormalizedName(context.Background(), "programming")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.IsFound() {
		t.Fatalf("expected absent on no rows")
	}
	if !strings.Contains(q.queries[0], `lower(btrim(regexp_replace(name, '[ \t\n\v\f\r]+', ' ', 'g')))`) {
		t.Fatalf("expected normalized comparison, got %s", q.queries[0])
	}

	q.rowFor["FROM competency_categories"] = fakeRow{vals: []any{int64(7), "Programming", 2}}
	got, err = repo.FindByNormalizedName(context.Background(), "programming")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	c, ok := got.Get()
	if !ok || c.ID != 7 || c.DisplayOrder != 2 {
		t.Fatalf("unexpected category %+v found=%v", c, ok)
	}
}

func TestCategoryRepository_FindPropagatesErrors(t *testing.T) {
	q := newFakeQuerier()
	q.rowFor["FROM competency_categories"] = fakeRow{err: errors.New("conn reset")}

	_, err := NewStores(q).Categories.FindByNormalizedName(context.Background(), "x")
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestCategoryRepository_SaveInsertAndUpdate(t *testing.T) {
	q := newFakeQuerier()
	q.rowFor["INSERT INTO competency_categories"] = fakeRow{vals: []any{int64(11)}}
	repo := NewStores(q).Categories

	c, err := repo.Save(context.Background(), competency.Category{Name: "Design", DisplayOrder: 1})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if c.ID != 11 {
		t.Fatalf("expected id 11, got %d", c.ID)
	}

	_, err = repo.Save(context.Background(), competency.Category{ID: 99, Name: "Gone"})
	if !errors.Is(err, competency.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	q.execFor["UPDATE competency_categories"] = 1
	if _, err := repo.Save(context.Background(), competency.Category{ID: 11, Name: "Design", DisplayOrder: 4}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}

func TestSkillRepository_FindByCategoryID(t *testing.T) {
	q := newFakeQuerier()
	q.rowsFor["FROM competency_skills"] = [][]any{
		{int64(1), "Go", int64(3), "b", "d", "g", "e"},
		{int64(2), "Java", int64(3), "b2", "d2", "g2", "e2"},
	}

	skills, err := NewStores(q).Skills.FindByCategoryID(context.Background(), 3)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(skills) != 2 || skills[1].GoodDescription != "g2" {
		t.Fatalf("unexpected skills %+v", skills)
	}
	if q.args[0][0] != int64(3) {
		t.Fatalf("expected category id arg")
	}
}

func TestRequirementRepository_LevelRoundTrip(t *testing.T) {
	q := newFakeQuerier()
	q.rowFor["FROM role_skill_requirements"] = fakeRow{vals: []any{int64(5), int64(1), int64(2), "DECENT"}}
	q.rowFor["INSERT INTO role_skill_requirements"] = fakeRow{vals: []any{int64(6)}}
	repo := NewStores(q).Requirements

	got, err := repo.FindByRoleAndSkill(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	req, ok := got.Get()
	if !ok || req.RequiredLevel != competency.LevelDecent {
		t.Fatalf("unexpected requirement %+v", req)
	}

	saved, err := repo.Save(context.Background(), competency.RoleSkillRequirement{RoleID: 1, SkillID: 3, RequiredLevel: competency.LevelGood})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if saved.ID != 6 {
		t.Fatalf("expected id 6, got %d", saved.ID)
	}
	last := q.args[len(q.args)-1]
	if last[2] != "GOOD" {
		t.Fatalf("expected canonical level name, got %v", last[2])
	}

	if _, err := repo.Save(context.Background(), competency.RoleSkillRequirement{RoleID: 1, SkillID: 3}); err == nil {
		t.Fatalf("expected invalid level error")
	}
}

func TestRequirementRepository_UnknownStoredLevel(t *testing.T) {
	q := newFakeQuerier()
	q.rowFor["FROM role_skill_requirements"] = fakeRow{vals: []any{int64(5), int64(1), int64(2), "WIZARD"}}

	if _, err := NewStores(q).Requirements.FindByRoleAndSkill(context.Background(), 1, 2); err == nil {
		t.Fatalf("expected error for unknown stored level")
	}
}

func TestProgressionRepository_SaveExistingIsNoop(t *testing.T) {
	q := newFakeQuerier()
	p, err := NewStores(q).Progressions.Save(context.Background(), competency.RoleProgression{ID: 4, FromRoleID: 1, ToRoleID: 2})
	if err != nil || p.ID != 4 {
		t.Fatalf("unexpected %+v %v", p, err)
	}
	if len(q.queries) != 0 {
		t.Fatalf("expected no statements, got %v", q.queries)
	}
}

func TestDeleteAllAndCount(t *testing.T) {
	q := newFakeQuerier()
	q.execFor["DELETE FROM role_progressions"] = 3
	q.rowFor["SELECT COUNT(*) FROM competency_roles"] = fakeRow{vals: []any{int64(9)}}
	stores := NewStores(q)

	n, err := stores.Progressions.DeleteAll(context.Background())
	if err != nil || n != 3 {
		t.Fatalf("unexpected delete result %d %v", n, err)
	}
	c, err := stores.Roles.Count(context.Background())
	if err != nil || c != 9 {
		t.Fatalf("unexpected count %d %v", c, err)
	}
}

func TestIsNoRows(t *testing.T) {
	if !isNoRows(sql.ErrNoRows) || !isNoRows(fmt.Errorf("wrapped: %w", pgx.ErrNoRows)) {
		t.Fatalf("expected no rows detection")
	}
	if isNoRows(errors.New("other")) {
		t.Fatalf("unexpected no rows detection")
	}
}
