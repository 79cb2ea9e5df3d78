package database

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

// EnsureTableColumns fails when table lacks any of columns in the public schema.
func EnsureTableColumns(ctx context.Context, q Querier, table string, columns ...string) error {
	if q == nil {
		return fmt.Errorf("nil db")
	}
	if table == "" {
		return fmt.Errorf("empty table")
	}
	for _, col := range columns {
		if col == "" {
			return fmt.Errorf("empty column")
		}
	}

	rows, err := q.Query(
		ctx,
		`SELECT column_name FROM information_schema.columns WHERE table_schema='public' AND table_name=$1`,
		table,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	existing := map[string]struct{}{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return err
		}
		existing[c] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, col := range columns {
		if _, ok := existing[col]; !ok {
			return fmt.Errorf("schema mismatch: missing column %s.%s", table, col)
		}
	}
	return nil
}

// EnsureSchema checks every table in required and reports all mismatches at once.
func EnsureSchema(ctx context.Context, q Querier, required map[string][]string) error {
	tables := make([]string, 0, len(required))
	for t := range required {
		tables = append(tables, t)
	}
	sort.Strings(tables)

	var errs []error
	for _, t := range tables {
		if err := EnsureTableColumns(ctx, q, t, required[t]...); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
