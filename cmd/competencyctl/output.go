package main

import (
	"errors"
	"fmt"
	"io"

	"competency-matrix/internal/competencysync"

	"github.com/fatih/color"
)

var (
	green  = color.New(color.FgGreen)
	red    = color.New(color.FgRed)
	yellow = color.New(color.FgYellow)
	bold   = color.New(color.Bold)
	dim    = color.New(color.Faint)
)

func printSuccess(w io.Writer, format string, args ...any) {
	green.Fprint(w, "✓ ")
	fmt.Fprintf(w, format+"\n", args...)
}

func printWarning(w io.Writer, format string, args ...any) {
	yellow.Fprintf(w, "! "+format+"\n", args...)
}

func printFailure(w io.Writer, err error) {
	kind := "error"
	switch {
	case errors.Is(err, competencysync.ErrSyncInProgress):
		kind = "busy"
	case competencysync.IsUserError(err):
		kind = "configuration error"
	}
	red.Fprintf(w, "✗ %s: ", kind)
	fmt.Fprintln(w, err)
}

func printResult(w io.Writer, res competencysync.Result) {
	rows := []struct {
		name string
		c    competencysync.Counts
	}{
		{"categories", res.Categories},
		{"skills", res.Skills},
		{"roles", res.Roles},
		{"requirements", res.Requirements},
		{"progressions", res.Progressions},
	}
	bold.Fprintf(w, "%-14s %7s %7s %7s\n", "kind", "added", "updated", "deleted")
	for _, r := range rows {
		line := fmt.Sprintf("%-14s %7d %7d %7d\n", r.name, r.c.Added, r.c.Updated, r.c.Deleted)
		if r.c == (competencysync.Counts{}) {
			dim.Fprint(w, line)
			continue
		}
		fmt.Fprint(w, line)
	}
}
