package competencysync

import (
	"fmt"
	"strings"

	"competency-matrix/internal/domain/competency"
)

// Validate checks structural completeness before any store is touched and
// stops at the first violation.
func Validate(ds Dataset) error {
	if ds.Categories == nil || ds.Roles == nil || ds.Progressions == nil {
		return invalid("missing required top-level keys (categories, roles, progressions)")
	}

	for _, c := range ds.Categories {
		if blank(c.Name) {
			return invalid("category name is required")
		}
		if c.Skills == nil {
			return invalid("category '%s' is missing 'skills' list", c.Name)
		}
		skills := make(map[string]struct{}, len(c.Skills))
		for _, s := range c.Skills {
			if blank(s.Name) {
				return invalid("skill name is required in category '%s'", c.Name)
			}
			if err := validateLevels(s); err != nil {
				return err
			}
			key := competency.NormalizeName(s.Name)
			if _, dup := skills[key]; dup {
				return invalid("skill '%s' is listed more than once in category '%s'", s.Name, c.Name)
			}
			skills[key] = struct{}{}
		}
	}

	for _, r := range ds.Roles {
		if blank(r.Name) {
			return invalid("role name is required")
		}
		if r.Description == nil {
			return invalid("role '%s' is missing 'description'", r.Name)
		}
		if r.Requirements == nil {
			return invalid("role '%s' is missing 'requirements' list", r.Name)
		}
		required := make(map[string]struct{}, len(r.Requirements))
		for _, req := range r.Requirements {
			switch {
			case blank(req.SkillName):
				return invalid("requirement in role '%s' missing skill name", r.Name)
			case blank(req.CategoryName):
				return invalid("requirement in role '%s' missing category name", r.Name)
			case blank(req.Level):
				return invalid("requirement in role '%s' missing level", r.Name)
			}
			if _, err := competency.ParseLevel(req.Level); err != nil {
				return invalid("requirement '%s' in role '%s': %v", req.SkillName, r.Name, err)
			}
			key := skillKey(req.CategoryName, req.SkillName)
			if _, dup := required[key]; dup {
				return invalid("requirement '%s' in category '%s' is listed more than once in role '%s'",
					req.SkillName, req.CategoryName, r.Name)
			}
			required[key] = struct{}{}
		}
	}

	for _, p := range ds.Progressions {
		if blank(p.FromRoleName) {
			return invalid("progression missing 'from' role name")
		}
		if blank(p.ToRoleName) {
			return invalid("progression missing 'to' role name")
		}
	}

	return nil
}

func validateLevels(s SkillDoc) error {
	if len(s.Levels) != len(competency.LevelKeys) {
		return invalid("skill '%s' must have all four levels (basic, decent, good, excellent)", s.Name)
	}
	for _, k := range competency.LevelKeys {
		if _, ok := s.Levels[k]; !ok {
			return invalid("skill '%s' must have all four levels (basic, decent, good, excellent)", s.Name)
		}
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
