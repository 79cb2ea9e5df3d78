package competencysync

import (
	"fmt"
	"strings"
)

type Counts struct {
	Added   int `json:"added"`
	Updated int `json:"updated"`
	Deleted int `json:"deleted"`
}

func (c Counts) zero() bool {
	return c.Added == 0 && c.Updated == 0 && c.Deleted == 0
}

// Result aggregates the changes of one run. Deleted counts stay zero
// outside replace mode.
type Result struct {
	Categories   Counts `json:"categories"`
	Skills       Counts `json:"skills"`
	Roles        Counts `json:"roles"`
	Requirements Counts `json:"requirements"`
	Progressions Counts `json:"progressions"`
}

func (r Result) IsZero() bool {
	return r.Categories.zero() && r.Skills.zero() && r.Roles.zero() &&
		r.Requirements.zero() && r.Progressions.zero()
}

// Summary renders only the kinds that changed.
func (r Result) Summary() string {
	groups := []struct {
		name string
		c    Counts
	}{
		{"categories", r.Categories},
		{"skills", r.Skills},
		{"roles", r.Roles},
		{"requirements", r.Requirements},
		{"progressions", r.Progressions},
	}

	parts := make([]string, 0, len(groups))
	for _, g := range groups {
		if g.c.zero() {
			continue
		}
		s := fmt.Sprintf("%d %s (%d added, %d updated", g.c.Added+g.c.Updated, g.name, g.c.Added, g.c.Updated)
		if g.c.Deleted > 0 {
			s += fmt.Sprintf(", %d deleted", g.c.Deleted)
		}
		parts = append(parts, s+")")
	}

	if len(parts) == 0 {
		return "Sync complete: no changes"
	}
	return "Sync complete: " + strings.Join(parts, ", ")
}

// Processed is the added+updated total per kind, as reported by the reload endpoint.
type Processed struct {
	CategoriesProcessed   int `json:"categoriesProcessed"`
	SkillsProcessed       int `json:"skillsProcessed"`
	RolesProcessed        int `json:"rolesProcessed"`
	RequirementsProcessed int `json:"requirementsProcessed"`
	ProgressionsProcessed int `json:"progressionsProcessed"`
}

func (r Result) Processed() Processed {
	return Processed{
		CategoriesProcessed:   r.Categories.Added + r.Categories.Updated,
		SkillsProcessed:       r.Skills.Added + r.Skills.Updated,
		RolesProcessed:        r.Roles.Added + r.Roles.Updated,
		RequirementsProcessed: r.Requirements.Added + r.Requirements.Updated,
		ProgressionsProcessed: r.Progressions.Added + r.Progressions.Updated,
	}
}
