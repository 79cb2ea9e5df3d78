package competencysync

import "competency-matrix/internal/domain/competency"

// nameIndex maps a normalized name to the persisted entity carrying it.
// Indices are built per run and never outlive it.
type nameIndex[T any] map[string]T

func indexByName[T any](items []T, name func(T) string) nameIndex[T] {
	idx := make(nameIndex[T], len(items))
	for _, it := range items {
		idx[competency.NormalizeName(name(it))] = it
	}
	return idx
}

func (idx nameIndex[T]) lookup(name string) (T, bool) {
	v, ok := idx[competency.NormalizeName(name)]
	return v, ok
}

// skillKey scopes a skill name by its category.
func skillKey(categoryName, skillName string) string {
	return competency.NormalizeName(categoryName) + "::" + competency.NormalizeName(skillName)
}

func categoryName(c competency.Category) string { return c.Name }
func skillName(s competency.Skill) string       { return s.Name }
func roleName(r competency.Role) string         { return r.Name }
