package competencysync

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"sync"
	"sync/atomic"

	"competency-matrix/internal/domain/competency"
)

type memState struct {
	nextID       int64
	categories   map[int64]competency.Category
	skills       map[int64]competency.Skill
	roles        map[int64]competency.Role
	requirements map[int64]competency.RoleSkillRequirement
	progressions map[int64]competency.RoleProgression
}

func newMemState() *memState {
	return &memState{
		categories:   map[int64]competency.Category{},
		skills:       map[int64]competency.Skill{},
		roles:        map[int64]competency.Role{},
		requirements: map[int64]competency.RoleSkillRequirement{},
		progressions: map[int64]competency.RoleProgression{},
	}
}

func (s *memState) clone() *memState {
	return &memState{
		nextID:       s.nextID,
		categories:   maps.Clone(s.categories),
		skills:       maps.Clone(s.skills),
		roles:        maps.Clone(s.roles),
		requirements: maps.Clone(s.requirements),
		progressions: maps.Clone(s.progressions),
	}
}

func (s *memState) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memState) stores() competency.Stores {
	return competency.Stores{
		Categories:   memCategories{s},
		Skills:       memSkills{s},
		Roles:        memRoles{s},
		Requirements: memRequirements{s},
		Progressions: memProgressions{s},
	}
}

func sortedValues[T any](m map[int64]T, id func(T) int64) []T {
	out := slices.Collect(maps.Values(m))
	slices.SortFunc(out, func(a, b T) int { return cmp.Compare(id(a), id(b)) })
	return out
}

func clearCount[T any](m map[int64]T) int64 {
	n := int64(len(m))
	clear(m)
	return n
}

type memCategories struct{ s *memState }

func (m memCategories) FindAll(ctx context.Context) ([]competency.Category, error) {
	return sortedValues(m.s.categories, func(c competency.Category) int64 { return c.ID }), nil
}

func (m memCategories) FindByNormalizedName(ctx context.Context, name string) (competency.Lookup[competency.Category], error) {
	for _, c := range m.s.categories {
		if competency.NormalizeName(c.Name) == name {
			return competency.Found(c), nil
		}
	}
	return competency.Absent[competency.Category](), nil
}

func (m memCategories) Save(ctx context.Context, c competency.Category) (competency.Category, error) {
	if c.ID == 0 {
		c.ID = m.s.id()
	}
	m.s.categories[c.ID] = c
	return c, nil
}

func (m memCategories) DeleteAll(ctx context.Context) (int64, error) {
	return clearCount(m.s.categories), nil
}

func (m memCategories) Count(ctx context.Context) (int64, error) {
	return int64(len(m.s.categories)), nil
}

type memSkills struct{ s *memState }

func (m memSkills) FindByCategoryID(ctx context.Context, categoryID int64) ([]competency.Skill, error) {
	out := make([]competency.Skill, 0)
	for _, sk := range sortedValues(m.s.skills, func(s competency.Skill) int64 { return s.ID }) {
		if sk.CategoryID == categoryID {
			out = append(out, sk)
		}
	}
	return out, nil
}

func (m memSkills) FindByNormalizedName(ctx context.Context, categoryID int64, name string) (competency.Lookup[competency.Skill], error) {
	for _, sk := range m.s.skills {
		if sk.CategoryID == categoryID && competency.NormalizeName(sk.Name) == name {
			return competency.Found(sk), nil
		}
	}
	return competency.Absent[competency.Skill](), nil
}

func (m memSkills) Save(ctx context.Context, sk competency.Skill) (competency.Skill, error) {
	if sk.ID == 0 {
		sk.ID = m.s.id()
	}
	m.s.skills[sk.ID] = sk
	return sk, nil
}

func (m memSkills) DeleteAll(ctx context.Context) (int64, error) {
	return clearCount(m.s.skills), nil
}

func (m memSkills) Count(ctx context.Context) (int64, error) {
	return int64(len(m.s.skills)), nil
}

type memRoles struct{ s *memState }

func (m memRoles) FindAll(ctx context.Context) ([]competency.Role, error) {
	return sortedValues(m.s.roles, func(r competency.Role) int64 { return r.ID }), nil
}

func (m memRoles) FindByNormalizedName(ctx context.Context, name string) (competency.Lookup[competency.Role], error) {
	for _, r := range m.s.roles {
		if competency.NormalizeName(r.Name) == name {
			return competency.Found(r), nil
		}
	}
	return competency.Absent[competency.Role](), nil
}

func (m memRoles) Save(ctx context.Context, r competency.Role) (competency.Role, error) {
	if r.ID == 0 {
		r.ID = m.s.id()
	}
	m.s.roles[r.ID] = r
	return r, nil
}

func (m memRoles) DeleteAll(ctx context.Context) (int64, error) {
	return clearCount(m.s.roles), nil
}

func (m memRoles) Count(ctx context.Context) (int64, error) {
	return int64(len(m.s.roles)), nil
}

type memRequirements struct{ s *memState }

func (m memRequirements) FindByRoleAndSkill(ctx context.Context, roleID, skillID int64) (competency.Lookup[competency.RoleSkillRequirement], error) {
	for _, r := range m.s.requirements {
		if r.RoleID == roleID && r.SkillID == skillID {
			return competency.Found(r), nil
		}
	}
	return competency.Absent[competency.RoleSkillRequirement](), nil
}

func (m memRequirements) Save(ctx context.Context, r competency.RoleSkillRequirement) (competency.RoleSkillRequirement, error) {
	if r.ID == 0 {
		r.ID = m.s.id()
	}
	m.s.requirements[r.ID] = r
	return r, nil
}

func (m memRequirements) DeleteAll(ctx context.Context) (int64, error) {
	return clearCount(m.s.requirements), nil
}

func (m memRequirements) Count(ctx context.Context) (int64, error) {
	return int64(len(m.s.requirements)), nil
}

type memProgressions struct{ s *memState }

func (m memProgressions) FindByRoles(ctx context.Context, fromRoleID, toRoleID int64) (competency.Lookup[competency.RoleProgression], error) {
	for _, p := range m.s.progressions {
		if p.FromRoleID == fromRoleID && p.ToRoleID == toRoleID {
			return competency.Found(p), nil
		}
	}
	return competency.Absent[competency.RoleProgression](), nil
}

func (m memProgressions) Save(ctx context.Context, p competency.RoleProgression) (competency.RoleProgression, error) {
	if p.ID == 0 {
		p.ID = m.s.id()
	}
	m.s.progressions[p.ID] = p
	return p, nil
}

func (m memProgressions) DeleteAll(ctx context.Context) (int64, error) {
	return clearCount(m.s.progressions), nil
}

func (m memProgressions) Count(ctx context.Context) (int64, error) {
	return int64(len(m.s.progressions)), nil
}

// memUoW commits by swapping in the working copy, so a failed fn leaves the
// committed state untouched.
type memUoW struct {
	mu    sync.Mutex
	state *memState

	inFlight    atomic.Int32
	maxInFlight atomic.Int32
	during      func()
}

func newMemUoW() *memUoW {
	return &memUoW{state: newMemState()}
}

func (u *memUoW) Do(ctx context.Context, fn func(ctx context.Context, stores competency.Stores) error) error {
	n := u.inFlight.Add(1)
	defer u.inFlight.Add(-1)
	for {
		cur := u.maxInFlight.Load()
		if n <= cur || u.maxInFlight.CompareAndSwap(cur, n) {
			break
		}
	}

	u.mu.Lock()
	work := u.state.clone()
	u.mu.Unlock()

	if u.during != nil {
		u.during()
	}
	if err := fn(ctx, work.stores()); err != nil {
		return err
	}

	u.mu.Lock()
	u.state = work
	u.mu.Unlock()
	return nil
}

func (u *memUoW) snapshot() *memState {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.state.clone()
}

func (u *memUoW) seed(fn func(s competency.Stores)) {
	u.mu.Lock()
	defer u.mu.Unlock()
	fn(u.state.stores())
}
