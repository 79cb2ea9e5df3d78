package competency

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("competency entity not found")

// Lookup is the result of a store query that may or may not find a row.
type Lookup[T any] struct {
	value T
	found bool
}

func Found[T any](v T) Lookup[T] {
	return Lookup[T]{value: v, found: true}
}

func Absent[T any]() Lookup[T] {
	return Lookup[T]{}
}

func (l Lookup[T]) Get() (T, bool) {
	return l.value, l.found
}

func (l Lookup[T]) IsFound() bool {
	return l.found
}

type CategoryStore interface {
	FindAll(ctx context.Context) ([]Category, error)
	FindByNormalizedName(ctx context.Context, name string) (Lookup[Category], error)
	Save(ctx context.Context, c Category) (Category, error)
	DeleteAll(ctx context.Context) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type SkillStore interface {
	FindByCategoryID(ctx context.Context, categoryID int64) ([]Skill, error)
	FindByNormalizedName(ctx context.Context, categoryID int64, name string) (Lookup[Skill], error)
	Save(ctx context.Context, s Skill) (Skill, error)
	DeleteAll(ctx context.Context) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type RoleStore interface {
	FindAll(ctx context.Context) ([]Role, error)
	FindByNormalizedName(ctx context.Context, name string) (Lookup[Role], error)
	Save(ctx context.Context, r Role) (Role, error)
	DeleteAll(ctx context.Context) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type RequirementStore interface {
	FindByRoleAndSkill(ctx context.Context, roleID, skillID int64) (Lookup[RoleSkillRequirement], error)
	Save(ctx context.Context, r RoleSkillRequirement) (RoleSkillRequirement, error)
	DeleteAll(ctx context.Context) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type ProgressionStore interface {
	FindByRoles(ctx context.Context, fromRoleID, toRoleID int64) (Lookup[RoleProgression], error)
	Save(ctx context.Context, p RoleProgression) (RoleProgression, error)
	DeleteAll(ctx context.Context) (int64, error)
	Count(ctx context.Context) (int64, error)
}

// Stores groups the per-kind stores bound to one unit of work.
type Stores struct {
	Categories   CategoryStore
	Skills       SkillStore
	Roles        RoleStore
	Requirements RequirementStore
	Progressions ProgressionStore
}

// UnitOfWork runs fn atomically: every mutation made through the Stores
// passed to fn is committed when fn returns nil and rolled back otherwise.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, stores Stores) error) error
}
