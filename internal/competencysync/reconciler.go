package competencysync

import (
	"context"
	"fmt"
	"log"

	"competency-matrix/internal/domain/competency"
)

// Reconciler applies one dataset to the stores of one unit of work. It is
// single use: construct a fresh one per run.
type Reconciler struct {
	stores competency.Stores
	logger *log.Logger
	result Result

	categories nameIndex[competency.Category]
	skills     map[string]competency.Skill
	roles      nameIndex[competency.Role]
}

func NewReconciler(stores competency.Stores, logger *log.Logger) *Reconciler {
	if logger == nil {
		logger = log.Default()
	}
	return &Reconciler{
		stores: stores,
		logger: logger,
		skills: map[string]competency.Skill{},
	}
}

// Merge upserts the dataset and never deletes.
func (r *Reconciler) Merge(ctx context.Context, ds Dataset) (Result, error) {
	if err := r.upsertAll(ctx, ds); err != nil {
		return Result{}, err
	}
	return r.result, nil
}

// Replace empties every store, dependents first, then upserts the dataset.
func (r *Reconciler) Replace(ctx context.Context, ds Dataset) (Result, error) {
	if err := r.deleteAll(ctx); err != nil {
		return Result{}, err
	}
	if err := r.upsertAll(ctx, ds); err != nil {
		return Result{}, err
	}
	return r.result, nil
}

func (r *Reconciler) deleteAll(ctx context.Context) error {
	stages := []struct {
		name   string
		del    func(context.Context) (int64, error)
		counts *Counts
	}{
		{"progressions", r.stores.Progressions.DeleteAll, &r.result.Progressions},
		{"requirements", r.stores.Requirements.DeleteAll, &r.result.Requirements},
		{"skills", r.stores.Skills.DeleteAll, &r.result.Skills},
		{"roles", r.stores.Roles.DeleteAll, &r.result.Roles},
		{"categories", r.stores.Categories.DeleteAll, &r.result.Categories},
	}
	for _, st := range stages {
		n, err := st.del(ctx)
		if err != nil {
			return fmt.Errorf("delete %s: %w", st.name, err)
		}
		st.counts.Deleted = int(n)
		r.logger.Printf("[Sync] deleted %d %s", n, st.name)
	}
	return nil
}

func (r *Reconciler) upsertAll(ctx context.Context, ds Dataset) error {
	if err := r.upsertCategories(ctx, ds.Categories); err != nil {
		return err
	}
	if err := r.upsertSkills(ctx, ds.Categories); err != nil {
		return err
	}
	if err := r.upsertRoles(ctx, ds.Roles); err != nil {
		return err
	}
	if err := r.applyRequirements(ctx, ds.Roles); err != nil {
		return err
	}
	return r.applyProgressions(ctx, ds.Progressions)
}

// upsert is the shared insert/update/no-op step for name-identified kinds.
// build returns the entity a document describes; id is zero for inserts.
type upsert[D any, E any] struct {
	kind    string
	index   nameIndex[E]
	docName func(D) string
	build   func(position int, doc D, id int64) E
	id      func(E) int64
	name    func(E) string
	changed func(existing, wanted E) bool
	save    func(context.Context, E) (E, error)
	counts  *Counts
}

func (u upsert[D, E]) apply(ctx context.Context, logger *log.Logger, docs []D) error {
	for i, d := range docs {
		key := competency.NormalizeName(u.docName(d))
		existing, found := u.index[key]

		if !found {
			created, err := u.save(ctx, u.build(i, d, 0))
			if err != nil {
				return fmt.Errorf("insert %s '%s': %w", u.kind, u.docName(d), err)
			}
			u.index[key] = created
			u.counts.Added++
			logger.Printf("[Sync] %s added: %s", u.kind, u.name(created))
			continue
		}

		wanted := u.build(i, d, u.id(existing))
		if !u.changed(existing, wanted) {
			continue
		}
		updated, err := u.save(ctx, wanted)
		if err != nil {
			return fmt.Errorf("update %s '%s': %w", u.kind, u.docName(d), err)
		}
		u.index[key] = updated
		u.counts.Updated++
		logger.Printf("[Sync] %s updated: %s", u.kind, u.name(updated))
	}
	return nil
}

func (r *Reconciler) upsertCategories(ctx context.Context, docs []CategoryDoc) error {
	existing, err := r.stores.Categories.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("load categories: %w", err)
	}
	r.categories = indexByName(existing, categoryName)

	return upsert[CategoryDoc, competency.Category]{
		kind:    "category",
		index:   r.categories,
		docName: func(d CategoryDoc) string { return d.Name },
		build: func(i int, d CategoryDoc, id int64) competency.Category {
			return competency.Category{ID: id, Name: d.Name, DisplayOrder: d.order(i)}
		},
		id:   func(c competency.Category) int64 { return c.ID },
		name: categoryName,
		changed: func(a, b competency.Category) bool {
			return a.Name != b.Name || a.DisplayOrder != b.DisplayOrder
		},
		save:   r.stores.Categories.Save,
		counts: &r.result.Categories,
	}.apply(ctx, r.logger, docs)
}

func (r *Reconciler) upsertSkills(ctx context.Context, categories []CategoryDoc) error {
	for _, cd := range categories {
		category, ok := r.categories.lookup(cd.Name)
		if !ok {
			return fmt.Errorf("%w: category '%s' does not exist in database or configuration", ErrReference, cd.Name)
		}

		existing, err := r.stores.Skills.FindByCategoryID(ctx, category.ID)
		if err != nil {
			return fmt.Errorf("load skills of category '%s': %w", category.Name, err)
		}
		idx := indexByName(existing, skillName)

		err = upsert[SkillDoc, competency.Skill]{
			kind:    "skill",
			index:   idx,
			docName: func(d SkillDoc) string { return d.Name },
			build: func(_ int, d SkillDoc, id int64) competency.Skill {
				return competency.Skill{
					ID:                   id,
					Name:                 d.Name,
					CategoryID:           category.ID,
					BasicDescription:     d.Levels["basic"],
					DecentDescription:    d.Levels["decent"],
					GoodDescription:      d.Levels["good"],
					ExcellentDescription: d.Levels["excellent"],
				}
			},
			id:   func(s competency.Skill) int64 { return s.ID },
			name: func(s competency.Skill) string { return s.Name + " in category " + category.Name },
			changed: func(a, b competency.Skill) bool {
				return a.Name != b.Name ||
					a.BasicDescription != b.BasicDescription ||
					a.DecentDescription != b.DecentDescription ||
					a.GoodDescription != b.GoodDescription ||
					a.ExcellentDescription != b.ExcellentDescription
			},
			save:   r.stores.Skills.Save,
			counts: &r.result.Skills,
		}.apply(ctx, r.logger, cd.Skills)
		if err != nil {
			return err
		}

		for _, s := range idx {
			r.skills[skillKey(cd.Name, s.Name)] = s
		}
	}
	return nil
}

func (r *Reconciler) upsertRoles(ctx context.Context, docs []RoleDoc) error {
	existing, err := r.stores.Roles.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("load roles: %w", err)
	}
	r.roles = indexByName(existing, roleName)

	return upsert[RoleDoc, competency.Role]{
		kind:    "role",
		index:   r.roles,
		docName: func(d RoleDoc) string { return d.Name },
		build: func(_ int, d RoleDoc, id int64) competency.Role {
			return competency.Role{
				ID:             id,
				Name:           d.Name,
				Description:    d.description(),
				Family:         d.family(),
				SeniorityOrder: d.seniority(),
			}
		},
		id:   func(r competency.Role) int64 { return r.ID },
		name: roleName,
		changed: func(a, b competency.Role) bool {
			return a.Name != b.Name ||
				a.Description != b.Description ||
				a.Family != b.Family ||
				a.SeniorityOrder != b.SeniorityOrder
		},
		save:   r.stores.Roles.Save,
		counts: &r.result.Roles,
	}.apply(ctx, r.logger, docs)
}

func (r *Reconciler) applyRequirements(ctx context.Context, roles []RoleDoc) error {
	for _, rd := range roles {
		role, err := r.resolveRole(ctx, rd.Name)
		if err != nil {
			return err
		}

		for _, req := range rd.Requirements {
			category, err := r.resolveCategory(ctx, req)
			if err != nil {
				return err
			}
			skill, err := r.resolveSkill(ctx, category, req)
			if err != nil {
				return err
			}
			level, err := competency.ParseLevel(req.Level)
			if err != nil {
				return fmt.Errorf("%w: requirement '%s' in role '%s': %v", ErrValidation, req.SkillName, rd.Name, err)
			}

			found, err := r.stores.Requirements.FindByRoleAndSkill(ctx, role.ID, skill.ID)
			if err != nil {
				return fmt.Errorf("load requirement %s -> %s: %w", role.Name, skill.Name, err)
			}

			if current, ok := found.Get(); ok {
				if current.RequiredLevel == level {
					continue
				}
				current.RequiredLevel = level
				if _, err := r.stores.Requirements.Save(ctx, current); err != nil {
					return fmt.Errorf("update requirement %s -> %s: %w", role.Name, skill.Name, err)
				}
				r.result.Requirements.Updated++
				r.logger.Printf("[Sync] requirement updated: %s -> %s at %s", role.Name, skill.Name, level)
				continue
			}

			_, err = r.stores.Requirements.Save(ctx, competency.RoleSkillRequirement{
				RoleID:        role.ID,
				SkillID:       skill.ID,
				RequiredLevel: level,
			})
			if err != nil {
				return fmt.Errorf("insert requirement %s -> %s: %w", role.Name, skill.Name, err)
			}
			r.result.Requirements.Added++
			r.logger.Printf("[Sync] requirement added: %s -> %s at %s", role.Name, skill.Name, level)
		}
	}
	return nil
}

func (r *Reconciler) applyProgressions(ctx context.Context, docs []ProgressionDoc) error {
	for _, pd := range docs {
		from, err := r.resolveRole(ctx, pd.FromRoleName)
		if err != nil {
			return err
		}
		to, err := r.resolveRole(ctx, pd.ToRoleName)
		if err != nil {
			return err
		}

		found, err := r.stores.Progressions.FindByRoles(ctx, from.ID, to.ID)
		if err != nil {
			return fmt.Errorf("load progression %s -> %s: %w", from.Name, to.Name, err)
		}
		if found.IsFound() {
			continue
		}
		if _, err := r.stores.Progressions.Save(ctx, competency.RoleProgression{FromRoleID: from.ID, ToRoleID: to.ID}); err != nil {
			return fmt.Errorf("insert progression %s -> %s: %w", from.Name, to.Name, err)
		}
		r.result.Progressions.Added++
		r.logger.Printf("[Sync] progression added: %s -> %s", from.Name, to.Name)
	}
	return nil
}

// resolveCategory checks the run index first, then the store.
func (r *Reconciler) resolveCategory(ctx context.Context, req RequirementDoc) (competency.Category, error) {
	if c, ok := r.categories.lookup(req.CategoryName); ok {
		return c, nil
	}
	found, err := r.stores.Categories.FindByNormalizedName(ctx, competency.NormalizeName(req.CategoryName))
	if err != nil {
		return competency.Category{}, fmt.Errorf("load category '%s': %w", req.CategoryName, err)
	}
	c, ok := found.Get()
	if !ok {
		return competency.Category{}, fmt.Errorf(
			"%w: role requirement references skill '%s' in category '%s' which does not exist in database or configuration",
			ErrReference, req.SkillName, req.CategoryName)
	}
	r.categories[competency.NormalizeName(c.Name)] = c
	return c, nil
}

func (r *Reconciler) resolveSkill(ctx context.Context, category competency.Category, req RequirementDoc) (competency.Skill, error) {
	key := skillKey(category.Name, req.SkillName)
	if s, ok := r.skills[key]; ok {
		return s, nil
	}
	found, err := r.stores.Skills.FindByNormalizedName(ctx, category.ID, competency.NormalizeName(req.SkillName))
	if err != nil {
		return competency.Skill{}, fmt.Errorf("load skill '%s': %w", req.SkillName, err)
	}
	s, ok := found.Get()
	if !ok {
		return competency.Skill{}, fmt.Errorf(
			"%w: role requirement references skill '%s' in category '%s' which does not exist in database or configuration",
			ErrReference, req.SkillName, req.CategoryName)
	}
	r.skills[key] = s
	return s, nil
}

func (r *Reconciler) resolveRole(ctx context.Context, name string) (competency.Role, error) {
	if role, ok := r.roles.lookup(name); ok {
		return role, nil
	}
	found, err := r.stores.Roles.FindByNormalizedName(ctx, competency.NormalizeName(name))
	if err != nil {
		return competency.Role{}, fmt.Errorf("load role '%s': %w", name, err)
	}
	role, ok := found.Get()
	if !ok {
		return competency.Role{}, fmt.Errorf("%w: role '%s' does not exist in database or configuration", ErrReference, name)
	}
	r.roles[competency.NormalizeName(role.Name)] = role
	return role, nil
}
