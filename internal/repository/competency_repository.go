package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"competency-matrix/internal/database"
	"competency-matrix/internal/domain/competency"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// normalizedName mirrors competency.NormalizeName in SQL.
func normalizedName(col string) string {
	return fmt.Sprintf(`lower(btrim(regexp_replace(%s, '[ \t\n\v\f\r]+', ' ', 'g')))`, col)
}

func isNoRows(err error) bool {
	return err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

// NewStores binds every store to q, typically the transaction of one run.
func NewStores(q database.Querier) competency.Stores {
	return competency.Stores{
		Categories:   &PostgresCategoryRepository{q: q},
		Skills:       &PostgresSkillRepository{q: q},
		Roles:        &PostgresRoleRepository{q: q},
		Requirements: &PostgresRequirementRepository{q: q},
		Progressions: &PostgresProgressionRepository{q: q},
	}
}

func count(ctx context.Context, q database.Querier, table string) (int64, error) {
	var n int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM `+table).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func deleteAll(ctx context.Context, q database.Querier, table string) (int64, error) {
	return q.Exec(ctx, `DELETE FROM `+table)
}

type PostgresCategoryRepository struct {
	q database.Querier
}

func (r *PostgresCategoryRepository) FindAll(ctx context.Context) ([]competency.Category, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name, display_order FROM competency_categories ORDER BY display_order ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]competency.Category, 0)
	for rows.Next() {
		var c competency.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.DisplayOrder); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresCategoryRepository) FindByNormalizedName(ctx context.Context, name string) (competency.Lookup[competency.Category], error) {
	var c competency.Category
	err := r.q.QueryRow(ctx,
		`SELECT id, name, display_order FROM competency_categories WHERE `+normalizedName("name")+` = $1`,
		name,
	).Scan(&c.ID, &c.Name, &c.DisplayOrder)
	if err != nil {
		if isNoRows(err) {
			return competency.Absent[competency.Category](), nil
		}
		return competency.Absent[competency.Category](), err
	}
	return competency.Found(c), nil
}

func (r *PostgresCategoryRepository) Save(ctx context.Context, c competency.Category) (competency.Category, error) {
	if c.ID == 0 {
		err := r.q.QueryRow(ctx,
			`INSERT INTO competency_categories (name, display_order) VALUES ($1, $2) RETURNING id`,
			c.Name, c.DisplayOrder,
		).Scan(&c.ID)
		if isUniqueViolation(err) {
			return competency.Category{}, fmt.Errorf("category %q already exists: %w", c.Name, err)
		}
		return c, err
	}

	affected, err := r.q.Exec(ctx,
		`UPDATE competency_categories SET name = $1, display_order = $2, updated_at = now() WHERE id = $3`,
		c.Name, c.DisplayOrder, c.ID,
	)
	if err != nil {
		return competency.Category{}, err
	}
	if affected == 0 {
		return competency.Category{}, fmt.Errorf("category id=%d: %w", c.ID, competency.ErrNotFound)
	}
	return c, nil
}

func (r *PostgresCategoryRepository) DeleteAll(ctx context.Context) (int64, error) {
	return deleteAll(ctx, r.q, "competency_categories")
}

func (r *PostgresCategoryRepository) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.q, "competency_categories")
}

type PostgresSkillRepository struct {
	q database.Querier
}

const skillColumns = `id, name, category_id, basic_description, decent_description, good_description, excellent_description`

func scanSkill(row database.Row) (competency.Skill, error) {
	var s competency.Skill
	err := row.Scan(&s.ID, &s.Name, &s.CategoryID,
		&s.BasicDescription, &s.DecentDescription, &s.GoodDescription, &s.ExcellentDescription)
	return s, err
}

func (r *PostgresSkillRepository) FindByCategoryID(ctx context.Context, categoryID int64) ([]competency.Skill, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+skillColumns+` FROM competency_skills WHERE category_id = $1 ORDER BY name ASC`,
		categoryID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]competency.Skill, 0)
	for rows.Next() {
		s, err := scanSkill(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresSkillRepository) FindByNormalizedName(ctx context.Context, categoryID int64, name string) (competency.Lookup[competency.Skill], error) {
	s, err := scanSkill(r.q.QueryRow(ctx,
		`SELECT `+skillColumns+` FROM competency_skills WHERE category_id = $1 AND `+normalizedName("name")+` = $2`,
		categoryID, name,
	))
	if err != nil {
		if isNoRows(err) {
			return competency.Absent[competency.Skill](), nil
		}
		return competency.Absent[competency.Skill](), err
	}
	return competency.Found(s), nil
}

func (r *PostgresSkillRepository) Save(ctx context.Context, s competency.Skill) (competency.Skill, error) {
	if s.ID == 0 {
		err := r.q.QueryRow(ctx,
			`INSERT INTO competency_skills (name, category_id, basic_description, decent_description, good_description, excellent_description)
			 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
			s.Name, s.CategoryID, s.BasicDescription, s.DecentDescription, s.GoodDescription, s.ExcellentDescription,
		).Scan(&s.ID)
		if isUniqueViolation(err) {
			return competency.Skill{}, fmt.Errorf("skill %q already exists in category id=%d: %w", s.Name, s.CategoryID, err)
		}
		return s, err
	}

	affected, err := r.q.Exec(ctx,
		`UPDATE competency_skills
		 SET name = $1, category_id = $2, basic_description = $3, decent_description = $4,
		     good_description = $5, excellent_description = $6, updated_at = now()
		 WHERE id = $7`,
		s.Name, s.CategoryID, s.BasicDescription, s.DecentDescription, s.GoodDescription, s.ExcellentDescription, s.ID,
	)
	if err != nil {
		return competency.Skill{}, err
	}
	if affected == 0 {
		return competency.Skill{}, fmt.Errorf("skill id=%d: %w", s.ID, competency.ErrNotFound)
	}
	return s, nil
}

func (r *PostgresSkillRepository) DeleteAll(ctx context.Context) (int64, error) {
	return deleteAll(ctx, r.q, "competency_skills")
}

func (r *PostgresSkillRepository) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.q, "competency_skills")
}

type PostgresRoleRepository struct {
	q database.Querier
}

func (r *PostgresRoleRepository) FindAll(ctx context.Context) ([]competency.Role, error) {
	rows, err := r.q.Query(ctx,
		`SELECT id, name, description, role_family, seniority_order FROM competency_roles ORDER BY seniority_order ASC, name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]competency.Role, 0)
	for rows.Next() {
		var role competency.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Description, &role.Family, &role.SeniorityOrder); err != nil {
			return nil, err
		}
		out = append(out, role)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresRoleRepository) FindByNormalizedName(ctx context.Context, name string) (competency.Lookup[competency.Role], error) {
	var role competency.Role
	err := r.q.QueryRow(ctx,
		`SELECT id, name, description, role_family, seniority_order FROM competency_roles WHERE `+normalizedName("name")+` = $1`,
		name,
	).Scan(&role.ID, &role.Name, &role.Description, &role.Family, &role.SeniorityOrder)
	if err != nil {
		if isNoRows(err) {
			return competency.Absent[competency.Role](), nil
		}
		return competency.Absent[competency.Role](), err
	}
	return competency.Found(role), nil
}

func (r *PostgresRoleRepository) Save(ctx context.Context, role competency.Role) (competency.Role, error) {
	if role.ID == 0 {
		err := r.q.QueryRow(ctx,
			`INSERT INTO competency_roles (name, description, role_family, seniority_order) VALUES ($1, $2, $3, $4) RETURNING id`,
			role.Name, role.Description, role.Family, role.SeniorityOrder,
		).Scan(&role.ID)
		if isUniqueViolation(err) {
			return competency.Role{}, fmt.Errorf("role %q already exists: %w", role.Name, err)
		}
		return role, err
	}

	affected, err := r.q.Exec(ctx,
		`UPDATE competency_roles SET name = $1, description = $2, role_family = $3, seniority_order = $4, updated_at = now() WHERE id = $5`,
		role.Name, role.Description, role.Family, role.SeniorityOrder, role.ID,
	)
	if err != nil {
		return competency.Role{}, err
	}
	if affected == 0 {
		return competency.Role{}, fmt.Errorf("role id=%d: %w", role.ID, competency.ErrNotFound)
	}
	return role, nil
}

func (r *PostgresRoleRepository) DeleteAll(ctx context.Context) (int64, error) {
	return deleteAll(ctx, r.q, "competency_roles")
}

func (r *PostgresRoleRepository) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.q, "competency_roles")
}

type PostgresRequirementRepository struct {
	q database.Querier
}

func (r *PostgresRequirementRepository) FindByRoleAndSkill(ctx context.Context, roleID, skillID int64) (competency.Lookup[competency.RoleSkillRequirement], error) {
	var (
		req   competency.RoleSkillRequirement
		level string
	)
	err := r.q.QueryRow(ctx,
		`SELECT id, role_id, skill_id, required_level FROM role_skill_requirements WHERE role_id = $1 AND skill_id = $2`,
		roleID, skillID,
	).Scan(&req.ID, &req.RoleID, &req.SkillID, &level)
	if err != nil {
		if isNoRows(err) {
			return competency.Absent[competency.RoleSkillRequirement](), nil
		}
		return competency.Absent[competency.RoleSkillRequirement](), err
	}

	req.RequiredLevel, err = competency.ParseLevel(level)
	if err != nil {
		return competency.Absent[competency.RoleSkillRequirement](), fmt.Errorf("requirement id=%d: %w", req.ID, err)
	}
	return competency.Found(req), nil
}

func (r *PostgresRequirementRepository) Save(ctx context.Context, req competency.RoleSkillRequirement) (competency.RoleSkillRequirement, error) {
	if !req.RequiredLevel.Valid() {
		return competency.RoleSkillRequirement{}, fmt.Errorf("invalid required level %d", int(req.RequiredLevel))
	}

	if req.ID == 0 {
		err := r.q.QueryRow(ctx,
			`INSERT INTO role_skill_requirements (role_id, skill_id, required_level) VALUES ($1, $2, $3) RETURNING id`,
			req.RoleID, req.SkillID, req.RequiredLevel.String(),
		).Scan(&req.ID)
		return req, err
	}

	affected, err := r.q.Exec(ctx,
		`UPDATE role_skill_requirements SET role_id = $1, skill_id = $2, required_level = $3 WHERE id = $4`,
		req.RoleID, req.SkillID, req.RequiredLevel.String(), req.ID,
	)
	if err != nil {
		return competency.RoleSkillRequirement{}, err
	}
	if affected == 0 {
		return competency.RoleSkillRequirement{}, fmt.Errorf("requirement id=%d: %w", req.ID, competency.ErrNotFound)
	}
	return req, nil
}

func (r *PostgresRequirementRepository) DeleteAll(ctx context.Context) (int64, error) {
	return deleteAll(ctx, r.q, "role_skill_requirements")
}

func (r *PostgresRequirementRepository) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.q, "role_skill_requirements")
}

type PostgresProgressionRepository struct {
	q database.Querier
}

func (r *PostgresProgressionRepository) FindByRoles(ctx context.Context, fromRoleID, toRoleID int64) (competency.Lookup[competency.RoleProgression], error) {
	var p competency.RoleProgression
	err := r.q.QueryRow(ctx,
		`SELECT id, from_role_id, to_role_id FROM role_progressions WHERE from_role_id = $1 AND to_role_id = $2`,
		fromRoleID, toRoleID,
	).Scan(&p.ID, &p.FromRoleID, &p.ToRoleID)
	if err != nil {
		if isNoRows(err) {
			return competency.Absent[competency.RoleProgression](), nil
		}
		return competency.Absent[competency.RoleProgression](), err
	}
	return competency.Found(p), nil
}

// Save only inserts: a progression has no payload beyond its role pair.
func (r *PostgresProgressionRepository) Save(ctx context.Context, p competency.RoleProgression) (competency.RoleProgression, error) {
	if p.ID != 0 {
		return p, nil
	}
	err := r.q.QueryRow(ctx,
		`INSERT INTO role_progressions (from_role_id, to_role_id) VALUES ($1, $2) RETURNING id`,
		p.FromRoleID, p.ToRoleID,
	).Scan(&p.ID)
	return p, err
}

func (r *PostgresProgressionRepository) DeleteAll(ctx context.Context) (int64, error) {
	return deleteAll(ctx, r.q, "role_progressions")
}

func (r *PostgresProgressionRepository) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.q, "role_progressions")
}
