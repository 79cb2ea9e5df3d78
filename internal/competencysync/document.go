package competencysync

import "competency-matrix/internal/domain/competency"

// Dataset is the merged in-memory view of every loaded document.
// A nil collection means the key was absent, which Validate rejects.
type Dataset struct {
	Categories   []CategoryDoc    `yaml:"categories"`
	Roles        []RoleDoc        `yaml:"roles"`
	Progressions []ProgressionDoc `yaml:"progressions"`
}

type CategoryDoc struct {
	Name         string     `yaml:"name"`
	DisplayOrder *int       `yaml:"displayOrder"`
	Skills       []SkillDoc `yaml:"skills"`
}

// order falls back to the category's position in the dataset.
func (c CategoryDoc) order(position int) int {
	if c.DisplayOrder != nil {
		return *c.DisplayOrder
	}
	return position
}

type SkillDoc struct {
	Name         string            `yaml:"name"`
	CategoryName string            `yaml:"-"`
	Levels       map[string]string `yaml:"levels"`
}

type RoleDoc struct {
	Name           string           `yaml:"name"`
	Description    *string          `yaml:"description"`
	Family         string           `yaml:"family"`
	RoleFamily     string           `yaml:"roleFamily"`
	SeniorityOrder *int             `yaml:"seniorityOrder"`
	Requirements   []RequirementDoc `yaml:"requirements"`
}

func (r RoleDoc) description() string {
	if r.Description == nil {
		return ""
	}
	return *r.Description
}

func (r RoleDoc) family() string {
	switch {
	case r.Family != "":
		return r.Family
	case r.RoleFamily != "":
		return r.RoleFamily
	default:
		return competency.DefaultRoleFamily
	}
}

func (r RoleDoc) seniority() int {
	if r.SeniorityOrder == nil {
		return competency.DefaultSeniorityOrder
	}
	return *r.SeniorityOrder
}

type RequirementDoc struct {
	SkillName    string `yaml:"skill"`
	CategoryName string `yaml:"category"`
	Level        string `yaml:"level"`
}

type ProgressionDoc struct {
	FromRoleName string `yaml:"from"`
	ToRoleName   string `yaml:"to"`
}
