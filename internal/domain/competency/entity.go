package competency

import (
	"fmt"
	"strings"
)

const (
	DefaultRoleFamily     = "Other"
	DefaultSeniorityOrder = 999
)

type Category struct {
	ID           int64
	Name         string
	DisplayOrder int
}

type Skill struct {
	ID                   int64
	Name                 string
	CategoryID           int64
	BasicDescription     string
	DecentDescription    string
	GoodDescription      string
	ExcellentDescription string
}

// Description returns the skill text for the given level.
func (s Skill) Description(level ProficiencyLevel) string {
	switch level {
	case LevelBasic:
		return s.BasicDescription
	case LevelDecent:
		return s.DecentDescription
	case LevelGood:
		return s.GoodDescription
	case LevelExcellent:
		return s.ExcellentDescription
	default:
		return ""
	}
}

type Role struct {
	ID             int64
	Name           string
	Description    string
	Family         string
	SeniorityOrder int
}

type RoleSkillRequirement struct {
	ID            int64
	RoleID        int64
	SkillID       int64
	RequiredLevel ProficiencyLevel
}

type RoleProgression struct {
	ID         int64
	FromRoleID int64
	ToRoleID   int64
}

// ProficiencyLevel is ordered: a higher value means more mastery.
type ProficiencyLevel int

const (
	LevelBasic ProficiencyLevel = iota + 1
	LevelDecent
	LevelGood
	LevelExcellent
)

// LevelKeys are the keys a skill document must carry in its levels map.
var LevelKeys = []string{"basic", "decent", "good", "excellent"}

func (l ProficiencyLevel) String() string {
	switch l {
	case LevelBasic:
		return "BASIC"
	case LevelDecent:
		return "DECENT"
	case LevelGood:
		return "GOOD"
	case LevelExcellent:
		return "EXCELLENT"
	default:
		return fmt.Sprintf("ProficiencyLevel(%d)", int(l))
	}
}

func (l ProficiencyLevel) DisplayName() string {
	switch l {
	case LevelBasic:
		return "Basic"
	case LevelDecent:
		return "Decent"
	case LevelGood:
		return "Good"
	case LevelExcellent:
		return "Excellent"
	default:
		return ""
	}
}

func (l ProficiencyLevel) Valid() bool {
	return l >= LevelBasic && l <= LevelExcellent
}

// ParseLevel accepts level names case-insensitively ("decent", "DECENT", " Decent ").
func ParseLevel(s string) (ProficiencyLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "basic":
		return LevelBasic, nil
	case "decent":
		return LevelDecent, nil
	case "good":
		return LevelGood, nil
	case "excellent":
		return LevelExcellent, nil
	default:
		return 0, fmt.Errorf("unknown proficiency level %q: must be one of basic, decent, good, excellent", s)
	}
}
