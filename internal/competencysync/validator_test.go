package competencysync

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func validDataset() Dataset {
	return Dataset{
		Categories: []CategoryDoc{{
			Name: "Programming",
			Skills: []SkillDoc{{
				Name:   "Java",
				Levels: map[string]string{"basic": "b", "decent": "d", "good": "g", "excellent": "e"},
			}},
		}},
		Roles: []RoleDoc{{
			Name:        "Developer",
			Description: ptr("Builds"),
			Requirements: []RequirementDoc{
				{SkillName: "Java", CategoryName: "Programming", Level: "decent"},
			},
		}},
		Progressions: []ProgressionDoc{},
	}
}

func TestValidate_AcceptsCompleteDataset(t *testing.T) {
	require.NoError(t, Validate(validDataset()))
}

func TestValidate_Rejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(ds *Dataset)
		want   string
	}{
		{"missing top level", func(ds *Dataset) { ds.Progressions = nil }, "missing required top-level keys"},
		{"blank category", func(ds *Dataset) { ds.Categories[0].Name = "  " }, "category name is required"},
		{"skills absent", func(ds *Dataset) { ds.Categories[0].Skills = nil }, "missing 'skills' list"},
		{"blank skill", func(ds *Dataset) { ds.Categories[0].Skills[0].Name = "" }, "skill name is required"},
		{"only basic level", func(ds *Dataset) {
			ds.Categories[0].Skills[0].Levels = map[string]string{"basic": "B"}
		}, "must have all four levels"},
		{"wrong level key", func(ds *Dataset) {
			ds.Categories[0].Skills[0].Levels = map[string]string{"basic": "b", "decent": "d", "good": "g", "expert": "e"}
		}, "must have all four levels"},
		{"blank role", func(ds *Dataset) { ds.Roles[0].Name = "" }, "role name is required"},
		{"no description", func(ds *Dataset) { ds.Roles[0].Description = nil }, "missing 'description'"},
		{"no requirements", func(ds *Dataset) { ds.Roles[0].Requirements = nil }, "missing 'requirements' list"},
		{"requirement skill", func(ds *Dataset) { ds.Roles[0].Requirements[0].SkillName = "" }, "missing skill name"},
		{"requirement category", func(ds *Dataset) { ds.Roles[0].Requirements[0].CategoryName = "" }, "missing category name"},
		{"requirement level", func(ds *Dataset) { ds.Roles[0].Requirements[0].Level = " " }, "missing level"},
		{"unknown level", func(ds *Dataset) { ds.Roles[0].Requirements[0].Level = "guru" }, "requirement 'Java' in role 'Developer'"},
		{"skill listed twice in category", func(ds *Dataset) {
			dup := ds.Categories[0].Skills[0]
			dup.Name = " java "
			ds.Categories[0].Skills = append(ds.Categories[0].Skills, dup)
		}, "skill ' java ' is listed more than once in category 'Programming'"},
		{"requirement listed twice in role", func(ds *Dataset) {
			ds.Roles[0].Requirements = append(ds.Roles[0].Requirements,
				RequirementDoc{SkillName: "JAVA", CategoryName: "programming ", Level: "good"})
		}, "listed more than once in role 'Developer'"},
		{"progression from", func(ds *Dataset) {
			ds.Progressions = []ProgressionDoc{{ToRoleName: "Developer"}}
		}, "missing 'from'"},
		{"progression to", func(ds *Dataset) {
			ds.Progressions = []ProgressionDoc{{FromRoleName: "Developer"}}
		}, "missing 'to'"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ds := validDataset()
			tc.mutate(&ds)

			err := Validate(ds)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestValidate_EmptyDescriptionIsAllowed(t *testing.T) {
	ds := validDataset()
	ds.Roles[0].Description = ptr("")
	assert.NoError(t, Validate(ds))
}
