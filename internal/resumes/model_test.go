package resumes

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAppliesDefaults(t *testing.T) {
	var r Resume
	r.Normalize()

	assert.Equal(t, DefaultTitle, r.Title)
	assert.Equal(t, DefaultTemplate, r.Template)
	assert.Equal(t, DefaultAccentColor, r.AccentColor)
	assert.False(t, r.Public)
	assert.NotNil(t, r.Skills)
	assert.NotNil(t, r.Experience)
	assert.NotNil(t, r.Project)
	assert.NotNil(t, r.Education)

	out, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"skills":[]`)
	assert.Contains(t, string(out), `"accent_color":"#3B82F6"`)
}

func TestNormalizeKeepsExplicitValues(t *testing.T) {
	r := Resume{Title: "Backend", Template: "modern", AccentColor: "#000000", Skills: []string{"Go"}}
	r.Normalize()

	assert.Equal(t, "Backend", r.Title)
	assert.Equal(t, "modern", r.Template)
	assert.Equal(t, "#000000", r.AccentColor)
	assert.Equal(t, []string{"Go"}, r.Skills)
}

func TestEducationGPAAcceptsNumbersAndStrings(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "string", raw: `{"institution":"MIT","gpa":"3.9"}`, want: "3.9"},
		{name: "number", raw: `{"institution":"MIT","gpa":3.75}`, want: "3.75"},
		{name: "integer", raw: `{"institution":"MIT","gpa":4}`, want: "4"},
		{name: "null", raw: `{"institution":"MIT","gpa":null}`, want: ""},
		{name: "missing", raw: `{"institution":"MIT"}`, want: ""},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			var e Education
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &e))
			assert.Equal(t, "MIT", e.Institution)
			assert.Equal(t, tt.want, e.GPA)
		})
	}
}

func TestEducationGPARejectsOtherTypes(t *testing.T) {
	var e Education
	assert.Error(t, json.Unmarshal([]byte(`{"gpa":true}`), &e))
}

func TestContentApply(t *testing.T) {
	c := Content{
		ProfessionalSummary: "Engineer",
		Skills:              []string{"Go", "SQL"},
		PersonalInfo:        PersonalInfo{FullName: "Ada"},
		Experience:          []Experience{{Company: "Acme", IsCurrent: true}},
	}
	var r Resume
	c.Apply(&r)
	r.Normalize()

	assert.Equal(t, "Engineer", r.ProfessionalSummary)
	assert.Equal(t, "Ada", r.PersonalInfo.FullName)
	assert.Len(t, r.Experience, 1)
	assert.Empty(t, r.Project)
	assert.NotNil(t, r.Project)
}
