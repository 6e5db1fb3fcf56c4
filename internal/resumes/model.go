package resumes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultTitle       = "Untitled Resume"
	DefaultTemplate    = "classic"
	DefaultAccentColor = "#3B82F6"
)

// PersonalInfo holds the contact block shown at the top of a resume.
type PersonalInfo struct {
	Image      string `json:"image" bson:"image"`
	FullName   string `json:"full_name" bson:"full_name"`
	Profession string `json:"profession" bson:"profession"`
	Email      string `json:"email" bson:"email"`
	Phone      string `json:"phone" bson:"phone"`
	Location   string `json:"location" bson:"location"`
	LinkedIn   string `json:"linkedin" bson:"linkedin"`
	Website    string `json:"website" bson:"website"`
}

type Experience struct {
	Company     string `json:"company" bson:"company"`
	Position    string `json:"position" bson:"position"`
	StartDate   string `json:"start_date" bson:"start_date"`
	EndDate     string `json:"end_date" bson:"end_date"`
	Description string `json:"description" bson:"description"`
	IsCurrent   bool   `json:"is_current" bson:"is_current"`
}

type Project struct {
	Name        string `json:"name" bson:"name"`
	Type        string `json:"type" bson:"type"`
	Description string `json:"description" bson:"description"`
}

type Education struct {
	Institution    string `json:"institution" bson:"institution"`
	Degree         string `json:"degree" bson:"degree"`
	Field          string `json:"field" bson:"field"`
	GraduationDate string `json:"graduation_date" bson:"graduation_date"`
	GPA            string `json:"gpa" bson:"gpa"`
}

// UnmarshalJSON accepts gpa as either a string or a number.
func (e *Education) UnmarshalJSON(data []byte) error {
	type plain Education
	aux := struct {
		*plain
		GPA json.RawMessage `json:"gpa"`
	}{plain: (*plain)(e)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	gpa, err := flexibleString(aux.GPA)
	if err != nil {
		return fmt.Errorf("education gpa: %w", err)
	}
	e.GPA = gpa
	return nil
}

func flexibleString(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	default:
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return "", fmt.Errorf("expected string or number, got %s", raw)
		}
		if f, err := n.Float64(); err == nil {
			return strconv.FormatFloat(f, 'f', -1, 64), nil
		}
		return n.String(), nil
	}
}

// Resume is a stored resume document.
type Resume struct {
	ID                  string       `json:"_id" bson:"_id"`
	UserID              string       `json:"userId" bson:"userId"`
	Title               string       `json:"title" bson:"title"`
	Public              bool         `json:"public" bson:"public"`
	Template            string       `json:"template" bson:"template"`
	AccentColor         string       `json:"accent_color" bson:"accent_color"`
	ProfessionalSummary string       `json:"professional_summary" bson:"professional_summary"`
	Skills              []string     `json:"skills" bson:"skills"`
	PersonalInfo        PersonalInfo `json:"personal_info" bson:"personal_info"`
	Experience          []Experience `json:"experience" bson:"experience"`
	Project             []Project    `json:"project" bson:"project"`
	Education           []Education  `json:"education" bson:"education"`
	CreatedAt           time.Time    `json:"createdAt" bson:"createdAt"`
	UpdatedAt           time.Time    `json:"updatedAt" bson:"updatedAt"`
}

// Normalize fills defaults for unset fields. Stored resumes are always normalized.
func (r *Resume) Normalize() {
	if strings.TrimSpace(r.Title) == "" {
		r.Title = DefaultTitle
	}
	if strings.TrimSpace(r.Template) == "" {
		r.Template = DefaultTemplate
	}
	if strings.TrimSpace(r.AccentColor) == "" {
		r.AccentColor = DefaultAccentColor
	}
	if r.Skills == nil {
		r.Skills = []string{}
	}
	if r.Experience == nil {
		r.Experience = []Experience{}
	}
	if r.Project == nil {
		r.Project = []Project{}
	}
	if r.Education == nil {
		r.Education = []Education{}
	}
}

// Content is the resume body produced by extraction, before ownership is attached.
type Content struct {
	ProfessionalSummary string       `json:"professional_summary"`
	Skills              []string     `json:"skills"`
	PersonalInfo        PersonalInfo `json:"personal_info"`
	Experience          []Experience `json:"experience"`
	Project             []Project    `json:"project"`
	Education           []Education  `json:"education"`
}

// Apply copies the extracted body onto r.
func (c Content) Apply(r *Resume) {
	r.ProfessionalSummary = c.ProfessionalSummary
	r.Skills = c.Skills
	r.PersonalInfo = c.PersonalInfo
	r.Experience = c.Experience
	r.Project = c.Project
	r.Education = c.Education
}
