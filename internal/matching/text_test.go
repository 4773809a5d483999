package matching

import (
	"strings"
	"testing"

	"github.com/jonathan/talent-match/internal/db"
	"github.com/stretchr/testify/assert"
)

func sampleProfile() *db.Profile {
	return &db.Profile{
		Bio:               "Backend engineer focused on distributed systems.",
		Skills:            []string{"Go", "PostgreSQL", "Kubernetes"},
		YearsOfExperience: 7,
		ExperienceLevel:   db.ExperienceSenior,
		Education: []db.EducationEntry{
			{Degree: "BSc", Field: "Computer Science", Institution: "MIT", Year: 2016},
		},
		WorkExperience: []db.WorkExperienceEntry{
			{Title: "Staff Engineer", Company: "Acme", Description: "Built the payments platform."},
		},
		Location: "Berlin",
	}
}

func sampleJob() *db.Job {
	return &db.Job{
		Title:            "Senior Backend Engineer",
		Description:      "Own our matching infrastructure.",
		Requirements:     "5+ years with Go and SQL databases.",
		Responsibilities: "Design and operate ranking services.",
		Skills:           []string{"Go", "PostgreSQL"},
		Benefits:         []string{"Remote", "Equity"},
		ExperienceLevel:  db.ExperienceSenior,
		JobType:          "FULL_TIME",
		Location:         "Berlin",
	}
}

func TestRenderProfileText_Deterministic(t *testing.T) {
	p := sampleProfile()
	first := RenderProfileText(p)
	second := RenderProfileText(p)
	assert.Equal(t, first, second)
}

func TestRenderProfileText_Sections(t *testing.T) {
	text := RenderProfileText(sampleProfile())

	assert.Contains(t, text, "Bio: Backend engineer focused on distributed systems.")
	assert.Contains(t, text, "Skills: Go, PostgreSQL, Kubernetes")
	assert.Contains(t, text, "Experience Level: SENIOR")
	assert.Contains(t, text, "Years of Experience: 7")
	assert.Contains(t, text, "Education: BSc in Computer Science from MIT")
	assert.Contains(t, text, "Work Experience: Staff Engineer at Acme. Built the payments platform.")
	assert.Contains(t, text, "Location: Berlin")
}

func TestRenderProfileText_OmitsEmptySections(t *testing.T) {
	text := RenderProfileText(&db.Profile{Bio: "Short bio."})

	assert.Equal(t, "Bio: Short bio.", text)
	assert.NotContains(t, text, "Skills:")
	assert.NotContains(t, text, "Education:")
	assert.NotContains(t, text, "Location:")
}

func TestRenderProfileText_ChangesWithContent(t *testing.T) {
	p := sampleProfile()
	before := RenderProfileText(p)

	p.Skills = append(p.Skills, "Rust")
	after := RenderProfileText(p)

	assert.NotEqual(t, before, after)
}

func TestRenderJobText_Sections(t *testing.T) {
	text := RenderJobText(sampleJob())

	assert.Contains(t, text, "Job Title: Senior Backend Engineer")
	assert.Contains(t, text, "Description: Own our matching infrastructure.")
	assert.Contains(t, text, "Requirements: 5+ years with Go and SQL databases.")
	assert.Contains(t, text, "Responsibilities: Design and operate ranking services.")
	assert.Contains(t, text, "Required Skills: Go, PostgreSQL")
	assert.Contains(t, text, "Experience Level: SENIOR")
	assert.Contains(t, text, "Job Type: FULL_TIME")
	assert.Contains(t, text, "Location: Berlin")
	assert.Contains(t, text, "Benefits: Remote, Equity")
}

func TestRenderJobText_OptionalSections(t *testing.T) {
	j := sampleJob()
	j.Skills = nil
	j.Benefits = nil
	text := RenderJobText(j)

	assert.NotContains(t, text, "Required Skills:")
	assert.NotContains(t, text, "Benefits:")
	// Mandatory sections stay even when other fields are dropped.
	assert.True(t, strings.HasPrefix(text, "Job Title: "))
	assert.Contains(t, text, "Job Type: FULL_TIME")
}
