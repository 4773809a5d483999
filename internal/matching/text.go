package matching

import (
	"fmt"
	"strings"

	"github.com/jonathan/talent-match/internal/db"
)

// RenderProfileText renders a candidate profile into the labeled-section
// text blob that gets embedded. The render is deterministic: two calls on
// unchanged data produce byte-identical output, which is what makes
// embedding staleness reasoning possible. Missing optional fields are
// omitted, never replaced with placeholders.
func RenderProfileText(p *db.Profile) string {
	var parts []string

	if p.Bio != "" {
		parts = append(parts, "Bio: "+p.Bio)
	}

	if len(p.Skills) > 0 {
		parts = append(parts, "Skills: "+strings.Join(p.Skills, ", "))
	}

	if p.ExperienceLevel != "" {
		parts = append(parts, "Experience Level: "+string(p.ExperienceLevel))
	}
	if p.YearsOfExperience > 0 {
		parts = append(parts, fmt.Sprintf("Years of Experience: %d", p.YearsOfExperience))
	}

	if text := renderEducation(p.Education); text != "" {
		parts = append(parts, "Education: "+text)
	}

	if text := renderWorkExperience(p.WorkExperience); text != "" {
		parts = append(parts, "Work Experience: "+text)
	}

	if p.CVText != "" {
		parts = append(parts, "CV Content: "+p.CVText)
	}

	if p.Location != "" {
		parts = append(parts, "Location: "+p.Location)
	}

	return strings.Join(parts, "\n\n")
}

// RenderJobText renders a job posting into the labeled-section text blob
// that gets embedded. Title, description, requirements, responsibilities,
// experience level, job type, and location are always present; skills and
// benefits only when non-empty.
func RenderJobText(j *db.Job) string {
	var parts []string

	parts = append(parts, "Job Title: "+j.Title)
	parts = append(parts, "Description: "+j.Description)
	parts = append(parts, "Requirements: "+j.Requirements)
	parts = append(parts, "Responsibilities: "+j.Responsibilities)

	if len(j.Skills) > 0 {
		parts = append(parts, "Required Skills: "+strings.Join(j.Skills, ", "))
	}

	parts = append(parts, "Experience Level: "+string(j.ExperienceLevel))
	parts = append(parts, "Job Type: "+j.JobType)
	parts = append(parts, "Location: "+j.Location)

	if len(j.Benefits) > 0 {
		parts = append(parts, "Benefits: "+strings.Join(j.Benefits, ", "))
	}

	return strings.Join(parts, "\n\n")
}

func renderEducation(entries []db.EducationEntry) string {
	var rendered []string
	for _, edu := range entries {
		rendered = append(rendered, fmt.Sprintf("%s in %s from %s", edu.Degree, edu.Field, edu.Institution))
	}
	return strings.Join(rendered, ". ")
}

func renderWorkExperience(entries []db.WorkExperienceEntry) string {
	var rendered []string
	for _, work := range entries {
		rendered = append(rendered, fmt.Sprintf("%s at %s. %s", work.Title, work.Company, work.Description))
	}
	return strings.Join(rendered, ". ")
}
