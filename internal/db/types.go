package db

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ExperienceLevel is the seniority band of a candidate or job posting.
type ExperienceLevel string

// Experience level constants
const (
	ExperienceEntry        ExperienceLevel = "ENTRY"
	ExperienceIntermediate ExperienceLevel = "INTERMEDIATE"
	ExperienceSenior       ExperienceLevel = "SENIOR"
	ExperienceExecutive    ExperienceLevel = "EXECUTIVE"
)

// JobStatus is the lifecycle state of a job posting.
type JobStatus string

// Job status constants
const (
	JobStatusDraft  JobStatus = "DRAFT"
	JobStatusActive JobStatus = "ACTIVE"
	JobStatusClosed JobStatus = "CLOSED"
)

// Profile represents a candidate profile. Education and work experience
// are stored as JSONB arrays of tagged entries.
type Profile struct {
	UserID             uuid.UUID             `json:"user_id"`
	Bio                string                `json:"bio,omitempty"`
	Skills             []string              `json:"skills"`
	YearsOfExperience  int                   `json:"years_of_experience,omitempty"`
	ExperienceLevel    ExperienceLevel       `json:"experience_level,omitempty"`
	Education          []EducationEntry      `json:"education,omitempty"`
	WorkExperience     []WorkExperienceEntry `json:"work_experience,omitempty"`
	CVText             string                `json:"-"` // Raw CV text is never serialized in API responses
	CVURL              string                `json:"cv_url,omitempty"`
	Location           string                `json:"location,omitempty"`
	EmbeddingUpdatedAt *time.Time            `json:"embedding_updated_at,omitempty"`
	CreatedAt          time.Time             `json:"created_at"`
	UpdatedAt          time.Time             `json:"updated_at"`
}

// HasEmbedding reports whether an embedding has ever been generated
// for this profile.
func (p *Profile) HasEmbedding() bool {
	return p.EmbeddingUpdatedAt != nil
}

// EducationEntry is a single education record within a profile.
type EducationEntry struct {
	Degree      string `json:"degree"`
	Field       string `json:"field"`
	Institution string `json:"institution"`
	Year        int    `json:"year,omitempty"`
}

// WorkExperienceEntry is a single employment record within a profile.
type WorkExperienceEntry struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Description string `json:"description,omitempty"`
	StartDate   string `json:"start_date,omitempty"` // YYYY-MM
	EndDate     string `json:"end_date,omitempty"`   // YYYY-MM, empty means current
}

// Job represents a job posting owned by a company.
type Job struct {
	ID                 uuid.UUID       `json:"id"`
	CompanyID          uuid.UUID       `json:"company_id"`
	Title              string          `json:"title"`
	Description        string          `json:"description"`
	Requirements       string          `json:"requirements"`
	Responsibilities   string          `json:"responsibilities"`
	Skills             []string        `json:"skills"`
	Benefits           []string        `json:"benefits,omitempty"`
	ExperienceLevel    ExperienceLevel `json:"experience_level"`
	JobType            string          `json:"job_type"` // FULL_TIME, PART_TIME, CONTRACT, INTERNSHIP
	Location           string          `json:"location"`
	SalaryMin          *int            `json:"salary_min,omitempty"`
	SalaryMax          *int            `json:"salary_max,omitempty"`
	Status             JobStatus       `json:"status"`
	EmbeddingUpdatedAt *time.Time      `json:"embedding_updated_at,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// HasEmbedding reports whether an embedding has ever been generated
// for this job.
func (j *Job) HasEmbedding() bool {
	return j.EmbeddingUpdatedAt != nil
}

// SearchRecord is one append-only row of a user's search history.
type SearchRecord struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"user_id"`
	Query       string          `json:"query"`
	Filters     json.RawMessage `json:"filters,omitempty"`
	ResultCount int             `json:"result_count"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ValidExperienceLevel reports whether s is one of the known experience levels.
func ValidExperienceLevel(s string) bool {
	switch ExperienceLevel(s) {
	case ExperienceEntry, ExperienceIntermediate, ExperienceSenior, ExperienceExecutive:
		return true
	}
	return false
}
