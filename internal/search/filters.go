// Package search implements semantic and filtered job search with
// search-history recording.
package search

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/talent-match/internal/db"
)

// JobFilters is the caller-supplied filter set for a job search. JSON
// field names match what clients send and what gets persisted in
// search-history rows.
type JobFilters struct {
	Query           string   `json:"query,omitempty"`
	Location        string   `json:"location,omitempty"`
	JobType         []string `json:"jobType,omitempty" validate:"omitempty,dive,oneof=FULL_TIME PART_TIME CONTRACT INTERNSHIP"`
	ExperienceLevel []string `json:"experienceLevel,omitempty" validate:"omitempty,dive,oneof=ENTRY INTERMEDIATE SENIOR EXECUTIVE"`
	SalaryMin       *int     `json:"salaryMin,omitempty" validate:"omitempty,gte=0"`
	SalaryMax       *int     `json:"salaryMax,omitempty" validate:"omitempty,gte=0"`
	Skills          []string `json:"skills,omitempty"`
	SortBy          string   `json:"sortBy,omitempty" validate:"omitempty,oneof=relevance recent salary"`
}

var validate = validator.New()

// Validate checks the filter set and returns InvalidFilterError for any
// caller input problem.
func (f *JobFilters) Validate() error {
	if err := validate.Struct(f); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			return &InvalidFilterError{
				Field:   errs[0].Field(),
				Message: fmt.Sprintf("invalid value for %s", errs[0].Field()),
			}
		}
		return &InvalidFilterError{Message: err.Error()}
	}

	if f.SalaryMin != nil && f.SalaryMax != nil && *f.SalaryMin > *f.SalaryMax {
		return &InvalidFilterError{
			Field:   "salaryMin",
			Message: "salaryMin must not exceed salaryMax",
		}
	}

	return nil
}

// toQuery translates caller filters into the relational query used to
// narrow the candidate set before any scoring.
func (f *JobFilters) toQuery() db.JobQuery {
	q := db.JobQuery{
		Location:  f.Location,
		JobTypes:  f.JobType,
		SalaryMin: f.SalaryMin,
		SalaryMax: f.SalaryMax,
		Skills:    f.Skills,
	}
	for _, level := range f.ExperienceLevel {
		q.ExperienceLevels = append(q.ExperienceLevels, db.ExperienceLevel(level))
	}
	switch f.SortBy {
	case "salary":
		q.Sort = db.SortSalary
	default:
		q.Sort = db.SortRecent
	}
	return q
}
