package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func TestBuildJobWhere_Default(t *testing.T) {
	where, args := buildJobWhere(JobQuery{})
	assert.Equal(t, "WHERE status = 'ACTIVE'", where)
	assert.Empty(t, args)
}

func TestBuildJobWhere_AllFilters(t *testing.T) {
	q := JobQuery{
		Location:         "Berlin",
		JobTypes:         []string{"FULL_TIME"},
		ExperienceLevels: []ExperienceLevel{ExperienceSenior},
		SalaryMin:        intPtr(60000),
		SalaryMax:        intPtr(90000),
		Skills:           []string{"Go", "PostgreSQL"},
		WithEmbedding:    true,
	}

	where, args := buildJobWhere(q)

	assert.Contains(t, where, "status = 'ACTIVE'")
	assert.Contains(t, where, "location ILIKE $1")
	assert.Contains(t, where, "job_type = ANY($2)")
	assert.Contains(t, where, "experience_level = ANY($3)")
	assert.Contains(t, where, "salary_max >= $4")
	assert.Contains(t, where, "salary_min <= $5")
	assert.Contains(t, where, "skills && $6")
	assert.Contains(t, where, "job_embedding IS NOT NULL")

	assert.Equal(t, []any{
		"%Berlin%",
		[]string{"FULL_TIME"},
		[]string{"SENIOR"},
		60000,
		90000,
		[]string{"Go", "PostgreSQL"},
	}, args)
}

func TestBuildJobWhere_LocationsOr(t *testing.T) {
	where, args := buildJobWhere(JobQuery{Locations: []string{"Berlin", "Munich"}})

	assert.Contains(t, where, "(location ILIKE $1 OR location ILIKE $2)")
	assert.Equal(t, []any{"%Berlin%", "%Munich%"}, args)
}

func TestBuildJobWhere_SalaryOverlapSemantics(t *testing.T) {
	// A requested minimum checks the job's salary_max, and vice versa:
	// a job matches when the ranges overlap at all.
	where, _ := buildJobWhere(JobQuery{SalaryMin: intPtr(50000)})
	assert.Contains(t, where, "salary_max >= $1")

	where, _ = buildJobWhere(JobQuery{SalaryMax: intPtr(80000)})
	assert.Contains(t, where, "salary_min <= $1")
}

func TestOrderClause(t *testing.T) {
	assert.Equal(t, "ORDER BY created_at DESC", orderClause(SortRecent))
	assert.Equal(t, "ORDER BY salary_max DESC NULLS LAST", orderClause(SortSalary))
	assert.Equal(t, "ORDER BY created_at DESC", orderClause(""))
}

func TestValidExperienceLevel(t *testing.T) {
	assert.True(t, ValidExperienceLevel("ENTRY"))
	assert.True(t, ValidExperienceLevel("EXECUTIVE"))
	assert.False(t, ValidExperienceLevel("entry"))
	assert.False(t, ValidExperienceLevel("WIZARD"))
	assert.False(t, ValidExperienceLevel(""))
}

func TestHasEmbedding(t *testing.T) {
	p := &Profile{}
	assert.False(t, p.HasEmbedding())

	j := &Job{}
	assert.False(t, j.HasEmbedding())

	now := j.CreatedAt
	p.EmbeddingUpdatedAt = &now
	j.EmbeddingUpdatedAt = &now
	assert.True(t, p.HasEmbedding())
	assert.True(t, j.HasEmbedding())
}
