package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const jobColumns = `id, company_id, title, description, requirements, responsibilities,
	        skills, benefits, experience_level, job_type, location,
	        salary_min, salary_max, status, embedding_updated_at, created_at, updated_at`

// JobSort selects the ordering of filtered job listings.
type JobSort string

// Job sort constants
const (
	SortRecent JobSort = "recent"
	SortSalary JobSort = "salary"
)

// JobQuery holds relational filters for listing job postings. Only ACTIVE
// jobs are ever returned; all other predicates are optional.
type JobQuery struct {
	Location         string            // substring match, case-insensitive
	Locations        []string          // OR of substring matches (recommendation preferences)
	JobTypes         []string          // exact match against any
	ExperienceLevels []ExperienceLevel // exact match against any
	SalaryMin        *int              // job's salary_max must reach this
	SalaryMax        *int              // job's salary_min must not exceed this
	Skills           []string          // array overlap: job requires any of these
	WithEmbedding    bool              // only jobs that have an embedding
	Sort             JobSort           // ordering; default newest first
	Limit            int               // page size; 0 means default 50
}

// buildJobWhere renders the WHERE clause and arguments for a JobQuery.
// Split out from ListJobs so the predicate logic is testable without a
// database.
func buildJobWhere(q JobQuery) (string, []any) {
	conditions := []string{"status = 'ACTIVE'"}
	var args []any
	argNum := 1

	if q.Location != "" {
		conditions = append(conditions, fmt.Sprintf("location ILIKE $%d", argNum))
		args = append(args, "%"+q.Location+"%")
		argNum++
	}

	if len(q.Locations) > 0 {
		ors := make([]string, 0, len(q.Locations))
		for _, loc := range q.Locations {
			ors = append(ors, fmt.Sprintf("location ILIKE $%d", argNum))
			args = append(args, "%"+loc+"%")
			argNum++
		}
		conditions = append(conditions, "("+strings.Join(ors, " OR ")+")")
	}

	if len(q.JobTypes) > 0 {
		conditions = append(conditions, fmt.Sprintf("job_type = ANY($%d)", argNum))
		args = append(args, q.JobTypes)
		argNum++
	}

	if len(q.ExperienceLevels) > 0 {
		levels := make([]string, len(q.ExperienceLevels))
		for i, l := range q.ExperienceLevels {
			levels[i] = string(l)
		}
		conditions = append(conditions, fmt.Sprintf("experience_level = ANY($%d)", argNum))
		args = append(args, levels)
		argNum++
	}

	if q.SalaryMin != nil {
		conditions = append(conditions, fmt.Sprintf("salary_max >= $%d", argNum))
		args = append(args, *q.SalaryMin)
		argNum++
	}

	if q.SalaryMax != nil {
		conditions = append(conditions, fmt.Sprintf("salary_min <= $%d", argNum))
		args = append(args, *q.SalaryMax)
		argNum++
	}

	if len(q.Skills) > 0 {
		conditions = append(conditions, fmt.Sprintf("skills && $%d", argNum))
		args = append(args, q.Skills)
		argNum++
	}

	if q.WithEmbedding {
		conditions = append(conditions, "job_embedding IS NOT NULL")
	}

	return "WHERE " + strings.Join(conditions, " AND "), args
}

// orderClause maps a JobSort to SQL ordering. Without a query there is no
// relevance signal, so the default is newest first.
func orderClause(sort JobSort) string {
	switch sort {
	case SortSalary:
		return "ORDER BY salary_max DESC NULLS LAST"
	case SortRecent:
		return "ORDER BY created_at DESC"
	default:
		return "ORDER BY created_at DESC"
	}
}

// ListJobs retrieves ACTIVE job postings matching the query filters.
// A negative Limit disables pagination; semantic search needs the full
// filtered set because scoring happens after the relational narrowing.
func (db *DB) ListJobs(ctx context.Context, q JobQuery) ([]Job, error) {
	where, args := buildJobWhere(q)

	query := fmt.Sprintf("SELECT %s FROM jobs %s %s", jobColumns, where, orderClause(q.Sort))

	limit := q.Limit
	if limit == 0 {
		limit = 50
	}
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	return scanJobs(rows)
}

// CountJobs counts ACTIVE job postings matching the query filters,
// ignoring the limit.
func (db *DB) CountJobs(ctx context.Context, q JobQuery) (int, error) {
	where, args := buildJobWhere(q)

	var total int
	err := db.pool.QueryRow(ctx, "SELECT COUNT(*) FROM jobs "+where, args...).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to count jobs: %w", err)
	}
	return total, nil
}

// GetJobByID retrieves a job posting by its ID
func (db *DB) GetJobByID(ctx context.Context, id uuid.UUID) (*Job, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE id = $1`,
		id,
	)
	j, err := scanJob(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return j, nil
}

// GetJobsByIDs retrieves job postings for the given IDs, used to
// re-hydrate match and search results for display.
func (db *DB) GetJobsByIDs(ctx context.Context, ids []uuid.UUID) ([]Job, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := db.pool.Query(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE id = ANY($1)`,
		ids,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs by ids: %w", err)
	}
	defer rows.Close()

	return scanJobs(rows)
}

func scanJobs(rows pgx.Rows) ([]Job, error) {
	var jobs []Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, *j)
	}
	return jobs, rows.Err()
}

func scanJob(row pgx.Row) (*Job, error) {
	var j Job
	err := row.Scan(&j.ID, &j.CompanyID, &j.Title, &j.Description, &j.Requirements,
		&j.Responsibilities, &j.Skills, &j.Benefits, &j.ExperienceLevel, &j.JobType,
		&j.Location, &j.SalaryMin, &j.SalaryMax, &j.Status,
		&j.EmbeddingUpdatedAt, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &j, nil
}
