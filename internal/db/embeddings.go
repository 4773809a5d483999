package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"
)

// Entity kind labels used in EmbeddingMissingError.
const (
	EntityProfile = "profile"
	EntityJob     = "job"
)

// EmbeddingMissingError indicates that no embedding has been generated
// for an entity yet. Callers branch on this type to prompt regeneration
// instead of ranking against a phantom zero vector.
type EmbeddingMissingError struct {
	Entity string
	ID     uuid.UUID
}

func (e *EmbeddingMissingError) Error() string {
	return fmt.Sprintf("%s %s has no embedding", e.Entity, e.ID)
}

// EntityEmbedding pairs an entity ID with its stored vector.
type EntityEmbedding struct {
	ID     uuid.UUID
	Vector []float32
}

// GetProfileEmbedding retrieves the stored CV embedding for a candidate.
// Returns EmbeddingMissingError if the profile has no embedding or no row.
func (db *DB) GetProfileEmbedding(ctx context.Context, userID uuid.UUID) ([]float32, error) {
	var vec *pgvector.Vector
	err := db.pool.QueryRow(ctx,
		`SELECT cv_embedding FROM profiles WHERE user_id = $1`,
		userID,
	).Scan(&vec)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, &EmbeddingMissingError{Entity: EntityProfile, ID: userID}
		}
		return nil, fmt.Errorf("failed to get profile embedding: %w", err)
	}
	if vec == nil {
		return nil, &EmbeddingMissingError{Entity: EntityProfile, ID: userID}
	}
	return vec.Slice(), nil
}

// SetProfileEmbedding overwrites the CV embedding and its timestamp in a
// single statement. Concurrent writers race safely (last write wins).
func (db *DB) SetProfileEmbedding(ctx context.Context, userID uuid.UUID, embedding []float32, generatedAt time.Time) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE profiles
		 SET cv_embedding = $1, embedding_updated_at = $2, updated_at = NOW()
		 WHERE user_id = $3`,
		pgvector.NewVector(embedding), generatedAt, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to set profile embedding: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("profile not found: %s", userID)
	}
	return nil
}

// ListProfileEmbeddings returns all candidate profiles that have an
// embedding, as the pool for candidate matching.
func (db *DB) ListProfileEmbeddings(ctx context.Context) ([]EntityEmbedding, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT user_id, cv_embedding FROM profiles WHERE cv_embedding IS NOT NULL`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list profile embeddings: %w", err)
	}
	defer rows.Close()

	return scanEntityEmbeddings(rows)
}

// GetJobEmbedding retrieves the stored embedding for a job posting.
// Returns EmbeddingMissingError if the job has no embedding or no row.
func (db *DB) GetJobEmbedding(ctx context.Context, jobID uuid.UUID) ([]float32, error) {
	var vec *pgvector.Vector
	err := db.pool.QueryRow(ctx,
		`SELECT job_embedding FROM jobs WHERE id = $1`,
		jobID,
	).Scan(&vec)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, &EmbeddingMissingError{Entity: EntityJob, ID: jobID}
		}
		return nil, fmt.Errorf("failed to get job embedding: %w", err)
	}
	if vec == nil {
		return nil, &EmbeddingMissingError{Entity: EntityJob, ID: jobID}
	}
	return vec.Slice(), nil
}

// SetJobEmbedding overwrites the job embedding and its timestamp in a
// single statement.
func (db *DB) SetJobEmbedding(ctx context.Context, jobID uuid.UUID, embedding []float32, generatedAt time.Time) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE jobs
		 SET job_embedding = $1, embedding_updated_at = $2, updated_at = NOW()
		 WHERE id = $3`,
		pgvector.NewVector(embedding), generatedAt, jobID,
	)
	if err != nil {
		return fmt.Errorf("failed to set job embedding: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("job not found: %s", jobID)
	}
	return nil
}

// ListActiveJobEmbeddings returns ACTIVE jobs that have an embedding,
// most recent first. A limit of 0 means no limit. Status filtering
// happens in SQL so the pool never includes drafts or closed postings.
func (db *DB) ListActiveJobEmbeddings(ctx context.Context, limit int) ([]EntityEmbedding, error) {
	return db.ListActiveJobEmbeddingsIn(ctx, nil, limit)
}

// ListActiveJobEmbeddingsIn is ListActiveJobEmbeddings narrowed to jobs
// whose location matches any of the given substrings. Used to bias the
// recommendation pool toward locations a user has searched for.
func (db *DB) ListActiveJobEmbeddingsIn(ctx context.Context, locations []string, limit int) ([]EntityEmbedding, error) {
	where, args := buildJobWhere(JobQuery{Locations: locations, WithEmbedding: true})
	query := "SELECT id, job_embedding FROM jobs " + where + " ORDER BY created_at DESC"
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list job embeddings: %w", err)
	}
	defer rows.Close()

	return scanEntityEmbeddings(rows)
}

// ListJobEmbeddingsByIDs returns embeddings for the given jobs, skipping
// jobs that have none. Used by semantic search after relational filtering.
func (db *DB) ListJobEmbeddingsByIDs(ctx context.Context, ids []uuid.UUID) ([]EntityEmbedding, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := db.pool.Query(ctx,
		`SELECT id, job_embedding FROM jobs
		 WHERE id = ANY($1) AND job_embedding IS NOT NULL`,
		ids,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list job embeddings by ids: %w", err)
	}
	defer rows.Close()

	return scanEntityEmbeddings(rows)
}

func scanEntityEmbeddings(rows pgx.Rows) ([]EntityEmbedding, error) {
	var results []EntityEmbedding
	for rows.Next() {
		var e EntityEmbedding
		var vec pgvector.Vector
		if err := rows.Scan(&e.ID, &vec); err != nil {
			return nil, fmt.Errorf("failed to scan embedding row: %w", err)
		}
		e.Vector = vec.Slice()
		results = append(results, e)
	}
	return results, rows.Err()
}
