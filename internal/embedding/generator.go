package embedding

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/talent-match/internal/db"
	"github.com/jonathan/talent-match/internal/matching"
)

// minProfileTextLength rejects near-empty profiles: embedding a handful
// of characters produces a vector that matches everything and nothing.
const minProfileTextLength = 50

// Store loads entities and persists their embeddings.
// *db.DB satisfies this; tests substitute fakes.
type Store interface {
	GetProfileByUserID(ctx context.Context, userID uuid.UUID) (*db.Profile, error)
	GetJobByID(ctx context.Context, id uuid.UUID) (*db.Job, error)
	SetProfileEmbedding(ctx context.Context, userID uuid.UUID, embedding []float32, generatedAt time.Time) error
	SetJobEmbedding(ctx context.Context, jobID uuid.UUID, embedding []float32, generatedAt time.Time) error
}

// NotFoundError indicates the entity to embed does not exist.
type NotFoundError struct {
	Entity string
	ID     uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
}

// ProfileIncompleteError indicates the profile has too little content to
// produce a meaningful embedding.
type ProfileIncompleteError struct {
	TextLength int
}

func (e *ProfileIncompleteError) Error() string {
	return fmt.Sprintf("profile is too incomplete to generate embedding (%d characters)", e.TextLength)
}

// Generator renders entities to text, embeds the text, and persists the
// vector with its generation timestamp. Generation is idempotent: the
// same current text always produces an equivalent embedding, so
// concurrent regenerations of one entity may race freely.
type Generator struct {
	store    Store
	embedder Embedder
}

// NewGenerator creates a Generator backed by the given store and embedder.
func NewGenerator(store Store, embedder Embedder) *Generator {
	return &Generator{store: store, embedder: embedder}
}

// GenerateProfileEmbedding re-renders the candidate's profile text,
// embeds it, and overwrites the stored vector and timestamp.
func (g *Generator) GenerateProfileEmbedding(ctx context.Context, userID uuid.UUID) error {
	profile, err := g.store.GetProfileByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}
	if profile == nil {
		return &NotFoundError{Entity: db.EntityProfile, ID: userID}
	}

	text := matching.RenderProfileText(profile)
	if len(text) < minProfileTextLength {
		return &ProfileIncompleteError{TextLength: len(text)}
	}

	vector, err := g.embedder.Embed(ctx, text)
	if err != nil {
		return fmt.Errorf("failed to embed profile text: %w", err)
	}

	if err := g.store.SetProfileEmbedding(ctx, userID, vector, time.Now()); err != nil {
		return fmt.Errorf("failed to store profile embedding: %w", err)
	}
	return nil
}

// GenerateJobEmbedding re-renders the job posting text, embeds it, and
// overwrites the stored vector and timestamp.
func (g *Generator) GenerateJobEmbedding(ctx context.Context, jobID uuid.UUID) error {
	job, err := g.store.GetJobByID(ctx, jobID)
	if err != nil {
		return fmt.Errorf("failed to load job: %w", err)
	}
	if job == nil {
		return &NotFoundError{Entity: db.EntityJob, ID: jobID}
	}

	text := matching.RenderJobText(job)

	vector, err := g.embedder.Embed(ctx, text)
	if err != nil {
		return fmt.Errorf("failed to embed job text: %w", err)
	}

	if err := g.store.SetJobEmbedding(ctx, jobID, vector, time.Now()); err != nil {
		return fmt.Errorf("failed to store job embedding: %w", err)
	}
	return nil
}
