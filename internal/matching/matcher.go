package matching

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"

	"github.com/google/uuid"
	"github.com/jonathan/talent-match/internal/db"
)

// defaultPageSize is the number of results a matching call returns when
// the caller does not specify one.
const defaultPageSize = 50

// VectorStore reads stored embeddings for anchors and candidate pools.
// *db.DB satisfies this; tests substitute fakes.
type VectorStore interface {
	GetProfileEmbedding(ctx context.Context, userID uuid.UUID) ([]float32, error)
	GetJobEmbedding(ctx context.Context, jobID uuid.UUID) ([]float32, error)
	ListProfileEmbeddings(ctx context.Context) ([]db.EntityEmbedding, error)
	ListActiveJobEmbeddings(ctx context.Context, limit int) ([]db.EntityEmbedding, error)
}

// Directory re-hydrates ranked entity IDs into full records for display.
type Directory interface {
	GetProfilesByUserIDs(ctx context.Context, userIDs []uuid.UUID) ([]db.Profile, error)
	GetJobsByIDs(ctx context.Context, ids []uuid.UUID) ([]db.Job, error)
}

// Matcher ranks a candidate pool against a single anchor embedding.
// Matching is a pure read: it never mutates stored data, and results are
// computed fresh on every call.
type Matcher struct {
	store VectorStore
	dir   Directory
}

// NewMatcher creates a Matcher backed by the given store and directory.
func NewMatcher(store VectorStore, dir Directory) *Matcher {
	return &Matcher{store: store, dir: dir}
}

// Options controls page size and the minimum score floor of a matching call.
type Options struct {
	PageSize int // default 50
	MinScore int // results below this score are dropped before truncation
}

func (o Options) pageSize() int {
	if o.PageSize <= 0 {
		return defaultPageSize
	}
	return o.PageSize
}

// CandidateMatch is one ranked candidate for a job.
type CandidateMatch struct {
	Profile    db.Profile `json:"profile"`
	MatchScore int        `json:"match_score"`
	Similarity float64    `json:"similarity"`
}

// JobMatch is one ranked job for a candidate profile.
type JobMatch struct {
	Job        db.Job  `json:"job"`
	MatchScore int     `json:"match_score"`
	Similarity float64 `json:"similarity"`
}

// scoredEntity is an intermediate ranking entry before re-hydration.
type scoredEntity struct {
	ID         uuid.UUID
	Similarity float64
	Score      int
}

// MatchCandidatesForJob ranks all candidate profiles that have an
// embedding against the job's embedding, best first. Fails with
// AnchorEmbeddingMissingError if the job has no embedding yet.
func (m *Matcher) MatchCandidatesForJob(ctx context.Context, jobID uuid.UUID, opts Options) ([]CandidateMatch, error) {
	anchor, err := m.store.GetJobEmbedding(ctx, jobID)
	if err != nil {
		return nil, anchorError(db.EntityJob, jobID, err)
	}

	pool, err := m.store.ListProfileEmbeddings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load candidate pool: %w", err)
	}

	ranked := rankPool(anchor, pool, opts)

	ids := make([]uuid.UUID, len(ranked))
	for i, r := range ranked {
		ids[i] = r.ID
	}

	profiles, err := m.dir.GetProfilesByUserIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to hydrate candidates: %w", err)
	}

	byID := make(map[uuid.UUID]db.Profile, len(profiles))
	for _, p := range profiles {
		byID[p.UserID] = p
	}

	matches := make([]CandidateMatch, 0, len(ranked))
	for _, r := range ranked {
		profile, ok := byID[r.ID]
		if !ok {
			continue // profile deleted between scoring and hydration
		}
		matches = append(matches, CandidateMatch{
			Profile:    profile,
			MatchScore: r.Score,
			Similarity: r.Similarity,
		})
	}
	return matches, nil
}

// MatchJobsForProfile ranks all ACTIVE jobs that have an embedding
// against the candidate's profile embedding, best first. Fails with
// AnchorEmbeddingMissingError if the profile has no embedding yet.
func (m *Matcher) MatchJobsForProfile(ctx context.Context, userID uuid.UUID, opts Options) ([]JobMatch, error) {
	anchor, err := m.store.GetProfileEmbedding(ctx, userID)
	if err != nil {
		return nil, anchorError(db.EntityProfile, userID, err)
	}

	pool, err := m.store.ListActiveJobEmbeddings(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load job pool: %w", err)
	}

	ranked := rankPool(anchor, pool, opts)
	return m.hydrateJobs(ctx, ranked)
}

func (m *Matcher) hydrateJobs(ctx context.Context, ranked []scoredEntity) ([]JobMatch, error) {
	ids := make([]uuid.UUID, len(ranked))
	for i, r := range ranked {
		ids[i] = r.ID
	}

	jobs, err := m.dir.GetJobsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to hydrate jobs: %w", err)
	}

	byID := make(map[uuid.UUID]db.Job, len(jobs))
	for _, j := range jobs {
		byID[j.ID] = j
	}

	matches := make([]JobMatch, 0, len(ranked))
	for _, r := range ranked {
		job, ok := byID[r.ID]
		if !ok {
			continue
		}
		matches = append(matches, JobMatch{
			Job:        job,
			MatchScore: r.Score,
			Similarity: r.Similarity,
		})
	}
	return matches, nil
}

// rankPool scores every pool member against the anchor, sorts descending
// by match score, applies the score floor, and truncates to the page
// size. A scoring failure for one member (e.g. a vector stored with the
// wrong dimensionality) skips that member and continues; one bad row must
// not abort the whole ranking. Ties keep pool iteration order; no
// explicit tie-break is defined.
func rankPool(anchor []float32, pool []db.EntityEmbedding, opts Options) []scoredEntity {
	scored := make([]scoredEntity, 0, len(pool))
	for _, member := range pool {
		similarity, err := CosineSimilarity(anchor, member.Vector)
		if err != nil {
			log.Printf("[matching] skipping %s: %v", member.ID, err)
			continue
		}
		scored = append(scored, scoredEntity{
			ID:         member.ID,
			Similarity: similarity,
			Score:      MatchScore(similarity),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if opts.MinScore > 0 {
		filtered := scored[:0]
		for _, s := range scored {
			if s.Score >= opts.MinScore {
				filtered = append(filtered, s)
			}
		}
		scored = filtered
	}

	if len(scored) > opts.pageSize() {
		scored = scored[:opts.pageSize()]
	}
	return scored
}

// anchorError converts a store EmbeddingMissingError into the
// caller-actionable AnchorEmbeddingMissingError, and wraps anything else.
func anchorError(entity string, id uuid.UUID, err error) error {
	var missing *db.EmbeddingMissingError
	if errors.As(err, &missing) {
		return &AnchorEmbeddingMissingError{Entity: entity, ID: id, Cause: err}
	}
	return fmt.Errorf("failed to load %s embedding: %w", entity, err)
}
