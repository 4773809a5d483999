package search

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/talent-match/internal/db"
	"github.com/jonathan/talent-match/internal/embedding"
	"github.com/jonathan/talent-match/internal/matching"
	"golang.org/x/sync/errgroup"
)

const (
	// relevanceFloor discards semantic results scoring below 30 entirely.
	// Fewer relevant results beat a long tail of low-confidence noise.
	relevanceFloor = 30

	pageSize = 50

	// historyTimeout bounds the fire-and-forget history write.
	historyTimeout = 5 * time.Second
)

// Store is the relational read layer plus the history log.
// *db.DB satisfies this; tests substitute fakes.
type Store interface {
	ListJobs(ctx context.Context, q db.JobQuery) ([]db.Job, error)
	CountJobs(ctx context.Context, q db.JobQuery) (int, error)
	ListJobEmbeddingsByIDs(ctx context.Context, ids []uuid.UUID) ([]db.EntityEmbedding, error)
	CreateSearchRecord(ctx context.Context, userID uuid.UUID, query string, filters any, resultCount int) error
}

// Service executes job searches. With a query it ranks semantically;
// without one it is a plain filtered listing.
type Service struct {
	store    Store
	embedder embedding.Embedder
}

// NewService creates a search Service backed by the given store and embedder.
func NewService(store Store, embedder embedding.Embedder) *Service {
	return &Service{store: store, embedder: embedder}
}

// JobResult is one search hit. MatchScore and Similarity are set only in
// semantic mode.
type JobResult struct {
	Job        db.Job   `json:"job"`
	MatchScore *int     `json:"match_score,omitempty"`
	Similarity *float64 `json:"similarity,omitempty"`
}

// Result is a page of search hits plus the total number of matches
// before pagination.
type Result struct {
	Jobs  []JobResult `json:"jobs"`
	Total int         `json:"total"`
}

// SearchJobs runs a job search. A non-empty query selects semantic mode:
// the query is embedded on demand and filtered jobs are ranked by match
// score with the relevance floor applied. Without a query, relational
// filters and the requested sort order apply. When a requesting user is
// known and a query string was supplied, the search lands in the user's
// history; history failures never fail the search.
func (s *Service) SearchJobs(ctx context.Context, filters JobFilters, userID *uuid.UUID) (*Result, error) {
	if err := filters.Validate(); err != nil {
		return nil, err
	}

	var result *Result
	var err error
	if strings.TrimSpace(filters.Query) != "" {
		result, err = s.semanticSearch(ctx, filters)
	} else {
		result, err = s.filteredSearch(ctx, filters)
	}
	if err != nil {
		return nil, err
	}

	if userID != nil && filters.Query != "" {
		s.recordSearch(*userID, filters, result.Total)
	}

	return result, nil
}

// semanticSearch narrows the job set relationally, embeds the query, and
// ranks the surviving jobs by similarity to it.
func (s *Service) semanticSearch(ctx context.Context, filters JobFilters) (*Result, error) {
	queryVector, err := s.embedder.Embed(ctx, filters.Query)
	if err != nil {
		return nil, &UnavailableError{Cause: err}
	}

	q := filters.toQuery()
	q.Limit = -1 // scoring needs the full filtered set
	jobs, err := s.store.ListJobs(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	if len(jobs) == 0 {
		return &Result{Jobs: []JobResult{}}, nil
	}

	ids := make([]uuid.UUID, len(jobs))
	for i, j := range jobs {
		ids[i] = j.ID
	}

	// Jobs without a stored embedding drop out of semantic mode.
	embeddings, err := s.store.ListJobEmbeddingsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load job embeddings: %w", err)
	}

	vectors := make(map[uuid.UUID][]float32, len(embeddings))
	for _, e := range embeddings {
		vectors[e.ID] = e.Vector
	}

	var scored []JobResult
	for _, job := range jobs {
		vector, ok := vectors[job.ID]
		if !ok {
			continue
		}
		similarity, err := matching.CosineSimilarity(queryVector, vector)
		if err != nil {
			log.Printf("[search] skipping job %s: %v", job.ID, err)
			continue
		}
		score := matching.MatchScore(similarity)
		if score < relevanceFloor {
			continue
		}
		scored = append(scored, JobResult{
			Job:        job,
			MatchScore: &score,
			Similarity: &similarity,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return *scored[i].MatchScore > *scored[j].MatchScore
	})

	total := len(scored)
	if len(scored) > pageSize {
		scored = scored[:pageSize]
	}
	if scored == nil {
		scored = []JobResult{}
	}

	return &Result{Jobs: scored, Total: total}, nil
}

// filteredSearch applies relational filters only, with the page query
// and the total count running concurrently.
func (s *Service) filteredSearch(ctx context.Context, filters JobFilters) (*Result, error) {
	q := filters.toQuery()
	q.Limit = pageSize

	var jobs []db.Job
	var total int

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		jobs, err = s.store.ListJobs(gctx, q)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.store.CountJobs(gctx, q)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to search jobs: %w", err)
	}

	results := make([]JobResult, len(jobs))
	for i, j := range jobs {
		results[i] = JobResult{Job: j}
	}

	return &Result{Jobs: results, Total: total}, nil
}

// recordSearch appends the search to the user's history, detached from
// the request: log and swallow on failure, never block or fail the
// search response.
func (s *Service) recordSearch(userID uuid.UUID, filters JobFilters, resultCount int) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), historyTimeout)
		defer cancel()

		if err := s.store.CreateSearchRecord(ctx, userID, filters.Query, filters, resultCount); err != nil {
			log.Printf("[search] failed to record search history: %v", err)
		}
	}()
}
