package matching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/talent-match/internal/db"
)

// Recommendation tuning. The 50-point floor keeps very low-confidence
// matches out of the recommendation rail entirely; the pool is capped to
// the 100 most recent ACTIVE postings so recommendations stay fresh.
const (
	recommendationFloor    = 50
	recommendationPageSize = 12
	recommendationPoolSize = 100
	historyDepth           = 5
)

// RecommendationStore extends VectorStore with the history and
// location-biased pool reads that personalized recommendations need.
type RecommendationStore interface {
	VectorStore
	ListActiveJobEmbeddingsIn(ctx context.Context, locations []string, limit int) ([]db.EntityEmbedding, error)
	ListSearchRecords(ctx context.Context, userID uuid.UUID, limit int) ([]db.SearchRecord, error)
}

// Recommender produces personalized job recommendations for a candidate,
// combining the profile embedding with preferences mined from recent
// search history.
type Recommender struct {
	store RecommendationStore
	dir   Directory
}

// NewRecommender creates a Recommender backed by the given store and directory.
func NewRecommender(store RecommendationStore, dir Directory) *Recommender {
	return &Recommender{store: store, dir: dir}
}

// preferences holds signals extracted from a user's recent searches.
type preferences struct {
	locations []string
}

// RecommendJobsForProfile returns up to 12 jobs scoring at least 50
// against the candidate's profile embedding, drawn from the 100 most
// recent ACTIVE postings with embeddings. When recent searches name
// locations, the pool is narrowed to them. A candidate without an
// embedding gets an empty list, not an error: the recommendation rail
// prompts generation instead of failing.
func (r *Recommender) RecommendJobsForProfile(ctx context.Context, userID uuid.UUID) ([]JobMatch, error) {
	anchor, err := r.store.GetProfileEmbedding(ctx, userID)
	if err != nil {
		var missing *db.EmbeddingMissingError
		if errors.As(err, &missing) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load profile embedding: %w", err)
	}

	prefs := r.loadPreferences(ctx, userID)

	pool, err := r.store.ListActiveJobEmbeddingsIn(ctx, prefs.locations, recommendationPoolSize)
	if err != nil {
		return nil, fmt.Errorf("failed to load recommendation pool: %w", err)
	}

	// A searched location with no ACTIVE embedded postings must not blank
	// the rail; fall back to the global pool.
	if len(pool) == 0 && len(prefs.locations) > 0 {
		pool, err = r.store.ListActiveJobEmbeddingsIn(ctx, nil, recommendationPoolSize)
		if err != nil {
			return nil, fmt.Errorf("failed to load recommendation pool: %w", err)
		}
	}

	ranked := rankPool(anchor, pool, Options{
		PageSize: recommendationPageSize,
		MinScore: recommendationFloor,
	})

	m := &Matcher{store: r.store, dir: r.dir}
	return m.hydrateJobs(ctx, ranked)
}

// loadPreferences mines location preferences from the user's recent
// searches. History is a best-effort signal: any failure just means no
// personalization for this request.
func (r *Recommender) loadPreferences(ctx context.Context, userID uuid.UUID) preferences {
	records, err := r.store.ListSearchRecords(ctx, userID, historyDepth)
	if err != nil {
		return preferences{}
	}

	seen := make(map[string]bool)
	var prefs preferences
	for _, record := range records {
		if len(record.Filters) == 0 {
			continue
		}
		var f struct {
			Location string `json:"location"`
		}
		if err := json.Unmarshal(record.Filters, &f); err != nil {
			continue
		}
		if f.Location != "" && !seen[f.Location] {
			seen[f.Location] = true
			prefs.locations = append(prefs.locations, f.Location)
		}
	}
	return prefs
}
