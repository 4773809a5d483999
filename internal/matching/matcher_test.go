package matching

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jonathan/talent-match/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore implements VectorStore and RecommendationStore in memory.
type fakeStore struct {
	profileVecs map[uuid.UUID][]float32
	jobVecs     map[uuid.UUID][]float32
	profilePool []db.EntityEmbedding
	jobPool     []db.EntityEmbedding
	records     []db.SearchRecord
	recordsErr  error

	// emptyWhenNarrowed makes location-narrowed pool reads come back
	// empty, simulating locations with no ACTIVE embedded postings.
	emptyWhenNarrowed bool

	// lastLocations captures the location narrowing of the most recent
	// pool read.
	lastLocations []string
}

func (f *fakeStore) GetProfileEmbedding(_ context.Context, userID uuid.UUID) ([]float32, error) {
	vec, ok := f.profileVecs[userID]
	if !ok {
		return nil, &db.EmbeddingMissingError{Entity: db.EntityProfile, ID: userID}
	}
	return vec, nil
}

func (f *fakeStore) GetJobEmbedding(_ context.Context, jobID uuid.UUID) ([]float32, error) {
	vec, ok := f.jobVecs[jobID]
	if !ok {
		return nil, &db.EmbeddingMissingError{Entity: db.EntityJob, ID: jobID}
	}
	return vec, nil
}

func (f *fakeStore) ListProfileEmbeddings(_ context.Context) ([]db.EntityEmbedding, error) {
	return f.profilePool, nil
}

func (f *fakeStore) ListActiveJobEmbeddings(_ context.Context, limit int) ([]db.EntityEmbedding, error) {
	return f.limited(f.jobPool, limit), nil
}

func (f *fakeStore) ListActiveJobEmbeddingsIn(_ context.Context, locations []string, limit int) ([]db.EntityEmbedding, error) {
	f.lastLocations = locations
	if len(locations) > 0 && f.emptyWhenNarrowed {
		return nil, nil
	}
	return f.limited(f.jobPool, limit), nil
}

func (f *fakeStore) ListSearchRecords(_ context.Context, _ uuid.UUID, _ int) ([]db.SearchRecord, error) {
	return f.records, f.recordsErr
}

func (f *fakeStore) limited(pool []db.EntityEmbedding, limit int) []db.EntityEmbedding {
	if limit > 0 && len(pool) > limit {
		return pool[:limit]
	}
	return pool
}

// fakeDirectory hydrates from in-memory maps.
type fakeDirectory struct {
	profiles map[uuid.UUID]db.Profile
	jobs     map[uuid.UUID]db.Job
}

func (f *fakeDirectory) GetProfilesByUserIDs(_ context.Context, userIDs []uuid.UUID) ([]db.Profile, error) {
	var out []db.Profile
	for _, id := range userIDs {
		if p, ok := f.profiles[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeDirectory) GetJobsByIDs(_ context.Context, ids []uuid.UUID) ([]db.Job, error) {
	var out []db.Job
	for _, id := range ids {
		if j, ok := f.jobs[id]; ok {
			out = append(out, j)
		}
	}
	return out, nil
}

func TestMatchCandidatesForJob_RanksDescending(t *testing.T) {
	jobID := uuid.New()
	low, mid, high := uuid.New(), uuid.New(), uuid.New()

	anchor, vLow := unitPair(0.1)
	_, vMid := unitPair(0.5)
	_, vHigh := unitPair(0.9)

	store := &fakeStore{
		jobVecs: map[uuid.UUID][]float32{jobID: anchor},
		profilePool: []db.EntityEmbedding{
			{ID: low, Vector: vLow},
			{ID: high, Vector: vHigh},
			{ID: mid, Vector: vMid},
		},
	}
	dir := &fakeDirectory{profiles: map[uuid.UUID]db.Profile{
		low:  {UserID: low},
		mid:  {UserID: mid},
		high: {UserID: high},
	}}

	matches, err := NewMatcher(store, dir).MatchCandidatesForJob(context.Background(), jobID, Options{})
	require.NoError(t, err)
	require.Len(t, matches, 3)

	assert.Equal(t, high, matches[0].Profile.UserID)
	assert.Equal(t, mid, matches[1].Profile.UserID)
	assert.Equal(t, low, matches[2].Profile.UserID)

	assert.Equal(t, 98, matches[0].MatchScore)
	assert.Equal(t, 50, matches[1].MatchScore)
	assert.Equal(t, 2, matches[2].MatchScore)
}

func TestMatchCandidatesForJob_AnchorEmbeddingMissing(t *testing.T) {
	store := &fakeStore{jobVecs: map[uuid.UUID][]float32{}}
	dir := &fakeDirectory{}

	_, err := NewMatcher(store, dir).MatchCandidatesForJob(context.Background(), uuid.New(), Options{})
	require.Error(t, err)

	var missing *AnchorEmbeddingMissingError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, db.EntityJob, missing.Entity)
}

func TestMatchCandidatesForJob_SkipsBadVectors(t *testing.T) {
	jobID := uuid.New()
	good, bad := uuid.New(), uuid.New()

	anchor, vGood := unitPair(0.65)

	store := &fakeStore{
		jobVecs: map[uuid.UUID][]float32{jobID: anchor},
		profilePool: []db.EntityEmbedding{
			{ID: bad, Vector: []float32{1, 2, 3}}, // wrong dimensionality
			{ID: good, Vector: vGood},
		},
	}
	dir := &fakeDirectory{profiles: map[uuid.UUID]db.Profile{
		good: {UserID: good},
		bad:  {UserID: bad},
	}}

	matches, err := NewMatcher(store, dir).MatchCandidatesForJob(context.Background(), jobID, Options{})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, good, matches[0].Profile.UserID)
	assert.Equal(t, 68, matches[0].MatchScore)
	assert.Equal(t, "Good", MatchLevel(matches[0].MatchScore).Level)
}

func TestMatchCandidatesForJob_MinScoreAndPageSize(t *testing.T) {
	jobID := uuid.New()
	anchor := []float32{1, 0}

	var pool []db.EntityEmbedding
	sims := []float64{0.9, 0.8, 0.7, 0.6, 0.2}
	ids := make([]uuid.UUID, len(sims))
	profiles := make(map[uuid.UUID]db.Profile)
	for i, s := range sims {
		_, v := unitPair(s)
		ids[i] = uuid.New()
		pool = append(pool, db.EntityEmbedding{ID: ids[i], Vector: v})
		profiles[ids[i]] = db.Profile{UserID: ids[i]}
	}

	store := &fakeStore{
		jobVecs:     map[uuid.UUID][]float32{jobID: anchor},
		profilePool: pool,
	}
	dir := &fakeDirectory{profiles: profiles}

	// MinScore 60 drops sims 0.2 (14) and 0.6 (62 stays). PageSize 2
	// truncates after filtering.
	matches, err := NewMatcher(store, dir).MatchCandidatesForJob(context.Background(), jobID,
		Options{MinScore: 60, PageSize: 2})
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, ids[0], matches[0].Profile.UserID)
	assert.Equal(t, ids[1], matches[1].Profile.UserID)
	for _, m := range matches {
		assert.GreaterOrEqual(t, m.MatchScore, 60)
	}
}

func TestMatchCandidatesForJob_SkipsDeletedProfiles(t *testing.T) {
	jobID := uuid.New()
	present, deleted := uuid.New(), uuid.New()

	anchor, v := unitPair(0.7)

	store := &fakeStore{
		jobVecs: map[uuid.UUID][]float32{jobID: anchor},
		profilePool: []db.EntityEmbedding{
			{ID: deleted, Vector: v},
			{ID: present, Vector: v},
		},
	}
	dir := &fakeDirectory{profiles: map[uuid.UUID]db.Profile{
		present: {UserID: present},
	}}

	matches, err := NewMatcher(store, dir).MatchCandidatesForJob(context.Background(), jobID, Options{})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, present, matches[0].Profile.UserID)
}

func TestMatchJobsForProfile_RanksDescending(t *testing.T) {
	userID := uuid.New()
	jobA, jobB := uuid.New(), uuid.New()

	anchor, vA := unitPair(0.4)
	_, vB := unitPair(0.85)

	store := &fakeStore{
		profileVecs: map[uuid.UUID][]float32{userID: anchor},
		jobPool: []db.EntityEmbedding{
			{ID: jobA, Vector: vA},
			{ID: jobB, Vector: vB},
		},
	}
	dir := &fakeDirectory{jobs: map[uuid.UUID]db.Job{
		jobA: {ID: jobA, Title: "A"},
		jobB: {ID: jobB, Title: "B"},
	}}

	matches, err := NewMatcher(store, dir).MatchJobsForProfile(context.Background(), userID, Options{})
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "B", matches[0].Job.Title)
	assert.Equal(t, "A", matches[1].Job.Title)
}

func TestMatchJobsForProfile_AnchorEmbeddingMissing(t *testing.T) {
	store := &fakeStore{profileVecs: map[uuid.UUID][]float32{}}
	dir := &fakeDirectory{}

	_, err := NewMatcher(store, dir).MatchJobsForProfile(context.Background(), uuid.New(), Options{})
	require.Error(t, err)

	var missing *AnchorEmbeddingMissingError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, db.EntityProfile, missing.Entity)
}
