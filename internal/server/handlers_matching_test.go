package server

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/jonathan/talent-match/internal/db"
	"github.com/jonathan/talent-match/internal/matching"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleMatchCandidates_OK(t *testing.T) {
	ts := newTestServer()
	companyID := uuid.New()
	jobID := uuid.New()
	ts.store.jobs[jobID] = &db.Job{ID: jobID, CompanyID: companyID}
	ts.matcher.candidates = []matching.CandidateMatch{
		{Profile: db.Profile{UserID: uuid.New()}, MatchScore: 85, Similarity: 0.79},
		{Profile: db.Profile{UserID: uuid.New()}, MatchScore: 52, Similarity: 0.52},
	}

	body := fmt.Sprintf(`{"job_id": %q, "min_score": 50}`, jobID)
	req := authedRequest(http.MethodPost, "/matching/candidates", body, companyID, RoleCompany)
	rec := httptest.NewRecorder()
	ts.server.handleMatchCandidates(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp MatchCandidatesResponse
	decodeBody(t, rec, &resp)
	require.Equal(t, 2, resp.Count)
	assert.Equal(t, 85, resp.Matches[0].MatchScore)
	assert.Equal(t, "Excellent", resp.Matches[0].MatchLevel.Level)
	assert.Equal(t, "Fair", resp.Matches[1].MatchLevel.Level)
	assert.Equal(t, 50, ts.matcher.lastOpts.MinScore)
}

func TestHandleMatchCandidates_CandidateForbidden(t *testing.T) {
	ts := newTestServer()

	body := fmt.Sprintf(`{"job_id": %q}`, uuid.New())
	req := authedRequest(http.MethodPost, "/matching/candidates", body, uuid.New(), RoleCandidate)
	rec := httptest.NewRecorder()
	ts.server.handleMatchCandidates(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestHandleMatchCandidates_JobNotOwned(t *testing.T) {
	ts := newTestServer()
	jobID := uuid.New()
	ts.store.jobs[jobID] = &db.Job{ID: jobID, CompanyID: uuid.New()}

	body := fmt.Sprintf(`{"job_id": %q}`, jobID)
	req := authedRequest(http.MethodPost, "/matching/candidates", body, uuid.New(), RoleCompany)
	rec := httptest.NewRecorder()
	ts.server.handleMatchCandidates(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestHandleMatchCandidates_JobNotFound(t *testing.T) {
	ts := newTestServer()

	body := fmt.Sprintf(`{"job_id": %q}`, uuid.New())
	req := authedRequest(http.MethodPost, "/matching/candidates", body, uuid.New(), RoleCompany)
	rec := httptest.NewRecorder()
	ts.server.handleMatchCandidates(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleMatchCandidates_AnchorEmbeddingMissing(t *testing.T) {
	ts := newTestServer()
	companyID := uuid.New()
	jobID := uuid.New()
	ts.store.jobs[jobID] = &db.Job{ID: jobID, CompanyID: companyID}
	ts.matcher.err = &matching.AnchorEmbeddingMissingError{Entity: db.EntityJob, ID: jobID}

	body := fmt.Sprintf(`{"job_id": %q}`, jobID)
	req := authedRequest(http.MethodPost, "/matching/candidates", body, companyID, RoleCompany)
	rec := httptest.NewRecorder()
	ts.server.handleMatchCandidates(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "embedding not generated yet")
}

func TestHandleMatchJobs_OK(t *testing.T) {
	ts := newTestServer()
	ts.matcher.jobs = []matching.JobMatch{
		{Job: db.Job{ID: uuid.New(), Title: "Backend"}, MatchScore: 68, Similarity: 0.65},
	}

	req := authedRequest(http.MethodGet, "/matching/jobs?min_score=30&page_size=10", "", uuid.New(), RoleCandidate)
	rec := httptest.NewRecorder()
	ts.server.handleMatchJobs(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 30, ts.matcher.lastOpts.MinScore)
	assert.Equal(t, 10, ts.matcher.lastOpts.PageSize)

	var resp struct {
		Matches []JobMatchView `json:"matches"`
		Count   int            `json:"count"`
	}
	decodeBody(t, rec, &resp)
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "Good", resp.Matches[0].MatchLevel.Level)
}

func TestHandleMatchJobs_CompanyForbidden(t *testing.T) {
	ts := newTestServer()

	req := authedRequest(http.MethodGet, "/matching/jobs", "", uuid.New(), RoleCompany)
	rec := httptest.NewRecorder()
	ts.server.handleMatchJobs(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestHandleRecommendations_OK(t *testing.T) {
	ts := newTestServer()
	ts.recommender.matches = []matching.JobMatch{
		{Job: db.Job{ID: uuid.New()}, MatchScore: 91, Similarity: 0.84},
	}

	req := authedRequest(http.MethodGet, "/recommendations", "", uuid.New(), RoleCandidate)
	rec := httptest.NewRecorder()
	ts.server.handleRecommendations(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Recommendations []JobMatchView `json:"recommendations"`
		Count           int            `json:"count"`
	}
	decodeBody(t, rec, &resp)
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, "Excellent", resp.Recommendations[0].MatchLevel.Level)
}

func TestHandleRecommendations_EmptyWithoutEmbedding(t *testing.T) {
	ts := newTestServer()
	ts.recommender.matches = nil

	req := authedRequest(http.MethodGet, "/recommendations", "", uuid.New(), RoleCandidate)
	rec := httptest.NewRecorder()
	ts.server.handleRecommendations(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Count int `json:"count"`
	}
	decodeBody(t, rec, &resp)
	assert.Equal(t, 0, resp.Count)
}
