package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/jonathan/talent-match/internal/matching"
	"github.com/jonathan/talent-match/internal/server/middleware"
)

// MatchCandidatesRequest represents the request for ranking candidates
// against a job posting.
type MatchCandidatesRequest struct {
	JobID    uuid.UUID `json:"job_id"`
	MinScore int       `json:"min_score,omitempty"`
	PageSize int       `json:"page_size,omitempty"`
}

// MatchCandidatesResponse represents the ranked candidate list for a job.
type MatchCandidatesResponse struct {
	Matches []CandidateMatchView `json:"matches"`
	Count   int                  `json:"count"`
}

// CandidateMatchView is one ranked candidate with its score and level.
type CandidateMatchView struct {
	matching.CandidateMatch
	MatchLevel matching.Level `json:"match_level"`
}

// JobMatchView is one ranked job with its score and level.
type JobMatchView struct {
	matching.JobMatch
	MatchLevel matching.Level `json:"match_level"`
}

// handleMatchCandidates ranks candidate profiles against one of the
// company's job postings. Only the company that owns the job may see its
// candidate ranking.
func (s *Server) handleMatchCandidates(w http.ResponseWriter, r *http.Request) {
	callerID, role, ok := s.identity(w, r)
	if !ok {
		return
	}
	if role != RoleCompany {
		s.errorResponse(w, http.StatusForbidden, "Only companies can rank candidates")
		return
	}

	var req MatchCandidatesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.JobID == uuid.Nil {
		s.errorResponse(w, http.StatusBadRequest, "job_id is required")
		return
	}

	job, err := s.store.GetJobByID(r.Context(), req.JobID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if job == nil {
		s.errorResponse(w, http.StatusNotFound, "Job not found")
		return
	}
	if job.CompanyID != callerID {
		s.errorResponse(w, http.StatusForbidden, "Job belongs to another company")
		return
	}

	matches, err := s.matcher.MatchCandidatesForJob(r.Context(), req.JobID, matching.Options{
		MinScore: req.MinScore,
		PageSize: req.PageSize,
	})
	if err != nil {
		s.serviceError(w, err)
		return
	}

	views := make([]CandidateMatchView, len(matches))
	for i, m := range matches {
		views[i] = CandidateMatchView{
			CandidateMatch: m,
			MatchLevel:     matching.MatchLevel(m.MatchScore),
		}
	}

	s.jsonResponse(w, http.StatusOK, MatchCandidatesResponse{
		Matches: views,
		Count:   len(views),
	})
}

// handleMatchJobs ranks ACTIVE job postings against the calling
// candidate's profile.
func (s *Server) handleMatchJobs(w http.ResponseWriter, r *http.Request) {
	callerID, role, ok := s.identity(w, r)
	if !ok {
		return
	}
	if role != RoleCandidate {
		s.errorResponse(w, http.StatusForbidden, "Only candidates can list job matches")
		return
	}

	opts := matching.Options{
		MinScore: parseQueryInt(r, "min_score", 0, 100),
		PageSize: parseQueryInt(r, "page_size", 0, 100),
	}

	matches, err := s.matcher.MatchJobsForProfile(r.Context(), callerID, opts)
	if err != nil {
		s.serviceError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"matches": jobMatchViews(matches),
		"count":   len(matches),
	})
}

// handleRecommendations returns personalized job recommendations for the
// calling candidate. A candidate without an embedding gets an empty list.
func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	callerID, role, ok := s.identity(w, r)
	if !ok {
		return
	}
	if role != RoleCandidate {
		s.errorResponse(w, http.StatusForbidden, "Only candidates can get recommendations")
		return
	}

	matches, err := s.recommender.RecommendJobsForProfile(r.Context(), callerID)
	if err != nil {
		s.serviceError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"recommendations": jobMatchViews(matches),
		"count":           len(matches),
	})
}

func jobMatchViews(matches []matching.JobMatch) []JobMatchView {
	views := make([]JobMatchView, len(matches))
	for i, m := range matches {
		views[i] = JobMatchView{
			JobMatch:   m,
			MatchLevel: matching.MatchLevel(m.MatchScore),
		}
	}
	return views
}

// identity extracts the caller's user ID and role, writing a 401 if the
// middleware did not populate them.
func (s *Server) identity(w http.ResponseWriter, r *http.Request) (uuid.UUID, string, bool) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return uuid.Nil, "", false
	}
	role, err := middleware.GetRole(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return uuid.Nil, "", false
	}
	return userID, role, true
}

// parseQueryInt parses an integer query parameter with a default and an
// optional maximum (0 means no maximum).
func parseQueryInt(r *http.Request, name string, def, max int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return def
	}
	if max > 0 && v > max {
		return max
	}
	return v
}
