package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/jonathan/talent-match/internal/matching"
)

// ExplainMatchRequest represents a request for a match explanation
// between a candidate and a job posting.
type ExplainMatchRequest struct {
	JobID uuid.UUID `json:"job_id"`
	// UserID identifies the candidate; required for company callers,
	// ignored for candidates who always explain their own match.
	UserID uuid.UUID `json:"user_id,omitempty"`
}

// ExplainMatchResponse carries the computed score alongside the
// generated explanation.
type ExplainMatchResponse struct {
	MatchScore  int            `json:"match_score"`
	MatchLevel  matching.Level `json:"match_level"`
	Explanation string         `json:"explanation"`
}

// handleExplainMatch computes the match score for a candidate-job pair
// and generates a natural-language explanation for it. Explanation
// generation degrades to a fallback message; only the score computation
// itself can fail the request.
func (s *Server) handleExplainMatch(w http.ResponseWriter, r *http.Request) {
	callerID, role, ok := s.identity(w, r)
	if !ok {
		return
	}

	var req ExplainMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.JobID == uuid.Nil {
		s.errorResponse(w, http.StatusBadRequest, "job_id is required")
		return
	}

	candidateID := callerID
	if role == RoleCompany {
		if req.UserID == uuid.Nil {
			s.errorResponse(w, http.StatusBadRequest, "user_id is required")
			return
		}
		candidateID = req.UserID
	}

	ctx := r.Context()

	job, err := s.store.GetJobByID(ctx, req.JobID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if job == nil {
		s.errorResponse(w, http.StatusNotFound, "Job not found")
		return
	}
	if role == RoleCompany && job.CompanyID != callerID {
		s.errorResponse(w, http.StatusForbidden, "Job belongs to another company")
		return
	}

	profile, err := s.store.GetProfileByUserID(ctx, candidateID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if profile == nil {
		s.errorResponse(w, http.StatusNotFound, "Profile not found")
		return
	}

	profileVec, err := s.store.GetProfileEmbedding(ctx, candidateID)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	jobVec, err := s.store.GetJobEmbedding(ctx, req.JobID)
	if err != nil {
		s.serviceError(w, err)
		return
	}

	similarity, err := matching.CosineSimilarity(profileVec, jobVec)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	score := matching.MatchScore(similarity)

	explanation := s.explainer.ExplainMatch(ctx,
		matching.RenderProfileText(profile),
		matching.RenderJobText(job),
		score,
	)

	s.jsonResponse(w, http.StatusOK, ExplainMatchResponse{
		MatchScore:  score,
		MatchLevel:  matching.MatchLevel(score),
		Explanation: explanation,
	})
}
