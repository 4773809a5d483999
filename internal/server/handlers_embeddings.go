package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
)

// GenerateJobEmbeddingRequest identifies the job posting to embed.
type GenerateJobEmbeddingRequest struct {
	JobID uuid.UUID `json:"job_id"`
}

// handleGenerateProfileEmbedding regenerates the calling candidate's
// profile embedding from their current profile content.
func (s *Server) handleGenerateProfileEmbedding(w http.ResponseWriter, r *http.Request) {
	callerID, role, ok := s.identity(w, r)
	if !ok {
		return
	}
	if role != RoleCandidate {
		s.errorResponse(w, http.StatusForbidden, "Only candidates can generate profile embeddings")
		return
	}

	if err := s.generator.GenerateProfileEmbedding(r.Context(), callerID); err != nil {
		s.serviceError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "generated"})
}

// handleGenerateJobEmbedding regenerates a job posting's embedding from
// its current content. Only the company that owns the posting may do so.
func (s *Server) handleGenerateJobEmbedding(w http.ResponseWriter, r *http.Request) {
	callerID, role, ok := s.identity(w, r)
	if !ok {
		return
	}
	if role != RoleCompany {
		s.errorResponse(w, http.StatusForbidden, "Only companies can generate job embeddings")
		return
	}

	var req GenerateJobEmbeddingRequest
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

	if err := s.generator.GenerateJobEmbedding(r.Context(), req.JobID); err != nil {
		s.serviceError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "generated"})
}
