package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/jonathan/talent-match/internal/search"
)

// ProcessQueryRequest represents a natural-language query to interpret.
type ProcessQueryRequest struct {
	Query string `json:"query"`
}

// handleSearchJobs runs a job search for the caller. Searches with a
// query string land in the caller's search history.
func (s *Server) handleSearchJobs(w http.ResponseWriter, r *http.Request) {
	callerID, _, ok := s.identity(w, r)
	if !ok {
		return
	}

	var filters search.JobFilters
	if err := json.NewDecoder(r.Body).Decode(&filters); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.searcher.SearchJobs(r.Context(), filters, &callerID)
	if err != nil {
		s.serviceError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, result)
}

// handleProcessQuery interprets a natural-language query into structured
// filters and runs the search with them. The interpretation is returned
// alongside the results so clients can show what was understood.
func (s *Server) handleProcessQuery(w http.ResponseWriter, r *http.Request) {
	callerID, _, ok := s.identity(w, r)
	if !ok {
		return
	}

	var req ProcessQueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	enhanced, err := s.processor.Enhance(r.Context(), req.Query)
	if err != nil {
		s.serviceError(w, err)
		return
	}

	result, err := s.searcher.SearchJobs(r.Context(), enhanced.ToFilters(), &callerID)
	if err != nil {
		s.serviceError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"enhanced_query": enhanced,
		"results":        result,
	})
}

// handleListSearchHistory lists the caller's recent searches, newest first.
func (s *Server) handleListSearchHistory(w http.ResponseWriter, r *http.Request) {
	callerID, _, ok := s.identity(w, r)
	if !ok {
		return
	}

	limit := parseQueryInt(r, "limit", 10, 50)

	records, err := s.store.ListSearchRecords(r.Context(), callerID, limit)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"history": records,
		"count":   len(records),
	})
}

// handleDeleteSearchRecord deletes one search history entry. The record
// must belong to the caller; anything else reads as not found.
func (s *Server) handleDeleteSearchRecord(w http.ResponseWriter, r *http.Request) {
	callerID, _, ok := s.identity(w, r)
	if !ok {
		return
	}

	recordID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid record ID")
		return
	}

	if err := s.store.DeleteSearchRecord(r.Context(), callerID, recordID); err != nil {
		s.errorResponse(w, http.StatusNotFound, "Search record not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleClearSearchHistory deletes all of the caller's search history.
func (s *Server) handleClearSearchHistory(w http.ResponseWriter, r *http.Request) {
	callerID, _, ok := s.identity(w, r)
	if !ok {
		return
	}

	if err := s.store.DeleteAllSearchRecords(r.Context(), callerID); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "cleared"})
}
