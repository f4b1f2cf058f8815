package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/AndrewMichael2020/literary-structure-generator/internal/db"
)

// CreateRunRequest is the payload for registering a new generation run.
type CreateRunRequest struct {
	StoryID     string `json:"story_id"`
	ExemplarURL string `json:"exemplar_url,omitempty"`
}

// handleCreateRun registers a new generation run record. The CLI performs the
// actual generation; the API tracks and serves its artifacts.
func (s *Server) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	var req CreateRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.StoryID == "" {
		s.errorResponse(w, http.StatusBadRequest, "story_id is required")
		return
	}

	runID, err := s.db.CreateRun(r.Context(), req.StoryID, req.ExemplarURL)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to create run")
		return
	}

	s.jsonResponse(w, http.StatusCreated, map[string]string{"run_id": runID.String()})
}

// handleListRuns returns recent runs, newest first.
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > 200 {
			s.errorResponse(w, http.StatusBadRequest, "limit must be between 1 and 200")
			return
		}
		limit = parsed
	}

	runs, err := s.db.ListRuns(r.Context(), limit)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to list runs")
		return
	}
	if runs == nil {
		runs = []db.Run{}
	}

	s.jsonResponse(w, http.StatusOK, runs)
}

// handleGetRun returns one run record.
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	runID, ok := s.runIDFromPath(w, r)
	if !ok {
		return
	}

	run, err := s.db.GetRun(r.Context(), runID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to get run")
		return
	}
	if run == nil {
		s.errorResponse(w, http.StatusNotFound, (&ErrRunNotFound{RunID: runID}).Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, run)
}

// handleGetDraft returns the final drafted story as plain text.
func (s *Server) handleGetDraft(w http.ResponseWriter, r *http.Request) {
	runID, ok := s.runIDFromPath(w, r)
	if !ok {
		return
	}

	text, err := s.db.GetTextArtifact(r.Context(), runID, db.StepFinalDraft)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to get draft")
		return
	}
	if text == "" {
		s.errorResponse(w, http.StatusNotFound, "draft not available")
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(text))
}

// handleGetReport returns the final evaluation report as JSON.
func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	runID, ok := s.runIDFromPath(w, r)
	if !ok {
		return
	}

	content, err := s.db.GetArtifact(r.Context(), runID, db.StepFinalReport)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to get report")
		return
	}
	if content == nil {
		s.errorResponse(w, http.StatusNotFound, "report not available")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(content)
}

// runIDFromPath parses the {id} path segment as a UUID, writing a 400 on
// failure.
func (s *Server) runIDFromPath(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	runID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid run id")
		return uuid.Nil, false
	}
	return runID, true
}
