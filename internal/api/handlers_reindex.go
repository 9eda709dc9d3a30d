package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dgallion1/docnav/internal/pipeline"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleReindex(w http.ResponseWriter, r *http.Request) {
	if s.reindexer == nil {
		jsonError(w, "reindexing unavailable", http.StatusServiceUnavailable)
		return
	}
	requestedBy := r.URL.Query().Get("requested_by")
	if requestedBy == "" {
		requestedBy = "api"
	}
	job := pipeline.NewJob(requestedBy)
	if err := s.reindexer.Submit(job); err != nil {
		if errors.Is(err, pipeline.ErrQueueFull) || errors.Is(err, pipeline.ErrStopped) {
			jsonError(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{
		"job_id":      job.ID,
		"status":      job.Snapshot().Status,
		"poll_url":    fmt.Sprintf("/api/reindex/%s/status", job.ID),
		"queue_depth": s.reindexer.QueueDepth(),
	})
}

func (s *Server) handleReindexStatus(w http.ResponseWriter, r *http.Request) {
	if s.reindexer == nil {
		jsonError(w, "reindexing unavailable", http.StatusServiceUnavailable)
		return
	}
	jobID := chi.URLParam(r, "jobID")
	job := s.reindexer.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, job.Snapshot())
}
