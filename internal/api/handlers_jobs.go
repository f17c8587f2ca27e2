package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dgallion1/mdcount/internal/pipeline"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleSubmitJob(w http.ResponseWriter, r *http.Request) {
	opts, err := s.requestOptions(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	uploads, ok := s.readUploads(w, r)
	if !ok {
		return
	}
	docs := make([]pipeline.Document, 0, len(uploads))
	for _, u := range uploads {
		if u.err != "" {
			jsonError(w, fmt.Sprintf("%s: %s", u.doc.Name, u.err), http.StatusBadRequest)
			return
		}
		docs = append(docs, u.doc)
	}

	job := pipeline.NewJob(docs, opts)
	if err := s.orchestrator.Submit(job); err != nil {
		if !errors.Is(err, pipeline.ErrQueueFull) {
			s.log.Error("submit job", "job_id", job.ID, "error", err)
		}
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   job.ID,
		"status":   pipeline.StatusQueued,
		"files":    len(docs),
		"poll_url": fmt.Sprintf("/api/jobs/%s", job.ID),
	})
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job.Snapshot())
}
