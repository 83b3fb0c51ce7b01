package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"vibetube/internal/models"
	"vibetube/shared/storage"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleNewsletters(w http.ResponseWriter, r *http.Request) {
	refresh := r.URL.Query().Get("refresh") == "true"
	start := time.Now()

	// The run persists its results even if the client goes away
	// mid-ingestion; the next reader gets the data either way.
	ctx := context.WithoutCancel(r.Context())

	resp, err := s.pipeline.Run(ctx, refresh)
	if err != nil {
		log.Printf("Ingestion run failed: %v", err)
		s.monitor.RecordCriticalFailure(err, time.Since(start))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to fetch data"})
		return
	}

	summary := fmt.Sprintf("processed %d emails, %d videos total",
		resp.Metadata.EmailsProcessed, resp.Metadata.UniqueVideos)
	s.monitor.RecordSuccess(summary, time.Since(start))

	writeJSON(w, http.StatusOK, resp)
}

type vibeUpdate struct {
	Vibe   string `json:"vibe"`
	Reason string `json:"reason"`
}

func (s *Server) handleUpdateVibe(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var update vibeUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	if !models.IsValidVibe(update.Vibe) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("Invalid vibe %q", update.Vibe)})
		return
	}

	if update.Reason == "" {
		update.Reason = "Manually recategorized"
	}

	if err := s.store.UpdateVibe(r.Context(), id, update.Vibe, update.Reason); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Video not found"})
			return
		}
		log.Printf("Failed to update vibe for %s: %v", id, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to update video"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteVideo(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.store.Delete(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Video not found"})
			return
		}
		log.Printf("Failed to delete video %s: %v", id, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to delete video"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}
