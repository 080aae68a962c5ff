package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"

	"github.com/xavierca1/ligue-leads/internal/entity"
	"github.com/xavierca1/ligue-leads/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-leads/internal/usecase"
)

// NurtureRunner lets tests stand in for the real use case.
type NurtureRunner interface {
	Execute(ctx context.Context, checkpoints []entity.Checkpoint) (usecase.NurtureSummary, error)
}

// NurtureHandler is the externally scheduled trigger for checkpoint emails.
// The shared secret is compared in constant time and checked before any
// lead processing starts.
type NurtureHandler struct {
	Runner NurtureRunner
	Secret string
}

func NewNurtureHandler(runner NurtureRunner, secret string) *NurtureHandler {
	return &NurtureHandler{Runner: runner, Secret: secret}
}

func (h *NurtureHandler) Handle(w http.ResponseWriter, r *http.Request) {
	provided := r.Header.Get("X-Cron-Secret")
	if provided == "" {
		provided = r.URL.Query().Get("secret")
	}
	if h.Secret == "" || !SecureCompare(provided, h.Secret) {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	// Optional checkpoint filter; default is one pass over all four.
	var checkpoints []entity.Checkpoint
	if raw := r.URL.Query().Get("checkpoint"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "checkpoint must be a number of days", http.StatusBadRequest)
			return
		}
		cp, err := entity.ParseCheckpoint(days)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		checkpoints = []entity.Checkpoint{cp}
	}

	summary, err := h.Runner.Execute(r.Context(), checkpoints)
	if err != nil {
		// Per-lead failures are inside the summary; an error here means
		// the run itself could not proceed.
		log.Printf("❌ [NURTURE] Run aborted: %v", err)
		http.Error(w, "nurture run failed", http.StatusInternalServerError)
		return
	}

	middleware.RecordNurtureRun(summary.Sent, summary.Failed)
	log.Printf("✅ [NURTURE] Run done: processed=%d sent=%d skipped=%d failed=%d",
		summary.Processed, summary.Sent, summary.Skipped, summary.Failed)

	writeJSON(w, http.StatusOK, summary)
}
