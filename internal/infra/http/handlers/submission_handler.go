package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/ligue-leads/internal/entity"
	"github.com/xavierca1/ligue-leads/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-leads/internal/usecase"
)

// SubmissionHandler serves the public per-channel form endpoints.
type SubmissionHandler struct {
	CreateLeadUC *usecase.CreateLeadUseCase
	rateLimiter  *RateLimiter
}

func NewSubmissionHandler(uc *usecase.CreateLeadUseCase) *SubmissionHandler {
	return &SubmissionHandler{
		CreateLeadUC: uc,
		rateLimiter:  NewRateLimiter(10, time.Minute), // 10 req/min per IP
	}
}

type submissionResponse struct {
	Success bool                      `json:"success"`
	ID      string                    `json:"id,omitempty"`
	Message string                    `json:"message,omitempty"`
	Errors  []usecase.ValidationError `json:"errors,omitempty"`
}

func (h *SubmissionHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	channel, err := entity.ParseChannel(chi.URLParam(r, "channel"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, submissionResponse{Success: false, Message: "Unknown lead channel"})
		return
	}

	if !h.rateLimiter.Allow(getClientIP(r)) {
		writeJSON(w, http.StatusTooManyRequests, submissionResponse{Success: false, Message: "Too many requests. Please try again later."})
		return
	}

	var input usecase.CreateLeadInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, submissionResponse{Success: false, Message: "Invalid JSON"})
		return
	}

	output, err := h.CreateLeadUC.Execute(ctx, channel, input)
	if err != nil {
		var invalid *usecase.InvalidInputError
		var domain *usecase.DomainError
		switch {
		case errors.As(err, &invalid):
			writeJSON(w, http.StatusBadRequest, submissionResponse{Success: false, Message: "Validation failed", Errors: invalid.Errors})
		case errors.As(err, &domain):
			writeJSON(w, http.StatusUnprocessableEntity, submissionResponse{Success: false, Message: domain.Message})
		default:
			log.Printf("❌ Lead submission (%s) failed: %v", channel, err)
			writeJSON(w, http.StatusInternalServerError, submissionResponse{Success: false, Message: "Failed to capture lead"})
		}
		return
	}

	middleware.RecordLeadCaptured(string(channel))
	writeJSON(w, http.StatusCreated, submissionResponse{Success: true, ID: output.ID})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

// RateLimiter throttles submissions per client IP with a fixed window.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    int
	window   time.Duration
}

type visitor struct {
	count     int
	lastReset time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		window:   window,
	}

	go rl.cleanup()
	return rl
}

func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[ip]
	now := time.Now()

	if !exists {
		rl.visitors[ip] = &visitor{count: 1, lastReset: now}
		return true
	}

	if now.Sub(v.lastReset) > rl.window {
		v.count = 1
		v.lastReset = now
		return true
	}

	v.count++
	return v.count <= rl.limit
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for ip, v := range rl.visitors {
			if now.Sub(v.lastReset) > rl.window*2 {
				delete(rl.visitors, ip)
			}
		}
		rl.mu.Unlock()
	}
}
