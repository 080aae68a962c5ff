package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

// AdminHandler exposes the unified lead view and lead status management to
// the admin portal. Routes are mounted behind RequireSecret.
type AdminHandler struct {
	Leads        entity.LeadRepositoryInterface
	Suppressions entity.SuppressionRepositoryInterface
}

func NewAdminHandler(leads entity.LeadRepositoryInterface, suppressions entity.SuppressionRepositoryInterface) *AdminHandler {
	return &AdminHandler{Leads: leads, Suppressions: suppressions}
}

// HandleList serves GET /admin/leads with channel/min_score/search filters.
func (h *AdminHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := entity.UnifiedFilter{Search: q.Get("q")}
	if raw := q.Get("channel"); raw != "" {
		channel, err := entity.ParseChannel(raw)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		filter.Channel = channel
	}
	filter.MinScore, _ = strconv.Atoi(q.Get("min_score"))
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))
	filter.Offset, _ = strconv.Atoi(q.Get("offset"))

	leads, err := h.Leads.UnifiedList(r.Context(), filter)
	if err != nil {
		http.Error(w, "failed to list leads", http.StatusInternalServerError)
		return
	}
	if leads == nil {
		leads = []entity.UnifiedLead{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"leads": leads, "count": len(leads)})
}

// HandleGet serves GET /admin/leads/{channel}/{id} with the full lead,
// nurture flags and engagement included.
func (h *AdminHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	channel, err := entity.ParseChannel(chi.URLParam(r, "channel"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	lead, err := h.Leads.FindByID(r.Context(), channel, chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "lead not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to load lead", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, lead)
}

var adminStatuses = map[string]bool{
	entity.StatusNew:          true,
	entity.StatusReviewing:    true,
	entity.StatusApproved:     true,
	entity.StatusRejected:     true,
	entity.StatusUnsubscribed: true,
}

// HandleUpdateStatus serves PATCH /admin/leads/{channel}/{id}/status.
// Status is the one lead field the pipeline never touches.
func (h *AdminHandler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	channel, err := entity.ParseChannel(chi.URLParam(r, "channel"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	status := strings.ToUpper(strings.TrimSpace(body.Status))
	if !adminStatuses[status] {
		http.Error(w, "unknown status", http.StatusBadRequest)
		return
	}

	if err := h.Leads.UpdateStatus(r.Context(), channel, chi.URLParam(r, "id"), status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "lead not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to update status", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": status})
}

// HandleListSuppressions serves GET /admin/suppressions.
func (h *AdminHandler) HandleListSuppressions(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	entries, err := h.Suppressions.List(r.Context(), limit, offset)
	if err != nil {
		http.Error(w, "failed to list suppressions", http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []entity.Suppression{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"suppressions": entries, "count": len(entries)})
}
