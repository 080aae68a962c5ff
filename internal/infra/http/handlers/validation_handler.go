package handlers

import (
	"net/http"
	netmail "net/mail"
	"strings"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

// ValidationHandler lets the site forms pre-check an email address before
// submission: syntax plus suppression-list membership.
type ValidationHandler struct {
	Suppressions entity.SuppressionRepositoryInterface
}

func NewValidationHandler(suppressions entity.SuppressionRepositoryInterface) *ValidationHandler {
	return &ValidationHandler{Suppressions: suppressions}
}

type emailValidationResponse struct {
	Valid      bool   `json:"valid"`
	Suppressed bool   `json:"suppressed"`
	Message    string `json:"message,omitempty"`
}

func (h *ValidationHandler) HandleEmail(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		writeJSON(w, http.StatusBadRequest, emailValidationResponse{Message: "email is required"})
		return
	}

	if _, err := netmail.ParseAddress(email); err != nil {
		writeJSON(w, http.StatusOK, emailValidationResponse{Valid: false, Message: "email address is not valid"})
		return
	}

	suppressed, err := h.Suppressions.IsSuppressed(r.Context(), email)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, emailValidationResponse{Message: "validation unavailable"})
		return
	}

	resp := emailValidationResponse{Valid: true, Suppressed: suppressed}
	if suppressed {
		resp.Message = "this address has opted out of our emails"
	}
	writeJSON(w, http.StatusOK, resp)
}
