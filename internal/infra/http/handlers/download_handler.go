package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/xavierca1/ligue-leads/internal/entity"
	"github.com/xavierca1/ligue-leads/internal/infra/token"
)

// TokenVerifier abstracts the download-token service.
type TokenVerifier interface {
	Verify(tokenString string) (*token.DownloadClaims, error)
}

type AssetFinder interface {
	FindBySlug(ctx context.Context, slug string) (*entity.LibraryAsset, error)
}

type DownloadRecorder interface {
	RecordDownload(ctx context.Context, id string, at time.Time) error
}

// DownloadHandler redeems the signed links embedded in library emails:
// verify the token, record the download against the lead, redirect to the
// asset.
type DownloadHandler struct {
	Tokens TokenVerifier
	Assets AssetFinder
	Leads  DownloadRecorder
}

func NewDownloadHandler(tokens TokenVerifier, assets AssetFinder, leads DownloadRecorder) *DownloadHandler {
	return &DownloadHandler{Tokens: tokens, Assets: assets, Leads: leads}
}

func (h *DownloadHandler) Handle(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("token")
	if raw == "" {
		http.Error(w, "token is required", http.StatusBadRequest)
		return
	}

	claims, err := h.Tokens.Verify(raw)
	if err != nil {
		http.Error(w, "download link is invalid or has expired", http.StatusUnauthorized)
		return
	}

	asset, err := h.Assets.FindBySlug(r.Context(), claims.AssetSlug)
	if err != nil {
		http.Error(w, "asset not found", http.StatusNotFound)
		return
	}

	// Best effort: a failed counter bump must not block the download.
	if err := h.Leads.RecordDownload(r.Context(), claims.LeadID, time.Now()); err != nil {
		log.Printf("⚠️ [DOWNLOAD] Could not record download for lead %s: %v", claims.LeadID, err)
	}

	http.Redirect(w, r, asset.FileURL, http.StatusFound)
}
