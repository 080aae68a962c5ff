package entity

import (
	"context"
	"strings"
	"time"
)

// SuppressionReason enumerates why an address was taken out of sends.
type SuppressionReason string

const (
	ReasonBounce    SuppressionReason = "bounce"
	ReasonComplaint SuppressionReason = "complaint"
)

// Suppression is one blocked email address. Insert-only; adding an address
// that is already suppressed keeps the first record.
type Suppression struct {
	Email     string            `json:"email"`
	Reason    SuppressionReason `json:"reason"`
	Source    string            `json:"source"` // e.g. "esp_webhook"
	CreatedAt time.Time         `json:"created_at"`
}

func NewSuppression(email string, reason SuppressionReason, source string) *Suppression {
	return &Suppression{
		Email:     strings.ToLower(strings.TrimSpace(email)),
		Reason:    reason,
		Source:    source,
		CreatedAt: time.Now(),
	}
}

type SuppressionRepositoryInterface interface {
	Suppress(ctx context.Context, s *Suppression) error
	IsSuppressed(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, limit, offset int) ([]Suppression, error)
}

// LibraryAsset is one downloadable item in the content library catalog.
type LibraryAsset struct {
	Slug    string `json:"slug"`
	Title   string `json:"title"`
	FileURL string `json:"file_url"`
}

type LibraryAssetRepositoryInterface interface {
	FindBySlug(ctx context.Context, slug string) (*LibraryAsset, error)
}
