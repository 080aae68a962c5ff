package usecase

import (
	"context"
	"time"

	"github.com/xavierca1/ligue-leads/internal/entity"
	"github.com/xavierca1/ligue-leads/internal/infra/mail"
)

type LeadRepository interface {
	Create(ctx context.Context, lead *entity.Lead) error
	FindByID(ctx context.Context, channel entity.Channel, id string) (*entity.Lead, error)
	FindEligible(ctx context.Context, channel entity.Channel, checkpoint entity.Checkpoint, now time.Time, maxLagDays int) ([]*entity.Lead, error)
	MarkCheckpointSent(ctx context.Context, channel entity.Channel, id string, checkpoint entity.Checkpoint, at time.Time) (bool, error)
	UpdateEngagement(ctx context.Context, channel entity.Channel, id string, engagement entity.Engagement) error
	UpdateScore(ctx context.Context, channel entity.Channel, id string, score int) error
	RecordDownload(ctx context.Context, id string, at time.Time) error
}

type SendRecordRepository interface {
	Create(ctx context.Context, record *entity.EmailSendRecord) error
	MarkDispatched(ctx context.Context, id, providerMessageID string) error
	MarkFailed(ctx context.Context, id, errMsg string) error
	FindByProviderMessageID(ctx context.Context, providerMessageID string) (*entity.EmailSendRecord, error)
	UpdateStatus(ctx context.Context, id string, status entity.SendStatus) error
}

type SuppressionRepository interface {
	Suppress(ctx context.Context, s *entity.Suppression) error
	IsSuppressed(ctx context.Context, email string) (bool, error)
}

type AssetRepository interface {
	FindBySlug(ctx context.Context, slug string) (*entity.LibraryAsset, error)
}

// EmailService dispatches one rendered message and returns the provider
// message id. Failures are *mail.DispatchError.
type EmailService interface {
	Send(ctx context.Context, to, subject, htmlBody, textBody string) (string, error)
}

type TemplateRenderer interface {
	Render(channel entity.Channel, trigger string, vars mail.TemplateVars) (mail.Message, error)
}

type DownloadTokenGenerator interface {
	Generate(leadID, assetSlug string) (string, error)
}
