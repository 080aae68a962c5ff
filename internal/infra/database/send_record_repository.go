package database

import (
	"context"
	"database/sql"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

// SendRecordRepository persists the append-only email send log.
type SendRecordRepository struct {
	DB *sql.DB
}

func NewSendRecordRepository(db *sql.DB) *SendRecordRepository {
	return &SendRecordRepository{DB: db}
}

func (r *SendRecordRepository) Create(ctx context.Context, record *entity.EmailSendRecord) error {
	query := `
		INSERT INTO email_sends
			(id, lead_id, channel, trigger, template_key, provider_message_id,
			 recipient, subject, status, error, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.DB.ExecContext(ctx, query,
		record.ID, record.LeadID, string(record.Channel), record.Trigger,
		record.TemplateKey, nullString(record.ProviderMessageID),
		record.Recipient, record.Subject, string(record.Status),
		nullString(record.Error), record.CreatedAt, record.UpdatedAt,
	)
	return err
}

func (r *SendRecordRepository) MarkDispatched(ctx context.Context, id, providerMessageID string) error {
	query := `
		UPDATE email_sends
		SET provider_message_id = $1, status = $2, updated_at = NOW()
		WHERE id = $3`
	_, err := r.DB.ExecContext(ctx, query, providerMessageID, string(entity.SendSent), id)
	return err
}

func (r *SendRecordRepository) MarkFailed(ctx context.Context, id, errMsg string) error {
	query := `
		UPDATE email_sends
		SET status = $1, error = $2, updated_at = NOW()
		WHERE id = $3`
	_, err := r.DB.ExecContext(ctx, query, string(entity.SendFailed), errMsg, id)
	return err
}

func (r *SendRecordRepository) FindByProviderMessageID(ctx context.Context, providerMessageID string) (*entity.EmailSendRecord, error) {
	query := `
		SELECT id, lead_id, channel, trigger, template_key, provider_message_id,
		       recipient, subject, status, error, created_at, updated_at
		FROM email_sends
		WHERE provider_message_id = $1`

	record := &entity.EmailSendRecord{}
	var providerID, errMsg sql.NullString
	err := r.DB.QueryRowContext(ctx, query, providerMessageID).Scan(
		&record.ID, &record.LeadID, &record.Channel, &record.Trigger,
		&record.TemplateKey, &providerID, &record.Recipient, &record.Subject,
		&record.Status, &errMsg, &record.CreatedAt, &record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	record.ProviderMessageID = providerID.String
	record.Error = errMsg.String
	return record, nil
}

func (r *SendRecordRepository) UpdateStatus(ctx context.Context, id string, status entity.SendStatus) error {
	query := `UPDATE email_sends SET status = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.DB.ExecContext(ctx, query, string(status), id)
	return err
}
