package entity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SendStatus tracks a send record through the provider lifecycle:
// queued -> sent -> delivered -> {opened, bounced, complained},
// opened -> clicked. FAILED is terminal and only set by the dispatcher.
type SendStatus string

const (
	SendQueued     SendStatus = "queued"
	SendSent       SendStatus = "sent"
	SendDelivered  SendStatus = "delivered"
	SendOpened     SendStatus = "opened"
	SendClicked    SendStatus = "clicked"
	SendBounced    SendStatus = "bounced"
	SendComplained SendStatus = "complained"
	SendFailed     SendStatus = "failed"
)

var sendTransitions = map[SendStatus][]SendStatus{
	SendQueued:    {SendSent, SendFailed},
	SendSent:      {SendDelivered, SendOpened, SendBounced, SendComplained},
	SendDelivered: {SendOpened, SendBounced, SendComplained},
	SendOpened:    {SendClicked, SendComplained},
}

// CanTransition reports whether moving from s to next is a legal step of
// the state machine. Out-of-order provider events are dropped by callers.
func (s SendStatus) CanTransition(next SendStatus) bool {
	for _, allowed := range sendTransitions[s] {
		if next == allowed {
			return true
		}
	}
	return false
}

// EmailSendRecord is one row of the append-only send log. After creation
// only Status/Error move, and only via webhook events (or a dispatch
// failure recorded by the scheduler).
type EmailSendRecord struct {
	ID                string     `json:"id"`
	LeadID            string     `json:"lead_id"`
	Channel           Channel    `json:"channel"`
	Trigger           string     `json:"trigger"` // "day3".."day30" or "confirmation"
	TemplateKey       string     `json:"template_key"`
	ProviderMessageID string     `json:"provider_message_id,omitempty"`
	Recipient         string     `json:"recipient"`
	Subject           string     `json:"subject"`
	Status            SendStatus `json:"status"`
	Error             string     `json:"error,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// TriggerConfirmation marks transactional sends outside the checkpoint family.
const TriggerConfirmation = "confirmation"

func NewSendRecord(lead *Lead, trigger, templateKey, subject string) *EmailSendRecord {
	return &EmailSendRecord{
		ID:          uuid.New().String(),
		LeadID:      lead.ID,
		Channel:     lead.Channel,
		Trigger:     trigger,
		TemplateKey: templateKey,
		Recipient:   lead.Email,
		Subject:     subject,
		Status:      SendQueued,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
}

type SendRecordRepositoryInterface interface {
	Create(ctx context.Context, record *EmailSendRecord) error
	MarkDispatched(ctx context.Context, id, providerMessageID string) error
	MarkFailed(ctx context.Context, id, errMsg string) error
	FindByProviderMessageID(ctx context.Context, providerMessageID string) (*EmailSendRecord, error)
	UpdateStatus(ctx context.Context, id string, status SendStatus) error
}
