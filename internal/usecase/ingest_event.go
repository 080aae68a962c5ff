package usecase

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/xavierca1/ligue-leads/internal/entity"
	"github.com/xavierca1/ligue-leads/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-leads/internal/infra/queue"
)

// IngestEmailEventUseCase applies one provider event to the send log and
// the lead it belongs to: advance the send-status machine, update the
// lead's engagement flags, re-run the scorer, and suppress the address on
// bounce or complaint.
type IngestEmailEventUseCase struct {
	Sends        SendRecordRepository
	Leads        LeadRepository
	Suppressions SuppressionRepository
}

func NewIngestEmailEventUseCase(
	sends SendRecordRepository,
	leads LeadRepository,
	suppressions SuppressionRepository,
) *IngestEmailEventUseCase {
	return &IngestEmailEventUseCase{
		Sends:        sends,
		Leads:        leads,
		Suppressions: suppressions,
	}
}

var eventStatuses = map[string]entity.SendStatus{
	"sent":       entity.SendSent,
	"delivered":  entity.SendDelivered,
	"opened":     entity.SendOpened,
	"clicked":    entity.SendClicked,
	"bounced":    entity.SendBounced,
	"complained": entity.SendComplained,
}

func (uc *IngestEmailEventUseCase) IngestEmailEvent(ctx context.Context, payload queue.EmailEventPayload) error {
	// Providers prefix their types ("email.opened"); normalize first.
	eventType := strings.TrimPrefix(strings.ToLower(payload.Type), "email.")

	status, known := eventStatuses[eventType]
	if !known {
		// Forward compatible: new event types are noted and dropped.
		log.Printf("⚠️ [INGEST] Unknown event type %q, ignoring", payload.Type)
		return nil
	}

	record, err := uc.Sends.FindByProviderMessageID(ctx, payload.EmailID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Printf("⚠️ [INGEST] No send record for provider message %q, ignoring", payload.EmailID)
			return nil
		}
		return &TechnicalError{Code: "DB_READ", Message: fmt.Sprintf("looking up send record: %v", err)}
	}

	if record.Status.CanTransition(status) {
		if err := uc.Sends.UpdateStatus(ctx, record.ID, status); err != nil {
			return &TechnicalError{Code: "DB_WRITE", Message: fmt.Sprintf("updating send status: %v", err)}
		}
	} else if record.Status != status {
		log.Printf("⚠️ [INGEST] Ignoring out-of-order transition %s -> %s for send %s", record.Status, status, record.ID)
	}

	switch status {
	case entity.SendOpened, entity.SendClicked, entity.SendBounced, entity.SendComplained:
		return uc.applyEngagement(ctx, record, status, eventTime(payload.CreatedAt))
	}
	return nil
}

func (uc *IngestEmailEventUseCase) applyEngagement(ctx context.Context, record *entity.EmailSendRecord, status entity.SendStatus, at time.Time) error {
	lead, err := uc.Leads.FindByID(ctx, record.Channel, record.LeadID)
	if err != nil {
		return &TechnicalError{Code: "DB_READ", Message: fmt.Sprintf("loading lead %s: %v", record.LeadID, err)}
	}

	e := &lead.Engagement
	switch status {
	case entity.SendOpened:
		if !e.Opened {
			e.Opened, e.OpenedAt = true, &at
		}
	case entity.SendClicked:
		// A click implies the mail was opened even if the open pixel
		// never fired.
		if !e.Opened {
			e.Opened, e.OpenedAt = true, &at
		}
		if !e.Clicked {
			e.Clicked, e.ClickedAt = true, &at
		}
	case entity.SendBounced:
		if !e.Bounced {
			e.Bounced, e.BouncedAt = true, &at
		}
	case entity.SendComplained:
		if !e.Complained {
			e.Complained, e.ComplainedAt = true, &at
		}
	}

	if err := uc.Leads.UpdateEngagement(ctx, lead.Channel, lead.ID, lead.Engagement); err != nil {
		return &TechnicalError{Code: "DB_WRITE", Message: fmt.Sprintf("updating engagement: %v", err)}
	}

	if status == entity.SendBounced || status == entity.SendComplained {
		reason := entity.ReasonBounce
		if status == entity.SendComplained {
			reason = entity.ReasonComplaint
		}
		if err := uc.Suppressions.Suppress(ctx, entity.NewSuppression(lead.Email, reason, "esp_webhook")); err != nil {
			return &TechnicalError{Code: "DB_WRITE", Message: fmt.Sprintf("suppressing %s: %v", lead.Email, err)}
		}
		middleware.RecordSuppression(string(reason))
		log.Printf("🚫 [INGEST] Suppressed %s (%s)", lead.Email, reason)
	}

	newScore := ScoreLead(lead)
	if newScore != lead.Score {
		if err := uc.Leads.UpdateScore(ctx, lead.Channel, lead.ID, newScore); err != nil {
			return &TechnicalError{Code: "DB_WRITE", Message: fmt.Sprintf("updating score: %v", err)}
		}
	}

	return nil
}

func eventTime(raw string) time.Time {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t
	}
	return time.Now()
}
