package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/xavierca1/ligue-leads/internal/entity"
	"github.com/xavierca1/ligue-leads/internal/infra/mail"
)

// NurtureSummary is what a run reports back to the trigger endpoint.
type NurtureSummary struct {
	Processed int `json:"processed"`
	Sent      int `json:"sent"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

// RunNurtureUseCase is one scheduler pass: for every requested checkpoint
// and every channel, select the due leads, render, dispatch, and flip the
// per-lead idempotency flag on success. Per-lead failures are logged and
// counted; only infrastructure failures abort the run.
type RunNurtureUseCase struct {
	Leads        LeadRepository
	Sends        SendRecordRepository
	Renderer     TemplateRenderer
	EmailService EmailService
	MaxLagDays   int              // 0 = no staleness cutoff
	Now          func() time.Time // injectable clock
}

func NewRunNurtureUseCase(
	leads LeadRepository,
	sends SendRecordRepository,
	renderer TemplateRenderer,
	emailService EmailService,
	maxLagDays int,
) *RunNurtureUseCase {
	return &RunNurtureUseCase{
		Leads:        leads,
		Sends:        sends,
		Renderer:     renderer,
		EmailService: emailService,
		MaxLagDays:   maxLagDays,
		Now:          time.Now,
	}
}

func (uc *RunNurtureUseCase) Execute(ctx context.Context, checkpoints []entity.Checkpoint) (NurtureSummary, error) {
	if len(checkpoints) == 0 {
		checkpoints = entity.AllCheckpoints
	}
	now := uc.Now()

	var summary NurtureSummary
	for _, checkpoint := range checkpoints {
		for _, channel := range entity.AllChannels {
			leads, err := uc.Leads.FindEligible(ctx, channel, checkpoint, now, uc.MaxLagDays)
			if err != nil {
				return summary, &TechnicalError{
					Code:    "DB_READ",
					Message: fmt.Sprintf("selecting %s leads for day %d: %v", channel, checkpoint.Days(), err),
				}
			}

			for _, lead := range leads {
				summary.Processed++
				uc.processLead(ctx, lead, checkpoint, now, &summary)
			}
		}
	}

	return summary, nil
}

func (uc *RunNurtureUseCase) processLead(ctx context.Context, lead *entity.Lead, checkpoint entity.Checkpoint, now time.Time, summary *NurtureSummary) {
	trigger := checkpoint.Trigger()

	msg, err := uc.Renderer.Render(lead.Channel, trigger, mail.TemplateVars{
		ContactName: lead.ContactName,
		Company:     lead.Company,
		Reference:   lead.Payload.Reference(lead.Channel),
	})
	if err != nil {
		log.Printf("❌ [NURTURE] Template %s/%s for lead %s: %v", lead.Channel, trigger, lead.ID, err)
		summary.Failed++
		return
	}

	record := entity.NewSendRecord(lead, trigger, string(lead.Channel)+"/"+trigger, msg.Subject)
	if err := uc.Sends.Create(ctx, record); err != nil {
		log.Printf("❌ [NURTURE] Could not log send for lead %s: %v", lead.ID, err)
		summary.Failed++
		return
	}

	providerID, err := uc.EmailService.Send(ctx, lead.Email, msg.Subject, msg.HTML, msg.Text)
	if err != nil {
		// Flag stays unset: the lead is selected again on the next run.
		log.Printf("❌ [NURTURE] Dispatch to %s (lead %s, day %d) failed: %v", lead.Email, lead.ID, checkpoint.Days(), err)
		if markErr := uc.Sends.MarkFailed(ctx, record.ID, err.Error()); markErr != nil {
			log.Printf("⚠️ [NURTURE] Could not mark send %s failed: %v", record.ID, markErr)
		}
		summary.Failed++
		return
	}

	if err := uc.Sends.MarkDispatched(ctx, record.ID, providerID); err != nil {
		log.Printf("⚠️ [NURTURE] Could not record provider id for send %s: %v", record.ID, err)
	}

	flipped, err := uc.Leads.MarkCheckpointSent(ctx, lead.Channel, lead.ID, checkpoint, now)
	if err != nil {
		log.Printf("❌ [NURTURE] Could not set day-%d flag for lead %s: %v", checkpoint.Days(), lead.ID, err)
		summary.Failed++
		return
	}
	if !flipped {
		// A concurrent run won the test-and-set; the email for this
		// checkpoint was already accounted for.
		summary.Skipped++
		return
	}

	summary.Sent++
}
