package usecase

import (
	"context"
	"fmt"
	"log"
	"net/url"

	"github.com/xavierca1/ligue-leads/internal/entity"
	"github.com/xavierca1/ligue-leads/internal/infra/mail"
)

type CreateLeadInput struct {
	Company     string `json:"company"`
	ContactName string `json:"contact_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Consent     bool   `json:"consent"`

	// Channel-specific payload; which fields matter depends on the endpoint.
	AssetSlug       string `json:"asset_slug"`
	Inquiry         string `json:"inquiry"`
	ProductInterest string `json:"product_interest"`
	PreferredDate   string `json:"preferred_date"`
	EventName       string `json:"event_name"`
	AttendeeCount   int    `json:"attendee_count"`
	Proposal        string `json:"proposal"`
}

type CreateLeadOutput struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// CreateLeadUseCase handles a public form submission end to end: validate,
// persist, score, and (library channel) send the confirmation email with a
// signed download link.
type CreateLeadUseCase struct {
	Repo          LeadRepository
	Assets        AssetRepository
	Sends         SendRecordRepository
	Renderer      TemplateRenderer
	EmailService  EmailService
	Tokens        DownloadTokenGenerator
	PublicBaseURL string
}

func NewCreateLeadUseCase(
	repo LeadRepository,
	assets AssetRepository,
	sends SendRecordRepository,
	renderer TemplateRenderer,
	emailService EmailService,
	tokens DownloadTokenGenerator,
	publicBaseURL string,
) *CreateLeadUseCase {
	return &CreateLeadUseCase{
		Repo:          repo,
		Assets:        assets,
		Sends:         sends,
		Renderer:      renderer,
		EmailService:  emailService,
		Tokens:        tokens,
		PublicBaseURL: publicBaseURL,
	}
}

func (uc *CreateLeadUseCase) Execute(ctx context.Context, channel entity.Channel, input CreateLeadInput) (*CreateLeadOutput, error) {
	if errs := ValidateCreateLeadInput(channel, input); len(errs) > 0 {
		return nil, &InvalidInputError{Errors: errs}
	}

	payload := entity.Payload{
		Inquiry:         input.Inquiry,
		ProductInterest: input.ProductInterest,
		PreferredDate:   input.PreferredDate,
		EventName:       input.EventName,
		AttendeeCount:   input.AttendeeCount,
		Proposal:        input.Proposal,
	}

	var asset *entity.LibraryAsset
	if channel == entity.ChannelLibrary {
		found, err := uc.Assets.FindBySlug(ctx, input.AssetSlug)
		if err != nil {
			return nil, &DomainError{Code: "UNKNOWN_ASSET", Message: fmt.Sprintf("library asset %q not found", input.AssetSlug)}
		}
		asset = found
		payload.AssetSlug = asset.Slug
		payload.AssetTitle = asset.Title
	}

	lead, err := entity.NewLead(channel, input.Company, input.ContactName, input.Email, input.Phone, input.Consent, payload)
	if err != nil {
		return nil, &DomainError{Code: "INVALID_LEAD", Message: err.Error()}
	}
	lead.Score = ScoreLead(lead)

	if err := uc.Repo.Create(ctx, lead); err != nil {
		return nil, &TechnicalError{Code: "DB_WRITE", Message: fmt.Sprintf("failed to store lead: %v", err)}
	}

	// Confirmation email is best effort: a provider hiccup must not lose
	// the lead we just captured.
	if channel == entity.ChannelLibrary {
		if err := uc.sendConfirmation(ctx, lead); err != nil {
			log.Printf("⚠️ Confirmation email for lead %s failed: %v", lead.ID, err)
		}
	}

	return &CreateLeadOutput{ID: lead.ID, Status: lead.Status}, nil
}

func (uc *CreateLeadUseCase) sendConfirmation(ctx context.Context, lead *entity.Lead) error {
	signed, err := uc.Tokens.Generate(lead.ID, lead.Payload.AssetSlug)
	if err != nil {
		return fmt.Errorf("sign download token: %w", err)
	}

	link := fmt.Sprintf("%s/api/library/download?token=%s", uc.PublicBaseURL, url.QueryEscape(signed))

	msg, err := uc.Renderer.Render(lead.Channel, entity.TriggerConfirmation, mail.TemplateVars{
		ContactName:  lead.ContactName,
		Company:      lead.Company,
		Reference:    lead.Payload.AssetTitle,
		DownloadLink: link,
	})
	if err != nil {
		return err
	}

	record := entity.NewSendRecord(lead, entity.TriggerConfirmation, string(lead.Channel)+"/"+entity.TriggerConfirmation, msg.Subject)
	if err := uc.Sends.Create(ctx, record); err != nil {
		return fmt.Errorf("log send attempt: %w", err)
	}

	providerID, err := uc.EmailService.Send(ctx, lead.Email, msg.Subject, msg.HTML, msg.Text)
	if err != nil {
		if markErr := uc.Sends.MarkFailed(ctx, record.ID, err.Error()); markErr != nil {
			log.Printf("⚠️ Could not mark send %s failed: %v", record.ID, markErr)
		}
		return err
	}

	return uc.Sends.MarkDispatched(ctx, record.ID, providerID)
}

// InvalidInputError carries the field-level detail back to the handler.
type InvalidInputError struct {
	Errors []ValidationError
}

func (e *InvalidInputError) Error() string {
	if len(e.Errors) == 0 {
		return "invalid input"
	}
	return e.Errors[0].Error()
}
