package entity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Channel identifies the acquisition source of a lead. Each channel has its
// own table in the store; the application works with the tagged Lead below.
type Channel string

const (
	ChannelLibrary     Channel = "LIBRARY"
	ChannelContact     Channel = "CONTACT"
	ChannelDemo        Channel = "DEMO"
	ChannelEvent       Channel = "EVENT"
	ChannelPartnership Channel = "PARTNERSHIP"
)

// AllChannels lists every acquisition channel, in scheduler processing order.
var AllChannels = []Channel{
	ChannelLibrary,
	ChannelContact,
	ChannelDemo,
	ChannelEvent,
	ChannelPartnership,
}

func ParseChannel(s string) (Channel, error) {
	c := Channel(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range AllChannels {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown lead channel: %q", s)
}

// Lead lifecycle statuses. Status is mutated only by admin action;
// the nurture pipeline reads it but never writes it.
const (
	StatusNew          = "NEW"
	StatusReviewing    = "REVIEWING"
	StatusApproved     = "APPROVED"
	StatusRejected     = "REJECTED"
	StatusUnsubscribed = "UNSUBSCRIBED"
)

// Payload carries the channel-specific fields. Which fields are meaningful
// is tagged by Lead.Channel; the rest stay zero.
type Payload struct {
	// LIBRARY
	AssetSlug     string `json:"asset_slug,omitempty"`
	AssetTitle    string `json:"asset_title,omitempty"`
	DownloadCount int    `json:"download_count,omitempty"`
	// CONTACT
	Inquiry string `json:"inquiry,omitempty"`
	// DEMO
	ProductInterest string `json:"product_interest,omitempty"`
	PreferredDate   string `json:"preferred_date,omitempty"`
	// EVENT
	EventName     string `json:"event_name,omitempty"`
	AttendeeCount int    `json:"attendee_count,omitempty"`
	// PARTNERSHIP
	Proposal string `json:"proposal,omitempty"`
}

// Reference returns the channel-specific string shown in nurture emails
// (the downloaded asset, the event, the product the lead asked about).
func (p Payload) Reference(channel Channel) string {
	switch channel {
	case ChannelLibrary:
		return p.AssetTitle
	case ChannelContact:
		return p.Inquiry
	case ChannelDemo:
		return p.ProductInterest
	case ChannelEvent:
		return p.EventName
	case ChannelPartnership:
		return p.Proposal
	}
	return ""
}

type Lead struct {
	ID          string  `json:"id"`
	Channel     Channel `json:"channel"`
	Company     string  `json:"company"`
	ContactName string  `json:"contact_name"`
	Email       string  `json:"email"`
	Phone       string  `json:"phone,omitempty"`
	Status      string  `json:"status"`
	Score       int     `json:"score"`
	Consent     bool    `json:"consent"`

	Payload    Payload      `json:"payload"`
	Nurture    NurtureState `json:"nurture"`
	Engagement Engagement   `json:"engagement"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Factory
func NewLead(channel Channel, company, contactName, email, phone string, consent bool, payload Payload) (*Lead, error) {
	lead := &Lead{
		ID:          uuid.New().String(),
		Channel:     channel,
		Company:     company,
		ContactName: contactName,
		Email:       strings.ToLower(strings.TrimSpace(email)),
		Phone:       phone,
		Status:      StatusNew,
		Consent:     consent,
		Payload:     payload,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := lead.Validate(); err != nil {
		return nil, err
	}

	return lead, nil
}

func (l *Lead) Validate() error {
	if l.Company == "" {
		return errors.New("company is required")
	}
	if l.ContactName == "" {
		return errors.New("contact name is required")
	}
	if l.Email == "" {
		return errors.New("email is required")
	}
	if !l.Consent {
		return errors.New("consent is required")
	}
	return nil
}

// Nurturable reports whether the pipeline may still email this lead.
func (l *Lead) Nurturable() bool {
	return l.Status != StatusRejected && l.Status != StatusUnsubscribed
}

// UnifiedLead is one row of the unified projection across all channel
// tables, used by the admin listing.
type UnifiedLead struct {
	ID          string    `json:"id"`
	Channel     Channel   `json:"channel"`
	Company     string    `json:"company"`
	ContactName string    `json:"contact_name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone,omitempty"`
	Status      string    `json:"status"`
	Score       int       `json:"score"`
	CreatedAt   time.Time `json:"created_at"`
}

// UnifiedFilter narrows the unified listing.
type UnifiedFilter struct {
	Channel  Channel
	MinScore int
	Search   string
	Limit    int
	Offset   int
}

type LeadRepositoryInterface interface {
	Create(ctx context.Context, lead *Lead) error
	FindByID(ctx context.Context, channel Channel, id string) (*Lead, error)
	FindEligible(ctx context.Context, channel Channel, checkpoint Checkpoint, now time.Time, maxLagDays int) ([]*Lead, error)
	MarkCheckpointSent(ctx context.Context, channel Channel, id string, checkpoint Checkpoint, at time.Time) (bool, error)
	UpdateEngagement(ctx context.Context, channel Channel, id string, engagement Engagement) error
	UpdateScore(ctx context.Context, channel Channel, id string, score int) error
	UpdateStatus(ctx context.Context, channel Channel, id string, status string) error
	RecordDownload(ctx context.Context, id string, at time.Time) error
	UnifiedList(ctx context.Context, filter UnifiedFilter) ([]UnifiedLead, error)
}
