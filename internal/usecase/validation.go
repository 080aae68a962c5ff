package usecase

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var nonDigits = regexp.MustCompile(`\D`)

// ValidateCreateLeadInput checks the shared fields plus the channel-specific
// payload. An empty slice means the submission is acceptable.
func ValidateCreateLeadInput(channel entity.Channel, input CreateLeadInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.Company) == "" {
		errors = append(errors, ValidationError{"company", "is required"})
	} else if len(input.Company) > 200 {
		errors = append(errors, ValidationError{"company", "must not exceed 200 characters"})
	}

	if strings.TrimSpace(input.ContactName) == "" {
		errors = append(errors, ValidationError{"contact_name", "is required"})
	} else if len(input.ContactName) < 2 {
		errors = append(errors, ValidationError{"contact_name", "must have at least 2 characters"})
	} else if len(input.ContactName) > 200 {
		errors = append(errors, ValidationError{"contact_name", "must not exceed 200 characters"})
	}

	if strings.TrimSpace(input.Email) == "" {
		errors = append(errors, ValidationError{"email", "is required"})
	} else if _, err := mail.ParseAddress(input.Email); err != nil {
		errors = append(errors, ValidationError{"email", "is invalid"})
	}

	if input.Phone != "" && !isValidPhoneNumber(input.Phone) {
		errors = append(errors, ValidationError{"phone", "must be a valid phone number"})
	}

	if !input.Consent {
		errors = append(errors, ValidationError{"consent", "must be given"})
	}

	switch channel {
	case entity.ChannelLibrary:
		if strings.TrimSpace(input.AssetSlug) == "" {
			errors = append(errors, ValidationError{"asset_slug", "is required"})
		}
	case entity.ChannelContact:
		if strings.TrimSpace(input.Inquiry) == "" {
			errors = append(errors, ValidationError{"inquiry", "is required"})
		}
	case entity.ChannelDemo:
		if strings.TrimSpace(input.ProductInterest) == "" {
			errors = append(errors, ValidationError{"product_interest", "is required"})
		}
	case entity.ChannelEvent:
		if strings.TrimSpace(input.EventName) == "" {
			errors = append(errors, ValidationError{"event_name", "is required"})
		}
		if input.AttendeeCount < 0 {
			errors = append(errors, ValidationError{"attendee_count", "must not be negative"})
		}
	case entity.ChannelPartnership:
		if strings.TrimSpace(input.Proposal) == "" {
			errors = append(errors, ValidationError{"proposal", "is required"})
		}
	}

	return errors
}

func isValidPhoneNumber(phone string) bool {
	cleaned := nonDigits.ReplaceAllString(phone, "")
	return len(cleaned) >= 8 && len(cleaned) <= 15
}
