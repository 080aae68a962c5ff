package provider

// Request/response shapes for the transactional email provider API.

type sendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	Text    string   `json:"text"`
}

type sendEmailResponse struct {
	ID string `json:"id"`
}

// WebhookEvent is the payload the provider POSTs to our webhook endpoint.
type WebhookEvent struct {
	Type      string           `json:"type"`
	CreatedAt string           `json:"created_at"`
	Data      WebhookEventData `json:"data"`
}

type WebhookEventData struct {
	EmailID string   `json:"email_id"`
	To      []string `json:"to"`
	From    string   `json:"from"`
	Subject string   `json:"subject"`
	Click   *struct {
		Link string `json:"link"`
	} `json:"click,omitempty"`
}
