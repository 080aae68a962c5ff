package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/xavierca1/ligue-leads/internal/infra/mail"
)

// Client talks to the transactional email provider's REST API. The provider
// assigns each accepted message an id, which later links webhook events
// back to our send log.
type Client struct {
	baseURL string
	apiKey  string
	from    string
	http    *http.Client
}

func NewClient(apiKey, baseURL, from string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		from:    from,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Send submits one email and returns the provider message id. Every failure
// path comes back as a *mail.DispatchError so the scheduler leaves the
// nurture flag unset and retries on the next run.
func (c *Client) Send(ctx context.Context, to, subject, htmlBody, textBody string) (string, error) {
	url := fmt.Sprintf("%s/emails", c.baseURL)

	payload := sendEmailRequest{
		From:    c.from,
		To:      []string{to},
		Subject: subject,
		HTML:    htmlBody,
		Text:    textBody,
	}

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &mail.DispatchError{Provider: "http", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return "", &mail.DispatchError{
			Provider: "http",
			Err:      fmt.Errorf("provider returned status %d: %s", resp.StatusCode, string(body)),
		}
	}

	var response sendEmailResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", &mail.DispatchError{Provider: "http", Err: fmt.Errorf("decode response: %w", err)}
	}

	return response.ID, nil
}
