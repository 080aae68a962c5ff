package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/xavierca1/ligue-leads/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-leads/internal/infra/provider"
	"github.com/xavierca1/ligue-leads/internal/infra/queue"
)

// WebhookHandler receives delivery/engagement events from the email
// provider. It only validates shape and hands the event to the queue; the
// worker does the real work. The provider always gets a 200 back —
// anything else triggers retry storms on their side.
type WebhookHandler struct {
	Producer queue.QueueProducerInterface
}

func NewWebhookHandler(producer queue.QueueProducerInterface) *WebhookHandler {
	return &WebhookHandler{Producer: producer}
}

func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var event provider.WebhookEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		log.Printf("⚠️ [WEBHOOK] Undecodable payload: %v", err)
		w.WriteHeader(http.StatusOK)
		return
	}

	payload := queue.EmailEventPayload{
		Type:      event.Type,
		CreatedAt: event.CreatedAt,
		EmailID:   event.Data.EmailID,
		Subject:   event.Data.Subject,
	}
	if len(event.Data.To) > 0 {
		payload.To = event.Data.To[0]
	}
	if event.Data.Click != nil {
		payload.ClickLink = event.Data.Click.Link
	}

	if err := h.Producer.PublishEmailEvent(r.Context(), payload); err != nil {
		log.Printf("❌ [WEBHOOK] Could not enqueue %q event: %v", event.Type, err)
		w.WriteHeader(http.StatusOK)
		return
	}

	middleware.RecordWebhookEvent(event.Type)
	w.WriteHeader(http.StatusOK)
}
