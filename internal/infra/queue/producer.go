package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// EmailEventPayload is the flattened provider event carried through the
// queue between the webhook handler and the ingest worker.
type EmailEventPayload struct {
	Type      string `json:"type"` // sent, delivered, opened, clicked, bounced, complained
	CreatedAt string `json:"created_at"`
	EmailID   string `json:"email_id"` // provider message id
	To        string `json:"to"`
	Subject   string `json:"subject"`
	ClickLink string `json:"click_link,omitempty"`
}

type QueueProducerInterface interface {
	PublishEmailEvent(ctx context.Context, payload EmailEventPayload) error
}

type RabbitMQProducer struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

func NewProducer(conn *amqp.Connection, ch *amqp.Channel) *RabbitMQProducer {
	return &RabbitMQProducer{
		Conn: conn,
		Ch:   ch,
	}
}

func (p *RabbitMQProducer) PublishEmailEvent(ctx context.Context, payload EmailEventPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false, // Mandatory
		false, // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent, // survives broker restart
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish to RabbitMQ: %w", err)
	}

	return nil
}
