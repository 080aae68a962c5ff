package queue

import (
	"context"
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

// EventIngester is the contract the worker hands each decoded event to.
type EventIngester interface {
	IngestEmailEvent(ctx context.Context, payload EmailEventPayload) error
}

// Worker drains the email-event queue and feeds the ingest use case.
// Malformed or repeatedly failing messages are dead-lettered, never requeued
// in a loop.
type Worker struct {
	Channel  *amqp.Channel
	Ingester EventIngester
}

func NewWorker(ch *amqp.Channel, ingester EventIngester) *Worker {
	return &Worker{
		Channel:  ch,
		Ingester: ingester,
	}
}

func (w *Worker) Start(queueName string) {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // auto-ack (manual is safer)
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		log.Fatalf("❌ [WORKER] Failed to register RabbitMQ consumer: %s", err)
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var payload EmailEventPayload
			if err := json.Unmarshal(d.Body, &payload); err != nil {
				log.Printf("❌ [WORKER] Invalid JSON, dead-lettering: %s", err)
				d.Nack(false, false)
				continue
			}

			log.Printf("📥 [WORKER] Email event %q for %s", payload.Type, payload.To)

			if err := w.Ingester.IngestEmailEvent(context.Background(), payload); err != nil {
				log.Printf("❌ [WORKER] Ingest failed: %s", err)
				d.Nack(false, false)
			} else {
				d.Ack(false)
			}
		}
	}()

	log.Printf(" [*] Worker running, waiting on queue '%s'", queueName)
	<-forever
}
