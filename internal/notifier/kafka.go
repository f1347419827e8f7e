// Package notifier dispatches order notifications as a fire-and-forget
// background task. Events are published to Kafka; the delivery worker that
// turns them into customer/admin emails or WhatsApp messages lives outside
// this service.
package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/skoushik/storefront-orders/internal/config"

	"github.com/segmentio/kafka-go"
)

// OrderCreatedEvent is the wire payload published for every created order.
type OrderCreatedEvent struct {
	EventID       string    `json:"event_id"`
	OrderID       string    `json:"order_id"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	AdminEmail    string    `json:"admin_email,omitempty"`
	Message       string    `json:"message"`
	TotalAmount   float64   `json:"total_amount"`
	OccurredAt    time.Time `json:"occurred_at"`
}

type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(cfg config.Kafka) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: cfg.BatchTimeout,
		},
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, ev OrderCreatedEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal notification event: %w", err)
	}

	// Key by order id so all events of one order stay ordered.
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.OrderID),
		Value: data,
	})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
