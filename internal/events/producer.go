package events

import (
	"context"
	"encoding/json"

	"github.com/campusbites/checkout/internal/models"
	"github.com/segmentio/kafka-go"
)

// Producer publishes terminal checkout outcomes to Kafka for the
// notification pipeline.
type Producer struct {
	writer *kafka.Writer
}

// NewProducer creates new Producer instance
func NewProducer(brokers []string, topic string) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

// PublishCheckoutEvent publishes one checkout event keyed by order id
func (p *Producer) PublishCheckoutEvent(ctx context.Context, event models.CheckoutEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.OrderID),
		Value: data,
	})
}

// Close closes the underlying writer
func (p *Producer) Close() error {
	return p.writer.Close()
}
