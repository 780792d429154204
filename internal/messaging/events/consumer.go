package events

import (
	"context"
	"encoding/json"
	"log"

	"github.com/voteagora/near-merkle-claim/internal/domain/campaign"
	"github.com/voteagora/near-merkle-claim/internal/kafka"
)

// Handler reacts to decoded campaign events.
type Handler interface {
	HandleEvent(ctx context.Context, event campaign.Event) error
}

// Consumer wraps the low-level Kafka consumer and decodes campaign
// events. Undecodable payloads are logged and skipped, never retried.
type Consumer struct {
	consumer *kafka.Consumer
}

// NewConsumer wires the handler through the low-level consumer.
func NewConsumer(brokers []string, groupID, topic string, handler Handler) (*Consumer, error) {
	llHandler := kafka.HandlerFunc(func(ctx context.Context, value []byte) error {
		var event campaign.Event
		if err := json.Unmarshal(value, &event); err != nil {
			log.Printf("event consumer decode error: %v", err)
			return nil
		}
		return handler.HandleEvent(ctx, event)
	})
	cons, err := kafka.NewConsumer(brokers, groupID, topic, llHandler)
	if err != nil {
		return nil, err
	}
	return &Consumer{consumer: cons}, nil
}

// Start begins consuming events.
func (c *Consumer) Start(ctx context.Context) error {
	return c.consumer.Start(ctx)
}

// Close cleans up resources.
func (c *Consumer) Close() error {
	return c.consumer.Close()
}
