package events

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/voteagora/near-merkle-claim/internal/domain/campaign"
	"github.com/voteagora/near-merkle-claim/internal/kafka"
)

// Publisher serializes campaign events onto the Kafka event log.
type Publisher struct {
	producer *kafka.Producer
}

// NewPublisher constructs a Publisher.
func NewPublisher(producer *kafka.Producer) *Publisher {
	return &Publisher{producer: producer}
}

// Publish pushes a campaign event, keyed by campaign id.
func (p *Publisher) Publish(ctx context.Context, event campaign.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.producer.Send(ctx, strconv.FormatInt(event.CampaignID, 10), payload)
}
