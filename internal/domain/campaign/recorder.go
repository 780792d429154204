package campaign

import (
	"context"
	"log"
	"time"

	"github.com/voteagora/near-merkle-claim/internal/observability/metrics"
)

// ClaimLogStore persists claim events for indexers. InsertClaimLog
// reports false when the (campaign, identity) pair was already logged.
type ClaimLogStore interface {
	InsertClaimLog(ctx context.Context, campaignID int64, identity string, amount uint64, claimedAt time.Time) (bool, error)
}

// Recorder indexes events from the event log into durable storage.
type Recorder struct {
	store ClaimLogStore
}

// NewRecorder builds a recorder.
func NewRecorder(store ClaimLogStore) *Recorder {
	return &Recorder{store: store}
}

// HandleEvent processes one event from the log. Claim events become
// claim log rows; the unique (campaign, identity) constraint there is
// the durable backstop for claim-once, so duplicate deliveries are
// logged and dropped rather than retried.
func (r *Recorder) HandleEvent(ctx context.Context, event Event) error {
	start := time.Now()
	defer metrics.ObserveConsumerProcessing(event.Type, time.Since(start))

	switch event.Type {
	case EventClaim:
		inserted, err := r.store.InsertClaimLog(ctx, event.CampaignID, event.Identity, event.Amount, event.Timestamp)
		if err != nil {
			log.Printf("recorder: failed to insert claim log for campaign=%d identity=%s: %v", event.CampaignID, event.Identity, err)
			return err
		}
		if !inserted {
			log.Printf("recorder: duplicate claim event for campaign=%d identity=%s", event.CampaignID, event.Identity)
		}
		return nil
	case EventCreateCampaign, EventWithdraw:
		// Already durable on the API side; nothing to index.
		return nil
	default:
		log.Printf("recorder: unknown event type %q", event.Type)
		return nil
	}
}
