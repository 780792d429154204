package campaign

import "time"

// Event types emitted on the campaign event log. The create event is
// the only on-chain-discoverable record of a campaign's merkle root;
// the full recipient list is never published.
const (
	EventCreateCampaign = "create_campaign"
	EventClaim          = "claim"
	EventWithdraw       = "withdraw"
)

// Event is the wire envelope for all campaign events.
type Event struct {
	Type       string    `json:"event"`
	CampaignID int64     `json:"campaign_id"`
	MerkleRoot string    `json:"merkle_root,omitempty"`
	ClaimEnd   int64     `json:"claim_end,omitempty"`
	Identity   string    `json:"identity,omitempty"`
	Amount     uint64    `json:"amount,omitempty"`
	Timestamp  time.Time `json:"ts"`
}
