package campaign

import (
	"context"
	"time"

	"github.com/voteagora/near-merkle-claim/internal/merkle"
)

// Campaign is one funded, time-bounded claim round committed to by a
// single Merkle root. Root and claim end are immutable after creation.
type Campaign struct {
	ID         int64
	MerkleRoot merkle.Hash
	ClaimEnd   time.Time
	Funded     uint64
	CreatedAt  time.Time
}

// ContractConfig is the one-time contract configuration.
type ContractConfig struct {
	Owner             string
	MinStorageReserve uint64
	InitializedAt     time.Time
}

// Store is the durable half of the campaign store.
type Store interface {
	InitConfig(ctx context.Context, owner string, minReserve uint64) error
	GetConfig(ctx context.Context) (*ContractConfig, error)
	InsertCampaign(ctx context.Context, root merkle.Hash, claimEnd time.Time, funded uint64) (int64, error)
	GetCampaign(ctx context.Context, id int64) (*Campaign, error)
	RecordWithdrawal(ctx context.Context, campaignID int64, amount uint64) error
}

// Claim script status values shared with the atomic claim state.
const (
	StatusOK                = "OK"
	StatusAlreadyClaimed    = "ALREADY_CLAIMED"
	StatusWindowClosed      = "WINDOW_CLOSED"
	StatusInsufficientFunds = "INSUFFICIENT_FUNDS"
	StatusCampaignNotFound  = "CAMPAIGN_NOT_FOUND"
)

// ClaimOutcome is the result of the atomic claim step.
type ClaimOutcome struct {
	Status    string
	Remaining uint64
}

// ClaimState is the hot half of the campaign store: the claimed set and
// the remaining pool, mutated in single atomic steps so two racing
// claims for one identity can never both pass.
type ClaimState interface {
	Seed(ctx context.Context, campaignID int64, claimEnd time.Time, pool uint64) error
	IsClaimed(ctx context.Context, campaignID int64, identity string) (bool, error)
	Claim(ctx context.Context, campaignID int64, identity string, amount uint64, now time.Time) (ClaimOutcome, error)
	Withdraw(ctx context.Context, campaignID int64) (uint64, error)
}

// Transferer moves native value to a recipient account. Provided by the
// hosting platform; in this deployment a payout ledger stands in.
type Transferer interface {
	Transfer(ctx context.Context, recipient string, amount uint64, reason string) error
}

// EventPublisher pushes campaign events onto the discoverable event log.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}
