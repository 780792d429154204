package campaign

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/voteagora/near-merkle-claim/internal/merkle"
	"github.com/voteagora/near-merkle-claim/internal/observability/metrics"
)

// Service orchestrates the claim state machine: campaign lifecycle,
// proof verification, atomic claimed-set mutation and payout.
type Service struct {
	store     Store
	state     ClaimState
	transfers Transferer
	events    EventPublisher
	now       func() time.Time
}

// NewService wires dependencies.
func NewService(store Store, state ClaimState, transfers Transferer, events EventPublisher) *Service {
	return &Service{
		store:     store,
		state:     state,
		transfers: transfers,
		events:    events,
		now:       time.Now,
	}
}

// CreateInput captures campaign creation payload.
type CreateInput struct {
	Caller     string
	MerkleRoot merkle.Hash
	ClaimEnd   time.Time
	Funding    uint64
}

// ClaimInput captures a claim attempt.
type ClaimInput struct {
	CampaignID int64
	Identity   string
	Amount     uint64
	Proof      []merkle.ProofStep
}

// ClaimResult reports a successful claim.
type ClaimResult struct {
	Amount    uint64
	Remaining uint64
}

// Initialize sets the one-time contract configuration.
func (s *Service) Initialize(ctx context.Context, owner string, minReserve uint64) error {
	if owner == "" {
		return errors.New("owner identity is required")
	}
	return s.store.InitConfig(ctx, owner, minReserve)
}

// Config returns the contract configuration.
func (s *Service) Config(ctx context.Context) (*ContractConfig, error) {
	return s.store.GetConfig(ctx)
}

// CreateCampaign persists a new campaign, seeds its claimable pool and
// emits the create event carrying the committed root.
func (s *Service) CreateCampaign(ctx context.Context, in CreateInput) (int64, error) {
	cfg, err := s.store.GetConfig(ctx)
	if err != nil {
		return 0, err
	}
	if in.Caller != cfg.Owner {
		return 0, ErrUnauthorized
	}
	if in.MerkleRoot == (merkle.Hash{}) {
		return 0, errors.New("merkle root is required")
	}
	if !in.ClaimEnd.After(s.now()) {
		return 0, errors.New("claim end must be in the future")
	}
	if in.Funding < cfg.MinStorageReserve {
		return 0, fmt.Errorf("funding %d is below the minimum storage reserve %d", in.Funding, cfg.MinStorageReserve)
	}

	id, err := s.store.InsertCampaign(ctx, in.MerkleRoot, in.ClaimEnd, in.Funding)
	if err != nil {
		return 0, err
	}
	pool := in.Funding - cfg.MinStorageReserve
	if err := s.state.Seed(ctx, id, in.ClaimEnd, pool); err != nil {
		return 0, err
	}
	s.publish(ctx, Event{
		Type:       EventCreateCampaign,
		CampaignID: id,
		MerkleRoot: hex.EncodeToString(in.MerkleRoot[:]),
		ClaimEnd:   in.ClaimEnd.Unix(),
		Timestamp:  s.now().UTC(),
	})
	return id, nil
}

// GetCampaign looks up a campaign record.
func (s *Service) GetCampaign(ctx context.Context, id int64) (*Campaign, error) {
	return s.store.GetCampaign(ctx, id)
}

// Claim verifies a membership proof and, in one atomic step, marks the
// identity claimed and debits the pool before initiating the payout.
// The mark happens before the transfer: a failed transfer leaves the
// identity claimed and requires manual intervention, it never reopens
// the claim for a second attempt.
func (s *Service) Claim(ctx context.Context, in ClaimInput) (*ClaimResult, error) {
	if in.Identity == "" {
		return nil, errors.New("identity is required")
	}

	c, err := s.store.GetCampaign(ctx, in.CampaignID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if !now.Before(c.ClaimEnd) {
		metrics.ObserveClaim(StatusWindowClosed)
		return nil, ErrClaimWindowClosed
	}
	claimed, err := s.state.IsClaimed(ctx, in.CampaignID, in.Identity)
	if err != nil {
		return nil, err
	}
	if claimed {
		metrics.ObserveClaim(StatusAlreadyClaimed)
		return nil, ErrAlreadyClaimed
	}
	leaf := merkle.LeafHash(in.Identity, in.Amount)
	if !merkle.Verify(c.MerkleRoot, leaf, in.Proof) {
		metrics.ObserveClaim("INVALID_PROOF")
		return nil, ErrInvalidProof
	}

	// The script re-checks window, membership and balance so that the
	// check-and-mark is a single serializable step.
	out, err := s.state.Claim(ctx, in.CampaignID, in.Identity, in.Amount, now)
	if err != nil {
		return nil, err
	}
	metrics.ObserveClaim(out.Status)
	switch out.Status {
	case StatusCampaignNotFound:
		return nil, ErrNotFound
	case StatusWindowClosed:
		return nil, ErrClaimWindowClosed
	case StatusAlreadyClaimed:
		return nil, ErrAlreadyClaimed
	case StatusInsufficientFunds:
		return nil, ErrInsufficientFunds
	case StatusOK:
	default:
		return nil, fmt.Errorf("unexpected claim status %q", out.Status)
	}

	if err := s.transfers.Transfer(ctx, in.Identity, in.Amount, fmt.Sprintf("claim campaign=%d", in.CampaignID)); err != nil {
		// State already committed. Surface the failure for manual
		// intervention instead of unmarking the claim.
		return nil, fmt.Errorf("transfer for claimed identity %s on campaign %d failed: %w", in.Identity, in.CampaignID, err)
	}
	s.publish(ctx, Event{
		Type:       EventClaim,
		CampaignID: in.CampaignID,
		Identity:   in.Identity,
		Amount:     in.Amount,
		Timestamp:  now.UTC(),
	})
	return &ClaimResult{Amount: in.Amount, Remaining: out.Remaining}, nil
}

// WithdrawRemaining drains the campaign's remaining pool to the owner
// once the claim window has closed. A second call finds an empty pool
// and fails with ErrNothingToWithdraw.
func (s *Service) WithdrawRemaining(ctx context.Context, caller string, campaignID int64) (uint64, error) {
	cfg, err := s.store.GetConfig(ctx)
	if err != nil {
		return 0, err
	}
	if caller != cfg.Owner {
		return 0, ErrUnauthorized
	}
	c, err := s.store.GetCampaign(ctx, campaignID)
	if err != nil {
		return 0, err
	}
	if s.now().Before(c.ClaimEnd) {
		return 0, ErrWithdrawTooEarly
	}

	amount, err := s.state.Withdraw(ctx, campaignID)
	if err != nil {
		return 0, err
	}
	if amount == 0 {
		return 0, ErrNothingToWithdraw
	}
	if err := s.store.RecordWithdrawal(ctx, campaignID, amount); err != nil {
		log.Printf("campaign service: failed to record withdrawal for campaign=%d amount=%d: %v", campaignID, amount, err)
	}
	if err := s.transfers.Transfer(ctx, cfg.Owner, amount, fmt.Sprintf("withdraw campaign=%d", campaignID)); err != nil {
		return 0, fmt.Errorf("transfer of withdrawn balance for campaign %d failed: %w", campaignID, err)
	}
	s.publish(ctx, Event{
		Type:       EventWithdraw,
		CampaignID: campaignID,
		Identity:   cfg.Owner,
		Amount:     amount,
		Timestamp:  s.now().UTC(),
	})
	return amount, nil
}

// publish pushes an event onto the log. Event delivery is best effort:
// the state transition already committed, a lost event only leaves a
// gap for indexers to backfill.
func (s *Service) publish(ctx context.Context, event Event) {
	if err := s.events.Publish(ctx, event); err != nil {
		log.Printf("campaign service: failed to publish %s event for campaign=%d: %v", event.Type, event.CampaignID, err)
	}
}
