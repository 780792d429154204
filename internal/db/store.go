package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/voteagora/near-merkle-claim/internal/domain/campaign"
	"github.com/voteagora/near-merkle-claim/internal/merkle"
	"github.com/voteagora/near-merkle-claim/internal/observability/metrics"
)

// Store wraps a pgx connection pool and exposes typed helpers. It is
// the durable half of the campaign store.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a Store backed by a pgx pool.
func New(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

// Close releases underlying connections.
func (s *Store) Close() {
	s.pool.Close()
}

// Ping verifies connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// EnsureSchema guarantees required tables exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	start := time.Now()
	defer metrics.ObserveDBOperation("ensure_schema", time.Since(start))
	_, err := s.pool.Exec(ctx, schemaSQL)
	return err
}

// InitConfig stores the one-time contract configuration. A second call
// fails with campaign.ErrAlreadyInitialized.
func (s *Store) InitConfig(ctx context.Context, owner string, minReserve uint64) error {
	start := time.Now()
	defer metrics.ObserveDBOperation("init_config", time.Since(start))
	cmdTag, err := s.pool.Exec(ctx, `
        INSERT INTO contract_config (id, owner_identity, min_storage_reserve)
        VALUES (1, $1, $2)
        ON CONFLICT (id) DO NOTHING
    `, owner, int64(minReserve))
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return campaign.ErrAlreadyInitialized
	}
	return nil
}

// GetConfig loads the contract configuration.
func (s *Store) GetConfig(ctx context.Context) (*campaign.ContractConfig, error) {
	start := time.Now()
	defer metrics.ObserveDBOperation("get_config", time.Since(start))
	var cfg campaign.ContractConfig
	var reserve int64
	err := s.pool.QueryRow(ctx, `
        SELECT owner_identity, min_storage_reserve, initialized_at
        FROM contract_config
        WHERE id = 1
    `).Scan(&cfg.Owner, &reserve, &cfg.InitializedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, campaign.ErrNotInitialized
	}
	if err != nil {
		return nil, err
	}
	cfg.MinStorageReserve = uint64(reserve)
	return &cfg, nil
}

// InsertCampaign persists a campaign record and returns its identifier.
func (s *Store) InsertCampaign(ctx context.Context, root merkle.Hash, claimEnd time.Time, funded uint64) (int64, error) {
	start := time.Now()
	defer metrics.ObserveDBOperation("insert_campaign", time.Since(start))
	var id int64
	if err := s.pool.QueryRow(ctx, `
        INSERT INTO campaign (merkle_root, claim_end, funded_balance)
        VALUES ($1, $2, $3)
        RETURNING id
    `, root[:], claimEnd, int64(funded)).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// GetCampaign fetches one campaign record.
func (s *Store) GetCampaign(ctx context.Context, id int64) (*campaign.Campaign, error) {
	start := time.Now()
	defer metrics.ObserveDBOperation("get_campaign", time.Since(start))
	var c campaign.Campaign
	var root []byte
	var funded int64
	err := s.pool.QueryRow(ctx, `
        SELECT id, merkle_root, claim_end, funded_balance, created_at
        FROM campaign
        WHERE id = $1
    `, id).Scan(&c.ID, &root, &c.ClaimEnd, &funded, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, campaign.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if len(root) != merkle.HashSize {
		return nil, fmt.Errorf("campaign %d has malformed merkle root of %d bytes", id, len(root))
	}
	copy(c.MerkleRoot[:], root)
	c.Funded = uint64(funded)
	return &c, nil
}

// InsertClaimLog stores a claim event for indexers. Returns false when
// the (campaign, identity) pair was already logged; the unique
// constraint keeps replayed events from producing a second row.
func (s *Store) InsertClaimLog(ctx context.Context, campaignID int64, identity string, amount uint64, claimedAt time.Time) (bool, error) {
	start := time.Now()
	defer metrics.ObserveDBOperation("insert_claim_log", time.Since(start))
	cmdTag, err := s.pool.Exec(ctx, `
        INSERT INTO claim_log (campaign_id, identity, amount, claimed_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (campaign_id, identity) DO NOTHING
    `, campaignID, identity, int64(amount), claimedAt)
	if err != nil {
		return false, err
	}
	return cmdTag.RowsAffected() > 0, nil
}

// RecordWithdrawal stores a withdrawal of residual campaign funds.
func (s *Store) RecordWithdrawal(ctx context.Context, campaignID int64, amount uint64) error {
	start := time.Now()
	defer metrics.ObserveDBOperation("record_withdrawal", time.Since(start))
	_, err := s.pool.Exec(ctx, `
        INSERT INTO withdrawal (campaign_id, amount)
        VALUES ($1, $2)
    `, campaignID, int64(amount))
	return err
}

// InsertPayout appends one row to the payout ledger.
func (s *Store) InsertPayout(ctx context.Context, recipient string, amount uint64, reason string) error {
	start := time.Now()
	defer metrics.ObserveDBOperation("insert_payout", time.Since(start))
	_, err := s.pool.Exec(ctx, `
        INSERT INTO payout (recipient, amount, reason)
        VALUES ($1, $2, $3)
    `, recipient, int64(amount), reason)
	return err
}
