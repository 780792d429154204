package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	goRedis "github.com/redis/go-redis/v9"

	"github.com/voteagora/near-merkle-claim/internal/domain/campaign"
	"github.com/voteagora/near-merkle-claim/internal/observability/metrics"
	"github.com/voteagora/near-merkle-claim/scripts/lua"
)

// Client wraps go-redis and implements the atomic half of the campaign
// store: the per-campaign claimed set and remaining pool balance.
type Client struct {
	rdb            *goRedis.Client
	claimScript    *goRedis.Script
	withdrawScript *goRedis.Script
}

// New creates a Redis client and verifies connectivity.
func New(addr string) (*Client, error) {
	rdb := goRedis.NewClient(&goRedis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &Client{
		rdb:            rdb,
		claimScript:    goRedis.NewScript(lua.ClaimScript),
		withdrawScript: goRedis.NewScript(lua.WithdrawScript),
	}, nil
}

// Close shuts down the underlying Redis client.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Seed primes the campaign keys: empty claimed set, claim end meta and
// the claimable pool balance.
func (c *Client) Seed(ctx context.Context, campaignID int64, claimEnd time.Time, pool uint64) error {
	start := time.Now()
	defer metrics.ObserveRedisOperation("seed_campaign", time.Since(start))
	pipe := c.rdb.TxPipeline()
	pipe.Del(ctx, c.ClaimedKey(campaignID))
	pipe.HSet(ctx, c.MetaKey(campaignID), "claim_end", claimEnd.Unix())
	pipe.Set(ctx, c.BalanceKey(campaignID), pool, 0)
	_, err := pipe.Exec(ctx)
	return err
}

// IsClaimed reports whether the identity is already in the claimed set.
func (c *Client) IsClaimed(ctx context.Context, campaignID int64, identity string) (bool, error) {
	start := time.Now()
	defer metrics.ObserveRedisOperation("is_claimed", time.Since(start))
	return c.rdb.SIsMember(ctx, c.ClaimedKey(campaignID), identity).Result()
}

// Claim runs the claim script: window, membership and balance checks
// plus the mark-claimed and debit, all in one atomic step.
func (c *Client) Claim(ctx context.Context, campaignID int64, identity string, amount uint64, now time.Time) (campaign.ClaimOutcome, error) {
	start := time.Now()
	defer metrics.ObserveRedisOperation("run_claim_script", time.Since(start))
	keys := []string{
		c.ClaimedKey(campaignID),
		c.MetaKey(campaignID),
		c.BalanceKey(campaignID),
	}
	result, err := c.claimScript.Run(ctx, c.rdb, keys, identity, now.Unix(), amount).Result()
	if err != nil {
		return campaign.ClaimOutcome{}, err
	}
	arr, ok := result.([]interface{})
	if !ok || len(arr) != 2 {
		return campaign.ClaimOutcome{}, fmt.Errorf("unexpected claim script response: %v", result)
	}
	return campaign.ClaimOutcome{
		Status:    fmt.Sprintf("%v", arr[0]),
		Remaining: parseBalance(arr[1]),
	}, nil
}

// Withdraw atomically drains the pool balance and returns the amount
// that was left.
func (c *Client) Withdraw(ctx context.Context, campaignID int64) (uint64, error) {
	start := time.Now()
	defer metrics.ObserveRedisOperation("run_withdraw_script", time.Since(start))
	result, err := c.withdrawScript.Run(ctx, c.rdb, []string{c.BalanceKey(campaignID)}).Result()
	if err != nil {
		return 0, err
	}
	return parseBalance(result), nil
}

// ClaimedKey returns the Redis key of the campaign's claimed set.
func (c *Client) ClaimedKey(campaignID int64) string {
	return fmt.Sprintf("campaign:%d:claimed", campaignID)
}

// BalanceKey returns the Redis key of the remaining pool balance.
func (c *Client) BalanceKey(campaignID int64) string {
	return fmt.Sprintf("campaign:%d:balance", campaignID)
}

// MetaKey returns the Redis key of the campaign meta hash.
func (c *Client) MetaKey(campaignID int64) string {
	return fmt.Sprintf("campaign:%d:meta", campaignID)
}

func parseBalance(value interface{}) uint64 {
	switch v := value.(type) {
	case int64:
		if v < 0 {
			return 0
		}
		return uint64(v)
	case string:
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}
