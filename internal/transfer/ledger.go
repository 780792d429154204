// Package transfer is the boundary to the hosting platform's native
// value mover. The platform transfer itself is external; the ledger
// keeps the authoritative record of every payout this contract
// initiated.
package transfer

import (
	"context"
	"errors"

	"github.com/voteagora/near-merkle-claim/internal/db"
)

// Ledger records payouts in the database. It implements
// campaign.Transferer.
type Ledger struct {
	store *db.Store
}

// NewLedger builds a ledger on the durable store.
func NewLedger(store *db.Store) *Ledger {
	return &Ledger{store: store}
}

// Transfer appends a payout row. A failure here surfaces to the caller
// as a fatal transfer error; the claim state is left marked.
func (l *Ledger) Transfer(ctx context.Context, recipient string, amount uint64, reason string) error {
	if recipient == "" {
		return errors.New("recipient is required")
	}
	if amount == 0 {
		return nil
	}
	return l.store.InsertPayout(ctx, recipient, amount, reason)
}
