package campaign

import "errors"

// ErrNotFound indicates an unknown campaign identifier.
var ErrNotFound = errors.New("campaign not found")

// ErrUnauthorized indicates the caller is not the contract owner.
var ErrUnauthorized = errors.New("caller is not the owner")

// ErrClaimWindowClosed indicates a claim at or after the campaign's claim end.
var ErrClaimWindowClosed = errors.New("claim window closed")

// ErrWithdrawTooEarly indicates a withdrawal before the claim end.
var ErrWithdrawTooEarly = errors.New("claim window still open")

// ErrAlreadyClaimed indicates the identity already claimed from this campaign.
var ErrAlreadyClaimed = errors.New("identity already claimed")

// ErrInvalidProof indicates the recomputed root does not match the committed root.
var ErrInvalidProof = errors.New("invalid merkle proof")

// ErrInsufficientFunds indicates the campaign pool cannot cover a proven claim.
// This is a funding misconfiguration, not a normal adversarial path.
var ErrInsufficientFunds = errors.New("insufficient campaign funds")

// ErrAlreadyInitialized indicates a second initialization attempt.
var ErrAlreadyInitialized = errors.New("contract already initialized")

// ErrNotInitialized indicates the contract config has not been set yet.
var ErrNotInitialized = errors.New("contract not initialized")

// ErrNothingToWithdraw indicates the campaign pool was already drained.
var ErrNothingToWithdraw = errors.New("nothing to withdraw")
