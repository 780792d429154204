package db

// schemaSQL creates the contract tables. The single-row check on
// contract_config enforces one-time initialization at the storage
// level; the unique pair on claim_log is the durable backstop for
// claim-once.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS contract_config (
    id SMALLINT PRIMARY KEY DEFAULT 1 CHECK (id = 1),
    owner_identity TEXT NOT NULL,
    min_storage_reserve BIGINT NOT NULL,
    initialized_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS campaign (
    id BIGSERIAL PRIMARY KEY,
    merkle_root BYTEA NOT NULL,
    claim_end TIMESTAMPTZ NOT NULL,
    funded_balance BIGINT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS claim_log (
    id BIGSERIAL PRIMARY KEY,
    campaign_id BIGINT NOT NULL,
    identity TEXT NOT NULL,
    amount BIGINT NOT NULL,
    claimed_at TIMESTAMPTZ NOT NULL,
    UNIQUE (campaign_id, identity)
);

CREATE TABLE IF NOT EXISTS withdrawal (
    id BIGSERIAL PRIMARY KEY,
    campaign_id BIGINT NOT NULL,
    amount BIGINT NOT NULL,
    withdrawn_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS payout (
    id BIGSERIAL PRIMARY KEY,
    recipient TEXT NOT NULL,
    amount BIGINT NOT NULL,
    reason TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`
