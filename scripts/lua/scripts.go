// Package lua holds the Redis scripts that make campaign state
// transitions single atomic steps.
package lua

// ClaimScript re-checks the claim window, the claimed set and the pool
// balance and applies the mark-claimed plus debit in one script, so at
// most one of two racing claims for the same identity can pass.
// KEYS[1] = claimed set, KEYS[2] = campaign meta hash, KEYS[3] = pool balance.
// ARGV[1] = identity, ARGV[2] = unix now, ARGV[3] = amount.
const ClaimScript = `
if redis.call('EXISTS', KEYS[2]) == 0 then
    return {'CAMPAIGN_NOT_FOUND', 0}
end
local claim_end = tonumber(redis.call('HGET', KEYS[2], 'claim_end'))
if tonumber(ARGV[2]) >= claim_end then
    return {'WINDOW_CLOSED', 0}
end
if redis.call('SISMEMBER', KEYS[1], ARGV[1]) == 1 then
    return {'ALREADY_CLAIMED', 0}
end
local amount = tonumber(ARGV[3])
local balance = tonumber(redis.call('GET', KEYS[3]) or '0')
if balance < amount then
    return {'INSUFFICIENT_FUNDS', balance}
end
redis.call('SADD', KEYS[1], ARGV[1])
local remaining = redis.call('DECRBY', KEYS[3], amount)
return {'OK', remaining}
`

// WithdrawScript drains the pool balance and returns what was left.
// Draining and zeroing happen in one script so a repeated withdrawal
// observes an empty pool. KEYS[1] = pool balance.
const WithdrawScript = `
local balance = tonumber(redis.call('GET', KEYS[1]) or '0')
if balance > 0 then
    redis.call('SET', KEYS[1], 0)
end
return balance
`
