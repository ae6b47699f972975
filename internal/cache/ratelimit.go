package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
)

// rateLimitTTL bounds how long an idle client's bucket survives.
const rateLimitTTL = 10 * time.Second

// Limit describes a token bucket: RPS tokens refill per second up to Burst.
type Limit struct {
	RPS   int
	Burst int
}

// RateLimitResult contains the result of a rate limit check.
type RateLimitResult struct {
	Allowed    bool
	Limit      int
	Remaining  int64
	ResetAt    time.Time
	RetryAfter time.Duration
}

// tokenBucketScript refills and consumes in one atomic step.
// Returns {allowed, retry_after_seconds, remaining_tokens}.
var tokenBucketScript = redis.NewScript(`
	local key = KEYS[1]
	local rate = tonumber(ARGV[1])
	local burst = tonumber(ARGV[2])
	local now = tonumber(ARGV[3])
	local ttl = tonumber(ARGV[4])

	local data = redis.call('HMGET', key, 'tokens', 'last_update')
	local tokens = tonumber(data[1]) or burst
	local last_update = tonumber(data[2]) or now

	tokens = math.min(burst, tokens + ((now - last_update) * rate))

	local allowed = 0
	local retry_after = 0

	if tokens >= 1 then
		tokens = tokens - 1
		allowed = 1
	else
		retry_after = math.ceil((1 - tokens) / rate)
	end

	redis.call('HSET', key, 'tokens', tokens, 'last_update', now)
	redis.call('EXPIRE', key, ttl)

	return {allowed, retry_after, math.floor(tokens)}
`)

// CheckIPRateLimit takes one token from the bucket of the given client IP.
// The IP is hashed so raw addresses never reach Redis.
//
// On Redis failure the returned result allows the request and err says why;
// callers decide whether to log it.
func (c *Cache) CheckIPRateLimit(ctx context.Context, ip string, limit Limit) (*RateLimitResult, error) {
	now := time.Now()

	reply, err := tokenBucketScript.Run(ctx, c.client,
		[]string{key("ratelimit", "ip", hashIP(ip))},
		limit.RPS, limit.Burst, now.Unix(), int(rateLimitTTL.Seconds()),
	).Int64Slice()
	if err != nil {
		return failOpen(limit, now), fmt.Errorf("rate limit script: %w", err)
	}

	return parseBucketReply(reply, limit, now)
}

// parseBucketReply converts the script reply into a RateLimitResult.
func parseBucketReply(reply []int64, limit Limit, now time.Time) (*RateLimitResult, error) {
	if len(reply) != 3 {
		return failOpen(limit, now), fmt.Errorf("rate limit script: unexpected reply length %d", len(reply))
	}

	retryAfter := time.Duration(reply[1]) * time.Second
	remaining := reply[2]

	// Time until the bucket is full again.
	missing := float64(int64(limit.Burst) - remaining)
	refill := time.Duration(math.Ceil(missing/float64(limit.RPS))) * time.Second

	return &RateLimitResult{
		Allowed:    reply[0] == 1,
		Limit:      limit.Burst,
		Remaining:  remaining,
		ResetAt:    now.Add(refill),
		RetryAfter: retryAfter,
	}, nil
}

func failOpen(limit Limit, now time.Time) *RateLimitResult {
	return &RateLimitResult{
		Allowed:   true,
		Limit:     limit.Burst,
		Remaining: int64(limit.Burst),
		ResetAt:   now,
	}
}

// hashIP creates a truncated SHA256 hash of an IP address.
func hashIP(ip string) string {
	hash := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(hash[:8])
}
