package redis

import (
	"context"
	"fmt"
	"time"
)

// Key patterns
const (
	otpUsedKeyPattern = "otp_used:%s:%s" // email:code
)

// OTPUsedKey generates the key marking a consumed verification code
func OTPUsedKey(email, code string) string {
	return fmt.Sprintf(otpUsedKeyPattern, email, code)
}

// MarkOTPConsumed stamps a consumed code so later attempts with the same
// (email, code) pair can be rejected without a database round trip. The TTL
// should be the record's remaining life; after that the store rejects it as
// expired anyway. The Postgres consumed_at column stays the source of truth.
func (c *Client) MarkOTPConsumed(ctx context.Context, email, code string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return c.Set(ctx, OTPUsedKey(email, code), "consumed", ttl)
}

// IsOTPConsumed reports whether the (email, code) pair was already consumed.
// A Redis failure reads as "unknown", letting the store make the call.
func (c *Client) IsOTPConsumed(ctx context.Context, email, code string) (bool, error) {
	return c.Exists(ctx, OTPUsedKey(email, code))
}
