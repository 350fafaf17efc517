package domain

import (
	"time"

	"github.com/google/uuid"
)

// VerificationRecord is one issued email verification code. Multiple records
// may exist for the same email; each is independent and consumed at most once.
type VerificationRecord struct {
	ID         uuid.UUID  `json:"id"`
	Email      string     `json:"email"`
	Code       string     `json:"-"` // Never expose the code
	Mobile     *string    `json:"mobile,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	ExpiresAt  time.Time  `json:"expires_at"`
	ConsumedAt *time.Time `json:"consumed_at,omitempty"`
}

// IsConsumed reports whether the record has already been used.
func (r *VerificationRecord) IsConsumed() bool {
	return r.ConsumedAt != nil
}

// IsExpired reports whether the record has passed its expiry at the given time.
func (r *VerificationRecord) IsExpired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}

// IsUsable reports whether the record can still satisfy a verification attempt.
func (r *VerificationRecord) IsUsable(now time.Time) bool {
	return !r.IsConsumed() && !r.IsExpired(now)
}
