package verification

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/aquaadapt/verification-api/internal/domain"
	"github.com/aquaadapt/verification-api/internal/repository"
)

// VerificationRepository defines verification record data operations
type VerificationRepository interface {
	Create(ctx context.Context, record *domain.VerificationRecord) (uuid.UUID, error)
	GetActiveByEmail(ctx context.Context, email string, now time.Time) ([]*domain.VerificationRecord, error)
	MarkConsumed(ctx context.Context, id uuid.UUID, consumedAt time.Time) (bool, error)
}

// AuditRepository defines audit logging operations
type AuditRepository interface {
	LogEvent(ctx context.Context, event repository.AuditEvent) error
}

// EmailSender defines the delivery gateway boundary
type EmailSender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// RedisClient defines the consumed-code marker operations
type RedisClient interface {
	MarkOTPConsumed(ctx context.Context, email, code string, ttl time.Duration) error
	IsOTPConsumed(ctx context.Context, email, code string) (bool, error)
}
