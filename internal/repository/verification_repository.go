package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aquaadapt/verification-api/internal/domain"
)

// VerificationRepository defines verification record data operations.
// Records are append-only except for the single consumed transition.
type VerificationRepository interface {
	Create(ctx context.Context, record *domain.VerificationRecord) (uuid.UUID, error)
	GetActiveByEmail(ctx context.Context, email string, now time.Time) ([]*domain.VerificationRecord, error)
	MarkConsumed(ctx context.Context, id uuid.UUID, consumedAt time.Time) (bool, error)
}

type verificationRepository struct {
	pool *pgxpool.Pool
}

// NewVerificationRepository creates a new verification record repository
func NewVerificationRepository(pool *pgxpool.Pool) VerificationRepository {
	return &verificationRepository{pool: pool}
}

// Create durably persists a new verification record and returns its identity.
func (r *verificationRepository) Create(ctx context.Context, record *domain.VerificationRecord) (uuid.UUID, error) {
	id := record.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO otp_verifications (id, email, code, mobile, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		id, record.Email, record.Code, record.Mobile, record.CreatedAt, record.ExpiresAt,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create verification record: %w", err)
	}
	return id, nil
}

// GetActiveByEmail returns all unconsumed, unexpired records for an email,
// most recently issued first.
func (r *verificationRepository) GetActiveByEmail(ctx context.Context, email string, now time.Time) ([]*domain.VerificationRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, email, code, mobile, created_at, expires_at, consumed_at
		FROM otp_verifications
		WHERE email = $1 AND consumed_at IS NULL AND expires_at > $2
		ORDER BY created_at DESC`,
		email, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get active verification records: %w", err)
	}
	defer rows.Close()

	var records []*domain.VerificationRecord
	for rows.Next() {
		var rec domain.VerificationRecord
		if err := rows.Scan(&rec.ID, &rec.Email, &rec.Code, &rec.Mobile,
			&rec.CreatedAt, &rec.ExpiresAt, &rec.ConsumedAt); err != nil {
			return nil, fmt.Errorf("failed to scan verification record: %w", err)
		}
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read verification records: %w", err)
	}
	return records, nil
}

// MarkConsumed atomically flips a record from unconsumed to consumed.
// Returns false when the record was already consumed by a concurrent attempt,
// so two racing verifications can never both succeed.
func (r *verificationRepository) MarkConsumed(ctx context.Context, id uuid.UUID, consumedAt time.Time) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE otp_verifications
		SET consumed_at = $2
		WHERE id = $1 AND consumed_at IS NULL`,
		id, consumedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to mark verification record consumed: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
