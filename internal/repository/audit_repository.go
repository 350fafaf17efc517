package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/netip"

	"github.com/jackc/pgx/v5/pgxpool"
)

// AuditEvent represents a protocol audit event (otp_issued, otp_verify_failed, etc.)
type AuditEvent struct {
	EventType     string                 // otp_issued, otp_delivery_failed, otp_verified, otp_verify_rejected
	Email         string                 // Owner email
	ClientIP      string                 // Client IP address
	UserAgent     string                 // Browser/client UA
	Success       bool                   // Event succeeded?
	FailureReason string                 // Reason for failure (if any)
	Metadata      map[string]interface{} // Additional data (record id, provider status, etc.)
}

// AuditRepository defines audit logging operations
type AuditRepository interface {
	LogEvent(ctx context.Context, event AuditEvent) error
}

type auditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(pool *pgxpool.Pool) AuditRepository {
	return &auditRepository{pool: pool}
}

func (r *auditRepository) LogEvent(ctx context.Context, event AuditEvent) error {
	details, err := json.Marshal(event.Metadata)
	if err != nil {
		details = []byte("{}")
	}

	var clientIP *netip.Addr
	if ip, err := netip.ParseAddr(event.ClientIP); err == nil {
		clientIP = &ip
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO audit_log (event_type, email, ip_address, user_agent, success, failure_reason, details)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7)`,
		event.EventType, event.Email, clientIP, event.UserAgent, event.Success, event.FailureReason, details,
	)
	if err != nil {
		return fmt.Errorf("failed to log audit event: %w", err)
	}
	return nil
}
