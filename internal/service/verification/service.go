package verification

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aquaadapt/verification-api/internal/domain"
	otpGen "github.com/aquaadapt/verification-api/internal/infrastructure/otp"
	"github.com/aquaadapt/verification-api/internal/infrastructure/sendgrid"
	"github.com/aquaadapt/verification-api/internal/pkg/apperror"
	"github.com/aquaadapt/verification-api/internal/repository"
)

// CodeTTL is the fixed validity window of an issued code. Not configurable
// per request.
const CodeTTL = 10 * time.Minute

// Service handles verification code issuance and verification
type Service struct {
	verificationRepo VerificationRepository
	auditRepo        AuditRepository
	mailer           EmailSender
	redisClient      RedisClient
}

// NewService creates a new verification service
func NewService(
	verificationRepo VerificationRepository,
	auditRepo AuditRepository,
	mailer EmailSender,
	redisClient RedisClient,
) *Service {
	return &Service{
		verificationRepo: verificationRepo,
		auditRepo:        auditRepo,
		mailer:           mailer,
		redisClient:      redisClient,
	}
}

// IssueRequest for sending a verification code
type IssueRequest struct {
	Email  string `json:"email" binding:"required,email"`
	Mobile string `json:"mobile"`
}

// IssueResponse for a successful issuance
type IssueResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// VerifyRequest for verifying a submitted code
type VerifyRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required"`
}

// VerifyResponse for a successful verification
type VerifyResponse struct {
	Success bool   `json:"success"`
	Status  string `json:"status"`
}

// Issue generates a code, durably persists it, then hands it to the email
// provider. The write happens-before delivery: a delivery failure leaves a
// valid, verifiable record behind.
func (s *Service) Issue(ctx context.Context, req IssueRequest, clientIP, userAgent string) (*IssueResponse, error) {
	if req.Email == "" {
		otpIssuedTotal.WithLabelValues("invalid_request").Inc()
		return nil, apperror.ValidationError("Email is required", "Provide a valid email address")
	}

	code, err := otpGen.GenerateCode()
	if err != nil {
		otpIssuedTotal.WithLabelValues("generator_error").Inc()
		return nil, apperror.InternalError("Could not generate verification code", "Please try again").WithError(err)
	}

	now := time.Now().UTC()
	record := &domain.VerificationRecord{
		Email:     req.Email,
		Code:      code,
		CreatedAt: now,
		ExpiresAt: now.Add(CodeTTL),
	}
	if req.Mobile != "" {
		record.Mobile = &req.Mobile
	}

	id, err := s.verificationRepo.Create(ctx, record)
	if err != nil {
		otpIssuedTotal.WithLabelValues("storage_error").Inc()
		slog.Error("Verification record write failed",
			slog.String("email", req.Email),
			slog.Any("error", err))
		return nil, apperror.StorageError("Could not store verification code").WithError(err)
	}

	start := time.Now()
	sendErr := s.mailer.Send(ctx, req.Email, emailSubject, renderOTPEmail(code))
	otpDeliveryLatency.Observe(time.Since(start).Seconds())

	if sendErr != nil {
		if errors.Is(sendErr, sendgrid.ErrMisconfigured) {
			otpIssuedTotal.WithLabelValues("misconfigured").Inc()
			slog.Error("Email provider not configured",
				slog.String("email", req.Email),
				slog.String("record_id", id.String()))
			s.logEvent(ctx, "otp_delivery_failed", req.Email, clientIP, userAgent, false, "misconfigured",
				map[string]interface{}{"record_id": id.String()})
			return nil, apperror.MisconfiguredError("Email service is not configured").WithError(sendErr)
		}

		// Provider rejection, transport failure or open circuit. The record
		// stays valid; the caller may request a fresh code.
		otpIssuedTotal.WithLabelValues("delivery_failed").Inc()
		slog.Error("Verification code delivery failed",
			slog.String("email", req.Email),
			slog.String("record_id", id.String()),
			slog.Any("error", sendErr))
		s.logEvent(ctx, "otp_delivery_failed", req.Email, clientIP, userAgent, false, "delivery_failed",
			map[string]interface{}{"record_id": id.String()})
		return nil, apperror.DeliveryError("Could not send verification email").WithError(sendErr)
	}

	otpIssuedTotal.WithLabelValues("success").Inc()
	s.logEvent(ctx, "otp_issued", req.Email, clientIP, userAgent, true, "",
		map[string]interface{}{"record_id": id.String(), "expires_at": record.ExpiresAt})

	return &IssueResponse{
		Success: true,
		Message: "Verification code sent",
	}, nil
}

// Verify checks a submitted code against the store. Wrong, expired and
// already-consumed codes all produce the same rejection so callers cannot
// tell which case occurred. When several outstanding codes match, the most
// recently issued one wins.
func (s *Service) Verify(ctx context.Context, req VerifyRequest, clientIP, userAgent string) (*VerifyResponse, error) {
	if req.Email == "" || req.Code == "" {
		return nil, apperror.ValidationError("Email and code are required", "Provide both email and code")
	}

	// Anything that is not 6 digits can never match; reject without touching
	// the store.
	if !otpGen.IsCodeFormat(req.Code) {
		return nil, s.reject(ctx, req, clientIP, userAgent, "malformed_code")
	}

	now := time.Now().UTC()

	// Fast path: a code consumed moments ago is still stamped in Redis. The
	// database consumed_at column remains the source of truth.
	if s.redisClient != nil {
		if used, err := s.redisClient.IsOTPConsumed(ctx, req.Email, req.Code); err == nil && used {
			return nil, s.reject(ctx, req, clientIP, userAgent, "replayed_code")
		}
	}

	records, err := s.verificationRepo.GetActiveByEmail(ctx, req.Email, now)
	if err != nil {
		otpVerifyTotal.WithLabelValues("error").Inc()
		slog.Error("Verification record lookup failed",
			slog.String("email", req.Email),
			slog.Any("error", err))
		return nil, apperror.StorageError("Could not look up verification code").WithError(err)
	}

	// Records arrive newest first; the first exact match is the most recently
	// issued one.
	var match *domain.VerificationRecord
	for _, rec := range records {
		if rec.Code == req.Code && rec.IsUsable(now) {
			match = rec
			break
		}
	}
	if match == nil {
		return nil, s.reject(ctx, req, clientIP, userAgent, "no_matching_code")
	}

	applied, err := s.verificationRepo.MarkConsumed(ctx, match.ID, now)
	if err != nil {
		otpVerifyTotal.WithLabelValues("error").Inc()
		return nil, apperror.StorageError("Could not update verification code").WithError(err)
	}
	if !applied {
		// A concurrent attempt consumed the record between read and update.
		// Indistinguishable from a non-matching code by design.
		return nil, s.reject(ctx, req, clientIP, userAgent, "concurrent_consume")
	}

	if s.redisClient != nil {
		if err := s.redisClient.MarkOTPConsumed(ctx, req.Email, req.Code, match.ExpiresAt.Sub(now)); err != nil {
			slog.Warn("Failed to stamp consumed code",
				slog.String("email", req.Email),
				slog.Any("error", err))
		}
	}

	otpVerifyTotal.WithLabelValues("accepted").Inc()
	s.logEvent(ctx, "otp_verified", req.Email, clientIP, userAgent, true, "",
		map[string]interface{}{"record_id": match.ID.String()})

	return &VerifyResponse{
		Success: true,
		Status:  "verified",
	}, nil
}

// reject emits the unified rejection. The internal reason is audited for
// operators but never reaches the caller.
func (s *Service) reject(ctx context.Context, req VerifyRequest, clientIP, userAgent, reason string) error {
	otpVerifyTotal.WithLabelValues("rejected").Inc()
	s.logEvent(ctx, "otp_verify_rejected", req.Email, clientIP, userAgent, false, reason, nil)
	return apperror.VerificationError()
}

func (s *Service) logEvent(ctx context.Context, eventType, email, clientIP, userAgent string, success bool, failureReason string, metadata map[string]interface{}) {
	if s.auditRepo == nil {
		return
	}
	event := repository.AuditEvent{
		EventType:     eventType,
		Email:         email,
		ClientIP:      clientIP,
		UserAgent:     userAgent,
		Success:       success,
		FailureReason: failureReason,
		Metadata:      metadata,
	}
	if err := s.auditRepo.LogEvent(ctx, event); err != nil {
		slog.Error("Failed to log audit event",
			slog.String("event_type", eventType),
			slog.Any("error", err))
	}
}
