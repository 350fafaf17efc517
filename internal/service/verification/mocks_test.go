package verification_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/aquaadapt/verification-api/internal/domain"
	"github.com/aquaadapt/verification-api/internal/repository"
)

// MockVerificationRepository mocks VerificationRepository interface
type MockVerificationRepository struct {
	mock.Mock
}

func (m *MockVerificationRepository) Create(ctx context.Context, record *domain.VerificationRecord) (uuid.UUID, error) {
	args := m.Called(ctx, record)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockVerificationRepository) GetActiveByEmail(ctx context.Context, email string, now time.Time) ([]*domain.VerificationRecord, error) {
	args := m.Called(ctx, email, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.VerificationRecord), args.Error(1)
}

func (m *MockVerificationRepository) MarkConsumed(ctx context.Context, id uuid.UUID, consumedAt time.Time) (bool, error) {
	args := m.Called(ctx, id, consumedAt)
	return args.Bool(0), args.Error(1)
}

// MockAuditRepository mocks AuditRepository interface
type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) LogEvent(ctx context.Context, event repository.AuditEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// MockEmailSender mocks the delivery gateway
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	args := m.Called(ctx, to, subject, htmlBody)
	return args.Error(0)
}

// MockRedisClient mocks the consumed-code marker
type MockRedisClient struct {
	mock.Mock
}

func (m *MockRedisClient) MarkOTPConsumed(ctx context.Context, email, code string, ttl time.Duration) error {
	args := m.Called(ctx, email, code, ttl)
	return args.Error(0)
}

func (m *MockRedisClient) IsOTPConsumed(ctx context.Context, email, code string) (bool, error) {
	args := m.Called(ctx, email, code)
	return args.Bool(0), args.Error(1)
}
