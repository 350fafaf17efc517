package apperror

import (
	"fmt"
	"net/http"
)

// ErrorType identifies the category of error
type ErrorType string

const (
	TypeValidation    ErrorType = "validation_error"
	TypeVerification  ErrorType = "verification_error"
	TypeMisconfigured ErrorType = "misconfigured"
	TypeStorage       ErrorType = "storage_error"
	TypeDelivery      ErrorType = "delivery_error"
	TypeNotFound      ErrorType = "not_found"
	TypeInternal      ErrorType = "internal_error"
)

// AppError represents RFC 7807 Problem Details
type AppError struct {
	Type      string `json:"type"`
	Title     string `json:"title"`
	Status    int    `json:"status"`
	Detail    string `json:"detail"`
	Instance  string `json:"instance,omitempty"`
	Action    string `json:"action,omitempty"`
	RequestID string `json:"request_id,omitempty"`
	err       error  // internal error for logging
}

func (e *AppError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.Title, e.err)
	}
	return e.Title
}

func (e *AppError) Unwrap() error {
	return e.err
}

func (e *AppError) WithError(err error) *AppError {
	e.err = err
	return e
}

func (e *AppError) WithRequestID(id string) *AppError {
	e.RequestID = id
	return e
}

func (e *AppError) WithInstance(instance string) *AppError {
	e.Instance = instance
	return e
}

// Factory functions, one per taxonomy boundary

// ValidationError covers malformed or missing input, rejected before any side effect.
func ValidationError(detail, action string) *AppError {
	return &AppError{
		Type:   "https://aquaadapt.com/errors/validation",
		Title:  "Invalid request",
		Status: http.StatusBadRequest,
		Detail: detail,
		Action: action,
	}
}

// VerificationError is the single unified rejection for wrong, expired and
// already-used codes. It deliberately does not distinguish between them.
func VerificationError() *AppError {
	return &AppError{
		Type:   "https://aquaadapt.com/errors/verification",
		Title:  "Verification failed",
		Status: http.StatusUnauthorized,
		Detail: "Invalid or expired verification code",
		Action: "Request a new code and try again",
	}
}

// MisconfiguredError covers absent provider configuration. Not retryable by the
// caller; logged distinctly from delivery failures.
func MisconfiguredError(detail string) *AppError {
	return &AppError{
		Type:   "https://aquaadapt.com/errors/misconfigured",
		Title:  "Service misconfigured",
		Status: http.StatusInternalServerError,
		Detail: detail,
		Action: "Contact support if the problem persists",
	}
}

// StorageError covers a failed durable write. The issuance attempt is fatal and
// no delivery is attempted.
func StorageError(detail string) *AppError {
	return &AppError{
		Type:   "https://aquaadapt.com/errors/storage",
		Title:  "Storage failure",
		Status: http.StatusInternalServerError,
		Detail: detail,
		Action: "Please retry the request",
	}
}

// DeliveryError covers a provider rejection or transport failure. The record
// already exists, so the caller may request a fresh code.
func DeliveryError(detail string) *AppError {
	return &AppError{
		Type:   "https://aquaadapt.com/errors/delivery",
		Title:  "Delivery failed",
		Status: http.StatusInternalServerError,
		Detail: detail,
		Action: "Please request a new code",
	}
}

func NotFoundError(resource string) *AppError {
	return &AppError{
		Type:   "https://aquaadapt.com/errors/not-found",
		Title:  "Not found",
		Status: http.StatusNotFound,
		Detail: fmt.Sprintf("%s not found", resource),
		Action: "Check the request and try again",
	}
}

func InternalError(detail, action string) *AppError {
	return &AppError{
		Type:   "https://aquaadapt.com/errors/internal",
		Title:  "Internal error",
		Status: http.StatusInternalServerError,
		Detail: detail,
		Action: action,
	}
}

func ServiceUnavailableError(detail, action string) *AppError {
	return &AppError{
		Type:   "https://aquaadapt.com/errors/service-unavailable",
		Title:  "Service unavailable",
		Status: http.StatusServiceUnavailable,
		Detail: detail,
		Action: action,
	}
}
