package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/aquaadapt/verification-api/internal/middleware"
	"github.com/aquaadapt/verification-api/internal/pkg/apperror"
	"github.com/aquaadapt/verification-api/internal/pkg/response"
	"github.com/aquaadapt/verification-api/internal/service/verification"
)

// OTPHandler handles verification code HTTP requests
type OTPHandler struct {
	service *verification.Service
}

// NewOTPHandler creates a new OTP handler
func NewOTPHandler(service *verification.Service) *OTPHandler {
	return &OTPHandler{service: service}
}

// Send handles POST /api/v1/otp/send
// Issues a verification code and emails it to the owner
func (h *OTPHandler) Send(c *gin.Context) {
	var req verification.IssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.ValidationError(
			"Email is required",
			"Provide a valid email address",
		).WithRequestID(c.GetString(middleware.RequestIDKey)))
		return
	}

	resp, err := h.service.Issue(c.Request.Context(), req, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		attachRequestID(c, err)
		response.ErrorFromErr(c, err)
		return
	}

	response.Success(c, resp)
}

// Verify handles POST /api/v1/otp/verify
// Checks a submitted code; rejections never reveal why
func (h *OTPHandler) Verify(c *gin.Context) {
	var req verification.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.ValidationError(
			"Email and code are required",
			"Provide both email and the 6-digit code",
		).WithRequestID(c.GetString(middleware.RequestIDKey)))
		return
	}

	resp, err := h.service.Verify(c.Request.Context(), req, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		attachRequestID(c, err)
		response.ErrorFromErr(c, err)
		return
	}

	response.Success(c, resp)
}

func attachRequestID(c *gin.Context, err error) {
	if appErr, ok := err.(*apperror.AppError); ok {
		appErr.WithRequestID(c.GetString(middleware.RequestIDKey))
	}
}
