package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aquaadapt/verification-api/internal/config"
	"github.com/aquaadapt/verification-api/internal/middleware"
)

func NewRouter(
	cfg *config.Config,
	healthHandler *HealthHandler,
	otpHandler *OTPHandler,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware (order matters!)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.SecurityHeaders(cfg.Server.HTTPS))
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS(cfg.CORS))

	// Health endpoints (no auth required)
	r.GET("/health", healthHandler.Shallow)
	r.GET("/health/ready", healthHandler.Ready)

	// Prometheus metrics endpoint (restrict to internal IPs in production)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		otp := v1.Group("/otp")
		{
			otp.POST("/send", otpHandler.Send)
			otp.POST("/verify", otpHandler.Verify)
		}
	}

	return r
}
