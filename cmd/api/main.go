package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/aquaadapt/verification-api/internal/config"
	"github.com/aquaadapt/verification-api/internal/handler"
	infraRedis "github.com/aquaadapt/verification-api/internal/infrastructure/redis"
	"github.com/aquaadapt/verification-api/internal/infrastructure/sendgrid"
	"github.com/aquaadapt/verification-api/internal/repository"
	"github.com/aquaadapt/verification-api/internal/service/verification"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	slog.Info("Starting AquaAdapt verification API...")

	// Local development convenience; absent .env is fine
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Config load failed", slog.Any("error", err))
		os.Exit(1)
	}

	ctx := context.Background()

	db, err := repository.NewDB(ctx, cfg.Database)
	if err != nil {
		slog.Error("Database connection failed", slog.Any("error", err))
		os.Exit(1)
	}

	redisClient, err := infraRedis.NewClient(infraRedis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		slog.Error("Redis connection failed", slog.Any("error", err))
		os.Exit(1)
	}
	slog.Info("Redis connected")

	zapLogger, err := zap.NewProduction()
	if err != nil {
		slog.Error("Logger init failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer zapLogger.Sync()

	mailer := sendgrid.NewClient(sendgrid.Config{
		APIKey:         cfg.SendGrid.APIKey,
		SenderEmail:    cfg.SendGrid.SenderEmail,
		SenderName:     cfg.SendGrid.SenderName,
		BaseURL:        cfg.SendGrid.BaseURL,
		RequestTimeout: cfg.SendGrid.RequestTimeout,
	}, zapLogger)
	if cfg.SendGrid.APIKey == "" {
		slog.Warn("SendGrid API key not configured; issuance will fail until it is set")
	}

	verificationRepo := repository.NewVerificationRepository(db.Pool)
	auditRepo := repository.NewAuditRepository(db.Pool)

	verificationService := verification.NewService(verificationRepo, auditRepo, mailer, redisClient)
	slog.Info("Verification service initialized")

	healthHandler := handler.NewHealthHandler(db, redisClient)
	otpHandler := handler.NewOTPHandler(verificationService)

	router := handler.NewRouter(cfg, healthHandler, otpHandler)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		slog.Info("Server starting", slog.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	srv.Shutdown(shutdownCtx)
	redisClient.Close()
	db.Close()
	slog.Info("Server stopped")
}
