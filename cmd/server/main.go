package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	accounthandler "portal-xml/backend/internal/account/handler"
	accountrepo "portal-xml/backend/internal/account/repository"
	accountservice "portal-xml/backend/internal/account/service"
	"portal-xml/backend/internal/audit"
	auditrepo "portal-xml/backend/internal/audit/repository"
	challengerepo "portal-xml/backend/internal/challenge/repository"
	"portal-xml/backend/internal/config"
	"portal-xml/backend/internal/db"
	"portal-xml/backend/internal/devotp"
	devotphandler "portal-xml/backend/internal/devotp/handler"
	healthhandler "portal-xml/backend/internal/health/handler"
	"portal-xml/backend/internal/notify"
	recoveryhandler "portal-xml/backend/internal/recovery/handler"
	recoveryservice "portal-xml/backend/internal/recovery/service"
	"portal-xml/backend/internal/security"
	"portal-xml/backend/internal/server"
	"portal-xml/backend/internal/server/middleware"
	"portal-xml/backend/internal/telemetry"
	"portal-xml/backend/internal/telemetry/otel"
)

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Str("service", "portal-xml").Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("config")
	}

	sqlDB, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("db open")
	}
	defer sqlDB.Close()

	ctx := context.Background()
	providers, err := otel.NewProviders(ctx, cfg.OTLPEndpoint, "portal-xml", cfg.OTLPInsecure)
	if err != nil {
		logger.Fatal().Err(err).Msg("telemetry setup")
	}
	providers.SetGlobal()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = providers.Shutdown(shutdownCtx)
	}()

	metrics, err := telemetry.NewRecoveryMetrics(providers.MeterProvider.Meter("portal-xml/backend"))
	if err != nil {
		logger.Fatal().Err(err).Msg("metrics setup")
	}

	accounts := accountrepo.NewPostgresRepository(sqlDB)
	challenges := challengerepo.NewPostgresRepository(sqlDB)
	auditRepo := auditrepo.NewPostgresRepository(sqlDB)

	kafkaEmitter := audit.NewKafkaEmitter(cfg.AuditKafkaBrokersList(), cfg.AuditKafkaTopic)
	defer kafkaEmitter.Close()
	auditor := audit.NewRecorder(auditRepo, middleware.GetClientIP, kafkaEmitter)

	var notifier notify.Notifier = notify.NewEmailNotifier(
		cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword,
		cfg.EmailFrom, cfg.EmailEnabled, accounts,
	)

	// Without a mailer the codes exist only as digests; capture them for
	// retrieval via /dev/otp. Never enabled in production.
	var devHandler *devotphandler.Server
	if cfg.Env != "production" && !cfg.EmailEnabled {
		store := devotp.NewMemoryStore()
		notifier = devotp.NewCaptureNotifier(notifier, store)
		devHandler = devotphandler.NewServer(store)
		logger.Warn().Msg("dev OTP retrieval enabled at /dev/otp")
	}

	secret := []byte(cfg.SecretKey)
	hasher := security.NewHasher(cfg.BcryptCost)
	policy := security.DefaultPasswordPolicy()

	recoverySvc := recoveryservice.NewRecoveryService(
		challenges,
		accounts,
		notifier,
		security.NewResetTokenCodec(secret, nil),
		policy,
		hasher,
		nil,
		auditor,
		metrics,
		nil,
	)
	authSvc := accountservice.NewAuthService(
		accounts,
		hasher,
		policy,
		security.NewAccessTokenCodec(secret, nil),
		auditor,
	)

	router := server.NewRouter(server.Deps{
		Recovery: recoveryhandler.NewRecoveryHandler(recoverySvc, logger),
		Auth:     accounthandler.NewAuthHandler(authSvc, logger),
		Health:   healthhandler.NewServer(sqlDB),
		Dev:      devHandler,
	}, logger)

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("serve")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown")
	}
	// Give in-flight audit fan-out goroutines a chance to flush.
	time.Sleep(audit.ShutdownDrainDuration)
	logger.Info().Msg("HTTP server stopped")
}
