package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"roomrequests/config"
	_ "roomrequests/docs"
	"roomrequests/internal/adapters/auth"
	"roomrequests/internal/adapters/email"
	"roomrequests/internal/adapters/notify"
	deliveryhttp "roomrequests/internal/delivery/http"
	"roomrequests/internal/delivery/http/controllers"
	"roomrequests/internal/delivery/http/middleware"
	"roomrequests/internal/domain"
	"roomrequests/internal/repository/localkv"
	"roomrequests/internal/repository/memory"
	"roomrequests/internal/repository/postgres"
	"roomrequests/internal/services"
	"roomrequests/internal/validator"
)

// verificationOriginKey identifies the single verification record row when the
// postgres store is selected.
const verificationOriginKey = "default"

// @title Room Requests API
// @version 1.0
// @description Room booking request manager with email-verified submissions.
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Exit(1)
	}
	logger := config.NewLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bookingRepo := memory.NewBookingRepository()

	var verificationRepo domain.VerificationRepository
	switch cfg.VerificationStore {
	case "postgres":
		db, err := sql.Open("postgres", cfg.DBUrl)
		if err != nil {
			logger.Error("failed to open database", "err", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			logger.Error("failed to reach database", "err", err)
			os.Exit(1)
		}
		verificationRepo = postgres.NewVerificationRepository(db, verificationOriginKey)
		logger.Info("verification store: postgres")
	default:
		verificationRepo = localkv.NewVerificationRepository(cfg.VerificationFile)
		logger.Info("verification store: file", "path", cfg.VerificationFile)
	}

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFrom,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:             cfg.SESRegion,
			AccessKeyID:        cfg.SESAccessKeyID,
			SecretAccessKey:    cfg.SESSecretAccessKey,
			InsecureSkipVerify: cfg.SESInsecureSkipVerify,
		},
	}, logger)
	if err != nil {
		logger.Error("failed to create mailer", "err", err)
		os.Exit(1)
	}
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer(), logger)

	verificationService := services.NewVerificationService(
		verificationRepo,
		bookingRepo,
		auth.NewCodeIssuer(cfg.TokenSecret),
		auth.NewCodeVerifier(cfg.TokenSecret),
		logger,
	)
	bookingService := services.NewBookingService(
		bookingRepo,
		verificationService,
		validator.NewBookingValidator(),
		emailService,
		notify.NewSlogNotifier(logger),
		logger,
		cfg.BaseURL,
	)

	if cfg.SeedDemoData {
		if err := seedDemoData(ctx, bookingRepo); err != nil {
			logger.Error("failed to seed demo data", "err", err)
			os.Exit(1)
		}
		logger.Info("demo data seeded")
	}

	bookingController := controllers.NewBookingController(logger, bookingService)
	verificationController := controllers.NewVerificationController(logger, verificationService)

	mux := deliveryhttp.NewRouter(bookingController, verificationController)
	fallback := domain.User{ID: cfg.DemoUserID, Name: cfg.DemoUserName}
	handler := middleware.CORS(cfg.CORSOrigins,
		middleware.LoggingMiddleware(logger,
			middleware.Identity(fallback, mux)))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server exited", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "err", err)
	}
}
