package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/bonos-api/internal/application/service"
	"github.com/sangkips/bonos-api/internal/config"
	"github.com/sangkips/bonos-api/internal/infrastructure/database"
	"github.com/sangkips/bonos-api/internal/infrastructure/repository"
	"github.com/sangkips/bonos-api/internal/presentation/http/handler"
	"github.com/sangkips/bonos-api/internal/presentation/http/middleware"
	"github.com/sangkips/bonos-api/internal/presentation/http/routes"
	"github.com/sangkips/bonos-api/internal/presentation/http/validation"
	"github.com/sangkips/bonos-api/pkg/email"
	"github.com/sangkips/bonos-api/pkg/logger"
	"github.com/sangkips/bonos-api/pkg/utils"
	"github.com/shopspring/decimal"
)

const cleanupInterval = time.Hour

func main() {
	// Load configuration
	cfg := config.Load()
	logger.Init(cfg.Log.Level)

	// Amounts are JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	validation.Register()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	db, err := database.NewDB(&cfg.Database, cfg.App.Debug)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed the administrator account
	if err := database.SeedDefaultData(db, cfg.Admin); err != nil {
		slog.Warn("failed to seed default data", "error", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.AccessExpiry, cfg.JWT.RefreshExpiry)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	passwordResetRepo := repository.NewPasswordResetTokenRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)
	clientRepo := repository.NewClientRepository(db)
	vendorRepo := repository.NewVendorRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	reportRepo := repository.NewReportRepository(db)

	// Initialize email service
	emailService := email.NewEmailService(email.EmailConfig{
		SMTPHost:     cfg.Email.SMTPHost,
		SMTPPort:     cfg.Email.SMTPPort,
		SMTPUsername: cfg.Email.SMTPUsername,
		SMTPPassword: cfg.Email.SMTPPassword,
		FromName:     cfg.Email.FromName,
		FromEmail:    cfg.Email.FromEmail,
		FrontendURL:  cfg.Email.FrontendURL,
		AppName:      cfg.App.Name,
	})
	if !emailService.Enabled() {
		slog.Warn("SMTP_HOST is not set, account e-mails are disabled")
	}

	// Initialize services
	bonusCache := service.NewBonusCache(cfg.Bonus.CacheTTL)
	authService := service.NewAuthService(userRepo, passwordResetRepo, jwtManager, emailService, cfg.Auth.PasswordMaxAge)
	userService := service.NewUserService(userRepo, emailService)
	clientService := service.NewClientService(clientRepo, invoiceRepo, bonusCache)
	vendorService := service.NewVendorService(vendorRepo, assignmentRepo, clientRepo, invoiceRepo, bonusCache)
	invoiceService := service.NewInvoiceService(invoiceRepo, vendorRepo, clientRepo, assignmentRepo, bonusCache)
	bonusService := service.NewBonusService(invoiceRepo, assignmentRepo, bonusCache)
	reportService := service.NewReportService(reportRepo, bonusService)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:    handler.NewAuthHandler(authService),
		User:    handler.NewUserHandler(userService),
		Client:  handler.NewClientHandler(clientService),
		Vendor:  handler.NewVendorHandler(vendorService),
		Invoice: handler.NewInvoiceHandler(invoiceService),
		Bonus:   handler.NewBonusHandler(bonusService),
		Report:  handler.NewReportHandler(reportService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		RateLimiter:     middleware.NewRateLimiter(ctx, middleware.NewRateLimiterConfig(cfg.RateLimit.Requests, cfg.RateLimit.Duration)),
	})

	go runCleanup(ctx, cleanupInterval, map[string]purgeFunc{
		"idempotency_keys":      idempotencyRepo.PurgeExpired,
		"password_reset_tokens": passwordResetRepo.PurgeExpired,
	})

	// Get port from environment or use default
	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("starting server", "app", cfg.App.Name, "port", port, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}

type purgeFunc func(ctx context.Context, now time.Time) (int64, error)

// runCleanup purges expired idempotency keys and reset tokens until ctx is done
func runCleanup(ctx context.Context, every time.Duration, purges map[string]purgeFunc) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			for table, purge := range purges {
				n, err := purge(ctx, now)
				if err != nil {
					slog.Warn("cleanup failed", "table", table, "error", err)
					continue
				}
				if n > 0 {
					slog.Info("purged expired rows", "table", table, "rows", n)
				}
			}
		}
	}
}
