package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/accountserv/accountserv/internal/config"
	httpserver "github.com/accountserv/accountserv/internal/http"
	"github.com/accountserv/accountserv/internal/notification"
	"github.com/accountserv/accountserv/pkg/domain"
	"github.com/accountserv/accountserv/pkg/register"
	"github.com/accountserv/accountserv/pkg/repository"
)

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Select account store
	var repo repository.AccountRepository
	if cfg.HasPostgres() {
		db, err := repository.NewDB(repository.Config{
			Host:     cfg.DBHost,
			Port:     cfg.DBPort,
			User:     cfg.DBUser,
			Password: cfg.DBPassword,
			DBName:   cfg.DBName,
			SSLMode:  cfg.DBSSLMode,
		})
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		repo = repository.NewPostgresRepository(db)
		logger.Info("connected to database")
	} else {
		repo = repository.NewMemoryRepository()
		logger.Warn("no database configured, accounts will not survive restarts")
	}

	// Initialize mail delivery if configured
	var mailer register.Mailer
	if cfg.HasSMTP() {
		mailer = notification.NewEmailService(notification.EmailConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			User:     cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
			FromName: cfg.SMTPFromName,
		})
		logger.Info("mail delivery enabled")
	}

	// Initialize the registration workflow
	registerService, err := register.NewService(register.Config{
		MaxPerAddress:       cfg.MaxPerAddress,
		DefaultFlags:        cfg.DefaultFlags,
		RequireVerification: cfg.RequireVerification,
		HashingAvailable:    cfg.CredentialHashing,
		VerificationWindow:  cfg.VerificationWindow,
		DeliveryTimeout:     cfg.DeliveryTimeout,
	}, repo, nil, mailer, logger)
	if err != nil {
		logger.Error("failed to initialize registration service", "error", err)
		os.Exit(1)
	}

	registerService.Subscribe(func(acct *domain.Account) {
		logger.Debug("registration event", "account", acct.Name)
	})

	// Create router
	router := httpserver.NewRouter(httpserver.RouterConfig{
		Logger:           logger,
		RegisterService:  registerService,
		RateLimitEnabled: cfg.RateLimitEnabled,
		RateLimitPerMin:  cfg.RateLimitPerMin,
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.ServerAddr, cfg.ServerPort)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("starting server", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown failed", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
