package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/octobees/contactdesk/internal/auth"
	"github.com/octobees/contactdesk/internal/config"
	"github.com/octobees/contactdesk/internal/handler"
	"github.com/octobees/contactdesk/internal/logging"
	"github.com/octobees/contactdesk/internal/notify"
	"github.com/octobees/contactdesk/internal/router"
	"github.com/octobees/contactdesk/internal/service"
	"github.com/octobees/contactdesk/internal/web"
)

const shutdownTimeout = 10 * time.Second

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	startCtx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	contactsRepo, closeStore, err := openStore(startCtx, cfg, cfg.AutoMigrate, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	sender, senderName, err := notify.SelectSender(notify.SMTPConfig{
		Host:     cfg.Mail.SMTPHost,
		Port:     cfg.Mail.SMTPPort,
		Username: cfg.Mail.SMTPUsername,
		Password: cfg.Mail.SMTPPassword,
	}, cfg.Mail.RelayURL, logger)
	if err != nil {
		return fmt.Errorf("configure notifications: %w", err)
	}
	dispatcher := notify.NewDispatcher(notify.Config{
		AdminEmail: cfg.Mail.AdminEmail,
		FromEmail:  cfg.Mail.FromEmail,
		QueueSize:  cfg.Mail.QueueSize,
		Workers:    cfg.Mail.Workers,
		Timeout:    cfg.Mail.Timeout,
	}, sender, logger)
	logger.Info("notifications configured", zap.String("sender", senderName), zap.String("admin", cfg.Mail.AdminEmail))

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)

	validator := service.NewContactValidator(cfg.PhoneRegion, service.WithRequireOtherService(cfg.RequireOtherService))
	contactsService := service.NewContactsService(contactsRepo, validator, dispatcher)
	authService := service.NewAuthService(cfg.Staff, jwtManager)
	if !authService.Enabled() {
		logger.Warn("staff auth disabled; contact list and status updates are public")
	}

	renderer, err := web.NewRenderer()
	if err != nil {
		return fmt.Errorf("load templates: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer

	router.Register(e, cfg, jwtManager, logger, router.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Contacts: handler.NewContactsHandler(contactsService, logger),
		Pages:    handler.NewPagesHandler(contactsService, authService, jwtManager.TTL(), logger),
	}, router.Options{
		StaffAuth: authService.Enabled(),
		CSRF:      true,
	})

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("port", cfg.Port))
		serverErr <- e.Start(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			dispatcher.Close(context.Background())
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	if err := dispatcher.Close(shutdownCtx); err != nil {
		logger.Warn("notification queue not drained", zap.Error(err))
	}
	return nil
}
