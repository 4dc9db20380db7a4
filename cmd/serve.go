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
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xingkongliang/text-to-speech-app/internal/api"
	"github.com/xingkongliang/text-to-speech-app/internal/auth"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP and WebSocket shell",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runServe(addr)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default SERVER_ADDR or 127.0.0.1:8080)")

	return cmd
}

func runServe(addr string) error {
	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.close()
	logger := a.logger

	if addr == "" {
		addr = a.cfg.ServerAddr
	}
	if err := a.cfg.CheckListenAddr(addr); err != nil {
		return err
	}
	if err := os.MkdirAll(a.cfg.SaveDir, 0o755); err != nil {
		return fmt.Errorf("failed to create save directory: %w", err)
	}

	var issuer *auth.TokenIssuer
	if a.cfg.ShellJWTSecret != "" {
		issuer, err = auth.NewTokenIssuer(a.cfg.ShellJWTSecret, auth.DefaultTokenTTL)
		if err != nil {
			return err
		}
		logger.Info("Shell token guard enabled")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go a.hub.Run(ctx)

	e := newHTTPServer(a.cfg.CORSOrigins, api.Dependencies{
		Speech:    a.speech,
		Artifacts: a.artifacts,
		Hub:       a.hub,
		Issuer:    issuer,
		SaveDir:   a.cfg.SaveDir,
		Labels:    a.labels,
		Logger:    logger,
	})

	// Graceful shutdown
	serveErr := make(chan error, 1)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	logger.Info("Server started",
		zap.String("addr", addr),
		zap.String("saveDir", a.cfg.SaveDir),
		zap.Strings("corsOrigins", a.cfg.CORSOrigins))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		logger.Error("Server failed", zap.Error(err))
		return err
	case <-quit:
	}

	logger.Info("Server is shutting down...")

	// Abandon any in-flight synthesis
	a.speech.Session().Cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
		return err
	}

	logger.Info("Server exited")
	return nil
}

// newHTTPServer builds the Echo instance. Cross-origin requests are only
// answered for the configured origins.
func newHTTPServer(corsOrigins []string, deps api.Dependencies) *echo.Echo {
	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	if len(corsOrigins) > 0 {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: corsOrigins,
		}))
	}

	// Initialize API routes
	api.InitRoutes(e, deps)
	return e
}
