// Command api is the Scoracle Props API server.
//
// Usage:
//
//	scoracle-props-api
//	API_PORT=8080 scoracle-props-api

// @title Scoracle Props API
// @version 1.0.0
// @description NFL player prop scoring: multi-book odds normalized into 0-100 scores with explanations, plus a matchup blender.
// @host localhost:8000
// @BasePath /
// @schemes http https
// @contact.name Scoracle
// @license.name MIT
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

	"github.com/joho/godotenv"

	"github.com/albapepper/scoracle-props/internal/api"
	"github.com/albapepper/scoracle-props/internal/app"
	"github.com/albapepper/scoracle-props/internal/config"
	"github.com/albapepper/scoracle-props/internal/maintenance"

	_ "github.com/albapepper/scoracle-props/docs" // swagger docs
)

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	logger := cfg.NewLogger(os.Stdout)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a, err := app.Build(ctx, cfg, logger, app.Options{Database: true})
	if err != nil {
		logger.Error("Failed to build services", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	// Keep the odds cache warm between user requests (disabled by default)
	if a.Odds.HasKey() {
		go maintenance.Start(ctx, a.Games, a.Finder, maintenance.Config{
			WarmGamesInterval:     cfg.WarmGamesInterval,
			WarmDiscoveryInterval: cfg.WarmDiscoveryInterval,
		}, logger)
	}

	deps, settings := a.HandlerDeps()
	router := api.NewRouter(deps, settings, cfg)

	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second, // find-props probes many events
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Starting Scoracle Props API",
			"addr", addr,
			"environment", cfg.Environment,
			"docs", fmt.Sprintf("http://localhost:%d/docs/", cfg.APIPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("Server stopped")
}
