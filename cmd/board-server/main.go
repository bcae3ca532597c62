// Package main provides the entry point for the odds board server.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/oddsboard/internal/board"
	"github.com/yourusername/oddsboard/internal/config"
	"github.com/yourusername/oddsboard/internal/health"
	"github.com/yourusername/oddsboard/internal/logger"
	"github.com/yourusername/oddsboard/internal/metrics"
	"github.com/yourusername/oddsboard/internal/models"
	"github.com/yourusername/oddsboard/internal/provider"
	"github.com/yourusername/oddsboard/internal/ratings"
	"github.com/yourusername/oddsboard/internal/scheduler"
	"github.com/yourusername/oddsboard/internal/server"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			log.Fatalf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			log.Fatalf("Failed to load secrets: %v", err)
		}
	}

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	appLog := logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"log_level":   cfg.App.LogLevel,
		"leagues":     cfg.Providers.Leagues,
	}).Info("Odds board server starting")

	metrics.InitRegistry()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Ratings store and predictor
	var (
		predictor    board.Predictor
		ratingsStore ratings.Store
	)
	if cfg.Ratings.Enabled {
		if cfg.Ratings.Backend == "postgres" {
			pg, err := ratings.NewPostgresStore(ctx, cfg.RatingsDSN())
			if err != nil {
				appLog.WithError(err).Fatal("Failed to connect to ratings store")
			}
			defer pg.Close()
			ratingsStore = pg
			appLog.Info("Postgres ratings store connected")
		} else {
			ratingsStore = ratings.NewMemoryStore()
			appLog.Info("In-memory ratings store initialized")
		}
		predictor = ratings.NewPredictor(ratingsStore)
	}

	// Providers and board service
	factory := provider.NewFactory(cfg, appLog)
	httpClient := factory.NewHTTPClient()
	boards := board.NewService(cfg, appLog, factory.ScheduleSources(httpClient), factory.OddsSources(httpClient), predictor)

	// Websocket hub and HTTP surface
	hub := server.NewHub(appLog)
	go hub.Run(ctx)

	handler := server.NewHandler(boards, hub, appLog)
	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      server.NewRouter(cfg, handler),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSec) * time.Second,
	}

	// Health server
	healthServer := health.NewServer(health.Config{
		ServiceName: cfg.App.Name,
		Version:     version,
		Commit:      commit,
		Port:        cfg.Health.Port,
		Logger:      appLog,
		Ratings:     ratingsStore,
	})
	if err := healthServer.Start(ctx); err != nil {
		appLog.WithError(err).Fatal("Failed to start health server")
	}

	// Scheduled refreshes
	var leagues []models.League
	for _, raw := range cfg.Providers.Leagues {
		if league, ok := models.ParseLeague(raw); ok {
			leagues = append(leagues, league)
		}
	}
	sched := scheduler.NewScheduler(boards, hub, appLog)
	if err := sched.ScheduleBoardRefresh(cfg.Refresh.Cron, leagues); err != nil {
		appLog.WithError(err).Fatal("Failed to schedule board refresh")
	}
	if err := sched.Start(); err != nil {
		appLog.WithError(err).Fatal("Failed to start scheduler")
	}

	go func() {
		appLog.WithField("port", cfg.Server.Port).Info("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.WithError(err).Fatal("HTTP server failed")
		}
	}()

	healthServer.SetReady(true)
	appLog.Info("Odds board server is running")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	appLog.WithField("signal", sig).Info("Shutdown signal received")

	healthServer.SetReady(false)
	if err := sched.Stop(); err != nil {
		appLog.WithError(err).Error("Error stopping scheduler")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLog.WithError(err).Error("Error during HTTP server shutdown")
	}

	cancel()
	appLog.Info("Odds board server shut down successfully")
}
