// Package main provides the entry point for the puckcast daemon.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/openrink/puckcast/internal/config"
	"github.com/openrink/puckcast/internal/database"
	"github.com/openrink/puckcast/internal/health"
	"github.com/openrink/puckcast/internal/logger"
	"github.com/openrink/puckcast/internal/metrics"
	"github.com/openrink/puckcast/internal/rankfeed"
	"github.com/openrink/puckcast/internal/repository"
	"github.com/openrink/puckcast/internal/scheduler"
	"github.com/openrink/puckcast/internal/service"
	"github.com/openrink/puckcast/internal/tracing"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

func main() {
	// Load configuration
	cfg, err := config.Load("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Load AWS secrets if enabled
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

	// Validate configuration
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Set up logging
	appLog := logger.NewLogger(cfg.App.LogLevel)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"season":      cfg.Compute.Season,
		"variant":     cfg.Compute.RatingVariant,
		"version":     Version,
	}).Info("Puckcast daemon starting")

	// Metrics registry
	var metricsHandler http.Handler
	if cfg.Metrics.Enabled {
		registry := metrics.InitRegistry()
		rankfeed.RegisterMetrics(registry)
		metricsHandler = metrics.Handler()
	}

	// Distributed tracing
	if err := tracing.Initialize(tracing.Config{
		ServiceName: cfg.App.Name,
		Enabled:     os.Getenv("AWS_XRAY_ENABLED") == "true",
		DaemonAddr:  os.Getenv("AWS_XRAY_DAEMON_ADDRESS"),
	}, appLog); err != nil {
		appLog.WithError(err).Warn("Failed to initialize tracing")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database and run migrations
	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(context.Background()); err != nil {
			appLog.WithError(err).Error("Failed to close database connection")
		}
	}()
	appLog.Info("Database connection established")

	// Initialize repositories
	repos, err := repository.NewRepositories(db)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to initialize repositories")
	}

	// Ranking feed client
	feedLogger := log.New(os.Stdout, "rankfeed: ", log.LstdFlags)
	httpConfig := rankfeed.DefaultHTTPClientConfig()
	httpConfig.Timeout = cfg.FeedTimeout()
	httpConfig.MaxRetries = cfg.RankFeed.RetryAttempts
	httpConfig.RateLimit = cfg.RankFeed.RequestsPerSecond
	httpConfig.Burst = cfg.RankFeed.Burst
	httpClient := rankfeed.NewRateLimitedHTTPClient(httpConfig, feedLogger)
	source := rankfeed.NewCompositeRankClient(httpClient,
		cfg.RankFeed.APIURL, cfg.RankFeed.APIKey, compositeEnabled(cfg), feedLogger)

	// Services
	boardCache := service.NewBoardCache(cfg.BoardCacheTTL(),
		time.Duration(cfg.Board.CachePurgeSeconds)*time.Second)

	computeSvc, err := service.NewComputeService(repos, &cfg.Compute, boardCache, appLog)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to create compute service")
	}
	ingestSvc := service.NewRankIngestService(source, repos.Team, repos.Snapshot, cfg.Compute.Season, appLog)
	boardSvc := service.NewOddsBoardService(repos.Snapshot, repos.Forecast, boardCache,
		&cfg.Board, cfg.Compute.Season, appLog)

	// Scheduler
	schedLogger := log.New(os.Stdout, "scheduler: ", log.LstdFlags)
	sched := scheduler.NewScheduler(computeSvc, ingestSvc, schedLogger)
	if err := sched.ScheduleNightlyRecompute(cfg.Ingestion.Schedule.NightlyRecompute, cfg.RecomputeTimeout()); err != nil {
		appLog.WithError(err).Fatal("Failed to schedule nightly recompute")
	}
	if err := sched.ScheduleFeedPolling(cfg.Ingestion.Schedule.FeedPollIntervalSeconds); err != nil {
		appLog.WithError(err).Fatal("Failed to schedule feed polling")
	}
	if err := sched.ScheduleTrendingBaseline(cfg.Ingestion.Schedule.TrendingBaseline); err != nil {
		appLog.WithError(err).Fatal("Failed to schedule trending baseline")
	}
	if err := sched.Start(); err != nil {
		appLog.WithError(err).Fatal("Failed to start scheduler")
	}

	// Push stream for rank movement, on top of the polling baseline
	var stream *rankfeed.StreamClient
	if cfg.Features.StreamEnabled {
		streamLogger := log.New(os.Stdout, "rankstream: ", log.LstdFlags)
		stream = rankfeed.NewStreamClient(cfg.RankFeed.StreamURL, cfg.RankFeed.StreamToken, streamLogger)
		stream.RegisterHandler(func(msg rankfeed.StreamMessage) error {
			return ingestSvc.HandleStreamMessage(ctx, &msg)
		})
		go func() {
			if err := stream.Listen(ctx, cfg.Compute.Season); err != nil {
				appLog.WithError(err).Error("Ranking stream terminated")
			}
		}()
	}

	// Health and board server
	healthServer := health.NewServer(health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Commit:      GitCommit,
		Port:        cfg.Daemon.HealthPort,
		Logger:      appLog,
		DB:          db,
		Board:       boardSvc,
		Metrics:     metricsHandler,
	})
	if err := healthServer.Start(ctx); err != nil {
		appLog.WithError(err).Fatal("Failed to start health server")
	}

	// Prime the field on startup so the board is live before the first
	// scheduled poll.
	go func() {
		pollCtx, pollCancel := context.WithTimeout(ctx, cfg.FeedTimeout())
		defer pollCancel()
		if _, err := ingestSvc.Poll(pollCtx); err != nil {
			appLog.WithError(err).Warn("Initial feed poll failed")
		}
	}()

	healthServer.SetReady(true)
	appLog.WithFields(logrus.Fields{
		"stream_enabled":     cfg.Features.StreamEnabled,
		"poll_interval_s":    cfg.Ingestion.Schedule.FeedPollIntervalSeconds,
		"nightly_recompute":  cfg.Ingestion.Schedule.NightlyRecompute,
		"snapshot_retention": cfg.Compute.SnapshotRetention,
	}).Info("Puckcast daemon running")

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	appLog.WithField("signal", sig).Info("Shutdown signal received")

	healthServer.SetReady(false)
	cancel()

	if err := sched.Stop(); err != nil {
		appLog.WithError(err).Error("Error during scheduler shutdown")
	}
	if stream != nil {
		if err := stream.Close(); err != nil {
			appLog.WithError(err).Error("Error closing ranking stream")
		}
	}

	// Give in-flight requests time to drain
	time.Sleep(time.Duration(cfg.Daemon.ShutdownGraceSeconds) * time.Second)

	appLog.Info("Puckcast daemon shut down successfully")
}

// compositeEnabled reads the enabled flag for the composite source from the
// ingestion config, defaulting to on when the source is not listed
func compositeEnabled(cfg *config.Config) bool {
	for _, src := range cfg.Ingestion.Sources {
		if src.Name == "composite" {
			return src.Enabled
		}
	}
	return true
}
