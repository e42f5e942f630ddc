// Package main provides the one-shot recompute CLI tool.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/openrink/puckcast/internal/config"
	"github.com/openrink/puckcast/internal/database"
	"github.com/openrink/puckcast/internal/forecast"
	"github.com/openrink/puckcast/internal/models"
	"github.com/openrink/puckcast/internal/repository"
	"github.com/openrink/puckcast/internal/service"
)

func main() {
	var (
		configPath   = flag.String("config", "config/config.yaml", "Path to config file")
		snapshotPath = flag.String("snapshot", "", "Run offline against a snapshot JSON file instead of the database")
		output       = flag.String("output", "", "Write computed forecasts as JSON to this path")
		simulate     = flag.Bool("simulate", false, "Run a Monte Carlo check against the computed forecasts")
		trials       = flag.Int("trials", 0, "Monte Carlo trial count (0 uses the configured default)")
		seed         = flag.Int64("seed", 0, "Monte Carlo seed (0 seeds from the clock)")
	)
	flag.Parse()

	logger := newLogger()
	cfg := loadConfigWithSecrets(*configPath, logger)

	if *snapshotPath != "" {
		runOffline(cfg, *snapshotPath, *output, *simulate, *trials, *seed, logger)
		return
	}
	runOnline(cfg, *output, *simulate, *trials, *seed, logger)
}

func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	return logger
}

func loadConfigWithSecrets(path string, logger *logrus.Logger) *config.Config {
	cfg, err := config.Load(path)
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			logger.Fatalf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			logger.Fatalf("Failed to load secrets: %v", err)
		}
	}
	if err := config.Validate(cfg); err != nil {
		logger.Fatalf("Invalid configuration: %v", err)
	}
	return cfg
}

// runOnline executes a full pass against the database, exactly as the
// daemon's nightly job does
func runOnline(cfg *config.Config, output string, simulate bool, trials int, seed int64, logger *logrus.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.RecomputeTimeout())
	defer cancel()

	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close(context.Background())

	repos, err := repository.NewRepositories(db)
	if err != nil {
		logger.Fatalf("Failed to initialize repositories: %v", err)
	}

	svc := newComputeService(cfg, repos, logger)
	result, err := svc.RunRecompute(ctx)
	if err != nil {
		logger.Fatalf("Recompute failed: %v", err)
	}

	logger.WithFields(logrus.Fields{
		"snapshot_id":   result.SnapshotID,
		"checksum":      result.Checksum,
		"players_rated": result.PlayersRated,
		"teams_ranked":  result.TeamsRanked,
		"forecasts":     result.Forecasts,
		"pruned":        result.Pruned,
		"duration":      result.Duration.String(),
	}).Info("Recompute completed")

	if output == "" && !simulate {
		return
	}

	snapshot, err := repos.Snapshot.GetByID(ctx, result.SnapshotID)
	if err != nil {
		logger.Fatalf("Failed to reload snapshot: %v", err)
	}
	forecasts, err := repos.Forecast.ListBySnapshot(ctx, result.SnapshotID)
	if err != nil {
		logger.Fatalf("Failed to load forecasts: %v", err)
	}

	finish(cfg, snapshot, forecasts, output, simulate, trials, seed, logger)
}

// runOffline computes forecasts for a snapshot file without a database
func runOffline(cfg *config.Config, snapshotPath, output string, simulate bool, trials int, seed int64, logger *logrus.Logger) {
	snapshot, err := readSnapshot(snapshotPath)
	if err != nil {
		logger.Fatalf("Failed to read snapshot: %v", err)
	}

	svc := newComputeService(cfg, &repository.Repositories{}, logger)
	forecasts, err := svc.ForecastSnapshot(snapshot)
	if err != nil {
		logger.Fatalf("Forecast failed: %v", err)
	}

	logger.WithFields(logrus.Fields{
		"season":    snapshot.Season,
		"teams":     len(snapshot.Teams),
		"forecasts": len(forecasts),
		"checksum":  snapshot.Checksum(),
	}).Info("Offline forecast completed")

	finish(cfg, snapshot, forecasts, output, simulate, trials, seed, logger)
}

func newComputeService(cfg *config.Config, repos *repository.Repositories, logger *logrus.Logger) *service.ComputeService {
	cache := service.NewBoardCache(cfg.BoardCacheTTL(), cfg.BoardCacheTTL())
	svc, err := service.NewComputeService(repos, &cfg.Compute, cache, logger)
	if err != nil {
		logger.Fatalf("Failed to create compute service: %v", err)
	}
	return svc
}

func finish(cfg *config.Config, snapshot *models.LeagueSnapshot, forecasts []models.TournamentForecast,
	output string, simulate bool, trials int, seed int64, logger *logrus.Logger) {
	if simulate {
		if trials <= 0 {
			trials = cfg.Compute.MonteCarloTrials
		}
		result, err := forecast.SimulateSeason(snapshot, forecasts, forecast.SimulationConfig{
			Trials: trials,
			Seed:   seed,
		})
		if err != nil {
			logger.Fatalf("Simulation failed: %v", err)
		}
		logger.WithFields(logrus.Fields{
			"trials":           result.Trials,
			"mean_elite_field": result.MeanEliteField,
			"max_title_drift":  result.MaxTitleDrift,
		}).Info("Simulation completed")
	}

	if output != "" {
		if err := writeForecasts(output, snapshot, forecasts); err != nil {
			logger.Fatalf("Failed to write output: %v", err)
		}
		logger.WithField("path", output).Info("Forecasts written")
	}
}

func readSnapshot(path string) (*models.LeagueSnapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	snapshot := &models.LeagueSnapshot{}
	if err := json.Unmarshal(data, snapshot); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot JSON: %w", err)
	}
	return snapshot, nil
}

func writeForecasts(path string, snapshot *models.LeagueSnapshot, forecasts []models.TournamentForecast) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	payload := struct {
		SnapshotID string                      `json:"snapshot_id"`
		Season     string                      `json:"season"`
		Checksum   string                      `json:"checksum"`
		Forecasts  []models.TournamentForecast `json:"forecasts"`
	}{
		SnapshotID: snapshot.ID.String(),
		Season:     snapshot.Season,
		Checksum:   snapshot.Checksum(),
		Forecasts:  forecasts,
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal forecasts: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
