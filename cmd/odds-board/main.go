// Package main provides the odds board CLI.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/openrink/puckcast/internal/config"
	"github.com/openrink/puckcast/internal/database"
	"github.com/openrink/puckcast/internal/forecast"
	"github.com/openrink/puckcast/internal/models"
	"github.com/openrink/puckcast/internal/repository"
	"github.com/openrink/puckcast/internal/service"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile string
	trials     int
	seed       int64
	logger     *logrus.Logger
	cfg        *config.Config
	db         *database.DB
	repos      *repository.Repositories
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	simulateCmd.Flags().IntVar(&trials, "trials", 0, "Trial count (0 uses the configured default)")
	simulateCmd.Flags().Int64Var(&seed, "seed", 0, "Random seed (0 seeds from the clock)")

	rootCmd.AddCommand(boardCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(versionCmd)
}

var rootCmd = &cobra.Command{
	Use:   "odds-board",
	Short: "Inspect the tournament odds board",
	Long:  `Renders the current tournament odds board and runs Monte Carlo checks against the published forecasts.`,
}

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Print the current odds board",
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return setupDependencies()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return displayBoard()
	},
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a Monte Carlo check against the published forecasts",
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return setupDependencies()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSimulation()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("odds-board %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func setupDependencies() error {
	var err error
	cfg, err = config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger = logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.WarnLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err = database.NewDB(ctx, &cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	repos, err = repository.NewRepositories(db)
	if err != nil {
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}

	return nil
}

func displayBoard() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cache := service.NewBoardCache(cfg.BoardCacheTTL(), cfg.BoardCacheTTL())
	boardSvc := service.NewOddsBoardService(repos.Snapshot, repos.Forecast, cache,
		&cfg.Board, cfg.Compute.Season, logger)

	board, err := boardSvc.Render(ctx)
	if err != nil {
		return fmt.Errorf("failed to render board: %w", err)
	}

	fmt.Printf("Season %s  snapshot %s  checksum %s  vig %.1f%%\n\n",
		board.Season, board.SnapshotID, board.Checksum, board.VigPercent)
	fmt.Printf("%-4s %-24s %-6s %-4s %12s %12s %12s %12s\n",
		"RK", "TEAM", "CLASS", "OVR", "ELITE BID", "ELITE TITLE", "DIV BID", "DIV TITLE")

	for _, row := range board.Rows {
		eliteBid := row.Outcomes[0]
		eliteChamp := row.Outcomes[1]
		divBid, divChamp := liveDivisionPair(row)

		fmt.Printf("%-4d %-24s %-6s %-4d %12s %12s %12s %12s\n",
			row.PowerRank, row.TeamName, row.Classification, row.OVR,
			cell(eliteBid), cell(eliteChamp), cell(divBid), cell(divChamp))
	}

	return nil
}

// liveDivisionPair returns the division pair that applies to the row's own
// classification
func liveDivisionPair(row service.BoardRow) (service.BoardOutcome, service.BoardOutcome) {
	if row.Classification == models.ClassificationLarge {
		return row.Outcomes[2], row.Outcomes[3]
	}
	return row.Outcomes[4], row.Outcomes[5]
}

func cell(o service.BoardOutcome) string {
	if !o.Live || o.Probability.IsZero() {
		return "-"
	}
	return fmt.Sprintf("%s%% %s", o.Probability.StringFixed(1), o.Odds)
}

func runSimulation() error {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	snapshot, err := repos.Snapshot.GetLatest(ctx, cfg.Compute.Season)
	if err != nil {
		return fmt.Errorf("failed to load latest snapshot: %w", err)
	}
	forecasts, err := repos.Forecast.ListBySnapshot(ctx, snapshot.ID)
	if err != nil {
		return fmt.Errorf("failed to load forecasts: %w", err)
	}
	if len(forecasts) == 0 {
		return fmt.Errorf("no forecasts computed for snapshot %s", snapshot.ID)
	}

	if trials <= 0 {
		trials = cfg.Compute.MonteCarloTrials
	}
	result, err := forecast.SimulateSeason(snapshot, forecasts, forecast.SimulationConfig{
		Trials: trials,
		Seed:   seed,
	})
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	fmt.Printf("Simulated %d seasons from snapshot %s\n\n", result.Trials, snapshot.ID)
	fmt.Printf("Mean Elite field size: %.2f\n", result.MeanEliteField)
	fmt.Printf("Max title drift:       %.2f%%\n\n", result.MaxTitleDrift)

	fmt.Printf("%-4s %-24s %12s %12s\n", "RK", "TEAM", "FORECAST", "SAMPLED")
	for _, f := range forecasts {
		team := snapshot.TeamByRank(f.PowerRank)
		name := ""
		if team != nil {
			name = team.Name
		}
		fmt.Printf("%-4d %-24s %11.2f%% %11.2f%%\n",
			f.PowerRank, name, f.EliteChamp, result.TitleFrequency[f.TeamID])
	}

	return nil
}
