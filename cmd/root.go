package cmd

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/leaguesim/leaguesim/sim"
	"github.com/leaguesim/leaguesim/sim/results"
	"github.com/leaguesim/leaguesim/sim/trace"
)

var (
	// CLI flags for the run
	configPath  string // YAML league config; defaults apply when empty
	seed        int64  // Master seed; replication i derives its own key from it
	seasons     int    // Overrides league.seasons when > 0
	repetitions int    // Overrides league.repetitions when > 0
	workers     int    // Replications simulated concurrently
	logLevel    string // Log verbosity level
	traceLevel  string // Decision trace level (none, decisions)

	// CLI flags for policies
	replacementPolicy string // Overrides policy.replacement when set
	infeasiblePolicy  string // Overrides policy.infeasible when set

	// CLI flags for outputs
	resultsPath string // Season rows CSV
	salaryPath  string // Salary summary CSV
	dbPath      string // SQLite database for season and salary rows
	metricsPath string // Prometheus textfile
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "leaguesim",
	Short: "Multi-season simulator of a sports league's player market and competition",
}

// runCmd executes the simulation using parameters from the config file and CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the league simulation",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		cfg := loadConfig(cmd)
		if err := cfg.Validate(); err != nil {
			logrus.Fatalf("%v", err)
		}
		if !trace.IsValidTraceLevel(traceLevel) {
			logrus.Fatalf("Invalid trace level: %s", traceLevel)
		}

		logrus.Infof("Starting simulation: %d teams x %d players, %d seasons, %d replications, seed=%d",
			cfg.League.Teams, cfg.League.RosterSize, cfg.League.Seasons, cfg.League.Repetitions, seed)
		startTime := time.Now()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		run, err := sim.RunReplications(ctx, cfg, sim.RunOptions{
			Seed:    seed,
			Workers: workers,
			Trace:   trace.TraceConfig{Level: trace.TraceLevel(traceLevel)},
		})
		if err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}

		saveOutputs(ctx, run)
		results.Print(os.Stdout, run)

		logrus.Infof("Simulation complete in %s.", time.Since(startTime).Round(time.Millisecond))
		if failed := run.Failed(); len(failed) == len(run.Replications) {
			logrus.Fatalf("All %d replications failed; first error: %v", len(failed), failed[0].Err)
		}
	},
}

// validateCmd checks a config file without simulating
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a league config file",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()
		cfg := loadConfig(cmd)
		if err := cfg.Validate(); err != nil {
			logrus.Fatalf("%v", err)
		}
		logrus.Infof("Config OK: %d teams, roster size %d, pool size %d", cfg.League.Teams, cfg.League.RosterSize, cfg.PoolSize())
	},
}

func setupLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// loadConfig reads the config file (if any) and applies CLI overrides.
func loadConfig(cmd *cobra.Command) *sim.LeagueConfig {
	cfg := sim.DefaultLeagueConfig()
	if configPath != "" {
		loaded, err := sim.LoadLeagueConfig(configPath)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		cfg = loaded
	}
	applyOverrides(cmd, cfg)
	return cfg
}

// applyOverrides copies explicitly set flags into cfg.
func applyOverrides(cmd *cobra.Command, cfg *sim.LeagueConfig) {
	if seasons > 0 {
		cfg.League.Seasons = seasons
	}
	if repetitions > 0 {
		cfg.League.Repetitions = repetitions
	}
	if cmd.Flags().Changed("replacement-policy") {
		cfg.Policy.Replacement = replacementPolicy
	}
	if cmd.Flags().Changed("infeasible-policy") {
		cfg.Policy.Infeasible = infeasiblePolicy
	}
}

func saveOutputs(ctx context.Context, run *sim.RunResult) {
	seasonRows, salaryRows := results.Rows(run)
	if resultsPath != "" {
		if err := results.SaveCSV(resultsPath, seasonRows, results.WriteSeasonCSV); err != nil {
			logrus.Fatalf("%v", err)
		}
		logrus.Infof("Wrote %d season rows to %s", len(seasonRows), resultsPath)
	}
	if salaryPath != "" {
		if err := results.SaveCSV(salaryPath, salaryRows, results.WriteSalaryCSV); err != nil {
			logrus.Fatalf("%v", err)
		}
		logrus.Infof("Wrote %d salary rows to %s", len(salaryRows), salaryPath)
	}
	if dbPath != "" {
		store, err := results.OpenSQLite(dbPath)
		if err != nil {
			logrus.Fatalf("Failed to open results database: %v", err)
		}
		if err := store.Save(ctx, seasonRows, salaryRows); err != nil {
			_ = store.Close()
			logrus.Fatalf("Failed to save results: %v", err)
		}
		if err := store.Close(); err != nil {
			logrus.Fatalf("Failed to close results database: %v", err)
		}
		logrus.Infof("Saved results to %s", dbPath)
	}
	if metricsPath != "" {
		m := results.NewMetrics()
		m.Observe(run)
		if err := m.WriteTextfile(metricsPath); err != nil {
			logrus.Fatalf("Failed to write metrics: %v", err)
		}
		logrus.Infof("Wrote metrics to %s", metricsPath)
	}
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	for _, c := range []*cobra.Command{runCmd, validateCmd} {
		c.Flags().StringVar(&configPath, "config", "", "Path to a YAML league config (defaults when empty)")
		c.Flags().StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")
		c.Flags().IntVar(&seasons, "seasons", 0, "Seasons per replication (overrides config)")
		c.Flags().IntVar(&repetitions, "reps", 0, "Number of replications (overrides config)")
		c.Flags().StringVar(&replacementPolicy, "replacement-policy", sim.PolicyStrict, "Replacement exhaustion policy (strict, tolerant)")
		c.Flags().StringVar(&infeasiblePolicy, "infeasible-policy", sim.PolicyStrict, "Infeasible roster policy (strict, bankrupt)")
	}

	runCmd.Flags().Int64Var(&seed, "seed", 42, "Master seed for all random draws")
	runCmd.Flags().IntVar(&workers, "workers", 1, "Replications simulated concurrently")
	runCmd.Flags().StringVar(&traceLevel, "trace", "none", "Decision trace level (none, decisions)")

	// outputs
	runCmd.Flags().StringVar(&resultsPath, "results", "", "Write per-season team rows to this CSV file")
	runCmd.Flags().StringVar(&salaryPath, "salaries", "", "Write per-season salary summaries to this CSV file")
	runCmd.Flags().StringVar(&dbPath, "db", "", "Persist rows to this SQLite database")
	runCmd.Flags().StringVar(&metricsPath, "metrics", "", "Write Prometheus textfile metrics to this path")

	// Attach subcommands to `root`
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(validateCmd)
}
