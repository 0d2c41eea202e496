package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leaguesim/leaguesim/sim"
)

func TestRunCmd_FlagsRegistered(t *testing.T) {
	for _, name := range []string{"config", "seed", "seasons", "reps", "workers", "trace",
		"replacement-policy", "infeasible-policy", "results", "salaries", "db", "metrics", "log"} {
		assert.NotNil(t, runCmd.Flags().Lookup(name), "run flag --%s", name)
	}
	assert.NotNil(t, validateCmd.Flags().Lookup("config"))
	assert.Nil(t, validateCmd.Flags().Lookup("db"))
}

func TestApplyOverrides_OnlyChangedPolicies(t *testing.T) {
	t.Cleanup(func() {
		seasons, repetitions = 0, 0
		_ = runCmd.Flags().Set("replacement-policy", sim.PolicyStrict)
		_ = runCmd.Flags().Set("infeasible-policy", sim.PolicyStrict)
	})

	// GIVEN a config file choosing the tolerant replacement policy
	cfg := sim.DefaultLeagueConfig()
	cfg.Policy.Replacement = sim.PolicyTolerant

	// WHEN no policy flag is set
	applyOverrides(runCmd, cfg)

	// THEN the file's choice survives the flag default
	assert.Equal(t, sim.PolicyTolerant, cfg.Policy.Replacement)

	// WHEN flags are set explicitly
	require.NoError(t, runCmd.Flags().Set("infeasible-policy", sim.PolicyBankrupt))
	seasons, repetitions = 3, 5
	applyOverrides(runCmd, cfg)

	// THEN they win
	assert.Equal(t, sim.PolicyBankrupt, cfg.Policy.Infeasible)
	assert.Equal(t, 3, cfg.League.Seasons)
	assert.Equal(t, 5, cfg.League.Repetitions)
}

func TestExampleConfig_IsValid(t *testing.T) {
	cfg, err := sim.LoadLeagueConfig(filepath.Join("..", "examples", "league.yaml"))
	require.NoError(t, err)
	assert.NoError(t, cfg.Validate())
}

func TestExampleConfig_PlaysSeasons(t *testing.T) {
	// GIVEN the shipped example league, shortened to one replication
	cfg, err := sim.LoadLeagueConfig(filepath.Join("..", "examples", "league.yaml"))
	require.NoError(t, err)
	cfg.League.Seasons = 2
	cfg.League.Repetitions = 1

	// WHEN it is run
	run, err := sim.RunReplications(context.Background(), cfg, sim.RunOptions{Seed: 42})
	require.NoError(t, err)

	// THEN the replication plays through with valid seasons
	require.Len(t, run.Replications, 1)
	rep := run.Replications[0]
	require.NoError(t, rep.Err)
	require.NotEmpty(t, rep.Seasons)
	valid := 0
	for _, s := range rep.Seasons {
		if s.Valid {
			valid++
		}
	}
	assert.Positive(t, valid)
}

func TestSaveOutputs_WritesEveryTarget(t *testing.T) {
	dir := t.TempDir()
	resultsPath = filepath.Join(dir, "seasons.csv")
	salaryPath = filepath.Join(dir, "salaries.csv")
	dbPath = filepath.Join(dir, "league.db")
	metricsPath = filepath.Join(dir, "league.prom")
	t.Cleanup(func() { resultsPath, salaryPath, dbPath, metricsPath = "", "", "", "" })

	// GIVEN a short run of a small league
	cfg := sim.DefaultLeagueConfig()
	cfg.League.Teams = 4
	cfg.League.RosterSize = 3
	cfg.League.Seasons = 2
	cfg.Market.InitialPoolSize = 20
	cfg.Market.ForeignPlayers = 0
	cfg.Teams.Budgets = []float64{10000, 10000, 10000, 10000}
	cfg.Revenue.BroadcastingBase = 400000
	cfg.Playoffs = sim.PlayoffParams{DirectSeeds: 2, Series: sim.SeriesLengths{Rounds: []int{3}}}
	run, err := sim.RunReplications(context.Background(), cfg, sim.RunOptions{Seed: 1})
	require.NoError(t, err)

	// WHEN outputs are saved
	saveOutputs(context.Background(), run)

	// THEN every requested file exists and is non-empty
	for _, path := range []string{resultsPath, salaryPath, dbPath, metricsPath} {
		info, err := os.Stat(path)
		require.NoError(t, err, path)
		assert.Positive(t, info.Size(), path)
	}
}
