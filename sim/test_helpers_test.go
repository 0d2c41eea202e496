package sim

import (
	"testing"
)

// smallConfig returns a valid 4-team league small enough for exhaustive checks.
func smallConfig(t *testing.T) *LeagueConfig {
	t.Helper()
	cfg := DefaultLeagueConfig()
	cfg.League.Teams = 4
	cfg.League.RosterSize = 3
	cfg.League.Seasons = 3
	cfg.Market.InitialPoolSize = 20
	cfg.Market.ForeignPlayers = 0
	cfg.Teams.InitialBudget = BudgetRange{Min: 12000, Max: 18000}
	cfg.Market.BestPlayerRevenueShare = 0.5
	cfg.Playoffs = PlayoffParams{
		DirectSeeds:     1,
		PrePlayoffSeeds: 2,
		Series:          SeriesLengths{PrePlayoffs: 3, Rounds: []int{5}},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("smallConfig invalid: %v", err)
	}
	return cfg
}

// newTeams creates n teams with the given budgets (or budget 0 when budgets is short).
func newTeams(n int, budgets ...float64) []*Team {
	teams := make([]*Team, n)
	for i := range teams {
		teams[i] = &Team{ID: TeamID(i + 1), MarketSize: 1, CompetitiveBalance: 0.5}
		if i < len(budgets) {
			teams[i].Budget = budgets[i]
		}
	}
	return teams
}

// p builds a domestic player.
func p(n int, skill, salary float64) Player {
	return Player{ID: DomesticPlayer(n), Skill: skill, Salary: salary}
}

// richConfig is a small league where every team can afford any roster, so
// seasons never fail on the market side. Broadcasting income dominates
// revenue, which keeps that true after budgets roll over.
func richConfig(t *testing.T) *LeagueConfig {
	t.Helper()
	cfg := smallConfig(t)
	cfg.Teams.Budgets = []float64{10000, 10000, 10000, 10000}
	cfg.Market.BestPlayerRevenueShare = 0.1
	cfg.Revenue.BroadcastingBase = 400000
	if err := cfg.Validate(); err != nil {
		t.Fatalf("richConfig invalid: %v", err)
	}
	return cfg
}
