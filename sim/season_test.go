package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leaguesim/leaguesim/sim/internal/testutil"
)

func equalSkillTeams(n int, skill float64) []*Team {
	teams := newTeams(n)
	for _, tm := range teams {
		tm.Skill = skill
	}
	return teams
}

func TestWinProbability(t *testing.T) {
	assert.Equal(t, 0.5, WinProbability(10, 10))
	assert.Equal(t, 0.75, WinProbability(3, 1))
	assert.Equal(t, 0.5, WinProbability(0, 0))
	assert.Equal(t, 0.0, WinProbability(0, 2))
}

func TestGateRevenue(t *testing.T) {
	cfg := DefaultLeagueConfig()
	home := &Team{MarketSize: 1.0, CompetitiveBalance: 0.5}

	// 10000 * 1 * (0.5 - 0.25 * 0.25)
	testutil.AssertFloat64Equal(t, "regular", 4375, GateRevenue(cfg, home, 0.5, StageRegularSeason), 1e-12)
	testutil.AssertFloat64Equal(t, "playoffs", 8750, GateRevenue(cfg, home, 0.5, StagePlayoffs), 1e-12)
	assert.Equal(t, 0.0, GateRevenue(cfg, home, 0, StageRegularSeason))
}

func TestSeasonSimulator_PlayGameLeavesRecordsAlone(t *testing.T) {
	cfg := DefaultLeagueConfig()
	teams := equalSkillTeams(2, 5)
	sim := NewSeasonSimulator(cfg, testutil.NewRNG(1))

	g := sim.PlayGame(teams[0], teams[1], StagePrePlayoffs)

	assert.Contains(t, []TeamID{1, 2}, g.Winner)
	assert.Equal(t, 0.5, g.HomeWinProb)
	assert.Zero(t, teams[0].Wins+teams[1].Wins+teams[0].Games)
	testutil.AssertFloat64Equal(t, "home revenue", 1.5*4375, teams[0].Revenue, 1e-12)
	assert.Zero(t, teams[1].Revenue)
}

func TestPlayRegularSeason_ScheduleAndRevenue(t *testing.T) {
	// GIVEN four equal teams and a four-game home-and-away schedule
	cfg := DefaultLeagueConfig()
	teams := equalSkillTeams(4, 10)

	// WHEN the regular season is played
	rs := NewSeasonSimulator(cfg, testutil.NewRNG(42)).PlayRegularSeason(teams)

	// THEN every pair met four times, twice at each venue
	require.Len(t, rs.Record, 6*4)
	home := make(map[TeamID]int)
	totalWins := 0
	for _, tm := range teams {
		assert.Equal(t, 12, tm.Games)
		totalWins += tm.Wins
	}
	for _, g := range rs.Record {
		home[g.Home]++
	}
	assert.Equal(t, 24, totalWins)
	for _, tm := range teams {
		assert.Equal(t, 6, home[tm.ID])
		// AND each team banked six home gates at p = 0.5
		testutil.AssertFloat64Equal(t, "revenue", 6*4375, tm.Revenue, 1e-12)
	}

	// AND standings are ordered by winning percentage without ranks
	require.Len(t, rs.Standings, 4)
	for i := 1; i < len(rs.Standings); i++ {
		assert.GreaterOrEqual(t, rs.Standings[i-1].Wins, rs.Standings[i].Wins)
		assert.Zero(t, rs.Standings[i].Rank)
	}
}

func TestPlayRegularSeason_EqualSkillIsFair(t *testing.T) {
	// GIVEN four teams of skill 10 each
	cfg := DefaultLeagueConfig()
	sim := NewSeasonSimulator(cfg, testutil.NewRNG(7))
	const seasons = 500
	wins := make(map[TeamID]int)

	// WHEN many seasons are played
	for s := 0; s < seasons; s++ {
		teams := equalSkillTeams(4, 10)
		sim.PlayRegularSeason(teams)
		for _, tm := range teams {
			wins[tm.ID] += tm.Wins
		}
	}

	// THEN each team wins about half its games
	games := seasons * 12
	for id := TeamID(1); id <= 4; id++ {
		assert.InDelta(t, games/2, wins[id], testutil.BinomialTolerance(games, 0.5, 4), "%s", id)
	}
}

func TestPlayRegularSeason_StrongerTeamWinsMore(t *testing.T) {
	cfg := DefaultLeagueConfig()
	sim := NewSeasonSimulator(cfg, testutil.NewRNG(3))
	strong, weak := 0, 0
	for s := 0; s < 200; s++ {
		teams := newTeams(2)
		teams[0].Skill, teams[1].Skill = 9, 3
		sim.PlayRegularSeason(teams)
		strong += teams[0].Wins
		weak += teams[1].Wins
	}
	// p = 0.75 over 800 games
	assert.InDelta(t, 600, strong, testutil.BinomialTolerance(800, 0.75, 4))
	assert.Equal(t, 800, strong+weak)
}
