package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leaguesim/leaguesim/sim/internal/testutil"
)

// bruteForceBest enumerates every roster of size k and returns the best total
// skill reachable within budget and the lowest payroll among rosters with that
// skill, or -1 skill when none fits. Skills compare in hundredths.
func bruteForceBest(players []Player, budget float64, k int) (skill, salary float64) {
	bestUnits, bestSalary := int64(-1), math.Inf(1)
	var walk func(start, left int, units int64, salary float64)
	walk = func(start, left int, units int64, salary float64) {
		if salary > budget+1e-9 {
			return
		}
		if left == 0 {
			if units > bestUnits || (units == bestUnits && salary < bestSalary) {
				bestUnits, bestSalary = units, salary
			}
			return
		}
		for i := start; i <= len(players)-left; i++ {
			walk(i+1, left-1, units+int64(math.Round(players[i].Skill*100)), salary+players[i].Salary)
		}
	}
	walk(0, k, 0, 0)
	if bestUnits < 0 {
		return -1, 0
	}
	return float64(bestUnits) / 100, bestSalary
}

func rosterTotals(players []Player, ids []PlayerID) (skill, salary float64) {
	byID := make(map[PlayerID]Player, len(players))
	for _, pl := range players {
		byID[pl.ID] = pl
	}
	for _, id := range ids {
		skill += byID[id].Skill
		salary += byID[id].Salary
	}
	return skill, salary
}

func TestSelectBestRoster_MatchesBruteForce(t *testing.T) {
	rng := testutil.NewRNG(5)
	for trial := 0; trial < 50; trial++ {
		// GIVEN 10 random players and a random budget
		players := make([]Player, 10)
		for i := range players {
			skill := roundTo(rng.Float64(), 2)
			players[i] = p(i+1, skill, math.Round(1000*skill))
		}
		budget := math.Round(300 + rng.Float64()*1500)

		// WHEN the optimizer picks 3 of them
		// THEN it agrees with exhaustive search
		assertMatchesBruteForce(t, players, budget, 3, trial)
	}
}

func TestSelectBestRoster_MatchesBruteForceWithIndependentSalaries(t *testing.T) {
	rng := testutil.NewRNG(11)
	for trial := 0; trial < 100; trial++ {
		// GIVEN 10 players whose salaries are unrelated to skill, with
		// coarse skills so equal-skill rosters at different payrolls are common
		players := make([]Player, 10)
		for i := range players {
			skill := roundTo(0.1*math.Floor(rng.Float64()*10), 2)
			players[i] = p(i+1, skill, math.Round(rng.Float64()*1000))
		}
		budget := math.Round(200 + rng.Float64()*1800)

		// WHEN the optimizer picks 3 of them
		// THEN both the skill and the payroll match exhaustive search
		assertMatchesBruteForce(t, players, budget, 3, trial)
	}
}

func assertMatchesBruteForce(t *testing.T, players []Player, budget float64, k, trial int) {
	t.Helper()
	ids, err := SelectBestRoster(players, budget, k, 0.01)
	wantSkill, wantSalary := bruteForceBest(players, budget, k)
	if wantSkill < 0 {
		require.ErrorIs(t, err, ErrInfeasibleOptimization, "trial %d", trial)
		return
	}
	require.NoError(t, err, "trial %d", trial)
	require.Len(t, ids, k)
	skill, salary := rosterTotals(players, ids)
	assert.InDelta(t, wantSkill, skill, 1e-9, "trial %d", trial)
	assert.Equal(t, wantSalary, salary, "trial %d", trial)
	assert.LessOrEqual(t, salary, budget, "trial %d", trial)
}

func TestSelectBestRoster_PrefersCheaperAmongEqualSkill(t *testing.T) {
	// GIVEN two players with identical skill but different salaries
	players := []Player{
		p(1, 0.5, 90),
		p(2, 0.5, 40),
		p(3, 0.3, 10),
	}

	// WHEN picking a roster of 2 with room for any pair
	ids, err := SelectBestRoster(players, 1000, 2, 0.01)

	// THEN both 0.5 players are taken
	require.NoError(t, err)
	assert.Equal(t, []PlayerID{DomesticPlayer(1), DomesticPlayer(2)}, ids)

	// AND a roster of 1 takes the cheaper of the two
	ids, err = SelectBestRoster(players, 1000, 1, 0.01)
	require.NoError(t, err)
	assert.Equal(t, []PlayerID{DomesticPlayer(2)}, ids)
}

func TestSelectBestRoster_BudgetBinds(t *testing.T) {
	players := []Player{
		p(1, 0.9, 900),
		p(2, 0.8, 800),
		p(3, 0.5, 300),
		p(4, 0.4, 200),
	}
	ids, err := SelectBestRoster(players, 1100, 2, 0.01)
	require.NoError(t, err)
	// 0.9 + 0.5 would be 1.4 but costs 1200; two different 1.3 rosters cost 1100.
	skill, salary := rosterTotals(players, ids)
	assert.InDelta(t, 1.3, skill, 1e-9)
	assert.LessOrEqual(t, salary, 1100.0)
}

func TestSelectBestRoster_ExactBudgetIsAffordable(t *testing.T) {
	players := []Player{p(1, 0.6, 600), p(2, 0.4, 400)}
	ids, err := SelectBestRoster(players, 1000, 2, 0.01)
	require.NoError(t, err)
	assert.Len(t, ids, 2)
}

func TestSelectBestRoster_Infeasible(t *testing.T) {
	players := []Player{p(1, 0.6, 600), p(2, 0.4, 400), p(3, 0.2, 200)}

	_, err := SelectBestRoster(players, 500, 2, 0.01)
	assert.ErrorIs(t, err, ErrInfeasibleOptimization)

	_, err = SelectBestRoster(players, 1e9, 4, 0.01)
	assert.ErrorIs(t, err, ErrInfeasibleOptimization)
}

func TestSelectBestRoster_ZeroSkillPlayers(t *testing.T) {
	players := []Player{p(1, 0, 0), p(2, 0, 0), p(3, 0.1, 50)}
	ids, err := SelectBestRoster(players, 10, 2, 0.01)
	require.NoError(t, err)
	assert.Equal(t, []PlayerID{DomesticPlayer(1), DomesticPlayer(2)}, ids)
}

func TestSelectBestRoster_SortedOutput(t *testing.T) {
	players := []Player{
		{ID: ForeignPlayer(1), Skill: 0.9, Salary: 1},
		p(5, 0.8, 1),
		p(2, 0.7, 1),
	}
	ids, err := SelectBestRoster(players, 10, 3, 0.01)
	require.NoError(t, err)
	assert.Equal(t, []PlayerID{DomesticPlayer(2), DomesticPlayer(5), ForeignPlayer(1)}, ids)
}

func BenchmarkSelectBestRoster_FullLeague(b *testing.B) {
	cfg := DefaultLeagueConfig()
	m, err := NewPlayerMarket(cfg, 1, []float64{150000}, testutil.NewRNG(1))
	if err != nil {
		b.Fatal(err)
	}
	players := m.Available()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := SelectBestRoster(players, 125000, cfg.League.RosterSize, cfg.SkillQuantum()); err != nil {
			b.Fatal(err)
		}
	}
}
