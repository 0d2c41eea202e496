package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckRanks(t *testing.T) {
	ok := []Standing{{Team: 1, Rank: 2}, {Team: 2, Rank: 1}}
	assert.NotPanics(t, func() { CheckRanks(ok) })

	dup := []Standing{{Team: 1, Rank: 1}, {Team: 2, Rank: 1}}
	assert.PanicsWithValue(t, InvariantViolation{Msg: "rank 1 shared by team_1 and team_2"}, func() { CheckRanks(dup) })

	gap := []Standing{{Team: 1, Rank: 1}, {Team: 2, Rank: 3}}
	assert.Panics(t, func() { CheckRanks(gap) })
}

func TestCheckRosters(t *testing.T) {
	cfg := oneSlotConfig(PolicyStrict)
	newMarket := func() *PlayerMarket {
		return NewPlayerMarketFromPlayers([]Player{p(1, 0.5, 50), p(2, 0.4, 40)})
	}

	t.Run("valid", func(t *testing.T) {
		m := newMarket()
		m.Remove(DomesticPlayer(1), DomesticPlayer(2))
		rosters := map[TeamID][]PlayerID{1: {DomesticPlayer(1)}, 2: {DomesticPlayer(2)}}
		assert.NotPanics(t, func() { CheckRosters(rosters, newTeams(2, 50, 40), m, cfg, nil) })
	})

	t.Run("player still available", func(t *testing.T) {
		m := newMarket()
		m.Remove(DomesticPlayer(1))
		rosters := map[TeamID][]PlayerID{1: {DomesticPlayer(1)}, 2: {DomesticPlayer(2)}}
		assert.Panics(t, func() { CheckRosters(rosters, newTeams(2, 50, 40), m, cfg, nil) })
	})

	t.Run("shared player", func(t *testing.T) {
		m := newMarket()
		m.Remove(DomesticPlayer(1))
		rosters := map[TeamID][]PlayerID{1: {DomesticPlayer(1)}, 2: {DomesticPlayer(1)}}
		assert.Panics(t, func() { CheckRosters(rosters, newTeams(2, 50, 50), m, cfg, nil) })
	})

	t.Run("over budget", func(t *testing.T) {
		m := newMarket()
		m.Remove(DomesticPlayer(1), DomesticPlayer(2))
		rosters := map[TeamID][]PlayerID{1: {DomesticPlayer(1)}, 2: {DomesticPlayer(2)}}
		assert.Panics(t, func() { CheckRosters(rosters, newTeams(2, 49, 40), m, cfg, nil) })
	})

	t.Run("short roster allowed when recorded", func(t *testing.T) {
		m := newMarket()
		m.Remove(DomesticPlayer(1))
		rosters := map[TeamID][]PlayerID{1: {DomesticPlayer(1)}, 2: nil}
		teams := newTeams(2, 50, 40)
		assert.Panics(t, func() { CheckRosters(rosters, teams, m, cfg, nil) })
		assert.NotPanics(t, func() { CheckRosters(rosters, teams, m, cfg, map[TeamID]int{2: 1}) })
	})
}

func TestPlayerID(t *testing.T) {
	assert.Equal(t, "D17", DomesticPlayer(17).String())
	assert.Equal(t, "F3", ForeignPlayer(3).String())
	assert.Equal(t, -1, ComparePlayerIDs(DomesticPlayer(99), ForeignPlayer(1)))
	assert.Equal(t, 1, ComparePlayerIDs(DomesticPlayer(2), DomesticPlayer(1)))
	assert.Equal(t, "team_4", TeamID(4).String())
	assert.Equal(t, "playoffs_round_2", Exit{Stage: StagePlayoffs, Round: 2}.String())
	assert.Equal(t, "none", Exit{}.String())
}
