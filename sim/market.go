// Defines the PlayerMarket: the season's pool of players, their skills and salaries,
// and which of them are still available to be signed.

package sim

import (
	"fmt"
	"math"
	"math/rand"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Player is immutable once generated.
type Player struct {
	ID     PlayerID
	Skill  float64 // in [0, 1]
	Salary float64
}

// SalarySummary describes the salary distribution of a market.
type SalarySummary struct {
	Count  int
	Min    float64
	Mean   float64
	Median float64 // lower median
	Max    float64
}

// PlayerMarket owns every player generated for one season. Players move from
// available to rostered exactly once, via Remove.
type PlayerMarket struct {
	season    int
	players   map[PlayerID]Player
	order     []PlayerID // all ids, sorted with ComparePlayerIDs
	available map[PlayerID]bool
	maxSalary float64 // w_max
	scarcity  float64
}

// NewPlayerMarket draws a new season's market. budgets are the teams'
// effective budgets; the richest one sets the best player's salary.
func NewPlayerMarket(cfg *LeagueConfig, season int, budgets []float64, rng *rand.Rand) (*PlayerMarket, error) {
	sampler, err := NewSkillSampler(cfg.Market.SkillDistribution)
	if err != nil {
		return nil, fmt.Errorf("skill distribution: %w", err)
	}
	if len(budgets) == 0 {
		return nil, fmt.Errorf("market needs at least one team budget")
	}

	domestic := cfg.DomesticPoolSize(season)
	foreign := cfg.Market.ForeignPlayers
	kOld := float64(cfg.PoolSize())
	kNew := float64(domestic + foreign)

	m := &PlayerMarket{
		season:    season,
		players:   make(map[PlayerID]Player, domestic+foreign),
		order:     make([]PlayerID, 0, domestic+foreign),
		available: make(map[PlayerID]bool, domestic+foreign),
		maxSalary: math.Round(cfg.Market.BestPlayerRevenueShare * floats.Max(budgets)),
		scarcity:  math.Max(0, 1-(kNew-kOld)/kOld),
	}

	draw := func(id PlayerID) {
		skill := roundTo(sampler.Sample(rng), cfg.Market.SkillPrecision)
		m.add(Player{
			ID:     id,
			Skill:  skill,
			Salary: math.Round(m.maxSalary * skill * m.scarcity),
		})
	}
	for i := 1; i <= domestic; i++ {
		draw(DomesticPlayer(i))
	}
	for i := 1; i <= foreign; i++ {
		draw(ForeignPlayer(i))
	}
	return m, nil
}

// NewPlayerMarketFromPlayers builds a market from explicit players, all
// available. Salaries are taken as given.
func NewPlayerMarketFromPlayers(players []Player) *PlayerMarket {
	m := &PlayerMarket{
		players:   make(map[PlayerID]Player, len(players)),
		available: make(map[PlayerID]bool, len(players)),
		scarcity:  1,
	}
	for _, p := range players {
		m.add(p)
		m.maxSalary = math.Max(m.maxSalary, p.Salary)
	}
	slices.SortFunc(m.order, ComparePlayerIDs)
	return m
}

func (m *PlayerMarket) add(p Player) {
	if _, dup := m.players[p.ID]; dup {
		panic(fmt.Sprintf("player %s generated twice", p.ID))
	}
	m.players[p.ID] = p
	m.order = append(m.order, p.ID)
	m.available[p.ID] = true
}

// Season returns the season this market was drawn for (0 for hand-built markets).
func (m *PlayerMarket) Season() int { return m.season }

// MaxSalary returns w_max, the salary a player of skill 1 would command before scarcity.
func (m *PlayerMarket) MaxSalary() float64 { return m.maxSalary }

// Scarcity returns the supply factor 1 - (k_new - k_old) / k_old, floored at 0.
func (m *PlayerMarket) Scarcity() float64 { return m.scarcity }

// Player looks up any player generated for this market, available or not.
func (m *PlayerMarket) Player(id PlayerID) (Player, bool) {
	p, ok := m.players[id]
	return p, ok
}

// IsAvailable reports whether id can still be signed.
func (m *PlayerMarket) IsAvailable(id PlayerID) bool {
	return m.available[id]
}

// Len returns the number of available players.
func (m *PlayerMarket) Len() int { return len(m.available) }

// Size returns the number of players generated.
func (m *PlayerMarket) Size() int { return len(m.order) }

// Available returns the available players ordered by id.
func (m *PlayerMarket) Available() []Player {
	out := make([]Player, 0, len(m.available))
	for _, id := range m.order {
		if m.available[id] {
			out = append(out, m.players[id])
		}
	}
	return out
}

// All returns every generated player ordered by id.
func (m *PlayerMarket) All() []Player {
	out := make([]Player, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.players[id])
	}
	return out
}

// Remove takes players off the market. Removing a player that is not
// available is an invariant violation: ownership transfers exactly once.
func (m *PlayerMarket) Remove(ids ...PlayerID) {
	for _, id := range ids {
		if !m.available[id] {
			invariantf("player %s removed from market but not available", id)
		}
		delete(m.available, id)
	}
}

// SalarySummary summarises the salaries of every generated player.
func (m *PlayerMarket) SalarySummary() SalarySummary {
	if len(m.order) == 0 {
		return SalarySummary{}
	}
	salaries := make([]float64, 0, len(m.order))
	for _, id := range m.order {
		salaries = append(salaries, m.players[id].Salary)
	}
	slices.Sort(salaries)
	return SalarySummary{
		Count:  len(salaries),
		Min:    floats.Min(salaries),
		Mean:   stat.Mean(salaries, nil),
		Median: stat.Quantile(0.5, stat.Empirical, salaries, nil),
		Max:    floats.Max(salaries),
	}
}
