package sim

import (
	"fmt"
	"math"
	"slices"
)

// SelectBestRoster returns the ids of exactly rosterSize players maximizing
// total skill with total salary <= budget. Among maximal-skill rosters the
// cheapest one is returned. The result is sorted with ComparePlayerIDs.
//
// The search is exact: a dynamic program over (roster size, total skill) that
// keeps the minimum salary reaching each state. Skills are counted in units of
// skillQuantum (the market's draw precision), so the state space is
// rosterSize * rosterSize/skillQuantum wide and each extra decimal of
// precision costs ten times the memory and time. Fails with
// ErrInfeasibleOptimization when no roster of that size fits the budget.
func SelectBestRoster(players []Player, budget float64, rosterSize int, skillQuantum float64) ([]PlayerID, error) {
	if rosterSize <= 0 {
		return nil, nil
	}
	if len(players) < rosterSize {
		return nil, fmt.Errorf("%w: %d players available for a roster of %d",
			ErrInfeasibleOptimization, len(players), rosterSize)
	}
	if skillQuantum <= 0 {
		skillQuantum = 0.01
	}

	units := make([]int, len(players))
	maxUnits := 0
	for i, p := range players {
		units[i] = int(math.Round(p.Skill / skillQuantum))
		if units[i] < 0 {
			units[i] = 0
		}
		maxUnits = max(maxUnits, units[i])
	}
	width := rosterSize*maxUnits + 1

	// cost[c*width+s]: cheapest payroll of c players with s skill units.
	cost := make([]float64, (rosterSize+1)*width)
	for i := range cost {
		cost[i] = math.Inf(1)
	}
	cost[0] = 0
	took := newTakeTable(len(players), rosterSize+1, width)

	for i, p := range players {
		u := units[i]
		for c := min(i+1, rosterSize); c >= 1; c-- {
			// Highest skill reachable with c players so far.
			hi := min(c*maxUnits, width-1)
			for s := hi; s >= u; s-- {
				prev := cost[(c-1)*width+s-u]
				if math.IsInf(prev, 1) {
					continue
				}
				if cand := prev + p.Salary; cand < cost[c*width+s] {
					cost[c*width+s] = cand
					took.set(i, c, s)
				}
			}
		}
	}

	best := -1
	row := rosterSize * width
	for s := width - 1; s >= 0; s-- {
		if withinBudget(cost[row+s], budget) {
			best = s
			break
		}
	}
	if best < 0 {
		return nil, fmt.Errorf("%w: no %d-player roster fits budget %.2f",
			ErrInfeasibleOptimization, rosterSize, budget)
	}

	selected := make([]PlayerID, 0, rosterSize)
	c, s := rosterSize, best
	for i := len(players) - 1; i >= 0 && c > 0; i-- {
		if took.get(i, c, s) {
			selected = append(selected, players[i].ID)
			s -= units[i]
			c--
		}
	}
	if c != 0 || s != 0 {
		invariantf("roster reconstruction ended at size %d skill %d", c, s)
	}
	slices.SortFunc(selected, ComparePlayerIDs)
	return selected, nil
}

// takeTable is a bitset over (player, size, skill) recording which player
// last improved a DP state.
type takeTable struct {
	sizes, width int
	bits         []uint64
}

func newTakeTable(players, sizes, width int) *takeTable {
	n := players * sizes * width
	return &takeTable{sizes: sizes, width: width, bits: make([]uint64, (n+63)/64)}
}

func (t *takeTable) index(i, c, s int) int {
	return (i*t.sizes+c)*t.width + s
}

func (t *takeTable) set(i, c, s int) {
	k := t.index(i, c, s)
	t.bits[k/64] |= 1 << (k % 64)
}

func (t *takeTable) get(i, c, s int) bool {
	k := t.index(i, c, s)
	return t.bits[k/64]&(1<<(k%64)) != 0
}
