package sim

import (
	"fmt"
	"math"
)

// InvariantViolation is the panic value raised when the engine detects a
// logic defect. It is never recovered inside the engine.
type InvariantViolation struct {
	Msg string
}

func (v InvariantViolation) Error() string { return "invariant violation: " + v.Msg }

func invariantf(format string, args ...any) {
	panic(InvariantViolation{Msg: fmt.Sprintf(format, args...)})
}

// budgetSlack absorbs float rounding when comparing summed salaries to a budget.
const budgetSlack = 1e-6

func withinBudget(payroll, budget float64) bool {
	return payroll <= budget+budgetSlack*math.Max(1, math.Abs(budget))
}

// CheckRosters asserts the post-resolution invariants: every player appears on
// at most one roster and nowhere in the market, every payroll fits its team's
// effective budget, and every roster has exactly rosterSize players unless
// the team is listed in short.
func CheckRosters(rosters map[TeamID][]PlayerID, teams []*Team, market *PlayerMarket, cfg *LeagueConfig, short map[TeamID]int) {
	owner := make(map[PlayerID]TeamID)
	for _, t := range teams {
		roster := rosters[t.ID]
		want := cfg.League.RosterSize - short[t.ID]
		if len(roster) != want {
			invariantf("%s has %d players, want %d", t.ID, len(roster), want)
		}
		payroll := 0.0
		for _, id := range roster {
			if prev, dup := owner[id]; dup {
				invariantf("player %s on both %s and %s", id, prev, t.ID)
			}
			owner[id] = t.ID
			if market.IsAvailable(id) {
				invariantf("player %s rostered by %s but still available", id, t.ID)
			}
			p, ok := market.Player(id)
			if !ok {
				invariantf("player %s rostered by %s does not exist", id, t.ID)
			}
			payroll += p.Salary
		}
		if budget := cfg.EffectiveBudget(t.Budget); !withinBudget(payroll, budget) {
			invariantf("%s payroll %.2f exceeds budget %.2f", t.ID, payroll, budget)
		}
	}
}

// CheckRanks asserts that ranks form a bijection onto 1..len(standings).
func CheckRanks(standings []Standing) {
	seen := make(map[int]TeamID, len(standings))
	for _, s := range standings {
		if s.Rank < 1 || s.Rank > len(standings) {
			invariantf("%s has rank %d outside 1..%d", s.Team, s.Rank, len(standings))
		}
		if prev, dup := seen[s.Rank]; dup {
			invariantf("rank %d shared by %s and %s", s.Rank, prev, s.Team)
		}
		seen[s.Rank] = s.Team
	}
}
