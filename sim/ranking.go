package sim

import (
	"cmp"
	"fmt"
	"math/rand"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/leaguesim/leaguesim/sim/trace"
)

// RankingResolver turns a win-sorted table into a strict ranking.
//
// Teams level on wins are separated by their record against each other. When
// that record is level too, the tied teams play a placement tournament (one
// game per pair, no revenue) and the resolver recurses on its results; a
// placement tournament that ends level is simply played again one level
// deeper. Every recursion works on a strictly smaller group or on fresh
// placement games, so the process ends almost surely; maxDepth guards it.
//
// The resolver only reads skills. It never touches team state, so resolving
// ties is revenue-neutral.
type RankingResolver struct {
	rng      *rand.Rand
	skillOf  func(TeamID) float64
	maxDepth int
	trace    *trace.SimulationTrace
	season   int
}

// NewRankingResolver creates a resolver. rng is the games subsystem stream;
// st may be nil.
func NewRankingResolver(rng *rand.Rand, skillOf func(TeamID) float64, maxDepth int, st *trace.SimulationTrace, season int) *RankingResolver {
	return &RankingResolver{rng: rng, skillOf: skillOf, maxDepth: maxDepth, trace: st, season: season}
}

// Resolve returns a copy of standings ordered by rank with Rank set to 1..N.
// The input slice is not modified.
func (r *RankingResolver) Resolve(standings []Standing, record []GameResult) ([]Standing, error) {
	ordered, err := r.resolve(standings, record, 0)
	if err != nil {
		return nil, err
	}
	for i := range ordered {
		ordered[i].Rank = i + 1
	}
	CheckRanks(ordered)
	return ordered, nil
}

// resolve returns rows in final order.
func (r *RankingResolver) resolve(rows []Standing, record []GameResult, depth int) ([]Standing, error) {
	if depth > r.maxDepth {
		return nil, fmt.Errorf("%w: %d teams still tied after %d levels", ErrTieDepthExceeded, len(rows), r.maxDepth)
	}
	sorted := slices.Clone(rows)
	slices.SortStableFunc(sorted, func(a, b Standing) int {
		return cmp.Compare(b.Wins, a.Wins)
	})

	out := make([]Standing, 0, len(sorted))
	for i := 0; i < len(sorted); {
		j := i + 1
		for j < len(sorted) && sorted[j].Wins == sorted[i].Wins {
			j++
		}
		if j-i == 1 {
			out = append(out, sorted[i])
			i = j
			continue
		}

		group := sorted[i:j]
		h2h := headToHead(group, record)
		placement := allLevel(h2h)
		r.trace.RecordTieBreak(trace.TieBreakRecord{
			Season:    r.season,
			Teams:     standingNames(group),
			Placement: placement,
			Depth:     depth,
		})

		var sub []Standing
		var err error
		if placement {
			sub, err = r.placement(group, depth)
		} else {
			sub, err = r.resolve(h2h, record, depth+1)
		}
		if err != nil {
			return nil, err
		}

		byTeam := make(map[TeamID]Standing, len(group))
		for _, s := range group {
			byTeam[s.Team] = s
		}
		for _, s := range sub {
			out = append(out, byTeam[s.Team])
		}
		i = j
	}
	return out, nil
}

// placement plays one game between every pair of the group and ranks the
// group on those games alone.
func (r *RankingResolver) placement(group []Standing, depth int) ([]Standing, error) {
	logrus.Debugf("[season %d] placement tournament among %v (depth %d)", r.season, standingNames(group), depth)
	wins := make(map[TeamID]int, len(group))
	record := make([]GameResult, 0, len(group)*(len(group)-1)/2)
	for i := 0; i < len(group); i++ {
		for j := i + 1; j < len(group); j++ {
			home, away := group[i].Team, group[j].Team
			p := WinProbability(r.skillOf(home), r.skillOf(away))
			g := GameResult{Stage: StageRegularSeason, Home: home, Away: away, Winner: away, HomeWinProb: p}
			if drawGame(r.rng, p) {
				g.Winner = home
			}
			wins[g.Winner]++
			record = append(record, g)
		}
	}
	rows := make([]Standing, len(group))
	for i, s := range group {
		rows[i] = Standing{Team: s.Team, Wins: wins[s.Team], Games: len(group) - 1}
	}
	return r.resolve(rows, record, depth+1)
}

// headToHead counts each group member's wins in games played only against
// other group members.
func headToHead(group []Standing, record []GameResult) []Standing {
	member := make(map[TeamID]bool, len(group))
	for _, s := range group {
		member[s.Team] = true
	}
	wins := make(map[TeamID]int, len(group))
	games := make(map[TeamID]int, len(group))
	for _, g := range record {
		if !member[g.Home] || !member[g.Away] {
			continue
		}
		wins[g.Winner]++
		games[g.Home]++
		games[g.Away]++
	}
	out := make([]Standing, len(group))
	for i, s := range group {
		out[i] = Standing{Team: s.Team, Wins: wins[s.Team], Games: games[s.Team]}
	}
	return out
}

func allLevel(rows []Standing) bool {
	for _, s := range rows[1:] {
		if s.Wins != rows[0].Wins {
			return false
		}
	}
	return true
}

func standingNames(rows []Standing) []string {
	out := make([]string, len(rows))
	for i, s := range rows {
		out[i] = s.Team.String()
	}
	return out
}
