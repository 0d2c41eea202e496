package sim

import (
	"cmp"
	"fmt"
	"math"
	"math/rand"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/leaguesim/leaguesim/sim/trace"
)

// Resolution is the outcome of one negotiation round.
type Resolution struct {
	Rosters   map[TeamID][]PlayerID // final rosters, sorted with ComparePlayerIDs
	Contested []PlayerID            // contested players in the order they were resolved
	Shortfall map[TeamID]int        // missing players per team (tolerant policy only)
}

// Short reports whether any team ended below the roster size.
func (r *Resolution) Short() bool {
	return len(r.Shortfall) > 0
}

// ConflictResolver turns the teams' desired rosters into final rosters.
// Players wanted by a single team go straight to it. Each contested player
// picks one interested team at random; every other interested team backfills
// with the available player closest in skill that it can still afford.
//
// A team's affordability counts the players it has signed plus the contested
// players it is still waiting on, so a replacement never spends money the
// team may need for a player it wins later.
type ConflictResolver struct {
	cfg    *LeagueConfig
	rng    *rand.Rand
	trace  *trace.SimulationTrace
	season int
}

// NewConflictResolver creates a resolver. rng must be the conflict
// subsystem stream; st may be nil.
func NewConflictResolver(cfg *LeagueConfig, rng *rand.Rand, st *trace.SimulationTrace, season int) *ConflictResolver {
	return &ConflictResolver{cfg: cfg, rng: rng, trace: st, season: season}
}

// ledger tracks a team's spending during negotiation.
type ledger struct {
	team      *Team
	budget    float64 // effective budget
	committed float64 // salaries of signed players
	reserved  float64 // salaries of contested players still pending
	roster    []PlayerID
}

func (l *ledger) sign(p Player) {
	l.roster = append(l.roster, p.ID)
	l.committed += p.Salary
}

func (l *ledger) affords(salary float64) bool {
	return withinBudget(l.committed+l.reserved+salary, l.budget)
}

// Resolve takes every desired player off the market, assigns them, and fills
// the gaps left by lost contests from the remaining pool. Teams are
// considered in slice order; desired's map order never matters.
func (r *ConflictResolver) Resolve(desired map[TeamID][]PlayerID, market *PlayerMarket, teams []*Team) (*Resolution, error) {
	// 1. who wants whom
	interested := make(map[PlayerID][]TeamID)
	ledgers := make(map[TeamID]*ledger, len(teams))
	for _, t := range teams {
		ledgers[t.ID] = &ledger{team: t, budget: r.cfg.EffectiveBudget(t.Budget)}
		wanted := slices.Clone(desired[t.ID])
		slices.SortFunc(wanted, ComparePlayerIDs)
		if len(slices.Compact(slices.Clone(wanted))) != len(wanted) {
			invariantf("%s desires the same player twice", t.ID)
		}
		for _, id := range wanted {
			interested[id] = append(interested[id], t.ID)
		}
	}
	ids := make([]PlayerID, 0, len(interested))
	for id := range interested {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, ComparePlayerIDs)
	market.Remove(ids...)

	// 2. partition
	var contested []PlayerID
	for _, id := range ids {
		if len(interested[id]) > 1 {
			contested = append(contested, id)
			p := mustPlayer(market, id)
			for _, tid := range interested[id] {
				ledgers[tid].reserved += p.Salary
			}
		}
	}

	// 3. uncontested players go to their only suitor
	for _, id := range ids {
		if len(interested[id]) == 1 {
			ledgers[interested[id][0]].sign(mustPlayer(market, id))
		}
	}

	// 4. contested players, in random order
	r.rng.Shuffle(len(contested), func(i, j int) {
		contested[i], contested[j] = contested[j], contested[i]
	})
	res := &Resolution{
		Rosters:   make(map[TeamID][]PlayerID, len(teams)),
		Contested: contested,
		Shortfall: make(map[TeamID]int),
	}
	for _, id := range contested {
		p := mustPlayer(market, id)
		suitors := interested[id]
		for _, tid := range suitors {
			ledgers[tid].reserved -= p.Salary
		}
		w := r.rng.Intn(len(suitors))
		winner := suitors[w]
		ledgers[winner].sign(p)

		losers := make([]TeamID, 0, len(suitors)-1)
		losers = append(losers, suitors[:w]...)
		losers = append(losers, suitors[w+1:]...)
		r.rng.Shuffle(len(losers), func(i, j int) {
			losers[i], losers[j] = losers[j], losers[i]
		})

		logrus.Debugf("[season %d] contested %s (skill %.2f): %v chose %s", r.season, id, p.Skill, suitors, winner)
		r.trace.RecordContest(trace.ContestRecord{
			Season:     r.season,
			Player:     id.String(),
			Skill:      p.Skill,
			Interested: teamNames(suitors),
			Winner:     winner.String(),
		})

		for _, tid := range losers {
			if err := r.replace(ledgers[tid], p, market, res); err != nil {
				return nil, err
			}
		}
	}

	// 5. final aggregates
	for _, t := range teams {
		roster := ledgers[t.ID].roster
		slices.SortFunc(roster, ComparePlayerIDs)
		res.Rosters[t.ID] = roster
		t.assignRoster(roster, market)
	}
	CheckRosters(res.Rosters, teams, market, r.cfg, res.Shortfall)
	return res, nil
}

// replace scans the available pool by increasing skill gap to lost and signs
// the first player the team can afford.
func (r *ConflictResolver) replace(l *ledger, lost Player, market *PlayerMarket, res *Resolution) error {
	candidates := market.Available()
	slices.SortStableFunc(candidates, func(a, b Player) int {
		return cmp.Compare(math.Abs(a.Skill-lost.Skill), math.Abs(b.Skill-lost.Skill))
	})
	for i, c := range candidates {
		if !l.affords(c.Salary) {
			continue
		}
		market.Remove(c.ID)
		l.sign(c)
		r.trace.RecordReplacement(trace.ReplacementRecord{
			Season:      r.season,
			Team:        l.team.ID.String(),
			Lost:        lost.ID.String(),
			Replacement: c.ID.String(),
			SkillGap:    math.Abs(c.Skill - lost.Skill),
			Scanned:     i + 1,
		})
		logrus.Debugf("[season %d] %s replaces %s with %s", r.season, l.team.ID, lost.ID, c.ID)
		return nil
	}

	r.trace.RecordReplacement(trace.ReplacementRecord{
		Season:    r.season,
		Team:      l.team.ID.String(),
		Lost:      lost.ID.String(),
		Scanned:   len(candidates),
		Shortfall: true,
	})
	if r.cfg.Policy.Replacement != PolicyTolerant {
		return fmt.Errorf("%w: %s lost %s and none of %d available players fits budget %.2f (committed %.2f)",
			ErrReplacementExhausted, l.team.ID, lost.ID, len(candidates), l.budget, l.committed+l.reserved)
	}
	res.Shortfall[l.team.ID]++
	logrus.Warnf("[season %d] %s lost %s and could not afford a replacement; roster left short", r.season, l.team.ID, lost.ID)
	return nil
}

func mustPlayer(market *PlayerMarket, id PlayerID) Player {
	p, ok := market.Player(id)
	if !ok {
		invariantf("desired player %s is not in the market", id)
	}
	return p
}

func teamNames(ids []TeamID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
