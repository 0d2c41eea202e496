package sim

import (
	"fmt"
	"math"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/leaguesim/leaguesim/sim/trace"
)

// TeamSeason is a snapshot of one team at the end of a season.
type TeamSeason struct {
	Team      TeamID
	Budget    float64
	Payroll   float64
	Skill     float64
	Revenue   float64
	Wins      int
	Games     int
	Rank      int
	Exit      Exit
	Champion  bool
	Bankrupt  bool
	Shortfall int
}

// SeasonResult is what one season produces for the persistence layer.
type SeasonResult struct {
	Season    int
	Valid     bool
	Failure   string // why the season is invalid; empty when valid
	Teams     []TeamSeason
	Salaries  SalarySummary
	Contested int
	Champion  TeamID // zero when the season did not finish
}

// League owns the teams for its whole lifetime and the working state of the
// current season.
type League struct {
	cfg   *LeagueConfig
	rng   *PartitionedRNG
	trace *trace.SimulationTrace

	Teams  []*Team
	Season int // last season started, 0 before the first

	// season working state, cleared by Rollover
	Market    *PlayerMarket
	Desired   map[TeamID][]PlayerID
	Conflicts []PlayerID
	Final     map[TeamID][]PlayerID
	Ranking   []Standing
	Record    []GameResult
	Playoffs  *PlayoffResult
}

// NewLeague creates the teams with their initial budgets: the configured list
// if any, otherwise a uniform draw from the configured range.
func NewLeague(cfg *LeagueConfig, rng *PartitionedRNG, st *trace.SimulationTrace) *League {
	l := &League{cfg: cfg, rng: rng, trace: st}
	budgetRNG := rng.ForSubsystem(SubsystemBudget)
	for i := 0; i < cfg.League.Teams; i++ {
		var budget float64
		if len(cfg.Teams.Budgets) > 0 {
			budget = cfg.Teams.Budgets[i]
		} else {
			lo, hi := cfg.Teams.InitialBudget.Min, cfg.Teams.InitialBudget.Max
			budget = math.Round(lo + budgetRNG.Float64()*(hi-lo))
		}
		l.Teams = append(l.Teams, &Team{
			ID:                 TeamID(i + 1),
			Budget:             budget,
			MarketSize:         cfg.MarketSizeOf(i),
			CompetitiveBalance: cfg.CompetitiveBalanceOf(i),
		})
	}
	return l
}

// Trace returns the league's decision trace (nil when tracing is off).
func (l *League) Trace() *trace.SimulationTrace { return l.trace }

// PlaySeason runs one full season: market, optimization, negotiation,
// regular season, tie breaks, playoffs and revenue.
//
// A strict-policy failure returns an error and no result. A tolerated failure
// (bankruptcy or a short roster) returns a result with Valid false and no
// games played; the caller should stop the replication there.
func (l *League) PlaySeason() (*SeasonResult, error) {
	l.Season++
	season := l.Season
	cfg := l.cfg
	for _, t := range l.Teams {
		t.ResetSeason()
	}

	budgets := make([]float64, len(l.Teams))
	for i, t := range l.Teams {
		budgets[i] = cfg.EffectiveBudget(t.Budget)
	}
	market, err := NewPlayerMarket(cfg, season, budgets, l.rng.ForSubsystem(SubsystemMarket))
	if err != nil {
		return nil, fmt.Errorf("season %d: %w", season, err)
	}
	l.Market = market
	logrus.Infof("[season %d] market: %d players, w_max=%.0f, scarcity=%.3f",
		season, market.Size(), market.MaxSalary(), market.Scarcity())

	// each team picks its ideal roster from the full pool
	l.Desired = make(map[TeamID][]PlayerID, len(l.Teams))
	available := market.Available()
	var bankrupt []string
	for _, t := range l.Teams {
		ids, err := SelectBestRoster(available, cfg.EffectiveBudget(t.Budget), cfg.League.RosterSize, cfg.SkillQuantum())
		if err != nil {
			if cfg.Policy.Infeasible != PolicyBankrupt {
				return nil, fmt.Errorf("season %d: %s (budget %.2f): %w", season, t.ID, t.Budget, err)
			}
			t.Bankrupt = true
			bankrupt = append(bankrupt, t.ID.String())
			logrus.Warnf("[season %d] %s cannot field %d players on budget %.2f: bankrupt",
				season, t.ID, cfg.League.RosterSize, t.Budget)
			continue
		}
		l.Desired[t.ID] = ids
	}
	if len(bankrupt) > 0 {
		return l.invalid(fmt.Sprintf("bankrupt: %s", strings.Join(bankrupt, ", ")), nil), nil
	}

	resolver := NewConflictResolver(cfg, l.rng.ForSubsystem(SubsystemConflict), l.trace, season)
	res, err := resolver.Resolve(l.Desired, market, l.Teams)
	if err != nil {
		return nil, fmt.Errorf("season %d: %w", season, err)
	}
	l.Final = res.Rosters
	l.Conflicts = res.Contested
	logrus.Infof("[season %d] rosters settled, %d contested players", season, len(res.Contested))
	if res.Short() {
		short := make([]string, 0, len(res.Shortfall))
		for _, t := range l.Teams {
			if n := res.Shortfall[t.ID]; n > 0 {
				short = append(short, fmt.Sprintf("%s (-%d)", t.ID, n))
			}
		}
		return l.invalid("short rosters: "+strings.Join(short, ", "), res.Shortfall), nil
	}

	games := NewSeasonSimulator(cfg, l.rng.ForSubsystem(SubsystemGames))
	rs := games.PlayRegularSeason(l.Teams)
	l.Record = rs.Record

	skills := make(map[TeamID]float64, len(l.Teams))
	for _, t := range l.Teams {
		skills[t.ID] = t.Skill
	}
	ranker := NewRankingResolver(l.rng.ForSubsystem(SubsystemGames), func(id TeamID) float64 { return skills[id] },
		cfg.League.MaxTieDepth, l.trace, season)
	ranking, err := ranker.Resolve(rs.Standings, rs.Record)
	if err != nil {
		return nil, fmt.Errorf("season %d: %w", season, err)
	}
	l.Ranking = ranking
	byID := teamIndex(l.Teams)
	for _, s := range ranking {
		byID[s.Team].Rank = s.Rank
	}

	l.Playoffs = NewPlayoffSimulator(cfg, games).Play(l.Teams)

	share := l.BroadcastingShare(season)
	for _, t := range l.Teams {
		t.Revenue += share
	}
	logrus.Infof("[season %d] champion %s", season, l.Playoffs.Champion)

	result := l.snapshot(nil)
	result.Valid = true
	result.Champion = l.Playoffs.Champion
	return result, nil
}

// BroadcastingShare is each team's even split of the season's broadcasting
// income, which grows geometrically from the base.
func (l *League) BroadcastingShare(season int) float64 {
	r := l.cfg.Revenue
	total := r.BroadcastingBase * math.Pow(1+r.BroadcastingGrowth, float64(season-1))
	return total / float64(len(l.Teams))
}

// Rollover closes the season: each budget becomes the revenue just earned and
// all season state is cleared.
func (l *League) Rollover() {
	for _, t := range l.Teams {
		t.Budget = t.Revenue
		t.ResetSeason()
	}
	l.Market = nil
	l.Desired = nil
	l.Conflicts = nil
	l.Final = nil
	l.Ranking = nil
	l.Record = nil
	l.Playoffs = nil
}

func (l *League) invalid(reason string, shortfall map[TeamID]int) *SeasonResult {
	logrus.Errorf("[season %d] season invalid: %s", l.Season, reason)
	result := l.snapshot(shortfall)
	result.Failure = reason
	return result
}

func (l *League) snapshot(shortfall map[TeamID]int) *SeasonResult {
	result := &SeasonResult{
		Season:    l.Season,
		Salaries:  l.Market.SalarySummary(),
		Contested: len(l.Conflicts),
	}
	for _, t := range l.Teams {
		result.Teams = append(result.Teams, TeamSeason{
			Team:      t.ID,
			Budget:    t.Budget,
			Payroll:   t.Payroll,
			Skill:     t.Skill,
			Revenue:   t.Revenue,
			Wins:      t.Wins,
			Games:     t.Games,
			Rank:      t.Rank,
			Exit:      t.Exit,
			Champion:  t.Champion,
			Bankrupt:  t.Bankrupt,
			Shortfall: shortfall[t.ID],
		})
	}
	return result
}
