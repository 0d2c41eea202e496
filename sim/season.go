package sim

import (
	"cmp"
	"math/rand"
	"slices"

	"github.com/sirupsen/logrus"
)

// GameResult is one played game.
type GameResult struct {
	Stage       Stage
	Home        TeamID
	Away        TeamID
	Winner      TeamID
	HomeWinProb float64
}

// Standing is one row of a ranking table.
type Standing struct {
	Team  TeamID
	Wins  int
	Games int
	Rank  int // 0 until resolved
}

// WinProbability returns the chance that a team of skill a beats a team of
// skill b. Two skill-less teams are even.
func WinProbability(a, b float64) float64 {
	if a+b <= 0 {
		return 0.5
	}
	return a / (a + b)
}

// drawGame returns true when the first team wins a game with win probability p.
func drawGame(rng *rand.Rand, p float64) bool {
	return rng.Float64() < p
}

// GateRevenue is the home team's income from one game:
// monetaryFactor * phaseFactor * (marketSize*p - competitiveBalance/2 * p^2),
// where p is the home team's win probability.
func GateRevenue(cfg *LeagueConfig, home *Team, p float64, stage Stage) float64 {
	return cfg.Revenue.MonetaryFactor * cfg.PhaseFactor(stage) *
		(home.MarketSize*p - (home.CompetitiveBalance/2)*p*p)
}

// SeasonSimulator plays games between rostered teams. Outcomes depend only on
// aggregate roster skill.
type SeasonSimulator struct {
	cfg *LeagueConfig
	rng *rand.Rand
}

// NewSeasonSimulator creates a simulator drawing outcomes from rng (the games
// subsystem stream).
func NewSeasonSimulator(cfg *LeagueConfig, rng *rand.Rand) *SeasonSimulator {
	return &SeasonSimulator{cfg: cfg, rng: rng}
}

// PlayGame plays one game, credits the home team's gate revenue and returns
// the result. Season records are left to the caller.
func (s *SeasonSimulator) PlayGame(home, away *Team, stage Stage) GameResult {
	p := WinProbability(home.Skill, away.Skill)
	g := GameResult{Stage: stage, Home: home.ID, Away: away.ID, Winner: away.ID, HomeWinProb: p}
	if drawGame(s.rng, p) {
		g.Winner = home.ID
	}
	home.Revenue += GateRevenue(s.cfg, home, p, stage)
	return g
}

// RegularSeason is the record and the unresolved standings of a regular season.
type RegularSeason struct {
	Record    []GameResult
	Standings []Standing // sorted by winning percentage, ranks not yet assigned
}

// PlayRegularSeason plays every pairing GamesPerPairing times, alternating
// home advantage, and returns the standings sorted by winning percentage.
// Equal percentages keep team order; RankingResolver breaks those ties.
func (s *SeasonSimulator) PlayRegularSeason(teams []*Team) *RegularSeason {
	games := s.cfg.Schedule.GamesPerPairing
	rs := &RegularSeason{
		Record: make([]GameResult, 0, len(teams)*(len(teams)-1)/2*games),
	}
	byID := teamIndex(teams)
	for i := 0; i < len(teams); i++ {
		for j := i + 1; j < len(teams); j++ {
			for g := 0; g < games; g++ {
				home, away := teams[i], teams[j]
				if g%2 == 1 {
					home, away = away, home
				}
				res := s.PlayGame(home, away, StageRegularSeason)
				home.Games++
				away.Games++
				byID[res.Winner].Wins++
				rs.Record = append(rs.Record, res)
			}
		}
	}

	rs.Standings = make([]Standing, 0, len(teams))
	for _, t := range teams {
		rs.Standings = append(rs.Standings, Standing{Team: t.ID, Wins: t.Wins, Games: t.Games})
	}
	slices.SortStableFunc(rs.Standings, func(a, b Standing) int {
		return cmp.Compare(winPct(b), winPct(a))
	})
	logrus.Debugf("regular season: %d games played by %d teams", len(rs.Record), len(teams))
	return rs
}

func winPct(s Standing) float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Games)
}
