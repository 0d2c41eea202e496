package sim

import (
	"cmp"
	"slices"

	"github.com/sirupsen/logrus"
)

// Series is one best-of-N playoff matchup.
type Series struct {
	Stage    Stage
	Round    int // 0 for pre-playoffs
	High     TeamID
	Low      TeamID
	BestOf   int
	HighWins int
	LowWins  int
	Winner   TeamID
	Games    []GameResult
}

// PlayoffResult is the bracket as played.
type PlayoffResult struct {
	Series   []Series
	Champion TeamID
}

// PlayoffSimulator runs the post-season on ranked teams. Ranks below the
// playoff field are eliminated in the regular season; the pre-playoff seeds
// play off for the last round-1 slots; then each round pairs the best
// remaining regular-season rank with the worst until a champion remains.
type PlayoffSimulator struct {
	cfg   *LeagueConfig
	games *SeasonSimulator
}

// NewPlayoffSimulator creates a playoff simulator sharing the season's game model.
func NewPlayoffSimulator(cfg *LeagueConfig, games *SeasonSimulator) *PlayoffSimulator {
	return &PlayoffSimulator{cfg: cfg, games: games}
}

// Play runs the bracket. Every team must have its regular-season Rank set.
// It sets Exit on every eliminated team and Champion on the winner.
func (p *PlayoffSimulator) Play(teams []*Team) *PlayoffResult {
	ranked := slices.Clone(teams)
	slices.SortFunc(ranked, byRank)

	direct := p.cfg.Playoffs.DirectSeeds
	pre := p.cfg.Playoffs.PrePlayoffSeeds
	for _, t := range ranked[direct+pre:] {
		t.Exit = Exit{Stage: StageRegularSeason}
	}

	result := &PlayoffResult{}
	field := slices.Clone(ranked[:direct])
	if pre > 0 {
		winners := p.playRound(ranked[direct:direct+pre], StagePrePlayoffs, 0, p.cfg.Playoffs.Series.PrePlayoffs, result)
		field = append(field, winners...)
	}
	for i, bestOf := range p.cfg.Playoffs.Series.Rounds {
		field = p.playRound(field, StagePlayoffs, i+1, bestOf, result)
	}
	if len(field) != 1 {
		invariantf("playoffs ended with %d teams standing", len(field))
	}
	field[0].Champion = true
	result.Champion = field[0].ID
	logrus.Debugf("champion: %s (rank %d)", field[0].ID, field[0].Rank)
	return result
}

// playRound re-seeds the field by regular-season rank, pairs best with worst,
// and returns the series winners in seed order.
func (p *PlayoffSimulator) playRound(field []*Team, stage Stage, round, bestOf int, result *PlayoffResult) []*Team {
	seeded := slices.Clone(field)
	slices.SortFunc(seeded, byRank)
	winners := make([]*Team, 0, len(seeded)/2)
	for i := 0; i < len(seeded)/2; i++ {
		high, low := seeded[i], seeded[len(seeded)-1-i]
		s := p.playSeries(high, low, stage, round, bestOf)
		result.Series = append(result.Series, s)
		winner, loser := high, low
		if s.Winner == low.ID {
			winner, loser = low, high
		}
		loser.Exit = Exit{Stage: stage, Round: round}
		winners = append(winners, winner)
	}
	return winners
}

// playSeries plays until one side reaches the majority of bestOf; the higher
// seed hosts the odd-numbered games.
func (p *PlayoffSimulator) playSeries(high, low *Team, stage Stage, round, bestOf int) Series {
	need := bestOf/2 + 1
	s := Series{Stage: stage, Round: round, High: high.ID, Low: low.ID, BestOf: bestOf}
	for g := 0; s.HighWins < need && s.LowWins < need; g++ {
		home, away := high, low
		if g%2 == 1 {
			home, away = low, high
		}
		res := p.games.PlayGame(home, away, stage)
		if res.Winner == high.ID {
			s.HighWins++
		} else {
			s.LowWins++
		}
		s.Games = append(s.Games, res)
	}
	s.Winner = high.ID
	if s.LowWins >= need {
		s.Winner = low.ID
	}
	return s
}

func byRank(a, b *Team) int {
	return cmp.Compare(a.Rank, b.Rank)
}
