// Package results flattens simulation output into rows and writes them out:
// CSV files, a SQLite database and a Prometheus textfile.
package results

import (
	"github.com/leaguesim/leaguesim/sim"
)

// SeasonRow is one team in one season of one replication.
type SeasonRow struct {
	RunID        string  `json:"run_id"`
	Replication  int     `json:"replication"`
	Season       int     `json:"season"`
	Team         string  `json:"team"`
	Budget       float64 `json:"budget"`
	Payroll      float64 `json:"payroll"`
	Skill        float64 `json:"skill"`
	Revenue      float64 `json:"revenue"`
	Wins         int     `json:"wins"`
	Losses       int     `json:"losses"`
	Rank         int     `json:"rank"`
	EliminatedRS bool    `json:"eliminated_regular_season"`
	EliminatedPP bool    `json:"eliminated_pre_playoffs"`
	EliminatedIn int     `json:"eliminated_playoff_round"` // 0 unless knocked out in a playoff round
	Champion     bool    `json:"champion"`
	Bankrupt     bool    `json:"bankrupt"`
	Shortfall    int     `json:"shortfall"`
	Valid        bool    `json:"valid"`
}

// SalaryRow summarises one season's player market.
type SalaryRow struct {
	RunID       string  `json:"run_id"`
	Replication int     `json:"replication"`
	Season      int     `json:"season"`
	Count       int     `json:"count"`
	Min         float64 `json:"min"`
	Mean        float64 `json:"mean"`
	Median      float64 `json:"median"`
	Max         float64 `json:"max"`
}

// Rows flattens a run, replication by replication, season by season, in team order.
func Rows(run *sim.RunResult) ([]SeasonRow, []SalaryRow) {
	var seasons []SeasonRow
	var salaries []SalaryRow
	for _, rep := range run.Replications {
		if rep == nil {
			continue
		}
		for _, s := range rep.Seasons {
			for _, t := range s.Teams {
				seasons = append(seasons, SeasonRow{
					RunID:        rep.RunID,
					Replication:  rep.Index,
					Season:       s.Season,
					Team:         t.Team.String(),
					Budget:       t.Budget,
					Payroll:      t.Payroll,
					Skill:        t.Skill,
					Revenue:      t.Revenue,
					Wins:         t.Wins,
					Losses:       t.Games - t.Wins,
					Rank:         t.Rank,
					EliminatedRS: t.Exit.Stage == sim.StageRegularSeason,
					EliminatedPP: t.Exit.Stage == sim.StagePrePlayoffs,
					EliminatedIn: playoffRound(t.Exit),
					Champion:     t.Champion,
					Bankrupt:     t.Bankrupt,
					Shortfall:    t.Shortfall,
					Valid:        s.Valid,
				})
			}
			salaries = append(salaries, SalaryRow{
				RunID:       rep.RunID,
				Replication: rep.Index,
				Season:      s.Season,
				Count:       s.Salaries.Count,
				Min:         s.Salaries.Min,
				Mean:        s.Salaries.Mean,
				Median:      s.Salaries.Median,
				Max:         s.Salaries.Max,
			})
		}
	}
	return seasons, salaries
}

func playoffRound(e sim.Exit) int {
	if e.Stage == sim.StagePlayoffs {
		return e.Round
	}
	return 0
}
