package results

import (
	"github.com/leaguesim/leaguesim/sim"
	"github.com/leaguesim/leaguesim/sim/trace"
)

// fixtureRun is one replication with a completed season and one invalid
// season, plus a second replication that failed before playing.
func fixtureRun() *sim.RunResult {
	st := trace.NewSimulationTrace(trace.TraceConfig{Level: trace.TraceLevelDecisions})
	st.RecordContest(trace.ContestRecord{Season: 1, Player: "D1", Winner: "team_1"})
	st.RecordReplacement(trace.ReplacementRecord{Season: 1, Team: "team_2", Replacement: "D7", SkillGap: 0.03})
	st.RecordReplacement(trace.ReplacementRecord{Season: 2, Team: "team_1", Shortfall: true})
	st.RecordTieBreak(trace.TieBreakRecord{Season: 1, Teams: []string{"team_1", "team_2"}, Placement: true})

	salaries := sim.SalarySummary{Count: 30, Min: 100, Mean: 1500, Median: 1400, Max: 4000}
	return &sim.RunResult{Replications: []*sim.Replication{
		{
			Index: 0,
			RunID: "run-a",
			Trace: st,
			Seasons: []*sim.SeasonResult{
				{
					Season: 1, Valid: true, Contested: 1, Champion: 2, Salaries: salaries,
					Teams: []sim.TeamSeason{
						{Team: 1, Budget: 12000, Payroll: 11000, Skill: 1.5, Revenue: 50000, Wins: 3, Games: 4, Rank: 1,
							Exit: sim.Exit{Stage: sim.StagePlayoffs, Round: 1}},
						{Team: 2, Budget: 15000, Payroll: 14500, Skill: 1.9, Revenue: 70000, Wins: 1, Games: 4, Rank: 2,
							Champion: true},
					},
				},
				{
					Season: 2, Valid: false, Failure: "short rosters: team_1 (-1)", Salaries: salaries,
					Teams: []sim.TeamSeason{
						{Team: 1, Budget: 50000, Shortfall: 1},
						{Team: 2, Budget: 70000},
					},
				},
			},
			Halted: true,
		},
		{Index: 1, RunID: "run-b", Halted: true, Err: sim.ErrInfeasibleOptimization},
	}}
}
