package results

import (
	"fmt"
	"io"
	"slices"

	"github.com/leaguesim/leaguesim/sim"
	"github.com/leaguesim/leaguesim/sim/trace"
)

// Print writes a human-readable summary of a run.
func Print(w io.Writer, run *sim.RunResult) {
	var seasons, invalid, halted, failed int
	titles := make(map[sim.TeamID]int)
	var traces []*trace.SimulationTrace
	for _, rep := range run.Replications {
		if rep == nil {
			continue
		}
		if rep.Halted {
			halted++
		}
		if rep.Err != nil {
			failed++
		}
		for _, s := range rep.Seasons {
			seasons++
			if !s.Valid {
				invalid++
			}
			if s.Champion != 0 {
				titles[s.Champion]++
			}
		}
		if rep.Trace != nil {
			traces = append(traces, rep.Trace)
		}
	}

	fmt.Fprintln(w, "=== League Simulation Summary ===")
	fmt.Fprintf(w, "Replications         : %d (%d halted, %d failed)\n", len(run.Replications), halted, failed)
	fmt.Fprintf(w, "Seasons simulated    : %d (%d invalid)\n", seasons, invalid)
	if len(titles) > 0 {
		teams := make([]sim.TeamID, 0, len(titles))
		for id := range titles {
			teams = append(teams, id)
		}
		slices.Sort(teams)
		fmt.Fprintln(w, "Championships:")
		for _, id := range teams {
			fmt.Fprintf(w, "  %-10s : %d\n", id, titles[id])
		}
	}
	for i, st := range traces {
		s := trace.Summarize(st)
		fmt.Fprintf(w, "Negotiation (trace %d): %d contests, %d replacements, %d shortfalls, mean gap %.3f, max gap %.3f, %d placement tournaments\n",
			i, s.TotalContests, s.TotalReplacements, s.Shortfalls, s.MeanSkillGap, s.MaxSkillGap, s.PlacementTournaments)
	}
}
