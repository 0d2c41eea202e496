package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalContests        int
	TotalReplacements    int
	Shortfalls           int
	MeanSkillGap         float64
	MaxSkillGap          float64
	PlacementTournaments int
	ContestWins          map[string]int // team → contested players won
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		ContestWins: make(map[string]int),
	}
	if st == nil {
		return summary
	}
	summary.TotalContests = len(st.Contests)
	for _, c := range st.Contests {
		summary.ContestWins[c.Winner]++
	}
	summary.TotalReplacements = len(st.Replacements)
	filled := 0
	totalGap := 0.0
	for _, r := range st.Replacements {
		if r.Shortfall {
			summary.Shortfalls++
			continue
		}
		filled++
		totalGap += r.SkillGap
		if r.SkillGap > summary.MaxSkillGap {
			summary.MaxSkillGap = r.SkillGap
		}
	}
	if filled > 0 {
		summary.MeanSkillGap = totalGap / float64(filled)
	}
	for _, tb := range st.TieBreaks {
		if tb.Placement {
			summary.PlacementTournaments++
		}
	}
	return summary
}
