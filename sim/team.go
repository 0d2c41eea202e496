package sim

// Team is one league slot. Budget carries over between seasons (it becomes
// the previous season's revenue); everything below the season marker is
// cleared by ResetSeason.
type Team struct {
	ID                 TeamID
	Budget             float64 // raw budget: initial allocation or prior-season revenue
	MarketSize         float64 // exogenous
	CompetitiveBalance float64 // exogenous

	// season state
	Roster   []PlayerID
	Payroll  float64 // sum of rostered salaries
	Skill    float64 // sum of rostered skills
	Revenue  float64 // accumulated in-season revenue
	Wins     int
	Games    int
	Rank     int
	Exit     Exit
	Champion bool
	Bankrupt bool
}

// WinPct returns the share of games won, 0 before any game.
func (t *Team) WinPct() float64 {
	if t.Games == 0 {
		return 0
	}
	return float64(t.Wins) / float64(t.Games)
}

// ResetSeason clears all per-season state, keeping identity, budget and the
// exogenous coefficients.
func (t *Team) ResetSeason() {
	t.Roster = nil
	t.Payroll = 0
	t.Skill = 0
	t.Revenue = 0
	t.Wins = 0
	t.Games = 0
	t.Rank = 0
	t.Exit = Exit{}
	t.Champion = false
	t.Bankrupt = false
}

// assignRoster sets the roster and recomputes payroll and skill from the market.
func (t *Team) assignRoster(roster []PlayerID, market *PlayerMarket) {
	t.Roster = roster
	t.Payroll, t.Skill = 0, 0
	for _, id := range roster {
		p, ok := market.Player(id)
		if !ok {
			invariantf("%s rostered unknown player %s", t.ID, id)
		}
		t.Payroll += p.Salary
		t.Skill += p.Skill
	}
}

// teamIndex maps ids to teams.
func teamIndex(teams []*Team) map[TeamID]*Team {
	idx := make(map[TeamID]*Team, len(teams))
	for _, t := range teams {
		idx[t.ID] = t
	}
	return idx
}
