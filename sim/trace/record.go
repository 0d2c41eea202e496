// Package trace provides decision-trace recording for the negotiation and
// tie-breaking stages of a season.
// It does not import sim/ and stores plain data types only.
package trace

// ContestRecord captures how one contested player was resolved.
type ContestRecord struct {
	Season     int
	Player     string
	Skill      float64
	Interested []string // teams that wanted the player, in the order considered
	Winner     string   // the team the player chose
}

// ReplacementRecord captures one losing team's search for a substitute.
type ReplacementRecord struct {
	Season      int
	Team        string
	Lost        string  // the contested player the team lost
	Replacement string  // empty when the search came up short
	SkillGap    float64 // |skill(replacement) - skill(lost)|; 0 when short
	Scanned     int     // candidates examined, in skill-gap order
	Shortfall   bool
}

// TieBreakRecord captures one tie group handled by the ranking resolver.
type TieBreakRecord struct {
	Season    int
	Teams     []string
	Placement bool // true when head-to-head was level and a placement tournament ran
	Depth     int  // recursion depth of the resolver when the group was handled
}
