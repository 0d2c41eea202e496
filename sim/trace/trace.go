package trace

// TraceLevel controls the verbosity of decision tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelDecisions captures every contest, replacement and tie break.
	TraceLevelDecisions TraceLevel = "decisions"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:      true,
	TraceLevelDecisions: true,
	"":                  true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
}

// SimulationTrace collects decision records during one replication.
// A nil *SimulationTrace is valid and records nothing.
type SimulationTrace struct {
	Config       TraceConfig
	Contests     []ContestRecord
	Replacements []ReplacementRecord
	TieBreaks    []TieBreakRecord
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
// Returns nil when the level disables tracing.
func NewSimulationTrace(config TraceConfig) *SimulationTrace {
	if config.Level == "" || config.Level == TraceLevelNone {
		return nil
	}
	return &SimulationTrace{
		Config:       config,
		Contests:     make([]ContestRecord, 0),
		Replacements: make([]ReplacementRecord, 0),
		TieBreaks:    make([]TieBreakRecord, 0),
	}
}

// RecordContest appends a contested-player record.
func (st *SimulationTrace) RecordContest(record ContestRecord) {
	if st == nil {
		return
	}
	st.Contests = append(st.Contests, record)
}

// RecordReplacement appends a replacement-search record.
func (st *SimulationTrace) RecordReplacement(record ReplacementRecord) {
	if st == nil {
		return
	}
	st.Replacements = append(st.Replacements, record)
}

// RecordTieBreak appends a tie-break record.
func (st *SimulationTrace) RecordTieBreak(record TieBreakRecord) {
	if st == nil {
		return
	}
	st.TieBreaks = append(st.TieBreaks, record)
}
