package sim

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// LeagueConfig is the complete, immutable parameter set of a simulation.
// Build it once (DefaultLeagueConfig or LoadLeagueConfig), validate it, and
// pass the pointer to every constructor. Nothing in the engine mutates it.
type LeagueConfig struct {
	League   LeagueParams   `yaml:"league"`
	Market   MarketParams   `yaml:"market"`
	Teams    TeamParams     `yaml:"teams"`
	Revenue  RevenueParams  `yaml:"revenue"`
	Schedule ScheduleParams `yaml:"schedule"`
	Playoffs PlayoffParams  `yaml:"playoffs"`
	Policy   PolicyParams   `yaml:"policy"`
}

// LeagueParams sizes the league and the run.
type LeagueParams struct {
	Teams       int `yaml:"teams"`         // number of team slots (n)
	RosterSize  int `yaml:"roster_size"`   // players per team (h)
	Seasons     int `yaml:"seasons"`       // seasons per replication
	Repetitions int `yaml:"repetitions"`   // independent replications
	MaxTieDepth int `yaml:"max_tie_depth"` // recursion guard for tie resolution
}

// MarketParams configures player supply and the salary curve.
type MarketParams struct {
	InitialPoolSize        int      `yaml:"initial_pool_size"`         // k_old; 0 = teams * roster_size
	NaturalGrowth          float64  `yaml:"natural_growth"`            // per-season domestic pool growth rate
	ForeignPlayers         int      `yaml:"foreign_players"`           // foreign players added every season
	BestPlayerRevenueShare float64  `yaml:"best_player_revenue_share"` // w_max = share * max effective budget
	SkillPrecision         int      `yaml:"skill_precision"`           // decimal places of drawn skills; optimizer memory grows tenfold per step
	SkillDistribution      DistSpec `yaml:"skill_distribution"`
}

// DistSpec parameterizes the skill distribution.
type DistSpec struct {
	Type   string             `yaml:"type"`
	Params map[string]float64 `yaml:"params,omitempty"`
}

// BudgetRange bounds the uniform draw of initial budgets.
type BudgetRange struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// TeamParams holds the per-team exogenous constants. Empty lists fall back to
// the scalar defaults for every team.
type TeamParams struct {
	InitialBudget             BudgetRange `yaml:"initial_budget"`
	Budgets                   []float64   `yaml:"budgets,omitempty"` // explicit initial budgets, overrides InitialBudget
	MarketSize                []float64   `yaml:"market_size,omitempty"`
	CompetitiveBalance        []float64   `yaml:"competitive_balance,omitempty"`
	DefaultMarketSize         float64     `yaml:"default_market_size"`
	DefaultCompetitiveBalance float64     `yaml:"default_competitive_balance"`
}

// PhaseFactors are the revenue multipliers per season stage.
type PhaseFactors struct {
	RegularSeason float64 `yaml:"regular_season"`
	PrePlayoffs   float64 `yaml:"pre_playoffs"`
	Playoffs      float64 `yaml:"playoffs"`
}

// RevenueParams configures the gate revenue formula and broadcasting income.
type RevenueParams struct {
	MonetaryFactor     float64      `yaml:"monetary_factor"`
	PhaseFactors       PhaseFactors `yaml:"phase_factors"`
	BroadcastingBase   float64      `yaml:"broadcasting_base"`   // league-wide, split evenly
	BroadcastingGrowth float64      `yaml:"broadcasting_growth"` // per-season growth rate
}

// ScheduleParams configures the regular season.
type ScheduleParams struct {
	GamesPerPairing int `yaml:"games_per_pairing"` // 2 or 4, home-and-away
}

// SeriesLengths are best-of-N lengths (odd) per playoff phase.
type SeriesLengths struct {
	PrePlayoffs int   `yaml:"pre_playoffs"`
	Rounds      []int `yaml:"rounds"`
}

// PlayoffParams describes the bracket shape.
type PlayoffParams struct {
	DirectSeeds     int           `yaml:"direct_seeds"`      // ranks 1..DirectSeeds enter round 1
	PrePlayoffSeeds int           `yaml:"pre_playoff_seeds"` // the next ranks play the pre-playoffs
	Series          SeriesLengths `yaml:"series"`
}

// Policy names.
const (
	PolicyStrict   = "strict"
	PolicyTolerant = "tolerant"
	PolicyBankrupt = "bankrupt"
)

// SalaryCap is an optional ceiling on spendable budget.
type SalaryCap struct {
	Enabled bool    `yaml:"enabled"`
	Amount  float64 `yaml:"amount"`
}

// PolicyParams selects the failure-handling variants.
type PolicyParams struct {
	Replacement string    `yaml:"replacement"` // strict | tolerant
	Infeasible  string    `yaml:"infeasible"`  // strict | bankrupt
	SalaryCap   SalaryCap `yaml:"salary_cap"`
}

// DefaultLeagueConfig returns the 14-team, 22-player league the simulator was
// calibrated on.
func DefaultLeagueConfig() *LeagueConfig {
	return &LeagueConfig{
		League: LeagueParams{
			Teams:       14,
			RosterSize:  22,
			Seasons:     10,
			Repetitions: 1,
			MaxTieDepth: 64,
		},
		Market: MarketParams{
			NaturalGrowth:          0,
			ForeignPlayers:         300,
			BestPlayerRevenueShare: 0.1,
			SkillPrecision:         2,
			SkillDistribution: DistSpec{
				Type:   "beta",
				Params: map[string]float64{"alpha": 5, "beta": 5},
			},
		},
		Teams: TeamParams{
			InitialBudget:             BudgetRange{Min: 100000, Max: 150000},
			DefaultMarketSize:         1.0,
			DefaultCompetitiveBalance: 0.5,
		},
		Revenue: RevenueParams{
			MonetaryFactor: 10000,
			PhaseFactors:   PhaseFactors{RegularSeason: 1.0, PrePlayoffs: 1.5, Playoffs: 2.0},
		},
		Schedule: ScheduleParams{GamesPerPairing: 4},
		Playoffs: PlayoffParams{
			DirectSeeds:     6,
			PrePlayoffSeeds: 4,
			Series:          SeriesLengths{PrePlayoffs: 3, Rounds: []int{5, 5, 7}},
		},
		Policy: PolicyParams{
			Replacement: PolicyStrict,
			Infeasible:  PolicyStrict,
		},
	}
}

// LoadLeagueConfig reads a YAML config file on top of DefaultLeagueConfig.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadLeagueConfig(path string) (*LeagueConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading league config: %w", err)
	}
	cfg := DefaultLeagueConfig()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil {
		return nil, fmt.Errorf("parsing league config: %w", err)
	}
	return cfg, nil
}

// PoolSize returns k_old: the reference domestic pool size.
func (c *LeagueConfig) PoolSize() int {
	if c.Market.InitialPoolSize > 0 {
		return c.Market.InitialPoolSize
	}
	return c.League.Teams * c.League.RosterSize
}

// DomesticPoolSize returns the domestic supply in the given season (1-based).
func (c *LeagueConfig) DomesticPoolSize(season int) int {
	base := float64(c.PoolSize())
	return int(math.Round(base * math.Pow(1+c.Market.NaturalGrowth, float64(season))))
}

// SkillQuantum is the resolution skills are drawn at (0.01 for precision 2).
func (c *LeagueConfig) SkillQuantum() float64 {
	return math.Pow(10, -float64(c.Market.SkillPrecision))
}

// MarketSizeOf returns the exogenous market-size coefficient of team i (0-based).
func (c *LeagueConfig) MarketSizeOf(i int) float64 {
	if i < len(c.Teams.MarketSize) {
		return c.Teams.MarketSize[i]
	}
	return c.Teams.DefaultMarketSize
}

// CompetitiveBalanceOf returns the competitive-balance coefficient of team i (0-based).
func (c *LeagueConfig) CompetitiveBalanceOf(i int) float64 {
	if i < len(c.Teams.CompetitiveBalance) {
		return c.Teams.CompetitiveBalance[i]
	}
	return c.Teams.DefaultCompetitiveBalance
}

// PhaseFactor returns the revenue multiplier of a season stage.
func (c *LeagueConfig) PhaseFactor(stage Stage) float64 {
	switch stage {
	case StagePrePlayoffs:
		return c.Revenue.PhaseFactors.PrePlayoffs
	case StagePlayoffs:
		return c.Revenue.PhaseFactors.Playoffs
	default:
		return c.Revenue.PhaseFactors.RegularSeason
	}
}

// EffectiveBudget applies the salary cap, if any, to a raw budget.
func (c *LeagueConfig) EffectiveBudget(budget float64) float64 {
	if c.Policy.SalaryCap.Enabled && budget > c.Policy.SalaryCap.Amount {
		return c.Policy.SalaryCap.Amount
	}
	return budget
}

// PlayoffTeams returns how many teams survive the regular season.
func (c *LeagueConfig) PlayoffTeams() int {
	return c.Playoffs.DirectSeeds + c.Playoffs.PrePlayoffSeeds
}

// Valid value registries.
var (
	validDistTypes         = map[string]bool{"beta": true, "uniform": true, "constant": true}
	validReplacementPolicy = map[string]bool{PolicyStrict: true, PolicyTolerant: true}
	validInfeasiblePolicy  = map[string]bool{PolicyStrict: true, PolicyBankrupt: true}
)

// Validate checks that all fields in the config are consistent.
func (c *LeagueConfig) Validate() error {
	if err := c.validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

func (c *LeagueConfig) validate() error {
	l := c.League
	if l.Teams < 2 {
		return fmt.Errorf("league.teams must be at least 2, got %d", l.Teams)
	}
	if l.RosterSize < 1 {
		return fmt.Errorf("league.roster_size must be positive, got %d", l.RosterSize)
	}
	if l.Seasons < 1 {
		return fmt.Errorf("league.seasons must be positive, got %d", l.Seasons)
	}
	if l.Repetitions < 1 {
		return fmt.Errorf("league.repetitions must be positive, got %d", l.Repetitions)
	}
	if l.MaxTieDepth < 1 {
		return fmt.Errorf("league.max_tie_depth must be positive, got %d", l.MaxTieDepth)
	}

	m := c.Market
	if m.InitialPoolSize < 0 {
		return fmt.Errorf("market.initial_pool_size must be non-negative, got %d", m.InitialPoolSize)
	}
	if m.ForeignPlayers < 0 {
		return fmt.Errorf("market.foreign_players must be non-negative, got %d", m.ForeignPlayers)
	}
	if err := validateFinite("market.natural_growth", m.NaturalGrowth); err != nil {
		return err
	}
	if m.NaturalGrowth <= -1 {
		return fmt.Errorf("market.natural_growth must be greater than -1, got %f", m.NaturalGrowth)
	}
	if err := validateFinitePositive("market.best_player_revenue_share", m.BestPlayerRevenueShare); err != nil {
		return err
	}
	if m.SkillPrecision < 0 || m.SkillPrecision > 3 {
		return fmt.Errorf("market.skill_precision must be in [0, 3], got %d", m.SkillPrecision)
	}
	if err := validateDistSpec("market.skill_distribution", &m.SkillDistribution); err != nil {
		return err
	}
	if c.PoolSize()+m.ForeignPlayers < l.Teams*l.RosterSize {
		return fmt.Errorf("player pool (%d) smaller than league demand (%d teams x %d players)",
			c.PoolSize()+m.ForeignPlayers, l.Teams, l.RosterSize)
	}

	t := c.Teams
	if len(t.Budgets) > 0 {
		if len(t.Budgets) != l.Teams {
			return fmt.Errorf("teams.budgets must list %d budgets, got %d", l.Teams, len(t.Budgets))
		}
		for i, b := range t.Budgets {
			if err := validateFinitePositive(fmt.Sprintf("teams.budgets[%d]", i), b); err != nil {
				return err
			}
		}
	} else {
		if err := validateFinitePositive("teams.initial_budget.min", t.InitialBudget.Min); err != nil {
			return err
		}
		if t.InitialBudget.Max < t.InitialBudget.Min {
			return fmt.Errorf("teams.initial_budget.max (%f) below min (%f)", t.InitialBudget.Max, t.InitialBudget.Min)
		}
	}
	if len(t.MarketSize) > 0 && len(t.MarketSize) != l.Teams {
		return fmt.Errorf("teams.market_size must list %d values, got %d", l.Teams, len(t.MarketSize))
	}
	if len(t.CompetitiveBalance) > 0 && len(t.CompetitiveBalance) != l.Teams {
		return fmt.Errorf("teams.competitive_balance must list %d values, got %d", l.Teams, len(t.CompetitiveBalance))
	}
	for i := 0; i < l.Teams; i++ {
		if err := validateFinite(fmt.Sprintf("teams.market_size[%d]", i), c.MarketSizeOf(i)); err != nil {
			return err
		}
		if err := validateFinite(fmt.Sprintf("teams.competitive_balance[%d]", i), c.CompetitiveBalanceOf(i)); err != nil {
			return err
		}
	}

	r := c.Revenue
	for name, v := range map[string]float64{
		"revenue.monetary_factor":              r.MonetaryFactor,
		"revenue.phase_factors.regular_season": r.PhaseFactors.RegularSeason,
		"revenue.phase_factors.pre_playoffs":   r.PhaseFactors.PrePlayoffs,
		"revenue.phase_factors.playoffs":       r.PhaseFactors.Playoffs,
		"revenue.broadcasting_base":            r.BroadcastingBase,
		"revenue.broadcasting_growth":          r.BroadcastingGrowth,
	} {
		if err := validateFinite(name, v); err != nil {
			return err
		}
		if v < 0 {
			return fmt.Errorf("%s must be non-negative, got %f", name, v)
		}
	}

	if g := c.Schedule.GamesPerPairing; g != 2 && g != 4 {
		return fmt.Errorf("schedule.games_per_pairing must be 2 or 4, got %d", g)
	}

	if err := c.validatePlayoffs(); err != nil {
		return err
	}

	p := c.Policy
	if !validReplacementPolicy[p.Replacement] {
		return fmt.Errorf("unknown policy.replacement %q; valid: strict, tolerant", p.Replacement)
	}
	if !validInfeasiblePolicy[p.Infeasible] {
		return fmt.Errorf("unknown policy.infeasible %q; valid: strict, bankrupt", p.Infeasible)
	}
	if p.SalaryCap.Enabled {
		if err := validateFinitePositive("policy.salary_cap.amount", p.SalaryCap.Amount); err != nil {
			return err
		}
	}
	return nil
}

func (c *LeagueConfig) validatePlayoffs() error {
	p := c.Playoffs
	if p.DirectSeeds < 0 || p.PrePlayoffSeeds < 0 {
		return fmt.Errorf("playoffs seeds must be non-negative, got direct=%d pre=%d", p.DirectSeeds, p.PrePlayoffSeeds)
	}
	if p.PrePlayoffSeeds%2 != 0 {
		return fmt.Errorf("playoffs.pre_playoff_seeds must be even, got %d", p.PrePlayoffSeeds)
	}
	if c.PlayoffTeams() > c.League.Teams {
		return fmt.Errorf("playoff field (%d) larger than league (%d)", c.PlayoffTeams(), c.League.Teams)
	}
	field := p.DirectSeeds + p.PrePlayoffSeeds/2
	if field < 2 || field&(field-1) != 0 {
		return fmt.Errorf("round 1 field must be a power of two >= 2, got %d", field)
	}
	rounds := 0
	for f := field; f > 1; f /= 2 {
		rounds++
	}
	if len(p.Series.Rounds) != rounds {
		return fmt.Errorf("playoffs.series.rounds must list %d series lengths, got %d", rounds, len(p.Series.Rounds))
	}
	if p.PrePlayoffSeeds > 0 {
		if err := validateSeriesLength("playoffs.series.pre_playoffs", p.Series.PrePlayoffs); err != nil {
			return err
		}
	}
	for i, n := range p.Series.Rounds {
		if err := validateSeriesLength(fmt.Sprintf("playoffs.series.rounds[%d]", i), n); err != nil {
			return err
		}
	}
	return nil
}

func validateDistSpec(prefix string, d *DistSpec) error {
	if !validDistTypes[d.Type] {
		return fmt.Errorf("%s: unknown distribution type %q; valid: beta, uniform, constant", prefix, d.Type)
	}
	for name, val := range d.Params {
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return fmt.Errorf("%s.params.%s must be a finite number, got %f", prefix, name, val)
		}
	}
	if _, err := NewSkillSampler(*d); err != nil {
		return fmt.Errorf("%s: %w", prefix, err)
	}
	return nil
}

func validateSeriesLength(name string, n int) error {
	if n < 1 || n%2 == 0 {
		return fmt.Errorf("%s must be a positive odd number, got %d", name, n)
	}
	return nil
}

func validateFinite(name string, val float64) error {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return fmt.Errorf("%s must be a finite number, got %f", name, val)
	}
	return nil
}

func validateFinitePositive(name string, val float64) error {
	if err := validateFinite(name, val); err != nil {
		return err
	}
	if val <= 0 {
		return fmt.Errorf("%s must be positive, got %f", name, val)
	}
	return nil
}
