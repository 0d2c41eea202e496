package results

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/leaguesim/leaguesim/sim"
	"github.com/leaguesim/leaguesim/sim/trace"
)

const namespace = "leaguesim"

// Metrics aggregates a run into Prometheus collectors on a private registry,
// ready to be written as a node_exporter textfile.
type Metrics struct {
	registry *prometheus.Registry

	seasons      *prometheus.CounterVec
	replications *prometheus.CounterVec
	titles       *prometheus.CounterVec
	contested    prometheus.Counter
	replacements prometheus.Counter
	shortfalls   prometheus.Counter
	placements   prometheus.Counter
	skillGap     prometheus.Histogram
	finalRevenue *prometheus.GaugeVec
	medianSalary prometheus.Histogram
}

// NewMetrics creates the collectors and registers them.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		seasons: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "seasons_total",
			Help: "Seasons simulated, by validity.",
		}, []string{"valid"}),
		replications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "replications_total",
			Help: "Replications run, by outcome.",
		}, []string{"outcome"}),
		titles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "championships_total",
			Help: "Championships won per team slot.",
		}, []string{"team"}),
		contested: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "contested_players_total",
			Help: "Players wanted by more than one team.",
		}),
		replacements: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "replacements_total",
			Help: "Replacement players signed after a lost contest.",
		}),
		shortfalls: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "replacement_shortfalls_total",
			Help: "Lost contests no affordable replacement could fill.",
		}),
		placements: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "placement_tournaments_total",
			Help: "Placement tournaments played to break level head-to-head records.",
		}),
		skillGap: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "replacement_skill_gap",
			Help:    "Skill difference between a lost contested player and the replacement.",
			Buckets: []float64{0, 0.01, 0.02, 0.05, 0.1, 0.2, 0.5},
		}),
		finalRevenue: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "final_season_revenue",
			Help: "Revenue in the last completed season, averaged over replications.",
		}, []string{"team"}),
		medianSalary: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "market_median_salary",
			Help:    "Median player salary per season market.",
			Buckets: prometheus.ExponentialBuckets(500, 2, 10),
		}),
	}
	m.registry.MustRegister(m.seasons, m.replications, m.titles, m.contested, m.replacements,
		m.shortfalls, m.placements, m.skillGap, m.finalRevenue, m.medianSalary)
	return m
}

// Registry exposes the private registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Observe adds a whole run to the collectors.
func (m *Metrics) Observe(run *sim.RunResult) {
	revenue := make(map[string]float64)
	completed := 0
	for _, rep := range run.Replications {
		if rep == nil {
			continue
		}
		switch {
		case rep.Err != nil:
			m.replications.WithLabelValues("error").Inc()
		case rep.Halted:
			m.replications.WithLabelValues("halted").Inc()
		default:
			m.replications.WithLabelValues("completed").Inc()
		}
		for _, s := range rep.Seasons {
			if s.Valid {
				m.seasons.WithLabelValues("true").Inc()
			} else {
				m.seasons.WithLabelValues("false").Inc()
			}
			if s.Champion != 0 {
				m.titles.WithLabelValues(s.Champion.String()).Inc()
			}
			m.contested.Add(float64(s.Contested))
			m.medianSalary.Observe(s.Salaries.Median)
		}
		if n := len(rep.Seasons); n > 0 && rep.Seasons[n-1].Valid {
			completed++
			for _, t := range rep.Seasons[n-1].Teams {
				revenue[t.Team.String()] += t.Revenue
			}
		}
		m.observeTrace(rep.Trace)
	}
	for team, total := range revenue {
		m.finalRevenue.WithLabelValues(team).Set(total / float64(completed))
	}
}

func (m *Metrics) observeTrace(st *trace.SimulationTrace) {
	if st == nil {
		return
	}
	summary := trace.Summarize(st)
	m.replacements.Add(float64(summary.TotalReplacements - summary.Shortfalls))
	m.shortfalls.Add(float64(summary.Shortfalls))
	m.placements.Add(float64(summary.PlacementTournaments))
	for _, r := range st.Replacements {
		if !r.Shortfall {
			m.skillGap.Observe(r.SkillGap)
		}
	}
}

// WriteTextfile writes the collected metrics in the Prometheus text format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
