// Package sim provides the core season engine of the league simulator.
//
// # Reading Guide
//
// A season flows through these files in order:
//   - market.go: the season's player pool (skills, salaries, availability)
//   - optimizer.go: each team's exact best roster under its budget
//   - conflict.go: negotiation over players several teams want
//   - season.go: the regular season game model and gate revenue
//   - ranking.go: tie breaking by head-to-head and placement tournaments
//   - playoffs.go: pre-playoffs and best-of-N elimination rounds
//   - league.go: the season driver and the budget rollover
//   - runner.go: independent replications on a worker pool
//
// # Determinism
//
// All randomness comes from a PartitionedRNG per replication: one stream for
// the market, one for initial budgets, one for negotiation, one for games.
// Nothing iterates a map where order could leak into results.
//
// # Failures
//
// Optimization and negotiation failures are returned as errors wrapping
// ErrInfeasibleOptimization or ErrReplacementExhausted, or tolerated as an
// invalid season depending on LeagueConfig.Policy. Broken invariants panic
// with an InvariantViolation.
//
// Sub-packages:
//   - sim/trace/: negotiation and tie-break decision records
//   - sim/results/: result rows, CSV, SQLite and Prometheus outputs
package sim
