package sim

import "errors"

var (
	// ErrInfeasibleOptimization: no subset of exactly roster-size players fits
	// the team's effective budget.
	ErrInfeasibleOptimization = errors.New("infeasible roster optimization")

	// ErrReplacementExhausted: a team that lost a contested player found no
	// available player it could afford.
	ErrReplacementExhausted = errors.New("replacement search exhausted")

	// ErrTieDepthExceeded: tie resolution recursed past the configured guard.
	ErrTieDepthExceeded = errors.New("tie resolution depth exceeded")

	// ErrInvalidConfig wraps every configuration validation failure.
	ErrInvalidConfig = errors.New("invalid league config")
)
