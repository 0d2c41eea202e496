package sim

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/leaguesim/leaguesim/sim/trace"
)

// RunOptions controls a batch of replications.
type RunOptions struct {
	Seed    int64
	Workers int // replications run concurrently; <= 0 means 1
	Trace   trace.TraceConfig
}

// Replication is one independent league history.
type Replication struct {
	Index   int
	RunID   string // unique per replication, for joining persisted rows
	Key     SimulationKey
	Seasons []*SeasonResult
	Halted  bool  // stopped early: invalid season or error
	Err     error // strict-policy failure that halted the run, if any
	Trace   *trace.SimulationTrace
}

// RunResult holds every replication, ordered by index.
type RunResult struct {
	Replications []*Replication
}

// Failed returns the replications that ended with an error.
func (r *RunResult) Failed() []*Replication {
	var out []*Replication
	for _, rep := range r.Replications {
		if rep.Err != nil {
			out = append(out, rep)
		}
	}
	return out
}

// RunReplication plays cfg.League.Seasons seasons of one league. An invalid
// season or a season error halts this replication only.
func RunReplication(ctx context.Context, cfg *LeagueConfig, index int, opts RunOptions) *Replication {
	key := ReplicationKey(opts.Seed, index)
	rep := &Replication{
		Index: index,
		RunID: uuid.NewString(),
		Key:   key,
		Trace: trace.NewSimulationTrace(opts.Trace),
	}
	league := NewLeague(cfg, NewPartitionedRNG(key), rep.Trace)
	for s := 1; s <= cfg.League.Seasons; s++ {
		if err := ctx.Err(); err != nil {
			rep.Halted = true
			rep.Err = err
			return rep
		}
		result, err := league.PlaySeason()
		if err != nil {
			logrus.Errorf("replication %d halted: %v", index, err)
			rep.Halted = true
			rep.Err = err
			return rep
		}
		rep.Seasons = append(rep.Seasons, result)
		if !result.Valid {
			logrus.Warnf("replication %d halted after invalid season %d: %s", index, s, result.Failure)
			rep.Halted = true
			return rep
		}
		league.Rollover()
	}
	logrus.Infof("replication %d finished %d seasons", index, len(rep.Seasons))
	return rep
}

// RunReplications runs cfg.League.Repetitions independent replications.
// Replications share nothing, so they run on a worker pool; each one owns its
// league, market and RNG.
func RunReplications(ctx context.Context, cfg *LeagueConfig, opts RunOptions) (*RunResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !trace.IsValidTraceLevel(string(opts.Trace.Level)) {
		return nil, fmt.Errorf("unknown trace level %q", opts.Trace.Level)
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}
	n := cfg.League.Repetitions
	result := &RunResult{Replications: make([]*Replication, n)}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < min(workers, n); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				result.Replications[i] = RunReplication(ctx, cfg, i, opts)
			}
		}()
	}
	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return result, nil
}
