// Package stats aggregates per-command run times across repetitions.
package stats

import (
	"github.com/influxdata/tdigest"

	"github.com/usereport/usereport/internal/command"
)

// CommandStats summarizes all executions of one named command across
// the repetitions of the main batch. Run-time figures (min, max,
// mean, quantiles) cover timed results only, that is success, failed
// and timeout; error results count toward Runs and Errors but carry
// no meaningful run time.
type CommandStats struct {
	Name      string  `json:"name"`
	Runs      int     `json:"runs"`
	Successes int     `json:"successes"`
	Failures  int     `json:"failures"`
	Timeouts  int     `json:"timeouts"`
	Errors    int     `json:"errors"`
	MinMs     int64   `json:"min_ms"`
	MaxMs     int64   `json:"max_ms"`
	MeanMs    float64 `json:"mean_ms"`
	P50Ms     float64 `json:"p50_ms"`
	P90Ms     float64 `json:"p90_ms"`
	P99Ms     float64 `json:"p99_ms"`
}

// accumulator collects observations for one command name.
type accumulator struct {
	stats  CommandStats
	digest *tdigest.TDigest
	sum    float64
	timed  int
}

// Aggregate folds all repetition batches into one entry per distinct
// command name, in first-seen order. Returns nil when there is
// nothing to aggregate.
func Aggregate(batches [][]command.Result) []CommandStats {
	accs := make(map[string]*accumulator)
	var order []string

	for _, batch := range batches {
		for _, res := range batch {
			acc, ok := accs[res.Command.Name]
			if !ok {
				acc = &accumulator{
					stats:  CommandStats{Name: res.Command.Name, MinMs: -1},
					digest: tdigest.NewWithCompression(100),
				}
				accs[res.Command.Name] = acc
				order = append(order, res.Command.Name)
			}

			acc.stats.Runs++
			switch res.Status {
			case command.StatusSuccess:
				acc.stats.Successes++
			case command.StatusFailed:
				acc.stats.Failures++
			case command.StatusTimeout:
				acc.stats.Timeouts++
			case command.StatusError:
				acc.stats.Errors++
			}

			if res.Status == command.StatusError {
				continue
			}
			ms := res.RunTimeMs
			if acc.stats.MinMs < 0 || ms < acc.stats.MinMs {
				acc.stats.MinMs = ms
			}
			if ms > acc.stats.MaxMs {
				acc.stats.MaxMs = ms
			}
			acc.sum += float64(ms)
			acc.timed++
			acc.digest.Add(float64(ms), 1)
		}
	}

	if len(order) == 0 {
		return nil
	}

	out := make([]CommandStats, 0, len(order))
	for _, name := range order {
		acc := accs[name]
		if acc.timed > 0 {
			acc.stats.MeanMs = acc.sum / float64(acc.timed)
			acc.stats.P50Ms = acc.digest.Quantile(0.50)
			acc.stats.P90Ms = acc.digest.Quantile(0.90)
			acc.stats.P99Ms = acc.digest.Quantile(0.99)
		}
		if acc.stats.MinMs < 0 {
			acc.stats.MinMs = 0
		}
		out = append(out, acc.stats)
	}
	return out
}
