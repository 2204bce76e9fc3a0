package metrics

import (
	"context"

	"github.com/usereport/usereport/internal/command"
	"github.com/usereport/usereport/internal/runner"
)

// InstrumentedRunner decorates a Runner so every batch it completes is
// recorded on a collector. Results pass through unchanged.
type InstrumentedRunner struct {
	next      runner.Runner
	collector *Collector
}

// InstrumentRunner wraps next with metrics recording.
func (c *Collector) InstrumentRunner(next runner.Runner) *InstrumentedRunner {
	return &InstrumentedRunner{next: next, collector: c}
}

// Run implements runner.Runner. A refused batch records nothing.
func (r *InstrumentedRunner) Run(ctx context.Context, commands []command.Command, maxParallel int) ([]command.Result, error) {
	results, err := r.next.Run(ctx, commands, maxParallel)
	if err != nil {
		return nil, err
	}
	r.collector.RecordBatch(results)
	return results, nil
}
