package metrics

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/usereport/usereport/internal/command"
)

// staticRunner returns canned results without running anything.
type staticRunner struct {
	results []command.Result
	err     error
	calls   int
}

func (s *staticRunner) Run(ctx context.Context, commands []command.Command, maxParallel int) ([]command.Result, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.results, nil
}

func TestInstrumentedRunnerRecordsBatch(t *testing.T) {
	c, registry := newTestCollector(t)

	inner := &staticRunner{
		results: []command.Result{
			{Command: command.Command{Name: "uptime"}, Status: command.StatusSuccess, RunTimeMs: 12},
			{Command: command.Command{Name: "vmstat"}, Status: command.StatusTimeout, RunTimeMs: 900},
		},
	}

	results, err := c.InstrumentRunner(inner).Run(context.Background(), nil, 4)
	require.NoError(t, err)
	require.Equal(t, inner.results, results)
	require.Equal(t, 1, inner.calls)

	byName := gatherFamilies(t, registry)
	require.Equal(t, 1.0, byName["usereport_batches_total"].GetMetric()[0].GetCounter().GetValue())
	require.Equal(t, 1.0, statusValue(t, byName["usereport_commands_total"], "success"))
	require.Equal(t, 1.0, statusValue(t, byName["usereport_commands_total"], "timeout"))
}

func TestInstrumentedRunnerRefusedBatch(t *testing.T) {
	c, registry := newTestCollector(t)

	inner := &staticRunner{err: errors.New("max parallel commands must be at least 1, got 0")}

	_, err := c.InstrumentRunner(inner).Run(context.Background(), nil, 0)
	require.Error(t, err)

	byName := gatherFamilies(t, registry)
	require.Equal(t, 0.0, byName["usereport_batches_total"].GetMetric()[0].GetCounter().GetValue())
}
