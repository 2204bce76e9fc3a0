// Package analysis orchestrates command batches into a host report.
//
// An Analysis captures the host context once, runs the hostinfo batch
// once, runs the main batch a configured number of times, and
// assembles everything into a Report. Per-command failures are data
// inside the report; only context acquisition and a runner refusing
// to start are fatal.
package analysis

import (
	"context"
	"fmt"

	"github.com/usereport/usereport/internal/command"
	"github.com/usereport/usereport/internal/runner"
	"github.com/usereport/usereport/internal/stats"
)

const (
	// DefaultRepetitions is the number of main batch runs when not
	// configured otherwise.
	DefaultRepetitions = 1

	// DefaultMaxParallel is the parallelism ceiling when not
	// configured otherwise.
	DefaultMaxParallel = 64
)

// Analysis runs batches of commands through a Runner and assembles
// the report.
type Analysis struct {
	runner      runner.Runner
	hostinfo    []command.Command
	commands    []command.Command
	repetitions int
	maxParallel int
	annotations []annotation
}

type annotation struct {
	key   string
	value string
}

// New creates an Analysis for the given hostinfo and main batches.
func New(r runner.Runner, hostinfo, commands []command.Command) *Analysis {
	return &Analysis{
		runner:      r,
		hostinfo:    hostinfo,
		commands:    commands,
		repetitions: DefaultRepetitions,
		maxParallel: DefaultMaxParallel,
	}
}

// WithRepetitions sets how often the main batch runs.
func (a *Analysis) WithRepetitions(n int) *Analysis {
	a.repetitions = n
	return a
}

// WithMaxParallel sets the parallelism ceiling handed to the runner.
func (a *Analysis) WithMaxParallel(n int) *Analysis {
	a.maxParallel = n
	return a
}

// WithAnnotation attaches a free-form key/value pair to the report
// context, shown in the report header.
func (a *Analysis) WithAnnotation(key, value string) *Analysis {
	a.annotations = append(a.annotations, annotation{key: key, value: value})
	return a
}

// Run executes the analysis: context first, then the hostinfo batch
// once, then the main batch per repetition, strictly in that order.
// Batches are never reordered or interleaved across repetitions.
func (a *Analysis) Run(ctx context.Context) (*Report, error) {
	reportContext, err := NewContext()
	if err != nil {
		return nil, fmt.Errorf("initializing context: %w", err)
	}
	for _, an := range a.annotations {
		reportContext.Add(an.key, an.value)
	}

	hostinfoResults, err := a.runner.Run(ctx, a.hostinfo, a.maxParallel)
	if err != nil {
		return nil, fmt.Errorf("running hostinfo commands: %w", err)
	}

	commandResults := make([][]command.Result, 0, a.repetitions)
	for rep := 0; rep < a.repetitions; rep++ {
		results, err := a.runner.Run(ctx, a.commands, a.maxParallel)
		if err != nil {
			return nil, fmt.Errorf("running commands, repetition %d: %w", rep+1, err)
		}
		commandResults = append(commandResults, results)
	}

	return &Report{
		Context:             reportContext,
		HostinfoResults:     hostinfoResults,
		CommandResults:      commandResults,
		Statistics:          stats.Aggregate(commandResults),
		Repetitions:         a.repetitions,
		MaxParallelCommands: a.maxParallel,
	}, nil
}
