// Package runner executes batches of commands with bounded parallelism.
//
// The orchestrator hands the runner an ordered list of commands; the
// runner returns exactly one result per command, in input order, while
// never running more than a configured number of commands at once.
package runner

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/usereport/usereport/internal/command"
)

// Runner executes a batch of commands and returns one result per
// command, in input order. Per-command failures are data inside the
// results; the error return is reserved for refusing to start work.
type Runner interface {
	Run(ctx context.Context, commands []command.Command, maxParallel int) ([]command.Result, error)
}

// Chunked is the production Runner. It partitions the batch into
// consecutive chunks of maxParallel commands and runs the chunks
// strictly sequentially. Within a chunk every command runs in its own
// goroutine; the chunk is joined completely before the next one
// starts, so maxParallel is a hard ceiling on live child processes
// and no chunk leaves an unreaped process behind.
type Chunked struct {
	progress chan<- struct{}

	// exec runs one command. It defaults to Command.Execute and
	// allows batch scheduling to be exercised without spawning real
	// processes.
	exec func(ctx context.Context, cmd command.Command) command.Result
}

// NewChunked creates a runner without progress reporting.
func NewChunked() *Chunked {
	return &Chunked{}
}

// NewChunkedWithProgress creates a runner that sends one unit on
// progress for every completed command, whatever its status.
//
// The send happens on the worker, after the result is ready and
// before the runner consumes it for ordering. The channel must be
// buffered for at least the total number of commands the caller will
// run through this runner, so that sends never stall a worker. The
// runner never closes the channel; the caller closes it after Run has
// returned.
func NewChunkedWithProgress(progress chan<- struct{}) *Chunked {
	return &Chunked{progress: progress}
}

// indexedResult pairs a result with the position of its command in
// the input batch.
type indexedResult struct {
	index  int
	result command.Result
}

// Run executes the batch. The context parents the per-command
// timeouts; the chunk loop itself never aborts once started, so a
// batch always yields a full set of results.
func (r *Chunked) Run(ctx context.Context, commands []command.Command, maxParallel int) ([]command.Result, error) {
	if maxParallel < 1 {
		return nil, fmt.Errorf("max parallel commands must be at least 1, got %d", maxParallel)
	}

	execute := r.exec
	if execute == nil {
		execute = func(ctx context.Context, cmd command.Command) command.Result {
			return cmd.Execute(ctx)
		}
	}

	results := make([]command.Result, 0, len(commands))

	for start := 0; start < len(commands); start += maxParallel {
		chunk := commands[start:min(start+maxParallel, len(commands))]

		ch := make(chan indexedResult, len(chunk))
		var wg sync.WaitGroup
		for i, cmd := range chunk {
			wg.Add(1)
			go func(index int, cmd command.Command) {
				defer wg.Done()
				res := execute(ctx, cmd)
				if r.progress != nil {
					r.progress <- struct{}{}
				}
				ch <- indexedResult{index: index, result: res}
			}(start+i, cmd)
		}

		// Exactly one message per worker, then join the chunk before
		// any command of the next chunk may start.
		batch := make([]indexedResult, 0, len(chunk))
		for range chunk {
			batch = append(batch, <-ch)
		}
		wg.Wait()

		// Completion order is arbitrary; input order is the contract.
		sort.Slice(batch, func(a, b int) bool { return batch[a].index < batch[b].index })
		for _, item := range batch {
			results = append(results, item.result)
		}
	}

	return results, nil
}
