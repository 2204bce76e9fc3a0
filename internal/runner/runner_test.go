package runner

import (
	"context"
	"fmt"
	"math/rand"
	"os/exec"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/usereport/usereport/internal/command"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// namedCommands builds n commands named c00..cNN.
func namedCommands(n int) []command.Command {
	cmds := make([]command.Command, 0, n)
	for i := 0; i < n; i++ {
		cmds = append(cmds, command.Command{Name: fmt.Sprintf("c%02d", i), CommandLine: "unused"})
	}
	return cmds
}

func TestRunPreservesOrder(t *testing.T) {
	t.Parallel()

	const n = 12
	cmds := namedCommands(n)

	// Shuffled artificial delays so completion order differs from
	// input order inside every chunk.
	rng := rand.New(rand.NewSource(7))
	delays := make([]time.Duration, n)
	for i := range delays {
		delays[i] = time.Duration(i) * 2 * time.Millisecond
	}
	rng.Shuffle(n, func(a, b int) { delays[a], delays[b] = delays[b], delays[a] })

	for _, maxParallel := range []int{1, 2, 3, 5, n, 64} {
		t.Run(fmt.Sprintf("maxParallel=%d", maxParallel), func(t *testing.T) {
			t.Parallel()

			r := NewChunked()
			r.exec = func(_ context.Context, cmd command.Command) command.Result {
				var idx int
				fmt.Sscanf(cmd.Name, "c%02d", &idx)
				time.Sleep(delays[idx])
				return command.Result{Command: cmd, Status: command.StatusSuccess}
			}

			results, err := r.Run(context.Background(), cmds, maxParallel)
			require.NoError(t, err)
			require.Len(t, results, n)
			for i, res := range results {
				require.Equal(t, cmds[i].Name, res.Command.Name)
			}
		})
	}
}

func TestRunConcurrencyCeiling(t *testing.T) {
	t.Parallel()

	const n = 9

	for _, maxParallel := range []int{1, 2, 3} {
		t.Run(fmt.Sprintf("maxParallel=%d", maxParallel), func(t *testing.T) {
			t.Parallel()

			var inflight, peak atomic.Int64

			r := NewChunked()
			r.exec = func(_ context.Context, cmd command.Command) command.Result {
				cur := inflight.Add(1)
				for {
					old := peak.Load()
					if cur <= old || peak.CompareAndSwap(old, cur) {
						break
					}
				}
				time.Sleep(20 * time.Millisecond)
				inflight.Add(-1)
				return command.Result{Command: cmd, Status: command.StatusSuccess}
			}

			results, err := r.Run(context.Background(), namedCommands(n), maxParallel)
			require.NoError(t, err)
			require.Len(t, results, n)

			require.LessOrEqual(t, peak.Load(), int64(maxParallel))
			if maxParallel == 1 {
				require.Equal(t, int64(1), peak.Load())
			} else {
				// Workers of one chunk sleep long enough to overlap.
				require.GreaterOrEqual(t, peak.Load(), int64(2))
			}
		})
	}
}

func TestRunChunksAreSequential(t *testing.T) {
	t.Parallel()

	const n = 4
	var mu sync.Mutex
	starts := make(map[string]time.Time, n)
	ends := make(map[string]time.Time, n)

	r := NewChunked()
	r.exec = func(_ context.Context, cmd command.Command) command.Result {
		mu.Lock()
		starts[cmd.Name] = time.Now()
		mu.Unlock()

		time.Sleep(60 * time.Millisecond)

		mu.Lock()
		ends[cmd.Name] = time.Now()
		mu.Unlock()
		return command.Result{Command: cmd, Status: command.StatusSuccess}
	}

	_, err := r.Run(context.Background(), namedCommands(n), 2)
	require.NoError(t, err)

	// No command of the second chunk may start before every command
	// of the first chunk has finished.
	firstChunkDone := ends["c00"]
	if ends["c01"].After(firstChunkDone) {
		firstChunkDone = ends["c01"]
	}
	require.False(t, starts["c02"].Before(firstChunkDone))
	require.False(t, starts["c03"].Before(firstChunkDone))
}

func TestRunProgressCompleteness(t *testing.T) {
	t.Parallel()

	const n = 10
	statuses := []command.Status{
		command.StatusSuccess,
		command.StatusFailed,
		command.StatusTimeout,
		command.StatusError,
	}

	progress := make(chan struct{}, n)
	r := NewChunkedWithProgress(progress)
	r.exec = func(_ context.Context, cmd command.Command) command.Result {
		var idx int
		fmt.Sscanf(cmd.Name, "c%02d", &idx)
		return command.Result{Command: cmd, Status: statuses[idx%len(statuses)]}
	}

	results, err := r.Run(context.Background(), namedCommands(n), 3)
	require.NoError(t, err)
	require.Len(t, results, n)

	// Exactly one unit per command, whatever the status.
	close(progress)
	units := 0
	for range progress {
		units++
	}
	require.Equal(t, n, units)
}

func TestRunRejectsInvalidMaxParallel(t *testing.T) {
	t.Parallel()

	r := NewChunked()
	for _, maxParallel := range []int{0, -1} {
		results, err := r.Run(context.Background(), namedCommands(3), maxParallel)
		require.Error(t, err)
		require.Contains(t, err.Error(), "max parallel")
		require.Nil(t, results)
	}
}

func TestRunEmptyBatch(t *testing.T) {
	t.Parallel()

	r := NewChunked()
	results, err := r.Run(context.Background(), nil, 4)
	require.NoError(t, err)
	require.Empty(t, results)
}

func TestRunRealCommands(t *testing.T) {
	t.Parallel()
	for _, tool := range []string{"sh", "sleep", "true", "false"} {
		if _, err := exec.LookPath(tool); err != nil {
			t.Skipf("skipped, binary %s not available: %v", tool, err)
		}
	}

	slow := command.Command{Name: "slow", CommandLine: "sleep 2"}.WithDefaultTimeout(300 * time.Millisecond)
	cmds := []command.Command{
		{Name: "ok", CommandLine: "true"},
		{Name: "bad", CommandLine: "false"},
		slow,
	}

	results, err := NewChunked().Run(context.Background(), cmds, 3)
	require.NoError(t, err)
	require.Len(t, results, 3)

	require.Equal(t, command.StatusSuccess, results[0].Status)
	require.Equal(t, command.StatusFailed, results[1].Status)
	require.Equal(t, command.StatusTimeout, results[2].Status)
}
