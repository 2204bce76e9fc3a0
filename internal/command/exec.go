package command

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"syscall"
	"time"
)

// waitDelay bounds how long Wait blocks after the context is cancelled
// or after the child exits while grandchildren still hold the output
// pipe. It guarantees Execute returns even for misbehaving process
// trees.
const waitDelay = 2 * time.Second

// Execute runs the command to completion and classifies the outcome.
//
// stdout and stderr of the child are merged into a single capture in
// arrival order. The capture is drained concurrently by the process
// machinery, so outputs larger than the pipe buffer cannot deadlock.
// The child runs in its own process group; when the timeout elapses
// the whole group receives SIGKILL and the child is reaped before
// Execute returns. Captured bytes are decoded as UTF-8 with invalid
// sequences replaced.
//
// All failure modes are returned as data. Execute never panics and
// never returns an error value.
func (c Command) Execute(ctx context.Context) Result {
	argv, err := c.Args()
	if err != nil {
		return Result{Command: c, Status: StatusError, Reason: "parse command line: " + err.Error()}
	}
	if len(argv) == 0 {
		return Result{Command: c, Status: StatusError, Reason: "empty command line"}
	}

	ctx, cancel := context.WithTimeout(ctx, c.Timeout())
	defer cancel()

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	// Run the child in its own process group so the kill on timeout
	// reaches grandchildren spawned via an explicit shell.
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid: true,
	}
	cmd.Cancel = func() error {
		if pgid, err := syscall.Getpgid(cmd.Process.Pid); err == nil {
			return syscall.Kill(-pgid, syscall.SIGKILL)
		}
		return cmd.Process.Kill()
	}
	cmd.WaitDelay = waitDelay

	start := time.Now()
	err = cmd.Run()
	runTime := time.Since(start).Milliseconds()

	switch {
	case err == nil:
		return Result{Command: c, Status: StatusSuccess, RunTimeMs: runTime, Stdout: capture(&out)}

	case ctx.Err() == context.DeadlineExceeded:
		// Partial output written before the kill is discarded.
		return Result{Command: c, Status: StatusTimeout, RunTimeMs: runTime}

	case ctx.Err() == context.Canceled:
		return Result{Command: c, Status: StatusError, Reason: "execution canceled"}

	case errors.Is(err, exec.ErrWaitDelay):
		// The child exited but something inherited its output pipe and
		// kept it open. The exit status is still authoritative.
		if cmd.ProcessState != nil && cmd.ProcessState.Success() {
			return Result{Command: c, Status: StatusSuccess, RunTimeMs: runTime, Stdout: capture(&out)}
		}
		return Result{Command: c, Status: StatusFailed, RunTimeMs: runTime, Stdout: capture(&out)}

	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return Result{Command: c, Status: StatusFailed, RunTimeMs: runTime, Stdout: capture(&out)}
		}
		// Spawn failure (*exec.Error) or any other wait failure.
		return Result{Command: c, Status: StatusError, Reason: err.Error()}
	}
}

// capture decodes the merged output buffer as best-effort UTF-8.
func capture(buf *bytes.Buffer) string {
	return strings.ToValidUTF8(buf.String(), "�")
}
