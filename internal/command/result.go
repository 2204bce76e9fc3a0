package command

// Status classifies the outcome of a single command execution.
// Every execution yields exactly one status.
type Status string

const (
	// StatusSuccess means the child process exited with code 0.
	StatusSuccess Status = "success"

	// StatusFailed means the child process ran and exited non-zero.
	StatusFailed Status = "failed"

	// StatusTimeout means the timeout elapsed; the child was killed
	// and reaped before the execution unit returned.
	StatusTimeout Status = "timeout"

	// StatusError means the command could not be run at all, for
	// example an unparseable command line or a missing executable.
	StatusError Status = "error"
)

// Result is the outcome of one command execution. It owns a copy of
// the command it describes.
//
// RunTimeMs is wall-clock time measured around spawn and wait. It is
// meaningful for success, failed and timeout; for error it is zero.
// Stdout holds the merged stdout+stderr capture for success and
// failed. Timeouts carry no output: anything written before the kill
// is discarded. Reason is set only for error.
type Result struct {
	Command   Command `json:"command"`
	Status    Status  `json:"status"`
	RunTimeMs int64   `json:"run_time_ms"`
	Stdout    string  `json:"stdout,omitempty"`
	Reason    string  `json:"reason,omitempty"`
}

// Succeeded reports whether the command ran and exited cleanly.
func (r Result) Succeeded() bool {
	return r.Status == StatusSuccess
}
