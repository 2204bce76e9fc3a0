package analysis

import (
	"github.com/usereport/usereport/internal/command"
	"github.com/usereport/usereport/internal/stats"
)

// Report is the immutable outcome of one analysis run.
//
// HostinfoResults holds the single hostinfo batch. CommandResults
// holds one ordered batch per repetition, outer length equal to
// Repetitions. Statistics aggregates run times per command across all
// repetitions.
type Report struct {
	Context             Context              `json:"context"`
	HostinfoResults     []command.Result     `json:"hostinfo_results"`
	CommandResults      [][]command.Result   `json:"command_results"`
	Statistics          []stats.CommandStats `json:"statistics,omitempty"`
	Repetitions         int                  `json:"repetitions"`
	MaxParallelCommands int                  `json:"max_parallel_commands"`
}
