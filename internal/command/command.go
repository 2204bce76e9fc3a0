// Package command defines the diagnostic commands usereport runs and
// provides the execution unit that runs a single command to completion.
package command

import (
	"time"

	shellwords "github.com/mattn/go-shellwords"
)

// DefaultTimeout is the hard fallback timeout applied when neither the
// command nor the configuration provides one.
const DefaultTimeout = 1 * time.Second

// Link is a documentation reference attached to a command.
type Link struct {
	Name string `yaml:"name" json:"name"`
	URL  string `yaml:"url" json:"url"`
}

// Command is a named, configured command line to run on the host.
// Commands are value types; results carry their own copy so a result
// stays self-describing independent of the configuration it came from.
type Command struct {
	// Name uniquely identifies the command within a configuration.
	// Profiles and CLI filters refer to commands by name.
	Name string `yaml:"name" json:"name"`

	// Title is an optional human-readable heading used by reports.
	Title string `yaml:"title,omitempty" json:"title,omitempty"`

	// Description is optional free-form prose for reports.
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// CommandLine is the raw command string. It is tokenized with
	// shell-style quoting rules; it is never passed to a shell.
	CommandLine string `yaml:"command" json:"command"`

	// TimeoutSec overrides the configured default timeout, in seconds.
	// Zero means "use the default".
	TimeoutSec int `yaml:"timeout,omitempty" json:"timeout,omitempty"`

	// Links are optional documentation references shown in reports.
	Links []Link `yaml:"links,omitempty" json:"links,omitempty"`

	// defaultTimeout is injected by the configuration layer
	// (defaults.timeout) and used when TimeoutSec is unset.
	defaultTimeout time.Duration
}

// WithDefaultTimeout returns a copy of the command carrying d as its
// fallback timeout. The configuration layer applies this to every
// command at load time.
func (c Command) WithDefaultTimeout(d time.Duration) Command {
	c.defaultTimeout = d
	return c
}

// Timeout returns the effective timeout for this command: the
// per-command override if set, else the configured default, else
// DefaultTimeout.
func (c Command) Timeout() time.Duration {
	if c.TimeoutSec > 0 {
		return time.Duration(c.TimeoutSec) * time.Second
	}
	if c.defaultTimeout > 0 {
		return c.defaultTimeout
	}
	return DefaultTimeout
}

// Args tokenizes the command line into an argv slice.
//
// Tokenization understands single and double quotes, so
// `sh -c 'dmesg -T | grep "failed"'` yields exactly three elements.
// There is no environment expansion, no globbing, and no implicit
// shell; pipelines only run when the command line names a shell
// explicitly.
func (c Command) Args() ([]string, error) {
	p := shellwords.NewParser()
	return p.Parse(c.CommandLine)
}
