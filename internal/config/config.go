// Package config loads, validates and resolves usereport
// configuration files.
//
// A configuration carries global defaults, the full command catalog,
// named profiles selecting subsets of it, and the hostinfo command
// list. Configurations come from a YAML file or from the embedded
// per-platform default.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/usereport/usereport/internal/command"
)

const (
	// defaultTimeoutSec fills defaults.timeout when the file omits it.
	defaultTimeoutSec = 5

	// defaultMaxParallel fills defaults.max_parallel_commands.
	defaultMaxParallel = 64

	// defaultRepetitions fills defaults.repetitions.
	defaultRepetitions = 1

	// defaultProfileName fills defaults.profile.
	defaultProfileName = "default"
)

//go:embed defaults/linux.yaml
var defaultLinux []byte

//go:embed defaults/darwin.yaml
var defaultDarwin []byte

// Config is a fully loaded and validated configuration.
type Config struct {
	Defaults Defaults          `yaml:"defaults"`
	Profiles []Profile         `yaml:"profiles,omitempty"`
	Commands []command.Command `yaml:"commands"`
	Hostinfo Hostinfo          `yaml:"hostinfo,omitempty"`
}

// Defaults are the file-level fallbacks applied to runs and commands.
type Defaults struct {
	// Timeout is the default per-command timeout in seconds.
	Timeout int `yaml:"timeout,omitempty"`

	// MaxParallelCommands bounds how many commands run at once.
	MaxParallelCommands int `yaml:"max_parallel_commands,omitempty"`

	// Repetitions is how often the main command batch runs.
	Repetitions int `yaml:"repetitions,omitempty"`

	// Profile names the profile used when none is selected.
	Profile string `yaml:"profile,omitempty"`
}

// Profile is a named, ordered selection of commands.
type Profile struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description,omitempty"`
	Commands    []string `yaml:"commands"`
}

// Hostinfo names the commands run once per report to describe the host.
type Hostinfo struct {
	Commands []string `yaml:"commands,omitempty"`
}

// Load reads and parses the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("loading config %q: %w", path, err)
	}
	return cfg, nil
}

// LoadDefault parses the embedded configuration for this platform.
func LoadDefault() (*Config, error) {
	cfg, err := Parse(DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("loading embedded default config: %w", err)
	}
	return cfg, nil
}

// DefaultConfig returns the embedded configuration for this platform.
func DefaultConfig() []byte {
	if runtime.GOOS == "darwin" {
		return defaultDarwin
	}
	return defaultLinux
}

// Parse decodes, defaults, validates and resolves a configuration.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	cfg.resolve()
	return &cfg, nil
}

// applyDefaults fills omitted defaults with their documented values.
// Explicitly negative values are left for validation to reject.
func (c *Config) applyDefaults() {
	if c.Defaults.Timeout == 0 {
		c.Defaults.Timeout = defaultTimeoutSec
	}
	if c.Defaults.MaxParallelCommands == 0 {
		c.Defaults.MaxParallelCommands = defaultMaxParallel
	}
	if c.Defaults.Repetitions == 0 {
		c.Defaults.Repetitions = defaultRepetitions
	}
	if c.Defaults.Profile == "" {
		c.Defaults.Profile = defaultProfileName
	}
}

// resolve injects the default timeout into every command that does
// not override it. After resolve, every command carries a concrete
// timeout.
func (c *Config) resolve() {
	d := time.Duration(c.Defaults.Timeout) * time.Second
	for i := range c.Commands {
		c.Commands[i] = c.Commands[i].WithDefaultTimeout(d)
	}
}

// Profile returns the named profile.
func (c *Config) Profile(name string) (Profile, error) {
	for _, p := range c.Profiles {
		if p.Name == name {
			return p, nil
		}
	}
	return Profile{}, fmt.Errorf("profile %q is not defined", name)
}

// CommandByName returns the named command from the catalog.
func (c *Config) CommandByName(name string) (command.Command, bool) {
	for _, cmd := range c.Commands {
		if cmd.Name == name {
			return cmd, true
		}
	}
	return command.Command{}, false
}

// CommandsForProfile resolves a profile into its commands, in profile
// order.
func (c *Config) CommandsForProfile(name string) ([]command.Command, error) {
	p, err := c.Profile(name)
	if err != nil {
		return nil, err
	}

	cmds := make([]command.Command, 0, len(p.Commands))
	for _, cmdName := range p.Commands {
		cmd, ok := c.CommandByName(cmdName)
		if !ok {
			return nil, fmt.Errorf("profile %q references unknown command %q", name, cmdName)
		}
		cmds = append(cmds, cmd)
	}
	return cmds, nil
}

// HostinfoCommands resolves the hostinfo list, in config order.
// Validation guarantees every name resolves.
func (c *Config) HostinfoCommands() []command.Command {
	cmds := make([]command.Command, 0, len(c.Hostinfo.Commands))
	for _, cmdName := range c.Hostinfo.Commands {
		if cmd, ok := c.CommandByName(cmdName); ok {
			cmds = append(cmds, cmd)
		}
	}
	return cmds
}
