package config

import (
	"errors"
	"fmt"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the configuration for errors and inconsistencies.
// Returns nil if valid, or all problems joined into one error.
func (c *Config) Validate() error {
	var errs []error

	if c.Defaults.Timeout < 1 {
		errs = append(errs, ValidationError{
			Field:   "defaults.timeout",
			Message: "must be at least 1 second",
		})
	}
	if c.Defaults.MaxParallelCommands < 1 {
		errs = append(errs, ValidationError{
			Field:   "defaults.max_parallel_commands",
			Message: "must be at least 1",
		})
	}
	if c.Defaults.Repetitions < 1 {
		errs = append(errs, ValidationError{
			Field:   "defaults.repetitions",
			Message: "must be at least 1",
		})
	}

	// Command catalog: unique names, runnable command lines.
	names := make(map[string]bool, len(c.Commands))
	for i, cmd := range c.Commands {
		field := fmt.Sprintf("commands[%d]", i)

		if cmd.Name == "" {
			errs = append(errs, ValidationError{
				Field:   field + ".name",
				Message: "must not be empty",
			})
		} else if names[cmd.Name] {
			errs = append(errs, ValidationError{
				Field:   field + ".name",
				Message: fmt.Sprintf("duplicate command name %q", cmd.Name),
			})
		}
		names[cmd.Name] = true

		if args, err := cmd.Args(); err != nil {
			errs = append(errs, ValidationError{
				Field:   field + ".command",
				Message: fmt.Sprintf("invalid command line: %v", err),
			})
		} else if len(args) == 0 {
			errs = append(errs, ValidationError{
				Field:   field + ".command",
				Message: "must contain at least one token",
			})
		}

		if cmd.TimeoutSec < 0 {
			errs = append(errs, ValidationError{
				Field:   field + ".timeout",
				Message: "must not be negative",
			})
		}

		for j, link := range cmd.Links {
			if link.Name == "" || link.URL == "" {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("%s.links[%d]", field, j),
					Message: "must have both name and url",
				})
			}
		}
	}

	// Profiles: unique names, every referenced command exists.
	profileNames := make(map[string]bool, len(c.Profiles))
	for i, p := range c.Profiles {
		field := fmt.Sprintf("profiles[%d]", i)

		if p.Name == "" {
			errs = append(errs, ValidationError{
				Field:   field + ".name",
				Message: "must not be empty",
			})
		} else if profileNames[p.Name] {
			errs = append(errs, ValidationError{
				Field:   field + ".name",
				Message: fmt.Sprintf("duplicate profile name %q", p.Name),
			})
		}
		profileNames[p.Name] = true

		for _, cmdName := range p.Commands {
			if !names[cmdName] {
				errs = append(errs, ValidationError{
					Field:   field + ".commands",
					Message: fmt.Sprintf("unknown command %q", cmdName),
				})
			}
		}
	}

	// The default profile must exist.
	if !profileNames[c.Defaults.Profile] {
		errs = append(errs, ValidationError{
			Field:   "defaults.profile",
			Message: fmt.Sprintf("profile %q is not defined", c.Defaults.Profile),
		})
	}

	// Hostinfo commands must exist.
	for _, cmdName := range c.Hostinfo.Commands {
		if !names[cmdName] {
			errs = append(errs, ValidationError{
				Field:   "hostinfo.commands",
				Message: fmt.Sprintf("unknown command %q", cmdName),
			})
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
