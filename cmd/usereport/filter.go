package main

import (
	"fmt"

	"github.com/usereport/usereport/internal/command"
	"github.com/usereport/usereport/internal/config"
)

// applyFilters adjusts a profile's command selection with +name and
// -name arguments, applied in order. +name appends the named catalog
// command unless already selected; -name drops it from the selection.
// Every name must exist in the catalog, selected or not.
func applyFilters(cfg *config.Config, selected []command.Command, filters []string) ([]command.Command, error) {
	out := append([]command.Command(nil), selected...)

	for _, f := range filters {
		if len(f) < 2 || (f[0] != '+' && f[0] != '-') {
			return nil, fmt.Errorf("filter %q must be +name or -name", f)
		}

		name := f[1:]
		cmd, ok := cfg.CommandByName(name)
		if !ok {
			return nil, fmt.Errorf("filter %q references unknown command %q", f, name)
		}

		switch f[0] {
		case '+':
			if !selectedByName(out, name) {
				out = append(out, cmd)
			}
		case '-':
			out = dropByName(out, name)
		}
	}

	return out, nil
}

func selectedByName(cmds []command.Command, name string) bool {
	for _, c := range cmds {
		if c.Name == name {
			return true
		}
	}
	return false
}

func dropByName(cmds []command.Command, name string) []command.Command {
	out := cmds[:0]
	for _, c := range cmds {
		if c.Name != name {
			out = append(out, c)
		}
	}
	return out
}
