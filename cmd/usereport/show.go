package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var commandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "List every command in the active configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tTITLE\tTIMEOUT\tCOMMAND")
		for _, c := range cfg.Commands {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.Name, c.Title, c.Timeout(), c.CommandLine)
		}
		return w.Flush()
	},
}

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List the profiles in the active configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tDESCRIPTION\tCOMMANDS")
		for _, p := range cfg.Profiles {
			fmt.Fprintf(w, "%s\t%s\t%d\n", p.Name, p.Description, len(p.Commands))
		}
		return w.Flush()
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the active configuration as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		enc := yaml.NewEncoder(os.Stdout)
		defer enc.Close()
		if err := enc.Encode(cfg); err != nil {
			return fmt.Errorf("encoding config: %w", err)
		}
		return nil
	},
}
