// Package main provides the usereport CLI entry point.
//
// usereport collects the state of a host by running a configured set
// of diagnostic commands with bounded parallelism and renders the
// outcome as a report. Individual command failures are part of the
// report, not reasons to abort it.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/spf13/cobra"
)

// version is set at build time via ldflags:
//
//	go build -ldflags "-X main.version=1.0.0" ./cmd/usereport
var version = "dev"

func main() {
	rootCmd.Version = version
	rootCmd.PersistentPreRunE = initUsereport

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flagConfig, "config", "c", "", "config file (default: embedded per-platform config)")
	pf.StringVar(&flagLogFormat, "log-format", "text", "log format: text or json")
	pf.StringVar(&flagLogLevel, "log-level", "info", "log level: debug, info, warn or error")
	pf.BoolVar(&flagDebug, "debug", false, "log debug output, overrides --log-level")

	f := rootCmd.Flags()
	f.SetInterspersed(false)
	f.StringVarP(&flagProfile, "profile", "p", "", "profile to run (default: defaults.profile from the config)")
	f.StringVarP(&flagOutput, "output", "o", "markdown", "output format: json, markdown, html or template")
	f.StringVar(&flagOutputTemplate, "output-template", "", "template file, required with --output template")
	f.IntVar(&flagParallel, "parallel", 0, "max commands run in parallel (default: defaults.max_parallel_commands)")
	f.IntVar(&flagRepetitions, "repetitions", 0, "how often the command set runs (default: defaults.repetitions)")
	f.BoolVar(&flagProgress, "progress", false, "show progress even when stderr is not a terminal")
	f.BoolVar(&flagNoProgress, "no-progress", false, "never show progress")
	f.StringVar(&flagMetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while running")
	rootCmd.MarkFlagsMutuallyExclusive("progress", "no-progress")

	rootCmd.AddCommand(commandsCmd, profilesCmd, configCmd, versionCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and build information",
	// Build information needs no configuration.
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("usereport: %s\n", version)

		info, ok := debug.ReadBuildInfo()
		if !ok {
			return
		}
		fmt.Printf("go:        %s\n", info.GoVersion)
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				fmt.Printf("commit:    %s\n", s.Value)
			case "vcs.time":
				fmt.Printf("date:      %s\n", s.Value)
			}
		}
	},
}
