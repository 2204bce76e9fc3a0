package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/usereport/usereport/internal/analysis"
	"github.com/usereport/usereport/internal/config"
	"github.com/usereport/usereport/internal/logging"
	"github.com/usereport/usereport/internal/metrics"
	"github.com/usereport/usereport/internal/progress"
	"github.com/usereport/usereport/internal/render"
	"github.com/usereport/usereport/internal/runner"
)

var (
	flagConfig         string
	flagProfile        string
	flagOutput         string
	flagOutputTemplate string
	flagParallel       int
	flagRepetitions    int
	flagProgress       bool
	flagNoProgress     bool
	flagMetricsAddr    string
	flagLogFormat      string
	flagLogLevel       string
	flagDebug          bool

	// cfg is the active configuration, loaded by initUsereport before
	// any command runs.
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "usereport [flags] [+command ...] [-command ...]",
	Short: "Collect the state of a host by running diagnostic commands",
	Long: `usereport runs a configured set of diagnostic commands against the
local host and renders their output as a single report. Commands run
with bounded parallelism and individual timeouts; a failing or hanging
command shows up in the report instead of aborting it.

Positional arguments adjust the selected profile: +name appends a
command from the catalog, -name removes one. Filters follow all flags;
start with -- when the first filter is a removal.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runReport,
}

// initUsereport sets up logging and loads the active configuration.
// It runs before every command except version.
func initUsereport(cmd *cobra.Command, _ []string) error {
	logging.SetDefault(logging.NewLogger(flagLogFormat, flagLogLevel, flagDebug))

	var err error
	if flagConfig != "" {
		cfg, err = config.Load(flagConfig)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		return err
	}

	slog.Debug("config_loaded",
		"path", flagConfig,
		"commands", len(cfg.Commands),
		"profiles", len(cfg.Profiles),
	)
	return nil
}

func runReport(cmd *cobra.Command, args []string) error {
	// Build the renderer first so an unusable output choice fails
	// before any command runs.
	outputType, err := render.ParseOutputType(flagOutput)
	if err != nil {
		return err
	}
	renderer, err := render.New(outputType, flagOutputTemplate)
	if err != nil {
		return err
	}

	profileName := flagProfile
	if profileName == "" {
		profileName = cfg.Defaults.Profile
	}
	commands, err := cfg.CommandsForProfile(profileName)
	if err != nil {
		return err
	}
	commands, err = applyFilters(cfg, commands, args)
	if err != nil {
		return err
	}
	if len(commands) == 0 {
		return fmt.Errorf("profile %q selects no commands after filters", profileName)
	}

	repetitions := flagRepetitions
	if repetitions == 0 {
		repetitions = cfg.Defaults.Repetitions
	}
	if repetitions < 1 {
		return fmt.Errorf("repetitions must be at least 1, got %d", repetitions)
	}
	maxParallel := flagParallel
	if maxParallel == 0 {
		maxParallel = cfg.Defaults.MaxParallelCommands
	}
	if maxParallel < 1 {
		return fmt.Errorf("parallel must be at least 1, got %d", maxParallel)
	}

	hostinfo := cfg.HostinfoCommands()
	total := len(hostinfo) + repetitions*len(commands)

	stderrIsTerminal := isatty.IsTerminal(os.Stderr.Fd())
	showProgress := stderrIsTerminal
	if flagProgress {
		showProgress = true
	}
	if flagNoProgress {
		showProgress = false
	}
	useBar := showProgress && stderrIsTerminal

	if useBar {
		// The bar owns stderr while it runs; logs would tear it.
		logging.SetDefault(logging.NewLoggerWithWriter(io.Discard, flagLogFormat, flagLogLevel))
	}

	// Exactly one unit per command execution; capacity for all of them
	// so the runner never stalls on a slow display.
	var progressCh chan struct{}
	var run runner.Runner = runner.NewChunked()
	if showProgress {
		progressCh = make(chan struct{}, total)
		run = runner.NewChunkedWithProgress(progressCh)
	}

	if flagMetricsAddr != "" {
		collector := metrics.NewCollector(metrics.CollectorConfig{
			Version: version,
			Profile: profileName,
		})
		server := metrics.NewServer(flagMetricsAddr, prometheus.DefaultGatherer, slog.Default())
		if err := server.Start(); err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				slog.Warn("metrics_server_shutdown_failed", "error", err)
			}
		}()
		run = collector.InstrumentRunner(run)
	}

	slog.Info("starting",
		"version", version,
		"profile", profileName,
		"commands", len(commands),
		"repetitions", repetitions,
		"max_parallel", maxParallel,
	)

	a := analysis.New(run, hostinfo, commands).
		WithRepetitions(repetitions).
		WithMaxParallel(maxParallel).
		WithAnnotation("Profile", profileName).
		WithAnnotation("usereport", version)

	var report *analysis.Report
	g, gctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		if progressCh != nil {
			defer close(progressCh)
		}
		var err error
		report, err = a.Run(gctx)
		return err
	})

	switch {
	case useBar:
		p := tea.NewProgram(progress.New(total), tea.WithInput(nil), tea.WithOutput(os.Stderr))
		go progress.Pump(p, progressCh)
		if _, err := p.Run(); err != nil {
			slog.Warn("progress_display_failed", "error", err)
		}
	case showProgress:
		g.Go(func() error {
			progress.Plain(os.Stderr, total, progressCh)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	slog.Info("report_ready", "report_id", report.Context.ReportID)
	return renderer.Render(os.Stdout, report)
}
