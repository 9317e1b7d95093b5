package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"persistence"
	"persistence/internal/config"
	"persistence/internal/logging"
	"persistence/internal/metrics"
	"persistence/internal/report"
	"persistence/internal/timefmt"
)

type options struct {
	configPath  string
	endValue    string
	resultsDir  string
	metricsAddr string
	logLevel    string
	logJSON     bool
	server      bool
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "persistence-search [start] [end] [threshold]",
		Short: "Search for numbers with high multiplicative persistence",
		Long: `Walks every record candidate from start to end digits and reports
the ones whose multiplicative persistence reaches threshold.

  start:     number of digits to start searching at
  end:       number of digits to stop searching at
  threshold: the minimum number of steps that will be considered a result`,
		Args:          cobra.RangeArgs(0, 3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.server {
				return persistence.RunServer(stdin, stdout)
			}

			cfg, err := resolveConfig(cmd, opts, args)
			if err != nil {
				return err
			}
			return runSearch(cmd.Context(), cfg, stdout, stderr)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "", "YAML config file")
	f.StringVar(&opts.endValue, "end-value", "", "stop after the last candidate not above this value")
	f.StringVar(&opts.resultsDir, "results-dir", "", "directory for result.<steps>.txt files")
	f.StringVar(&opts.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	f.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error")
	f.BoolVar(&opts.logJSON, "log-json", false, "log as JSON")
	f.BoolVar(&opts.server, "server", false, "run the line protocol on stdin/stdout")

	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd
}

// resolveConfig layers defaults, the config file, flags and positional
// arguments, in that order, and validates the result.
func resolveConfig(cmd *cobra.Command, opts options, args []string) (config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		if cfg, err = config.Load(opts.configPath); err != nil {
			return cfg, err
		}
	}

	fields := []*int{&cfg.StartDigits, &cfg.EndDigits, &cfg.Threshold}
	for i, arg := range args {
		v, err := strconv.Atoi(arg)
		if err != nil {
			return cfg, fmt.Errorf("invalid number '%s': %w", arg, config.ErrInvalid)
		}
		*fields[i] = v
	}

	flags := cmd.Flags()
	if flags.Changed("end-value") {
		cfg.EndValue = opts.endValue
	}
	if flags.Changed("results-dir") {
		cfg.ResultsDir = opts.resultsDir
	}
	if flags.Changed("metrics-addr") {
		cfg.MetricsAddr = opts.metricsAddr
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	if flags.Changed("log-json") {
		cfg.LogJSON = opts.logJSON
	}

	return cfg, cfg.Validate()
}

func runSearch(ctx context.Context, cfg config.Config, stdout, stderr io.Writer) error {
	level, _ := logging.ParseLevel(cfg.LogLevel)
	logger := logging.New(logging.Options{Level: level, JSON: cfg.LogJSON, Writer: stderr, Service: "search"})

	sc, err := cfg.Search()
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Starting at %d digits\n", sc.StartDigits)
	fmt.Fprintf(stdout, "Ending at %d digits\n", sc.EndDigits)
	fmt.Fprintf(stdout, "With a minimum of %d steps\n", sc.Threshold)

	if err := os.MkdirAll(cfg.ResultsDir, 0o755); err != nil {
		return fmt.Errorf("create results directory: %w", err)
	}

	reg := prometheus.NewRegistry()
	collectors := metrics.NewCollectors(reg)
	progress := &progressPrinter{out: stdout, logger: logger, now: time.Now}
	reporter := collectors.Reporter(report.NewFileReporter(cfg.ResultsDir, stdout, logger))

	searcher, err := persistence.NewSearcher(sc, reporter, metrics.NewObserver(collectors, progress))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	searchCtx, searchDone := context.WithCancel(gctx)
	defer searchDone()

	var stats persistence.Stats
	g.Go(func() error {
		// Finishing the search also ends the metrics endpoint.
		defer searchDone()
		var err error
		stats, err = searcher.Run(searchCtx)
		if errors.Is(err, context.Canceled) {
			logger.Info("search interrupted", "candidates", stats.Candidates, "digits", stats.Digits)
			return nil
		}
		return err
	})
	if cfg.MetricsAddr != "" {
		g.Go(func() error {
			return metrics.Serve(searchCtx, cfg.MetricsAddr, reg, logger)
		})
	}

	err = g.Wait()
	progress.finish(stats)
	return err
}

// progressPrinter prints the digit-length progress notices and timing
// reports.
type progressPrinter struct {
	out    io.Writer
	logger *slog.Logger
	now    func() time.Time
}

func (p *progressPrinter) DigitsChanged(digits int, stats persistence.Stats) {
	now := p.now()
	fmt.Fprintln(p.out)
	fmt.Fprintf(p.out, "Now at %d digits\n", digits)
	p.printTimes(stats.Started, stats.DigitsSince, now)
	p.logger.Debug("digit count changed", "digits", digits, "candidates", stats.Candidates, "results", stats.Results)
}

func (p *progressPrinter) Candidate(int) {}

func (p *progressPrinter) finish(stats persistence.Stats) {
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, "Finished")
	fmt.Fprintf(p.out, "Found %d results\n", stats.Results)
	if stats.BestNumber != nil {
		fmt.Fprintf(p.out, "Best: %d steps for %s\n", stats.Best, stats.BestNumber)
	}
	if !stats.Started.IsZero() {
		p.printTimes(stats.Started, stats.DigitsSince, stats.Finished)
	}
}

func (p *progressPrinter) printTimes(programStart, deltaStart, now time.Time) {
	fmt.Fprintf(p.out, "Delta time: %s\n", timefmt.Format(now.Sub(deltaStart)))
	fmt.Fprintf(p.out, "Total time: %s\n", timefmt.Format(now.Sub(programStart)))
}

func main() {
	if err := newRootCmd(os.Stdin, os.Stdout, os.Stderr).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
