package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/steadyspace/internal/config"
	"github.com/katalvlaran/steadyspace/internal/metrics"
	"github.com/katalvlaran/steadyspace/internal/runner"
	"github.com/katalvlaran/steadyspace/internal/store"
	"github.com/katalvlaran/steadyspace/internal/telemetry"
)

type solveFlags struct {
	outDir      string
	suffix      string
	bounds      []string
	limit       int
	workers     int
	dbPath      string
	metricsFile string
	trace       string
	watch       bool
	debounce    time.Duration
	keepGoing   bool
}

func solveCmd(g *globals) *cobra.Command {
	f := &solveFlags{}

	cmd := &cobra.Command{
		Use:   "solve MODEL...",
		Short: "Enumerate the steady states of one or more models",
		Long: `Solve loads each model (a path or a glob pattern, ** allowed), enumerates
its steady states and writes <model>_stable.csv. Models are solved
concurrently with --workers. The first failure stops the batch unless
--keep-going is set.

With --watch the models are solved once and then again whenever their
files change, until interrupted.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides, err := f.overrides()
			if err != nil {
				return err
			}
			cfg, err := g.loadConfig(overrides)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("limit") {
				cfg.Solve.Limit = f.limit
				if err = cfg.Validate(); err != nil {
					return err
				}
			}

			return runSolve(cmd.Context(), g, cfg, args, f)
		},
	}

	cmd.Flags().StringVarP(&f.outDir, "out-dir", "o", "", "Directory for result files (default: next to each model)")
	cmd.Flags().StringVar(&f.suffix, "suffix", "", "Result file suffix (default \"_stable.csv\")")
	cmd.Flags().StringArrayVarP(&f.bounds, "bound", "b", nil, "Tighten a species ceiling, NAME=MAX (repeatable)")
	cmd.Flags().IntVarP(&f.limit, "limit", "n", 0, "Stop each model after this many steady states (0 = all)")
	cmd.Flags().IntVarP(&f.workers, "workers", "j", 0, "Models solved concurrently (default 1)")
	cmd.Flags().StringVar(&f.dbPath, "db", "", "Archive runs in this SQLite database")
	cmd.Flags().StringVar(&f.metricsFile, "metrics-file", "", "Write Prometheus metrics to this file")
	cmd.Flags().StringVar(&f.trace, "trace", "", "Trace exporter (none, stdout)")
	cmd.Flags().BoolVarP(&f.watch, "watch", "w", false, "Re-solve models when their files change")
	cmd.Flags().DurationVar(&f.debounce, "debounce", 0, "Watch debounce period (default 200ms)")
	cmd.Flags().BoolVarP(&f.keepGoing, "keep-going", "k", false, "Solve every model even after a failure")

	return cmd
}

func (f *solveFlags) overrides() (*config.Config, error) {
	bounds, err := parseBounds(f.bounds)
	if err != nil {
		return nil, err
	}

	return &config.Config{
		Output:  config.OutputConfig{Dir: f.outDir, Suffix: f.suffix},
		Solve:   config.SolveConfig{Workers: f.workers, Bounds: bounds},
		Metrics: config.MetricsConfig{File: f.metricsFile},
		Store:   config.StoreConfig{Path: f.dbPath},
		Trace:   config.TraceConfig{Exporter: f.trace},
		Watch:   config.WatchConfig{Debounce: f.debounce},
	}, nil
}

func runSolve(ctx context.Context, g *globals, cfg *config.Config, patterns []string, f *solveFlags) (retErr error) {
	logger := newLogger(g.stderr, cfg.Log.Level)

	// 1. Resolve models.
	paths, err := runner.ResolveModels(patterns)
	if err != nil {
		return err
	}

	// 2. Ambient services.
	shutdown, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    appName,
		ServiceVersion: Version,
		Exporter:       cfg.Trace.Exporter,
		Writer:         g.stderr,
	})
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(sctx); err != nil {
			logger.Warn("Telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}()

	opts := []runner.Option{runner.WithLogger(logger), runner.WithKeepGoing(f.keepGoing)}

	var m *metrics.Metrics
	if cfg.Metrics.File != "" {
		m = metrics.New()
		opts = append(opts, runner.WithMetrics(m))
		defer func() {
			if err := m.WriteFile(cfg.Metrics.File); err != nil && retErr == nil {
				retErr = &exitError{code: exitCompute, err: err}
			}
		}()
	}

	if cfg.Store.Path != "" {
		st, err := store.Open(ctx, cfg.Store.Path)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()
		opts = append(opts, runner.WithStore(st))
	}

	r := runner.New(cfg, opts...)

	// 3. Run.
	if f.watch {
		if err = r.CheckOutputs(paths); err != nil {
			return err
		}
		return r.Watch(ctx, paths, func(res runner.Result, err error) {
			if err != nil {
				logger.Error("Solve failed", slog.String("path", res.ModelPath), slog.String("error", err.Error()))
			} else {
				_, _ = fmt.Fprintln(g.stdout, res.String())
			}
			if m != nil {
				if werr := m.WriteFile(cfg.Metrics.File); werr != nil {
					logger.Warn("Writing metrics failed", slog.String("error", werr.Error()))
				}
			}
		})
	}

	results, err := r.SolveAll(ctx, paths)
	for _, res := range results {
		if res.Outcome == metrics.OutcomeComplete || res.Outcome == metrics.OutcomeLimited {
			_, _ = fmt.Fprintln(g.stdout, res.String())
		}
	}

	return err
}
