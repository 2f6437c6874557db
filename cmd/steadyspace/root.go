package main

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/steadyspace/internal/config"
	"github.com/katalvlaran/steadyspace/model"
)

// globals are the flags shared by every command.
type globals struct {
	configPath string
	logLevel   string
	stdout     io.Writer
	stderr     io.Writer
}

func rootCmd(stdout, stderr io.Writer) *cobra.Command {
	g := &globals{stdout: stdout, stderr: stderr}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Steady-state enumerator for qualitative regulatory networks",
		Long: `Steadyspace enumerates every steady state of a multi-valued regulatory
network model. A steady state assigns each species a value equal to the
value its rule produces from its regulators.

Results are written as CSV next to each model (or to --out-dir), one row
per steady state in lexicographic order.

Exit codes: 0 ok, 1 usage or configuration, 2 model, 3 computation, 4 bounds.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "Config file path (default: steadyspace.yaml in the working directory or a parent)")
	cmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		solveCmd(g),
		inspectCmd(g),
		runsCmd(g),
		configCmd(g),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				_, _ = fmt.Fprintf(g.stdout, "%s version %s (build: %s)\n", appName, Version, BuildTime)
			},
		},
	)

	return cmd
}

// loadConfig resolves the layered configuration: defaults, then the config
// file, then overrides from flags. The result is validated.
func (g *globals) loadConfig(overrides *config.Config) (*config.Config, error) {
	loader := config.NewLoader(newLogger(g.stderr, g.logLevel))
	cfg, err := loader.Load(g.configPath, "")
	if err != nil {
		return nil, err
	}
	cfg.Merge(overrides)
	if g.logLevel != "" {
		cfg.Log.Level = strings.ToLower(g.logLevel)
	}
	if err = cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// newLogger returns a text logger for terminals and a JSON logger otherwise.
func newLogger(w io.Writer, logLevel string) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	opts := &slog.HandlerOptions{Level: level}

	if f, ok := w.(interface{ Fd() uintptr }); ok {
		if fd := f.Fd(); isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
			return slog.New(slog.NewTextHandler(w, opts))
		}
	}

	return slog.New(slog.NewJSONHandler(w, opts))
}

// parseBounds parses repeated NAME=MAX flags. Later flags win.
func parseBounds(specs []string) (map[string]int, error) {
	if len(specs) == 0 {
		return nil, nil
	}
	out := make(map[string]int, len(specs))
	for _, s := range specs {
		name, val, ok := strings.Cut(s, "=")
		name = strings.TrimSpace(name)
		if !ok || !model.ValidName(name) {
			return nil, fmt.Errorf("invalid bound %q: want NAME=MAX", s)
		}
		v, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil || v < 0 {
			return nil, fmt.Errorf("invalid bound %q: MAX must be a non-negative integer", s)
		}
		out[name] = v
	}

	return out, nil
}
