package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/steadyspace/internal/config"
	"github.com/katalvlaran/steadyspace/internal/output"
	"github.com/katalvlaran/steadyspace/internal/store"
)

func runsCmd(g *globals) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "runs [RUN_ID]",
		Short: "List archived runs, or print the steady states of one run as CSV",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig(&config.Config{Store: config.StoreConfig{Path: dbPath}})
			if err != nil {
				return err
			}
			if cfg.Store.Path == "" {
				return fmt.Errorf("no run archive configured: use --db or store.path")
			}

			ctx := cmd.Context()
			st, err := store.Open(ctx, cfg.Store.Path)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			if len(args) == 0 {
				runs, err := st.Runs(ctx)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(g.stdout, runsTable(runs))
				return err
			}

			run, err := st.Run(ctx, args[0])
			if err != nil {
				return err
			}
			states, err := st.States(ctx, run.ID)
			if err != nil {
				return err
			}
			w, err := output.NewCSVWriter(g.stdout, run.Species)
			if err != nil {
				return err
			}
			for _, state := range states {
				if err = w.Write(state); err != nil {
					return err
				}
			}

			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite run archive (default: store.path from config)")

	return cmd
}

func runsTable(runs []store.Run) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("RUN", "MODEL", "SPECIES", "STATES", "STARTED", "DURATION")
	for _, run := range runs {
		duration := "running"
		if !run.FinishedAt.IsZero() {
			duration = run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond).String()
		}
		t.Row(run.ID, run.Model, strconv.Itoa(len(run.Species)), strconv.Itoa(run.States),
			run.StartedAt.Local().Format(time.DateTime), duration)
	}

	return t.Render()
}
