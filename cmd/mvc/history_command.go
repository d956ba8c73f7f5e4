package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"mvc/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent compression runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHistory(func(store *history.Store) error {
				runs, err := store.ListRuns(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if asJSON {
					if runs == nil {
						runs = []history.Run{}
					}
					return writeJSON(cmd, runs)
				}
				out := cmd.OutOrStdout()
				if len(runs) == 0 {
					fmt.Fprintln(out, "No runs recorded yet.")
					return nil
				}
				fmt.Fprintln(out, renderRunsTable(runs))
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show (0 for all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	cmd.AddCommand(newHistoryShowCommand(ctx))
	cmd.AddCommand(newHistoryPruneCommand(ctx))
	return cmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one run and its files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(strings.TrimSpace(format))
			switch format {
			case "table", "json", "yaml":
			default:
				return fmt.Errorf("unknown format %q (expected table, json or yaml)", format)
			}
			return ctx.withHistory(func(store *history.Store) error {
				run, err := store.GetRun(cmd.Context(), args[0])
				if err != nil {
					if errors.Is(err, history.ErrRunNotFound) {
						return fmt.Errorf("run %s not found", args[0])
					}
					return err
				}
				switch format {
				case "json":
					return writeJSON(cmd, run)
				case "yaml":
					return writeYAML(cmd, run)
				}
				renderRunDetail(cmd.OutOrStdout(), run)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table, json or yaml")
	return cmd
}

func newHistoryPruneCommand(ctx *commandContext) *cobra.Command {
	var keep int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete old runs from history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("keep") {
				keep = cfg.History.KeepRuns
			}
			if keep <= 0 {
				return errors.New("--keep must be positive")
			}
			return ctx.withHistory(func(store *history.Store) error {
				removed, err := store.Prune(cmd.Context(), keep)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d runs (kept newest %d)\n", removed, keep)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&keep, "keep", 0, "Number of newest runs to keep (default: history.keep_runs)")
	return cmd
}

func (c *commandContext) withHistory(fn func(*history.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := history.OpenFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer store.Close()
	return fn(store)
}

func renderRunsTable(runs []history.Run) string {
	title := cases.Title(language.Und)
	g := newGrid(textCol("ID"), textCol("Started"), textCol("Status"), textCol("Preset"), numCol("OK/Fail/Skip"), numCol("Size"), numCol("Duration"))
	for _, run := range runs {
		g.row(
			run.ShortID(),
			run.StartedAt.Local().Format("2006-01-02 15:04"),
			title.String(string(run.Status)),
			run.PresetKey,
			fmt.Sprintf("%d/%d/%d", run.Succeeded, run.Failed, run.Skipped),
			sizeChange(run.Totals),
			formatRunDuration(run),
		)
	}
	return g.String()
}

func renderRunDetail(out io.Writer, run history.Run) {
	title := cases.Title(language.Und)
	fmt.Fprintf(out, "Run:      %s\n", run.ID)
	fmt.Fprintf(out, "Status:   %s\n", title.String(string(run.Status)))
	fmt.Fprintf(out, "Preset:   %s %s\n", run.PresetKey, run.PresetName)
	fmt.Fprintf(out, "Encoder:  %s (%d workers)\n", run.Encoder, run.Workers)
	fmt.Fprintf(out, "Source:   %s\n", run.SourceDir)
	fmt.Fprintf(out, "Dest:     %s\n", run.DestDir)
	fmt.Fprintf(out, "Started:  %s (%s)\n", run.StartedAt.Local().Format(time.RFC3339), humanize.Time(run.StartedAt))
	fmt.Fprintf(out, "Duration: %s\n", formatRunDuration(run))
	fmt.Fprintf(out, "Size:     %s\n", sizeChange(run.Totals))

	if len(run.Tasks) == 0 {
		return
	}
	g := newGrid(textCol("File"), textCol("Status"), numCol("Input"), numCol("Output"), numCol("Time"), wrapCol("Error", 60))
	for _, task := range run.Tasks {
		output := "-"
		if task.OutputBytes > 0 {
			output = humanize.IBytes(uint64(task.OutputBytes))
		}
		g.row(
			filepath.Base(task.Input),
			task.Status,
			humanize.IBytes(uint64(max(task.InputBytes, 0))),
			output,
			task.Duration.Round(100*time.Millisecond).String(),
			task.Error,
		)
	}
	fmt.Fprintln(out, g)
}

func sizeChange(t history.Totals) string {
	if t.InputBytes <= 0 {
		return "-"
	}
	return fmt.Sprintf("%s -> %s", humanize.IBytes(uint64(t.InputBytes)), humanize.IBytes(uint64(max(t.OutputBytes, 0))))
}

func formatRunDuration(run history.Run) string {
	if run.FinishedAt == nil {
		return "running"
	}
	return run.Duration().Round(time.Second).String()
}
