package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"mvc/internal/batch"
	"mvc/internal/config"
	"mvc/internal/deps"
	"mvc/internal/ffmpeg"
	"mvc/internal/logging"
	"mvc/internal/preflight"
	"mvc/internal/preset"
)

// errTasksFailed ends the process with status 1 once the summary has already
// reported the failures.
var errTasksFailed = errors.New("one or more files failed to compress")

var errNotInteractive = errors.New("stdin is not a terminal")

// interactiveInput reports whether prompts may read from in.
var interactiveInput = func(in io.Reader) bool { return isTerminal(in) }

func newCompressCommand(ctx *commandContext) *cobra.Command {
	var flags batchFlags
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "compress",
		Short: "Compress every video in a folder",
		Long: `Compress every matching video in a source folder into a destination folder.

Missing --preset, --source or --dest values are asked for interactively when
stdin is a terminal.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			defer ctx.closeLogger()
			catalog, err := ctx.catalog()
			if err != nil {
				return err
			}

			runCtx := cmd.Context()
			if runCtx == nil {
				runCtx = context.Background()
			}
			out := cmd.OutOrStdout()
			s := newSession(cfg, logging.NewComponentLogger(logger, "compress"), out, flags)

			if err := resolveInputs(runCtx, cmd, catalog, cfg, &flags, s); err != nil {
				return err
			}
			return compress(runCtx, out, s, dryRun)
		},
	}

	addBatchFlags(cmd, &flags)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the planned ffmpeg commands without encoding")
	return cmd
}

func addBatchFlags(cmd *cobra.Command, flags *batchFlags) {
	cmd.Flags().StringVarP(&flags.preset, "preset", "p", "", "Preset key or slug (see mvc presets)")
	cmd.Flags().StringVarP(&flags.source, "source", "s", "", "Folder containing the videos to compress")
	cmd.Flags().StringVarP(&flags.dest, "dest", "d", "", "Folder that receives compressed videos")
	cmd.Flags().IntVarP(&flags.workers, "workers", "w", 0, "Concurrent encodes (default: derived from CPU count)")
	cmd.Flags().BoolVarP(&flags.recursive, "recursive", "r", false, "Include videos in subfolders and mirror the layout")
	cmd.Flags().BoolVar(&flags.noGPU, "no-gpu", false, "Skip hardware detection and encode on the CPU")
	cmd.Flags().BoolVar(&flags.noOverwrite, "no-overwrite", false, "Skip files whose output already exists")
}

// resolveInputs fills the session's preset and folders from flags, falling
// back to interactive prompts for anything missing when stdin is a terminal.
func resolveInputs(ctx context.Context, cmd *cobra.Command, catalog *preset.Catalog, cfg *config.Config, flags *batchFlags, s *session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	pathPrompt := flags.source == "" || flags.dest == ""
	presetPrompt := flags.preset == "" && (pathPrompt || cfg.Compress.DefaultPreset == "")
	var ask *prompter
	if presetPrompt || pathPrompt {
		if !interactiveInput(cmd.InOrStdin()) {
			return fmt.Errorf("%w: pass --preset, --source and --dest", errNotInteractive)
		}
		ask = newPrompter(cmd.InOrStdin(), out)
		fmt.Fprintln(out, banner)
	}

	switch {
	case flags.preset != "":
		selected, ok := catalog.Lookup(flags.preset)
		if !ok {
			return fmt.Errorf("%w: unknown preset %q", errInvalidSelection, flags.preset)
		}
		s.preset = selected
	case !presetPrompt:
		selected, ok := catalog.Lookup(cfg.Compress.DefaultPreset)
		if !ok {
			return fmt.Errorf("%w: unknown default preset %q", errInvalidSelection, cfg.Compress.DefaultPreset)
		}
		s.preset = selected
	default:
		selected, err := ask.choosePreset(ctx, catalog)
		if err != nil {
			return err
		}
		s.preset = selected
	}

	if pathPrompt {
		fmt.Fprintln(out, "\n(Tip: Drag and drop folders into this window)")
	}
	source, dest := cleanPath(flags.source), cleanPath(flags.dest)
	var err error
	if source == "" {
		if source, err = ask.askPath(ctx, "Source Folder: "); err != nil {
			return err
		}
	}
	if dest == "" {
		if dest, err = ask.askPath(ctx, "Output Folder: "); err != nil {
			return err
		}
	}
	if s.source, err = config.ExpandPath(source); err != nil {
		return err
	}
	if s.dest, err = config.ExpandPath(dest); err != nil {
		return err
	}
	return nil
}

func compress(ctx context.Context, out io.Writer, s *session, dryRun bool) error {
	if info, err := os.Stat(s.source); err != nil || !info.IsDir() {
		return fmt.Errorf("source folder does not exist: %s", s.source)
	}
	if err := batch.ValidateDirs(s.source, s.dest, s.recursive); err != nil {
		return err
	}
	if _, err := os.Stat(s.dest); errors.Is(err, os.ErrNotExist) && !dryRun {
		fmt.Fprintf(out, "Creating output folder: %s\n", s.dest)
		if err := os.MkdirAll(s.dest, 0o755); err != nil {
			return fmt.Errorf("create output folder: %w", err)
		}
	}

	binary, err := deps.ResolveFFmpeg(s.cfg.FFmpeg.Binary)
	if err != nil {
		return err
	}
	s.ffmpeg = binary

	if err := s.detectEncoder(ctx); err != nil {
		return err
	}

	files, err := batch.Discover(s.source, s.cfg.Compress.Extensions, s.recursive)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintf(out, "No %s files found.\n", strings.Join(s.cfg.Compress.Extensions, "/"))
		return nil
	}

	tasks, err := batch.Plan(files, s.source, s.dest, s.preset, s.encoder)
	if err != nil {
		return err
	}

	if dryRun {
		printPlan(out, s, tasks)
		return nil
	}

	results := preflight.RunBatch(preflight.Batch{
		FFmpegBinary: s.ffmpeg,
		Source:       s.source,
		Dest:         s.dest,
		InputBytes:   batch.TotalInputBytes(tasks),
	})
	for _, r := range results {
		if r.Warning {
			fmt.Fprintln(out, s.colors.warn.Sprintf("⚠ %s: %s", r.Name, r.Detail))
		}
	}
	if failed := preflight.Failed(results); len(failed) > 0 {
		for _, r := range failed {
			fmt.Fprintln(out, s.colors.err.Sprintf("✘ %s: %s", r.Name, r.Detail))
		}
		return fmt.Errorf("preflight failed: %s", failed[0].Detail)
	}

	lock, err := batch.LockDestination(s.dest)
	if err != nil {
		return err
	}
	defer lock.Release()

	s.openHistory()
	defer s.close()

	s.logger.Info("batch starting",
		logging.String(logging.FieldPreset, s.preset.Key),
		logging.String(logging.FieldEncoder, s.encoderLabel()),
		logging.String("source", s.source),
		logging.String("dest", s.dest),
		logging.Int("files", len(tasks)),
		logging.Int("workers", s.workers),
	)

	fmt.Fprintf(out, "\nProcessing %d files with %d threads...\n", len(tasks), s.workers)
	reporter := newConsoleReporter(out, len(tasks), isTerminal(out), s.colors)
	summary := s.run(ctx, tasks, reporter)

	fmt.Fprintln(out, "\nAll tasks finished.")
	printSummary(out, summary)

	if ctx.Err() != nil {
		return context.Canceled
	}
	if summary.HasFailures() {
		return errTasksFailed
	}
	return nil
}

func printPlan(out io.Writer, s *session, tasks []batch.Task) {
	fmt.Fprintf(out, "\nDry run: %d files with %d threads using %s\n", len(tasks), s.workers, s.preset.Label())
	for _, task := range tasks {
		if task.Preset.Engine == preset.EngineDrapto {
			fmt.Fprintf(out, "drapto %s -> %s\n", task.Input, task.Output)
			continue
		}
		argv := ffmpeg.Build(s.ffmpeg, task.Input, task.Output, task.Preset, task.Encoder, ffmpeg.WithOverwrite(s.overwrite))
		fmt.Fprintln(out, shellJoin(argv))
	}
}

func printSummary(out io.Writer, summary batch.Summary) {
	if len(summary.Results) == 0 {
		return
	}
	g := newGrid(textCol("File"), textCol("Status"), numCol("Input"), numCol("Output"), numCol("Saved"), numCol("Time"))
	for _, r := range summary.Results {
		input, output, saved := "-", "-", "-"
		if r.Task.InputBytes > 0 {
			input = humanize.IBytes(uint64(r.Task.InputBytes))
		}
		if r.Status == batch.StatusSucceeded {
			output = humanize.IBytes(uint64(r.OutputBytes))
			if r.Task.InputBytes > 0 {
				saved = fmt.Sprintf("%.0f%%", 100*(1-float64(r.OutputBytes)/float64(r.Task.InputBytes)))
			}
		}
		elapsed := "-"
		if r.Duration > 0 {
			elapsed = r.Duration.Round(100 * time.Millisecond).String()
		}
		g.row(r.Task.Name(), string(r.Status), input, output, saved, elapsed)
	}
	if summary.InputBytes > 0 {
		g.total("Total", "",
			humanize.IBytes(uint64(summary.InputBytes)),
			humanize.IBytes(uint64(summary.OutputBytes)),
			fmt.Sprintf("%.0f%%", 100*(1-summary.Ratio())),
			summary.Duration.Round(time.Second).String())
	}
	fmt.Fprintln(out, g)

	fmt.Fprintf(out, "Succeeded: %d  Failed: %d  Skipped: %d  Cancelled: %d  Elapsed: %s\n",
		summary.Succeeded, summary.Failed, summary.Skipped, summary.Cancelled,
		summary.Duration.Round(time.Second))
	if summary.InputBytes > 0 {
		fmt.Fprintf(out, "Size: %s -> %s (%.0f%% of original)\n",
			humanize.IBytes(uint64(summary.InputBytes)),
			humanize.IBytes(uint64(summary.OutputBytes)),
			100*summary.Ratio())
	}
}

func shellJoin(argv []string) string {
	parts := make([]string, len(argv))
	for i, arg := range argv {
		if arg == "" || strings.ContainsAny(arg, " \t'\"$\\") {
			parts[i] = "'" + strings.ReplaceAll(arg, "'", `'\''`) + "'"
			continue
		}
		parts[i] = arg
	}
	return strings.Join(parts, " ")
}
