package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"mvc/internal/batch"
	"mvc/internal/config"
	"mvc/internal/deps"
	"mvc/internal/logging"
	"mvc/internal/metrics"
	"mvc/internal/watch"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var flags batchFlags
	var metricsAddr string
	var settle time.Duration
	var existing bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Compress videos as they arrive in a folder",
		Args:  cobra.NoArgs,
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
			if flags.source == "" || flags.dest == "" {
				return errors.New("watch requires --source and --dest")
			}

			runCtx := cmd.Context()
			if runCtx == nil {
				runCtx = context.Background()
			}
			out := cmd.OutOrStdout()
			s := newSession(cfg, logging.NewComponentLogger(logger, "watch"), out, flags)

			key := flags.preset
			if key == "" {
				key = cfg.Compress.DefaultPreset
			}
			selected, ok := catalog.Lookup(key)
			if !ok {
				return fmt.Errorf("%w: unknown preset %q", errInvalidSelection, key)
			}
			s.preset = selected
			if s.source, err = config.ExpandPath(cleanPath(flags.source)); err != nil {
				return err
			}
			if s.dest, err = config.ExpandPath(cleanPath(flags.dest)); err != nil {
				return err
			}
			if info, statErr := os.Stat(s.source); statErr != nil || !info.IsDir() {
				return fmt.Errorf("source folder does not exist: %s", s.source)
			}
			if err := batch.ValidateDirs(s.source, s.dest, s.recursive); err != nil {
				return err
			}
			if s.ffmpeg, err = deps.ResolveFFmpeg(cfg.FFmpeg.Binary); err != nil {
				return err
			}
			if err := s.detectEncoder(runCtx); err != nil {
				return err
			}

			addr := metricsAddr
			if addr == "" {
				addr = cfg.Watch.MetricsAddr
			}
			if settle <= 0 {
				settle = time.Duration(cfg.Watch.SettleSeconds) * time.Second
			}
			return watchFolder(runCtx, s, watchOptions{
				metricsAddr: addr,
				settle:      settle,
				existing:    existing,
			})
		},
	}

	addBatchFlags(cmd, &flags)
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9464)")
	cmd.Flags().DurationVar(&settle, "settle", 0, "How long a file must stop growing before it is compressed")
	cmd.Flags().BoolVar(&existing, "existing", false, "Also compress videos already in the folder at startup")
	return cmd
}

type watchOptions struct {
	metricsAddr string
	settle      time.Duration
	existing    bool
}

func watchFolder(ctx context.Context, s *session, opts watchOptions) error {
	lock, err := batch.LockDestination(s.dest)
	if err != nil {
		return err
	}
	defer lock.Release()

	s.openHistory()
	defer s.close()

	collector := metrics.New()
	if opts.metricsAddr != "" {
		go func() {
			if err := collector.Serve(ctx, opts.metricsAddr, s.logger); err != nil {
				logging.WarnWithContext(s.logger, "metrics endpoint stopped", "metrics_serve_failed",
					logging.Error(err),
					logging.String(logging.FieldImpact, "metrics will not be scraped"),
				)
			}
		}()
	}

	handler := func(ctx context.Context, paths []string) {
		tasks, err := batch.Plan(paths, s.source, s.dest, s.preset, s.encoder)
		if err != nil {
			logging.ErrorWithContext(s.logger, "cannot plan new files", "plan_failed", logging.Error(err))
			fmt.Fprintln(s.out, s.colors.err.Sprintf("✘ %v", err))
			return
		}
		fmt.Fprintf(s.out, "\nProcessing %d files with %d threads...\n", len(tasks), s.workers)
		reporter := newConsoleReporter(s.out, len(tasks), false, s.colors)
		summary := s.run(ctx, tasks, reporter, collector)
		printSummary(s.out, summary)
	}

	fmt.Fprintf(s.out, "Watching %s (Ctrl-C to stop)\n", s.source)
	w := watch.New(s.source, watch.Options{
		Extensions:      s.cfg.Compress.Extensions,
		Recursive:       s.recursive,
		Settle:          opts.settle,
		IncludeExisting: opts.existing,
		Logger:          s.logger,
	}, handler)
	if err := w.Run(ctx); err != nil {
		return err
	}
	fmt.Fprintln(s.out, "Watch stopped.")
	return nil
}
