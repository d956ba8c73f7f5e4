package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"time"

	"mvc/internal/batch"
	"mvc/internal/config"
	"mvc/internal/ffmpeg"
	"mvc/internal/history"
	"mvc/internal/hwaccel"
	"mvc/internal/logging"
	"mvc/internal/preset"
	"mvc/internal/services"
	"mvc/internal/services/drapto"
)

// batchFlags are the options shared by compress and watch.
type batchFlags struct {
	preset      string
	source      string
	dest        string
	workers     int
	recursive   bool
	noGPU       bool
	noOverwrite bool
}

// session holds everything resolved before a batch starts.
type session struct {
	cfg    *config.Config
	logger *slog.Logger
	out    io.Writer
	colors palette

	preset    preset.Preset
	ffmpeg    string
	encoder   string
	source    string
	dest      string
	workers   int
	recursive bool
	overwrite bool
	useGPU    bool

	store *history.Store
}

func newSession(cfg *config.Config, logger *slog.Logger, out io.Writer, flags batchFlags) *session {
	workers := flags.workers
	if workers == 0 {
		workers = cfg.Compress.Workers
	}
	return &session{
		cfg:       cfg,
		logger:    logger,
		out:       out,
		colors:    newPalette(shouldColorize(out)),
		workers:   batch.ResolveWorkers(workers, runtime.NumCPU()),
		recursive: flags.recursive || cfg.Compress.Recursive,
		overwrite: cfg.Compress.Overwrite && !flags.noOverwrite,
		useGPU:    cfg.Compress.UseGPU && !flags.noGPU,
	}
}

// detectEncoder probes for a hardware encoder when the preset asks for one.
func (s *session) detectEncoder(ctx context.Context) error {
	s.encoder = ""
	if !s.preset.UseGPU || len(s.preset.GPUFlags) == 0 {
		return nil
	}
	if !s.useGPU {
		fmt.Fprintln(s.out, s.colors.muted.Sprint("GPU disabled. Using CPU encoding."))
		return nil
	}
	fmt.Fprintln(s.out, "  ⚙ Analyzing Hardware...")
	prober := hwaccel.NewProber(s.ffmpeg,
		hwaccel.WithTimeout(time.Duration(s.cfg.FFmpeg.ProbeTimeoutSeconds)*time.Second),
		hwaccel.WithTestPattern(s.cfg.FFmpeg.ProbeSize, s.cfg.FFmpeg.ProbeRate),
		hwaccel.WithLogger(s.logger),
	)
	s.encoder = prober.Detect(ctx, s.preset.Codec, s.preset.SupportedEncoders())
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.encoder != "" {
		fmt.Fprintln(s.out, s.colors.ok.Sprintf("✔ GPU Accelerated: Using %s", s.encoder))
	} else {
		fmt.Fprintln(s.out, s.colors.warn.Sprint("⚠ GPU requested but not found. Falling back to CPU."))
	}
	return nil
}

// openHistory opens the run history store. Failures only cost history, so
// they are logged and the batch continues.
func (s *session) openHistory() {
	if !s.cfg.History.Enabled {
		return
	}
	store, err := history.OpenFromConfig(s.cfg)
	if err != nil {
		logging.WarnWithContext(s.logger, "run history unavailable", "history_open_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "this run will not appear in mvc history"),
		)
		return
	}
	s.store = store
}

func (s *session) close() {
	if s.store != nil {
		_ = s.store.Close()
		s.store = nil
	}
}

func (s *session) router(reporter *consoleReporter) batch.Router {
	return batch.Router{
		preset.EngineFFmpeg: batch.FFmpegEncoder{
			Binary:    s.ffmpeg,
			Runner:    ffmpeg.NewRunner(s.logger),
			Overwrite: s.overwrite,
		},
		preset.EngineDrapto: batch.EngineEncoder{
			Name:   "drapto",
			Engine: drapto.NewEngine(s.logger, drapto.WithProgress(reporter.draptoProgress)),
		},
	}
}

// run executes tasks, recording them in history when the store is open.
func (s *session) run(ctx context.Context, tasks []batch.Task, reporter *consoleReporter, extra ...batch.Observer) batch.Summary {
	observers := batch.Observers{reporter}
	ctx = services.WithPreset(ctx, s.preset.Key)

	var recorder *history.Recorder
	if s.store != nil {
		run, err := s.store.BeginRun(ctx, history.RunMeta{
			PresetKey:  s.preset.Key,
			PresetName: s.preset.Name,
			SourceDir:  s.source,
			DestDir:    s.dest,
			Encoder:    s.encoderLabel(),
			Workers:    s.workers,
		})
		if err != nil {
			logging.WarnWithContext(s.logger, "failed to start history run", "history_write_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "this run will not appear in mvc history"),
			)
		} else {
			recorder = history.NewRecorder(s.store, run.ID, s.logger)
			observers = append(observers, recorder)
			ctx = services.WithRunID(ctx, run.ID)
		}
	}
	observers = append(observers, extra...)

	runner := &batch.Runner{
		Workers:   s.workers,
		Encoder:   s.router(reporter),
		Observer:  observers,
		Overwrite: s.overwrite,
		Logger:    s.logger,
	}
	summary := runner.Run(ctx, tasks)
	reporter.finish()

	if recorder != nil {
		finishCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := recorder.Finish(finishCtx, summary); err != nil {
			logging.WarnWithContext(s.logger, "failed to finish history run", "history_write_failed", logging.Error(err))
		}
		if keep := s.cfg.History.KeepRuns; keep > 0 {
			if _, err := s.store.Prune(finishCtx, keep); err != nil {
				s.logger.Debug("history prune failed", logging.Error(err))
			}
		}
	}
	return summary
}

func (s *session) encoderLabel() string {
	if s.encoder != "" {
		return s.encoder
	}
	if s.preset.Engine == preset.EngineDrapto {
		return "drapto"
	}
	return "cpu"
}
