package batch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"mvc/internal/logging"
	"mvc/internal/services"
)

// Runner executes tasks on a bounded pool of workers.
type Runner struct {
	Workers   int
	Encoder   Encoder
	Observer  Observer
	Overwrite bool
	Logger    *slog.Logger
}

// Run executes every task and returns once all have finished or been
// cancelled. Cancelling ctx stops in-flight encodes and marks tasks that never
// started as cancelled.
func (r *Runner) Run(ctx context.Context, tasks []Task) Summary {
	start := time.Now()
	results := make([]Result, len(tasks))
	if len(tasks) == 0 {
		return summarize(results, time.Since(start))
	}

	logger := logging.NewComponentLogger(r.Logger, "batch")
	observer := r.Observer
	if observer == nil {
		observer = nopObserver{}
	}

	workers := min(max(r.Workers, 1), len(tasks))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = r.runTask(ctx, logger, observer, tasks[idx])
			}
		}()
	}

	dispatched := 0
feed:
	for dispatched < len(tasks) {
		select {
		case jobs <- dispatched:
			dispatched++
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	for i := dispatched; i < len(tasks); i++ {
		results[i] = Result{Task: tasks[i], Status: StatusCancelled, Err: ctx.Err()}
		observer.TaskFinished(results[i])
	}

	summary := summarize(results, time.Since(start))
	logger.Info("batch finished",
		logging.Int("succeeded", summary.Succeeded),
		logging.Int("failed", summary.Failed),
		logging.Int("skipped", summary.Skipped),
		logging.Int("cancelled", summary.Cancelled),
		logging.Duration("elapsed", summary.Duration),
	)
	return summary
}

func (r *Runner) runTask(ctx context.Context, logger *slog.Logger, observer Observer, task Task) Result {
	result := Result{Task: task}
	taskCtx := services.WithInput(ctx, task.Input)
	taskLogger := logging.WithContext(taskCtx, logger).With(
		logging.String(logging.FieldOutput, task.Output),
	)

	if err := ctx.Err(); err != nil {
		result.Status = StatusCancelled
		result.Err = err
		observer.TaskFinished(result)
		return result
	}

	if fileExists(task.Output) && !r.Overwrite {
		result.Status = StatusSkipped
		taskLogger.Info("output exists, skipping")
		observer.TaskFinished(result)
		return result
	}

	result.Started = time.Now()
	observer.TaskStarted(task)
	taskLogger.Info("task started", logging.String(logging.FieldEncoder, encoderLabel(task)))

	staged := task
	staged.Output = partialPath(task.Output)
	_ = os.Remove(staged.Output)
	err := os.MkdirAll(filepath.Dir(task.Output), 0o755)
	if err == nil {
		err = r.Encoder.Encode(taskCtx, staged)
	}
	if err == nil {
		if err = os.Rename(staged.Output, task.Output); err != nil {
			err = fmt.Errorf("finalize output: %w", err)
		}
	}
	result.Duration = time.Since(result.Started)

	switch {
	case err == nil:
		result.Status = StatusSucceeded
		if info, statErr := os.Stat(task.Output); statErr == nil {
			result.OutputBytes = info.Size()
		}
		taskLogger.Info("task succeeded",
			logging.Duration("elapsed", result.Duration),
			logging.Int64("output_bytes", result.OutputBytes),
		)
	case ctx.Err() != nil:
		result.Status = StatusCancelled
		result.Err = ctx.Err()
		_ = os.Remove(staged.Output)
		taskLogger.Warn("task cancelled", logging.Duration("elapsed", result.Duration))
	default:
		result.Status = StatusFailed
		result.Err = err
		_ = os.Remove(staged.Output)
		logging.ErrorWithContext(taskLogger, "task failed", "task_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, services.Hint(err)),
		)
	}

	observer.TaskFinished(result)
	return result
}

func encoderLabel(task Task) string {
	if task.Encoder != "" {
		return task.Encoder
	}
	return "cpu"
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// partialPath names the hidden sibling an encode writes to before it is
// renamed over the final output. The extension is kept so the muxer can infer
// the container.
func partialPath(output string) string {
	dir, base := filepath.Split(output)
	ext := filepath.Ext(base)
	return filepath.Join(dir, "."+strings.TrimSuffix(base, ext)+".partial"+ext)
}
