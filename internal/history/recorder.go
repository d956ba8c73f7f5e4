package history

import (
	"context"
	"log/slog"
	"sync"

	"mvc/internal/batch"
	"mvc/internal/logging"
)

// Recorder is a batch.Observer that writes every finished task to the store.
// Write failures are logged and never interrupt the batch.
type Recorder struct {
	store  *Store
	runID  string
	logger *slog.Logger

	mu     sync.Mutex
	failed bool
}

// NewRecorder binds a recorder to a run started with BeginRun.
func NewRecorder(store *Store, runID string, logger *slog.Logger) *Recorder {
	return &Recorder{
		store:  store,
		runID:  runID,
		logger: logging.NewComponentLogger(logger, "history").With(logging.String(logging.FieldRunID, runID)),
	}
}

func (r *Recorder) TaskStarted(batch.Task) {}

func (r *Recorder) TaskFinished(result batch.Result) {
	rec := TaskRecord{
		Index:       result.Task.Index,
		Input:       result.Task.Input,
		Output:      result.Task.Output,
		Status:      string(result.Status),
		Encoder:     result.Task.Encoder,
		Duration:    result.Duration,
		InputBytes:  result.Task.InputBytes,
		OutputBytes: result.OutputBytes,
	}
	if !result.Started.IsZero() {
		started := result.Started
		rec.StartedAt = &started
	}
	if result.Status == batch.StatusFailed {
		rec.Error = batch.Message(result.Err)
	}
	// Cancelled batches still record their tail; the parent context is gone.
	if err := r.store.RecordTask(context.Background(), r.runID, rec); err != nil {
		r.mu.Lock()
		first := !r.failed
		r.failed = true
		r.mu.Unlock()
		if first {
			logging.WarnWithContext(r.logger, "failed to record task history", "history_write_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "run history will be incomplete"),
			)
		}
	}
}

// Finish stores the batch summary and final status.
func (r *Recorder) Finish(ctx context.Context, summary batch.Summary) error {
	return r.store.FinishRun(ctx, r.runID, StatusFromSummary(summary), TotalsFromSummary(summary))
}

// StatusFromSummary derives the run status from a batch summary.
func StatusFromSummary(summary batch.Summary) RunStatus {
	switch {
	case summary.Cancelled > 0:
		return RunCancelled
	case summary.Failed > 0:
		return RunFailed
	default:
		return RunCompleted
	}
}

// TotalsFromSummary converts a batch summary into stored totals.
func TotalsFromSummary(summary batch.Summary) Totals {
	return Totals{
		Succeeded:   summary.Succeeded,
		Failed:      summary.Failed,
		Skipped:     summary.Skipped,
		Cancelled:   summary.Cancelled,
		InputBytes:  summary.InputBytes,
		OutputBytes: summary.OutputBytes,
	}
}
