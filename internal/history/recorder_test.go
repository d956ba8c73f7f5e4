package history_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"mvc/internal/batch"
	"mvc/internal/ffmpeg"
	"mvc/internal/history"
	"mvc/internal/logging"
)

func TestRecorderStoresBatchResults(t *testing.T) {
	store := openStore(t)
	run := beginRun(t, store, "3")
	recorder := history.NewRecorder(store, run.ID, logging.NewNop())

	ok := batch.Result{
		Task:        batch.Task{Index: 0, Input: "/src/a.mp4", Output: "/dst/a.mp4", InputBytes: 500},
		Status:      batch.StatusSucceeded,
		Started:     time.Now(),
		Duration:    time.Second,
		OutputBytes: 200,
	}
	failed := batch.Result{
		Task:   batch.Task{Index: 1, Input: "/src/b.mp4", Output: "/dst/b.mp4"},
		Status: batch.StatusFailed,
		Err:    &ffmpeg.ExitError{ExitCode: 1, Stderr: "moov atom not found", Err: errors.New("exit status 1")},
	}
	recorder.TaskStarted(ok.Task)
	recorder.TaskFinished(ok)
	recorder.TaskFinished(failed)

	summary := batch.Summary{Results: []batch.Result{ok, failed}, Succeeded: 1, Failed: 1, InputBytes: 500, OutputBytes: 200}
	if err := recorder.Finish(context.Background(), summary); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	got, err := store.GetRun(context.Background(), run.ID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got.Status != history.RunFailed || got.Succeeded != 1 || got.OutputBytes != 200 {
		t.Fatalf("unexpected run: %+v", got)
	}
	if len(got.Tasks) != 2 || got.Tasks[1].Error != "moov atom not found" {
		t.Fatalf("unexpected tasks: %+v", got.Tasks)
	}
}

func TestStatusFromSummary(t *testing.T) {
	cases := []struct {
		summary batch.Summary
		want    history.RunStatus
	}{
		{batch.Summary{Succeeded: 3}, history.RunCompleted},
		{batch.Summary{Succeeded: 1, Failed: 1}, history.RunFailed},
		{batch.Summary{Failed: 1, Cancelled: 2}, history.RunCancelled},
	}
	for _, tc := range cases {
		if got := history.StatusFromSummary(tc.summary); got != tc.want {
			t.Fatalf("StatusFromSummary(%+v) = %q want %q", tc.summary, got, tc.want)
		}
	}
}
