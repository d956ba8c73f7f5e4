package history_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"mvc/internal/history"
	"mvc/internal/testsupport"
)

func openStore(t *testing.T) *history.Store {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store, err := history.OpenFromConfig(cfg)
	if err != nil {
		t.Fatalf("OpenFromConfig: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func beginRun(t *testing.T, store *history.Store, preset string) history.Run {
	t.Helper()
	run, err := store.BeginRun(context.Background(), history.RunMeta{
		PresetKey:  preset,
		PresetName: "Preset " + preset,
		SourceDir:  "/src",
		DestDir:    "/dst",
		Encoder:    "h264_nvenc",
		Workers:    2,
	})
	if err != nil {
		t.Fatalf("BeginRun: %v", err)
	}
	time.Sleep(2 * time.Millisecond)
	return run
}

func TestRunLifecycle(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	run := beginRun(t, store, "2")
	if run.ID == "" || run.Status != history.RunRunning {
		t.Fatalf("unexpected run: %+v", run)
	}

	started := time.Now()
	records := []history.TaskRecord{
		{Index: 1, Input: "/src/b.mp4", Output: "/dst/b.mp4", Status: "failed", Error: "Invalid data", Duration: 1500 * time.Millisecond},
		{Index: 0, Input: "/src/a.mp4", Output: "/dst/a.mp4", Status: "succeeded", StartedAt: &started, InputBytes: 100, OutputBytes: 40},
	}
	for _, rec := range records {
		if err := store.RecordTask(ctx, run.ID, rec); err != nil {
			t.Fatalf("RecordTask: %v", err)
		}
	}
	totals := history.Totals{Succeeded: 1, Failed: 1, InputBytes: 100, OutputBytes: 40}
	if err := store.FinishRun(ctx, run.ID, history.RunFailed, totals); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}

	got, err := store.GetRun(ctx, run.ShortID())
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got.ID != run.ID || got.Status != history.RunFailed || got.FinishedAt == nil {
		t.Fatalf("unexpected run: %+v", got)
	}
	if got.Totals != totals || got.RunMeta.Encoder != "h264_nvenc" || got.Workers != 2 {
		t.Fatalf("unexpected totals/meta: %+v", got)
	}
	if len(got.Tasks) != 2 || got.Tasks[0].Input != "/src/a.mp4" {
		t.Fatalf("tasks should be ordered by index: %+v", got.Tasks)
	}
	if got.Tasks[1].Error != "Invalid data" || got.Tasks[1].Duration != 1500*time.Millisecond {
		t.Fatalf("unexpected failed task: %+v", got.Tasks[1])
	}
	if got.Tasks[0].StartedAt == nil || got.Tasks[1].StartedAt != nil {
		t.Fatalf("unexpected start times: %+v %+v", got.Tasks[0].StartedAt, got.Tasks[1].StartedAt)
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	store := openStore(t)
	first := beginRun(t, store, "1")
	second := beginRun(t, store, "2")
	third := beginRun(t, store, "3")

	runs, err := store.ListRuns(context.Background(), 2)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != third.ID || runs[1].ID != second.ID {
		t.Fatalf("unexpected order: %+v", runs)
	}

	all, err := store.ListRuns(context.Background(), 0)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(all) != 3 || all[2].ID != first.ID {
		t.Fatalf("unexpected full list: %+v", all)
	}
}

func TestPruneKeepsNewestAndCascades(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	old := beginRun(t, store, "1")
	if err := store.RecordTask(ctx, old.ID, history.TaskRecord{Input: "a", Output: "b", Status: "succeeded"}); err != nil {
		t.Fatalf("RecordTask: %v", err)
	}
	keep := beginRun(t, store, "2")

	removed, err := store.Prune(ctx, 1)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if removed != 1 {
		t.Fatalf("unexpected removed count: %d", removed)
	}
	if _, err := store.GetRun(ctx, old.ID); !errors.Is(err, history.ErrRunNotFound) {
		t.Fatalf("expected pruned run to be gone, got %v", err)
	}
	if _, err := store.GetRun(ctx, keep.ID); err != nil {
		t.Fatalf("expected kept run, got %v", err)
	}

	db, err := sql.Open("sqlite", store.Path())
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	var orphans int
	if err := db.QueryRow("SELECT COUNT(1) FROM tasks WHERE run_id = ?", old.ID).Scan(&orphans); err != nil {
		t.Fatal(err)
	}
	if orphans != 0 {
		t.Fatalf("expected tasks to cascade, found %d", orphans)
	}

	if n, err := store.Prune(ctx, 0); err != nil || n != 0 {
		t.Fatalf("Prune(0) should keep everything, got %d %v", n, err)
	}
}

func TestConcurrentWritersThenPruneCascades(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	old := beginRun(t, store, "1")

	const writers = 40
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec := history.TaskRecord{Index: i, Input: fmt.Sprintf("in-%d.mp4", i), Output: fmt.Sprintf("out-%d.mp4", i), Status: "succeeded"}
			if err := store.RecordTask(ctx, old.ID, rec); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("RecordTask: %v", err)
	}

	got, err := store.GetRun(ctx, old.ID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if len(got.Tasks) != writers {
		t.Fatalf("expected %d tasks, got %d", writers, len(got.Tasks))
	}

	beginRun(t, store, "2")
	if removed, err := store.Prune(ctx, 1); err != nil || removed != 1 {
		t.Fatalf("Prune: removed=%d err=%v", removed, err)
	}

	db, err := sql.Open("sqlite", store.Path())
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	var orphans int
	if err := db.QueryRow("SELECT COUNT(1) FROM tasks").Scan(&orphans); err != nil {
		t.Fatal(err)
	}
	if orphans != 0 {
		t.Fatalf("expected every task row to cascade, found %d", orphans)
	}
}

func TestGetRunErrors(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	if _, err := store.GetRun(ctx, "nope"); !errors.Is(err, history.ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got %v", err)
	}
	if _, err := store.GetRun(ctx, ""); !errors.Is(err, history.ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound for empty id, got %v", err)
	}
	beginRun(t, store, "1")
	beginRun(t, store, "2")
	if _, err := store.GetRun(ctx, "%"); !errors.Is(err, history.ErrRunNotFound) {
		t.Fatalf("LIKE wildcards must be escaped, got %v", err)
	}
	if err := store.FinishRun(ctx, "missing", history.RunCompleted, history.Totals{}); !errors.Is(err, history.ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound from FinishRun, got %v", err)
	}
}

func TestOpenRejectsSchemaMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := history.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	store.Close()

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatal(err)
	}
	db.Close()

	if _, err := history.Open(path); !errors.Is(err, history.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}
