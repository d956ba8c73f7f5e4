package metrics_test

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"mvc/internal/batch"
	"mvc/internal/metrics"
	"mvc/internal/preset"
)

func TestCollectorRecordsOutcomes(t *testing.T) {
	c := metrics.New()
	p := preset.Preset{Key: "2"}
	ok := batch.Task{Preset: p, InputBytes: 1000}
	bad := batch.Task{Preset: p, InputBytes: 500}

	c.TaskStarted(ok)
	c.TaskStarted(bad)
	c.TaskFinished(batch.Result{Task: ok, Status: batch.StatusSucceeded, Started: time.Now(), Duration: 3 * time.Second, OutputBytes: 400})
	c.TaskFinished(batch.Result{Task: bad, Status: batch.StatusFailed, Started: time.Now(), Err: errors.New("boom")})
	c.TaskFinished(batch.Result{Task: batch.Task{Preset: p}, Status: batch.StatusCancelled})

	expected := `
# HELP mvc_tasks_total Compression tasks by preset and terminal status
# TYPE mvc_tasks_total counter
mvc_tasks_total{preset="2",status="cancelled"} 1
mvc_tasks_total{preset="2",status="failed"} 1
mvc_tasks_total{preset="2",status="succeeded"} 1
# HELP mvc_active_encodes Encodes currently running
# TYPE mvc_active_encodes gauge
mvc_active_encodes 0
# HELP mvc_bytes_in_total Input bytes of successfully compressed files
# TYPE mvc_bytes_in_total counter
mvc_bytes_in_total 1000
# HELP mvc_bytes_out_total Output bytes written by successful encodes
# TYPE mvc_bytes_out_total counter
mvc_bytes_out_total 400
`
	if err := testutil.GatherAndCompare(c.Registry(), strings.NewReader(expected),
		"mvc_tasks_total", "mvc_active_encodes", "mvc_bytes_in_total", "mvc_bytes_out_total"); err != nil {
		t.Fatal(err)
	}
	count, err := testutil.GatherAndCount(c.Registry(), "mvc_encode_seconds")
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Fatalf("expected one histogram series, got %d", count)
	}
}

func TestHandlerServesExposition(t *testing.T) {
	c := metrics.New()
	c.TaskStarted(batch.Task{Preset: preset.Preset{Key: "1"}})

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "mvc_active_encodes 1") {
		t.Fatalf("unexpected exposition:\n%s", body)
	}
}
