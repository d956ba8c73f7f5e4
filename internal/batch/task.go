package batch

import (
	"path/filepath"
	"time"

	"mvc/internal/preset"
)

// Status is the terminal state of a task.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped"
	StatusCancelled Status = "cancelled"
)

// Task is one input file to compress.
type Task struct {
	Index  int
	Input  string
	Output string
	Preset preset.Preset
	// Encoder is the hardware encoder to use, or "" for the CPU path.
	Encoder    string
	InputBytes int64
}

// Name returns the base name of the input for display.
func (t Task) Name() string {
	return filepath.Base(t.Input)
}

// Result records how a task ended.
type Result struct {
	Task        Task
	Status      Status
	Err         error
	Started     time.Time
	Duration    time.Duration
	OutputBytes int64
}

// Summary aggregates the results of a batch.
type Summary struct {
	Results     []Result
	Succeeded   int
	Failed      int
	Skipped     int
	Cancelled   int
	Duration    time.Duration
	InputBytes  int64
	OutputBytes int64
}

// HasFailures reports whether any task failed.
func (s Summary) HasFailures() bool { return s.Failed > 0 }

// Failures returns the failed results in task order.
func (s Summary) Failures() []Result {
	var out []Result
	for _, r := range s.Results {
		if r.Status == StatusFailed {
			out = append(out, r)
		}
	}
	return out
}

// Ratio returns output bytes over input bytes for succeeded tasks, or 0 when
// nothing succeeded.
func (s Summary) Ratio() float64 {
	if s.InputBytes <= 0 {
		return 0
	}
	return float64(s.OutputBytes) / float64(s.InputBytes)
}

func summarize(results []Result, elapsed time.Duration) Summary {
	summary := Summary{Results: results, Duration: elapsed}
	for _, r := range results {
		switch r.Status {
		case StatusSucceeded:
			summary.Succeeded++
			summary.InputBytes += r.Task.InputBytes
			summary.OutputBytes += r.OutputBytes
		case StatusFailed:
			summary.Failed++
		case StatusSkipped:
			summary.Skipped++
		case StatusCancelled:
			summary.Cancelled++
		}
	}
	return summary
}
