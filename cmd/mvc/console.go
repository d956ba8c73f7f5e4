package main

import (
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"

	"mvc/internal/batch"
	"mvc/internal/services/drapto"
)

// consoleReporter prints per-file lifecycle lines and drives the optional
// progress bar. It satisfies batch.Observer.
type consoleReporter struct {
	mu     sync.Mutex
	out    io.Writer
	colors palette
	bar    *progressbar.ProgressBar
}

func newConsoleReporter(out io.Writer, total int, showBar bool, colors palette) *consoleReporter {
	r := &consoleReporter{out: out, colors: colors}
	if showBar && total > 0 {
		r.bar = progressbar.NewOptions(total,
			progressbar.OptionSetWriter(out),
			progressbar.OptionSetDescription("Compressing"),
			progressbar.OptionSetItsString("file"),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetElapsedTime(true),
			progressbar.OptionSetPredictTime(true),
			progressbar.OptionThrottle(500*time.Millisecond),
			progressbar.OptionClearOnFinish(),
		)
	}
	return r
}

func (r *consoleReporter) TaskStarted(task batch.Task) {
	r.println(r.colors.info.Sprintf("▶ STARTING: %s", task.Name()))
}

func (r *consoleReporter) TaskFinished(result batch.Result) {
	name := result.Task.Name()
	switch result.Status {
	case batch.StatusSucceeded:
		r.println(r.colors.ok.Sprintf("✔ COMPLETED: %s", name))
	case batch.StatusFailed:
		r.println(r.colors.err.Sprintf("✘ FAILED: %s -> %s", name, batch.Message(result.Err)))
	case batch.StatusSkipped:
		r.println(r.colors.muted.Sprintf("↷ SKIPPED: %s (output exists)", name))
	}
	if r.bar != nil {
		r.mu.Lock()
		_ = r.bar.Add(1)
		r.mu.Unlock()
	}
}

// draptoProgress shows encode progress for drapto presets on the bar label.
func (r *consoleReporter) draptoProgress(p drapto.Progress) {
	if r.bar == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bar.Describe(fmt.Sprintf("Compressing %s (%s %.0f%%)", filepath.Base(p.Input), p.Stage, p.Percent))
}

func (r *consoleReporter) finish() {
	if r.bar == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_ = r.bar.Finish()
}

func (r *consoleReporter) println(line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.bar != nil {
		_ = r.bar.Clear()
	}
	fmt.Fprintln(r.out, line)
	if r.bar != nil {
		_ = r.bar.RenderBlank()
	}
}
