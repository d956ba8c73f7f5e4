package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/text/cases"

	"mvc/internal/logging"
)

// Handler receives a group of settled files. Calls are sequential; the next
// group waits until the handler returns.
type Handler func(ctx context.Context, paths []string)

// Options configures a Watcher.
type Options struct {
	Extensions []string
	Recursive  bool
	// Settle is how long a file's size must stay unchanged before it is handed off.
	Settle time.Duration
	// IncludeExisting queues files already present when the watcher starts.
	IncludeExisting bool
	Logger          *slog.Logger
}

type pendingFile struct {
	size    int64
	changed time.Time
}

// Watcher tracks candidate files under one directory.
type Watcher struct {
	dir     string
	opts    Options
	handler Handler
	logger  *slog.Logger
	folder  cases.Caser
	exts    map[string]struct{}

	pending   map[string]pendingFile
	processed map[string]struct{}
}

// New constructs a Watcher for dir.
func New(dir string, opts Options, handler Handler) *Watcher {
	if opts.Settle <= 0 {
		opts.Settle = 5 * time.Second
	}
	folder := cases.Fold()
	exts := make(map[string]struct{}, len(opts.Extensions))
	for _, ext := range opts.Extensions {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts[folder.String(ext)] = struct{}{}
	}
	return &Watcher{
		dir:       dir,
		opts:      opts,
		handler:   handler,
		logger:    logging.NewComponentLogger(opts.Logger, "watch"),
		folder:    folder,
		exts:      exts,
		pending:   make(map[string]pendingFile),
		processed: make(map[string]struct{}),
	}
}

// Run watches until ctx is cancelled. It returns nil on cancellation and an
// error when the watch cannot be established.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	if err := w.addTree(fsw, w.dir, w.opts.IncludeExisting); err != nil {
		return err
	}
	w.logger.Info("watching for new videos",
		logging.String("dir", w.dir),
		logging.Duration("settle", w.opts.Settle),
		logging.Bool("recursive", w.opts.Recursive),
	)

	ready := make(chan []string, 16)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for paths := range ready {
			if ctx.Err() != nil {
				continue
			}
			w.handler(ctx, paths)
		}
	}()
	defer func() {
		close(ready)
		wg.Wait()
	}()

	tick := time.NewTicker(max(w.opts.Settle/4, 50*time.Millisecond))
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watch stopped")
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(fsw, event)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				logging.WarnWithContext(w.logger, "watch event overflow, rescanning", "watch_overflow",
					logging.String(logging.FieldImpact, "some files may be picked up late"))
				_ = w.addTree(fsw, w.dir, true)
				continue
			}
			logging.WarnWithContext(w.logger, "watch error", "watch_error", logging.Error(err))
		case now := <-tick.C:
			if settled := w.collectSettled(now); len(settled) > 0 {
				select {
				case ready <- settled:
				case <-ctx.Done():
					return nil
				}
			}
		}
	}
}

func (w *Watcher) handleEvent(fsw *fsnotify.Watcher, event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}
	info, err := os.Stat(event.Name)
	if err != nil {
		return
	}
	if info.IsDir() {
		if w.opts.Recursive && !hidden(event.Name) {
			_ = w.addTree(fsw, event.Name, true)
		}
		return
	}
	w.track(event.Name, info.Size())
}

func (w *Watcher) track(path string, size int64) {
	if !w.matches(path) {
		return
	}
	if _, done := w.processed[path]; done {
		return
	}
	prev, seen := w.pending[path]
	if !seen || prev.size != size {
		w.pending[path] = pendingFile{size: size, changed: time.Now()}
		if !seen {
			w.logger.Debug("new file detected", logging.String(logging.FieldInput, path))
		}
	}
}

// collectSettled returns pending files whose size has not changed for the
// settle window and marks them processed.
func (w *Watcher) collectSettled(now time.Time) []string {
	var settled []string
	for path, p := range w.pending {
		info, err := os.Stat(path)
		if err != nil {
			delete(w.pending, path)
			continue
		}
		if info.Size() != p.size {
			w.pending[path] = pendingFile{size: info.Size(), changed: now}
			continue
		}
		if now.Sub(p.changed) < w.opts.Settle {
			continue
		}
		delete(w.pending, path)
		w.processed[path] = struct{}{}
		settled = append(settled, path)
	}
	sort.Strings(settled)
	return settled
}

func (w *Watcher) addTree(fsw *fsnotify.Watcher, root string, trackFiles bool) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return fmt.Errorf("watch %s: %w", root, err)
			}
			return nil
		}
		if path != root && hidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != root && !w.opts.Recursive {
				return filepath.SkipDir
			}
			if err := fsw.Add(path); err != nil {
				return fmt.Errorf("watch %s: %w", path, err)
			}
			return nil
		}
		if trackFiles {
			if info, infoErr := d.Info(); infoErr == nil {
				w.track(path, info.Size())
			}
		}
		return nil
	})
}

func (w *Watcher) matches(path string) bool {
	if hidden(path) {
		return false
	}
	_, ok := w.exts[w.folder.String(filepath.Ext(path))]
	return ok
}

func hidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
