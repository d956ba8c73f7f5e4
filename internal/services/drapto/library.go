package drapto

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	draptolib "github.com/five82/drapto"

	"mvc/internal/logging"
	"mvc/internal/services"
)

// encodeFunc runs one drapto encode of input into outputDir.
type encodeFunc func(ctx context.Context, input, outputDir string, rep draptolib.Reporter) error

// Progress is a percent-complete update for one file.
type Progress struct {
	Input   string
	Percent float64
	Stage   string
}

// Option configures an Engine.
type Option func(*Engine)

// WithProgress registers a callback for progress updates.
func WithProgress(fn func(Progress)) Option {
	return func(e *Engine) { e.progress = fn }
}

// Engine encodes files with the Drapto library.
type Engine struct {
	logger   *slog.Logger
	progress func(Progress)
	encode   encodeFunc
}

// NewEngine constructs an Engine.
func NewEngine(logger *slog.Logger, opts ...Option) *Engine {
	e := &Engine{
		logger: logging.NewComponentLogger(logger, "drapto"),
		encode: libraryEncode,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func libraryEncode(ctx context.Context, input, outputDir string, rep draptolib.Reporter) error {
	encoder, err := draptolib.New(draptolib.WithResponsive())
	if err != nil {
		return err
	}
	_, err = encoder.EncodeWithReporter(ctx, input, outputDir, rep)
	return err
}

// EncodeFile encodes input into output. Drapto always writes
// <outputDir>/<input stem>.mkv, so it runs inside a scratch directory next to
// output and the result is moved into place once the encode succeeds.
func (e *Engine) EncodeFile(ctx context.Context, input, output string) error {
	if strings.TrimSpace(input) == "" {
		return errors.New("input path required")
	}
	if strings.TrimSpace(output) == "" {
		return errors.New("output path required")
	}

	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	scratch, err := os.MkdirTemp(filepath.Dir(output), ".drapto-")
	if err != nil {
		return fmt.Errorf("create scratch directory: %w", err)
	}
	defer os.RemoveAll(scratch)

	logger := logging.WithContext(services.WithInput(ctx, input), e.logger)
	rep := newLogReporter(logger, input, e.progress)
	if err := e.encode(ctx, input, scratch, rep); err != nil {
		if rep.lastError != "" {
			return fmt.Errorf("%s: %w", rep.lastError, err)
		}
		return err
	}

	if err := os.Rename(ProducedPath(input, scratch), output); err != nil {
		return fmt.Errorf("move drapto output: %w", err)
	}
	return nil
}

// ProducedPath returns the path drapto writes for input inside outputDir.
func ProducedPath(input, outputDir string) string {
	base := filepath.Base(input)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		stem = base
	}
	return filepath.Join(outputDir, stem+".mkv")
}
