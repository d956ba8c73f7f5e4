package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"mvc/internal/logging"
)

var commandContext = exec.CommandContext

// waitDelay bounds how long Run waits for stderr after the process is killed.
const waitDelay = 5 * time.Second

// Runner executes ffmpeg command lines. Stdout is discarded and stderr is
// captured for error reporting.
type Runner struct {
	logger *slog.Logger
	// Tee receives a live copy of stderr when set.
	Tee io.Writer
}

// NewRunner constructs a Runner.
func NewRunner(logger *slog.Logger) *Runner {
	return &Runner{logger: logging.NewComponentLogger(logger, "ffmpeg")}
}

// Run executes argv (binary first). A non-nil error is always an *ExitError,
// except when ctx was cancelled, in which case ctx.Err() is wrapped inside it.
func (r *Runner) Run(ctx context.Context, argv []string) error {
	if len(argv) == 0 {
		return &ExitError{ExitCode: -1, Err: errors.New("empty command")}
	}

	var stderr bytes.Buffer
	cmd := commandContext(ctx, argv[0], argv[1:]...) //nolint:gosec
	cmd.Stdout = io.Discard
	cmd.WaitDelay = waitDelay
	if r != nil && r.Tee != nil {
		cmd.Stderr = io.MultiWriter(&stderr, r.Tee)
	} else {
		cmd.Stderr = &stderr
	}

	logger := logging.WithContext(ctx, r.log())
	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)
	if err == nil {
		logger.Debug("ffmpeg finished",
			logging.String("command", strings.Join(argv, " ")),
			logging.Duration("elapsed", elapsed),
		)
		return nil
	}

	exitErr := &ExitError{
		Argv:     append([]string(nil), argv...),
		ExitCode: -1,
		Stderr:   strings.TrimSpace(stderr.String()),
		Err:      err,
	}
	var procErr *exec.ExitError
	if errors.As(err, &procErr) {
		exitErr.ExitCode = procErr.ExitCode()
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		exitErr.Err = ctxErr
	}
	exitErr.Kind = Classify(exitErr.Stderr)

	logger.Debug("ffmpeg failed",
		logging.String("command", strings.Join(argv, " ")),
		logging.Int("exit_code", exitErr.ExitCode),
		logging.String("kind", string(exitErr.Kind)),
		logging.Duration("elapsed", elapsed),
	)
	return exitErr
}

func (r *Runner) log() *slog.Logger {
	if r == nil || r.logger == nil {
		return logging.NewNop()
	}
	return r.logger
}
