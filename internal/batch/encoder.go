package batch

import (
	"context"
	"errors"
	"fmt"

	"mvc/internal/ffmpeg"
	"mvc/internal/preset"
	"mvc/internal/services"
)

// Encoder compresses one task's input into its output.
type Encoder interface {
	Encode(ctx context.Context, task Task) error
}

// EncoderFunc adapts a function to Encoder.
type EncoderFunc func(ctx context.Context, task Task) error

func (f EncoderFunc) Encode(ctx context.Context, task Task) error { return f(ctx, task) }

// CommandRunner executes an argv, binary first.
type CommandRunner interface {
	Run(ctx context.Context, argv []string) error
}

// FFmpegEncoder runs presets through the ffmpeg binary.
type FFmpegEncoder struct {
	Binary    string
	Runner    CommandRunner
	Overwrite bool
}

func (e FFmpegEncoder) Encode(ctx context.Context, task Task) error {
	argv := ffmpeg.Build(e.Binary, task.Input, task.Output, task.Preset, task.Encoder, ffmpeg.WithOverwrite(e.Overwrite))
	if err := e.Runner.Run(ctx, argv); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return services.Wrap(services.ErrExternalTool, "encode", "ffmpeg", task.Name(), err)
	}
	return nil
}

// FileEncoder encodes a single file to an explicit output path.
type FileEncoder interface {
	EncodeFile(ctx context.Context, input, output string) error
}

// EngineEncoder adapts a FileEncoder, such as the drapto engine, to Encoder.
type EngineEncoder struct {
	Name   string
	Engine FileEncoder
}

func (e EngineEncoder) Encode(ctx context.Context, task Task) error {
	if err := e.Engine.EncodeFile(ctx, task.Input, task.Output); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return services.Wrap(services.ErrExternalTool, "encode", e.Name, task.Name(), err)
	}
	return nil
}

// Router dispatches tasks to the encoder registered for their preset engine.
type Router map[preset.Engine]Encoder

func (r Router) Encode(ctx context.Context, task Task) error {
	enc, ok := r[task.Preset.Engine]
	if !ok || enc == nil {
		return services.Wrap(services.ErrConfiguration, "encode", string(task.Preset.Engine), "no encoder registered for engine", nil)
	}
	return enc.Encode(ctx, task)
}

// Message returns the user-facing failure text for a result error: ffmpeg's
// stderr when available, else the error text.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var exitErr *ffmpeg.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Error()
	}
	if errors.Is(err, context.Canceled) {
		return "cancelled"
	}
	return fmt.Sprint(err)
}
