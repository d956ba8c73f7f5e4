package drapto

import (
	"log/slog"
	"strings"

	draptolib "github.com/five82/drapto"

	"mvc/internal/logging"
)

// progressBucket is the percent step between logged encoding progress lines.
const progressBucket = 10

// logReporter adapts the Drapto Reporter interface to structured logs.
type logReporter struct {
	logger     *slog.Logger
	input      string
	progress   func(Progress)
	lastBucket int
	lastError  string
}

func newLogReporter(logger *slog.Logger, input string, progress func(Progress)) *logReporter {
	return &logReporter{logger: logger, input: input, progress: progress, lastBucket: -1}
}

func (r *logReporter) Hardware(s draptolib.HardwareSummary) {
	r.logger.Debug("drapto hardware", logging.Any("hostname", s.Hostname))
}

func (r *logReporter) Initialization(s draptolib.InitializationSummary) {
	r.logger.Info("drapto initialized",
		logging.Any("resolution", s.Resolution),
		logging.Any("duration", s.Duration),
		logging.Any("category", s.Category),
		logging.Any("dynamic_range", s.DynamicRange),
		logging.Any("audio", s.AudioDescription),
	)
}

func (r *logReporter) StageProgress(s draptolib.StageProgress) {
	r.logger.Debug("drapto stage",
		logging.Any("stage", s.Stage),
		logging.Any("percent", s.Percent),
		logging.Any("message", s.Message),
	)
	r.emit(float64(s.Percent), s.Stage)
}

func (r *logReporter) CropResult(s draptolib.CropSummary) {
	r.logger.Info("drapto crop detection",
		logging.Any("crop", s.Crop),
		logging.Any("required", s.Required),
		logging.Any("disabled", s.Disabled),
		logging.Any("message", s.Message),
	)
}

func (r *logReporter) EncodingConfig(s draptolib.EncodingConfigSummary) {
	r.logger.Info("drapto encoding config",
		logging.Any(logging.FieldEncoder, s.Encoder),
		logging.Any("preset", s.Preset),
		logging.Any("quality", s.Quality),
		logging.Any("pixel_format", s.PixelFormat),
		logging.Any("audio_codec", s.AudioCodec),
	)
}

func (r *logReporter) EncodingStarted(totalFrames uint64) {
	r.logger.Info("drapto encoding started", logging.Any("total_frames", totalFrames))
}

func (r *logReporter) EncodingProgress(s draptolib.ProgressSnapshot) {
	percent := float64(s.Percent)
	if bucket := int(percent) / progressBucket; bucket > r.lastBucket {
		r.lastBucket = bucket
		r.logger.Info("drapto encoding progress",
			logging.Any("percent", s.Percent),
			logging.Any("speed", s.Speed),
			logging.Any("fps", s.FPS),
			logging.Any("eta", s.ETA),
		)
	}
	r.emit(percent, "encoding")
}

func (r *logReporter) ValidationComplete(s draptolib.ValidationSummary) {
	attrs := []logging.Attr{logging.Any("passed", s.Passed)}
	for _, step := range s.Steps {
		if !step.Passed {
			attrs = append(attrs, logging.Any("failed_step", step.Name), logging.Any("details", step.Details))
		}
	}
	r.logger.Info("drapto validation complete", logging.Args(attrs...)...)
}

func (r *logReporter) EncodingComplete(s draptolib.EncodingOutcome) {
	r.logger.Info("drapto encoding complete",
		logging.Any("original_size", s.OriginalSize),
		logging.Any("encoded_size", s.EncodedSize),
		logging.Any("average_speed", s.AverageSpeed),
		logging.Any("elapsed", s.TotalTime),
	)
	r.emit(100, "complete")
}

func (r *logReporter) Warning(message string) {
	logging.WarnWithContext(r.logger, strings.TrimSpace(message), "drapto_warning")
}

func (r *logReporter) Error(e draptolib.ReporterError) {
	r.lastError = strings.TrimSpace(e.Title + ": " + e.Message)
	logging.ErrorWithContext(r.logger, "drapto error", "drapto_error",
		logging.Any("title", e.Title),
		logging.Any("message", e.Message),
		logging.Any("context", e.Context),
		logging.String(logging.FieldErrorHint, strings.TrimSpace(e.Suggestion)),
	)
}

func (r *logReporter) OperationComplete(message string) {
	r.logger.Debug("drapto operation complete", logging.String("message", message))
}

func (r *logReporter) BatchStarted(s draptolib.BatchStartInfo) {
	r.logger.Debug("drapto batch started", logging.Any("files", s.TotalFiles))
}

func (r *logReporter) FileProgress(s draptolib.FileProgressContext) {
	r.logger.Debug("drapto file progress", logging.Any("current", s.CurrentFile), logging.Any("total", s.TotalFiles))
}

func (r *logReporter) BatchComplete(s draptolib.BatchSummary) {
	r.logger.Debug("drapto batch complete", logging.Any("successful", s.SuccessfulCount), logging.Any("total", s.TotalFiles))
}

func (r *logReporter) emit(percent float64, stage string) {
	if r.progress == nil {
		return
	}
	r.progress(Progress{Input: r.input, Percent: percent, Stage: stage})
}

var _ draptolib.Reporter = (*logReporter)(nil)
