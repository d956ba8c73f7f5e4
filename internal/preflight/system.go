package preflight

import (
	"mvc/internal/deps"
	"mvc/internal/preset"
)

// CheckSystemDeps reports the external binaries the given presets need.
// ffprobe is listed only when a preset runs on the AV1 engine, and is optional
// because the remaining presets encode without it.
func CheckSystemDeps(ffmpegBinary string, presets []preset.Preset) []deps.Status {
	ffmpeg := deps.CheckFFmpeg(ffmpegBinary)
	requirements := []deps.Requirement{{
		Name:        ffmpeg.Name,
		Command:     ffmpeg.Command,
		Description: ffmpeg.Description,
	}}
	for _, p := range presets {
		if p.Engine != preset.EngineDrapto {
			continue
		}
		requirements = append(requirements, deps.Requirement{
			Name:        "FFprobe",
			Command:     "ffprobe",
			Description: "Used by the AV1 engine for media inspection",
			Optional:    true,
		})
		break
	}

	statuses := deps.CheckBinaries(requirements)
	if !ffmpeg.Available {
		statuses[0].Detail = ffmpeg.Detail
	}
	return statuses
}
