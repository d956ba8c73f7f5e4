package preflight

import (
	"mvc/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name    string
	Passed  bool
	Warning bool
	Detail  string
}

// Batch describes the directories and input volume of an upcoming batch.
type Batch struct {
	FFmpegBinary string
	Source       string
	Dest         string
	InputBytes   int64
}

// RunBatch executes the checks for a compression batch. Free space shortfalls
// are reported as warnings; compressed outputs are usually smaller than their
// inputs.
func RunBatch(b Batch) []Result {
	results := make([]Result, 0, 4)

	ffmpeg := deps.CheckFFmpeg(b.FFmpegBinary)
	ffmpegResult := Result{Name: "FFmpeg", Passed: ffmpeg.Available, Detail: ffmpeg.Command}
	if !ffmpeg.Available {
		ffmpegResult.Detail = ffmpeg.Detail
	}
	results = append(results, ffmpegResult)

	results = append(results, CheckReadable("Source directory", b.Source))
	results = append(results, CheckDirectoryAccess("Destination directory", b.Dest))
	if b.InputBytes > 0 {
		results = append(results, CheckFreeSpace("Destination space", b.Dest, uint64(b.InputBytes)))
	}
	return results
}

// Failed returns the results that did not pass and are not warnings.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Passed && !r.Warning {
			out = append(out, r)
		}
	}
	return out
}
