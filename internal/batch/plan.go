package batch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mvc/internal/preset"
)

// ErrOutputIsInput is returned when a planned output would replace its input.
var ErrOutputIsInput = errors.New("output path equals input path")

// ValidateDirs rejects directory layouts that would make a batch consume its
// own outputs.
func ValidateDirs(source, dest string, recursive bool) error {
	src, err := filepath.Abs(source)
	if err != nil {
		return fmt.Errorf("resolve source: %w", err)
	}
	dst, err := filepath.Abs(dest)
	if err != nil {
		return fmt.Errorf("resolve destination: %w", err)
	}
	if recursive && src != dst {
		if rel, relErr := filepath.Rel(src, dst); relErr == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return fmt.Errorf("destination %s is inside source %s; recursive scans would pick up outputs", dst, src)
		}
	}
	return nil
}

// Plan creates one task per file. Each output mirrors the file's path relative
// to source under dest. Presets that force an extension (drapto writes .mkv)
// rename the output accordingly. gpuEncoder is attached only to presets that
// use the GPU.
func Plan(files []string, source, dest string, p preset.Preset, gpuEncoder string) ([]Task, error) {
	if !p.UseGPU {
		gpuEncoder = ""
	}
	seen := make(map[string]string, len(files))
	tasks := make([]Task, 0, len(files))
	for i, file := range files {
		rel, err := filepath.Rel(source, file)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			rel = filepath.Base(file)
		}
		output := filepath.Join(dest, rel)
		if ext := p.OutputExtension(); ext != "" {
			output = strings.TrimSuffix(output, filepath.Ext(output)) + ext
		}

		inAbs, _ := filepath.Abs(file)
		outAbs, _ := filepath.Abs(output)
		if inAbs == outAbs {
			return nil, fmt.Errorf("%w: %s", ErrOutputIsInput, file)
		}
		if prev, dup := seen[outAbs]; dup {
			return nil, fmt.Errorf("inputs %s and %s map to the same output %s", prev, file, output)
		}
		seen[outAbs] = file

		task := Task{
			Index:   i,
			Input:   file,
			Output:  output,
			Preset:  p,
			Encoder: gpuEncoder,
		}
		if info, statErr := os.Stat(file); statErr == nil {
			task.InputBytes = info.Size()
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// TotalInputBytes sums the input sizes of tasks.
func TotalInputBytes(tasks []Task) int64 {
	var total int64
	for _, t := range tasks {
		total += t.InputBytes
	}
	return total
}
