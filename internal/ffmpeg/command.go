package ffmpeg

import "mvc/internal/preset"

// BuildOption adjusts command assembly.
type BuildOption func(*buildOptions)

type buildOptions struct {
	overwrite bool
}

// WithOverwrite selects between "-y" (replace existing outputs) and "-n"
// (never replace). Overwriting is the default.
func WithOverwrite(overwrite bool) BuildOption {
	return func(o *buildOptions) { o.overwrite = overwrite }
}

// Build returns the full argv, binary first, for compressing input into
// output with the preset.
//
// When the preset wants the GPU and gpuEncoder is set, the video section is
// "-c:v <gpuEncoder>" followed by the preset's flags for that encoder and its
// filter arguments. Otherwise the CPU arguments and filter arguments are used.
// Audio arguments and the output path always close the command.
func Build(bin, input, output string, p preset.Preset, gpuEncoder string, opts ...BuildOption) []string {
	o := buildOptions{overwrite: true}
	for _, opt := range opts {
		opt(&o)
	}

	overwriteFlag := "-y"
	if !o.overwrite {
		overwriteFlag = "-n"
	}

	argv := []string{bin, overwriteFlag, "-v", "error", "-i", input}
	argv = append(argv, VideoArgs(p, gpuEncoder)...)
	argv = append(argv, p.AudioArgs...)
	return append(argv, output)
}

// VideoArgs returns only the video section of the command.
func VideoArgs(p preset.Preset, gpuEncoder string) []string {
	var out []string
	if p.UseGPU && gpuEncoder != "" {
		out = append(out, "-c:v", gpuEncoder)
		out = append(out, p.FlagsFor(gpuEncoder)...)
	} else {
		out = append(out, p.CPUArgs...)
	}
	return append(out, p.FilterArgs...)
}
