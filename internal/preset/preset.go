package preset

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
)

// Codec identifies the video codec family a preset targets.
type Codec string

const (
	CodecH264 Codec = "h264"
	CodecHEVC Codec = "hevc"
	CodecAV1  Codec = "av1"
)

// Engine identifies the encoder backend that executes a preset.
type Engine string

const (
	EngineFFmpeg Engine = "ffmpeg"
	EngineDrapto Engine = "drapto"
)

// Preset describes one compression profile.
type Preset struct {
	Key         string
	Slug        string
	Name        string
	Description string
	Codec       Codec
	Engine      Engine
	UseGPU      bool
	// GPUFlags maps a hardware encoder name (h264_nvenc, hevc_qsv, ...) to the
	// arguments that follow "-c:v <encoder>".
	GPUFlags   map[string][]string
	CPUArgs    []string
	FilterArgs []string
	AudioArgs  []string
}

// SupportedEncoders lists the hardware encoders this preset has flags for,
// sorted by name.
func (p Preset) SupportedEncoders() []string {
	names := make([]string, 0, len(p.GPUFlags))
	for name := range p.GPUFlags {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FlagsFor returns the arguments for the given hardware encoder, or nil when
// the preset does not configure it.
func (p Preset) FlagsFor(encoder string) []string {
	return slices.Clone(p.GPUFlags[encoder])
}

// OutputExtension returns the extension forced on outputs, or "" to keep the
// input extension.
func (p Preset) OutputExtension() string {
	if p.Engine == EngineDrapto {
		return ".mkv"
	}
	return ""
}

// Validate reports whether the preset can be executed.
func (p Preset) Validate() error {
	if strings.TrimSpace(p.Key) == "" {
		return errors.New("preset key is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("preset %s: name is required", p.Key)
	}
	switch p.Codec {
	case CodecH264, CodecHEVC, CodecAV1:
	default:
		return fmt.Errorf("preset %s: unsupported codec %q", p.Key, p.Codec)
	}
	switch p.Engine {
	case EngineFFmpeg:
		if len(p.AudioArgs) == 0 {
			return fmt.Errorf("preset %s: audio arguments are required", p.Key)
		}
		if len(p.CPUArgs) == 0 {
			return fmt.Errorf("preset %s: a CPU fallback is required", p.Key)
		}
		if p.UseGPU && len(p.GPUFlags) == 0 {
			return fmt.Errorf("preset %s: GPU presets need at least one hardware encoder", p.Key)
		}
		for name := range p.GPUFlags {
			if !strings.HasPrefix(name, string(p.Codec)+"_") {
				return fmt.Errorf("preset %s: encoder %s does not match codec %s", p.Key, name, p.Codec)
			}
		}
	case EngineDrapto:
		if p.UseGPU {
			return fmt.Errorf("preset %s: the drapto engine is CPU only", p.Key)
		}
	default:
		return fmt.Errorf("preset %s: unsupported engine %q", p.Key, p.Engine)
	}
	return nil
}

// Label renders "key. name" for menus and logs.
func (p Preset) Label() string {
	return p.Key + ". " + p.Name
}
