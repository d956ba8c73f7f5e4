package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateFFmpeg(); err != nil {
		return err
	}
	if err := c.validateCompress(); err != nil {
		return err
	}
	if err := c.validatePresets(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateFFmpeg() error {
	if c.FFmpeg.ProbeTimeoutSeconds <= 0 {
		return errors.New("ffmpeg.probe_timeout_seconds must be positive")
	}
	if c.FFmpeg.ProbeRate <= 0 {
		return errors.New("ffmpeg.probe_rate must be positive")
	}
	w, h, ok := strings.Cut(c.FFmpeg.ProbeSize, "x")
	if !ok || !isPositiveInt(w) || !isPositiveInt(h) {
		return fmt.Errorf("ffmpeg.probe_size must look like WIDTHxHEIGHT, got %q", c.FFmpeg.ProbeSize)
	}
	return nil
}

func (c *Config) validateCompress() error {
	if c.Compress.Workers < 0 {
		return errors.New("compress.workers must be >= 0 (0 selects automatically)")
	}
	if len(c.Compress.Extensions) == 0 {
		return errors.New("compress.extensions must include at least one extension")
	}
	return nil
}

func (c *Config) validatePresets() error {
	seen := make(map[string]struct{}, len(c.Presets))
	for i, p := range c.Presets {
		field := fmt.Sprintf("presets[%d]", i)
		if p.Key == "" {
			return fmt.Errorf("%s.key must be set", field)
		}
		if _, dup := seen[p.Key]; dup {
			return fmt.Errorf("%s.key %q is defined more than once", field, p.Key)
		}
		seen[p.Key] = struct{}{}
		if p.Name == "" {
			return fmt.Errorf("%s.name must be set", field)
		}
		switch p.Codec {
		case "h264", "hevc", "av1":
		default:
			return fmt.Errorf("%s.codec must be one of h264, hevc, av1 (got %q)", field, p.Codec)
		}
		switch p.Engine {
		case "ffmpeg":
			if len(p.AudioArgs) == 0 {
				return fmt.Errorf("%s.audio_args must be set", field)
			}
			if len(p.CPUArgs) == 0 {
				return fmt.Errorf("%s.cpu_args must be set", field)
			}
			if p.UseGPU && len(p.GPUFlags) == 0 {
				return fmt.Errorf("%s.gpu_flags must be set when use_gpu is true", field)
			}
		case "drapto":
			if p.UseGPU {
				return fmt.Errorf("%s.use_gpu is not supported by the drapto engine", field)
			}
		default:
			return fmt.Errorf("%s.engine must be ffmpeg or drapto (got %q)", field, p.Engine)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error (got %q)", c.Logging.Level)
	}
}

func isPositiveInt(value string) bool {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	return err == nil && n > 0
}
