package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeFFmpeg()
	c.normalizeCompress()
	c.normalizeWatch()
	c.normalizeHistory()
	c.normalizePresets()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeFFmpeg() {
	c.FFmpeg.Binary = strings.TrimSpace(c.FFmpeg.Binary)
	if c.FFmpeg.Binary == "" {
		if value, ok := os.LookupEnv(EnvFFmpegBinary); ok {
			c.FFmpeg.Binary = strings.TrimSpace(value)
		}
	}
	if c.FFmpeg.ProbeTimeoutSeconds <= 0 {
		c.FFmpeg.ProbeTimeoutSeconds = defaultProbeTimeoutSeconds
	}
	c.FFmpeg.ProbeSize = strings.ToLower(strings.TrimSpace(c.FFmpeg.ProbeSize))
	if c.FFmpeg.ProbeSize == "" {
		c.FFmpeg.ProbeSize = defaultProbeSize
	}
	if c.FFmpeg.ProbeRate <= 0 {
		c.FFmpeg.ProbeRate = defaultProbeRate
	}
}

func (c *Config) normalizeCompress() {
	c.Compress.DefaultPreset = strings.TrimSpace(c.Compress.DefaultPreset)
	if c.Compress.Workers < 0 {
		c.Compress.Workers = 0
	}
	exts := make([]string, 0, len(c.Compress.Extensions))
	seen := make(map[string]struct{}, len(c.Compress.Extensions))
	for _, ext := range c.Compress.Extensions {
		normalized := strings.ToLower(strings.TrimSpace(ext))
		if normalized == "" {
			continue
		}
		if !strings.HasPrefix(normalized, ".") {
			normalized = "." + normalized
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		exts = append(exts, normalized)
	}
	if len(exts) == 0 {
		exts = append(exts, defaultExtensions...)
	}
	c.Compress.Extensions = exts
}

func (c *Config) normalizeWatch() {
	if c.Watch.SettleSeconds <= 0 {
		c.Watch.SettleSeconds = defaultWatchSettleSeconds
	}
	c.Watch.MetricsAddr = strings.TrimSpace(c.Watch.MetricsAddr)
}

func (c *Config) normalizeHistory() {
	if c.History.KeepRuns < 0 {
		c.History.KeepRuns = 0
	}
}

func (c *Config) normalizePresets() {
	for i := range c.Presets {
		p := &c.Presets[i]
		p.Key = strings.TrimSpace(p.Key)
		p.Slug = strings.ToLower(strings.TrimSpace(p.Slug))
		p.Name = strings.TrimSpace(p.Name)
		p.Description = strings.TrimSpace(p.Description)
		p.Codec = strings.ToLower(strings.TrimSpace(p.Codec))
		if p.Codec == "" {
			p.Codec = "h264"
		}
		p.Engine = strings.ToLower(strings.TrimSpace(p.Engine))
		if p.Engine == "" {
			p.Engine = "ffmpeg"
		}
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
