package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directories mvc writes to.
type Paths struct {
	StateDir string `toml:"state_dir"`
	LogDir   string `toml:"log_dir"`
}

// FFmpeg contains settings for the external encoder binary.
type FFmpeg struct {
	Binary              string `toml:"binary"`
	ProbeTimeoutSeconds int    `toml:"probe_timeout_seconds"`
	ProbeSize           string `toml:"probe_size"`
	ProbeRate           int    `toml:"probe_rate"`
}

// Compress contains batch defaults that CLI flags may override.
type Compress struct {
	DefaultPreset string   `toml:"default_preset"`
	Workers       int      `toml:"workers"`
	Extensions    []string `toml:"extensions"`
	Recursive     bool     `toml:"recursive"`
	Overwrite     bool     `toml:"overwrite"`
	UseGPU        bool     `toml:"use_gpu"`
}

// Watch contains settings for the long-running watch command.
type Watch struct {
	SettleSeconds int    `toml:"settle_seconds"`
	MetricsAddr   string `toml:"metrics_addr"`
}

// History contains settings for the run history database.
type History struct {
	Enabled  bool `toml:"enabled"`
	KeepRuns int  `toml:"keep_runs"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Preset is a user-defined compression preset as written in TOML.
// A preset whose key matches a built-in replaces it.
type Preset struct {
	Key         string              `toml:"key"`
	Slug        string              `toml:"slug"`
	Name        string              `toml:"name"`
	Description string              `toml:"description"`
	Codec       string              `toml:"codec"`
	Engine      string              `toml:"engine"`
	UseGPU      bool                `toml:"use_gpu"`
	GPUFlags    map[string][]string `toml:"gpu_flags"`
	CPUArgs     []string            `toml:"cpu_args"`
	FilterArgs  []string            `toml:"filter_args"`
	AudioArgs   []string            `toml:"audio_args"`
}

// Config encapsulates all configuration values for mvc.
//
// Configuration sections by subsystem:
//   - Paths: state (history database) and log directories
//   - FFmpeg: encoder binary location and hardware probe parameters
//   - Compress: batch defaults (preset, workers, extensions, overwrite)
//   - Watch: settle window and metrics endpoint for watch mode
//   - History: run history retention
//   - Logging: log format and level
//   - Presets: custom compression presets
type Config struct {
	Paths    Paths    `toml:"paths"`
	FFmpeg   FFmpeg   `toml:"ffmpeg"`
	Compress Compress `toml:"compress"`
	Watch    Watch    `toml:"watch"`
	History  History  `toml:"history"`
	Logging  Logging  `toml:"logging"`
	Presets  []Preset `toml:"presets"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			var strict *toml.StrictMissingError
			if errors.As(err, &strict) {
				return nil, "", false, fmt.Errorf("parse config: %s", strings.TrimSpace(strict.String()))
			}
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("mvc.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the state and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// HistoryPath returns the location of the run history database.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.Paths.StateDir, "history.db")
}

// LogPath returns the location of the application log file.
func (c *Config) LogPath() string {
	return filepath.Join(c.Paths.LogDir, "mvc.log")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// Encode renders the effective configuration as TOML.
func (c *Config) Encode() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return data, nil
}
