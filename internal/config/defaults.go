package config

const (
	defaultConfigPath          = "~/.config/mvc/config.toml"
	defaultStateDir            = "~/.local/share/mvc"
	defaultLogDir              = "~/.local/share/mvc/logs"
	defaultProbeTimeoutSeconds = 15
	defaultProbeSize           = "1280x720"
	defaultProbeRate           = 30
	defaultPreset              = "2"
	defaultWatchSettleSeconds  = 5
	defaultHistoryKeepRuns     = 200
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"

	// EnvFFmpegBinary overrides ffmpeg.binary when the config leaves it blank.
	EnvFFmpegBinary = "MVC_FFMPEG"
)

var defaultExtensions = []string{".mp4"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		FFmpeg: FFmpeg{
			ProbeTimeoutSeconds: defaultProbeTimeoutSeconds,
			ProbeSize:           defaultProbeSize,
			ProbeRate:           defaultProbeRate,
		},
		Compress: Compress{
			DefaultPreset: defaultPreset,
			Extensions:    append([]string(nil), defaultExtensions...),
			Overwrite:     true,
			UseGPU:        true,
		},
		Watch: Watch{
			SettleSeconds: defaultWatchSettleSeconds,
		},
		History: History{
			Enabled:  true,
			KeepRuns: defaultHistoryKeepRuns,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
