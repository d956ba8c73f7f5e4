package deps

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// EnvFFmpeg names the environment variable that points at an ffmpeg binary.
const EnvFFmpeg = "MVC_FFMPEG"

// ErrFFmpegNotFound is returned when no ffmpeg binary can be located.
var ErrFFmpegNotFound = errors.New("ffmpeg not found")

var executablePath = os.Executable

// ResolveFFmpeg locates the ffmpeg binary. Lookup order: the configured value,
// the MVC_FFMPEG environment variable, an ffmpeg sitting next to the mvc
// executable, then PATH.
func ResolveFFmpeg(configured string) (string, error) {
	for _, candidate := range []string{strings.TrimSpace(configured), strings.TrimSpace(os.Getenv(EnvFFmpeg))} {
		if candidate == "" {
			continue
		}
		resolved, err := exec.LookPath(candidate)
		if err != nil {
			return "", fmt.Errorf("%w: %q is not executable: %v", ErrFFmpegNotFound, candidate, err)
		}
		return resolved, nil
	}

	if self, err := executablePath(); err == nil {
		if candidate, ok := sidecarCandidate(self); ok {
			if info, statErr := os.Stat(candidate); statErr == nil && isExecutable(info) {
				return candidate, nil
			}
		}
	}

	resolved, err := exec.LookPath(executableName("ffmpeg"))
	if err != nil {
		return "", fmt.Errorf("%w: install ffmpeg, set %s, or set ffmpeg.binary in the config", ErrFFmpegNotFound, EnvFFmpeg)
	}
	return resolved, nil
}

// CheckFFmpeg reports the ffmpeg binary mvc will execute.
func CheckFFmpeg(configured string) Status {
	status := Status{
		Name:        "FFmpeg",
		Description: "Required for encoding and hardware detection",
	}
	resolved, err := ResolveFFmpeg(configured)
	if err != nil {
		status.Command = strings.TrimSpace(configured)
		if status.Command == "" {
			status.Command = "ffmpeg"
		}
		status.Detail = err.Error()
		return status
	}
	status.Command = resolved
	status.Available = true
	return status
}

func sidecarCandidate(selfPath string) (string, bool) {
	if selfPath == "" {
		return "", false
	}
	if resolved, err := filepath.EvalSymlinks(selfPath); err == nil {
		selfPath = resolved
	}
	return filepath.Join(filepath.Dir(selfPath), executableName("ffmpeg")), true
}

func executableName(name string) string {
	if runtime.GOOS == "windows" {
		return name + ".exe"
	}
	return name
}

func isExecutable(info os.FileInfo) bool {
	if info == nil || info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
