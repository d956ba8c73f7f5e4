//go:build unix

package preflight

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mvc/internal/deps"
	"mvc/internal/preset"
)

func writeStubBinary(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func TestCheckSystemDepsListsFFprobeForAV1Presets(t *testing.T) {
	dir := t.TempDir()
	ffmpeg := writeStubBinary(t, dir, "ffmpeg")
	ffprobe := writeStubBinary(t, dir, "ffprobe")
	t.Setenv("PATH", dir)
	t.Setenv(deps.EnvFFmpeg, "")

	statuses := CheckSystemDeps("", preset.Builtin().Sorted())
	if len(statuses) != 2 {
		t.Fatalf("expected ffmpeg and ffprobe, got %#v", statuses)
	}
	if !statuses[0].Available || statuses[0].Command != ffmpeg {
		t.Fatalf("unexpected ffmpeg status: %#v", statuses[0])
	}
	if !statuses[1].Available || statuses[1].Command != ffprobe || !statuses[1].Optional {
		t.Fatalf("unexpected ffprobe status: %#v", statuses[1])
	}
}

func TestCheckSystemDepsSkipsFFprobeWithoutAV1(t *testing.T) {
	dir := t.TempDir()
	writeStubBinary(t, dir, "ffmpeg")
	t.Setenv("PATH", dir)
	t.Setenv(deps.EnvFFmpeg, "")

	var ffmpegOnly []preset.Preset
	for _, p := range preset.Builtin().Sorted() {
		if p.Engine == preset.EngineFFmpeg {
			ffmpegOnly = append(ffmpegOnly, p)
		}
	}
	statuses := CheckSystemDeps("", ffmpegOnly)
	if len(statuses) != 1 || statuses[0].Name != "FFmpeg" {
		t.Fatalf("expected ffmpeg only, got %#v", statuses)
	}
}

func TestCheckSystemDepsReportsMissingFFmpeg(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	t.Setenv(deps.EnvFFmpeg, "")

	statuses := CheckSystemDeps(filepath.Join(t.TempDir(), "absent-ffmpeg"), nil)
	if len(statuses) != 1 || statuses[0].Available || !statuses[0].Blocking() {
		t.Fatalf("expected blocking ffmpeg status, got %#v", statuses)
	}
	if !strings.Contains(statuses[0].Detail, "ffmpeg not found") {
		t.Fatalf("expected resolver detail, got %q", statuses[0].Detail)
	}
}
