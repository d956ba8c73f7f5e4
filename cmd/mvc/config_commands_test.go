package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mvc/internal/deps"
	"mvc/internal/testsupport"
)

func TestConfigInitWritesSample(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	target := filepath.Join(dir, "mvc", "config.toml")

	out, err := runCLI(t, nil, nil, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, "Wrote sample configuration to "+target) {
		t.Fatalf("unexpected output: %s", out)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("sample not written: %v", err)
	}

	if _, err := runCLI(t, nil, nil, "config", "init", "--path", target); err == nil {
		t.Fatal("expected error when config exists")
	}
	if _, err := runCLI(t, nil, nil, "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
}

func TestConfigValidateAndShow(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := runCLI(t, env, nil, "config", "validate")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !strings.Contains(out, "Configuration valid") || !strings.Contains(out, "FFmpeg: "+env.cfg.FFmpeg.Binary) {
		t.Fatalf("unexpected validate output:\n%s", out)
	}

	out, err = runCLI(t, env, nil, "config", "show")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(out, "[compress]") || !strings.Contains(out, env.cfg.Paths.StateDir) {
		t.Fatalf("unexpected show output:\n%s", out)
	}
}

func TestConfigValidateRejectsUnknownKeys(t *testing.T) {
	env := setupCLITestEnv(t)
	if err := os.WriteFile(env.configPath, []byte("[compress]\nworkerz = 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := runCLI(t, env, nil, "config", "validate"); err == nil {
		t.Fatal("expected unknown key error")
	}
}

func TestConfigValidateFindsFFmpegOnPath(t *testing.T) {
	t.Setenv(deps.EnvFFmpeg, "")
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries("ffmpeg", "ffprobe"))
	base := testsupport.BaseDir(cfg)
	env := &cliTestEnv{cfg: cfg, configPath: filepath.Join(base, "config.toml"), baseDir: base}
	writeTestConfig(t, env.configPath, cfg)

	out, err := runCLI(t, env, nil, "config", "validate")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !strings.Contains(out, "FFmpeg: "+filepath.Join(base, "stubs", "ffmpeg")) {
		t.Fatalf("expected PATH stub to be resolved:\n%s", out)
	}
	if !strings.Contains(out, "FFprobe: "+filepath.Join(base, "stubs", "ffprobe")) {
		t.Fatalf("expected ffprobe to be listed for the AV1 preset:\n%s", out)
	}
}
