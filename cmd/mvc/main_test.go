package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExitCode(t *testing.T) {
	out, err := os.Create(filepath.Join(t.TempDir(), "stdout"))
	if err != nil {
		t.Fatal(err)
	}
	defer out.Close()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, 0},
		{"interrupted", fmt.Errorf("run: %w", context.Canceled), 0},
		{"task failures", errTasksFailed, 1},
		{"other error", errors.New("boom"), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err, out); got != tt.want {
				t.Fatalf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}

	data, err := os.ReadFile(out.Name())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Operation cancelled by user.") {
		t.Fatalf("missing cancel message: %q", data)
	}
}

func TestCompressCancelledBeforeStart(t *testing.T) {
	env := setupCLITestEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cmd := newRootCommand()
	cmd.SetOut(&strings.Builder{})
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs([]string{"--config", env.configPath, "compress"})
	err := cmd.ExecuteContext(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
