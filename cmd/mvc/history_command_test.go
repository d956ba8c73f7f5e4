package main

import (
	"strings"
	"testing"

	"mvc/internal/testsupport"
)

func TestHistoryEmptyAndPrune(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := runCLI(t, env, nil, "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(out, "No runs recorded yet.") {
		t.Fatalf("unexpected output: %s", out)
	}

	testsupport.WriteVideos(t, env.source, "a.mp4")
	for range 3 {
		if _, err := runCLI(t, env, nil, env.compressArgs("1")...); err != nil {
			t.Fatalf("compress: %v", err)
		}
	}

	out, err = runCLI(t, env, nil, "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if strings.Count(out, "Completed") != 3 {
		t.Fatalf("expected three completed runs:\n%s", out)
	}

	out, err = runCLI(t, env, nil, "history", "prune", "--keep", "1")
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if !strings.Contains(out, "Removed 2 runs") {
		t.Fatalf("unexpected prune output: %s", out)
	}
}

func TestHistoryShowUnknownRun(t *testing.T) {
	env := setupCLITestEnv(t)

	_, err := runCLI(t, env, nil, "history", "show", "deadbeef")
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not found error, got %v", err)
	}
}
