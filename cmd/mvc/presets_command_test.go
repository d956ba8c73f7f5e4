package main

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestPresetsTable(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := runCLI(t, env, nil, "presets")
	if err != nil {
		t.Fatalf("presets: %v", err)
	}
	for _, want := range []string{"lecture", "hq", "social", "proxy", "drapto", "Description"} {
		if !strings.Contains(out, want) {
			t.Errorf("presets output missing %q:\n%s", want, out)
		}
	}
}

func TestPresetsJSON(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := runCLI(t, env, nil, "presets", "--json")
	if err != nil {
		t.Fatalf("presets: %v", err)
	}
	var views []struct {
		Key      string   `json:"key"`
		UseGPU   bool     `json:"use_gpu"`
		Encoders []string `json:"gpu_encoders"`
	}
	if err := json.Unmarshal([]byte(out), &views); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(views) != 6 || views[0].Key != "1" {
		t.Fatalf("unexpected presets: %+v", views)
	}
	if views[0].UseGPU || len(views[0].Encoders) != 0 {
		t.Fatalf("lecture preset should be CPU only: %+v", views[0])
	}
	if !views[1].UseGPU || len(views[1].Encoders) == 0 {
		t.Fatalf("hq preset should list GPU encoders: %+v", views[1])
	}
}
