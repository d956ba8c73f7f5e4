package preset_test

import (
	"slices"
	"strings"
	"testing"

	"mvc/internal/config"
	"mvc/internal/preset"
)

func TestBuiltinPresetsAreValid(t *testing.T) {
	catalog := preset.Builtin()
	if catalog.Len() != 6 {
		t.Fatalf("unexpected builtin count: got %d want 6", catalog.Len())
	}
	for _, p := range catalog.Sorted() {
		if err := p.Validate(); err != nil {
			t.Fatalf("builtin preset %s invalid: %v", p.Key, err)
		}
		if p.Description == "" {
			t.Fatalf("builtin preset %s missing description", p.Key)
		}
	}
}

func TestArchivePresetUsesHEVCEncoders(t *testing.T) {
	p, ok := preset.Builtin().Lookup("5")
	if !ok {
		t.Fatal("expected preset 5")
	}
	if p.Codec != preset.CodecHEVC {
		t.Fatalf("unexpected codec: got %q want %q", p.Codec, preset.CodecHEVC)
	}
	for _, name := range p.SupportedEncoders() {
		if !strings.HasPrefix(name, "hevc_") {
			t.Fatalf("archive preset lists non-HEVC encoder %q", name)
		}
	}
	if !slices.Contains(p.CPUArgs, "libx265") {
		t.Fatalf("expected libx265 CPU fallback, got %v", p.CPUArgs)
	}
}

func TestLookupBySlugIgnoresCase(t *testing.T) {
	catalog := preset.Builtin()
	p, ok := catalog.Lookup("  SOCIAL ")
	if !ok {
		t.Fatal("expected slug lookup to succeed")
	}
	if p.Key != "3" {
		t.Fatalf("unexpected preset: got %q want %q", p.Key, "3")
	}
	if _, ok := catalog.Lookup("9"); ok {
		t.Fatal("expected unknown key to miss")
	}
	if _, ok := catalog.Lookup(""); ok {
		t.Fatal("expected empty key to miss")
	}
}

func TestLookupReturnsCopy(t *testing.T) {
	catalog := preset.Builtin()
	p, _ := catalog.Lookup("2")
	p.GPUFlags["h264_nvenc"][0] = "mutated"
	p.CPUArgs[0] = "mutated"

	again, _ := catalog.Lookup("2")
	if again.GPUFlags["h264_nvenc"][0] != "-rc" || again.CPUArgs[0] != "-threads" {
		t.Fatalf("catalog mutated through lookup result: %v %v", again.GPUFlags["h264_nvenc"], again.CPUArgs)
	}
}

func TestSortedOrdersNumericKeysFirst(t *testing.T) {
	catalog := preset.Builtin().WithOverrides([]preset.Preset{
		{Key: "tiny", Name: "Tiny", Codec: preset.CodecH264, Engine: preset.EngineFFmpeg, CPUArgs: []string{"-c:v", "libx264"}, AudioArgs: []string{"-an"}},
		{Key: "10", Name: "Ten", Codec: preset.CodecH264, Engine: preset.EngineFFmpeg, CPUArgs: []string{"-c:v", "libx264"}, AudioArgs: []string{"-an"}},
	})
	want := []string{"1", "2", "3", "4", "5", "6", "10", "tiny"}
	if got := catalog.Keys(); !slices.Equal(got, want) {
		t.Fatalf("unexpected key order: got %v want %v", got, want)
	}
}

func TestLoadAppliesCustomOverrides(t *testing.T) {
	cfg := config.Default()
	cfg.Presets = []config.Preset{{
		Key:       "1",
		Name:      "Custom Lecture",
		Codec:     "h264",
		Engine:    "ffmpeg",
		CPUArgs:   []string{"-c:v", "libx264", "-crf", "30"},
		AudioArgs: []string{"-c:a", "aac"},
	}}
	catalog, err := preset.Load(&cfg)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	p, _ := catalog.Lookup("1")
	if p.Name != "Custom Lecture" {
		t.Fatalf("unexpected preset name: got %q want %q", p.Name, "Custom Lecture")
	}
	if catalog.Len() != 6 {
		t.Fatalf("override should not add a preset, got %d", catalog.Len())
	}
}

func TestLoadRejectsMismatchedEncoder(t *testing.T) {
	cfg := config.Default()
	cfg.Presets = []config.Preset{{
		Key:       "7",
		Name:      "Broken",
		Codec:     "hevc",
		Engine:    "ffmpeg",
		UseGPU:    true,
		GPUFlags:  map[string][]string{"h264_nvenc": {"-qp", "20"}},
		CPUArgs:   []string{"-c:v", "libx265"},
		AudioArgs: []string{"-c:a", "aac"},
	}}
	if _, err := preset.Load(&cfg); err == nil {
		t.Fatal("expected error for h264 encoder on hevc preset")
	}
}

func TestDraptoPresetForcesMKV(t *testing.T) {
	p, ok := preset.Builtin().Lookup("av1")
	if !ok {
		t.Fatal("expected av1 preset")
	}
	if p.Engine != preset.EngineDrapto || p.OutputExtension() != ".mkv" {
		t.Fatalf("unexpected drapto preset: engine=%q ext=%q", p.Engine, p.OutputExtension())
	}
	if got := p.Label(); got != "6. AV1 Archive (Drapto)" {
		t.Fatalf("unexpected label: %q", got)
	}
}

func TestBuiltinMenuText(t *testing.T) {
	want := map[string][2]string{
		"1": {"Lecture Mode (Slides + Voice)", "High CPU compression, readable text, clear mono voice."},
		"2": {"High Quality / Music", "GPU accelerated, near lossless video, low-mid audio."},
		"3": {"Social Media (720p limit)", "Downscales to 720p with bitrate caps. Fits most chat app limits."},
		"4": {"Editing Proxy (Ultrafast)", "Low quality, high speed. Optimized for smooth timeline scrubbing."},
		"5": {"Archive Master (No Compromises)", "H.265/HEVC at max quality. Visually lossless preservation."},
	}
	catalog := preset.Builtin()
	for key, text := range want {
		p, ok := catalog.Lookup(key)
		if !ok {
			t.Fatalf("preset %s missing", key)
		}
		if p.Name != text[0] || p.Description != text[1] {
			t.Errorf("preset %s: got %q / %q, want %q / %q", key, p.Name, p.Description, text[0], text[1])
		}
	}
}
