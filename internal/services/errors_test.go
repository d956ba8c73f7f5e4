package services_test

import (
	"errors"
	"strings"
	"testing"

	"mvc/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "encode", "ffmpeg", "exit status 1", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"encode", "ffmpeg", "exit status 1"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsMarkerAndDetail(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected fallback detail, got %q", err.Error())
	}
}

func TestHintMapping(t *testing.T) {
	cases := []struct {
		marker error
		want   string
	}{
		{services.ErrConfiguration, "configuration"},
		{services.ErrNotFound, "exists"},
		{services.ErrTimeout, "timeout"},
		{services.ErrExternalTool, "ffmpeg"},
	}
	for _, tc := range cases {
		hint := services.Hint(services.Wrap(tc.marker, "stage", "op", "msg", nil))
		if !strings.Contains(hint, tc.want) {
			t.Fatalf("hint for %v = %q, want substring %q", tc.marker, hint, tc.want)
		}
	}
	if services.Hint(nil) != "" {
		t.Fatal("expected empty hint for nil error")
	}
}
