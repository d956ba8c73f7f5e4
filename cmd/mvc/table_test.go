package main

import (
	"strings"
	"testing"
)

func TestGridPadsRowsAndRendersTotals(t *testing.T) {
	g := newGrid(textCol("File"), textCol("Status"), numCol("Input"))
	g.row("a.mp4", "succeeded", "10 MiB")
	g.row("b.mp4", "failed")
	g.row("c.mp4", "skipped", "1 MiB", "extra")
	g.total("Total", "", "11 MiB")

	out := g.String()
	for _, want := range []string{"File", "Status", "Input", "a.mp4", "b.mp4", "Total", "11 MiB"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "extra") {
		t.Fatalf("cells beyond the column count should be dropped:\n%s", out)
	}
	if strings.Contains(out, "FILE") {
		t.Fatalf("headers should keep their case:\n%s", out)
	}
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "c.mp4") && !strings.Contains(line, "  1 MiB │") {
			t.Fatalf("numeric column should be right aligned: %q", line)
		}
	}
}

func TestGridWrapsLongCells(t *testing.T) {
	g := newGrid(textCol("Key"), wrapCol("Description", 12))
	g.row("1", "High CPU compression, readable text, clear mono voice.")

	out := g.String()
	if strings.Contains(out, "readable text, clear") {
		t.Fatalf("expected description to wrap at 12 columns:\n%s", out)
	}
	if !strings.Contains(out, "compression,") {
		t.Fatalf("wrapped text missing:\n%s", out)
	}
}

func TestGridWithoutColumns(t *testing.T) {
	if got := newGrid().String(); got != "" {
		t.Fatalf("expected empty render, got %q", got)
	}
}
