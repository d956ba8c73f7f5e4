package batch_test

import (
	"testing"

	"mvc/internal/batch"
)

func TestDefaultWorkers(t *testing.T) {
	tests := []struct {
		cpus int
		want int
	}{
		{cpus: 0, want: 2},
		{cpus: -3, want: 2},
		{cpus: 1, want: 1},
		{cpus: 3, want: 1},
		{cpus: 4, want: 1},
		{cpus: 8, want: 2},
		{cpus: 12, want: 3},
		{cpus: 16, want: 4},
		{cpus: 20, want: 5},
		{cpus: 64, want: 5},
	}
	for _, tc := range tests {
		if got := batch.DefaultWorkers(tc.cpus); got != tc.want {
			t.Fatalf("DefaultWorkers(%d) = %d want %d", tc.cpus, got, tc.want)
		}
	}
}

func TestResolveWorkersHonoursOverride(t *testing.T) {
	if got := batch.ResolveWorkers(12, 4); got != 12 {
		t.Fatalf("explicit override should not be capped, got %d", got)
	}
	if got := batch.ResolveWorkers(0, 16); got != 4 {
		t.Fatalf("zero override should use default, got %d", got)
	}
	if got := batch.ResolveWorkers(-1, 16); got != 1 {
		t.Fatalf("negative override should clamp to 1, got %d", got)
	}
	if got := batch.ResolveWorkers(-8, 0); got != 1 {
		t.Fatalf("negative override should clamp to 1, got %d", got)
	}
}
