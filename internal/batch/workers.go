package batch

const (
	fallbackWorkers = 2
	maxAutoWorkers  = 5
	cpusPerWorker   = 4
)

// DefaultWorkers derives a worker count from the logical CPU count: one worker
// per four CPUs, at least 1 and at most 5. An unknown count (cpus <= 0)
// yields 2.
func DefaultWorkers(cpus int) int {
	if cpus <= 0 {
		return fallbackWorkers
	}
	return min(max(cpus/cpusPerWorker, 1), maxAutoWorkers)
}

// ResolveWorkers returns DefaultWorkers(cpus) when override is zero. Any other
// override is clamped to at least 1 and is not capped.
func ResolveWorkers(override, cpus int) int {
	if override == 0 {
		return DefaultWorkers(cpus)
	}
	return max(override, 1)
}
