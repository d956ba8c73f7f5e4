// Package metrics exposes Prometheus counters for compression runs, fed by the
// batch runner's task lifecycle callbacks.
package metrics
