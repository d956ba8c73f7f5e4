package metrics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mvc/internal/batch"
	"mvc/internal/logging"
)

// Collector records task outcomes. It satisfies batch.Observer.
type Collector struct {
	registry *prometheus.Registry

	tasks    *prometheus.CounterVec
	duration *prometheus.HistogramVec
	bytesIn  prometheus.Counter
	bytesOut prometheus.Counter
	active   prometheus.Gauge
}

// New registers the mvc metrics on a private registry.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		tasks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mvc_tasks_total",
			Help: "Compression tasks by preset and terminal status",
		}, []string{"preset", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mvc_encode_seconds",
			Help:    "Wall time of successful encodes",
			Buckets: prometheus.ExponentialBuckets(1, 2, 14),
		}, []string{"preset"}),
		bytesIn: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mvc_bytes_in_total",
			Help: "Input bytes of successfully compressed files",
		}),
		bytesOut: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mvc_bytes_out_total",
			Help: "Output bytes written by successful encodes",
		}),
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mvc_active_encodes",
			Help: "Encodes currently running",
		}),
	}
	c.registry.MustRegister(c.tasks, c.duration, c.bytesIn, c.bytesOut, c.active)
	return c
}

// Registry returns the registry backing the collector.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

func (c *Collector) TaskStarted(batch.Task) {
	c.active.Inc()
}

func (c *Collector) TaskFinished(result batch.Result) {
	key := result.Task.Preset.Key
	c.tasks.WithLabelValues(key, string(result.Status)).Inc()
	if !result.Started.IsZero() {
		c.active.Dec()
	}
	if result.Status != batch.StatusSucceeded {
		return
	}
	c.duration.WithLabelValues(key).Observe(result.Duration.Seconds())
	c.bytesIn.Add(float64(result.Task.InputBytes))
	c.bytesOut.Add(float64(result.OutputBytes))
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (c *Collector) Serve(ctx context.Context, addr string, logger *slog.Logger) error {
	logger = logging.NewComponentLogger(logger, "metrics")
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	server := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info("metrics endpoint listening", logging.String("addr", listener.Addr().String()))
	if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve metrics: %w", err)
	}
	return nil
}
