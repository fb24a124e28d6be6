package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Namespace prefixes every exported Prometheus metric name.
const Namespace = "matchday"

// Recorder tracks counters, gauges and timings. All operations are thread-safe.
//
// Counters track incrementing values (e.g., rows skipped).
// Gauges track point-in-time values (e.g., league rank).
// Timings track durations and compute count/total/average/min/max in Snapshot.
type Recorder struct {
	mu       sync.Mutex
	registry *prometheus.Registry

	counters map[string]int64
	gauges   map[string]float64
	timings  map[string][]time.Duration

	promCounters map[string]prometheus.Counter
	promGauges   map[string]prometheus.Gauge
	promTimings  map[string]prometheus.Summary
}

var defaultRecorder = NewRecorder()

// NewRecorder creates a recorder with its own Prometheus registry.
func NewRecorder() *Recorder {
	return &Recorder{
		registry:     prometheus.NewRegistry(),
		counters:     make(map[string]int64),
		gauges:       make(map[string]float64),
		timings:      make(map[string][]time.Duration),
		promCounters: make(map[string]prometheus.Counter),
		promGauges:   make(map[string]prometheus.Gauge),
		promTimings:  make(map[string]prometheus.Summary),
	}
}

// Default returns the package-level recorder.
func Default() *Recorder {
	return defaultRecorder
}

// promName turns "fixtures.rows_skipped" into "fixtures_rows_skipped".
func promName(name string) string {
	r := strings.NewReplacer(".", "_", "-", "_", " ", "_")
	return r.Replace(strings.ToLower(name))
}

// IncrCounter increments a counter by 1.
func (r *Recorder) IncrCounter(name string) {
	r.AddCounter(name, 1)
}

// AddCounter increments a counter by n. Negative values are ignored.
func (r *Recorder) AddCounter(name string, n int) {
	if r == nil || n < 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.counters[name] += int64(n)

	c, ok := r.promCounters[name]
	if !ok {
		c = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      promName(name) + "_total",
			Help:      fmt.Sprintf("Counter %s.", name),
		})
		if err := r.registry.Register(c); err != nil {
			return
		}
		r.promCounters[name] = c
	}
	c.Add(float64(n))
}

// SetGauge sets a gauge to the specified value, overwriting any previous value.
func (r *Recorder) SetGauge(name string, value float64) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.gauges[name] = value

	g, ok := r.promGauges[name]
	if !ok {
		g = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      promName(name),
			Help:      fmt.Sprintf("Gauge %s.", name),
		})
		if err := r.registry.Register(g); err != nil {
			return
		}
		r.promGauges[name] = g
	}
	g.Set(value)
}

// RecordTiming records a duration measurement.
func (r *Recorder) RecordTiming(name string, duration time.Duration) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.timings[name] = append(r.timings[name], duration)

	s, ok := r.promTimings[name]
	if !ok {
		s = prometheus.NewSummary(prometheus.SummaryOpts{
			Namespace: Namespace,
			Name:      promName(name) + "_seconds",
			Help:      fmt.Sprintf("Timing %s.", name),
		})
		if err := r.registry.Register(s); err != nil {
			return
		}
		r.promTimings[name] = s
	}
	s.Observe(duration.Seconds())
}

// Counter returns the current value of a counter.
func (r *Recorder) Counter(name string) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counters[name]
}

// Snapshot returns a deep copy of all metrics as a map containing:
//   - "counters": map of counter names to values
//   - "gauges": map of gauge names to values
//   - "timings": map of timing names to statistics (count, total, average, min, max)
func (r *Recorder) Snapshot() map[string]interface{} {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot := make(map[string]interface{})

	counters := make(map[string]int64, len(r.counters))
	for k, v := range r.counters {
		counters[k] = v
	}
	snapshot["counters"] = counters

	gauges := make(map[string]float64, len(r.gauges))
	for k, v := range r.gauges {
		gauges[k] = v
	}
	snapshot["gauges"] = gauges

	timings := make(map[string]map[string]interface{})
	for name, durations := range r.timings {
		if len(durations) == 0 {
			continue
		}

		var total time.Duration
		min := durations[0]
		max := durations[0]
		for _, d := range durations {
			total += d
			if d < min {
				min = d
			}
			if d > max {
				max = d
			}
		}

		timings[name] = map[string]interface{}{
			"count":   len(durations),
			"total":   total.String(),
			"average": (total / time.Duration(len(durations))).String(),
			"min":     min.String(),
			"max":     max.String(),
		}
	}
	snapshot["timings"] = timings

	return snapshot
}

// Gatherer exposes the underlying registry.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile writes all metrics in Prometheus text format to path.
func (r *Recorder) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}

// Package-level functions using the default recorder

// IncrCounter increments a counter on the default recorder.
func IncrCounter(name string) {
	defaultRecorder.IncrCounter(name)
}

// AddCounter adds n to a counter on the default recorder.
func AddCounter(name string, n int) {
	defaultRecorder.AddCounter(name, n)
}

// SetGauge sets a gauge on the default recorder.
func SetGauge(name string, value float64) {
	defaultRecorder.SetGauge(name, value)
}

// RecordTiming records a timing on the default recorder.
func RecordTiming(name string, duration time.Duration) {
	defaultRecorder.RecordTiming(name, duration)
}

// GetSnapshot returns a snapshot of the default recorder.
func GetSnapshot() map[string]interface{} {
	return defaultRecorder.Snapshot()
}
