// Package metrics tracks operational counters, gauges and timings for a pipeline run.
//
// Values are mirrored into a private Prometheus registry so a run can dump them
// in text exposition format for the node-exporter textfile collector, and are
// also kept in plain maps for the CLI's verbose summary.
package metrics
