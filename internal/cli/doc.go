// Package cli implements the matchday command-line interface.
//
// The cli package provides the Cobra-based commands: sync scrapes the
// federation pages and writes the snapshot, calendar feed, photos and metrics;
// parse runs the extractors over saved HTML files; notify announces new
// results and schedule changes since the last snapshot. It coordinates the
// config, pipeline, storage and notifier packages and owns the exit codes.
package cli
