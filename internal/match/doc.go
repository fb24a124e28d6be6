// Package match provides the record types shared by the matchday pipeline.
//
// Fixtures, standings rows and players are plain value records produced once per
// run. The package also normalizes the heterogeneous date strings found on the
// federation pages and detects result and schedule changes between two runs.
package match
