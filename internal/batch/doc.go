// Package batch drives cover-art resolution across a set of discovered
// files. It enforces single-instance execution with a file lock, tags
// each run with an identifier, isolates per-file failures, and tallies
// outcomes for the summary report.
package batch
