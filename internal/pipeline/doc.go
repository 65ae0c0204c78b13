// Package pipeline runs the batch stages: discovery, planning, execution, and
// the run report.
//
//   - Discover: walk a directory for supported media files (discover.go)
//   - Execute: apply a plan, dry-run aware and tolerant of per-file failures (execute.go)
//   - RunRename, RunMove, RunProcess: the stage runners (runner.go)
//   - Report: per-file outcomes, summary counts, JSON output (report.go)
package pipeline
