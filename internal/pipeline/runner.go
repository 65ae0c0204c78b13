package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/backmassage/photodater/internal/config"
	"github.com/backmassage/photodater/internal/display"
	"github.com/backmassage/photodater/internal/fsx"
	"github.com/backmassage/photodater/internal/logging"
	"github.com/backmassage/photodater/internal/planner"
	"github.com/backmassage/photodater/internal/progress"
)

// Deps are the collaborators the stage runners need.
type Deps struct {
	FS       fsx.FS
	Resolver planner.DateResolver
	// Progress builds the bar for a stage; nil disables progress output.
	Progress func(label string, total int) *progress.Reporter
	// Provider names the metadata backend in the report.
	Provider string
}

func (d Deps) bar(label string, total int) *progress.Reporter {
	if d.Progress == nil {
		return nil
	}
	return d.Progress(label, total)
}

// Run dispatches to the runner for cfg.Stage.
func Run(ctx context.Context, cfg *config.Config, log *logging.Logger, deps Deps) (*Report, error) {
	switch cfg.Stage {
	case config.StageRename:
		return RunRename(ctx, cfg, log, deps)
	case config.StageMove:
		return RunMove(ctx, cfg, log, deps)
	case config.StageProcess:
		return RunProcess(ctx, cfg, log, deps)
	}
	return nil, fmt.Errorf("stage %q has no batch runner", cfg.Stage)
}

// RunRename renames every supported file under cfg.Directory to its
// canonical name.
func RunRename(ctx context.Context, cfg *config.Config, log *logging.Logger, deps Deps) (*Report, error) {
	report := start(cfg, log, deps)
	_, err := renameStage(ctx, cfg, log, deps, report)
	return finish(cfg, log, report, err)
}

// RunMove moves canonically named files under cfg.Directory into the dated
// folder layout under cfg.BaseFolder.
func RunMove(ctx context.Context, cfg *config.Config, log *logging.Logger, deps Deps) (*Report, error) {
	report := start(cfg, log, deps)
	files, err := discover(cfg, log, report)
	if err == nil {
		err = moveStage(ctx, cfg, log, deps, report, files)
	}
	return finish(cfg, log, report, err)
}

// RunProcess renames and then moves. The move stage works on the outcome of
// the rename stage, so in dry-run it plans moves for the names the rename
// would produce.
func RunProcess(ctx context.Context, cfg *config.Config, log *logging.Logger, deps Deps) (*Report, error) {
	report := start(cfg, log, deps)
	plan, err := renameStage(ctx, cfg, log, deps, report)
	if err == nil {
		log.Info("")
		err = moveStage(ctx, cfg, log, deps, report, renamedFiles(plan))
	}
	return finish(cfg, log, report, err)
}

func start(cfg *config.Config, log *logging.Logger, deps Deps) *Report {
	report := NewReport(cfg)
	report.Provider = deps.Provider
	log.Debug(cfg.Verbose, "Run %s", report.RunID)
	return report
}

func finish(cfg *config.Config, log *logging.Logger, report *Report, err error) (*Report, error) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		report.Interrupted = true
	}
	report.Finalize()
	logSummary(cfg, log, report)
	return report, err
}

func discover(cfg *config.Config, log *logging.Logger, report *Report) ([]planner.MediaFile, error) {
	files, err := Discover(cfg.Directory, cfg.Recursive)
	if err != nil {
		return nil, fmt.Errorf("discover %s: %w", cfg.Directory, err)
	}
	report.AddDiscovered(files)
	log.Info("Found %d media files in %s", len(files), cfg.Directory)
	return files, nil
}

// renameStage plans and executes renames one directory at a time.
func renameStage(ctx context.Context, cfg *config.Config, log *logging.Logger, deps Deps, report *Report) (planner.Plan, error) {
	all := planner.Plan{Stage: config.StageRename}
	files, err := discover(cfg, log, report)
	if err != nil || len(files) == 0 {
		return all, err
	}

	bar := deps.bar("Renaming", len(files))
	defer bar.Finish()

	dirs, groups := groupByDir(files)
	for _, dir := range dirs {
		existing, err := deps.FS.ReadDir(dir)
		if err != nil {
			p := failAll(config.StageRename, groups[dir], &fsx.IOError{Op: "readdir", Path: dir, Err: err})
			logPlan(cfg, log, p)
			bar.Step(len(groups[dir]))
			all.Append(p)
			continue
		}

		p, err := planner.PlanRename(ctx, dir, groups[dir], existing, deps.Resolver, bar)
		logPlan(cfg, log, p)
		if err == nil {
			err = Execute(ctx, &p, deps.FS, log, ExecOptions{DryRun: cfg.DryRun, Verbose: cfg.Verbose})
		}
		all.Append(p)
		if err != nil {
			report.Add(all)
			return all, err
		}
	}
	report.Add(all)
	return all, nil
}

// moveStage plans and executes the move of files into the dated layout.
func moveStage(ctx context.Context, cfg *config.Config, log *logging.Logger, deps Deps, report *Report, files []planner.MediaFile) error {
	plan := planner.PlanMove(files, cfg.BaseFolder, deps.FS)
	logPlan(cfg, log, plan)

	bar := deps.bar("Moving", plan.Pending())
	err := Execute(ctx, &plan, deps.FS, log, ExecOptions{DryRun: cfg.DryRun, Verbose: cfg.Verbose, Progress: bar})
	bar.Finish()
	report.Add(plan)
	return err
}

// renamedFiles returns where each successfully handled file of a rename plan
// lives (or would live, in dry-run) afterwards.
func renamedFiles(plan planner.Plan) []planner.MediaFile {
	var out []planner.MediaFile
	for _, e := range plan.Entries {
		switch e.Status {
		case planner.StatusRenamed, planner.StatusPlannedRename:
			out = append(out, planner.NewMediaFile(e.Dest, e.File.Size))
		case planner.StatusUnchanged:
			out = append(out, e.File)
		}
	}
	return out
}

func failAll(stage config.Stage, files []planner.MediaFile, err error) planner.Plan {
	p := planner.Plan{Stage: stage}
	for _, f := range files {
		p.Entries = append(p.Entries, planner.Entry{File: f, Status: planner.StatusFailedIO, Err: err})
	}
	return p
}

// logPlan reports the per-file planning outcome. Actions themselves are
// logged by Execute.
func logPlan(cfg *config.Config, log *logging.Logger, p planner.Plan) {
	for _, e := range p.Entries {
		switch e.Status {
		case planner.StatusSkippedUnresolvable:
			log.Warn("Skip (no usable date): %v", e.Err)
		case planner.StatusSkippedNamingMismatch:
			log.Warn("Skip (not YYYYMMDD-HHMMSS-XXX): %s", e.File.Path)
		case planner.StatusFailedCollision, planner.StatusFailedIO:
			log.Error("%s: %v", e.File.Path, e.Err)
		case planner.StatusUnchanged:
			log.Debug(cfg.Verbose, "Unchanged: %s", e.File.Path)
		case planner.StatusPlannedRename:
			log.Debug(cfg.Verbose, "%s: %s = %s", e.File.Name, e.Field, e.Timestamp)
		}
	}
}

func logSummary(cfg *config.Config, log *logging.Logger, r *Report) {
	s := r.Summary
	log.Info("==============================")
	if r.Interrupted {
		log.Warn("Interrupted before all files were handled")
	}
	log.Info("Done: %d renamed, %d moved, %d unchanged, %d skipped, %d failed",
		s.Renamed, s.Moved, s.Unchanged, s.Skipped, s.Failed)
	log.Info("Summary report:")
	log.Info("  Total files processed: %d (%s)", s.Processed, display.FormatBytes(s.Bytes))
	if cfg.DryRun {
		log.Info("  Planned actions: %d (dry run, nothing changed)", s.Planned)
	}
	for _, line := range r.Reasons() {
		log.Warn("  %s", line)
	}
	if s.Failed == 0 && s.Skipped == 0 && !r.Interrupted {
		log.Success("  All files handled")
	}
}
