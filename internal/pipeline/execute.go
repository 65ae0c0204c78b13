package pipeline

import (
	"context"
	"io/fs"
	"path/filepath"

	"github.com/backmassage/photodater/internal/fsx"
	"github.com/backmassage/photodater/internal/logging"
	"github.com/backmassage/photodater/internal/planner"
	"github.com/backmassage/photodater/internal/progress"
)

// ExecOptions controls plan execution.
type ExecOptions struct {
	DryRun   bool
	Verbose  bool
	Progress *progress.Reporter
}

// Execute applies plan in order. Directories in plan.Dirs are created first.
// Each planned entry is moved only if its destination does not exist; a
// failure marks that entry failed_io and the batch continues. In dry-run the
// plan is logged and nothing is mutated. Execute stops between files when ctx
// is cancelled, leaving the remaining entries planned, and returns ctx.Err().
func Execute(ctx context.Context, plan *planner.Plan, fsys fsx.FS, log *logging.Logger, opts ExecOptions) error {
	failedDirs := make(map[string]error)
	for _, dir := range plan.Dirs {
		if opts.DryRun {
			log.Plan("CREATE %s", dir)
			continue
		}
		if err := fsys.MkdirAll(dir); err != nil {
			log.Error("Cannot create %s: %v", dir, err)
			failedDirs[dir] = err
			continue
		}
		log.Debug(opts.Verbose, "Created %s", dir)
	}

	for i := range plan.Entries {
		e := &plan.Entries[i]
		if !e.Status.Planned() {
			continue
		}
		if err := ctx.Err(); err != nil {
			log.Warn("Interrupted, %d planned action(s) not run", plan.Pending())
			return err
		}
		opts.Progress.Step(1)

		verb, done := "RENAME", planner.StatusRenamed
		if e.Status == planner.StatusPlannedMove {
			verb, done = "MOVE", planner.StatusMoved
		}

		if opts.DryRun {
			log.Plan("%s %s -> %s", verb, e.File.Path, e.Dest)
			continue
		}

		if err, ok := failedDirs[filepath.Dir(e.Dest)]; ok {
			fail(log, e, err)
			continue
		}
		exists, err := fsys.Exists(e.Dest)
		if err != nil {
			fail(log, e, &fsx.IOError{Op: "stat", Path: e.Dest, Err: err})
			continue
		}
		if exists {
			fail(log, e, &fsx.IOError{Op: "move", Path: e.Dest, Err: fs.ErrExist})
			continue
		}
		if err := fsys.Move(e.File.Path, e.Dest); err != nil {
			fail(log, e, err)
			continue
		}
		e.Status = done
		log.Debug(opts.Verbose, "%s", planner.Describe(*e))
	}
	return nil
}

func fail(log *logging.Logger, e *planner.Entry, err error) {
	e.Status = planner.StatusFailedIO
	e.Err = err
	log.Error("%s: %v", e.File.Path, err)
}
