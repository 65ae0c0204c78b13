package planner

import (
	"context"
	"errors"
	"path/filepath"
	"sort"

	"github.com/backmassage/photodater/internal/config"
	"github.com/backmassage/photodater/internal/dating"
	"github.com/backmassage/photodater/internal/naming"
)

// DateResolver resolves the capture timestamp of a file. *dating.Resolver
// satisfies it.
type DateResolver interface {
	Resolve(ctx context.Context, path string) (dating.Resolution, error)
}

// PlanRename plans canonical names for files, which must all live in dir.
// existing holds every name currently in dir, supported or not, so no
// planned name can land on any of them.
//
// Files are handled in lexicographic order of their current name, so files
// from the same second get counters in that order. A file whose name is
// already canonical for its timestamp is left unchanged. Per-file problems
// are recorded on the entry; only context cancellation returns an error.
func PlanRename(ctx context.Context, dir string, files []MediaFile, existing []string, r DateResolver, obs Observer) (Plan, error) {
	if obs == nil {
		obs = nopObserver{}
	}
	sorted := append([]MediaFile(nil), files...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	plan := Plan{Stage: config.StageRename, Entries: make([]Entry, 0, len(sorted))}
	alloc := naming.NewAllocator(dir, existing)

	for _, f := range sorted {
		if err := ctx.Err(); err != nil {
			return plan, err
		}
		entry := Entry{File: f, Status: StatusDiscovered}

		res, err := r.Resolve(ctx, f.Path)
		obs.Step(1)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return plan, ctxErr
			}
			entry.Status = StatusSkippedUnresolvable
			entry.Err = err
			plan.Entries = append(plan.Entries, entry)
			continue
		}
		entry.Status = StatusDateResolved
		entry.Field = res.Field
		entry.Timestamp = res.Timestamp

		stem := res.Timestamp.Stem()
		if c, err := naming.Parse(f.Name); err == nil && c.Stem() == stem {
			entry.Status = StatusUnchanged
			plan.Entries = append(plan.Entries, entry)
			continue
		}

		name, err := alloc.Allocate(stem, f.Ext)
		if err != nil {
			var ce *naming.CollisionExhaustedError
			if errors.As(err, &ce) {
				entry.Status = StatusFailedCollision
			} else {
				entry.Status = StatusFailedIO
			}
			entry.Err = err
			plan.Entries = append(plan.Entries, entry)
			continue
		}
		entry.Dest = filepath.Join(dir, name)
		entry.Status = StatusPlannedRename
		plan.Entries = append(plan.Entries, entry)
	}
	return plan, nil
}
