package planner

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"time"

	"github.com/backmassage/photodater/internal/config"
	"github.com/backmassage/photodater/internal/dating"
	"github.com/backmassage/photodater/internal/fsx"
	"github.com/backmassage/photodater/internal/naming"
)

// DestDir returns {base}/Pictures_YYYY/MM_YYYY for a canonical name.
func DestDir(base string, c naming.Canonical) string {
	y, m := c.YearString(), c.MonthString()
	return filepath.Join(base, "Pictures_"+y, m+"_"+y)
}

// PlanMove plans moving canonically named files into the dated folder layout
// under base. Destination directories are listed lazily through fsys; a
// missing one counts as empty and is added to Plan.Dirs. A file keeps its
// name when that slot is free at the destination, otherwise it gets the
// lowest free counter for its timestamp. Nothing is ever overwritten.
func PlanMove(files []MediaFile, base string, fsys fsx.FS) Plan {
	sorted := append([]MediaFile(nil), files...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	plan := Plan{Stage: config.StageMove, Entries: make([]Entry, 0, len(sorted))}
	allocs := make(map[string]*naming.Allocator)
	missing := make(map[string]bool)
	created := make(map[string]bool)

	allocatorFor := func(dir string) (*naming.Allocator, error) {
		if a, ok := allocs[dir]; ok {
			return a, nil
		}
		names, err := fsys.ReadDir(dir)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, &fsx.IOError{Op: "readdir", Path: dir, Err: err}
			}
			missing[dir] = true
		}
		a := naming.NewAllocator(dir, names)
		allocs[dir] = a
		return a, nil
	}

	for _, f := range sorted {
		entry := Entry{File: f, Status: StatusDiscovered}

		c, err := naming.Parse(f.Name)
		if err != nil {
			entry.Status = StatusSkippedNamingMismatch
			entry.Err = err
			plan.Entries = append(plan.Entries, entry)
			continue
		}
		entry.Timestamp = dating.NewTimestamp(c.Year, time.Month(c.Month), c.Day, c.Hour, c.Minute, c.Second, 0)

		destDir := DestDir(base, c)
		if sameDir(f.Dir, destDir) {
			entry.Status = StatusUnchanged
			plan.Entries = append(plan.Entries, entry)
			continue
		}

		alloc, err := allocatorFor(destDir)
		if err != nil {
			entry.Status = StatusFailedIO
			entry.Err = err
			plan.Entries = append(plan.Entries, entry)
			continue
		}

		name := f.Name
		if alloc.Taken(name) {
			name, err = alloc.Allocate(c.Stem(), c.Ext)
			if err != nil {
				entry.Status = StatusFailedCollision
				entry.Err = err
				plan.Entries = append(plan.Entries, entry)
				continue
			}
		} else {
			alloc.Claim(name)
		}

		if missing[destDir] && !created[destDir] {
			created[destDir] = true
			plan.Dirs = append(plan.Dirs, destDir)
		}
		entry.Dest = filepath.Join(destDir, name)
		entry.Status = StatusPlannedMove
		plan.Entries = append(plan.Entries, entry)
	}
	return plan
}

// sameDir compares directories by absolute path, falling back to the
// cleaned paths when either cannot be made absolute.
func sameDir(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

// Describe returns a one-line human description of an entry's outcome.
func Describe(e Entry) string {
	switch e.Status {
	case StatusPlannedRename, StatusRenamed:
		return fmt.Sprintf("%s -> %s", e.File.Name, filepath.Base(e.Dest))
	case StatusPlannedMove, StatusMoved:
		return fmt.Sprintf("%s -> %s", e.File.Path, e.Dest)
	case StatusUnchanged:
		return fmt.Sprintf("%s (unchanged)", e.File.Path)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.File.Path, e.Err)
	}
	return e.File.Path
}
