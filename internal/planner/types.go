package planner

import (
	"path/filepath"

	"github.com/backmassage/photodater/internal/config"
	"github.com/backmassage/photodater/internal/dating"
)

// Status is the state of one file in a run.
type Status string

const (
	StatusDiscovered            Status = "discovered"
	StatusDateResolved          Status = "date_resolved"
	StatusPlannedRename         Status = "planned_rename"
	StatusPlannedMove           Status = "planned_move"
	StatusRenamed               Status = "renamed"
	StatusMoved                 Status = "moved"
	StatusUnchanged             Status = "unchanged"
	StatusSkippedUnresolvable   Status = "skipped_unresolvable"
	StatusSkippedNamingMismatch Status = "skipped_naming_mismatch"
	StatusFailedCollision       Status = "failed_collision"
	StatusFailedIO              Status = "failed_io"
)

// Planned reports whether the entry still has a filesystem action to run.
func (s Status) Planned() bool {
	return s == StatusPlannedRename || s == StatusPlannedMove
}

// Skipped reports whether the file was left alone because it could not be
// handled.
func (s Status) Skipped() bool {
	return s == StatusSkippedUnresolvable || s == StatusSkippedNamingMismatch
}

// Failed reports whether handling the file failed.
func (s Status) Failed() bool {
	return s == StatusFailedCollision || s == StatusFailedIO
}

// MediaFile is a supported file found by discovery.
type MediaFile struct {
	Path string
	Dir  string
	Name string
	Ext  string // with leading dot, original case
	Size int64
}

// NewMediaFile splits path into its parts.
func NewMediaFile(path string, size int64) MediaFile {
	name := filepath.Base(path)
	return MediaFile{
		Path: path,
		Dir:  filepath.Dir(path),
		Name: name,
		Ext:  filepath.Ext(name),
		Size: size,
	}
}

// Entry is the plan for one file.
type Entry struct {
	File      MediaFile
	Dest      string // full destination path; empty when there is nothing to do
	Status    Status
	Field     string // metadata field the date came from (rename only)
	Timestamp dating.Timestamp
	Err       error
}

// Plan is an ordered list of entries plus the directories that must exist
// before they run.
type Plan struct {
	Stage   config.Stage
	Entries []Entry
	Dirs    []string
}

// Count returns the number of entries with status s.
func (p *Plan) Count(s Status) int {
	n := 0
	for i := range p.Entries {
		if p.Entries[i].Status == s {
			n++
		}
	}
	return n
}

// Pending returns the number of entries with an action still to run.
func (p *Plan) Pending() int {
	n := 0
	for i := range p.Entries {
		if p.Entries[i].Status.Planned() {
			n++
		}
	}
	return n
}

// Append adds the entries and directories of other to p.
func (p *Plan) Append(other Plan) {
	p.Entries = append(p.Entries, other.Entries...)
	p.Dirs = append(p.Dirs, other.Dirs...)
}

// Observer is notified once per file planned. *progress.Reporter satisfies it.
type Observer interface {
	Step(n int)
}

type nopObserver struct{}

func (nopObserver) Step(int) {}
