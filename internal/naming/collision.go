package naming

import (
	"fmt"
	"path/filepath"
	"strings"
)

// CollisionExhaustedError reports that all 1000 counters for one stem are
// taken in one directory.
type CollisionExhaustedError struct {
	Dir  string
	Stem string
}

func (e *CollisionExhaustedError) Error() string {
	return fmt.Sprintf("no free counter for %s in %s (000-%03d all taken)", e.Stem, e.Dir, MaxCounter)
}

// slot is the collision key of a file name: the lowercased name without its
// extension. "X-000.jpg" and "x-000.MOV" share a slot, so same-second files
// of different types still get distinct counters.
func slot(name string) string {
	return strings.ToLower(strings.TrimSuffix(name, filepath.Ext(name)))
}

// Build returns the canonical name for stem with the lowest counter whose
// slot is not used by any of existing. It is deterministic in its inputs.
func Build(stem, ext string, existing []string) (string, error) {
	a := NewAllocator("", existing)
	return a.Allocate(stem, ext)
}

// Allocator tracks the names taken in one directory and hands out canonical
// names that collide with none of them. It is seeded with the directory's
// current contents and updated on every allocation, so names claimed earlier
// in the run are never reused. Not safe for concurrent use.
type Allocator struct {
	dir   string
	taken map[string]struct{}
}

// NewAllocator creates an allocator for dir seeded with existing names.
func NewAllocator(dir string, existing []string) *Allocator {
	a := &Allocator{dir: dir, taken: make(map[string]struct{}, len(existing))}
	for _, n := range existing {
		a.Claim(n)
	}
	return a
}

// Claim marks name as taken.
func (a *Allocator) Claim(name string) {
	a.taken[slot(name)] = struct{}{}
}

// Taken reports whether name's slot is in use.
func (a *Allocator) Taken(name string) bool {
	_, ok := a.taken[slot(name)]
	return ok
}

// Allocate returns "<stem>-XXX<ext>" with the lowest free counter starting at
// 000 and claims it.
func (a *Allocator) Allocate(stem, ext string) (string, error) {
	for counter := 0; counter <= MaxCounter; counter++ {
		cand := Format(stem, counter, ext)
		if a.Taken(cand) {
			continue
		}
		a.Claim(cand)
		return cand, nil
	}
	return "", &CollisionExhaustedError{Dir: a.dir, Stem: stem}
}
