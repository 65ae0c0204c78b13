// Package naming builds, parses, and de-duplicates canonical media file names
// of the form YYYYMMDD-HHMMSS-XXX.ext.
//
// The XXX counter disambiguates files captured in the same second. An
// [Allocator] per directory hands out the lowest free counter, taking into
// account both the files already on disk and the names allocated earlier in
// the same run.
package naming
