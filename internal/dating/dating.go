// Package dating resolves a media file's capture timestamp from its metadata
// fields using a fixed priority list.
package dating

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/backmassage/photodater/internal/metadata"
)

// FieldPriority lists the metadata fields consulted, best first. The first
// field present with a non-empty value wins.
var FieldPriority = []string{
	"DateTimeOriginal",
	"CreationDate",
	"MediaCreateDate",
	"TrackCreateDate",
	"CreateDate",
	"DateCreated",
	"ModifyDate",
	"FileModifyDate",
}

// Timestamp is a timezone-naive capture time. The wall clock is stored in a
// time.Time with the UTC location; microseconds are kept for display but
// never appear in file names.
type Timestamp struct {
	t time.Time
}

// NewTimestamp builds a Timestamp from wall-clock fields.
func NewTimestamp(year int, month time.Month, day, hour, min, sec, usec int) Timestamp {
	return Timestamp{t: time.Date(year, month, day, hour, min, sec, usec*1000, time.UTC)}
}

// IsZero reports whether ts is unset.
func (ts Timestamp) IsZero() bool { return ts.t.IsZero() }

// Stem returns the "YYYYMMDD-HHMMSS" prefix used in canonical file names.
func (ts Timestamp) Stem() string { return ts.t.Format("20060102-150405") }

// String renders the ISO-like form with microseconds, e.g. "2024-03-31 22:38:17.767000".
func (ts Timestamp) String() string { return ts.t.Format("2006-01-02 15:04:05.000000") }

// Resolution is the outcome of resolving one file.
type Resolution struct {
	Timestamp Timestamp
	Field     string // winning field name
	Raw       string // winning field's raw value
}

// ResolutionError reports why a file's date could not be determined.
type ResolutionError struct {
	Path   string
	Reason string
	Err    error
}

// Reasons carried by ResolutionError.
const (
	ReasonToolFailed  = "metadata tool failed"
	ReasonNoField     = "no date field"
	ReasonUnparseable = "unparseable date"
)

func (e *ResolutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// Resolver applies FieldPriority to the fields returned by a Provider.
type Resolver struct {
	provider metadata.Provider
	priority []string
}

// NewResolver returns a Resolver using the default FieldPriority.
func NewResolver(p metadata.Provider) *Resolver {
	return &Resolver{provider: p, priority: FieldPriority}
}

// Resolve queries the provider once and returns the best capture timestamp.
func (r *Resolver) Resolve(ctx context.Context, path string) (Resolution, error) {
	fields, err := r.provider.Fields(ctx, path)
	if err != nil {
		return Resolution{}, &ResolutionError{Path: path, Reason: ReasonToolFailed, Err: err}
	}
	return r.Pick(path, fields)
}

// Pick selects and parses the winning field from already-fetched fields.
func (r *Resolver) Pick(path string, fields metadata.Fields) (Resolution, error) {
	for _, name := range r.priority {
		raw := strings.TrimSpace(fields[name])
		if isEmptyDate(raw) {
			continue
		}
		ts, err := ParseTimestamp(raw)
		if err != nil {
			return Resolution{}, &ResolutionError{Path: path, Reason: ReasonUnparseable, Err: fmt.Errorf("%s=%q: %w", name, raw, err)}
		}
		return Resolution{Timestamp: ts, Field: name, Raw: raw}, nil
	}
	return Resolution{}, &ResolutionError{Path: path, Reason: ReasonNoField}
}

// isEmptyDate treats blank values and the all-zero EXIF placeholder that
// cameras write when the clock was never set as missing. The placeholder may
// carry a fraction or a zone suffix ("+00:00", "Z").
func isEmptyDate(raw string) bool {
	if raw == "" {
		return true
	}
	return strings.Trim(raw, "0:-+.Z ") == ""
}

// dateRE matches "YYYY:MM:DD HH:MM:SS" and "YYYY-MM-DD[ T]HH:MM:SS" with an
// optional fraction and an optional zone (±hh:mm, ±hhmm or Z).
var dateRE = regexp.MustCompile(
	`^(\d{4})[:-](\d{2})[:-](\d{2})[ T](\d{2}):(\d{2}):(\d{2})(?:\.(\d+))?(Z|[+-]\d{2}:?\d{2})?$`)

// ParseTimestamp parses a metadata date-time value. The zone suffix, if any,
// is dropped and the local wall clock kept, so a photo taken at 14:30 in
// UTC+2 is named 143000. Fractions are normalized to microseconds.
func ParseTimestamp(raw string) (Timestamp, error) {
	m := dateRE.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return Timestamp{}, fmt.Errorf("invalid date format %q", raw)
	}

	frac := (m[7] + "000000")[:6]
	layout := "2006-01-02 15:04:05.000000"
	value := fmt.Sprintf("%s-%s-%s %s:%s:%s.%s", m[1], m[2], m[3], m[4], m[5], m[6], frac)
	t, err := time.ParseInLocation(layout, value, time.UTC)
	if err != nil {
		return Timestamp{}, fmt.Errorf("invalid date %q: %w", raw, err)
	}
	return Timestamp{t: t}, nil
}
