package dating

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/backmassage/photodater/internal/metadata"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		raw  string
		want string // Timestamp.String()
	}{
		{"2024:04:01 05:36:42+02:00", "2024-04-01 05:36:42.000000"},
		{"2024:03:31 22:38:17", "2024-03-31 22:38:17.000000"},
		{"2022:01:01 00:00:00", "2022-01-01 00:00:00.000000"},
		{"2024:03:31 22:38:17.767+08:00", "2024-03-31 22:38:17.767000"},
		{"2024:03:31 14:38:15.29Z", "2024-03-31 14:38:15.290000"},
		{"2023-06-01T14:30:00+02:00", "2023-06-01 14:30:00.000000"},
		{"2023-06-01 14:30:00-0700", "2023-06-01 14:30:00.000000"},
		{"2023:06:01 14:30:00.1234567", "2023-06-01 14:30:00.123456"},
		{"  2023:06:01 14:30:00  ", "2023-06-01 14:30:00.000000"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			ts, err := ParseTimestamp(tt.raw)
			if err != nil {
				t.Fatalf("ParseTimestamp(%q): %v", tt.raw, err)
			}
			if got := ts.String(); got != tt.want {
				t.Errorf("ParseTimestamp(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseTimestamp_Invalid(t *testing.T) {
	for _, raw := range []string{
		"",
		"yesterday",
		"2023:06:01",
		"2023:13:01 10:00:00",
		"2023:06:31 10:00:00",
		"2023:06:01 25:00:00",
		"2023:06:01 10:00:00 +02:00 extra",
	} {
		if _, err := ParseTimestamp(raw); err == nil {
			t.Errorf("ParseTimestamp(%q) should fail", raw)
		}
	}
}

func TestTimestamp_Stem(t *testing.T) {
	ts, err := ParseTimestamp("2023-06-01T14:30:00+02:00")
	if err != nil {
		t.Fatal(err)
	}
	if got := ts.Stem(); got != "20230601-143000" {
		t.Errorf("Stem() = %q, want %q", got, "20230601-143000")
	}
	if ts.t.Location() != time.UTC {
		t.Error("timestamps should be stored naive (UTC location)")
	}
}

func TestTimestamp_MicrosecondsKeptOutOfStem(t *testing.T) {
	a := NewTimestamp(2023, time.June, 1, 14, 30, 0, 100)
	b := NewTimestamp(2023, time.June, 1, 14, 30, 0, 200)
	if a.String() != "2023-06-01 14:30:00.000100" || b.String() != "2023-06-01 14:30:00.000200" {
		t.Errorf("String() = %q, %q", a, b)
	}
	if a.Stem() != b.Stem() {
		t.Error("microseconds must not affect the stem")
	}
}

func fieldsProvider(f metadata.Fields, err error) metadata.Provider {
	return metadata.ProviderFunc(func(context.Context, string) (metadata.Fields, error) {
		return f, err
	})
}

func TestResolve_Priority(t *testing.T) {
	tests := []struct {
		name      string
		fields    metadata.Fields
		wantField string
		wantStem  string
	}{
		{
			name: "original beats everything",
			fields: metadata.Fields{
				"FileModifyDate":   "2024:01:01 00:00:00+01:00",
				"CreateDate":       "2023:06:01 10:00:00",
				"DateTimeOriginal": "2023:06:01 14:30:00",
			},
			wantField: "DateTimeOriginal", wantStem: "20230601-143000",
		},
		{
			name: "quicktime creation date",
			fields: metadata.Fields{
				"MediaCreateDate": "2023:06:01 12:30:00",
				"CreationDate":    "2023:06:01 14:30:00+02:00",
			},
			wantField: "CreationDate", wantStem: "20230601-143000",
		},
		{
			name: "zero placeholder is skipped",
			fields: metadata.Fields{
				"DateTimeOriginal": "0000:00:00 00:00:00",
				"CreateDate":       "2020:02:02 02:02:02",
			},
			wantField: "CreateDate", wantStem: "20200202-020202",
		},
		{
			name: "zero placeholder with zone is skipped",
			fields: metadata.Fields{
				"DateTimeOriginal": "0000:00:00 00:00:00+00:00",
				"CreationDate":     "0000:00:00 00:00:00Z",
				"MediaCreateDate":  "0000:00:00 00:00:00.000-05:00",
				"CreateDate":       "2020:02:02 02:02:02",
			},
			wantField: "CreateDate", wantStem: "20200202-020202",
		},
		{
			name:      "file modification date is the last resort",
			fields:    metadata.Fields{"FileModifyDate": "2019:12:31 23:59:59+01:00", "Make": "Apple"},
			wantField: "FileModifyDate", wantStem: "20191231-235959",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(fieldsProvider(tt.fields, nil))
			res, err := r.Resolve(context.Background(), "/p/IMG.jpg")
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if res.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", res.Field, tt.wantField)
			}
			if res.Timestamp.Stem() != tt.wantStem {
				t.Errorf("Stem = %q, want %q", res.Timestamp.Stem(), tt.wantStem)
			}
		})
	}
}

func TestResolve_Errors(t *testing.T) {
	toolErr := errors.New("exit status 1")
	tests := []struct {
		name       string
		fields     metadata.Fields
		err        error
		wantReason string
	}{
		{"tool failure", nil, toolErr, ReasonToolFailed},
		{"no date fields", metadata.Fields{"Make": "Canon"}, nil, ReasonNoField},
		{"empty values", metadata.Fields{"DateTimeOriginal": "  "}, nil, ReasonNoField},
		{"only zoned zero placeholders", metadata.Fields{"DateTimeOriginal": "0000:00:00 00:00:00Z", "FileModifyDate": "0000:00:00 00:00:00+00:00"}, nil, ReasonNoField},
		{"unparseable winner", metadata.Fields{"DateTimeOriginal": "sometime", "CreateDate": "2020:01:01 00:00:00"}, nil, ReasonUnparseable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(fieldsProvider(tt.fields, tt.err))
			_, err := r.Resolve(context.Background(), "/p/IMG.jpg")
			var re *ResolutionError
			if !errors.As(err, &re) {
				t.Fatalf("error = %v, want *ResolutionError", err)
			}
			if re.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", re.Reason, tt.wantReason)
			}
			if re.Path != "/p/IMG.jpg" {
				t.Errorf("Path = %q", re.Path)
			}
			if tt.err != nil && !errors.Is(err, tt.err) {
				t.Error("tool error should be wrapped")
			}
		})
	}
}
