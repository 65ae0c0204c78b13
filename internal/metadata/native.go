package metadata

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/abema/go-mp4"
	exifv3 "github.com/dsoprea/go-exif/v3"
	goexif "github.com/rwcarlsen/goexif/exif"
)

// exifDateLayout is how EXIF and exiftool write date-times.
const exifDateLayout = "2006:01:02 15:04:05"

// appleEpochOffset is the number of seconds between the QuickTime epoch
// (1904-01-01 00:00:00 UTC) and the Unix epoch.
const appleEpochOffset = 2082844800

// EXIF tag → exiftool field name. DateTimeDigitized and DateTime are what
// exiftool calls CreateDate and ModifyDate.
var exifFieldNames = map[string]string{
	"DateTimeOriginal":  "DateTimeOriginal",
	"DateTimeDigitized": "CreateDate",
	"DateTime":          "ModifyDate",
}

// NativeDecoders describes which in-process decoder handles each extension.
var NativeDecoders = []Decoder{
	{Exts: []string{".jpg", ".jpeg"}, Library: "rwcarlsen/goexif", Reads: "EXIF DateTimeOriginal, DateTimeDigitized, DateTime"},
	{Exts: []string{".heic", ".png", ".webp"}, Library: "dsoprea/go-exif/v3", Reads: "EXIF block found by signature search"},
	{Exts: []string{".mov", ".mp4"}, Library: "abema/go-mp4", Reads: "moov/mvhd creation time"},
}

// Decoder is one entry of [NativeDecoders].
type Decoder struct {
	Exts    []string
	Library string
	Reads   string
}

// NativeProvider decodes date fields in-process. It reports the same field
// names exiftool would for the subset it understands, plus FileModifyDate
// from the filesystem.
type NativeProvider struct{}

// NewNative returns the in-process backend.
func NewNative() NativeProvider { return NativeProvider{} }

// Fields returns the date fields found in path. A container that carries no
// embedded metadata is not an error; only FileModifyDate is returned then.
func (NativeProvider) Fields(ctx context.Context, path string) (Fields, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	fields := Fields{
		"FileModifyDate": fi.ModTime().Format(exifDateLayout + "-07:00"),
	}

	var embedded Fields
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		embedded, err = jpegFields(f)
	case ".heic", ".png", ".webp":
		embedded, err = searchExifFields(f)
	case ".mov", ".mp4":
		embedded, err = movieFields(f)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %q: %w", path, err)
	}
	for k, v := range embedded {
		fields[k] = v
	}
	return fields, nil
}

// jpegFields reads the EXIF date tags of a JPEG with goexif.
func jpegFields(r io.Reader) (Fields, error) {
	x, err := goexif.Decode(r)
	if err != nil && (goexif.IsCriticalError(err) || x == nil) {
		// No APP1 segment or a truncated header: treat as no metadata.
		return nil, nil
	}
	out := Fields{}
	for _, name := range []goexif.FieldName{goexif.DateTimeOriginal, goexif.DateTimeDigitized, goexif.DateTime} {
		tag, err := x.Get(name)
		if err != nil {
			continue
		}
		s, err := tag.StringVal()
		if err != nil {
			continue
		}
		out[exifFieldNames[string(name)]] = strings.TrimSpace(s)
	}
	return out, nil
}

// searchExifFields scans any container (HEIC, PNG eXIf, WEBP EXIF chunk) for
// an embedded EXIF block with go-exif.
func searchExifFields(r io.Reader) (Fields, error) {
	raw, err := exifv3.SearchAndExtractExifWithReader(r)
	if err != nil {
		if errors.Is(err, exifv3.ErrNoExif) {
			return nil, nil
		}
		return nil, err
	}
	entries, _, err := exifv3.GetFlatExifDataUniversalSearch(raw, nil, true)
	if err != nil {
		return nil, err
	}
	out := Fields{}
	for _, e := range entries {
		name, ok := exifFieldNames[e.TagName]
		if !ok {
			continue
		}
		if s, ok := e.Value.(string); ok && s != "" {
			// The first IFD wins; thumbnails repeat DateTime in IFD1.
			if _, seen := out[name]; !seen {
				out[name] = strings.TrimSpace(s)
			}
		}
	}
	return out, nil
}

// movieFields reads the creation time from the moov/mvhd box of a QuickTime
// or MP4 file with go-mp4. The value is UTC, as exiftool reports it.
func movieFields(r io.ReadSeeker) (Fields, error) {
	var created uint64
	_, err := mp4.ReadBoxStructure(r, func(h *mp4.ReadHandle) (interface{}, error) {
		switch h.BoxInfo.Type {
		case mp4.BoxTypeMoov():
			return h.Expand()
		case mp4.BoxTypeMvhd():
			box, _, err := h.ReadPayload()
			if err != nil {
				return nil, err
			}
			if mvhd, ok := box.(*mp4.Mvhd); ok {
				if mvhd.GetVersion() == 0 {
					created = uint64(mvhd.CreationTimeV0)
				} else {
					created = mvhd.CreationTimeV1
				}
			}
		}
		return nil, nil
	})
	if err != nil {
		return nil, err
	}
	if created <= appleEpochOffset {
		return nil, nil
	}
	t := time.Unix(int64(created)-appleEpochOffset, 0).UTC()
	return Fields{"CreateDate": t.Format(exifDateLayout)}, nil
}
