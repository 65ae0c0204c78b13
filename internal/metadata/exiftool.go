package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/barasher/go-exiftool"
)

// ExiftoolProvider reads metadata through one exiftool process kept open in
// -stay_open mode for the whole run.
type ExiftoolProvider struct {
	et *exiftool.Exiftool
}

// NewExiftool starts exiftool. binary may be a bare name resolved via PATH or
// an explicit path.
func NewExiftool(binary string) (*ExiftoolProvider, error) {
	var opts []func(*exiftool.Exiftool) error
	if binary != "" && binary != "exiftool" {
		opts = append(opts, exiftool.SetExiftoolBinaryPath(binary))
	}
	et, err := exiftool.NewExiftool(opts...)
	if err != nil {
		return nil, fmt.Errorf("start exiftool: %w", err)
	}
	return &ExiftoolProvider{et: et}, nil
}

// Fields returns every tag exiftool reports for path, stringified.
func (p *ExiftoolProvider) Fields(ctx context.Context, path string) (Fields, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	infos := p.et.ExtractMetadata(path)
	if len(infos) != 1 {
		return nil, fmt.Errorf("exiftool %q: expected 1 result, got %d", path, len(infos))
	}
	if infos[0].Err != nil {
		return nil, fmt.Errorf("exiftool %q: %w", path, infos[0].Err)
	}
	return fromRaw(infos[0].Fields), nil
}

// Close stops the exiftool process.
func (p *ExiftoolProvider) Close() error {
	return p.et.Close()
}

// ParseJSON converts the output of `exiftool -j <file>` into Fields.
// Exported for testing without a real exiftool binary.
func ParseJSON(data []byte) (Fields, error) {
	var raw []map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse exiftool JSON: %w", err)
	}
	if len(raw) != 1 {
		return nil, fmt.Errorf("parse exiftool JSON: expected 1 object, got %d", len(raw))
	}
	return fromRaw(raw[0]), nil
}

// fromRaw stringifies decoded exiftool JSON values. Lists are joined the way
// exiftool's text output shows them.
func fromRaw(raw map[string]interface{}) Fields {
	f := make(Fields, len(raw))
	for k, v := range raw {
		if s, ok := stringify(v); ok {
			f[k] = s
		}
	}
	return f
}

func stringify(v interface{}) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	case []interface{}:
		parts := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := stringify(e); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", "), true
	default:
		return fmt.Sprint(t), true
	}
}
