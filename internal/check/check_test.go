package check

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/backmassage/photodater/internal/config"
)

// recLogger records log lines by level.
type recLogger struct {
	lines []string
}

func (r *recLogger) add(level, f string, a ...interface{}) {
	r.lines = append(r.lines, level+" "+fmt.Sprintf(f, a...))
}
func (r *recLogger) Info(f string, a ...interface{})    { r.add("INFO", f, a...) }
func (r *recLogger) Success(f string, a ...interface{}) { r.add("SUCCESS", f, a...) }
func (r *recLogger) Warn(f string, a ...interface{})    { r.add("WARN", f, a...) }
func (r *recLogger) Error(f string, a ...interface{})   { r.add("ERROR", f, a...) }
func (r *recLogger) Debug(v bool, f string, a ...interface{}) {
	if v {
		r.add("DEBUG", f, a...)
	}
}

func (r *recLogger) contains(s string) bool {
	for _, l := range r.lines {
		if strings.Contains(l, s) {
			return true
		}
	}
	return false
}

func missingBinary(t *testing.T) string {
	return filepath.Join(t.TempDir(), "no-such-exiftool")
}

func TestExiftoolVersion_Missing(t *testing.T) {
	_, err := ExiftoolVersion(context.Background(), missingBinary(t))
	if !errors.Is(err, ErrExiftoolNotFound) {
		t.Errorf("error = %v, want ErrExiftoolNotFound", err)
	}
}

func TestCheckDeps(t *testing.T) {
	tests := []struct {
		name     string
		provider config.ProviderKind
		wantErr  error
	}{
		{"native needs nothing", config.ProviderNative, nil},
		{"auto needs nothing", config.ProviderAuto, nil},
		{"exiftool must exist", config.ProviderExiftool, ErrExiftoolNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.Provider = tt.provider
			cfg.ExiftoolPath = missingBinary(t)
			err := CheckDeps(&cfg)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CheckDeps() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRunCheck_WithoutExiftool(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ExiftoolPath = missingBinary(t)

	log := &recLogger{}
	if !RunCheck(&cfg, log) {
		t.Error("auto provider should still be usable through the native decoders")
	}
	if !log.contains("goexif") || !log.contains("go-mp4") {
		t.Errorf("native decoders not listed: %v", log.lines)
	}
	if !log.contains("Provider (auto): native") {
		t.Errorf("auto fallback not reported: %v", log.lines)
	}

	cfg.Provider = config.ProviderExiftool
	if RunCheck(&cfg, &recLogger{}) {
		t.Error("exiftool provider without exiftool should fail the check")
	}
}
