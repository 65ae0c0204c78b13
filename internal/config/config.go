// Package config holds runtime configuration: defaults, CLI parsing, and
// validation. By default directories are walked recursively, the metadata
// backend is chosen automatically and every mutating run asks for
// confirmation.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// --- Enum types for validated string fields ---

// Stage selects which pipeline stage the invocation runs.
type Stage string

const (
	StageRename  Stage = "rename"  // Rename files in place to canonical names.
	StageMove    Stage = "move"    // Move canonical files into year/month folders.
	StageProcess Stage = "process" // Rename, then move.
	StageInspect Stage = "inspect" // Resolve and print the date of one file.
	StageCheck   Stage = "check"   // Report metadata tool availability.
)

// ProviderKind selects the metadata backend.
type ProviderKind string

const (
	ProviderAuto     ProviderKind = "auto"     // exiftool when on PATH, native decoders otherwise (default).
	ProviderExiftool ProviderKind = "exiftool" // Require exiftool.
	ProviderNative   ProviderKind = "native"   // In-process EXIF/MP4 decoders only.
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// SupportedExtensions is the allow-list of media extensions (lowercase, with
// leading dot). Files with any other extension are never touched.
var SupportedExtensions = []string{".heic", ".mov", ".jpeg", ".jpg", ".mp4", ".png", ".webp"}

// Config holds all runtime settings. It is populated by [DefaultConfig] and
// then mutated by [ParseArgs] before being passed (by pointer) to packages
// that need it.
type Config struct {
	Stage Stage

	// Paths.
	Directory  string // -d: batch directory (rename, move, process).
	File       string // -f: single file (inspect).
	BaseFolder string // -b: root of the Pictures_YYYY tree (move, process).

	// Behavior flags.
	DryRun      bool
	AutoConfirm bool // Skip the interactive confirmation.
	Recursive   bool // Default: true. Cleared by --no-recursive.

	// Metadata backend.
	Provider     ProviderKind // Default: "auto".
	ExiftoolPath string       // Default: "exiftool" (resolved via PATH).

	// Display and logging.
	Verbose    bool
	ColorMode  ColorMode // Default: "auto".
	LogFile    string    // Optional log file path.
	ReportFile string    // Optional JSON report path.
}

// DefaultConfig returns a Config with the built-in defaults. Used as the base
// before [ParseArgs] applies CLI overrides.
func DefaultConfig() Config {
	return Config{
		Recursive:    true,
		Provider:     ProviderAuto,
		ExiftoolPath: "exiftool",
		ColorMode:    ColorAuto,
	}
}

// ConfigError reports a hard configuration problem. It aborts the run before
// any file is touched.
type ConfigError struct {
	Field string
	Msg   string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

// IsConfigError reports whether err is (or wraps) a *ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks enum fields and the per-stage required arguments.
// Dry-run forces verbose output since a silent dry-run shows nothing.
func (c *Config) Validate() error {
	switch c.Stage {
	case StageRename, StageMove, StageProcess, StageInspect, StageCheck:
		// valid
	default:
		return &ConfigError{Field: "command", Msg: "no action specified (use rename, move, process, inspect or check)"}
	}

	switch c.Provider {
	case ProviderAuto, ProviderExiftool, ProviderNative:
		// valid
	default:
		return &ConfigError{Field: "--provider", Msg: fmt.Sprintf("invalid provider %q (use 'auto', 'exiftool' or 'native')", c.Provider)}
	}

	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return &ConfigError{Field: "--color", Msg: fmt.Sprintf("invalid color mode %q (use 'auto', 'always' or 'never')", c.ColorMode)}
	}

	c.Directory = NormalizeDirArg(c.Directory)
	c.BaseFolder = NormalizeDirArg(c.BaseFolder)

	switch c.Stage {
	case StageRename:
		if c.Directory == "" {
			return &ConfigError{Field: "-d/--directory", Msg: "directory is required"}
		}
	case StageMove, StageProcess:
		if c.Directory == "" {
			return &ConfigError{Field: "-d/--directory", Msg: "directory is required"}
		}
		if c.BaseFolder == "" {
			return &ConfigError{Field: "-b/--basefolder", Msg: "basefolder is required for the " + string(c.Stage) + " stage"}
		}
	case StageInspect:
		if c.File == "" {
			return &ConfigError{Field: "-f/--file", Msg: "file is required"}
		}
	}

	if c.DryRun {
		c.Verbose = true
	}
	return nil
}

// Mutates reports whether the configured stage changes the filesystem when
// not in dry-run mode.
func (c *Config) Mutates() bool {
	switch c.Stage {
	case StageRename, StageMove, StageProcess:
		return !c.DryRun
	}
	return false
}

// ValidatePaths checks that the paths named on the command line exist with the
// right type. The base folder may be missing; it is created on demand.
func (c *Config) ValidatePaths() error {
	switch c.Stage {
	case StageRename, StageMove, StageProcess:
		if err := requireDir("-d/--directory", c.Directory); err != nil {
			return err
		}
		if c.BaseFolder != "" {
			if fi, err := os.Stat(c.BaseFolder); err == nil && !fi.IsDir() {
				return &ConfigError{Field: "-b/--basefolder", Msg: fmt.Sprintf("not a directory: %s", c.BaseFolder)}
			}
		}
	case StageInspect:
		fi, err := os.Stat(c.File)
		if err != nil || fi.IsDir() {
			return &ConfigError{Field: "-f/--file", Msg: fmt.Sprintf("cannot find file: %s%s", c.File, windowsHint(c.File))}
		}
	}
	return nil
}

func requireDir(field, path string) error {
	fi, err := os.Stat(path)
	if err != nil || !fi.IsDir() {
		return &ConfigError{Field: field, Msg: fmt.Sprintf("cannot find directory: %s%s", path, windowsHint(path))}
	}
	return nil
}

// windowsHint adds a note when a Windows drive path is used on a Unix host.
func windowsHint(path string) string {
	if filepath.Separator == '/' && len(path) >= 3 && path[1] == ':' && (path[2] == '/' || path[2] == '\\') {
		return " (looks like a Windows path; under WSL use /mnt/<drive>/...)"
	}
	return ""
}

// IsSupported reports whether name has an extension from the allow-list
// (case-insensitive).
func IsSupported(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range SupportedExtensions {
		if ext == e {
			return true
		}
	}
	return false
}
