// Package check provides system diagnostics (the check command) and the
// pre-run dependency validation (CheckDeps) for the metadata backends.
package check

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/backmassage/photodater/internal/config"
	"github.com/backmassage/photodater/internal/metadata"
)

// Sentinel errors returned by CheckDeps when exiftool is required but unusable.
var (
	ErrExiftoolNotFound = errors.New("exiftool not found on PATH")
	ErrExiftoolBroken   = errors.New("exiftool found but `exiftool -ver` failed")
)

// versionTimeout bounds the `exiftool -ver` probe.
const versionTimeout = 10 * time.Second

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(bool, string, ...interface{})
}

// RunCheck prints the availability of exiftool and the native decoders.
// It returns false only when the configured provider cannot work.
func RunCheck(cfg *config.Config, log Logger) bool {
	log.Info("=== System Check ===")

	exiftoolOK := checkExiftool(cfg.ExiftoolPath, log)
	checkNative(log)

	switch cfg.Provider {
	case config.ProviderExiftool:
		if !exiftoolOK {
			log.Error("Provider exiftool selected but exiftool is unusable")
			return false
		}
		log.Success("Provider: exiftool")
	case config.ProviderNative:
		log.Success("Provider: native")
	default:
		if exiftoolOK {
			log.Success("Provider (auto): exiftool")
		} else {
			log.Warn("Provider (auto): native (install exiftool for full format coverage)")
		}
	}
	return true
}

func checkExiftool(binary string, log Logger) bool {
	v, err := ExiftoolVersion(context.Background(), binary)
	if err != nil {
		log.Error("%v", err)
		return false
	}
	log.Success("exiftool: %s", v)
	return true
}

func checkNative(log Logger) {
	log.Info("Native decoders:")
	for _, d := range metadata.NativeDecoders {
		log.Info("  %-18s %s (%s)", strings.Join(d.Exts, " "), d.Library, d.Reads)
	}
}

// CheckDeps is the pre-run validation. With the exiftool provider it
// verifies that the binary exists and answers `-ver`; the other providers
// need nothing external.
func CheckDeps(cfg *config.Config) error {
	if cfg.Provider != config.ProviderExiftool {
		return nil
	}
	_, err := ExiftoolVersion(context.Background(), cfg.ExiftoolPath)
	return err
}

// ExiftoolVersion runs `<binary> -ver` and returns the trimmed version string.
func ExiftoolVersion(ctx context.Context, binary string) (string, error) {
	if binary == "" {
		binary = "exiftool"
	}
	path, err := exec.LookPath(binary)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrExiftoolNotFound, binary)
	}
	ctx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()
	out, err := exec.CommandContext(ctx, path, "-ver").Output()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExiftoolBroken, err)
	}
	v := strings.TrimSpace(string(out))
	if v == "" {
		return "", fmt.Errorf("%w: empty output", ErrExiftoolBroken)
	}
	return v, nil
}
