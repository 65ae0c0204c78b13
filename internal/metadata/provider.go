package metadata

import (
	"context"
	"fmt"
	"os/exec"
	"sort"

	"github.com/backmassage/photodater/internal/config"
)

// Fields maps metadata field names to their raw string values.
type Fields map[string]string

// Names returns the field names in sorted order.
func (f Fields) Names() []string {
	names := make([]string, 0, len(f))
	for k := range f {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Provider returns the metadata fields of one file, or an error when the
// backend cannot read it.
type Provider interface {
	Fields(ctx context.Context, path string) (Fields, error)
}

// ProviderFunc adapts a plain function to [Provider].
type ProviderFunc func(ctx context.Context, path string) (Fields, error)

// Fields calls f(ctx, path).
func (f ProviderFunc) Fields(ctx context.Context, path string) (Fields, error) {
	return f(ctx, path)
}

// Backend is an opened Provider together with its display name and the
// resources it holds. Close must be called when the run ends.
type Backend struct {
	Provider
	Name string

	close func() error
}

// Close releases the backend's resources (the exiftool process, if any).
func (b *Backend) Close() error {
	if b.close == nil {
		return nil
	}
	err := b.close()
	b.close = nil
	return err
}

// Open starts the backend selected by kind. With [config.ProviderAuto]
// exiftool is used when exiftoolPath resolves on PATH and the native
// decoders otherwise.
func Open(kind config.ProviderKind, exiftoolPath string) (*Backend, error) {
	if kind == config.ProviderAuto {
		kind = config.ProviderNative
		if _, err := exec.LookPath(exiftoolPath); err == nil {
			kind = config.ProviderExiftool
		}
	}

	switch kind {
	case config.ProviderExiftool:
		p, err := NewExiftool(exiftoolPath)
		if err != nil {
			return nil, err
		}
		return &Backend{Provider: p, Name: "exiftool", close: p.Close}, nil
	case config.ProviderNative:
		return &Backend{Provider: NewNative(), Name: "native"}, nil
	default:
		return nil, fmt.Errorf("unknown metadata provider %q", kind)
	}
}
