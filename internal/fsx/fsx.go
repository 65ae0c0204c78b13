// Package fsx is the filesystem capability used by the planners and the
// executor: listing a directory, existence checks, directory creation, and a
// no-clobber move that also works across filesystems.
package fsx

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// Replaceable so tests can simulate EXDEV and other rename failures.
var renameFunc = os.Rename

// FS is the set of filesystem operations the pipeline needs.
type FS interface {
	// ReadDir returns the sorted names of the entries in dir. A missing
	// directory yields an error satisfying errors.Is(err, fs.ErrNotExist).
	ReadDir(dir string) ([]string, error)
	// Exists reports whether path exists (file or directory).
	Exists(path string) (bool, error)
	// MkdirAll creates dir and any missing parents.
	MkdirAll(dir string) error
	// Move renames src to dst. It never overwrites an existing dst.
	Move(src, dst string) error
}

// IOError is a failed filesystem operation on one path.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// IsIOError reports whether err is or wraps an *IOError.
func IsIOError(err error) bool {
	var e *IOError
	return errors.As(err, &e)
}

// OS is the FS backed by the real filesystem.
type OS struct{}

var _ FS = OS{}

func (OS) ReadDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

func (OS) Exists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

func (OS) MkdirAll(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &IOError{Op: "mkdir", Path: dir, Err: err}
	}
	return nil
}

// Move renames src to dst. When the rename crosses filesystems (EXDEV) the
// file is copied, synced, and the source removed. An existing dst is left
// alone and reported as fs.ErrExist.
func (OS) Move(src, dst string) error {
	if _, err := os.Lstat(dst); err == nil {
		return &IOError{Op: "move", Path: dst, Err: fs.ErrExist}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return &IOError{Op: "move", Path: dst, Err: err}
	}
	err := renameFunc(src, dst)
	if err == nil {
		return nil
	}
	if !isEXDEV(err) {
		return &IOError{Op: "move", Path: src, Err: err}
	}
	if err := copyFile(src, dst); err != nil {
		return &IOError{Op: "copy", Path: src, Err: err}
	}
	if err := os.Remove(src); err != nil {
		return &IOError{Op: "remove", Path: src, Err: err}
	}
	syncDirBestEffort(filepath.Dir(dst))
	return nil
}

// copyFile copies src to a new file dst (O_EXCL), preserving mode and
// modification time. A partial dst is removed on failure.
func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	fi, err := in.Stat()
	if err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, fi.Mode().Perm())
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = out.Close()
			_ = os.Remove(dst)
		}
	}()

	if _, err = io.Copy(out, in); err != nil {
		return err
	}
	if err = out.Sync(); err != nil {
		return err
	}
	if err = out.Close(); err != nil {
		return err
	}
	return os.Chtimes(dst, fi.ModTime(), fi.ModTime())
}

func syncDirBestEffort(dir string) {
	f, err := os.Open(dir)
	if err != nil {
		return
	}
	defer f.Close()
	_ = f.Sync()
}
