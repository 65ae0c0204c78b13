package fsx

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func write(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestOS_ReadDirSorted(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"c.jpg", "a.mov", "b.txt"} {
		write(t, filepath.Join(dir, n), "x")
	}
	got, err := OS{}.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"a.mov", "b.txt", "c.jpg"}
	if len(got) != len(want) {
		t.Fatalf("ReadDir = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ReadDir[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if _, err := (OS{}).ReadDir(filepath.Join(dir, "missing")); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("ReadDir missing dir error = %v, want fs.ErrNotExist", err)
	}
}

func TestOS_Exists(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "a.jpg"), "x")
	tests := []struct {
		path string
		want bool
	}{
		{filepath.Join(dir, "a.jpg"), true},
		{dir, true},
		{filepath.Join(dir, "b.jpg"), false},
	}
	for _, tt := range tests {
		got, err := OS{}.Exists(tt.path)
		if err != nil {
			t.Fatalf("Exists(%q): %v", tt.path, err)
		}
		if got != tt.want {
			t.Errorf("Exists(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestOS_MoveCreatesNothingExtra(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "IMG_0001.jpg")
	dst := filepath.Join(dir, "20230601-143000-000.jpg")
	write(t, src, "pixels")

	if err := (OS{}).Move(src, dst); err != nil {
		t.Fatalf("Move: %v", err)
	}
	if _, err := os.Stat(src); !errors.Is(err, fs.ErrNotExist) {
		t.Error("source still exists after move")
	}
	b, err := os.ReadFile(dst)
	if err != nil || string(b) != "pixels" {
		t.Errorf("destination content = %q, %v", b, err)
	}
}

func TestOS_MoveNoClobber(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.jpg")
	dst := filepath.Join(dir, "b.jpg")
	write(t, src, "new")
	write(t, dst, "old")

	err := OS{}.Move(src, dst)
	if !errors.Is(err, fs.ErrExist) {
		t.Fatalf("Move onto existing file error = %v, want fs.ErrExist", err)
	}
	if !IsIOError(err) {
		t.Errorf("error type = %T, want *IOError", err)
	}
	b, _ := os.ReadFile(dst)
	if string(b) != "old" {
		t.Errorf("destination was overwritten: %q", b)
	}
	if _, err := os.Stat(src); err != nil {
		t.Errorf("source should remain: %v", err)
	}
}

func TestOS_MoveRenameFailure(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.jpg")
	write(t, src, "x")

	old := renameFunc
	renameFunc = func(string, string) error { return os.ErrPermission }
	defer func() { renameFunc = old }()

	err := OS{}.Move(src, filepath.Join(dir, "b.jpg"))
	var ioe *IOError
	if !errors.As(err, &ioe) {
		t.Fatalf("error = %v, want *IOError", err)
	}
	if ioe.Op != "move" || !errors.Is(err, os.ErrPermission) {
		t.Errorf("IOError = %+v", ioe)
	}
}

func TestOS_MkdirAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "Pictures_2023", "06_2023")
	if err := (OS{}).MkdirAll(dir); err != nil {
		t.Fatal(err)
	}
	fi, err := os.Stat(dir)
	if err != nil || !fi.IsDir() {
		t.Fatalf("MkdirAll did not create %s: %v", dir, err)
	}
}
