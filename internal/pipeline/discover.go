package pipeline

import (
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/backmassage/photodater/internal/config"
	"github.com/backmassage/photodater/internal/planner"
)

// Discover walks root and returns the supported media files sorted by path.
// Files with other extensions are never returned, so nothing downstream can
// touch them. With recursive false only root itself is listed.
//
// A symlinked root is followed; returned paths stay under root as given.
// Symlinks below root are skipped.
func Discover(root string, recursive bool) ([]planner.MediaFile, error) {
	walkRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return nil, err
	}
	var files []planner.MediaFile
	err = filepath.WalkDir(walkRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if !recursive && path != walkRoot {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || !config.IsSupported(d.Name()) {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(walkRoot, path)
		if err != nil {
			return err
		}
		files = append(files, planner.NewMediaFile(filepath.Join(root, rel), fi.Size()))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// groupByDir splits files by parent directory, preserving order inside each
// group. The directories are returned sorted.
func groupByDir(files []planner.MediaFile) ([]string, map[string][]planner.MediaFile) {
	groups := make(map[string][]planner.MediaFile)
	var dirs []string
	for _, f := range files {
		if _, ok := groups[f.Dir]; !ok {
			dirs = append(dirs, f.Dir)
		}
		groups[f.Dir] = append(groups[f.Dir], f)
	}
	sort.Strings(dirs)
	return dirs, groups
}
