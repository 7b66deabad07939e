package pipeline

import (
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"
)

// Watcher records the contents of a directory tree so that files
// generated later can be identified and, if desired, removed.
type Watcher struct {
	root string
	seen map[string]struct{}
}

// Watch snapshots the tree under root.
func Watch(root string) (*Watcher, error) {
	w := &Watcher{root: root, seen: make(map[string]struct{})}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		w.seen[path] = struct{}{}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "snapshotting %s", root)
	}
	return w, nil
}

// NewFiles returns the paths present now that were absent at snapshot
// time, deepest first so directories can be removed after their contents.
func (w *Watcher) NewFiles() ([]string, error) {
	var out []string
	err := filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if _, ok := w.seen[path]; !ok {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "rescanning %s", w.root)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(out)))
	return out, nil
}

// Cleanup applies action to every generated path and returns the paths.
// A nil action only reports.
func (w *Watcher) Cleanup(action func(string) error) ([]string, error) {
	files, err := w.NewFiles()
	if err != nil {
		return nil, err
	}
	if action == nil {
		return files, nil
	}
	for _, f := range files {
		if err := action(f); err != nil {
			return files, errors.Wrapf(err, "cleaning up %s", f)
		}
	}
	return files, nil
}
