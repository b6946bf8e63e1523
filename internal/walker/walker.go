package internalwalker

import (
	"iter"
	"path/filepath"

	"github.com/spf13/afero"
)

// Ancestors yields start and each of its parent directories up to and including the filesystem root.
//
// It is a pure function of start: no filesystem access happens.
func Ancestors(start string) iter.Seq[string] {
	return func(yield func(string) bool) {
		current := filepath.Clean(start)
		for {
			if !yield(current) {
				return
			}
			parent := filepath.Dir(current)
			if parent == current {
				return
			}
			current = parent
		}
	}
}

// Candidates yields <ancestor>/<subpath> for every ancestor of start, nearest first, keeping only existing regular files.
//
// Existence is the only check performed; files are never opened.
func Candidates(fs afero.Fs, start, subpath string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for dir := range Ancestors(start) {
			candidate := filepath.Join(dir, subpath)
			info, err := fs.Stat(candidate)
			if err != nil || info.IsDir() {
				continue
			}
			if !yield(candidate) {
				return
			}
		}
	}
}
