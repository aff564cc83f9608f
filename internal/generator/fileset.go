// Package generator turns a validated project configuration into file sets.
//
// Each generator is a pure function of [models.ProjectConfig]: no clock, no
// randomness, no filesystem or process access. The command flow runs the
// generators returned by [Pipeline] in order and hands the merged set to the
// materializer.
package generator

import (
	"maps"
	"slices"

	"github.com/cockroachdb/errors"
)

// ErrPathCollision is returned when two generators emit the same path.
var ErrPathCollision = errors.New("generator: path emitted twice")

// FileSet maps forward-slash paths relative to the project root to file
// content. Dirs lists directories that must exist even without content.
type FileSet struct {
	Files map[string]string
	Dirs  []string
}

// NewFileSet returns an empty set ready for use.
func NewFileSet() FileSet {
	return FileSet{Files: map[string]string{}}
}

// Add records one file. Adding an existing path is a programming error
// inside a single generator and reports ErrPathCollision.
func (s FileSet) Add(path, content string) error {
	if _, ok := s.Files[path]; ok {
		return errors.Wrapf(ErrPathCollision, "%s", path)
	}
	s.Files[path] = content
	return nil
}

// Len returns the number of files in the set.
func (s FileSet) Len() int {
	return len(s.Files)
}

// Paths returns the file paths in lexical order.
func (s FileSet) Paths() []string {
	return slices.Sorted(maps.Keys(s.Files))
}

// Merge returns the union of s and other, failing on any shared file path.
func (s FileSet) Merge(other FileSet) (FileSet, error) {
	out := FileSet{Files: maps.Clone(s.Files), Dirs: slices.Clone(s.Dirs)}
	if out.Files == nil {
		out.Files = map[string]string{}
	}
	for _, p := range other.Paths() {
		if err := out.Add(p, other.Files[p]); err != nil {
			return FileSet{}, err
		}
	}
	for _, d := range other.Dirs {
		if !slices.Contains(out.Dirs, d) {
			out.Dirs = append(out.Dirs, d)
		}
	}
	return out, nil
}
