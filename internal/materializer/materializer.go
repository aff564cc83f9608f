// Package materializer writes generated file sets beneath a project root.
package materializer

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/nestify-dev/nestify/internal/generator"
)

// ErrPathTraversal indicates a generated path would land outside the root.
var ErrPathTraversal = errors.New("materializer: path escapes project root")

const (
	dirPerm  fs.FileMode = 0o755
	filePerm fs.FileMode = 0o644
)

// @MX:ANCHOR: [AUTO] Every byte nestify writes to disk goes through Apply.
// @MX:REASON: Called after the pipeline, after Prisma bootstrap and after auth generation.
// Apply creates the marker directories of set and writes every file beneath
// root in lexical path order, creating missing parents. Existing files are
// overwritten and nothing is ever deleted. The first failure aborts the run;
// files written before it stay on disk. It returns the written paths.
func Apply(root string, set generator.FileSet) ([]string, error) {
	root = filepath.Clean(root)

	dirs := slices.Clone(set.Dirs)
	slices.Sort(dirs)
	for _, rel := range dirs {
		dst, err := resolve(root, rel)
		if err != nil {
			return nil, err
		}
		if err := os.MkdirAll(dst, dirPerm); err != nil {
			return nil, errors.Wrapf(err, "create directory %s", rel)
		}
	}

	paths := set.Paths()
	written := make([]string, 0, len(paths))
	for _, rel := range paths {
		dst, err := resolve(root, rel)
		if err != nil {
			return written, err
		}
		if err := os.MkdirAll(filepath.Dir(dst), dirPerm); err != nil {
			return written, errors.Wrapf(err, "create parent of %s", rel)
		}
		if err := writeFile(dst, []byte(set.Files[rel]), filePerm); err != nil {
			return written, errors.Wrapf(err, "write %s", rel)
		}
		written = append(written, rel)
	}
	return written, nil
}

// resolve maps a forward-slash relative path to a location under root.
func resolve(root, rel string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(rel))

	if rel == "" || filepath.IsAbs(cleaned) || strings.HasPrefix(rel, "/") {
		return "", errors.Wrapf(ErrPathTraversal, "absolute or empty path %q", rel)
	}
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", errors.Wrapf(ErrPathTraversal, "parent reference in %q", rel)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", errors.Wrap(err, "resolve project root")
	}
	dst := filepath.Join(absRoot, cleaned)
	if !strings.HasPrefix(dst, absRoot+string(filepath.Separator)) {
		return "", errors.Wrapf(ErrPathTraversal, "%q", rel)
	}
	return dst, nil
}
