//go:build !windows

package materializer

import (
	"os"

	"github.com/google/renameio/v2"
)

// writeFile replaces filename atomically: readers see either the old or the
// new content, never a truncated file.
func writeFile(filename string, data []byte, perm os.FileMode) error {
	return renameio.WriteFile(filename, data, perm)
}
