//go:build windows

package materializer

import "os"

// writeFile falls back to a plain write; renameio does not support Windows.
func writeFile(filename string, data []byte, perm os.FileMode) error {
	return os.WriteFile(filename, data, perm)
}
