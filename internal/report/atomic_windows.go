//go:build windows

package report

import "os"

// writeFileAtomic falls back to a plain write; renameio's pending files are
// not available on Windows.
func writeFileAtomic(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}
