//go:build !windows

package report

import (
	"github.com/google/renameio/v2"
)

// writeFileAtomic writes data to a temp file next to path, fsyncs it and
// renames it over path, so readers never observe a partial report.
func writeFileAtomic(path string, data []byte) error {
	pending, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o644))
	if err != nil {
		return err
	}
	defer func() { _ = pending.Cleanup() }()

	if _, err := pending.Write(data); err != nil {
		return err
	}
	return pending.CloseAtomicallyReplace()
}
