package scan

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Candidate media file extensions (lowercase, with leading dot).
var mediaExtensions = map[string]bool{
	".mkv":  true,
	".mp4":  true,
	".m4v":  true,
	".mov":  true,
	".webm": true,
}

// IsCandidate reports whether name has a candidate media extension
// (case-insensitive).
func IsCandidate(name string) bool {
	return mediaExtensions[strings.ToLower(filepath.Ext(name))]
}

// File is a discovered candidate.
type File struct {
	Path string
	Size int64
}

// Discover walks root recursively and collects candidate media files,
// sorted by path for deterministic processing order. Nothing under root is
// modified. An unreadable entry below root is passed to onErr (when non-nil)
// and skipped; only a failure to read root itself is returned.
func Discover(root string, onErr func(path string, err error)) ([]File, error) {
	var files []File
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			if onErr != nil {
				onErr(path, err)
			}
			return nil
		}
		if d.IsDir() || !IsCandidate(d.Name()) {
			return nil
		}

		// Stat follows symlinked files; a link to a directory is not a candidate.
		fi, statErr := os.Stat(path)
		if statErr != nil {
			if onErr != nil {
				onErr(path, statErr)
			}
			files = append(files, File{Path: path})
			return nil
		}
		if fi.IsDir() {
			return nil
		}
		files = append(files, File{Path: path, Size: fi.Size()})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}
