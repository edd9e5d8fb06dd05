package sync

import (
	"path/filepath"
	"strings"
)

// IgnoreList contains relative path suffixes of template files that must
// never be overwritten from the instance.
// A suffix matches anywhere in the tree, so `.release-please-manifest.json`
// also ignores `sub/.release-please-manifest.json`.
type IgnoreList []string

// Matches returns whether `relativePath` ends with any suffix in the list.
// Paths are compared with forward slashes regardless of the OS. Empty
// entries never match.
func (ignore IgnoreList) Matches(relativePath string) bool {
	path := filepath.ToSlash(relativePath)
	for _, suffix := range ignore {
		if suffix != "" && strings.HasSuffix(path, suffix) {
			return true
		}
	}
	return false
}
