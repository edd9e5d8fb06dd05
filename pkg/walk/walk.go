// Package walk lists the files nested under a directory.
package walk

import (
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/sidkik/template-sync/pkg/errors"
)

// MaxDepth is the deepest directory nesting that Files descends into. It
// bounds the walk on filesystems that can't report directory identities.
const MaxDepth = 255

// Files returns the paths of all non-directory entries under `root`, at any
// depth. Directories themselves aren't included.
// Symlinks are followed. A symlink to one of its own ancestor directories is
// not descended into.
// If `root` doesn't exist or isn't a directory, the result is empty. Any
// failure to read a directory aborts the walk.
func Files(fs afero.Fs, root string) ([]string, error) {
	w := walker{fs: fs, maxDepth: MaxDepth}
	return w.files(root)
}

type walker struct {
	fs       afero.Fs
	maxDepth int
}

func (w walker) files(root string) ([]string, error) {
	rootInfo, err := w.fs.Stat(root)
	if err != nil || !rootInfo.IsDir() {
		return nil, nil
	}

	var files []string
	if err := w.walk(root, []os.FileInfo{rootInfo}, &files); err != nil {
		return nil, err
	}
	return files, nil
}

// walk appends the files under `dir` to `files`. `ancestors` holds the stat
// results of every directory from the root down to and including `dir`.
func (w walker) walk(dir string, ancestors []os.FileInfo, files *[]string) error {
	if depth := len(ancestors) - 1; depth > w.maxDepth {
		return errors.New("directory %q is nested more than %d levels deep", dir, w.maxDepth)
	}

	entries, err := afero.ReadDir(w.fs, dir)
	if err != nil {
		return errors.WithContext(err, fmt.Sprintf("read dir %q", dir))
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())

		info := entry
		if entry.Mode()&os.ModeSymlink != 0 {
			// Broken symlinks are treated as files.
			if target, err := w.fs.Stat(path); err == nil {
				info = target
			}
		}

		if !info.IsDir() {
			*files = append(*files, path)
			continue
		}

		if isAncestor(ancestors, info) {
			log.WithField("path", path).Debug("Not descending into symlink cycle")
			continue
		}

		if err := w.walk(path, append(ancestors, info), files); err != nil {
			return err
		}
	}
	return nil
}

func isAncestor(ancestors []os.FileInfo, dir os.FileInfo) bool {
	for _, ancestor := range ancestors {
		if os.SameFile(ancestor, dir) {
			return true
		}
	}
	return false
}
