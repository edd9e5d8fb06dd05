package sync

import (
	"io"
	"os"

	"github.com/sidkik/template-sync/pkg/errors"
)

// copyFile overwrites `dst` with the contents of `src`, and sets the
// permissions of `dst` to those of `src`. `dst` is created if it doesn't
// exist.
func copyFile(src, dst string) error {
	in, err := fs.Open(src)
	if err != nil {
		return errors.WithContext(err, "open source")
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return errors.WithContext(err, "stat source")
	}

	out, err := fs.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return errors.WithContext(err, "open destination")
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return errors.WithContext(err, "copy")
	}

	if err := out.Close(); err != nil {
		return errors.WithContext(err, "close destination")
	}

	if err := fs.Chmod(dst, info.Mode().Perm()); err != nil {
		return errors.WithContext(err, "chmod")
	}
	return nil
}
