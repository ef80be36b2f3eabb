package scopes

import (
	"os"

	"github.com/arthur-debert/testscope/pkg/errors"
	"github.com/arthur-debert/testscope/pkg/logging"
)

// TempDir creates a uniquely named temporary directory on Enter and removes
// the whole tree on Exit. Exit is idempotent: once the directory has been
// removed, a second Exit is a no-op.
type TempDir struct {
	// Parent is the directory the temporary directory is created in.
	// Empty means the operating system default (os.TempDir).
	Parent string

	// Pattern names the directory per os.MkdirTemp: a trailing "*" is
	// replaced by a random string, otherwise the random string is appended.
	Pattern string

	path string
}

// NewTempDir returns a TempDir scope with the given creation options.
func NewTempDir(parent, pattern string) *TempDir {
	return &TempDir{Parent: parent, Pattern: pattern}
}

// Path returns the directory created by Enter, or "" outside the scope.
func (d *TempDir) Path() string {
	return d.path
}

// Enter creates the temporary directory and returns nil on success.
func (d *TempDir) Enter() error {
	path, err := os.MkdirTemp(d.Parent, d.Pattern)
	if err != nil {
		return errors.Wrap(err, errors.ErrTempDirCreate, "failed to create temporary directory")
	}
	d.path = path

	logger := logging.GetLogger("scopes.tempdir")
	logger.Trace().Str("path", path).Msg("Created temporary directory")
	return nil
}

// Exit recursively removes the directory tree. The protected body may have
// emptied or even removed the directory itself; that is fine. Unexpected
// removal failures (e.g. permission denial) propagate.
func (d *TempDir) Exit() error {
	if d.path == "" {
		return nil
	}
	path := d.path
	d.path = ""

	if err := os.RemoveAll(path); err != nil {
		return errors.Wrapf(err, errors.ErrTempDirRemove, "failed to remove temporary directory %s", path)
	}

	logger := logging.GetLogger("scopes.tempdir")
	logger.Trace().Str("path", path).Msg("Removed temporary directory")
	return nil
}
