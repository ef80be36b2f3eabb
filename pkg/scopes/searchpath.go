package scopes

import (
	"os"
	"strings"

	"github.com/arthur-debert/testscope/pkg/logging"
)

// searchPathVar is the environment variable consulted for executable lookup.
const searchPathVar = "PATH"

// SearchPath temporarily redirects executable lookup through a fresh
// temporary directory. It composes a TempDir with an ItemPatch over the
// process environment: the directory is created first, then PATH is patched;
// on Exit PATH is restored first, then the directory is removed (reverse
// order of acquisition).
type SearchPath struct {
	// Isolated controls whether the temporary directory replaces the search
	// path entirely (true) or is prepended to it (false).
	Isolated bool

	tempDir *TempDir
	patch   *ItemPatch[string, string]
}

// NewSearchPath returns a SearchPath scope. With isolated set, the original
// search path is cleared for the duration; otherwise the temporary directory
// is added to the front.
func NewSearchPath(isolated bool) *SearchPath {
	return &SearchPath{
		Isolated: isolated,
		tempDir:  NewTempDir("", "testscope-path-"),
	}
}

// Dir returns the directory placed on the search path, or "" outside the
// scope. Callers typically install custom executables into it.
func (s *SearchPath) Dir() string {
	return s.tempDir.Path()
}

// currentSearchPath returns the value of PATH, which may be empty.
func (s *SearchPath) currentSearchPath() string {
	return os.Getenv(searchPathVar)
}

// Enter creates the temporary directory and patches PATH to point at it.
func (s *SearchPath) Enter() error {
	if err := s.tempDir.Enter(); err != nil {
		return err
	}
	dir := s.tempDir.Path()

	value := dir
	if !s.Isolated {
		if current := s.currentSearchPath(); current != "" {
			value = strings.Join([]string{dir, current}, string(os.PathListSeparator))
		}
	}

	s.patch = PatchItem(Environ(), searchPathVar, value)
	if err := s.patch.Enter(); err != nil {
		// PATH untouched; undo the directory so Enter fails cleanly.
		removeErr := s.tempDir.Exit()
		if removeErr != nil {
			logger := logging.GetLogger("scopes.searchpath")
			logger.Warn().Err(removeErr).Msg("Failed to remove temporary directory while unwinding")
		}
		return err
	}

	logger := logging.GetLogger("scopes.searchpath")
	logger.Debug().Str("dir", dir).Bool("isolated", s.Isolated).Msg("Search path redirected")
	return nil
}

// Exit restores the original search path, then removes the directory.
func (s *SearchPath) Exit() error {
	if s.patch != nil {
		if err := s.patch.Exit(); err != nil {
			return err
		}
		s.patch = nil
	}
	return s.tempDir.Exit()
}
