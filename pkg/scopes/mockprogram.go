package scopes

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/arthur-debert/testscope/pkg/errors"
	"github.com/arthur-debert/testscope/pkg/logging"
)

// MockedProgram materializes a fake executable on the search path. The
// executable records that it ran by creating a uniquely named signal file and
// exits with the configured code. Exit fails with a PROGRAM_NOT_RUN error
// when the program was never invoked during the scope; resource teardown
// still runs in that case.
type MockedProgram struct {
	// Name is the executable name resolved via the search path.
	Name string

	// ReturnCode is the exit status the mock emits, zero by default.
	ReturnCode int

	searchPath *SearchPath
	signalFile string
}

// NewMockedProgram returns a MockedProgram scope for the named executable.
func NewMockedProgram(name string, returncode int) *MockedProgram {
	return &MockedProgram{
		Name:       name,
		ReturnCode: returncode,
		searchPath: NewSearchPath(false),
	}
}

// Dir returns the search-path directory holding the mock, or "" outside the
// scope.
func (m *MockedProgram) Dir() string {
	return m.searchPath.Dir()
}

// SignalFile returns the marker file the mock creates when invoked, or ""
// outside the scope.
func (m *MockedProgram) SignalFile() string {
	return m.signalFile
}

// Enter redirects the search path and writes the mock executable into it.
func (m *MockedProgram) Enter() error {
	if err := m.searchPath.Enter(); err != nil {
		return err
	}
	dir := m.searchPath.Dir()

	// The signal file name is randomized per instance so concurrent test
	// runs sharing a filesystem cannot observe each other's markers.
	m.signalFile = filepath.Join(dir, "program-was-run-"+randomToken(10))

	script := fmt.Sprintf("#!/bin/sh\necho > %s\nexit %d\n", shellQuote(m.signalFile), m.ReturnCode)
	pathname := filepath.Join(dir, m.Name)
	if err := os.WriteFile(pathname, []byte(script), 0o755); err != nil {
		writeErr := errors.Wrapf(err, errors.ErrMockWrite, "failed to write mock executable %s", pathname)
		return stderrors.Join(writeErr, m.searchPath.Exit())
	}

	logger := logging.GetLogger("scopes.mockprogram")
	logger.Debug().Str("program", m.Name).Str("path", pathname).Int("returncode", m.ReturnCode).Msg("Mock program installed")
	return nil
}

// Exit verifies the mock was actually invoked, then restores the search path
// and removes the directory. The verification failure is reported even when
// teardown succeeds; teardown is never skipped.
func (m *MockedProgram) Exit() error {
	var checkErr error
	if m.signalFile == "" {
		checkErr = errors.Newf(errors.ErrProgramNotRun, "it looks like %q was never run!", m.Name)
	} else if _, err := os.Stat(m.signalFile); err != nil {
		checkErr = errors.Newf(errors.ErrProgramNotRun, "it looks like %q was never run!", m.Name).
			WithDetail("signal_file", m.signalFile)
	}
	return stderrors.Join(checkErr, m.searchPath.Exit())
}
