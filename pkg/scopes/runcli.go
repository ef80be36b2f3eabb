package scopes

import (
	stderrors "errors"
	"fmt"
	"os"
)

// ExitError is the in-process analog of a command calling os.Exit: entry
// points under test return it to signal termination with an explicit status
// code instead of killing the test process.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// Exit returns an ExitError carrying the given status code.
func Exit(code int) error {
	return &ExitError{Code: code}
}

type cliConfig struct {
	input       string
	merged      bool
	programName string
}

// CLIOption adjusts how RunCLI invokes an entry point.
type CLIOption func(*cliConfig)

// WithInput seeds the text the entry point reads from stdin.
func WithInput(input string) CLIOption {
	return func(cfg *cliConfig) {
		cfg.input = input
	}
}

// WithMergedStreams captures stdout and stderr into a single buffer,
// preserving write order.
func WithMergedStreams() CLIOption {
	return func(cfg *cliConfig) {
		cfg.merged = true
	}
}

// WithProgramName overrides os.Args[0] for the duration of the invocation.
func WithProgramName(name string) CLIOption {
	return func(cfg *cliConfig) {
		cfg.programName = name
	}
}

// RunCLI runs an in-process command line entry point with captured standard
// streams and an injected argument vector. It returns the entry point's
// return code and the captured output.
//
// An entry point returning nil yields return code 0; one returning an
// ExitError yields that error's code. Any other failure is returned to the
// caller as-is, never converted into a return code.
func RunCLI(entry func() error, args []string, opts ...CLIOption) (int, string, error) {
	cfg := cliConfig{programName: os.Args[0]}
	for _, opt := range opts {
		opt(&cfg)
	}

	capture := NewCaptureOutput(cfg.merged, cfg.input)
	returncode := 0
	err := With(capture, func() error {
		argv := append([]string{cfg.programName}, args...)
		return With(PatchVar(&os.Args, argv), func() error {
			err := entry()
			var exitErr *ExitError
			switch {
			case err == nil:
				returncode = 0
			case stderrors.As(err, &exitErr):
				returncode = exitErr.Code
			default:
				return err
			}
			return nil
		})
	})
	if err != nil {
		return 0, capture.Output(), err
	}
	return returncode, capture.Output(), nil
}
