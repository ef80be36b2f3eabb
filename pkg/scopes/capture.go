package scopes

import (
	stderrors "errors"
	"os"
	"path/filepath"

	"github.com/arthur-debert/testscope/pkg/errors"
)

// CaptureOutput redirects the process standard streams for its duration:
// os.Stdin reads the supplied input text, while everything written to
// os.Stdout and os.Stderr accumulates in per-scope buffers that can be
// inspected at any time, even while the scope is still active.
//
// The standard streams are *os.File values, so the buffers are files inside
// a scope-owned temporary directory rather than in-memory objects. With
// merged capture, stdout and stderr share a single file handle: writes
// interleave in the order they happen, at the cost of no longer being
// distinguishable per stream.
type CaptureOutput struct {
	merged bool
	input  string

	dir        *TempDir
	stdinFile  *os.File
	stdoutFile *os.File
	stderrFile *os.File
	patches    *Stack

	active  bool
	outText string
	errText string
}

// NewCaptureOutput returns a CaptureOutput scope. With merged set, stdout and
// stderr share one buffer; input seeds what reads from stdin will return.
func NewCaptureOutput(merged bool, input string) *CaptureOutput {
	return &CaptureOutput{
		merged: merged,
		input:  input,
		dir:    NewTempDir("", "testscope-capture-"),
	}
}

// Enter installs the stream redirections, patching stdin, stdout and stderr
// in that fixed order.
func (c *CaptureOutput) Enter() error {
	if err := c.dir.Enter(); err != nil {
		return err
	}
	if err := c.openBuffers(); err != nil {
		return stderrors.Join(err, c.closeBuffers(), c.dir.Exit())
	}

	c.patches = NewStack(
		PatchVar(&os.Stdin, c.stdinFile),
		PatchVar(&os.Stdout, c.stdoutFile),
		PatchVar(&os.Stderr, c.stderrFile),
	)
	if err := c.patches.Enter(); err != nil {
		return stderrors.Join(err, c.closeBuffers(), c.dir.Exit())
	}
	c.active = true
	return nil
}

// Exit restores the original stream objects in reverse order of patching,
// then releases the backing buffers. The captured text stays readable via
// Output and ErrorOutput after the scope has exited.
func (c *CaptureOutput) Exit() error {
	if !c.active {
		return c.dir.Exit()
	}
	c.active = false
	c.outText = c.readBuffer(c.stdoutFile.Name())
	c.errText = c.readBuffer(c.stderrFile.Name())
	return stderrors.Join(c.patches.Exit(), c.closeBuffers(), c.dir.Exit())
}

// Output returns the text written to the captured stdout so far. With merged
// capture this includes stderr writes, interleaved in write order.
func (c *CaptureOutput) Output() string {
	if c.active {
		return c.readBuffer(c.stdoutFile.Name())
	}
	return c.outText
}

// ErrorOutput returns the text written to the captured stderr so far. With
// merged capture it is identical to Output.
func (c *CaptureOutput) ErrorOutput() string {
	if c.active {
		return c.readBuffer(c.stderrFile.Name())
	}
	return c.errText
}

func (c *CaptureOutput) openBuffers() error {
	stdinPath := filepath.Join(c.dir.Path(), "stdin")
	if err := os.WriteFile(stdinPath, []byte(c.input), 0o600); err != nil {
		return errors.Wrap(err, errors.ErrCaptureIO, "failed to seed stdin buffer")
	}
	stdin, err := os.Open(stdinPath)
	if err != nil {
		return errors.Wrap(err, errors.ErrCaptureIO, "failed to open stdin buffer")
	}
	c.stdinFile = stdin

	stdout, err := os.OpenFile(filepath.Join(c.dir.Path(), "stdout"), os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return errors.Wrap(err, errors.ErrCaptureIO, "failed to open stdout buffer")
	}
	c.stdoutFile = stdout

	if c.merged {
		// One shared handle keeps the write offset common to both streams.
		c.stderrFile = stdout
		return nil
	}
	stderr, err := os.OpenFile(filepath.Join(c.dir.Path(), "stderr"), os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return errors.Wrap(err, errors.ErrCaptureIO, "failed to open stderr buffer")
	}
	c.stderrFile = stderr
	return nil
}

func (c *CaptureOutput) closeBuffers() error {
	var errs []error
	if c.stdinFile != nil {
		errs = append(errs, c.stdinFile.Close())
		c.stdinFile = nil
	}
	if c.stdoutFile != nil {
		errs = append(errs, c.stdoutFile.Close())
	}
	if c.stderrFile != nil && c.stderrFile != c.stdoutFile {
		errs = append(errs, c.stderrFile.Close())
	}
	c.stdoutFile = nil
	c.stderrFile = nil
	return stderrors.Join(errs...)
}

func (c *CaptureOutput) readBuffer(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return string(data)
}
