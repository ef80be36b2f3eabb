package scopes

import (
	"bufio"
	stderrors "errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCLICapturesOutputAndExitCode(t *testing.T) {
	code, output, err := RunCLI(func() error {
		fmt.Print("hello")
		return Exit(3)
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, 3, code)
	assert.Equal(t, "hello", output)
}

func TestRunCLIDefaultsToZero(t *testing.T) {
	code, output, err := RunCLI(func() error {
		fmt.Print("fine")
		return nil
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "fine", output)
}

func TestRunCLIInjectsArguments(t *testing.T) {
	var seen []string
	_, _, err := RunCLI(func() error {
		seen = append([]string(nil), os.Args...)
		return nil
	}, []string{"--count", "3"}, WithProgramName("mytool"))

	require.NoError(t, err)
	assert.Equal(t, []string{"mytool", "--count", "3"}, seen)
}

func TestRunCLIRestoresArguments(t *testing.T) {
	original := append([]string(nil), os.Args...)

	_, _, err := RunCLI(func() error { return nil }, []string{"injected"})

	require.NoError(t, err)
	assert.Equal(t, original, os.Args)
}

func TestRunCLIPropagatesEntryPointErrors(t *testing.T) {
	boom := fmt.Errorf("entry point exploded")
	_, output, err := RunCLI(func() error {
		fmt.Print("before failure")
		return boom
	}, nil)

	assert.True(t, stderrors.Is(err, boom), "unhandled failures must not become return codes")
	assert.Equal(t, "before failure", output)
}

func TestRunCLIFeedsInput(t *testing.T) {
	code, output, err := RunCLI(func() error {
		line, readErr := bufio.NewReader(os.Stdin).ReadString('\n')
		if readErr != nil {
			return readErr
		}
		fmt.Print("read: " + line)
		return nil
	}, nil, WithInput("typed text\n"))

	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "read: typed text\n", output)
}

func TestRunCLIMergedStreams(t *testing.T) {
	_, output, err := RunCLI(func() error {
		fmt.Fprint(os.Stdout, "out ")
		fmt.Fprint(os.Stderr, "err ")
		fmt.Fprint(os.Stdout, "out again")
		return nil
	}, nil, WithMergedStreams())

	require.NoError(t, err)
	assert.Equal(t, "out err out again", output)
}

func TestRunCLIUnmergedStreamsExcludeStderr(t *testing.T) {
	_, output, err := RunCLI(func() error {
		fmt.Fprint(os.Stdout, "visible")
		fmt.Fprint(os.Stderr, "hidden")
		return nil
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, "visible", output)
}
