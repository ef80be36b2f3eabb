package main

import (
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/testscope/pkg/config"
	"github.com/arthur-debert/testscope/pkg/scopes"
)

var (
	mockProgram    string
	mockReturnCode int
)

var mockCmd = &cobra.Command{
	Use:   "mock --program NAME [flags] -- command [args...]",
	Short: "Run a command with a mocked executable on the search path",
	Long: `Places a fake executable named by --program on a temporary search path,
runs the given command, and fails if the command never invoked the mock.
The mock exits with the code given by --exit-code.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		returncode := cfg.MockReturnCode
		if cmd.Flags().Changed("exit-code") {
			returncode = mockReturnCode
		}

		mock := scopes.NewMockedProgram(mockProgram, returncode)
		return scopes.With(mock, func() error {
			run := exec.Command(args[0], args[1:]...)
			run.Stdin = os.Stdin
			run.Stdout = os.Stdout
			run.Stderr = os.Stderr
			return run.Run()
		})
	},
}

func init() {
	mockCmd.Flags().StringVar(&mockProgram, "program", "", "Name of the executable to mock (required)")
	mockCmd.Flags().IntVar(&mockReturnCode, "exit-code", 0, "Exit status the mock emits")
	_ = mockCmd.MarkFlagRequired("program")
}
