package main

import (
	"os"
	"os/exec"
	"time"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/testscope/pkg/config"
	"github.com/arthur-debert/testscope/pkg/logging"
	"github.com/arthur-debert/testscope/pkg/scopes"
)

var retryTimeout time.Duration

var retryCmd = &cobra.Command{
	Use:   "retry [flags] -- command [args...]",
	Short: "Re-run a command until it exits zero or the timeout passes",
	Long: `Repeatedly runs the given command, sleeping with doubling backoff between
attempts, until it exits zero. Once the timeout passes the last failure is
reported.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		timeout := cfg.RetryTimeout
		if cmd.Flags().Changed("timeout") {
			timeout = retryTimeout
		}

		logger := logging.GetLogger("cli.retry")
		attempt := 0
		_, err = scopes.Retry(func() (struct{}, error) {
			attempt++
			run := exec.Command(args[0], args[1:]...)
			run.Stdin = os.Stdin
			run.Stdout = os.Stdout
			run.Stderr = os.Stderr
			if runErr := run.Run(); runErr != nil {
				logger.Info().Int("attempt", attempt).Err(runErr).Msg("Command failed, retrying")
				return struct{}{}, scopes.Assertionf("command %q failed on attempt %d: %v", args[0], attempt, runErr)
			}
			return struct{}{}, nil
		}, scopes.WithTimeout(timeout))
		return err
	},
}

func init() {
	retryCmd.Flags().DurationVar(&retryTimeout, "timeout", scopes.DefaultRetryTimeout, "Give up after this long")
}
