package main

import (
	"fmt"
	"strings"

	"github.com/alessio/shellescape"
	"github.com/spf13/cobra"

	"github.com/shavali-arc/quantumxfer-sub002/internal/session"
	"github.com/shavali-arc/quantumxfer-sub002/internal/validate"
)

// newExecCommand connects, runs a single non-interactive command built from
// its positional arguments (each one shell-quoted so spaces and globs in an
// argument never get reinterpreted by the remote shell), prints its output
// and exit code, then disconnects.
func newExecCommand() *cobra.Command {
	var host, user, keyPath string
	var port, commandTimeout int

	cmd := &cobra.Command{
		Use:   "exec -- COMMAND [ARG...]",
		Short: "Run one command on a host and print its output",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			command := quoteCommand(args)
			if result := validate.Merge(validate.Command(command), validate.CommandTimeout(commandTimeout)); !result.Valid {
				for _, issue := range result.Errors {
					fmt.Fprintf(cmd.ErrOrStderr(), "validation: %s: %s (%s)\n", issue.Field, issue.Message, issue.Code)
				}
				return exitWith(exitValidationError, fmt.Errorf("command failed validation"))
			}

			_, logger, err := loadCore()
			if err != nil {
				return err
			}
			sessions := session.NewManager()
			sessions.SetLogger(logger)

			connectResult := sessions.Connect(session.ConnectionConfig{
				Host:           host,
				Port:           port,
				Username:       user,
				AuthType:       session.AuthKey,
				PrivateKeyPath: keyPath,
				TimeoutSeconds: 30,
			})
			if !connectResult.Success {
				return exitWith(exitConnectionError, fmt.Errorf("%s", connectResult.Error))
			}
			defer sessions.Disconnect(connectResult.ConnectionID)

			execResult := sessions.ExecuteCommand(connectResult.ConnectionID, command, commandTimeout)
			if !execResult.Success {
				return exitWith(exitConnectionError, fmt.Errorf("%s", execResult.Error))
			}

			fmt.Fprint(cmd.OutOrStdout(), execResult.Stdout)
			fmt.Fprint(cmd.ErrOrStderr(), execResult.Stderr)
			if execResult.ExitCode != 0 {
				exitWith(execResult.ExitCode, fmt.Errorf("remote command exited %d", execResult.ExitCode))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "remote host name or address")
	cmd.Flags().IntVar(&port, "port", 22, "remote SSH port")
	cmd.Flags().StringVar(&user, "user", "", "remote username")
	cmd.Flags().StringVar(&keyPath, "key", "", "path to a private key file")
	cmd.Flags().IntVar(&commandTimeout, "timeout", 0, "command timeout in seconds (1-3600), 0 for none")

	return cmd
}

// quoteCommand shell-quotes every argument and joins them with spaces, so the
// remote shell sees exactly the arguments given on this side of the wire.
func quoteCommand(args []string) string {
	quoted := make([]string, len(args))
	for i, a := range args {
		quoted[i] = shellescape.Quote(a)
	}
	return strings.Join(quoted, " ")
}
