package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/shavali-arc/quantumxfer-sub002/internal/session"
	"github.com/shavali-arc/quantumxfer-sub002/internal/validate"
)

// newConnectCommand exercises C5's connect/disconnect pair end to end against
// a real host, without persisting a profile or opening a shell.
func newConnectCommand() *cobra.Command {
	var (
		host           string
		port           int
		username       string
		name           string
		passwordStdin  bool
		keyPath        string
		passphrase     string
		timeoutSeconds int
	)

	cmd := &cobra.Command{
		Use:   "connect",
		Short: "Connect to a host, verify the handshake, then disconnect",
		RunE: func(cmd *cobra.Command, args []string) error {
			authType := string(session.AuthKey)
			password := ""
			if passwordStdin {
				authType = string(session.AuthPassword)
				line, err := readPassword(cmd.InOrStdin())
				if err != nil {
					return exitWith(exitValidationError, fmt.Errorf("read password from stdin: %w", err))
				}
				password = line
			}

			in := validate.SSHConnectionInput{
				Host:           host,
				Port:           port,
				Username:       username,
				AuthType:       authType,
				Password:       password,
				PrivateKeyPath: keyPath,
				TimeoutSeconds: timeoutSeconds,
				Name:           name,
			}
			if result := validate.SSHConnection(in); !result.Valid {
				for _, issue := range result.Errors {
					fmt.Fprintf(cmd.ErrOrStderr(), "validation: %s: %s (%s)\n", issue.Field, issue.Message, issue.Code)
				}
				return exitWith(exitValidationError, fmt.Errorf("connection parameters failed validation"))
			}

			_, logger, err := loadCore()
			if err != nil {
				return err
			}
			sessions := session.NewManager()
			sessions.SetLogger(logger)

			cfg := session.ConnectionConfig{
				Host:           host,
				Port:           port,
				Username:       username,
				AuthType:       session.AuthType(authType),
				Password:       password,
				PrivateKeyPath: keyPath,
				Passphrase:     passphrase,
				TimeoutSeconds: timeoutSeconds,
				Name:           name,
			}
			result := sessions.Connect(cfg)
			if !result.Success {
				switch result.Code {
				case session.CodeAuthError:
					return exitWith(exitAuthError, fmt.Errorf("%s", result.Error))
				default:
					return exitWith(exitConnectionError, fmt.Errorf("%s", result.Error))
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "connected to %s@%s:%d (connection %d)\n",
				result.ServerInfo.Username, result.ServerInfo.Host, result.ServerInfo.Port, result.ConnectionID)

			disc := sessions.Disconnect(result.ConnectionID)
			if !disc.Success {
				return exitWith(exitConnectionError, fmt.Errorf("%s", disc.Message))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "remote host name or address")
	cmd.Flags().IntVar(&port, "port", 22, "remote SSH port")
	cmd.Flags().StringVar(&username, "user", "", "remote username")
	cmd.Flags().StringVar(&name, "name", "", "optional profile name recorded for this connection")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from stdin instead of using a key")
	cmd.Flags().StringVar(&keyPath, "key", "", "path to a private key file")
	cmd.Flags().StringVar(&passphrase, "passphrase", "", "passphrase protecting the private key, if any")
	cmd.Flags().IntVar(&timeoutSeconds, "timeout", 30, "dial timeout in seconds")

	return cmd
}

// readPassword reads a password without echoing it back when r is the
// process's real controlling terminal, falling back to a plain line read
// (for piped input in scripts and tests) otherwise.
func readPassword(r io.Reader) (string, error) {
	if f, ok := r.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(os.Stderr, "password: ")
		bytePassword, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", err
		}
		return string(bytePassword), nil
	}

	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", err
		}
		return "", nil
	}
	return strings.TrimRight(scanner.Text(), "\r\n"), nil
}

// exitWith prints err to stderr and terminates the process with code,
// matching the documented connect-subcommand exit status contract.
func exitWith(code int, err error) error {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(code)
	return nil
}
