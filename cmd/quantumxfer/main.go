// Command quantumxfer is a thin CLI companion over the session core: it
// exercises the same validator, logger and SSH session manager a host
// application would drive over the IPC router, for scripting and smoke
// testing without a front-end attached.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shavali-arc/quantumxfer-sub002/internal/config"
	"github.com/shavali-arc/quantumxfer-sub002/internal/keys"
	log "github.com/shavali-arc/quantumxfer-sub002/internal/logx"
	"github.com/shavali-arc/quantumxfer-sub002/internal/store"
)

// Exit codes documented for the connect subcommand.
const (
	exitOK              = 0
	exitValidationError = 2
	exitConnectionError = 3
	exitAuthError       = 4
)

func main() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "quantumxfer",
		Short: "A multi-host SSH/SFTP session core",
	}
	root.AddCommand(newConnectCommand())
	root.AddCommand(newKeysCommand())
	root.AddCommand(newTransferCommand())
	root.AddCommand(newExecCommand())
	root.AddCommand(newProfilesCommand())
	return root
}

func loadCore() (*config.Config, *log.Core, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load configuration: %w", err)
	}
	logger, err := log.New(log.Options{
		LogsDir: cfg.StateDir,
		Console: false,
		Level:   cfg.LogLevel,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("initialize logger: %w", err)
	}
	return cfg, logger, nil
}

func newStore(cfg *config.Config) *store.Store {
	return store.New(cfg.ProfilesPath(), cfg.CommandHistoryPath())
}

func newKeyManager(cfg *config.Config) (*keys.Manager, error) {
	return keys.New(cfg.KeysDir())
}
