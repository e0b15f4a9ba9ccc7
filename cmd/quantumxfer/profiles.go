package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shavali-arc/quantumxfer-sub002/internal/config"
	"github.com/shavali-arc/quantumxfer-sub002/internal/store"
)

// newProfilesCommand exercises C3's profile persistence without a front-end.
func newProfilesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "List and save connection profiles",
	}
	cmd.AddCommand(newProfilesListCommand())
	cmd.AddCommand(newProfilesSaveCommand())
	return cmd
}

func openStore() (*store.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	return newStore(cfg), nil
}

func newProfilesListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved connection profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			profiles, err := st.LoadProfiles()
			if err != nil {
				return fmt.Errorf("load profiles: %w", err)
			}
			for _, p := range store.SortProfilesByID(profiles) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s@%s:%d\n", p.ID, p.Name, p.Username, p.Host, p.Port)
			}
			return nil
		},
	}
}

func newProfilesSaveCommand() *cobra.Command {
	var name, host, username, privateKeyPath string
	var port int
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save a new connection profile (no password is ever persisted)",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			profiles, err := st.LoadProfiles()
			if err != nil {
				return fmt.Errorf("load profiles: %w", err)
			}
			profiles = append(profiles, store.Profile{
				ID:             store.NewProfileID(),
				Name:           name,
				Host:           host,
				Port:           port,
				Username:       username,
				PrivateKeyPath: privateKeyPath,
			})
			if err := st.SaveProfiles(profiles); err != nil {
				return fmt.Errorf("save profiles: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved profile %q\n", name)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "profile name")
	cmd.Flags().StringVar(&host, "host", "", "remote host name or address")
	cmd.Flags().IntVar(&port, "port", 22, "remote SSH port")
	cmd.Flags().StringVar(&username, "user", "", "remote username")
	cmd.Flags().StringVar(&privateKeyPath, "key", "", "path to a private key file")
	return cmd
}
