package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shavali-arc/quantumxfer-sub002/internal/config"
	"github.com/shavali-arc/quantumxfer-sub002/internal/keys"
)

// newKeysCommand exercises C4 (list/generate/import) against the on-disk key
// store without requiring a live connection.
func newKeysCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "List, generate and import SSH key pairs",
	}
	cmd.AddCommand(newKeysListCommand())
	cmd.AddCommand(newKeysGenerateCommand())
	cmd.AddCommand(newKeysImportCommand())
	return cmd
}

func openKeyManager() (*keys.Manager, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	return newKeyManager(cfg)
}

func newKeysListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List key pairs in the key store",
		RunE: func(cmd *cobra.Command, args []string) error {
			km, err := openKeyManager()
			if err != nil {
				return err
			}
			pairs, err := km.List()
			if err != nil {
				return fmt.Errorf("list keys: %w", err)
			}
			for _, p := range pairs {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n", p.Name, p.Type, p.Fingerprint, p.PrivateKeyPath)
			}
			return nil
		},
	}
}

func newKeysGenerateCommand() *cobra.Command {
	var (
		name       string
		typ        string
		bits       int
		comment    string
		passphrase string
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a new SSH key pair",
		RunE: func(cmd *cobra.Command, args []string) error {
			km, err := openKeyManager()
			if err != nil {
				return err
			}
			pair, err := km.Generate(keys.GenerateOptions{
				Name:       name,
				Type:       keys.Type(typ),
				Bits:       bits,
				Comment:    comment,
				Passphrase: passphrase,
			})
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(exitValidationError)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "generated %s (%s) at %s\n", pair.Name, pair.Fingerprint, pair.PrivateKeyPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "key pair name")
	cmd.Flags().StringVar(&typ, "type", string(keys.Ed25519), "key algorithm: rsa, ed25519 or ecdsa")
	cmd.Flags().IntVar(&bits, "bits", 4096, "RSA key size in bits (ignored for other types)")
	cmd.Flags().StringVar(&comment, "comment", "", "comment appended to the public key line")
	cmd.Flags().StringVar(&passphrase, "passphrase", "", "encrypt the private key with this passphrase")
	return cmd
}

func newKeysImportCommand() *cobra.Command {
	var (
		name           string
		privateKeyPath string
		publicKeyPath  string
	)
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import an existing SSH key pair",
		RunE: func(cmd *cobra.Command, args []string) error {
			privateKey, err := os.ReadFile(privateKeyPath)
			if err != nil {
				return fmt.Errorf("read private key: %w", err)
			}
			var publicKey []byte
			if publicKeyPath != "" {
				publicKey, err = os.ReadFile(publicKeyPath)
				if err != nil {
					return fmt.Errorf("read public key: %w", err)
				}
			}

			km, err := openKeyManager()
			if err != nil {
				return err
			}
			pair, err := km.Import(keys.ImportOptions{
				Name:       name,
				PrivateKey: privateKey,
				PublicKey:  publicKey,
			})
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(exitValidationError)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %s (%s) at %s\n", pair.Name, pair.Fingerprint, pair.PrivateKeyPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "key pair name")
	cmd.Flags().StringVar(&privateKeyPath, "private-key", "", "path to an existing private key file")
	cmd.Flags().StringVar(&publicKeyPath, "public-key", "", "path to the matching public key file (optional)")
	return cmd
}
