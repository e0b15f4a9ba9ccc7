// Package keys manages SSH key pairs on local disk: listing, generating and
// importing, always with owner-only file permissions on private key material.
package keys

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/shavali-arc/quantumxfer-sub002/internal/validate"
)

// Type is the closed set of key algorithms this manager can generate.
type Type string

const (
	RSA     Type = "rsa"
	Ed25519 Type = "ed25519"
	ECDSA   Type = "ecdsa"
)

// Pair describes one SSH key pair on disk.
type Pair struct {
	Name           string    `json:"name"`
	Type           Type      `json:"type"`
	PrivateKeyPath string    `json:"privateKeyPath"`
	PublicKeyPath  string    `json:"publicKeyPath"`
	Fingerprint    string    `json:"fingerprint"`
	CreatedAt      time.Time `json:"createdAt"`
}

// GenerateOptions configures Manager.Generate.
type GenerateOptions struct {
	Name       string
	Type       Type
	Bits       int // RSA only; defaults to 4096.
	Comment    string
	Passphrase string
}

// ImportOptions configures Manager.Import.
type ImportOptions struct {
	Name       string
	PrivateKey []byte
	PublicKey  []byte // optional; derived from PrivateKey when omitted.
}

// Manager lists, generates and imports key pairs rooted at a fixed directory.
type Manager struct {
	dir string
}

// New returns a Manager rooted at dir, creating the directory if necessary.
func New(dir string) (*Manager, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create keys directory: %w", err)
	}
	return &Manager{dir: dir}, nil
}

// Dir returns the directory the manager operates on.
func (m *Manager) Dir() string { return m.dir }

// List enumerates key pairs by walking the directory for files without a
// .pub suffix that have a matching .pub sibling, parsing each public key to
// classify its type and compute its fingerprint.
func (m *Manager) List() ([]Pair, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, fmt.Errorf("read keys directory: %w", err)
	}

	var pairs []Pair
	for _, entry := range entries {
		if entry.IsDir() || strings.HasSuffix(entry.Name(), ".pub") {
			continue
		}
		privatePath := filepath.Join(m.dir, entry.Name())
		publicPath := privatePath + ".pub"
		if _, err := os.Stat(publicPath); err != nil {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", entry.Name(), err)
		}

		publicBlob, err := os.ReadFile(publicPath)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", publicPath, err)
		}
		pub, _, _, _, err := ssh.ParseAuthorizedKey(publicBlob)
		if err != nil {
			// Skip files that are not parseable public keys rather than
			// failing the whole listing.
			continue
		}

		pairs = append(pairs, Pair{
			Name:           entry.Name(),
			Type:           typeFromAlgo(pub.Type()),
			PrivateKeyPath: privatePath,
			PublicKeyPath:  publicPath,
			Fingerprint:    ssh.FingerprintSHA256(pub),
			CreatedAt:      info.ModTime().UTC(),
		})
	}

	return pairs, nil
}

// Import validates the supplied key material via the package-level validators
// and copies it into the keys directory under owner-only permissions,
// returning the resulting Pair.
func (m *Manager) Import(opts ImportOptions) (Pair, error) {
	if opts.Name == "" {
		return Pair{}, fmt.Errorf("key name must not be empty")
	}
	if result := validate.PrivateKeyBlob(opts.PrivateKey); !result.Valid {
		return Pair{}, fmt.Errorf("invalid private key: %s", result.Errors[0].Message)
	}

	signer, err := ssh.ParsePrivateKey(opts.PrivateKey)
	if err != nil {
		return Pair{}, fmt.Errorf("parse private key: %w", err)
	}

	publicBlob := opts.PublicKey
	if len(publicBlob) == 0 {
		publicBlob = ssh.MarshalAuthorizedKey(signer.PublicKey())
	} else if result := validate.PublicKeyBlob(publicBlob); !result.Valid {
		return Pair{}, fmt.Errorf("invalid public key: %s", result.Errors[0].Message)
	}

	privatePath := filepath.Join(m.dir, opts.Name)
	publicPath := privatePath + ".pub"

	if err := writePrivateKeyFile(privatePath, opts.PrivateKey); err != nil {
		return Pair{}, err
	}
	if err := writePublicKeyFile(publicPath, publicBlob); err != nil {
		return Pair{}, err
	}

	return Pair{
		Name:           opts.Name,
		Type:           typeFromAlgo(signer.PublicKey().Type()),
		PrivateKeyPath: privatePath,
		PublicKeyPath:  publicPath,
		Fingerprint:    ssh.FingerprintSHA256(signer.PublicKey()),
		CreatedAt:      time.Now().UTC(),
	}, nil
}

func typeFromAlgo(algo string) Type {
	switch {
	case strings.Contains(algo, "rsa"):
		return RSA
	case strings.Contains(algo, "ed25519"):
		return Ed25519
	case strings.Contains(algo, "ecdsa"):
		return ECDSA
	default:
		return Type(algo)
	}
}
