package keys

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/crypto/ssh"
)

const defaultRSABits = 4096

// Generate creates a new key pair of the requested type under the manager's
// directory and returns the resulting Pair. The private key file is written
// with owner-read-write-only permissions.
func (m *Manager) Generate(opts GenerateOptions) (Pair, error) {
	if opts.Name == "" {
		return Pair{}, fmt.Errorf("key name must not be empty")
	}

	var signer ssh.Signer
	var privatePEM []byte
	var err error

	switch opts.Type {
	case RSA:
		privatePEM, signer, err = generateRSA(opts.Bits)
	case Ed25519:
		privatePEM, signer, err = generateEd25519()
	case ECDSA:
		privatePEM, signer, err = generateECDSA()
	default:
		return Pair{}, fmt.Errorf("unsupported key type %q", opts.Type)
	}
	if err != nil {
		return Pair{}, fmt.Errorf("generate %s key: %w", opts.Type, err)
	}

	if opts.Passphrase != "" {
		privatePEM, err = encryptPrivateKeyPEM(privatePEM, opts.Passphrase)
		if err != nil {
			return Pair{}, fmt.Errorf("encrypt private key: %w", err)
		}
	}

	publicKey := signer.PublicKey()
	authorizedLine := ssh.MarshalAuthorizedKey(publicKey)
	if opts.Comment != "" {
		authorizedLine = append(authorizedLine[:len(authorizedLine)-1], []byte(" "+opts.Comment+"\n")...)
	}

	privatePath := filepath.Join(m.dir, opts.Name)
	publicPath := privatePath + ".pub"

	if err := writePrivateKeyFile(privatePath, privatePEM); err != nil {
		return Pair{}, err
	}
	if err := writePublicKeyFile(publicPath, authorizedLine); err != nil {
		return Pair{}, err
	}

	return Pair{
		Name:           opts.Name,
		Type:           opts.Type,
		PrivateKeyPath: privatePath,
		PublicKeyPath:  publicPath,
		Fingerprint:    ssh.FingerprintSHA256(publicKey),
		CreatedAt:      time.Now().UTC(),
	}, nil
}

func generateRSA(bits int) ([]byte, ssh.Signer, error) {
	if bits <= 0 {
		bits = defaultRSABits
	}
	key, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, nil, fmt.Errorf("generate rsa key: %w", err)
	}
	block := &pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)}
	signer, err := ssh.NewSignerFromKey(key)
	if err != nil {
		return nil, nil, fmt.Errorf("derive signer: %w", err)
	}
	return pem.EncodeToMemory(block), signer, nil
}

func generateEd25519() ([]byte, ssh.Signer, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, nil, fmt.Errorf("generate ed25519 key: %w", err)
	}
	pemBlock, err := marshalPKCS8Ed25519(priv)
	if err != nil {
		return nil, nil, err
	}
	signer, err := ssh.NewSignerFromKey(priv)
	if err != nil {
		return nil, nil, fmt.Errorf("derive signer: %w", err)
	}
	return pemBlock, signer, nil
}

func generateECDSA() ([]byte, ssh.Signer, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, nil, fmt.Errorf("generate ecdsa key: %w", err)
	}
	der, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal ec private key: %w", err)
	}
	block := &pem.Block{Type: "EC PRIVATE KEY", Bytes: der}
	signer, err := ssh.NewSignerFromKey(key)
	if err != nil {
		return nil, nil, fmt.Errorf("derive signer: %w", err)
	}
	return pem.EncodeToMemory(block), signer, nil
}

// marshalPKCS8Ed25519 produces a "PRIVATE KEY" (PKCS#8) PEM block. x/crypto/ssh
// does not export an OpenSSH key writer, and the OPENSSH PRIVATE KEY format is
// a distinct bcrypt-KDF wire format it does not accept for a plain PKCS#8
// body, so PKCS#8 is used here since ssh.ParseRawPrivateKey parses it
// directly and a generated key can round-trip straight back through connect.
func marshalPKCS8Ed25519(priv ed25519.PrivateKey) ([]byte, error) {
	der, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return nil, fmt.Errorf("marshal ed25519 private key: %w", err)
	}
	block := &pem.Block{Type: "PRIVATE KEY", Bytes: der}
	return pem.EncodeToMemory(block), nil
}

// encryptPrivateKeyPEM re-encodes a PEM-encoded key with passphrase
// protection, matching the decryption path pkeySigner already expects
// (ssh.ParsePrivateKeyWithPassphrase) on the connect side.
func encryptPrivateKeyPEM(keyPEM []byte, passphrase string) ([]byte, error) {
	block, _ := pem.Decode(keyPEM)
	if block == nil {
		return nil, fmt.Errorf("decode generated key PEM")
	}
	// Legacy PEM encryption (RFC 1423) is what golang.org/x/crypto/ssh's
	// ParsePrivateKeyWithPassphrase still understands for non-OPENSSH blocks.
	encrypted, err := x509.EncryptPEMBlock(rand.Reader, block.Type, block.Bytes, []byte(passphrase), x509.PEMCipherAES256) //nolint:staticcheck // matches the decrypt path used on connect
	if err != nil {
		return nil, fmt.Errorf("encrypt pem block: %w", err)
	}
	return pem.EncodeToMemory(encrypted), nil
}

func writePrivateKeyFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write private key file: %w", err)
	}
	return restrictToOwner(path)
}

func writePublicKeyFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write public key file: %w", err)
	}
	return nil
}
