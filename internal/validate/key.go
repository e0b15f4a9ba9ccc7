package validate

import (
	"regexp"
)

var privateKeyHeader = regexp.MustCompile(`^-----BEGIN (RSA|OPENSSH|EC|DSA) PRIVATE KEY-----`)

var publicKeyHeader = regexp.MustCompile(`^(ssh-rsa|ssh-ed25519|ecdsa-sha2-nistp(256|384|521)) [A-Za-z0-9+/=]+`)

// PrivateKeyBlob validates that raw key material begins with a recognized PEM
// header for an RSA, OpenSSH, EC or DSA private key.
func PrivateKeyBlob(blob []byte) Result {
	if len(blob) == 0 {
		return fail(issue("privateKey", CodeInvalidKey, "private key must not be empty"))
	}
	if !privateKeyHeader.Match(blob) {
		return fail(issue("privateKey", CodeInvalidKey, "private key does not start with a recognized PEM header"))
	}
	return ok()
}

// PublicKeyBlob validates that raw key material begins with a recognized
// authorized_keys style algorithm prefix followed by base64 data.
func PublicKeyBlob(blob []byte) Result {
	if len(blob) == 0 {
		return fail(issue("publicKey", CodeInvalidKey, "public key must not be empty"))
	}
	if !publicKeyHeader.Match(blob) {
		return fail(issue("publicKey", CodeInvalidKey, "public key does not start with a recognized algorithm prefix"))
	}
	return ok()
}

// allowed cipher, key exchange and compression algorithms that the Cipher,
// KEX and Compression validators accept. The dial path does not pass these
// lists to golang.org/x/crypto/ssh, which negotiates with its own defaults.
var (
	AllowedCiphers = []string{
		"aes128-ctr", "aes256-ctr",
		"aes128-gcm@openssh.com", "aes256-gcm@openssh.com",
		"chacha20-poly1305@openssh.com",
	}
	AllowedKEX = []string{
		"curve25519-sha256", "curve25519-sha256@libssh.org",
		"ecdh-sha2-nistp256", "ecdh-sha2-nistp384", "ecdh-sha2-nistp521",
		"diffie-hellman-group14-sha256",
	}
	AllowedCompression = []string{"none", "zlib", "zlib@openssh.com"}
)

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// Cipher validates a cipher name against AllowedCiphers.
func Cipher(name string) Result {
	if !contains(AllowedCiphers, name) {
		return fail(issue("cipher", CodeInvalidCipher, "cipher "+name+" is not in the allowed list"))
	}
	return ok()
}

// KEX validates a key-exchange algorithm name against AllowedKEX.
func KEX(name string) Result {
	if !contains(AllowedKEX, name) {
		return fail(issue("kex", CodeInvalidCipher, "key exchange "+name+" is not in the allowed list"))
	}
	return ok()
}

// Compression validates a compression algorithm name against AllowedCompression.
func Compression(name string) Result {
	if !contains(AllowedCompression, name) {
		return fail(issue("compression", CodeInvalidCipher, "compression "+name+" is not in the allowed list"))
	}
	return ok()
}
