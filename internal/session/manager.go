// Package session implements the SSH connection pool: connect/disconnect,
// non-interactive command execution, SFTP directory listing and file
// transfer, each serialized per connection on a dedicated goroutine.
package session

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/creasty/defaults"
	"golang.org/x/crypto/ssh"

	log "github.com/shavali-arc/quantumxfer-sub002/internal/logx"
)

// Manager owns the pool of live connections, keyed by a strictly monotonic
// connection id that is never reused within the process lifetime.
type Manager struct {
	log.LoggerInjectable

	mu          sync.Mutex
	connections map[uint64]*connection
	nextID      uint64
}

// NewManager returns an empty connection pool.
func NewManager() *Manager {
	return &Manager{connections: make(map[uint64]*connection)}
}

// Connect opens a new SSH transport for cfg, registers it in the pool under
// a freshly minted id, and returns the redacted server info.
func (m *Manager) Connect(cfg ConnectionConfig) ConnectResult {
	applyUserSSHConfigDefaults(&cfg)
	_ = defaults.Set(&cfg)

	port := cfg.Port

	authMethods, err := resolveAuthMethods(cfg)
	if err != nil {
		var privErr *Error
		if asSessionError(err, &privErr) {
			return ConnectResult{Success: false, Code: privErr.Code, Error: privErr.Message}
		}
		return ConnectResult{Success: false, Code: CodePrivateKeyError, Error: err.Error()}
	}

	client, err := dialConnection(cfg, authMethods)
	if err != nil {
		return ConnectResult{Success: false, Code: classifyDialError(err), Error: err.Error()}
	}

	id := atomic.AddUint64(&m.nextID, 1)
	conn := newConnection(id, cfg, client)
	m.InjectLoggerTo(conn, log.KeyComponent, "session")

	m.mu.Lock()
	m.connections[id] = conn
	m.mu.Unlock()

	m.Log().Info("ssh connection established", "connectionId", id, log.KeyHost, cfg.Host)

	return ConnectResult{
		Success:      true,
		ConnectionID: id,
		ServerInfo:   ServerInfo{Host: cfg.Host, Username: cfg.Username, Port: port},
	}
}

// classifyDialError maps a dial/handshake failure onto the closed error-code
// set; anything involving authentication surfaces as AUTH_ERROR, everything
// else as CONNECTION_ERROR.
func classifyDialError(err error) Code {
	if err == nil {
		return ""
	}
	if _, ok := err.(*ssh.PassphraseMissingError); ok { //nolint:errorlint // ssh library returns this concrete type directly
		return CodeAuthError
	}
	msg := err.Error()
	if containsAny(msg, "unable to authenticate") {
		return CodeAuthError
	}
	return CodeConnectionError
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func asSessionError(err error, target **Error) bool {
	if e, ok := err.(*Error); ok { //nolint:errorlint // constructed exclusively by this package
		*target = e
		return true
	}
	return false
}

// resolveAuthMethods builds the ssh.AuthMethod list for cfg's authType,
// reading and parsing the private key file when needed.
func resolveAuthMethods(cfg ConnectionConfig) ([]ssh.AuthMethod, error) {
	var methods []ssh.AuthMethod

	if cfg.AuthType == AuthPassword || cfg.AuthType == AuthBoth {
		methods = append(methods, ssh.Password(cfg.Password))
	}

	if cfg.AuthType == AuthKey || cfg.AuthType == AuthBoth {
		signer, err := loadSigner(cfg.PrivateKeyPath, cfg.Passphrase)
		if err != nil {
			return nil, newError(CodePrivateKeyError, "%v", err)
		}
		methods = append(methods, ssh.PublicKeys(signer))
	}

	if len(methods) == 0 {
		return nil, newError(CodePrivateKeyError, "no usable authentication method for authType %q", cfg.AuthType)
	}
	return methods, nil
}

func loadSigner(path, passphrase string) (ssh.Signer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read private key file %s: %w", path, err)
	}

	if passphrase == "" {
		signer, err := ssh.ParsePrivateKey(data)
		if err == nil {
			return signer, nil
		}
		var ppErr *ssh.PassphraseMissingError
		if !asPassphraseMissing(err, &ppErr) {
			return nil, fmt.Errorf("parse private key %s: %w", path, err)
		}
		return nil, fmt.Errorf("private key %s is encrypted but no passphrase was supplied", path)
	}

	signer, err := ssh.ParsePrivateKeyWithPassphrase(data, []byte(passphrase))
	if err != nil {
		return nil, fmt.Errorf("parse encrypted private key %s: %w", path, err)
	}
	return signer, nil
}

func asPassphraseMissing(err error, target **ssh.PassphraseMissingError) bool {
	if e, ok := err.(*ssh.PassphraseMissingError); ok { //nolint:errorlint // ssh library returns this concrete type directly
		*target = e
		return true
	}
	return false
}

// lookup returns the connection for id, or NO_CONNECTION if it is unknown or
// already closed.
func (m *Manager) lookup(id uint64) (*connection, error) {
	m.mu.Lock()
	conn, ok := m.connections[id]
	m.mu.Unlock()
	if !ok {
		return nil, newError(CodeNoConnection, "no connection with id %d", id)
	}
	return conn, nil
}

// Disconnect closes the connection and removes it from the pool. Disconnect
// of an unknown id reports NO_CONNECTION rather than panicking.
func (m *Manager) Disconnect(id uint64) DisconnectResult {
	m.mu.Lock()
	conn, ok := m.connections[id]
	if ok {
		delete(m.connections, id)
	}
	m.mu.Unlock()

	if !ok {
		return DisconnectResult{Success: false, Code: CodeNoConnection}
	}

	conn.close()
	m.Log().Info("ssh connection closed", "connectionId", id)
	return DisconnectResult{Success: true, Message: fmt.Sprintf("connection %d closed", id)}
}

// DisconnectAll closes every live connection in the pool, in no particular
// order. It is
// idempotent: calling it on an empty pool is a no-op.
func (m *Manager) DisconnectAll() {
	m.mu.Lock()
	ids := make([]uint64, 0, len(m.connections))
	for id := range m.connections {
		ids = append(ids, id)
	}
	m.mu.Unlock()

	for _, id := range ids {
		m.Disconnect(id)
	}
}
