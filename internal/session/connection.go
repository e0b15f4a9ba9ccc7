package session

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"

	"github.com/shavali-arc/quantumxfer-sub002/internal/homedir"
	"github.com/shavali-arc/quantumxfer-sub002/internal/hostkey"
	log "github.com/shavali-arc/quantumxfer-sub002/internal/logx"
)

// connection owns one live SSH transport. All operations against it run on
// a single dedicated goroutine so that reads, writes and SFTP calls against
// the same transport are never interleaved, mirroring the "dedicated
// single-threaded task per connection" ownership model.
type connection struct {
	log.LoggerInjectable

	id        uint64
	config    ConnectionConfig
	client    *ssh.Client
	createdAt time.Time
	lastUsed  time.Time

	mu    sync.Mutex
	state State

	jobs chan func()
	done chan struct{}

	sftpMu     sync.Mutex
	sftpClient *sftp.Client
}

func newConnection(id uint64, cfg ConnectionConfig, client *ssh.Client) *connection {
	c := &connection{
		id:        id,
		config:    cfg,
		client:    client,
		createdAt: time.Now().UTC(),
		lastUsed:  time.Now().UTC(),
		state:     StateReady,
		jobs:      make(chan func(), 16),
		done:      make(chan struct{}),
	}
	go c.run()
	return c
}

// run drains queued jobs one at a time until the connection is closed,
// giving every operation against this transport FIFO serialization.
func (c *connection) run() {
	for {
		select {
		case job := <-c.jobs:
			job()
		case <-c.done:
			// Drain whatever was already queued before exiting so callers
			// blocked on submit() still get a response.
			for {
				select {
				case job := <-c.jobs:
					job()
				default:
					return
				}
			}
		}
	}
}

// submit enqueues fn on the connection's actor goroutine and blocks until it
// has run, returning NO_CONNECTION if the connection is already closed.
func (c *connection) submit(fn func() error) error {
	if c.getState() == StateClosed {
		return newError(CodeNoConnection, "connection is closed")
	}

	resultCh := make(chan error, 1)
	job := func() {
		resultCh <- fn()
	}

	select {
	case c.jobs <- job:
	case <-c.done:
		return newError(CodeNoConnection, "connection is closed")
	}

	select {
	case err := <-resultCh:
		c.touch()
		return err
	case <-c.done:
		return newError(CodeNoConnection, "connection is closed")
	}
}

func (c *connection) getState() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *connection) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

func (c *connection) touch() {
	c.mu.Lock()
	c.lastUsed = time.Now().UTC()
	c.mu.Unlock()
}

// getSFTP lazily opens the SFTP subchannel and reuses it across subsequent
// list/download/upload calls on this connection.
func (c *connection) getSFTP() (*sftp.Client, error) {
	c.sftpMu.Lock()
	defer c.sftpMu.Unlock()

	if c.sftpClient != nil {
		return c.sftpClient, nil
	}
	client, err := sftp.NewClient(c.client)
	if err != nil {
		return nil, newError(CodeSFTPError, "open sftp subchannel: %v", err)
	}
	c.sftpClient = client
	return client, nil
}

func (c *connection) close() {
	c.setState(StateClosing)
	close(c.done)

	c.sftpMu.Lock()
	if c.sftpClient != nil {
		_ = c.sftpClient.Close()
		c.sftpClient = nil
	}
	c.sftpMu.Unlock()

	if c.client != nil {
		_ = c.client.Close()
	}
	c.setState(StateClosed)
}

func dialConnection(cfg ConnectionConfig, authMethods []ssh.AuthMethod) (*ssh.Client, error) {
	port := cfg.Port
	if port == 0 {
		port = 22
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	hostKeyCallback, err := knownHostsCallback()
	if err != nil {
		return nil, err
	}

	clientConfig := &ssh.ClientConfig{
		User:            cfg.Username,
		Auth:            authMethods,
		HostKeyCallback: hostKeyCallback,
		Timeout:         timeout,
	}

	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(port))

	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(context.Background(), "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, addr, clientConfig)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ssh handshake: %w", err)
	}

	return ssh.NewClient(sshConn, chans, reqs), nil
}

func knownHostsCallback() (ssh.HostKeyCallback, error) {
	path, err := homedir.Expand(hostkey.DefaultPath)
	if err != nil {
		return nil, fmt.Errorf("expand known_hosts path: %w", err)
	}
	cb, err := hostkey.CallbackFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("build host key callback: %w", err)
	}
	return cb, nil
}
