package session

import (
	"bytes"
	"errors"
	"io"
	"time"

	"golang.org/x/crypto/ssh"

	log "github.com/shavali-arc/quantumxfer-sub002/internal/logx"
	"github.com/shavali-arc/quantumxfer-sub002/internal/redact"
)

// wrapRedacted wraps dst so that cfg's own password and key passphrase are
// scrubbed from anything the remote side writes back through it, before the
// bytes ever land in the captured buffer or a log line. A misbehaving login
// banner or debug command can then never leak a credential downstream.
func wrapRedacted(cfg ConnectionConfig, dst *bytes.Buffer) io.WriteCloser {
	var matches [][]byte
	if cfg.Password != "" {
		matches = append(matches, []byte(cfg.Password))
	}
	if cfg.Passphrase != "" {
		matches = append(matches, []byte(cfg.Passphrase))
	}
	if len(matches) == 0 {
		return nopWriteCloser{dst}
	}
	return redact.Writer(dst, []byte("[REDACTED]"), matches...)
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// ExecuteCommand runs cmd non-interactively on the connection identified by
// id, waiting for it to exit. stdout/stderr are captured independently; a
// non-zero exit code is still reported as Success:true at the transport
// level, since the caller interprets ExitCode. timeoutSeconds, when > 0,
// bounds how long the command may run before its channel is torn down and
// EXEC_ERROR is reported; the connection itself is left Ready either way.
func (m *Manager) ExecuteCommand(id uint64, cmd string, timeoutSeconds int) ExecResult {
	conn, err := m.lookup(id)
	if err != nil {
		return ExecResult{Success: false, Code: CodeNoConnection, Error: err.Error()}
	}
	if conn.getState() != StateReady {
		return ExecResult{Success: false, Code: CodeNoConnection, Error: "connection is not ready"}
	}

	var result ExecResult
	started := time.Now()

	execErr := conn.submit(func() error {
		return runCommand(conn, cmd, timeoutSeconds, &result)
	})

	result.DurationMs = time.Since(started).Milliseconds()

	if conn.HasLogger() {
		conn.Log().Info("executed command", "command", log.TruncateCommand(cmd, 200), "durationMs", result.DurationMs)
	}

	if execErr != nil {
		return toExecFailure(execErr, result.DurationMs)
	}
	return result
}

// runCommand opens a session, wires stdout/stderr capture, and runs cmd to
// completion or until timeoutSeconds elapses. On timeout it closes the
// session (tearing down the command channel) and returns a timeout error;
// the connection's own state is untouched either way.
func runCommand(conn *connection, cmd string, timeoutSeconds int, result *ExecResult) error {
	sshSession, err := conn.client.NewSession()
	if err != nil {
		return newError(CodeExecError, "create ssh session: %v", err)
	}
	defer sshSession.Close()

	var stdout, stderr bytes.Buffer
	stdoutW := wrapRedacted(conn.config, &stdout)
	stderrW := wrapRedacted(conn.config, &stderr)
	sshSession.Stdout = stdoutW
	sshSession.Stderr = stderrW

	if err := sshSession.Start(cmd); err != nil {
		return newError(CodeExecError, "start command: %v", err)
	}

	waitCh := make(chan error, 1)
	go func() { waitCh <- sshSession.Wait() }()

	var runErr error
	if timeoutSeconds > 0 {
		timer := time.NewTimer(time.Duration(timeoutSeconds) * time.Second)
		defer timer.Stop()
		select {
		case runErr = <-waitCh:
		case <-timer.C:
			_ = sshSession.Close()
			return newError(CodeExecError, "command timed out after %ds", timeoutSeconds)
		}
	} else {
		runErr = <-waitCh
	}

	_ = stdoutW.Close()
	_ = stderrW.Close()
	result.Stdout = stdout.String()
	result.Stderr = stderr.String()
	result.ExitCode = exitCodeOf(runErr)
	result.Success = true
	return nil
}

// toExecFailure maps a submit() failure onto ExecResult, preserving the
// originating Code (e.g. NO_CONNECTION from a concurrently closed
// connection) rather than always collapsing to EXEC_ERROR.
func toExecFailure(err error, durationMs int64) ExecResult {
	if sessErr, ok := err.(*Error); ok { //nolint:errorlint // constructed exclusively by this package
		return ExecResult{Success: false, Code: sessErr.Code, Error: sessErr.Message, DurationMs: durationMs}
	}
	return ExecResult{Success: false, Code: CodeExecError, Error: err.Error(), DurationMs: durationMs}
}

// exitCodeOf extracts a process exit code from the error returned by
// session.Run/.Wait, treating a clean exit (nil error) as code 0.
func exitCodeOf(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ssh.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitStatus()
	}
	// Connection-level failures (e.g. ExitMissingError) surface as a
	// non-zero, non-specific code rather than masquerading as success.
	return -1
}
