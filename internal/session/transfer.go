package session

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gofrs/uuid"
)

const (
	transferChunkSize        = 64 * 1024
	progressThrottleInterval = 100 * time.Millisecond
	progressThrottleBytes    = 1024 * 1024
)

// ProgressFunc receives throttled progress events during a transfer.
type ProgressFunc func(ProgressEvent)

// newTransferID mints an opaque id for a transfer descriptor.
func newTransferID() string {
	id, err := uuid.NewV4()
	if err != nil {
		return fmt.Sprintf("transfer-%d", time.Now().UnixNano())
	}
	return id.String()
}

// throttledCounter wraps an io.Writer, invoking onProgress at most once per
// progressThrottleInterval or every progressThrottleBytes, whichever first,
// mirroring remotefs.ByteCounter's role but with the wire protocol's
// progress-event cadence layered on top.
type throttledCounter struct {
	w          io.Writer
	written    int64
	lastReport int64
	lastTime   time.Time
	onProgress ProgressFunc
	transferID string
	totalSize  int64
	cancel     func() bool
}

func (t *throttledCounter) Write(p []byte) (int, error) {
	if t.cancel != nil && t.cancel() {
		return 0, newError(CodeCancelled, "transfer %s cancelled", t.transferID)
	}
	n, err := t.w.Write(p)
	t.written += int64(n)

	now := time.Now()
	if t.onProgress != nil && (t.written-t.lastReport >= progressThrottleBytes || now.Sub(t.lastTime) >= progressThrottleInterval || t.written == t.totalSize) {
		t.onProgress(ProgressEvent{TransferID: t.transferID, Bytes: t.written, Total: t.totalSize})
		t.lastReport = t.written
		t.lastTime = now
	}
	return n, err
}

// Download streams remotePath to localPath in 64 KiB chunks, verifying a
// sha256 checksum between what was read remotely and what was written
// locally, exactly as the teacher's remote-to-local copy does.
func (m *Manager) Download(ctx context.Context, id uint64, remotePath, localPath string, cancelled func() bool, onProgress ProgressFunc) TransferResult {
	transferID := newTransferID()

	conn, err := m.lookup(id)
	if err != nil {
		return TransferResult{Success: false, TransferID: transferID, Code: CodeNoConnection, Error: err.Error()}
	}

	var bytesMoved int64
	opErr := conn.submit(func() error {
		client, err := conn.getSFTP()
		if err != nil {
			return err
		}

		remote, err := client.Open(remotePath)
		if err != nil {
			return newError(CodeDownloadError, "open remote file %s: %v", remotePath, err)
		}
		defer remote.Close()

		info, err := remote.Stat()
		if err != nil {
			return newError(CodeDownloadError, "stat remote file %s: %v", remotePath, err)
		}

		local, err := os.OpenFile(localPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
		if err != nil {
			return newError(CodeDownloadError, "open local file %s: %v", localPath, err)
		}
		defer local.Close()

		remoteSum := sha256.New()
		localSum := sha256.New()

		counter := &throttledCounter{
			w:          io.MultiWriter(local, localSum),
			totalSize:  info.Size(),
			transferID: transferID,
			onProgress: onProgress,
			cancel:     cancelled,
			lastTime:   time.Now(),
		}

		remoteReader := io.TeeReader(remote, remoteSum)
		n, err := copyInChunks(ctx, counter, remoteReader)
		bytesMoved = n
		if err != nil {
			if sessErr, ok := err.(*Error); ok {
				return sessErr
			}
			return newError(CodeDownloadError, "copy remote file %s: %v", remotePath, err)
		}

		if !bytes.Equal(localSum.Sum(nil), remoteSum.Sum(nil)) {
			return newError(CodeDownloadError, "checksum mismatch downloading %s", remotePath)
		}
		return nil
	})

	if opErr != nil {
		return toTransferFailure(transferID, bytesMoved, opErr, CodeDownloadError)
	}
	return TransferResult{Success: true, TransferID: transferID, BytesMoved: bytesMoved}
}

// Upload streams localPath to remotePath in 64 KiB chunks with the same
// checksum-verification and progress-throttling behavior as Download.
func (m *Manager) Upload(ctx context.Context, id uint64, localPath, remotePath string, cancelled func() bool, onProgress ProgressFunc) TransferResult {
	transferID := newTransferID()

	conn, err := m.lookup(id)
	if err != nil {
		return TransferResult{Success: false, TransferID: transferID, Code: CodeNoConnection, Error: err.Error()}
	}

	var bytesMoved int64
	opErr := conn.submit(func() error {
		client, err := conn.getSFTP()
		if err != nil {
			return err
		}

		local, err := os.Open(localPath)
		if err != nil {
			return newError(CodeUploadError, "open local file %s: %v", localPath, err)
		}
		defer local.Close()

		info, err := local.Stat()
		if err != nil {
			return newError(CodeUploadError, "stat local file %s: %v", localPath, err)
		}

		remote, err := client.Create(remotePath)
		if err != nil {
			return newError(CodeUploadError, "create remote file %s: %v", remotePath, err)
		}
		defer remote.Close()

		remoteSum := sha256.New()
		localSum := sha256.New()

		counter := &throttledCounter{
			w:          io.MultiWriter(remote, remoteSum),
			totalSize:  info.Size(),
			transferID: transferID,
			onProgress: onProgress,
			cancel:     cancelled,
			lastTime:   time.Now(),
		}

		localReader := io.TeeReader(local, localSum)
		n, err := copyInChunks(ctx, counter, localReader)
		bytesMoved = n
		if err != nil {
			if sessErr, ok := err.(*Error); ok {
				return sessErr
			}
			return newError(CodeUploadError, "copy local file %s: %v", localPath, err)
		}

		if !bytes.Equal(localSum.Sum(nil), remoteSum.Sum(nil)) {
			return newError(CodeUploadError, "checksum mismatch uploading %s", localPath)
		}
		return nil
	})

	if opErr != nil {
		return toTransferFailure(transferID, bytesMoved, opErr, CodeUploadError)
	}
	return TransferResult{Success: true, TransferID: transferID, BytesMoved: bytesMoved}
}

// copyInChunks copies src to dst in transferChunkSize chunks, checking ctx
// and the counter's cancellation flag at every chunk boundary so a cancel
// request takes effect without waiting for a full buffer fill.
func copyInChunks(ctx context.Context, dst io.Writer, src io.Reader) (int64, error) {
	buf := make([]byte, transferChunkSize)
	var total int64
	for {
		select {
		case <-ctx.Done():
			return total, ctx.Err()
		default:
		}

		n, readErr := src.Read(buf)
		if n > 0 {
			written, writeErr := dst.Write(buf[:n])
			total += int64(written)
			if writeErr != nil {
				return total, writeErr
			}
		}
		if readErr == io.EOF {
			return total, nil
		}
		if readErr != nil {
			return total, readErr
		}
	}
}

func toTransferFailure(transferID string, bytesMoved int64, err error, fallback Code) TransferResult {
	if sessErr, ok := err.(*Error); ok { //nolint:errorlint // constructed exclusively by this package
		return TransferResult{Success: false, TransferID: transferID, BytesMoved: bytesMoved, Code: sessErr.Code, Error: sessErr.Message}
	}
	return TransferResult{Success: false, TransferID: transferID, BytesMoved: bytesMoved, Code: fallback, Error: err.Error()}
}
