package session

import "time"

// State is a connection's position in the connect/ready/closing/closed
// state machine. Closed is absorbing.
type State string

const (
	StateConnecting State = "Connecting"
	StateReady      State = "Ready"
	StateClosing    State = "Closing"
	StateClosed     State = "Closed"
)

// AuthType is the closed set of credential shapes a connect request accepts.
type AuthType string

const (
	AuthPassword AuthType = "password"
	AuthKey      AuthType = "key"
	AuthBoth     AuthType = "both"
)

// ConnectionConfig is the validated input to Connect. Password and key
// material travel in memory only; neither is ever written back out through
// ServerInfo or a log line.
type ConnectionConfig struct {
	Host           string
	Port           int    `default:"22"`
	Username       string
	AuthType       AuthType
	Password       string
	PrivateKeyPath string
	Passphrase     string
	TimeoutSeconds int `default:"30"`
	Name           string
}

// ServerInfo is the redacted subset of a ConnectionConfig returned to callers
// after a successful connect.
type ServerInfo struct {
	Host     string `json:"host"`
	Username string `json:"username"`
	Port     int    `json:"port"`
}

// ConnectResult is the outcome of Connect.
type ConnectResult struct {
	Success      bool       `json:"success"`
	ConnectionID uint64     `json:"connectionId,omitempty"`
	ServerInfo   ServerInfo `json:"serverInfo,omitempty"`
	Code         Code       `json:"code,omitempty"`
	Error        string     `json:"error,omitempty"`
}

// ExecResult is the outcome of ExecuteCommand.
type ExecResult struct {
	Success    bool   `json:"success"`
	Stdout     string `json:"stdout"`
	Stderr     string `json:"stderr"`
	ExitCode   int    `json:"exitCode"`
	DurationMs int64  `json:"durationMs"`
	Code       Code   `json:"code,omitempty"`
	Error      string `json:"error,omitempty"`
}

// FileKind classifies a remote file descriptor.
type FileKind string

const (
	KindFile      FileKind = "file"
	KindDirectory FileKind = "directory"
	KindSymlink   FileKind = "symlink"
)

// RemoteFile describes one entry returned by a directory listing.
type RemoteFile struct {
	Name              string    `json:"name"`
	Kind              FileKind  `json:"kind"`
	SizeBytes         int64     `json:"sizeBytes"`
	Mtime             time.Time `json:"mtime"`
	PermissionsString string    `json:"permissionsString"`
	AbsolutePath      string    `json:"absolutePath"`
}

// ListDirectoryResult is the outcome of ListDirectory.
type ListDirectoryResult struct {
	Success bool         `json:"success"`
	Entries []RemoteFile `json:"entries"`
	Code    Code         `json:"code,omitempty"`
	Error   string       `json:"error,omitempty"`
}

// RecursiveListOptions bounds a recursive directory walk.
type RecursiveListOptions struct {
	MaxDepth int // 0 means unlimited.
	MaxFiles int // 0 means unlimited.
}

// RecursiveListResult is the outcome of ListDirectoryRecursive.
type RecursiveListResult struct {
	Success    bool         `json:"success"`
	Entries    []RemoteFile `json:"entries"`
	TotalFiles int          `json:"totalFiles"`
	Truncated  bool         `json:"truncated"`
	MaxDepth   int          `json:"maxDepth"`
	Code       Code         `json:"code,omitempty"`
	Error      string       `json:"error,omitempty"`
}

// TransferKind distinguishes upload from download transfer descriptors.
type TransferKind string

const (
	TransferUpload   TransferKind = "upload"
	TransferDownload TransferKind = "download"
)

// TransferState is the monotonic lifecycle of a transfer, except on cancel.
type TransferState string

const (
	TransferPending      TransferState = "Pending"
	TransferTransferring TransferState = "Transferring"
	TransferCompleted    TransferState = "Completed"
	TransferFailed       TransferState = "Failed"
)

// Transfer describes one upload or download in progress or completed.
type Transfer struct {
	ID             string        `json:"id"`
	Kind           TransferKind  `json:"kind"`
	State          TransferState `json:"state"`
	FailureReason  string        `json:"failureReason,omitempty"`
	ProgressBytes  int64         `json:"progressBytes"`
	TotalBytes     int64         `json:"totalBytes"`
	RemotePath     string        `json:"remotePath"`
	LocalPath      string        `json:"localPath"`
}

// ProgressEvent is emitted to the caller-supplied callback during a transfer,
// throttled to at most once per 100ms or 1MiB of progress, whichever first.
type ProgressEvent struct {
	TransferID string `json:"transferId"`
	Bytes      int64  `json:"bytes"`
	Total      int64  `json:"total"`
}

// TransferResult is the terminal outcome of Download/Upload.
type TransferResult struct {
	Success    bool   `json:"success"`
	TransferID string `json:"transferId"`
	BytesMoved int64  `json:"bytesMoved"`
	Code       Code   `json:"code,omitempty"`
	Error      string `json:"error,omitempty"`
}

// DisconnectResult is the outcome of Disconnect.
type DisconnectResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Code    Code   `json:"code,omitempty"`
}
