package router

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shavali-arc/quantumxfer-sub002/internal/ipc"
	"github.com/shavali-arc/quantumxfer-sub002/internal/keys"
	log "github.com/shavali-arc/quantumxfer-sub002/internal/logx"
	"github.com/shavali-arc/quantumxfer-sub002/internal/session"
	"github.com/shavali-arc/quantumxfer-sub002/internal/store"
	"github.com/shavali-arc/quantumxfer-sub002/internal/validate"
)

// --- ssh-connect ---

type connectPayload struct {
	Host           string `json:"host"`
	Port           int    `json:"port"`
	Username       string `json:"username"`
	AuthType       string `json:"authType"`
	Password       string `json:"password"`
	PrivateKeyPath string `json:"privateKeyPath"`
	Passphrase     string `json:"passphrase"`
	TimeoutSeconds int    `json:"timeoutSeconds"`
	Name           string `json:"name"`
}

func handleSSHConnect(r *Router, _ context.Context, id string, payload json.RawMessage, _ ProgressFunc) ipc.Response {
	var p connectPayload
	if err := decodePayload(payload, &p); err != nil {
		return ipc.Failure(id, ipc.CodeValidationError, "malformed payload", nil)
	}

	result := validate.SSHConnection(validate.SSHConnectionInput{
		Host:           p.Host,
		Port:           p.Port,
		Username:       p.Username,
		AuthType:       p.AuthType,
		Password:       p.Password,
		PrivateKeyPath: p.PrivateKeyPath,
		TimeoutSeconds: p.TimeoutSeconds,
		Name:           p.Name,
	})
	if !result.Valid {
		return validationFailure(id, result)
	}

	port := p.Port
	if port == 0 {
		port = 22
	}
	timeout := p.TimeoutSeconds
	if timeout == 0 {
		timeout = 30
	}

	out := r.Sessions.Connect(session.ConnectionConfig{
		Host:           p.Host,
		Port:           port,
		Username:       p.Username,
		AuthType:       session.AuthType(p.AuthType),
		Password:       p.Password,
		PrivateKeyPath: p.PrivateKeyPath,
		Passphrase:     p.Passphrase,
		TimeoutSeconds: timeout,
		Name:           p.Name,
	})
	if !out.Success {
		return ipc.Failure(id, string(out.Code), out.Error, nil)
	}
	return ipc.Success(id, out)
}

// --- ssh-execute-command ---

type executeCommandPayload struct {
	ConnectionID   uint64 `json:"connectionId"`
	Command        string `json:"command"`
	TimeoutSeconds int    `json:"timeoutSeconds"`
}

func handleSSHExecuteCommand(r *Router, _ context.Context, id string, payload json.RawMessage, _ ProgressFunc) ipc.Response {
	var p executeCommandPayload
	if err := decodePayload(payload, &p); err != nil {
		return ipc.Failure(id, ipc.CodeValidationError, "malformed payload", nil)
	}
	if result := validate.Merge(validate.Command(p.Command), validate.CommandTimeout(p.TimeoutSeconds)); !result.Valid {
		return validationFailure(id, result)
	}

	out := r.Sessions.ExecuteCommand(p.ConnectionID, p.Command, p.TimeoutSeconds)
	if !out.Success {
		return ipc.Failure(id, string(out.Code), out.Error, nil)
	}
	return ipc.Success(id, out)
}

// --- ssh-list-directory ---

type listDirectoryPayload struct {
	ConnectionID uint64 `json:"connectionId"`
	RemotePath   string `json:"remotePath"`
}

func handleSSHListDirectory(r *Router, _ context.Context, id string, payload json.RawMessage, _ ProgressFunc) ipc.Response {
	var p listDirectoryPayload
	if err := decodePayload(payload, &p); err != nil {
		return ipc.Failure(id, ipc.CodeValidationError, "malformed payload", nil)
	}
	remotePath := p.RemotePath
	if remotePath == "" {
		remotePath = "."
	}
	if result := validate.RemotePath(remotePath); !result.Valid {
		return validationFailure(id, result)
	}

	out := r.Sessions.ListDirectory(p.ConnectionID, remotePath)
	if !out.Success {
		return ipc.Failure(id, string(out.Code), out.Error, nil)
	}
	return ipc.Success(id, out)
}

// --- ssh-list-directory-recursive ---

type listDirectoryRecursivePayload struct {
	ConnectionID uint64 `json:"connectionId"`
	Root         string `json:"root"`
	MaxDepth     int    `json:"maxDepth"`
	MaxFiles     int    `json:"maxFiles"`
}

func handleSSHListDirectoryRecursive(r *Router, _ context.Context, id string, payload json.RawMessage, _ ProgressFunc) ipc.Response {
	var p listDirectoryRecursivePayload
	if err := decodePayload(payload, &p); err != nil {
		return ipc.Failure(id, ipc.CodeValidationError, "malformed payload", nil)
	}
	root := p.Root
	if root == "" {
		root = "."
	}
	if result := validate.RemotePath(root); !result.Valid {
		return validationFailure(id, result)
	}

	out := r.Sessions.ListDirectoryRecursive(p.ConnectionID, root, session.RecursiveListOptions{
		MaxDepth: p.MaxDepth,
		MaxFiles: p.MaxFiles,
	})
	if !out.Success {
		return ipc.Failure(id, string(out.Code), out.Error, nil)
	}
	return ipc.Success(id, out)
}

// --- ssh-download-file / ssh-upload-file ---

type transferPayload struct {
	ConnectionID uint64 `json:"connectionId"`
	RemotePath   string `json:"remotePath"`
	LocalPath    string `json:"localPath"`
}

func handleSSHDownloadFile(r *Router, ctx context.Context, id string, payload json.RawMessage, onProgress ProgressFunc) ipc.Response {
	var p transferPayload
	if err := decodePayload(payload, &p); err != nil {
		return ipc.Failure(id, ipc.CodeValidationError, "malformed payload", nil)
	}
	if result := validate.Merge(validate.RemotePath(p.RemotePath), validate.LocalPath(p.LocalPath)); !result.Valid {
		return validationFailure(id, result)
	}

	out := r.Sessions.Download(ctx, p.ConnectionID, p.RemotePath, p.LocalPath, nil, adaptProgress(onProgress))
	if !out.Success {
		return ipc.Failure(id, string(out.Code), out.Error, nil)
	}
	return ipc.Success(id, out)
}

func handleSSHUploadFile(r *Router, ctx context.Context, id string, payload json.RawMessage, onProgress ProgressFunc) ipc.Response {
	var p transferPayload
	if err := decodePayload(payload, &p); err != nil {
		return ipc.Failure(id, ipc.CodeValidationError, "malformed payload", nil)
	}
	if result := validate.Merge(validate.LocalPath(p.LocalPath), validate.RemotePath(p.RemotePath)); !result.Valid {
		return validationFailure(id, result)
	}

	out := r.Sessions.Upload(ctx, p.ConnectionID, p.LocalPath, p.RemotePath, nil, adaptProgress(onProgress))
	if !out.Success {
		return ipc.Failure(id, string(out.Code), out.Error, nil)
	}
	return ipc.Success(id, out)
}

func adaptProgress(onProgress ProgressFunc) session.ProgressFunc {
	if onProgress == nil {
		return nil
	}
	return func(e session.ProgressEvent) {
		onProgress(ipc.ProgressEvent{Channel: "progress", TransferID: e.TransferID, Bytes: e.Bytes, Total: e.Total})
	}
}

// --- ssh-disconnect ---

type disconnectPayload struct {
	ConnectionID uint64 `json:"connectionId"`
}

func handleSSHDisconnect(r *Router, _ context.Context, id string, payload json.RawMessage, _ ProgressFunc) ipc.Response {
	var p disconnectPayload
	if err := decodePayload(payload, &p); err != nil {
		return ipc.Failure(id, ipc.CodeValidationError, "malformed payload", nil)
	}

	out := r.Sessions.Disconnect(p.ConnectionID)
	if !out.Success {
		return ipc.Failure(id, string(out.Code), "no such connection", nil)
	}
	return ipc.Success(id, out)
}

// --- profiles-load / profiles-save ---

func handleProfilesLoad(r *Router, _ context.Context, id string, _ json.RawMessage, _ ProgressFunc) ipc.Response {
	profiles, err := r.Store.LoadProfiles()
	if err != nil {
		return ipc.Failure(id, ipc.CodeHandlerError, "failed to load profiles", nil)
	}
	return ipc.Success(id, profiles)
}

func handleProfilesSave(r *Router, _ context.Context, id string, payload json.RawMessage, _ ProgressFunc) ipc.Response {
	var profiles []store.Profile
	if err := decodePayload(payload, &profiles); err != nil {
		return ipc.Failure(id, ipc.CodeValidationError, "malformed payload", nil)
	}
	if err := r.Store.SaveProfiles(profiles); err != nil {
		return ipc.Failure(id, ipc.CodeHandlerError, err.Error(), nil)
	}
	return ipc.Success(id, nil)
}

// --- command-history-load / -append / -save ---

func handleCommandHistoryLoad(r *Router, _ context.Context, id string, _ json.RawMessage, _ ProgressFunc) ipc.Response {
	history, err := r.Store.LoadCommandHistory()
	if err != nil {
		return ipc.Failure(id, ipc.CodeHandlerError, "failed to load command history", nil)
	}
	return ipc.Success(id, history)
}

type appendCommandPayload struct {
	Command string `json:"command"`
}

func handleCommandHistoryAppend(r *Router, _ context.Context, id string, payload json.RawMessage, _ ProgressFunc) ipc.Response {
	var p appendCommandPayload
	if err := decodePayload(payload, &p); err != nil {
		return ipc.Failure(id, ipc.CodeValidationError, "malformed payload", nil)
	}
	idx, err := r.Store.AppendCommand(p.Command)
	if err != nil {
		return ipc.Failure(id, ipc.CodeHandlerError, "failed to append command", nil)
	}
	return ipc.Success(id, map[string]int{"index": idx})
}

type saveCommandHistoryPayload struct {
	Commands []string `json:"commands"`
}

func handleCommandHistorySave(r *Router, _ context.Context, id string, payload json.RawMessage, _ ProgressFunc) ipc.Response {
	var p saveCommandHistoryPayload
	if err := decodePayload(payload, &p); err != nil {
		return ipc.Failure(id, ipc.CodeValidationError, "malformed payload", nil)
	}
	if err := r.Store.SaveCommandHistory(p.Commands); err != nil {
		return ipc.Failure(id, ipc.CodeHandlerError, "failed to save command history", nil)
	}
	return ipc.Success(id, nil)
}

// --- keys-list / keys-generate / keys-import ---

func handleKeysList(r *Router, _ context.Context, id string, _ json.RawMessage, _ ProgressFunc) ipc.Response {
	pairs, err := r.Keys.List()
	if err != nil {
		return ipc.Failure(id, ipc.CodeHandlerError, "failed to list keys", nil)
	}
	return ipc.Success(id, pairs)
}

type keysGeneratePayload struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	Bits       int    `json:"bits"`
	Comment    string `json:"comment"`
	Passphrase string `json:"passphrase"`
}

func handleKeysGenerate(r *Router, _ context.Context, id string, payload json.RawMessage, _ ProgressFunc) ipc.Response {
	var p keysGeneratePayload
	if err := decodePayload(payload, &p); err != nil {
		return ipc.Failure(id, ipc.CodeValidationError, "malformed payload", nil)
	}

	pair, err := r.Keys.Generate(keys.GenerateOptions{
		Name:       p.Name,
		Type:       keys.Type(p.Type),
		Bits:       p.Bits,
		Comment:    p.Comment,
		Passphrase: p.Passphrase,
	})
	if err != nil {
		return ipc.Failure(id, ipc.CodeHandlerError, err.Error(), nil)
	}
	return ipc.Success(id, pair)
}

type keysImportPayload struct {
	Name       string `json:"name"`
	PrivateKey string `json:"privateKey"`
	PublicKey  string `json:"publicKey"`
}

func handleKeysImport(r *Router, _ context.Context, id string, payload json.RawMessage, _ ProgressFunc) ipc.Response {
	var p keysImportPayload
	if err := decodePayload(payload, &p); err != nil {
		return ipc.Failure(id, ipc.CodeValidationError, "malformed payload", nil)
	}
	if result := validate.PrivateKeyBlob([]byte(p.PrivateKey)); !result.Valid {
		return validationFailure(id, result)
	}

	var publicBlob []byte
	if p.PublicKey != "" {
		if result := validate.PublicKeyBlob([]byte(p.PublicKey)); !result.Valid {
			return validationFailure(id, result)
		}
		publicBlob = []byte(p.PublicKey)
	}

	pair, err := r.Keys.Import(keys.ImportOptions{
		Name:       p.Name,
		PrivateKey: []byte(p.PrivateKey),
		PublicKey:  publicBlob,
	})
	if err != nil {
		return ipc.Failure(id, ipc.CodeHandlerError, err.Error(), nil)
	}
	return ipc.Success(id, pair)
}

// --- logs-write ---

type logsWritePayload struct {
	Text      string `json:"text"`
	Directory string `json:"directory"`
}

func handleLogsWrite(r *Router, _ context.Context, id string, payload json.RawMessage, _ ProgressFunc) ipc.Response {
	var p logsWritePayload
	if err := decodePayload(payload, &p); err != nil {
		return ipc.Failure(id, ipc.CodeValidationError, "malformed payload", nil)
	}
	if result := validate.LocalPath(p.Directory); !result.Valid {
		return validationFailure(id, result)
	}

	if err := appendTranscriptLine(p.Directory, p.Text); err != nil {
		return ipc.Failure(id, ipc.CodeHandlerError, "failed to write transcript", nil)
	}
	return ipc.Success(id, nil)
}

func appendTranscriptLine(directory, text string) error {
	if err := os.MkdirAll(directory, 0o755); err != nil {
		return fmt.Errorf("create logs directory: %w", err)
	}
	filename := fmt.Sprintf("quantumxfer-%s.log", time.Now().UTC().Format("2006-01-02"))
	path := filepath.Join(directory, filename)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open transcript file: %w", err)
	}
	defer f.Close()

	redacted := log.RedactString(text)
	if _, err := f.WriteString(redacted + "\n"); err != nil {
		return fmt.Errorf("append transcript line: %w", err)
	}
	return nil
}

// --- dialog-open ---

type dialogOpenPayload struct {
	Properties []string `json:"properties"`
	Title      string   `json:"title"`
}

func handleDialogOpen(_ *Router, _ context.Context, id string, payload json.RawMessage, _ ProgressFunc) ipc.Response {
	var p dialogOpenPayload
	_ = decodePayload(payload, &p)
	return ipc.Failure(id, ipc.CodeHandlerError, "dialog-open requires a host UI bridge not present in this core", nil)
}
