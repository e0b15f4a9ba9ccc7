package router

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shavali-arc/quantumxfer-sub002/internal/ipc"
	"github.com/shavali-arc/quantumxfer-sub002/internal/keys"
	log "github.com/shavali-arc/quantumxfer-sub002/internal/logx"
	"github.com/shavali-arc/quantumxfer-sub002/internal/session"
	"github.com/shavali-arc/quantumxfer-sub002/internal/store"
	"github.com/shavali-arc/quantumxfer-sub002/internal/validate"
)

// Router is the single dispatch entry point over C2-C5, each channel's
// payload validated before any handler runs.
type Router struct {
	log.LoggerInjectable

	Store    *store.Store
	Keys     *keys.Manager
	Sessions *session.Manager
	Logger   *log.Core
}

// New wires a Router over an already-constructed C2-C5 set.
func New(st *store.Store, km *keys.Manager, sm *session.Manager, logger *log.Core) *Router {
	return &Router{Store: st, Keys: km, Sessions: sm, Logger: logger}
}

// ProgressFunc receives transfer progress events emitted mid-dispatch for the
// download/upload channels; callers of other channels may pass nil.
type ProgressFunc func(ipc.ProgressEvent)

// Dispatch decodes payload for channel, validates it, invokes the bound
// handler, and returns the uniform response envelope. A validation failure
// never reaches the handler; a handler panic/error is reported as
// HANDLER_ERROR without leaking internal detail.
func (r *Router) Dispatch(ctx context.Context, channel Channel, id string, payload json.RawMessage, onProgress ProgressFunc) (resp ipc.Response) {
	defer func() {
		if rec := recover(); rec != nil {
			resp = ipc.Failure(id, ipc.CodeHandlerError, "internal handler error", nil)
		}
	}()

	handler, ok := handlers[channel]
	if !ok {
		return ipc.Failure(id, ipc.CodeHandlerError, fmt.Sprintf("unknown channel %q", channel), nil)
	}

	return handler(r, ctx, id, payload, onProgress)
}

type handlerFunc func(r *Router, ctx context.Context, id string, payload json.RawMessage, onProgress ProgressFunc) ipc.Response

var handlers = map[Channel]handlerFunc{
	ChannelSSHConnect:                handleSSHConnect,
	ChannelSSHExecuteCommand:         handleSSHExecuteCommand,
	ChannelSSHListDirectory:          handleSSHListDirectory,
	ChannelSSHListDirectoryRecursive: handleSSHListDirectoryRecursive,
	ChannelSSHDownloadFile:           handleSSHDownloadFile,
	ChannelSSHUploadFile:             handleSSHUploadFile,
	ChannelSSHDisconnect:             handleSSHDisconnect,
	ChannelProfilesLoad:              handleProfilesLoad,
	ChannelProfilesSave:              handleProfilesSave,
	ChannelCommandHistoryLoad:        handleCommandHistoryLoad,
	ChannelCommandHistoryAppend:      handleCommandHistoryAppend,
	ChannelCommandHistorySave:        handleCommandHistorySave,
	ChannelKeysList:                  handleKeysList,
	ChannelKeysGenerate:              handleKeysGenerate,
	ChannelKeysImport:                handleKeysImport,
	ChannelLogsWrite:                 handleLogsWrite,
	ChannelDialogOpen:                handleDialogOpen,
}

func decodePayload(payload json.RawMessage, into any) error {
	if len(payload) == 0 {
		return nil
	}
	return json.Unmarshal(payload, into)
}

func validationFailure(id string, result validate.Result) ipc.Response {
	return ipc.Failure(id, ipc.CodeValidationError, "request payload failed validation", result.Errors)
}
