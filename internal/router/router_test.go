package router

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/shavali-arc/quantumxfer-sub002/internal/ipc"
	"github.com/shavali-arc/quantumxfer-sub002/internal/session"
	"github.com/shavali-arc/quantumxfer-sub002/internal/store"
)

func newTestRouter(t *testing.T) *Router {
	t.Helper()
	dir := t.TempDir()
	st := store.New(filepath.Join(dir, "profiles.json"), filepath.Join(dir, "history.json"))
	return New(st, nil, session.NewManager(), nil)
}

func TestDispatchUnknownChannelReturnsHandlerError(t *testing.T) {
	r := newTestRouter(t)
	resp := r.Dispatch(context.Background(), Channel("not-a-real-channel"), "req-1", nil, nil)
	if resp.Success {
		t.Fatal("expected failure for an unknown channel")
	}
	if resp.Code != ipc.CodeHandlerError {
		t.Errorf("Code = %q, want %q", resp.Code, ipc.CodeHandlerError)
	}
}

func TestDispatchMalformedPayloadIsValidationError(t *testing.T) {
	r := newTestRouter(t)
	resp := r.Dispatch(context.Background(), ChannelSSHConnect, "req-2", json.RawMessage(`{not json`), nil)
	if resp.Success || resp.Code != ipc.CodeValidationError {
		t.Fatalf("expected VALIDATION_ERROR, got %+v", resp)
	}
}

func TestDispatchSSHConnectRejectsInvalidHost(t *testing.T) {
	r := newTestRouter(t)
	payload, _ := json.Marshal(connectPayload{
		Host:     "",
		Username: "alice",
		AuthType: "password",
		Password: "secret",
	})
	resp := r.Dispatch(context.Background(), ChannelSSHConnect, "req-3", payload, nil)
	if resp.Success || resp.Code != ipc.CodeValidationError {
		t.Fatalf("expected VALIDATION_ERROR for an empty host, got %+v", resp)
	}
}

func TestDispatchProfilesSaveThenLoadRoundTrips(t *testing.T) {
	r := newTestRouter(t)
	profiles := []store.Profile{{
		ID:       store.NewProfileID(),
		Name:     "prod-box",
		Host:     "example.com",
		Port:     22,
		Username: "deploy",
	}}
	savePayload, _ := json.Marshal(profiles)

	saveResp := r.Dispatch(context.Background(), ChannelProfilesSave, "req-4", savePayload, nil)
	if !saveResp.Success {
		t.Fatalf("profiles-save failed: %+v", saveResp)
	}

	loadResp := r.Dispatch(context.Background(), ChannelProfilesLoad, "req-5", nil, nil)
	if !loadResp.Success {
		t.Fatalf("profiles-load failed: %+v", loadResp)
	}
	loaded, ok := loadResp.Data.([]store.Profile)
	if !ok || len(loaded) != 1 || loaded[0].Name != "prod-box" {
		t.Fatalf("profiles-load returned %+v, want the saved profile back", loadResp.Data)
	}
}

func TestDispatchDialogOpenReportsUnsupported(t *testing.T) {
	r := newTestRouter(t)
	resp := r.Dispatch(context.Background(), ChannelDialogOpen, "req-6", nil, nil)
	if resp.Success {
		t.Fatal("dialog-open has no host UI bridge in this core and must fail")
	}
	if resp.Code != ipc.CodeHandlerError {
		t.Errorf("Code = %q, want %q", resp.Code, ipc.CodeHandlerError)
	}
}

func TestDispatchSSHExecuteCommandUnknownConnectionIsNoConnection(t *testing.T) {
	r := newTestRouter(t)
	payload, _ := json.Marshal(executeCommandPayload{ConnectionID: 999, Command: "ls"})
	resp := r.Dispatch(context.Background(), ChannelSSHExecuteCommand, "req-8", payload, nil)
	if resp.Success {
		t.Fatal("expected failure for an unknown connection id")
	}
	if resp.Code != string(session.CodeNoConnection) {
		t.Errorf("Code = %q, want %q", resp.Code, session.CodeNoConnection)
	}
}

func TestDispatchSSHExecuteCommandRejectsOutOfRangeTimeout(t *testing.T) {
	r := newTestRouter(t)
	payload, _ := json.Marshal(executeCommandPayload{ConnectionID: 1, Command: "ls", TimeoutSeconds: 5000})
	resp := r.Dispatch(context.Background(), ChannelSSHExecuteCommand, "req-9", payload, nil)
	if resp.Success || resp.Code != ipc.CodeValidationError {
		t.Fatalf("expected VALIDATION_ERROR for an out-of-range timeout, got %+v", resp)
	}
}

func TestDispatchSSHDisconnectUnknownConnectionIsNoConnection(t *testing.T) {
	r := newTestRouter(t)
	payload, _ := json.Marshal(disconnectPayload{ConnectionID: 999})
	resp := r.Dispatch(context.Background(), ChannelSSHDisconnect, "req-7", payload, nil)
	if resp.Success {
		t.Fatal("expected failure for an unknown connection id")
	}
	if resp.Code != string(session.CodeNoConnection) {
		t.Errorf("Code = %q, want %q", resp.Code, session.CodeNoConnection)
	}
}
