package ipc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/yourusername/hyprswitch/internal/types"
)

type echoHandler struct {
	lastMethod string
	err        error
}

func (h *echoHandler) Handle(ctx context.Context, method string, params json.RawMessage) (interface{}, error) {
	h.lastMethod = method
	if h.err != nil {
		return nil, h.err
	}
	if method == MethodDispatch {
		var p DispatchParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, err
		}
		return &DispatchResult{Target: types.ActiveClient("0xfeed"), Applied: p.Command.Direction == types.DirForward}, nil
	}
	return nil, nil
}

func startServer(t *testing.T, handler Handler) string {
	t.Helper()
	socketPath := filepath.Join(t.TempDir(), "daemon.sock")

	srv := NewServer(socketPath, handler)
	if err := srv.Listen(); err != nil {
		t.Fatalf("failed to listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		srv.Serve(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Error("server did not shut down")
		}
	})
	return socketPath
}

func TestClientServer_DispatchRoundTrip(t *testing.T) {
	handler := &echoHandler{}
	socketPath := startServer(t, handler)

	client := NewClient(socketPath, 2*time.Second)
	defer client.Close()

	result, err := client.Dispatch(context.Background(), DispatchParams{
		SwitchType: types.SwitchClient,
		Command:    types.NewCommand(false, 1, false, false),
	})
	if err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	if handler.lastMethod != MethodDispatch {
		t.Errorf("handler saw method %q", handler.lastMethod)
	}
	if result.Target.ClientAddress != "0xfeed" || !result.Applied {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestClientServer_ProtocolErrorsSurviveTransport(t *testing.T) {
	handler := &echoHandler{err: ErrNotActive}
	socketPath := startServer(t, handler)

	client := NewClient(socketPath, 2*time.Second)
	defer client.Close()

	err := client.CloseSession(context.Background(), false)
	if !errors.Is(err, ErrNotActive) {
		t.Fatalf("expected ErrNotActive across the wire, got %v", err)
	}
}

func TestClientServer_SerialConnections(t *testing.T) {
	handler := &echoHandler{}
	socketPath := startServer(t, handler)

	// One connection per command, like repeated key presses
	for i := 0; i < 5; i++ {
		client := NewClient(socketPath, 2*time.Second)
		if err := client.Init(context.Background(), InitParams{}); err != nil {
			t.Fatalf("init %d failed: %v", i, err)
		}
		client.Close()
	}
}

func TestServer_SilentClientDoesNotBlockCommands(t *testing.T) {
	socketPath := startServer(t, &echoHandler{})

	// A connection that dials and never sends anything
	idle, err := net.Dial("unix", socketPath)
	if err != nil {
		t.Fatalf("failed to dial: %v", err)
	}
	defer idle.Close()

	client := NewClient(socketPath, time.Second)
	defer client.Close()
	if err := client.Init(context.Background(), InitParams{}); err != nil {
		t.Fatalf("command blocked behind a silent connection: %v", err)
	}
}

func TestDaemonRunning(t *testing.T) {
	socketPath := filepath.Join(t.TempDir(), "daemon.sock")
	if DaemonRunning(socketPath) {
		t.Error("no daemon should be detected on a fresh path")
	}
}

func TestDaemonRunning_LiveSocket(t *testing.T) {
	socketPath := startServer(t, &echoHandler{})
	if !DaemonRunning(socketPath) {
		t.Error("live daemon not detected")
	}
}

func TestClient_DialFailureIsNotRunning(t *testing.T) {
	client := NewClient(filepath.Join(t.TempDir(), "nope.sock"), time.Second)
	err := client.Init(context.Background(), InitParams{})
	if !errors.Is(err, ErrNotRunning) {
		t.Fatalf("expected ErrNotRunning, got %v", err)
	}
}

func TestCodeMapping_RoundTrip(t *testing.T) {
	for _, sentinel := range []error{ErrAlreadyActive, ErrNotActive, ErrNoCandidates} {
		code := CodeFor(sentinel)
		back := ErrFor(&ErrorInfo{Code: code, Message: sentinel.Error()})
		if !errors.Is(back, sentinel) {
			t.Errorf("code %d did not map back to %v", code, sentinel)
		}
	}
	if CodeFor(fmt.Errorf("boom")) != CodeInternal {
		t.Error("unexpected code for generic error")
	}
}
