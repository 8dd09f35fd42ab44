package hypr

import (
	"context"
	"testing"
	"time"

	"github.com/yourusername/hyprswitch/internal/types"
)

// deadClient points at a socket that does not exist, so any real dispatch
// attempt fails loudly.
func deadClient() *Client {
	return &Client{socketPath: "/nonexistent/hypr.sock", timeout: 100 * time.Millisecond}
}

func TestApplier_DryRunNeverTouchesSocket(t *testing.T) {
	applier := NewApplier(deadClient(), true)
	ctx := context.Background()

	data := &ClientsData{Monitors: []MonitorInfo{{ID: 0, Name: "DP-1"}}}
	targets := []types.Active{
		types.ActiveClient("0x1"),
		types.ActiveWorkspace(2),
		types.ActiveMonitor(0),
	}
	for _, target := range targets {
		if err := applier.SwitchTo(ctx, target, data); err != nil {
			t.Errorf("dry run must not execute %s: %v", target, err)
		}
	}
	if err := applier.ActivateSubmap(ctx); err != nil {
		t.Errorf("dry run submap activation failed: %v", err)
	}
	if err := applier.DeactivateSubmap(ctx); err != nil {
		t.Errorf("dry run submap reset failed: %v", err)
	}
}

func TestApplier_RealDispatchFailsOnDeadSocket(t *testing.T) {
	applier := NewApplier(deadClient(), false)

	err := applier.SwitchTo(context.Background(), types.ActiveClient("0x1"), &ClientsData{})
	if err == nil {
		t.Fatal("expected dispatch against a dead socket to fail")
	}
}

func TestApplier_UnknownTargetIsError(t *testing.T) {
	applier := NewApplier(deadClient(), true)

	if err := applier.SwitchTo(context.Background(), types.ActiveUnknown(), &ClientsData{}); err == nil {
		t.Fatal("switching to an unknown target must fail")
	}
}

func TestApplier_MonitorNameMustResolve(t *testing.T) {
	applier := NewApplier(deadClient(), true)

	err := applier.SwitchTo(context.Background(), types.ActiveMonitor(7), &ClientsData{})
	if err == nil {
		t.Fatal("expected error for monitor absent from snapshot")
	}
}
