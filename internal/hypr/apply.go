package hypr

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/yourusername/hyprswitch/internal/logging"
	"github.com/yourusername/hyprswitch/internal/types"
)

// SubmapName is the exclusive input-binding mode engaged while an
// interactive switch session is open.
const SubmapName = "switch"

// Applier moves compositor focus to a resolved target. With DryRun set every
// mutating dispatch is logged instead of executed.
type Applier struct {
	client *Client
	DryRun bool
}

// NewApplier wraps a compositor client
func NewApplier(client *Client, dryRun bool) *Applier {
	return &Applier{client: client, DryRun: dryRun}
}

// SwitchTo focuses the given target: a window, a workspace or a monitor.
func (a *Applier) SwitchTo(ctx context.Context, active types.Active, data *ClientsData) error {
	switch active.Kind {
	case types.ActiveKindClient:
		return a.dispatch(ctx, "focuswindow", "address:"+active.ClientAddress)
	case types.ActiveKindWorkspace:
		return a.dispatch(ctx, "workspace", strconv.Itoa(active.WorkspaceID))
	case types.ActiveKindMonitor:
		name, ok := data.MonitorName(active.MonitorID)
		if !ok {
			return fmt.Errorf("monitor %d not present in snapshot", active.MonitorID)
		}
		return a.dispatch(ctx, "focusmonitor", name)
	case types.ActiveKindUnknown:
		return fmt.Errorf("cannot switch to unknown target")
	default:
		return fmt.Errorf("unhandled active kind %q", active.Kind)
	}
}

// ActivateSubmap engages the exclusive keybind mode for a switch session
func (a *Applier) ActivateSubmap(ctx context.Context) error {
	return a.dispatch(ctx, "submap", SubmapName)
}

// DeactivateSubmap releases the keybind mode. Every path that can leave the
// submap engaged without an open session must call this; a stuck submap
// freezes the user's keyboard.
func (a *Applier) DeactivateSubmap(ctx context.Context) error {
	return a.dispatch(ctx, "submap", "reset")
}

func (a *Applier) dispatch(ctx context.Context, args ...string) error {
	if a.DryRun {
		logging.Info().Strs("args", args).Msg("dry run: skipping dispatch")
		return nil
	}
	return a.client.Dispatch(ctx, args...)
}

// CheckVersion queries the compositor version. Best effort: callers log a
// warning on failure and continue.
func (c *Client) CheckVersion(ctx context.Context) (string, error) {
	data, err := c.QueryJSON(ctx, "version")
	if err != nil {
		return "", err
	}
	var raw struct {
		Tag    string `json:"tag"`
		Branch string `json:"branch"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return "", fmt.Errorf("decode version: %w", err)
	}
	if raw.Tag != "" {
		return raw.Tag, nil
	}
	return raw.Branch, nil
}
