// Package daemon holds the long-running process behind the IPC socket: it
// owns the switch session state machine and turns incoming commands into
// snapshot queries, selection steps and compositor dispatches.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/yourusername/hyprswitch/internal/config"
	"github.com/yourusername/hyprswitch/internal/engine"
	"github.com/yourusername/hyprswitch/internal/hypr"
	"github.com/yourusername/hyprswitch/internal/ipc"
	"github.com/yourusername/hyprswitch/internal/logging"
	"github.com/yourusername/hyprswitch/internal/types"
)

// Provider supplies a fresh compositor snapshot per command
type Provider interface {
	CollectData(ctx context.Context, opts hypr.CollectOptions) (*hypr.ClientsData, hypr.ActiveIDs, error)
}

// Applier executes focus changes and submap transitions
type Applier interface {
	SwitchTo(ctx context.Context, active types.Active, data *hypr.ClientsData) error
	ActivateSubmap(ctx context.Context) error
	DeactivateSubmap(ctx context.Context) error
}

// Daemon serves switch commands over IPC. The server serializes handler
// calls, so handlers never interleave.
type Daemon struct {
	cfg      *config.File
	provider Provider
	applier  Applier
	session  *Session
}

// New assembles a daemon around stored configuration and a compositor backend
func New(cfg *config.File, provider Provider, applier Applier) *Daemon {
	return &Daemon{
		cfg:      cfg,
		provider: provider,
		applier:  applier,
		session:  NewSession(),
	}
}

// Run binds the socket and serves until ctx is cancelled. A second daemon on
// the same socket fails fast with ErrAlreadyRunning.
func (d *Daemon) Run(ctx context.Context, socketPath string) error {
	srv := ipc.NewServer(socketPath, d)
	if err := srv.Listen(); err != nil {
		return err
	}
	defer srv.Close()

	logging.Info().Msg("daemon started")
	return srv.Serve(ctx)
}

// Handle dispatches one decoded IPC request
func (d *Daemon) Handle(ctx context.Context, method string, params json.RawMessage) (interface{}, error) {
	switch method {
	case ipc.MethodInit:
		var p ipc.InitParams
		if err := decode(params, &p); err != nil {
			return nil, err
		}
		return nil, d.handleInit(ctx, p)

	case ipc.MethodGuiInit:
		var p ipc.GuiInitParams
		if err := decode(params, &p); err != nil {
			return nil, err
		}
		return nil, d.handleGuiInit(ctx, p)

	case ipc.MethodDispatch:
		var p ipc.DispatchParams
		if err := decode(params, &p); err != nil {
			return nil, err
		}
		return d.handleDispatch(ctx, p)

	case ipc.MethodClose:
		var p ipc.CloseParams
		if err := decode(params, &p); err != nil {
			return nil, err
		}
		return nil, d.handleClose(ctx, p)

	default:
		return nil, fmt.Errorf("unknown method %q", method)
	}
}

// handleInit opens a session with the daemon's stored switch configuration
func (d *Daemon) handleInit(ctx context.Context, p ipc.InitParams) error {
	return d.beginSession(ctx, d.cfg.Switch, p.Gui)
}

// handleGuiInit opens a session with a full per-session configuration
func (d *Daemon) handleGuiInit(ctx context.Context, p ipc.GuiInitParams) error {
	if err := p.Config.Validate(); err != nil {
		return fmt.Errorf("invalid session config: %w", err)
	}
	return d.beginSession(ctx, p.Config, p.Gui)
}

// beginSession engages the submap only after the state transition succeeds.
// If the submap cannot be engaged the session is rolled back and a reset is
// attempted anyway, so a half-engaged submap never outlives the failure.
func (d *Daemon) beginSession(ctx context.Context, cfg config.Config, gui config.GuiConfig) error {
	if err := d.session.Begin(cfg, gui); err != nil {
		return err
	}

	if err := d.applier.ActivateSubmap(ctx); err != nil {
		d.session.End()
		if resetErr := d.applier.DeactivateSubmap(ctx); resetErr != nil {
			logging.Warn().Err(resetErr).Msg("submap reset after failed activation also failed")
		}
		return fmt.Errorf("failed to engage submap: %w", err)
	}

	stored := d.session.Gui()
	logging.Info().
		Str("switchType", string(cfg.SwitchType)).
		Bool("showTitle", stored.ShowTitle).
		Float64("sizeFactor", stored.SizeFactor).
		Msg("switch session opened")
	return nil
}

// handleDispatch resolves one navigation step. Inside a session the result
// only becomes pending; outside, it is applied immediately.
func (d *Daemon) handleDispatch(ctx context.Context, p ipc.DispatchParams) (*ipc.DispatchResult, error) {
	inSession := d.session.Active()

	cfg := d.cfg.Switch
	if inSession {
		cfg = d.session.Config()
	}

	switchType := p.SwitchType
	if switchType == "" {
		switchType = cfg.SwitchType
	}
	if _, err := types.ParseSwitchType(string(switchType)); err != nil {
		return nil, err
	}

	cmd := p.Command
	cmd.SameWorkspace = cmd.SameWorkspace || cfg.FilterSameWorkspace
	cmd.SameMonitor = cmd.SameMonitor || cfg.FilterSameMonitor

	data, ids, err := d.provider.CollectData(ctx, collectOptions(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to query compositor: %w", err)
	}

	current := activeFor(switchType, ids)
	if inSession {
		if pending := d.session.Pending(); !pending.IsUnknown() {
			current = pending
		}
	}

	target, err := engine.FindNext(switchType, cmd, data, current)
	if err != nil {
		if errors.Is(err, engine.ErrNoCandidates) {
			return nil, ipc.ErrNoCandidates
		}
		return nil, err
	}

	if inSession {
		d.session.SetPending(target)
		logging.Debug().Str("target", target.String()).Msg("selection pending")
		return &ipc.DispatchResult{Target: target, Applied: false}, nil
	}

	if err := d.applier.SwitchTo(ctx, target, data); err != nil {
		return nil, fmt.Errorf("failed to switch: %w", err)
	}
	logging.Info().Str("target", target.String()).Msg("switched")
	return &ipc.DispatchResult{Target: target, Applied: true}, nil
}

// handleClose ends the session. The pending selection is applied exactly
// once, unless kill discards it; the submap is released on every path.
func (d *Daemon) handleClose(ctx context.Context, p ipc.CloseParams) error {
	cfg := d.session.Config()
	pending, err := d.session.End()
	if err != nil {
		return err
	}

	defer func() {
		if err := d.applier.DeactivateSubmap(ctx); err != nil {
			logging.Warn().Err(err).Msg("failed to release submap")
		}
	}()

	if p.Kill || pending.IsUnknown() {
		logging.Info().Bool("kill", p.Kill).Msg("switch session closed without applying")
		return nil
	}

	data, _, err := d.provider.CollectData(ctx, collectOptions(cfg))
	if err != nil {
		return fmt.Errorf("failed to query compositor: %w", err)
	}
	if err := d.applier.SwitchTo(ctx, pending, data); err != nil {
		return fmt.Errorf("failed to apply selection: %w", err)
	}

	logging.Info().Str("target", pending.String()).Msg("switch session closed")
	return nil
}

// activeFor projects the compositor's focus report onto one switch dimension
func activeFor(switchType types.SwitchType, ids hypr.ActiveIDs) types.Active {
	switch switchType {
	case types.SwitchWorkspace:
		if ids.HasWorkspace {
			return types.ActiveWorkspace(ids.WorkspaceID)
		}
	case types.SwitchMonitor:
		if ids.HasMonitor {
			return types.ActiveMonitor(ids.MonitorID)
		}
	default:
		if ids.ClientAddress != "" {
			return types.ActiveClient(ids.ClientAddress)
		}
	}
	return types.ActiveUnknown()
}

func collectOptions(cfg config.Config) hypr.CollectOptions {
	return hypr.CollectOptions{
		SortRecent:               cfg.SortRecent,
		IncludeSpecialWorkspaces: cfg.IncludeSpecialWorkspaces,
		IgnoreWorkspaces:         cfg.IgnoreWorkspaces,
		IgnoreMonitors:           cfg.IgnoreMonitors,
	}
}

func decode(params json.RawMessage, into interface{}) error {
	if len(params) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, into); err != nil {
		return fmt.Errorf("malformed params: %w", err)
	}
	return nil
}
