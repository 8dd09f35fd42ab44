package ipc

import (
	"errors"

	"github.com/yourusername/hyprswitch/internal/config"
	"github.com/yourusername/hyprswitch/internal/types"
)

// InitParams opens a session using the daemon's stored switch configuration
type InitParams struct {
	Gui config.GuiConfig `json:"gui"`
}

// GuiInitParams opens a session with a full per-session configuration
type GuiInitParams struct {
	Config config.Config    `json:"config"`
	Gui    config.GuiConfig `json:"gui"`
}

// DispatchParams advances the selection by one navigation step
type DispatchParams struct {
	SwitchType types.SwitchType `json:"switchType"`
	Command    types.Command    `json:"command"`
}

// CloseParams ends the session; Kill discards the pending selection
type CloseParams struct {
	Kill bool `json:"kill"`
}

// DispatchResult reports the resolved target and whether it was applied
// immediately (one-shot) or merely made pending (session).
type DispatchResult struct {
	Target  types.Active `json:"target"`
	Applied bool         `json:"applied"`
}

// Protocol errors: precondition violations on the daemon's state machine.
// They surface to callers as warnings, never as crashes.
var (
	ErrAlreadyRunning = errors.New("daemon already running")
	ErrAlreadyActive  = errors.New("switch session already active")
	ErrNotActive      = errors.New("no switch session active")
	ErrNotRunning     = errors.New("daemon not running")
	ErrNoCandidates   = errors.New("no candidates to switch to")
)

// CodeFor maps an error to its wire code
func CodeFor(err error) int {
	switch {
	case errors.Is(err, ErrAlreadyActive):
		return CodeAlreadyActive
	case errors.Is(err, ErrNotActive):
		return CodeNotActive
	case errors.Is(err, ErrNoCandidates):
		return CodeNoCandidates
	default:
		return CodeInternal
	}
}

// ErrFor maps a wire code back to the protocol sentinel, so clients can use
// errors.Is across the transport.
func ErrFor(info *ErrorInfo) error {
	if info == nil {
		return nil
	}
	switch info.Code {
	case CodeAlreadyActive:
		return ErrAlreadyActive
	case CodeNotActive:
		return ErrNotActive
	case CodeNoCandidates:
		return ErrNoCandidates
	default:
		return errors.New(info.Message)
	}
}
