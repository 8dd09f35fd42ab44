package daemon

import (
	"sync"

	"github.com/yourusername/hyprswitch/internal/config"
	"github.com/yourusername/hyprswitch/internal/ipc"
	"github.com/yourusername/hyprswitch/internal/types"
)

// Session is the daemon's only mutable state: whether an interactive switch
// is open, its configuration, and the not-yet-applied selection. The submap
// must be engaged exactly while active is true.
type Session struct {
	mu      sync.Mutex
	active  bool
	cfg     config.Config
	gui     config.GuiConfig
	pending types.Active
}

// NewSession starts in the idle state
func NewSession() *Session {
	return &Session{pending: types.ActiveUnknown()}
}

// Begin transitions idle to active with the given configuration. A second
// Begin while active is a caller race, reported but harmless.
func (s *Session) Begin(cfg config.Config, gui config.GuiConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active {
		return ipc.ErrAlreadyActive
	}
	s.active = true
	s.cfg = cfg
	s.gui = gui
	s.pending = types.ActiveUnknown()
	return nil
}

// End transitions active to idle and returns the pending selection. The
// caller decides whether to apply it; the session forgets it either way.
func (s *Session) End() (types.Active, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return types.ActiveUnknown(), ipc.ErrNotActive
	}
	pending := s.pending
	s.active = false
	s.pending = types.ActiveUnknown()
	return pending, nil
}

// SetPending records the latest selection, replacing any previous one.
// Only the value current at End ever gets applied.
func (s *Session) SetPending(target types.Active) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return
	}
	s.pending = target
}

// Pending returns the current not-yet-applied selection
func (s *Session) Pending() types.Active {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Active reports whether an interactive switch session is open
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Config returns the session's switch configuration
func (s *Session) Config() config.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// Gui returns the session's display options
func (s *Session) Gui() config.GuiConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gui
}
