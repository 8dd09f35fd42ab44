package types

import "fmt"

// SwitchType selects which dimension of the session is being cycled
type SwitchType string

const (
	SwitchClient    SwitchType = "client"
	SwitchWorkspace SwitchType = "workspace"
	SwitchMonitor   SwitchType = "monitor"
)

// ParseSwitchType validates a user-supplied switch type string
func ParseSwitchType(s string) (SwitchType, error) {
	switch SwitchType(s) {
	case SwitchClient, SwitchWorkspace, SwitchMonitor:
		return SwitchType(s), nil
	}
	return "", fmt.Errorf("unknown switch type %q (expected client, workspace or monitor)", s)
}

// Direction of a navigation step
type Direction string

const (
	DirForward  Direction = "forward"
	DirBackward Direction = "backward"
)

// Sign returns +1 for forward and -1 for backward
func (d Direction) Sign() int {
	if d == DirBackward {
		return -1
	}
	return 1
}

// ActiveKind tags the Active union
type ActiveKind string

const (
	ActiveKindClient    ActiveKind = "client"
	ActiveKindWorkspace ActiveKind = "workspace"
	ActiveKindMonitor   ActiveKind = "monitor"
	ActiveKindUnknown   ActiveKind = "unknown"
)

// Active is a tagged union over "what currently has focus": a client address,
// a workspace id, a monitor id, or Unknown when the compositor could not tell.
// Consumers switch on Kind; exactly one of the payload fields is meaningful.
type Active struct {
	Kind          ActiveKind `json:"kind"`
	ClientAddress string     `json:"clientAddress,omitempty"`
	WorkspaceID   int        `json:"workspaceId,omitempty"`
	MonitorID     int        `json:"monitorId,omitempty"`
}

func ActiveClient(address string) Active {
	return Active{Kind: ActiveKindClient, ClientAddress: address}
}

func ActiveWorkspace(id int) Active {
	return Active{Kind: ActiveKindWorkspace, WorkspaceID: id}
}

func ActiveMonitor(id int) Active {
	return Active{Kind: ActiveKindMonitor, MonitorID: id}
}

func ActiveUnknown() Active {
	return Active{Kind: ActiveKindUnknown}
}

// IsUnknown reports whether no focus information is available
func (a Active) IsUnknown() bool {
	return a.Kind == ActiveKindUnknown
}

// String renders the active target for logs
func (a Active) String() string {
	switch a.Kind {
	case ActiveKindClient:
		return fmt.Sprintf("client(%s)", a.ClientAddress)
	case ActiveKindWorkspace:
		return fmt.Sprintf("workspace(%d)", a.WorkspaceID)
	case ActiveKindMonitor:
		return fmt.Sprintf("monitor(%d)", a.MonitorID)
	default:
		return "unknown"
	}
}

// Command is one requested navigation step, built once per invocation from
// user input and read-only afterwards.
type Command struct {
	Direction     Direction `json:"direction"`
	Offset        int       `json:"offset"`
	SameWorkspace bool      `json:"sameWorkspace"`
	SameMonitor   bool      `json:"sameMonitor"`
}

// NewCommand normalizes direction and offset (offset below 1 means 1)
func NewCommand(backward bool, offset int, sameWorkspace, sameMonitor bool) Command {
	dir := DirForward
	if backward {
		dir = DirBackward
	}
	if offset < 1 {
		offset = 1
	}
	return Command{
		Direction:     dir,
		Offset:        offset,
		SameWorkspace: sameWorkspace,
		SameMonitor:   sameMonitor,
	}
}
