package hypr

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// ClientInfo is one window known to the compositor. Snapshot value: never
// mutated, only re-fetched.
type ClientInfo struct {
	Address        string
	Class          string
	Title          string
	InitialClass   string
	WorkspaceID    int
	WorkspaceName  string
	MonitorID      int
	FocusHistoryID int // 0 is the most recently focused client
	Floating       bool
	Mapped         bool
	Hidden         bool
	Pid            int
}

// WorkspaceInfo identifies a workspace plus the ordering metadata used to
// define "next" under wraparound.
type WorkspaceInfo struct {
	ID          int
	Name        string
	MonitorName string
	MonitorID   int
	Windows     int
}

// IsSpecial reports whether this is a special (scratchpad) workspace
func (w WorkspaceInfo) IsSpecial() bool {
	return w.ID < 0 || strings.HasPrefix(w.Name, "special")
}

// MonitorInfo identifies a monitor; X/Y give its geometric ordering.
type MonitorInfo struct {
	ID                int
	Name              string
	X                 int
	Y                 int
	Width             int
	Height            int
	Focused           bool
	ActiveWorkspaceID int
}

// ClientsData is the full snapshot: deterministically ordered clients,
// workspaces and monitors. Constructed fresh per query, never cached.
type ClientsData struct {
	Clients    []ClientInfo
	Workspaces []WorkspaceInfo
	Monitors   []MonitorInfo
}

// ActiveIDs carries whatever focus information the compositor reported.
// Any of the fields may be absent.
type ActiveIDs struct {
	ClientAddress string
	WorkspaceID   int
	HasWorkspace  bool
	MonitorID     int
	HasMonitor    bool
}

// MonitorName resolves a monitor id to its name, for dispatching
func (d *ClientsData) MonitorName(id int) (string, bool) {
	for _, m := range d.Monitors {
		if m.ID == id {
			return m.Name, true
		}
	}
	return "", false
}

// CollectOptions narrows and orders the snapshot per configuration
type CollectOptions struct {
	SortRecent               bool     // order clients purely by focus recency
	IncludeSpecialWorkspaces bool     // keep special (scratchpad) workspaces
	IgnoreWorkspaces         []string // workspace names dropped from the snapshot
	IgnoreMonitors           []string // monitor names dropped from the snapshot
}

// CollectData queries the compositor once and builds the snapshot. The
// result is consistent at the instant of the call only; callers must
// re-query rather than cache across invocations.
func (c *Client) CollectData(ctx context.Context, opts CollectOptions) (*ClientsData, ActiveIDs, error) {
	var active ActiveIDs

	clients, err := c.listClients(ctx)
	if err != nil {
		return nil, active, fmt.Errorf("collect clients: %w", err)
	}
	workspaces, err := c.listWorkspaces(ctx)
	if err != nil {
		return nil, active, fmt.Errorf("collect workspaces: %w", err)
	}
	monitors, err := c.listMonitors(ctx)
	if err != nil {
		return nil, active, fmt.Errorf("collect monitors: %w", err)
	}

	data := &ClientsData{
		Clients:    clients,
		Workspaces: workspaces,
		Monitors:   monitors,
	}
	data.filter(opts)
	data.order(opts)

	active, err = c.queryActive(ctx, data)
	if err != nil {
		return nil, active, fmt.Errorf("collect focus state: %w", err)
	}
	return data, active, nil
}

// filter drops ignored and special entries, and clients living on them
func (d *ClientsData) filter(opts CollectOptions) {
	dropWS := make(map[int]bool)

	workspaces := d.Workspaces[:0]
	for _, ws := range d.Workspaces {
		if !opts.IncludeSpecialWorkspaces && ws.IsSpecial() {
			dropWS[ws.ID] = true
			continue
		}
		if containsName(opts.IgnoreWorkspaces, ws.Name) {
			dropWS[ws.ID] = true
			continue
		}
		workspaces = append(workspaces, ws)
	}
	d.Workspaces = workspaces

	dropMon := make(map[int]bool)
	monitors := d.Monitors[:0]
	for _, m := range d.Monitors {
		if containsName(opts.IgnoreMonitors, m.Name) {
			dropMon[m.ID] = true
			continue
		}
		monitors = append(monitors, m)
	}
	d.Monitors = monitors

	clients := d.Clients[:0]
	for _, cl := range d.Clients {
		if !cl.Mapped || cl.Hidden {
			continue
		}
		if dropWS[cl.WorkspaceID] || dropMon[cl.MonitorID] {
			continue
		}
		if !opts.IncludeSpecialWorkspaces && (cl.WorkspaceID < 0 || strings.HasPrefix(cl.WorkspaceName, "special")) {
			continue
		}
		clients = append(clients, cl)
	}
	d.Clients = clients
}

// order makes the candidate sequences deterministic: workspaces by id,
// monitors by position, clients by workspace then monitor position then
// focus recency. The user expects consistent cycling given the same state.
func (d *ClientsData) order(opts CollectOptions) {
	sort.Slice(d.Workspaces, func(i, j int) bool {
		return d.Workspaces[i].ID < d.Workspaces[j].ID
	})

	sort.Slice(d.Monitors, func(i, j int) bool {
		if d.Monitors[i].X != d.Monitors[j].X {
			return d.Monitors[i].X < d.Monitors[j].X
		}
		if d.Monitors[i].Y != d.Monitors[j].Y {
			return d.Monitors[i].Y < d.Monitors[j].Y
		}
		return d.Monitors[i].ID < d.Monitors[j].ID
	})

	monitorRank := make(map[int]int, len(d.Monitors))
	for i, m := range d.Monitors {
		monitorRank[m.ID] = i
	}

	if opts.SortRecent {
		sort.Slice(d.Clients, func(i, j int) bool {
			if d.Clients[i].FocusHistoryID != d.Clients[j].FocusHistoryID {
				return d.Clients[i].FocusHistoryID < d.Clients[j].FocusHistoryID
			}
			return d.Clients[i].Address < d.Clients[j].Address
		})
		return
	}

	sort.Slice(d.Clients, func(i, j int) bool {
		a, b := d.Clients[i], d.Clients[j]
		if a.WorkspaceID != b.WorkspaceID {
			return a.WorkspaceID < b.WorkspaceID
		}
		if monitorRank[a.MonitorID] != monitorRank[b.MonitorID] {
			return monitorRank[a.MonitorID] < monitorRank[b.MonitorID]
		}
		if a.FocusHistoryID != b.FocusHistoryID {
			return a.FocusHistoryID < b.FocusHistoryID
		}
		return a.Address < b.Address
	})
}

func (c *Client) listClients(ctx context.Context) ([]ClientInfo, error) {
	data, err := c.QueryJSON(ctx, "clients")
	if err != nil {
		return nil, err
	}
	return parseClients(data)
}

func parseClients(data []byte) ([]ClientInfo, error) {
	var raw []struct {
		Address   string `json:"address"`
		Mapped    bool   `json:"mapped"`
		Hidden    bool   `json:"hidden"`
		Workspace struct {
			ID   int    `json:"id"`
			Name string `json:"name"`
		} `json:"workspace"`
		Floating       bool   `json:"floating"`
		Monitor        int    `json:"monitor"`
		Class          string `json:"class"`
		Title          string `json:"title"`
		InitialClass   string `json:"initialClass"`
		Pid            int    `json:"pid"`
		FocusHistoryID int    `json:"focusHistoryID"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode clients: %w", err)
	}

	clients := make([]ClientInfo, 0, len(raw))
	for _, cl := range raw {
		clients = append(clients, ClientInfo{
			Address:        cl.Address,
			Class:          cl.Class,
			Title:          cl.Title,
			InitialClass:   cl.InitialClass,
			WorkspaceID:    cl.Workspace.ID,
			WorkspaceName:  cl.Workspace.Name,
			MonitorID:      cl.Monitor,
			FocusHistoryID: cl.FocusHistoryID,
			Floating:       cl.Floating,
			Mapped:         cl.Mapped,
			Hidden:         cl.Hidden,
			Pid:            cl.Pid,
		})
	}
	return clients, nil
}

func (c *Client) listWorkspaces(ctx context.Context) ([]WorkspaceInfo, error) {
	data, err := c.QueryJSON(ctx, "workspaces")
	if err != nil {
		return nil, err
	}
	return parseWorkspaces(data)
}

func parseWorkspaces(data []byte) ([]WorkspaceInfo, error) {
	var raw []struct {
		ID        int    `json:"id"`
		Name      string `json:"name"`
		Monitor   string `json:"monitor"`
		MonitorID int    `json:"monitorID"`
		Windows   int    `json:"windows"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode workspaces: %w", err)
	}

	workspaces := make([]WorkspaceInfo, 0, len(raw))
	for _, ws := range raw {
		workspaces = append(workspaces, WorkspaceInfo{
			ID:          ws.ID,
			Name:        ws.Name,
			MonitorName: ws.Monitor,
			MonitorID:   ws.MonitorID,
			Windows:     ws.Windows,
		})
	}
	return workspaces, nil
}

func (c *Client) listMonitors(ctx context.Context) ([]MonitorInfo, error) {
	data, err := c.QueryJSON(ctx, "monitors")
	if err != nil {
		return nil, err
	}
	return parseMonitors(data)
}

func parseMonitors(data []byte) ([]MonitorInfo, error) {
	var raw []struct {
		ID              int    `json:"id"`
		Name            string `json:"name"`
		X               int    `json:"x"`
		Y               int    `json:"y"`
		Width           int    `json:"width"`
		Height          int    `json:"height"`
		Focused         bool   `json:"focused"`
		ActiveWorkspace struct {
			ID int `json:"id"`
		} `json:"activeWorkspace"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode monitors: %w", err)
	}

	monitors := make([]MonitorInfo, 0, len(raw))
	for _, m := range raw {
		monitors = append(monitors, MonitorInfo{
			ID:                m.ID,
			Name:              m.Name,
			X:                 m.X,
			Y:                 m.Y,
			Width:             m.Width,
			Height:            m.Height,
			Focused:           m.Focused,
			ActiveWorkspaceID: m.ActiveWorkspace.ID,
		})
	}
	return monitors, nil
}

// queryActive determines the focused client, workspace and monitor. An empty
// activewindow reply is normal (nothing focused) and not an error.
func (c *Client) queryActive(ctx context.Context, d *ClientsData) (ActiveIDs, error) {
	var active ActiveIDs

	data, err := c.QueryJSON(ctx, "activewindow")
	if err != nil {
		return active, err
	}
	var win struct {
		Address string `json:"address"`
	}
	// Hyprland replies with non-JSON when no window is focused
	if json.Unmarshal(data, &win) == nil {
		active.ClientAddress = win.Address
	}

	data, err = c.QueryJSON(ctx, "activeworkspace")
	if err != nil {
		return active, err
	}
	var ws struct {
		ID int `json:"id"`
	}
	if json.Unmarshal(data, &ws) == nil {
		active.WorkspaceID = ws.ID
		active.HasWorkspace = true
	}

	for _, m := range d.Monitors {
		if m.Focused {
			active.MonitorID = m.ID
			active.HasMonitor = true
			break
		}
	}
	return active, nil
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
