// Package engine computes the next switch target from a snapshot. It is
// pure: no I/O, no mutable state, same output for the same inputs.
package engine

import (
	"errors"

	"github.com/yourusername/hyprswitch/internal/hypr"
	"github.com/yourusername/hyprswitch/internal/types"
)

// ErrNoCandidates means the snapshot holds nothing to switch to for the
// requested switch type (possibly after filtering).
var ErrNoCandidates = errors.New("no candidates to switch to")

// FindNext resolves the next target for one navigation step. When active is
// Unknown, or was filtered out of the candidate sequence, the position is
// treated as "before the first element": forward lands on the first
// candidate and backward on the last, so the user always makes progress.
//
// Filters that eliminate every candidate yield ErrNoCandidates; they never
// fall back to the unfiltered sequence.
func FindNext(switchType types.SwitchType, cmd types.Command, data *hypr.ClientsData, active types.Active) (types.Active, error) {
	candidates := buildCandidates(switchType, cmd, data)
	if len(candidates) == 0 {
		return types.Active{}, ErrNoCandidates
	}

	offset := cmd.Offset
	if offset < 1 {
		offset = 1
	}

	index := -1
	for i, c := range candidates {
		if sameTarget(c, active) {
			index = i
			break
		}
	}

	length := len(candidates)
	var next int
	switch {
	case index >= 0:
		next = mod(index+cmd.Direction.Sign()*offset, length)
	case cmd.Direction == types.DirBackward:
		next = mod(-offset, length)
	default:
		next = mod(offset-1, length)
	}

	return candidates[next], nil
}

// buildCandidates produces the ordered candidate sequence for the switch
// type, applying the command's filters. Order comes from the snapshot's
// stable ordering, so cycling is deterministic per snapshot.
func buildCandidates(switchType types.SwitchType, cmd types.Command, data *hypr.ClientsData) []types.Active {
	switch switchType {
	case types.SwitchWorkspace:
		monitorID, haveMonitor := focusedMonitor(data)
		out := make([]types.Active, 0, len(data.Workspaces))
		for _, ws := range data.Workspaces {
			if cmd.SameMonitor && (!haveMonitor || ws.MonitorID != monitorID) {
				continue
			}
			out = append(out, types.ActiveWorkspace(ws.ID))
		}
		return out

	case types.SwitchMonitor:
		out := make([]types.Active, 0, len(data.Monitors))
		for _, m := range data.Monitors {
			out = append(out, types.ActiveMonitor(m.ID))
		}
		return out

	default: // client
		monitorID, haveMonitor := focusedMonitor(data)
		workspaceID, haveWorkspace := currentWorkspace(data)
		out := make([]types.Active, 0, len(data.Clients))
		for _, cl := range data.Clients {
			if cmd.SameWorkspace && (!haveWorkspace || cl.WorkspaceID != workspaceID) {
				continue
			}
			if cmd.SameMonitor && (!haveMonitor || cl.MonitorID != monitorID) {
				continue
			}
			out = append(out, types.ActiveClient(cl.Address))
		}
		return out
	}
}

func focusedMonitor(data *hypr.ClientsData) (int, bool) {
	for _, m := range data.Monitors {
		if m.Focused {
			return m.ID, true
		}
	}
	return 0, false
}

func currentWorkspace(data *hypr.ClientsData) (int, bool) {
	for _, m := range data.Monitors {
		if m.Focused {
			return m.ActiveWorkspaceID, true
		}
	}
	return 0, false
}

func sameTarget(a, b types.Active) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case types.ActiveKindClient:
		return a.ClientAddress == b.ClientAddress
	case types.ActiveKindWorkspace:
		return a.WorkspaceID == b.WorkspaceID
	case types.ActiveKindMonitor:
		return a.MonitorID == b.MonitorID
	default:
		return false
	}
}

// mod is the non-negative modulo, so wrapping backward from index 0 lands
// on length-1.
func mod(a, length int) int {
	return ((a % length) + length) % length
}
