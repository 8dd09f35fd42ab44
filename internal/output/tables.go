// Package output renders compositor listings for the terminal
package output

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/sys/unix"

	"github.com/yourusername/hyprswitch/internal/hypr"
)

// PrintClientsTable prints windows in a table format. The active address,
// when known, is marked.
func PrintClientsTable(clients []hypr.ClientInfo, activeAddress string) {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Address", "Class", "Title", "Workspace", "Monitor", "Focus", "Active")

	titleWidth := titleColumnWidth()
	for _, c := range clients {
		active := ""
		if c.Address == activeAddress && activeAddress != "" {
			active = activeMark()
		}

		table.Append(
			c.Address,
			truncate(c.Class, 20),
			truncate(c.Title, titleWidth),
			fmt.Sprintf("%d (%s)", c.WorkspaceID, c.WorkspaceName),
			fmt.Sprintf("%d", c.MonitorID),
			fmt.Sprintf("%d", c.FocusHistoryID),
			active,
		)
	}

	table.Render()
}

// PrintWorkspacesTable prints workspaces in a table format
func PrintWorkspacesTable(workspaces []hypr.WorkspaceInfo, activeID int, hasActive bool) {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ID", "Name", "Monitor", "Windows", "Active")

	for _, ws := range workspaces {
		active := ""
		if hasActive && ws.ID == activeID {
			active = activeMark()
		}

		table.Append(
			fmt.Sprintf("%d", ws.ID),
			truncate(ws.Name, 20),
			ws.MonitorName,
			fmt.Sprintf("%d", ws.Windows),
			active,
		)
	}

	table.Render()
}

// PrintMonitorsTable prints monitors in a table format
func PrintMonitorsTable(monitors []hypr.MonitorInfo) {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ID", "Name", "Geometry", "Position", "Workspace", "Focused")

	for _, m := range monitors {
		focused := ""
		if m.Focused {
			focused = activeMark()
		}

		table.Append(
			fmt.Sprintf("%d", m.ID),
			m.Name,
			fmt.Sprintf("%dx%d", m.Width, m.Height),
			fmt.Sprintf("%d,%d", m.X, m.Y),
			fmt.Sprintf("%d", m.ActiveWorkspaceID),
			focused,
		)
	}

	table.Render()
}

// PrintJSON writes any listing as indented JSON, for scripting
func PrintJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func activeMark() string {
	if color.NoColor {
		return "*"
	}
	return color.GreenString("*")
}

// titleColumnWidth sizes the title column to the terminal, leaving room for
// the fixed columns.
func titleColumnWidth() int {
	width := terminalWidth()
	remaining := width - 70
	if remaining < 20 {
		return 20
	}
	if remaining > 60 {
		return 60
	}
	return remaining
}

func terminalWidth() int {
	ws, err := unix.IoctlGetWinsize(int(os.Stdout.Fd()), unix.TIOCGWINSZ)
	if err != nil {
		return 80
	}
	return int(ws.Col)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
