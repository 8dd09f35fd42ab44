package ipc

import (
	"fmt"
	"os"
	"path/filepath"
)

// SocketPath resolves the daemon's well-known endpoint. Override order:
// explicit path, HYPRSWITCH_SOCKET, $XDG_RUNTIME_DIR/hyprswitch/daemon.sock,
// then a per-uid /tmp fallback.
func SocketPath(override string) string {
	if override != "" {
		return override
	}
	if env := os.Getenv("HYPRSWITCH_SOCKET"); env != "" {
		return env
	}
	if runtimeDir := os.Getenv("XDG_RUNTIME_DIR"); runtimeDir != "" {
		return filepath.Join(runtimeDir, "hyprswitch", "daemon.sock")
	}
	return fmt.Sprintf("/tmp/hyprswitch-%d.sock", os.Getuid())
}
