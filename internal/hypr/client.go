package hypr

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yourusername/hyprswitch/internal/logging"
)

const (
	// DefaultTimeout bounds a single compositor round-trip
	DefaultTimeout = 3 * time.Second
)

// Client talks to the Hyprland control socket directly. Each call opens a
// fresh connection; the compositor answers one request per connection.
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient locates the Hyprland control socket from the environment
func NewClient() (*Client, error) {
	his := os.Getenv("HYPRLAND_INSTANCE_SIGNATURE")
	if his == "" {
		return nil, fmt.Errorf("HYPRLAND_INSTANCE_SIGNATURE not set (is Hyprland running?)")
	}

	runtimeDir := os.Getenv("XDG_RUNTIME_DIR")
	if runtimeDir == "" {
		runtimeDir = "/tmp"
	}

	// Hyprland moved the socket under $XDG_RUNTIME_DIR/hypr in 0.40; the
	// old /tmp/hypr location is kept as a fallback for older compositors.
	candidates := []string{
		filepath.Join(runtimeDir, "hypr", his, ".socket.sock"),
		filepath.Join("/tmp", "hypr", his, ".socket.sock"),
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return &Client{socketPath: p, timeout: DefaultTimeout}, nil
		}
	}

	return nil, fmt.Errorf("hyprland control socket not found (tried %s)", strings.Join(candidates, ", "))
}

// SocketPath returns the resolved control socket path
func (c *Client) SocketPath() string {
	return c.socketPath
}

// roundTrip sends one request line and reads the full reply
func (c *Client) roundTrip(ctx context.Context, request string) ([]byte, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", c.socketPath)
	if err != nil {
		return nil, fmt.Errorf("dial hyprland socket %s: %w", c.socketPath, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	if _, err := conn.Write([]byte(request)); err != nil {
		return nil, fmt.Errorf("write %q to hyprland socket: %w", request, err)
	}

	reply, err := io.ReadAll(conn)
	if err != nil {
		return nil, fmt.Errorf("read reply for %q: %w", request, err)
	}
	return reply, nil
}

// QueryJSON runs a j/<topic> query and returns the raw JSON reply
func (c *Client) QueryJSON(ctx context.Context, topic string) ([]byte, error) {
	return c.roundTrip(ctx, "j/"+topic)
}

// Dispatch issues a dispatcher command, e.g. Dispatch(ctx, "workspace", "3")
func (c *Client) Dispatch(ctx context.Context, args ...string) error {
	request := "dispatch " + strings.Join(args, " ")
	reply, err := c.roundTrip(ctx, request)
	if err != nil {
		return err
	}
	if resp := strings.TrimSpace(string(reply)); resp != "ok" {
		return fmt.Errorf("hyprland rejected %q: %s", request, resp)
	}
	logging.Debug().Str("request", request).Msg("dispatched")
	return nil
}
