package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/google/uuid"
)

const DefaultTimeout = 5 * time.Second

// Connection manages the Unix domain socket connection to the daemon
type Connection struct {
	socketPath string
	conn       net.Conn
	reader     *bufio.Reader
	timeout    time.Duration
}

// NewConnection creates a new connection instance
func NewConnection(socketPath string, timeout time.Duration) *Connection {
	return &Connection{
		socketPath: socketPath,
		timeout:    timeout,
	}
}

// Connect establishes the Unix domain socket connection
func (c *Connection) Connect() error {
	var err error
	c.conn, err = net.Dial("unix", c.socketPath)
	if err != nil {
		return fmt.Errorf("failed to connect to socket %s: %w", c.socketPath, err)
	}
	c.reader = bufio.NewReader(c.conn)
	return nil
}

// Close closes the connection
func (c *Connection) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// IsConnected returns true if the connection is established
func (c *Connection) IsConnected() bool {
	return c.conn != nil
}

// SendRequest sends a request and waits for the response
func (c *Connection) SendRequest(ctx context.Context, req *MessageEnvelope) (*Response, error) {
	// Apply timeout if not already set
	if _, ok := ctx.Deadline(); !ok && c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	// Send with newline delimiter
	data = append(data, '\n')
	if err := c.conn.SetWriteDeadline(time.Now().Add(c.timeout)); err != nil {
		return nil, fmt.Errorf("failed to set write deadline: %w", err)
	}
	if _, err := c.conn.Write(data); err != nil {
		return nil, fmt.Errorf("failed to write request: %w", err)
	}

	// Read response with context cancellation support
	respChan := make(chan *Response, 1)
	errChan := make(chan error, 1)

	go func() {
		if err := c.conn.SetReadDeadline(time.Now().Add(c.timeout)); err != nil {
			errChan <- fmt.Errorf("failed to set read deadline: %w", err)
			return
		}

		line, err := c.reader.ReadBytes('\n')
		if err != nil {
			errChan <- fmt.Errorf("failed to read response: %w", err)
			return
		}

		var envelope MessageEnvelope
		if err := json.Unmarshal(line, &envelope); err != nil {
			errChan <- fmt.Errorf("failed to unmarshal response: %w", err)
			return
		}

		if envelope.Type != "response" {
			errChan <- fmt.Errorf("expected response, got %s", envelope.Type)
			return
		}
		if envelope.Response == nil {
			errChan <- fmt.Errorf("response envelope has nil response")
			return
		}

		respChan <- envelope.Response
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("request cancelled or timed out: %w", ctx.Err())
	case err := <-errChan:
		return nil, err
	case resp := <-respChan:
		return resp, nil
	}
}

// Client talks to a running daemon. Each instance opens one connection on
// first use and holds it until Close.
type Client struct {
	conn *Connection
}

// NewClient creates a client for the daemon at socketPath. An empty path
// resolves through SocketPath.
func NewClient(socketPath string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		conn: NewConnection(SocketPath(socketPath), timeout),
	}
}

// Connect establishes connection to the daemon
func (c *Client) Connect() error {
	return c.conn.Connect()
}

// Close closes the connection
func (c *Client) Close() error {
	return c.conn.Close()
}

// request marshals params, sends one request and decodes the response
func (c *Client) request(ctx context.Context, method string, params interface{}) (*Response, error) {
	if !c.conn.IsConnected() {
		if err := c.Connect(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNotRunning, err)
		}
	}

	var raw json.RawMessage
	if params != nil {
		data, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal params: %w", err)
		}
		raw = data
	}

	req := NewRequest(uuid.New().String(), method, raw)
	resp, err := c.conn.SendRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, ErrFor(resp.Error)
	}
	return resp, nil
}

// Init opens a switch session using the daemon's stored configuration
func (c *Client) Init(ctx context.Context, params InitParams) error {
	_, err := c.request(ctx, MethodInit, params)
	return err
}

// GuiInit opens a switch session with a full per-session configuration
func (c *Client) GuiInit(ctx context.Context, params GuiInitParams) error {
	_, err := c.request(ctx, MethodGuiInit, params)
	return err
}

// Dispatch advances the selection and reports the resolved target
func (c *Client) Dispatch(ctx context.Context, params DispatchParams) (*DispatchResult, error) {
	resp, err := c.request(ctx, MethodDispatch, params)
	if err != nil {
		return nil, err
	}

	var result DispatchResult
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		return nil, fmt.Errorf("failed to decode dispatch result: %w", err)
	}
	return &result, nil
}

// CloseSession ends the active session. With kill set the pending selection
// is discarded instead of applied.
func (c *Client) CloseSession(ctx context.Context, kill bool) error {
	_, err := c.request(ctx, MethodClose, CloseParams{Kill: kill})
	return err
}

// DaemonRunning probes the daemon's socket. A successful dial means a live
// daemon; connection refused or a missing socket means none.
func DaemonRunning(socketPath string) bool {
	conn, err := net.DialTimeout("unix", SocketPath(socketPath), time.Second)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}
