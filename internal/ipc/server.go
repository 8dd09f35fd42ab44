package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/yourusername/hyprswitch/internal/logging"
)

// Handler processes one decoded request and returns the result payload.
// Returned errors map onto wire codes via CodeFor.
type Handler interface {
	Handle(ctx context.Context, method string, params json.RawMessage) (interface{}, error)
}

// Server accepts client connections on a Unix domain socket. Each connection
// carries one request and one response. Connections are read concurrently
// under a deadline, so a client that dials and never writes cannot wedge the
// daemon; handleMu still runs commands one at a time, in receipt order.
type Server struct {
	socketPath string
	handler    Handler
	listener   net.Listener
	handleMu   sync.Mutex
}

// NewServer creates a server bound to socketPath once Listen is called
func NewServer(socketPath string, handler Handler) *Server {
	return &Server{
		socketPath: SocketPath(socketPath),
		handler:    handler,
	}
}

// SocketPath returns the resolved endpoint the server binds to
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Listen binds the socket. A live daemon on the same path is an error; a
// stale socket file left by a crashed one is removed.
func (s *Server) Listen() error {
	if DaemonRunning(s.socketPath) {
		return fmt.Errorf("%w at %s", ErrAlreadyRunning, s.socketPath)
	}

	if err := os.MkdirAll(filepath.Dir(s.socketPath), 0700); err != nil {
		return fmt.Errorf("failed to create socket directory: %w", err)
	}
	if err := os.Remove(s.socketPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove stale socket: %w", err)
	}

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.socketPath, err)
	}
	s.listener = listener
	logging.Info().Str("socket", s.socketPath).Msg("ipc server listening")
	return nil
}

// Serve runs the accept loop until ctx is cancelled or Close is called
func (s *Server) Serve(ctx context.Context) error {
	if s.listener == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}

	go func() {
		<-ctx.Done()
		s.Close()
	}()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			logging.Warn().Err(err).Msg("accept failed")
			continue
		}
		go s.handleConn(ctx, conn)
	}
}

// Close stops the listener and removes the socket file
func (s *Server) Close() error {
	if s.listener == nil {
		return nil
	}
	err := s.listener.Close()
	os.Remove(s.socketPath)
	return err
}

// handleConn services exactly one request on conn
func (s *Server) handleConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(DefaultTimeout)); err != nil {
		logging.Warn().Err(err).Msg("failed to set connection deadline")
		return
	}

	reader := bufio.NewReader(conn)
	line, err := reader.ReadBytes('\n')
	if err != nil {
		logging.Warn().Err(err).Msg("failed to read request")
		return
	}

	var envelope MessageEnvelope
	if err := json.Unmarshal(line, &envelope); err != nil {
		s.reply(conn, NewErrorResponse("", CodeInternal, fmt.Sprintf("malformed request: %v", err)))
		return
	}
	if envelope.Type != "request" || envelope.Request == nil {
		s.reply(conn, NewErrorResponse("", CodeInternal, "expected request envelope"))
		return
	}

	req := envelope.Request
	logging.Debug().Str("id", req.ID).Str("method", req.Method).Msg("handling request")

	s.handleMu.Lock()
	result, err := s.handler.Handle(ctx, req.Method, req.Params)
	s.handleMu.Unlock()
	if err != nil {
		logging.Debug().Err(err).Str("id", req.ID).Str("method", req.Method).Msg("request failed")
		s.reply(conn, NewErrorResponse(req.ID, CodeFor(err), err.Error()))
		return
	}

	var raw json.RawMessage
	if result != nil {
		raw, err = json.Marshal(result)
		if err != nil {
			s.reply(conn, NewErrorResponse(req.ID, CodeInternal, fmt.Sprintf("failed to encode result: %v", err)))
			return
		}
	}
	s.reply(conn, NewResponse(req.ID, raw))
}

func (s *Server) reply(conn net.Conn, envelope *MessageEnvelope) {
	data, err := json.Marshal(envelope)
	if err != nil {
		logging.Error().Err(err).Msg("failed to marshal response")
		return
	}
	data = append(data, '\n')
	if _, err := conn.Write(data); err != nil {
		logging.Warn().Err(err).Msg("failed to write response")
	}
}
