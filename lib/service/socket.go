// Copyright 2026 The cedar-java Authors
// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/felixzheng98/cedar-java/lib/codec"
)

// ActionFunc handles one request. raw is the whole CBOR request,
// including the "action" field; the handler decodes its own fields
// from it.
//
// A nil result produces {ok: true}. A non-nil result is CBOR-encoded
// into the response's "data" field. An error produces {ok: false}
// with the error text.
type ActionFunc func(ctx context.Context, raw []byte) (any, error)

// Response is the envelope of every socket response.
type Response struct {
	OK    bool             `cbor:"ok"`
	Error string           `cbor:"error,omitempty"`
	Data  codec.RawMessage `cbor:"data,omitempty"`
}

// SocketServer serves CBOR requests on a Unix socket, one request and
// one response per connection.
type SocketServer struct {
	socketPath string
	handlers   map[string]ActionFunc
	logger     *slog.Logger

	readTimeout    time.Duration
	writeTimeout   time.Duration
	maxRequestSize int64

	// inflight lets Serve wait for running handlers before returning.
	inflight sync.WaitGroup
}

// Default connection limits. Policy sources are the largest requests
// and stay far below maxRequestSize.
const (
	defaultReadTimeout    = 30 * time.Second
	defaultWriteTimeout   = 10 * time.Second
	defaultMaxRequestSize = 1024 * 1024
)

// Limits overrides the connection limits of a SocketServer. Zero
// fields keep their defaults.
type Limits struct {
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	MaxRequestSize int64
}

// NewSocketServer creates a server for socketPath. Register actions
// with Handle before calling Serve. A nil logger discards output.
func NewSocketServer(socketPath string, logger *slog.Logger) *SocketServer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SocketServer{
		socketPath:     socketPath,
		handlers:       make(map[string]ActionFunc),
		logger:         logger,
		readTimeout:    defaultReadTimeout,
		writeTimeout:   defaultWriteTimeout,
		maxRequestSize: defaultMaxRequestSize,
	}
}

// SetLimits applies non-zero fields of limits. Call before Serve.
func (s *SocketServer) SetLimits(limits Limits) {
	if limits.ReadTimeout > 0 {
		s.readTimeout = limits.ReadTimeout
	}
	if limits.WriteTimeout > 0 {
		s.writeTimeout = limits.WriteTimeout
	}
	if limits.MaxRequestSize > 0 {
		s.maxRequestSize = limits.MaxRequestSize
	}
}

// Handle registers handler for action. Registering an action twice
// panics.
func (s *SocketServer) Handle(action string, handler ActionFunc) {
	if _, exists := s.handlers[action]; exists {
		panic(fmt.Sprintf("service.SocketServer: duplicate handler for action %q", action))
	}
	s.handlers[action] = handler
}

// Actions returns the registered action names, sorted.
func (s *SocketServer) Actions() []string {
	names := make([]string, 0, len(s.handlers))
	for name := range s.handlers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Serve listens on the socket and dispatches requests until ctx is
// cancelled, then waits for running handlers. A stale socket file is
// removed before listening, and the socket file is removed on return.
func (s *SocketServer) Serve(ctx context.Context) error {
	if err := os.Remove(s.socketPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing stale socket %s: %w", s.socketPath, err)
	}

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.socketPath, err)
	}
	defer func() {
		listener.Close()
		os.Remove(s.socketPath)
	}()

	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	s.logger.Info("socket server listening", "path", s.socketPath, "actions", len(s.handlers))

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				break
			}
			s.logger.Error("accept failed", "error", err)
			continue
		}

		s.inflight.Add(1)
		go func() {
			defer s.inflight.Done()
			s.handleConnection(ctx, conn)
		}()
	}

	s.inflight.Wait()
	return nil
}

// handleConnection runs one request-response cycle.
func (s *SocketServer) handleConnection(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(s.readTimeout))

	// CBOR is self-delimiting, so one Decode reads exactly one request.
	var raw codec.RawMessage
	if err := codec.NewDecoder(io.LimitReader(conn, s.maxRequestSize)).Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return
		}
		s.writeError(conn, fmt.Sprintf("invalid request: %v", err))
		return
	}

	var header struct {
		Action string `cbor:"action"`
	}
	if err := codec.Unmarshal(raw, &header); err != nil {
		s.writeError(conn, fmt.Sprintf("invalid request: %v", err))
		return
	}
	if header.Action == "" {
		s.writeError(conn, "missing required field: action")
		return
	}

	handler, exists := s.handlers[header.Action]
	if !exists {
		s.writeError(conn, fmt.Sprintf("unknown action %q", header.Action))
		return
	}

	result, err := handler(ctx, []byte(raw))
	if err != nil {
		s.logger.Debug("action failed", "action", header.Action, "error", err)
		s.writeError(conn, err.Error())
		return
	}

	s.writeSuccess(conn, result)
}

// writeError sends {ok: false, error: message}. The connection closes
// either way, so a failed write is only logged.
func (s *SocketServer) writeError(conn net.Conn, message string) {
	conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
	if err := codec.NewEncoder(conn).Encode(Response{OK: false, Error: message}); err != nil {
		s.logger.Debug("failed to write error response", "error", err)
	}
}

// writeSuccess sends {ok: true} with result encoded into data when it
// is non-nil.
func (s *SocketServer) writeSuccess(conn net.Conn, result any) {
	conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))

	response := Response{OK: true}
	if result != nil {
		data, err := codec.Marshal(result)
		if err != nil {
			s.writeError(conn, fmt.Sprintf("internal: marshaling response: %v", err))
			return
		}
		response.Data = data
	}

	if err := codec.NewEncoder(conn).Encode(response); err != nil {
		s.logger.Debug("failed to write success response", "error", err)
	}
}
