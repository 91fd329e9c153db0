// Copyright 2026 The cedar-java Authors
// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"
)

// HTTPServer serves HTTP on a TCP listener bound at construction, so
// an unusable address fails before anything else starts. cedarbridge
// uses it for the Prometheus endpoint.
//
// Follows the same lifecycle as SocketServer: Serve(ctx) blocks until
// the context is cancelled and active requests drain.
type HTTPServer struct {
	listener net.Listener
	handler  http.Handler
	logger   *slog.Logger

	// shutdownTimeout bounds waiting for active requests after the
	// context is cancelled.
	shutdownTimeout time.Duration
}

// HTTPServerConfig configures an HTTPServer.
type HTTPServerConfig struct {
	// Address is the TCP listen address, e.g. "127.0.0.1:9464".
	// Port 0 selects a free port; read it back with Addr. Required.
	Address string

	// Handler serves every request. Required.
	Handler http.Handler

	// ShutdownTimeout bounds graceful shutdown. Zero means 5 seconds.
	ShutdownTimeout time.Duration

	// Logger receives lifecycle messages. Nil discards them.
	Logger *slog.Logger
}

// ListenHTTP validates config and binds the listener. The caller must
// either Serve or Close the returned server.
func ListenHTTP(config HTTPServerConfig) (*HTTPServer, error) {
	if config.Address == "" {
		return nil, errors.New("service.HTTPServer: Address is required")
	}
	if config.Handler == nil {
		return nil, errors.New("service.HTTPServer: Handler is required")
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	timeout := config.ShutdownTimeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	listener, err := net.Listen("tcp", config.Address)
	if err != nil {
		return nil, fmt.Errorf("listening on %s: %w", config.Address, err)
	}
	return &HTTPServer{
		listener:        listener,
		handler:         config.Handler,
		logger:          logger,
		shutdownTimeout: timeout,
	}, nil
}

// Addr returns the bound address, with the actual port when the
// configured port was 0.
func (s *HTTPServer) Addr() net.Addr {
	return s.listener.Addr()
}

// Close releases the listener of a server that will not be served.
func (s *HTTPServer) Close() error {
	return s.listener.Close()
}

// Serve accepts connections until ctx is cancelled, then stops
// accepting and waits up to the shutdown timeout for active requests.
func (s *HTTPServer) Serve(ctx context.Context) error {
	server := &http.Server{
		Handler: s.handler,

		// Scrapes are small; these bound slow clients.
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	s.logger.Info("http server listening", "address", s.Addr().String())

	serveDone := make(chan error, 1)
	go func() {
		if err := server.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveDone <- err
		}
		close(serveDone)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("http server shutting down")
	case err := <-serveDone:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("http server shutdown error", "error", err)
		return fmt.Errorf("http server shutdown: %w", err)
	}

	s.logger.Info("http server stopped")
	return nil
}
