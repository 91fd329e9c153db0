// Copyright 2026 The cedar-java Authors
// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"fmt"
	"io"
	"maps"
	"net"
	"time"

	"github.com/felixzheng98/cedar-java/lib/codec"
)

// dialTimeout bounds the connect phase only.
const dialTimeout = 5 * time.Second

// responseReadTimeout covers the server's read and write timeouts plus
// handler time.
const responseReadTimeout = 45 * time.Second

// maxResponseSize matches the server's default request limit.
const maxResponseSize = 1024 * 1024

// ServiceError is returned by Call when the server answers ok=false.
type ServiceError struct {
	Action  string
	Message string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("service error on %q: %s", e.Action, e.Message)
}

// ServiceClient calls a SocketServer. Each Call uses its own
// connection.
type ServiceClient struct {
	socketPath string
}

// NewServiceClient returns a client for the server at socketPath.
func NewServiceClient(socketPath string) *ServiceClient {
	return &ServiceClient{socketPath: socketPath}
}

// Call sends fields plus "action" and decodes the response data into
// result (if both are non-nil). fields must not contain "action".
//
// A server-side failure is a *ServiceError; connection and encoding
// failures are plain errors.
func (c *ServiceClient) Call(ctx context.Context, action string, fields map[string]any, result any) error {
	data, err := c.CallRaw(ctx, action, fields)
	if err != nil {
		return err
	}
	if result != nil && len(data) > 0 {
		if err := codec.Unmarshal(data, result); err != nil {
			return fmt.Errorf("decoding response data for %q: %w", action, err)
		}
	}
	return nil
}

// CallRaw is Call without decoding: it returns the response's data
// field as raw CBOR.
func (c *ServiceClient) CallRaw(ctx context.Context, action string, fields map[string]any) (codec.RawMessage, error) {
	request := make(map[string]any, len(fields)+1)
	maps.Copy(request, fields)
	request["action"] = action

	response, err := c.send(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("calling %q on %s: %w", action, c.socketPath, err)
	}
	if !response.OK {
		return nil, &ServiceError{Action: action, Message: response.Error}
	}
	return response.Data, nil
}

// send writes request on a fresh connection and reads one response.
func (c *ServiceClient) send(ctx context.Context, request any) (*Response, error) {
	dialer := net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, "unix", c.socketPath)
	if err != nil {
		return nil, fmt.Errorf("connecting: %w", err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}

	if err := codec.NewEncoder(conn).Encode(request); err != nil {
		return nil, fmt.Errorf("writing request: %w", err)
	}

	// Half-close so the server sees EOF after the request.
	if unixConn, ok := conn.(*net.UnixConn); ok {
		unixConn.CloseWrite()
	}

	if _, ok := ctx.Deadline(); !ok {
		conn.SetReadDeadline(time.Now().Add(responseReadTimeout))
	}
	var response Response
	if err := codec.NewDecoder(io.LimitReader(conn, maxResponseSize)).Decode(&response); err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	return &response, nil
}
