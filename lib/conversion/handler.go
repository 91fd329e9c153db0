// Copyright 2026 The cedar-java Authors
// SPDX-License-Identifier: Apache-2.0

package conversion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/felixzheng98/cedar-java/lib/cedar"
	"github.com/felixzheng98/cedar-java/lib/clock"
	"github.com/felixzheng98/cedar-java/lib/codec"
	"github.com/felixzheng98/cedar-java/lib/interop"
	"github.com/felixzheng98/cedar-java/lib/managed"
	"github.com/felixzheng98/cedar-java/lib/managed/classlib"
	"github.com/felixzheng98/cedar-java/lib/policystore"
	"github.com/felixzheng98/cedar-java/lib/service"
)

// ErrUnknownAction is returned by Invoke for an unregistered action.
var ErrUnknownAction = errors.New("unknown action")

// ErrInvalidRequest wraps request decoding failures.
var ErrInvalidRequest = errors.New("invalid request")

// ErrNoStore is returned by the store actions when the handler has no
// policy store.
var ErrNoStore = errors.New("no policy store configured")

// PolicyEngine parses policy text. Implemented by policyengine.Engine.
type PolicyEngine interface {
	interop.PolicyParser

	// PolicyJSON returns the JSON form of one static policy.
	PolicyJSON(source string) ([]byte, error)

	// SplitPolicies parses a multi-policy document into normalized
	// policies in document order.
	SplitPolicies(name string, document []byte) ([]string, error)
}

// PolicyStore persists normalized policies. Implemented by
// policystore.Store.
type PolicyStore interface {
	PutSet(ctx context.Context, document string, policies []policystore.Policy) ([]policystore.Digest, error)
	Get(ctx context.Context, digest policystore.Digest) (policystore.Record, bool, error)
}

// actionFunc runs one action inside a scope that Invoke owns.
type actionFunc func(ctx context.Context, scope *managed.Scope, raw []byte) (any, error)

// Handler runs conversion actions. Each Invoke gets a fresh managed
// runtime and scope, so actions share no managed state.
type Handler struct {
	logger     *slog.Logger
	metrics    *Metrics
	engine     PolicyEngine
	store      PolicyStore
	clock      clock.Clock
	formatter  cedar.FormatterConfig
	newRuntime func() managed.Runtime
	actions    map[string]actionFunc
}

// NewHandler creates a Handler. A nil logger discards output and nil
// metrics records nothing.
func NewHandler(logger *slog.Logger, metrics *Metrics, engine PolicyEngine) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	h := &Handler{
		logger:     logger,
		metrics:    metrics,
		engine:     engine,
		clock:      clock.Real(),
		formatter:  cedar.DefaultFormatterConfig,
		newRuntime: func() managed.Runtime { return classlib.NewHeap() },
	}
	h.actions = map[string]actionFunc{
		ActionParseTypeName:   h.parseTypeName,
		ActionBuildTypeName:   h.buildTypeName,
		ActionParseEntityUID:  h.parseEntityUID,
		ActionBuildEntityUID:  h.buildEntityUID,
		ActionEscapeID:        h.escapeID,
		ActionParsePolicy:     h.parsePolicy,
		ActionParsePolicySet:  h.parsePolicySet,
		ActionFormatterConfig: h.formatterConfig,
		ActionStorePolicySet:  h.storePolicySet,
		ActionLookupPolicy:    h.lookupPolicy,
	}
	return h
}

// SetFormatterDefaults sets the widths used when a formatter-config
// request omits them. Call before serving.
func (h *Handler) SetFormatterDefaults(config cedar.FormatterConfig) error {
	if err := config.Validate(); err != nil {
		return err
	}
	h.formatter = config
	return nil
}

// SetStore enables the store-policy-set and lookup-policy actions.
// Call before serving.
func (h *Handler) SetStore(store PolicyStore) {
	h.store = store
}

// SetClock replaces the clock that times actions for the latency
// metric. Call before serving.
func (h *Handler) SetClock(c clock.Clock) {
	h.clock = c
}

// Actions returns the action names, sorted.
func (h *Handler) Actions() []string {
	names := make([]string, 0, len(h.actions))
	for name := range h.actions {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Register adds every action to server.
func (h *Handler) Register(server *service.SocketServer) {
	for _, action := range h.Actions() {
		server.Handle(action, func(ctx context.Context, raw []byte) (any, error) {
			return h.Invoke(ctx, action, raw)
		})
	}
}

// Invoke runs action on raw, a CBOR-encoded request map. The result is
// one of the *Result types in this package.
func (h *Handler) Invoke(ctx context.Context, action string, raw []byte) (any, error) {
	run, exists := h.actions[action]
	if !exists {
		return nil, fmt.Errorf("%w %q", ErrUnknownAction, action)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := h.clock.Now()
	result, err := h.runScoped(ctx, run, raw)
	elapsed := h.clock.Since(start)

	outcome := outcomeOf(result, err)
	h.metrics.ObserveConversion(action, outcome, elapsed)
	if err != nil {
		h.logger.Debug("conversion failed", "action", action, "outcome", outcome, "error", err)
		return nil, err
	}
	h.logger.Debug("conversion completed", "action", action, "outcome", outcome, "duration", elapsed)
	return result, nil
}

// runScoped runs one action in its own scope and releases every
// reference the action created, including on failure.
func (h *Handler) runScoped(ctx context.Context, run actionFunc, raw []byte) (any, error) {
	scope := managed.Enter(h.newRuntime())
	defer func() {
		h.metrics.ObserveScope(scope.LocalCount())
		scope.Close()
	}()
	return run(ctx, scope, raw)
}

// presence is implemented by results of parse actions, which can
// report an absent value without failing.
type presence interface {
	present() bool
}

func outcomeOf(result any, err error) string {
	if err != nil {
		if errors.Is(err, ErrInvalidRequest) {
			return "invalid-request"
		}
		if kind := interop.KindOf(err); kind != 0 {
			return kind.String()
		}
		return "error"
	}
	if p, ok := result.(presence); ok && !p.present() {
		return "absent"
	}
	return "ok"
}

func decodeRequest(raw []byte, request any) error {
	if err := codec.Unmarshal(raw, request); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return nil
}
