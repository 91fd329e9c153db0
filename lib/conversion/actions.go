// Copyright 2026 The cedar-java Authors
// SPDX-License-Identifier: Apache-2.0

package conversion

import (
	"context"
	"fmt"
	"time"

	"github.com/felixzheng98/cedar-java/lib/cedar"
	"github.com/felixzheng98/cedar-java/lib/interop"
	"github.com/felixzheng98/cedar-java/lib/managed"
	"github.com/felixzheng98/cedar-java/lib/policystore"
)

// Action names.
const (
	ActionParseTypeName   = "parse-type-name"
	ActionBuildTypeName   = "build-type-name"
	ActionParseEntityUID  = "parse-entity-uid"
	ActionBuildEntityUID  = "build-entity-uid"
	ActionEscapeID        = "escape-id"
	ActionParsePolicy     = "parse-policy"
	ActionParsePolicySet  = "parse-policy-set"
	ActionFormatterConfig = "formatter-config"
	ActionStorePolicySet  = "store-policy-set"
	ActionLookupPolicy    = "lookup-policy"
)

// Request and result types carry json tags only. The CBOR codec reads
// json tags when no cbor tag is present, so one set of names serves
// the socket and the CLI's JSON output.

type sourceRequest struct {
	Source string `json:"source"`
}

type buildTypeNameRequest struct {
	Basename  string   `json:"basename"`
	Namespace []string `json:"namespace"`
}

type buildEntityUIDRequest struct {
	TypeName string `json:"type_name"`
	ID       string `json:"id"`
}

type escapeIDRequest struct {
	ID string `json:"id"`
}

type policyRequest struct {
	Source string `json:"source"`
	ID     string `json:"id"`
}

type policySetRequest struct {
	Name     string `json:"name"`
	Document string `json:"document"`
}

type lookupPolicyRequest struct {
	Digest string `json:"digest"`
}

type formatterRequest struct {
	LineWidth   *int `json:"line_width"`
	IndentWidth *int `json:"indent_width"`
}

// TypeNameResult describes a type name. Present is false when a parse
// request held malformed source.
type TypeNameResult struct {
	Present   bool     `json:"present"`
	Name      string   `json:"name,omitempty"`
	Namespace []string `json:"namespace,omitempty"`
	Basename  string   `json:"basename,omitempty"`
}

func (r TypeNameResult) present() bool { return r.Present }

// EntityUIDResult describes an entity reference. Present is false when
// a parse request held malformed source.
type EntityUIDResult struct {
	Present   bool   `json:"present"`
	UID       string `json:"uid,omitempty"`
	Type      string `json:"type,omitempty"`
	ID        string `json:"id,omitempty"`
	EscapedID string `json:"escaped_id,omitempty"`
}

func (r EntityUIDResult) present() bool { return r.Present }

// EscapeIDResult is an identifier and its escaped form.
type EscapeIDResult struct {
	ID      string `json:"id"`
	Escaped string `json:"escaped"`
}

// PolicyResult is a validated static policy. Digest identifies the
// normalized source and is the key used by the policy store.
type PolicyResult struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Digest string `json:"digest"`
	JSON   string `json:"json,omitempty"`
}

// PolicySetResult holds the policies of a document in document order.
// Document is set when the set was stored.
type PolicySetResult struct {
	Document string         `json:"document,omitempty"`
	Policies []PolicyResult `json:"policies"`
}

// StoredPolicyResult is a policy read back from the store. Present is
// false when no policy has the requested digest.
type StoredPolicyResult struct {
	Present  bool          `json:"present"`
	Document string        `json:"document,omitempty"`
	Position int           `json:"position,omitempty"`
	StoredAt string        `json:"stored_at,omitempty"`
	Policy   *PolicyResult `json:"policy,omitempty"`
}

func (r StoredPolicyResult) present() bool { return r.Present }

// FormatterResult is a formatter configuration read back from its
// managed form.
type FormatterResult struct {
	LineWidth   int `json:"line_width"`
	IndentWidth int `json:"indent_width"`
}

func typeNameResult(name cedar.EntityTypeName) TypeNameResult {
	return TypeNameResult{
		Present:   true,
		Name:      name.String(),
		Namespace: name.Namespace(),
		Basename:  name.Basename(),
	}
}

func entityUIDResult(uid cedar.EntityUID) EntityUIDResult {
	return EntityUIDResult{
		Present:   true,
		UID:       uid.String(),
		Type:      uid.Type().String(),
		ID:        uid.ID().String(),
		EscapedID: uid.ID().Escaped(),
	}
}

// parseTypeName parses source and reads the name back through the
// managed Optional.
func (h *Handler) parseTypeName(ctx context.Context, scope *managed.Scope, raw []byte) (any, error) {
	var request sourceRequest
	if err := decodeRequest(raw, &request); err != nil {
		return nil, err
	}
	optional, err := interop.ParseEntityTypeName(scope, request.Source)
	if err != nil {
		return nil, err
	}
	name, ok, err := optional.Get(scope, interop.CastEntityTypeName)
	if err != nil {
		return nil, err
	}
	if !ok {
		return TypeNameResult{}, nil
	}
	return typeNameResult(name.Native()), nil
}

func (h *Handler) buildTypeName(ctx context.Context, scope *managed.Scope, raw []byte) (any, error) {
	var request buildTypeNameRequest
	if err := decodeRequest(raw, &request); err != nil {
		return nil, err
	}
	basename, err := interop.NewString(scope, request.Basename)
	if err != nil {
		return nil, err
	}
	namespace, err := interop.NewStringList(scope, request.Namespace)
	if err != nil {
		return nil, err
	}
	name, err := interop.NewEntityTypeName(scope, basename, namespace)
	if err != nil {
		return nil, err
	}
	decoded, err := interop.CastEntityTypeName(scope, name.Ref())
	if err != nil {
		return nil, err
	}
	return typeNameResult(decoded.Native()), nil
}

func (h *Handler) parseEntityUID(ctx context.Context, scope *managed.Scope, raw []byte) (any, error) {
	var request sourceRequest
	if err := decodeRequest(raw, &request); err != nil {
		return nil, err
	}
	optional, err := interop.ParseEntityUID(scope, request.Source)
	if err != nil {
		return nil, err
	}
	uid, ok, err := optional.Get(scope, interop.CastEntityUID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return EntityUIDResult{}, nil
	}
	native, err := uid.Decode(scope)
	if err != nil {
		return nil, err
	}
	return entityUIDResult(native), nil
}

// buildEntityUID constructs the type name and identifier separately
// and composes them, unlike parseEntityUID which parses one string.
func (h *Handler) buildEntityUID(ctx context.Context, scope *managed.Scope, raw []byte) (any, error) {
	var request buildEntityUIDRequest
	if err := decodeRequest(raw, &request); err != nil {
		return nil, err
	}
	typeOptional, err := interop.ParseEntityTypeName(scope, request.TypeName)
	if err != nil {
		return nil, err
	}
	typeName, ok, err := typeOptional.Get(scope, interop.CastEntityTypeName)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &interop.ConversionError{
			Kind:    interop.KindParse,
			Context: "EntityUID type",
			Err:     fmt.Errorf("invalid type name %q", request.TypeName),
		}
	}
	idString, err := interop.NewString(scope, request.ID)
	if err != nil {
		return nil, err
	}
	id, err := interop.NewEntityIdentifier(scope, idString)
	if err != nil {
		return nil, err
	}
	uid, err := interop.NewEntityUID(scope, typeName, id)
	if err != nil {
		return nil, err
	}
	native, err := uid.Decode(scope)
	if err != nil {
		return nil, err
	}
	return entityUIDResult(native), nil
}

func (h *Handler) escapeID(ctx context.Context, scope *managed.Scope, raw []byte) (any, error) {
	var request escapeIDRequest
	if err := decodeRequest(raw, &request); err != nil {
		return nil, err
	}
	idString, err := interop.NewString(scope, request.ID)
	if err != nil {
		return nil, err
	}
	id, err := interop.NewEntityIdentifier(scope, idString)
	if err != nil {
		return nil, err
	}
	return EscapeIDResult{ID: id.Native().String(), Escaped: id.StringRepr()}, nil
}

func (h *Handler) parsePolicy(ctx context.Context, scope *managed.Scope, raw []byte) (any, error) {
	var request policyRequest
	if err := decodeRequest(raw, &request); err != nil {
		return nil, err
	}
	policy, err := interop.ParseStaticPolicy(scope, h.engine, request.Source, request.ID)
	if err != nil {
		return nil, err
	}
	result, err := readPolicy(scope, policy)
	if err != nil {
		return nil, err
	}
	document, err := h.engine.PolicyJSON(result.Source)
	if err != nil {
		return nil, fmt.Errorf("encoding policy %s: %w", result.ID, err)
	}
	result.JSON = string(document)
	return result, nil
}

func (h *Handler) parsePolicySet(ctx context.Context, scope *managed.Scope, raw []byte) (any, error) {
	var request policySetRequest
	if err := decodeRequest(raw, &request); err != nil {
		return nil, err
	}
	return h.collectPolicySet(scope, request)
}

// collectPolicySet splits a document, collects the policies in a
// managed list, and reads them back through the list. Policies are
// numbered policy0, policy1, ... in document order.
func (h *Handler) collectPolicySet(scope *managed.Scope, request policySetRequest) (PolicySetResult, error) {
	sources, err := h.engine.SplitPolicies(documentName(request.Name), []byte(request.Document))
	if err != nil {
		return PolicySetResult{}, &interop.ConversionError{Kind: interop.KindParse, Context: "PolicySet", Err: err}
	}

	list, err := interop.NewList[interop.Policy](scope)
	if err != nil {
		return PolicySetResult{}, err
	}
	for i, source := range sources {
		policy, err := interop.PolicyFromNative(scope, source, fmt.Sprintf("policy%d", i))
		if err != nil {
			return PolicySetResult{}, err
		}
		if err := list.Add(scope, policy); err != nil {
			return PolicySetResult{}, err
		}
	}

	policies, err := list.Items(scope, interop.CastPolicy)
	if err != nil {
		return PolicySetResult{}, err
	}
	result := PolicySetResult{Policies: make([]PolicyResult, 0, len(policies))}
	for _, policy := range policies {
		entry, err := readPolicy(scope, policy)
		if err != nil {
			return PolicySetResult{}, err
		}
		result.Policies = append(result.Policies, entry)
	}
	return result, nil
}

func documentName(name string) string {
	if name == "" {
		return "<request>"
	}
	return name
}

// storePolicySet validates a document the way parse-policy-set does and
// persists every policy. Nothing is stored if any policy fails to parse.
func (h *Handler) storePolicySet(ctx context.Context, scope *managed.Scope, raw []byte) (any, error) {
	if h.store == nil {
		return nil, ErrNoStore
	}
	var request policySetRequest
	if err := decodeRequest(raw, &request); err != nil {
		return nil, err
	}
	result, err := h.collectPolicySet(scope, request)
	if err != nil {
		return nil, err
	}

	policies := make([]policystore.Policy, len(result.Policies))
	for i, policy := range result.Policies {
		policies[i] = policystore.Policy{ID: policy.ID, Source: policy.Source}
	}
	result.Document = documentName(request.Name)
	if _, err := h.store.PutSet(ctx, result.Document, policies); err != nil {
		return nil, fmt.Errorf("storing %s: %w", result.Document, err)
	}
	return result, nil
}

// lookupPolicy reads a stored policy and passes it back through a
// managed Policy before reporting it.
func (h *Handler) lookupPolicy(ctx context.Context, scope *managed.Scope, raw []byte) (any, error) {
	if h.store == nil {
		return nil, ErrNoStore
	}
	var request lookupPolicyRequest
	if err := decodeRequest(raw, &request); err != nil {
		return nil, err
	}
	digest, err := policystore.ParseDigest(request.Digest)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	record, found, err := h.store.Get(ctx, digest)
	if err != nil {
		return nil, err
	}
	if !found {
		return StoredPolicyResult{}, nil
	}

	policy, err := interop.PolicyFromNative(scope, record.Source, record.ID)
	if err != nil {
		return nil, err
	}
	entry, err := readPolicy(scope, policy)
	if err != nil {
		return nil, err
	}
	return StoredPolicyResult{
		Present:  true,
		Document: record.Document,
		Position: record.Position,
		StoredAt: record.StoredAt.Format(time.RFC3339Nano),
		Policy:   &entry,
	}, nil
}

func readPolicy(scope *managed.Scope, policy interop.Policy) (PolicyResult, error) {
	id, err := policy.ID(scope)
	if err != nil {
		return PolicyResult{}, err
	}
	source, err := policy.Source(scope)
	if err != nil {
		return PolicyResult{}, err
	}
	return PolicyResult{ID: id, Source: source, Digest: policystore.DigestSource(source).String()}, nil
}

// formatterConfig fills omitted widths from the handler defaults,
// builds the managed config, and reads it back.
func (h *Handler) formatterConfig(ctx context.Context, scope *managed.Scope, raw []byte) (any, error) {
	var request formatterRequest
	if err := decodeRequest(raw, &request); err != nil {
		return nil, err
	}
	config := h.formatter
	if request.LineWidth != nil {
		config.LineWidth = *request.LineWidth
	}
	if request.IndentWidth != nil {
		config.IndentWidth = *request.IndentWidth
	}
	wrapped, err := interop.NewFormatterConfig(scope, config)
	if err != nil {
		return nil, err
	}
	decoded, err := interop.CastFormatterConfig(scope, wrapped.Ref())
	if err != nil {
		return nil, err
	}
	native := decoded.Native()
	return FormatterResult{LineWidth: native.LineWidth, IndentWidth: native.IndentWidth}, nil
}
