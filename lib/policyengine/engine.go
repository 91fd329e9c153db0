// Copyright 2026 The cedar-java Authors
// SPDX-License-Identifier: Apache-2.0

// Package policyengine adapts cedar-go as the native policy parser.
// It validates and normalizes policy text; it does not evaluate
// authorization requests.
package policyengine

import (
	"fmt"
	"log/slog"
	"strings"

	cedargo "github.com/cedar-policy/cedar-go"
)

// Engine parses Cedar policy text with cedar-go.
type Engine struct {
	logger *slog.Logger
}

// New returns an Engine. A nil logger discards output.
func New(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{logger: logger}
}

// NormalizePolicy parses exactly one static policy and returns it in
// cedar-go's canonical text form. Source holding more than one policy
// is rejected.
func (e *Engine) NormalizePolicy(source string) (string, error) {
	policy, err := e.parse(source)
	if err != nil {
		return "", err
	}
	normalized := string(policy.MarshalCedar())
	e.logger.Debug("normalized policy", "source_bytes", len(source), "normalized_bytes", len(normalized))
	return normalized, nil
}

// PolicyJSON parses exactly one static policy and returns its JSON
// representation. A policy without when or unless clauses has no
// "conditions" key.
func (e *Engine) PolicyJSON(source string) ([]byte, error) {
	policy, err := e.parse(source)
	if err != nil {
		return nil, err
	}
	data, err := policy.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("encoding policy as JSON: %w", err)
	}
	return data, nil
}

// SplitPolicies parses a document holding any number of policies and
// returns each one normalized, in document order. name is used in
// error positions.
func (e *Engine) SplitPolicies(name string, document []byte) ([]string, error) {
	policies, err := cedargo.NewPolicyListFromBytes(name, document)
	if err != nil {
		return nil, fmt.Errorf("parsing policies in %s: %w", name, err)
	}
	out := make([]string, len(policies))
	for i, policy := range policies {
		out[i] = string(policy.MarshalCedar())
	}
	e.logger.Debug("split policy document", "name", name, "policies", len(out))
	return out, nil
}

// parse requires source to hold exactly one static policy. Extra
// policies are an error, not ignored.
func (e *Engine) parse(source string) (*cedargo.Policy, error) {
	if strings.TrimSpace(source) == "" {
		return nil, fmt.Errorf("parsing policy: empty source")
	}
	policies, err := cedargo.NewPolicyListFromBytes("", []byte(source))
	if err != nil {
		return nil, fmt.Errorf("parsing policy: %w", err)
	}
	if len(policies) != 1 {
		return nil, fmt.Errorf("parsing policy: expected exactly one policy, found %d", len(policies))
	}
	return policies[0], nil
}
