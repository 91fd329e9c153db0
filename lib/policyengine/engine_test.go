// Copyright 2026 The cedar-java Authors
// SPDX-License-Identifier: Apache-2.0

package policyengine_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/felixzheng98/cedar-java/lib/policyengine"
)

const permitAll = `permit(principal, action, resource);`

func TestNormalizePolicy(t *testing.T) {
	engine := policyengine.New(nil)

	normalized, err := engine.NormalizePolicy(permitAll)
	if err != nil {
		t.Fatalf("NormalizePolicy: %v", err)
	}
	if !strings.Contains(normalized, "permit") {
		t.Errorf("normalized policy %q lost its effect", normalized)
	}

	// Normalizing is stable.
	again, err := engine.NormalizePolicy(normalized)
	if err != nil {
		t.Fatalf("NormalizePolicy(normalized): %v", err)
	}
	if again != normalized {
		t.Errorf("second normalization = %q, first = %q", again, normalized)
	}
}

func TestNormalizePolicyRejects(t *testing.T) {
	engine := policyengine.New(nil)
	tests := []struct {
		name   string
		source string
	}{
		{"empty", ""},
		{"blank", "   "},
		{"not a policy", "not a policy"},
		{"truncated", "permit(principal, action"},
		{"comment only", "// nothing here\n"},
		{"two policies", permitAll + " forbid(principal, action, resource);"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if normalized, err := engine.NormalizePolicy(test.source); err == nil {
				t.Errorf("NormalizePolicy(%q) = %q, want error", test.source, normalized)
			}
			if _, err := engine.PolicyJSON(test.source); err == nil {
				t.Errorf("PolicyJSON(%q) succeeded", test.source)
			}
		})
	}
}

func TestPolicyJSON(t *testing.T) {
	engine := policyengine.New(nil)
	data, err := engine.PolicyJSON(`forbid(principal == User::"mallory", action, resource);`)
	if err != nil {
		t.Fatalf("PolicyJSON: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("PolicyJSON output is not JSON: %v\n%s", err, data)
	}
	if decoded["effect"] != "forbid" {
		t.Errorf("effect = %v, want forbid", decoded["effect"])
	}
	if _, exists := decoded["conditions"]; exists {
		t.Errorf("unconditional policy has conditions: %s", data)
	}

	data, err = engine.PolicyJSON(`permit(principal, action, resource) when { resource.public };`)
	if err != nil {
		t.Fatalf("PolicyJSON: %v", err)
	}
	decoded = nil
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("PolicyJSON output is not JSON: %v\n%s", err, data)
	}
	if conditions, _ := decoded["conditions"].([]any); len(conditions) != 1 {
		t.Errorf("conditions = %v, want one when clause", decoded["conditions"])
	}
}

func TestSplitPolicies(t *testing.T) {
	engine := policyengine.New(nil)
	document := permitAll + "\n" + `forbid(principal, action, resource);`

	policies, err := engine.SplitPolicies("policies.cedar", []byte(document))
	if err != nil {
		t.Fatalf("SplitPolicies: %v", err)
	}
	if len(policies) != 2 {
		t.Fatalf("got %d policies, want 2", len(policies))
	}
	if !strings.Contains(policies[0], "permit") || !strings.Contains(policies[1], "forbid") {
		t.Errorf("policies out of order: %q", policies)
	}

	if _, err := engine.SplitPolicies("bad.cedar", []byte("not a policy")); err == nil {
		t.Error("SplitPolicies on invalid document succeeded")
	}
}
