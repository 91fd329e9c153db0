// Copyright 2026 The cedar-java Authors
// SPDX-License-Identifier: Apache-2.0

package conversion_test

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/felixzheng98/cedar-java/lib/cedar"
	"github.com/felixzheng98/cedar-java/lib/clock"
	"github.com/felixzheng98/cedar-java/lib/codec"
	"github.com/felixzheng98/cedar-java/lib/conversion"
	"github.com/felixzheng98/cedar-java/lib/interop"
	"github.com/felixzheng98/cedar-java/lib/policyengine"
	"github.com/felixzheng98/cedar-java/lib/policystore"
)

func newHandler(t *testing.T) *conversion.Handler {
	t.Helper()
	return conversion.NewHandler(nil, nil, policyengine.New(nil))
}

func encodeRequest(t *testing.T, fields map[string]any) []byte {
	t.Helper()
	raw, err := codec.Marshal(fields)
	if err != nil {
		t.Fatalf("encoding request: %v", err)
	}
	return raw
}

func invoke(t *testing.T, handler *conversion.Handler, action string, fields map[string]any) (any, error) {
	t.Helper()
	return handler.Invoke(t.Context(), action, encodeRequest(t, fields))
}

func TestParseTypeName(t *testing.T) {
	handler := newHandler(t)

	tests := []struct {
		source string
		want   conversion.TypeNameResult
	}{
		{"User", conversion.TypeNameResult{Present: true, Name: "User", Basename: "User"}},
		{"App::Auth::User", conversion.TypeNameResult{
			Present: true, Name: "App::Auth::User", Namespace: []string{"App", "Auth"}, Basename: "User",
		}},
		{"", conversion.TypeNameResult{}},
		{"App::", conversion.TypeNameResult{}},
		{"has space", conversion.TypeNameResult{}},
		{"if", conversion.TypeNameResult{}},
	}
	for _, test := range tests {
		t.Run(test.source, func(t *testing.T) {
			result, err := invoke(t, handler, conversion.ActionParseTypeName, map[string]any{"source": test.source})
			if err != nil {
				t.Fatalf("Invoke: %v", err)
			}
			got := result.(conversion.TypeNameResult)
			if got.Present != test.want.Present || got.Name != test.want.Name ||
				got.Basename != test.want.Basename || !slices.Equal(got.Namespace, test.want.Namespace) {
				t.Errorf("result = %+v, want %+v", got, test.want)
			}
		})
	}
}

func TestBuildTypeName(t *testing.T) {
	handler := newHandler(t)

	result, err := invoke(t, handler, conversion.ActionBuildTypeName, map[string]any{
		"basename":  "User",
		"namespace": []string{"App", "Auth"},
	})
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if got := result.(conversion.TypeNameResult); got.Name != "App::Auth::User" {
		t.Errorf("name = %q, want App::Auth::User", got.Name)
	}

	rejects := []struct {
		name   string
		fields map[string]any
	}{
		{"separator in component", map[string]any{"basename": "User", "namespace": []string{"App::Auth"}}},
		{"separator in basename", map[string]any{"basename": "App::User"}},
		{"empty basename", map[string]any{"basename": ""}},
		{"invalid identifier", map[string]any{"basename": "1User"}},
		{"reserved namespace", map[string]any{"basename": "User", "namespace": []string{"__cedar"}}},
	}
	for _, test := range rejects {
		t.Run(test.name, func(t *testing.T) {
			_, err := invoke(t, handler, conversion.ActionBuildTypeName, test.fields)
			if interop.KindOf(err) != interop.KindParse {
				t.Errorf("error = %v, want kind parse-failure", err)
			}
		})
	}
}

func TestParseEntityUID(t *testing.T) {
	handler := newHandler(t)

	tests := []struct {
		source string
		want   conversion.EntityUIDResult
	}{
		{`App::User::"alice"`, conversion.EntityUIDResult{
			Present: true, UID: `App::User::"alice"`, Type: "App::User", ID: "alice", EscapedID: "alice",
		}},
		{`User::"a\"b"`, conversion.EntityUIDResult{
			Present: true, UID: `User::"a\"b"`, Type: "User", ID: `a"b`, EscapedID: `a\"b`,
		}},
		{`User::""`, conversion.EntityUIDResult{
			Present: true, UID: `User::""`, Type: "User",
		}},
		{`User::alice`, conversion.EntityUIDResult{}},
		{`::"alice"`, conversion.EntityUIDResult{}},
		{`User::"unterminated`, conversion.EntityUIDResult{}},
	}
	for _, test := range tests {
		t.Run(test.source, func(t *testing.T) {
			result, err := invoke(t, handler, conversion.ActionParseEntityUID, map[string]any{"source": test.source})
			if err != nil {
				t.Fatalf("Invoke: %v", err)
			}
			if got := result.(conversion.EntityUIDResult); got != test.want {
				t.Errorf("result = %+v, want %+v", got, test.want)
			}
		})
	}
}

func TestBuildEntityUID(t *testing.T) {
	handler := newHandler(t)

	result, err := invoke(t, handler, conversion.ActionBuildEntityUID, map[string]any{
		"type_name": "App::User",
		"id":        "al\nice",
	})
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	got := result.(conversion.EntityUIDResult)
	if got.UID != `App::User::"al\nice"` {
		t.Errorf("uid = %q", got.UID)
	}
	if got.ID != "al\nice" {
		t.Errorf("id = %q, want the raw identifier", got.ID)
	}

	_, err = invoke(t, handler, conversion.ActionBuildEntityUID, map[string]any{
		"type_name": "not a type",
		"id":        "alice",
	})
	if !errors.Is(err, interop.ErrParse) {
		t.Errorf("error = %v, want ErrParse", err)
	}
}

func TestEscapeID(t *testing.T) {
	handler := newHandler(t)

	tests := []struct {
		id      string
		escaped string
	}{
		{"alice", "alice"},
		{"tab\there", `tab\there`},
		{`quote"d`, `quote\"d`},
		{`back\slash`, `back\\slash`},
		{"", ""},
	}
	for _, test := range tests {
		result, err := invoke(t, handler, conversion.ActionEscapeID, map[string]any{"id": test.id})
		if err != nil {
			t.Fatalf("Invoke(%q): %v", test.id, err)
		}
		got := result.(conversion.EscapeIDResult)
		if got.ID != test.id || got.Escaped != test.escaped {
			t.Errorf("escape-id %q = %+v, want escaped %q", test.id, got, test.escaped)
		}
	}
}

func TestParsePolicy(t *testing.T) {
	handler := newHandler(t)
	engine := policyengine.New(nil)

	source := `forbid ( principal == User::"mallory", action, resource );`
	normalized, err := engine.NormalizePolicy(source)
	if err != nil {
		t.Fatalf("NormalizePolicy: %v", err)
	}

	result, err := invoke(t, handler, conversion.ActionParsePolicy, map[string]any{"source": source, "id": "deny-mallory"})
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	got := result.(conversion.PolicyResult)
	if got.ID != "deny-mallory" {
		t.Errorf("id = %q, want deny-mallory", got.ID)
	}
	if got.Source != normalized {
		t.Errorf("source = %q, want normalized %q", got.Source, normalized)
	}
	var document map[string]any
	if err := json.Unmarshal([]byte(got.JSON), &document); err != nil {
		t.Fatalf("policy JSON does not parse: %v", err)
	}
	if document["effect"] != "forbid" {
		t.Errorf("effect = %v, want forbid", document["effect"])
	}

	// Without an id the managed constructor assigns one, and each
	// request gets a different one even though each runs in its own heap.
	var assigned []string
	for range 2 {
		result, err = invoke(t, handler, conversion.ActionParsePolicy, map[string]any{"source": source})
		if err != nil {
			t.Fatalf("Invoke without id: %v", err)
		}
		id := result.(conversion.PolicyResult).ID
		if !strings.HasPrefix(id, "policy") {
			t.Errorf("assigned id = %q, want a policyN id", id)
		}
		assigned = append(assigned, id)
	}
	if assigned[0] == assigned[1] {
		t.Errorf("two requests were both assigned %q", assigned[0])
	}

	brokenSources := []string{
		"",
		"   ",
		"permit(",
		"allow(principal, action, resource);",
		// A second policy must not be dropped silently.
		"permit(principal, action, resource); forbid(principal, action, resource);",
	}
	for _, broken := range brokenSources {
		_, err := invoke(t, handler, conversion.ActionParsePolicy, map[string]any{"source": broken})
		if interop.KindOf(err) != interop.KindParse {
			t.Errorf("parse-policy %q: error = %v, want kind parse-failure", broken, err)
		}
	}
}

func TestParsePolicySet(t *testing.T) {
	handler := newHandler(t)

	document := `
permit ( principal, action == Action::"view", resource );
forbid ( principal, action == Action::"delete", resource );
`
	result, err := invoke(t, handler, conversion.ActionParsePolicySet, map[string]any{"name": "policies.cedar", "document": document})
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	policies := result.(conversion.PolicySetResult).Policies
	if len(policies) != 2 {
		t.Fatalf("got %d policies, want 2", len(policies))
	}
	for i, want := range []string{"policy0", "policy1"} {
		if policies[i].ID != want {
			t.Errorf("policy %d id = %q, want %q", i, policies[i].ID, want)
		}
	}
	if policies[0].Source == "" || policies[0].Source == policies[1].Source {
		t.Errorf("sources not carried in order: %+v", policies)
	}
	for _, policy := range policies {
		if want := policystore.DigestSource(policy.Source).String(); policy.Digest != want {
			t.Errorf("%s digest = %q, want %q", policy.ID, policy.Digest, want)
		}
	}

	result, err = invoke(t, handler, conversion.ActionParsePolicySet, map[string]any{"document": ""})
	if err != nil {
		t.Fatalf("Invoke on empty document: %v", err)
	}
	if got := result.(conversion.PolicySetResult).Policies; len(got) != 0 {
		t.Errorf("empty document produced %d policies", len(got))
	}

	_, err = invoke(t, handler, conversion.ActionParsePolicySet, map[string]any{"document": "permit ( principal"})
	if interop.KindOf(err) != interop.KindParse {
		t.Errorf("error = %v, want kind parse-failure", err)
	}
}

func TestFormatterConfig(t *testing.T) {
	handler := newHandler(t)

	tests := []struct {
		name   string
		fields map[string]any
		want   conversion.FormatterResult
	}{
		{"defaults", map[string]any{}, conversion.FormatterResult{LineWidth: 80, IndentWidth: 2}},
		{"line width only", map[string]any{"line_width": 100}, conversion.FormatterResult{LineWidth: 100, IndentWidth: 2}},
		{"zero widths", map[string]any{"line_width": 0, "indent_width": 0}, conversion.FormatterResult{}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result, err := invoke(t, handler, conversion.ActionFormatterConfig, test.fields)
			if err != nil {
				t.Fatalf("Invoke: %v", err)
			}
			if got := result.(conversion.FormatterResult); got != test.want {
				t.Errorf("result = %+v, want %+v", got, test.want)
			}
		})
	}

	_, err := invoke(t, handler, conversion.ActionFormatterConfig, map[string]any{"line_width": -1})
	if interop.KindOf(err) != interop.KindParse {
		t.Errorf("negative line width: error = %v, want kind parse-failure", err)
	}

	result, err := invoke(t, handler, conversion.ActionFormatterConfig, map[string]any{"indent_width": -1})
	if err != nil {
		t.Fatalf("negative indent width: %v", err)
	}
	if got := result.(conversion.FormatterResult); got.IndentWidth != -1 {
		t.Errorf("negative indent width: result = %+v, want indent -1", got)
	}
}

func TestSetFormatterDefaults(t *testing.T) {
	handler := newHandler(t)
	if err := handler.SetFormatterDefaults(cedar.FormatterConfig{LineWidth: 120, IndentWidth: 4}); err != nil {
		t.Fatalf("SetFormatterDefaults: %v", err)
	}
	result, err := invoke(t, handler, conversion.ActionFormatterConfig, map[string]any{})
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if got := result.(conversion.FormatterResult); got.LineWidth != 120 || got.IndentWidth != 4 {
		t.Errorf("result = %+v, want {120 4}", got)
	}

	if err := handler.SetFormatterDefaults(cedar.FormatterConfig{LineWidth: -1}); err == nil {
		t.Error("SetFormatterDefaults accepted a negative width")
	}
}

func TestInvokeErrors(t *testing.T) {
	handler := newHandler(t)

	_, err := invoke(t, handler, "compile-policy", map[string]any{})
	if !errors.Is(err, conversion.ErrUnknownAction) {
		t.Errorf("unknown action: error = %v, want ErrUnknownAction", err)
	}

	notAMap, err := codec.Marshal("just a string")
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	_, err = handler.Invoke(t.Context(), conversion.ActionEscapeID, notAMap)
	if !errors.Is(err, conversion.ErrInvalidRequest) {
		t.Errorf("malformed request: error = %v, want ErrInvalidRequest", err)
	}

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	_, err = handler.Invoke(ctx, conversion.ActionEscapeID, encodeRequest(t, map[string]any{"id": "alice"}))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled context: error = %v, want context.Canceled", err)
	}
}

func TestActions(t *testing.T) {
	want := []string{
		conversion.ActionBuildEntityUID,
		conversion.ActionBuildTypeName,
		conversion.ActionEscapeID,
		conversion.ActionFormatterConfig,
		conversion.ActionLookupPolicy,
		conversion.ActionParseEntityUID,
		conversion.ActionParsePolicy,
		conversion.ActionParsePolicySet,
		conversion.ActionParseTypeName,
		conversion.ActionStorePolicySet,
	}
	if got := newHandler(t).Actions(); !slices.Equal(got, want) {
		t.Errorf("Actions() = %v, want %v", got, want)
	}
}

func TestMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := conversion.NewMetrics(registry)
	handler := conversion.NewHandler(nil, metrics, policyengine.New(nil))
	handler.SetClock(clock.Fake(time.Unix(1_700_000_000, 0)))

	invoke(t, handler, conversion.ActionParseTypeName, map[string]any{"source": "App::User"})
	invoke(t, handler, conversion.ActionParseTypeName, map[string]any{"source": "App::User"})
	invoke(t, handler, conversion.ActionParseTypeName, map[string]any{"source": "not valid"})
	invoke(t, handler, conversion.ActionBuildTypeName, map[string]any{"basename": "A::B"})

	tests := []struct {
		action  string
		outcome string
		want    float64
	}{
		{conversion.ActionParseTypeName, "ok", 2},
		{conversion.ActionParseTypeName, "absent", 1},
		{conversion.ActionBuildTypeName, "parse-failure", 1},
		{conversion.ActionEscapeID, "ok", 0},
	}
	for _, test := range tests {
		got := promtestutil.ToFloat64(metrics.Conversions.WithLabelValues(test.action, test.outcome))
		if got != test.want {
			t.Errorf("conversions{%s,%s} = %v, want %v", test.action, test.outcome, got, test.want)
		}
	}

	if count := promtestutil.CollectAndCount(metrics.Latency); count != 2 {
		t.Errorf("latency series = %d, want 2 (one per action)", count)
	}
	if count := promtestutil.CollectAndCount(metrics.LiveReferences); count != 1 {
		t.Errorf("scope reference series = %d, want 1", count)
	}
}

// steppingClock advances by step whenever an interval is measured, so
// every action appears to take exactly step.
type steppingClock struct {
	*clock.FakeClock
	step time.Duration
}

func (c steppingClock) Since(start time.Time) time.Duration {
	c.Advance(c.step)
	return c.FakeClock.Since(start)
}

func TestMetricsLatencyUsesClock(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := conversion.NewMetrics(registry)
	handler := conversion.NewHandler(nil, metrics, policyengine.New(nil))
	handler.SetClock(steppingClock{FakeClock: clock.Fake(time.Unix(1_700_000_000, 0)), step: 2 * time.Millisecond})

	for range 3 {
		invoke(t, handler, conversion.ActionParseTypeName, map[string]any{"source": "App::User"})
	}

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	found := false
	for _, family := range families {
		if family.GetName() != "cedarbridge_conversion_duration_seconds" {
			continue
		}
		for _, metric := range family.GetMetric() {
			found = true
			histogram := metric.GetHistogram()
			if histogram.GetSampleCount() != 3 {
				t.Errorf("latency samples = %d, want 3", histogram.GetSampleCount())
			}
			if sum := histogram.GetSampleSum(); math.Abs(sum-0.006) > 1e-9 {
				t.Errorf("latency sum = %v, want 0.006", sum)
			}
			for _, bucket := range histogram.GetBucket() {
				want := uint64(3)
				if bucket.GetUpperBound() < 0.002 {
					want = 0
				}
				if bucket.GetCumulativeCount() != want {
					t.Errorf("bucket le=%v holds %d, want %d", bucket.GetUpperBound(), bucket.GetCumulativeCount(), want)
				}
			}
		}
	}
	if !found {
		t.Fatal("no latency series recorded")
	}
}
