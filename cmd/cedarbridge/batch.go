// Copyright 2026 The cedar-java Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/pflag"
	"github.com/tidwall/jsonc"
)

// batchEntry is one line of batch output. Entries are independent:
// a failed request does not stop the batch.
type batchEntry struct {
	Action string `json:"action"`
	OK     bool   `json:"ok"`
	Error  string `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

// runBatch reads a JSON array of request objects, each with an
// "action" field plus that action's fields. Comments and trailing
// commas are allowed. With --fail-fast the first failed request stops
// the batch.
func runBatch(args []string, stdout, stderr io.Writer) error {
	var connection connectionFlags
	var failFast bool
	flagSet := pflag.NewFlagSet("cedarbridge batch", pflag.ContinueOnError)
	connection.add(flagSet)
	flagSet.BoolVar(&failFast, "fail-fast", false, "stop at the first failed request")
	path, err := singleArgument(flagSet, args, stderr, "requests.jsonc")
	if err != nil {
		return err
	}

	data, err := readInput(path)
	if err != nil {
		return err
	}
	requests, err := parseBatch(data)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	ctx := context.Background()
	conversions := connection.caller(stderr)
	entries := make([]batchEntry, 0, len(requests))
	failed := 0
	for i, request := range requests {
		action, _ := request["action"].(string)
		if action == "" {
			return fmt.Errorf("%s: request %d has no action", path, i)
		}
		delete(request, "action")

		entry := batchEntry{Action: action}
		var result any
		if err := conversions.call(ctx, action, request, &result); err != nil {
			entry.Error = err.Error()
			failed++
		} else {
			entry.OK = true
			entry.Data = result
		}
		entries = append(entries, entry)
		if failFast && !entry.OK {
			break
		}
	}

	if err := writeJSON(stdout, entries); err != nil {
		return err
	}
	if failed > 0 {
		return &exitError{code: 1}
	}
	return nil
}

// parseBatch strips comments and decodes the request array. Whole
// numbers decode as int64 so integer request fields keep their type on
// the wire.
func parseBatch(data []byte) ([]map[string]any, error) {
	decoder := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	decoder.UseNumber()
	var requests []map[string]any
	if err := decoder.Decode(&requests); err != nil {
		return nil, err
	}
	for _, request := range requests {
		for key, value := range request {
			request[key] = normalizeNumbers(value)
		}
	}
	return requests, nil
}

func normalizeNumbers(value any) any {
	switch v := value.(type) {
	case json.Number:
		if integer, err := v.Int64(); err == nil {
			return integer
		}
		if float, err := v.Float64(); err == nil {
			return float
		}
		return v.String()
	case []any:
		for i := range v {
			v[i] = normalizeNumbers(v[i])
		}
		return v
	case map[string]any:
		for key := range v {
			v[key] = normalizeNumbers(v[key])
		}
		return v
	default:
		return value
	}
}
