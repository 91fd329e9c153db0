// Copyright 2026 The cedar-java Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"

	"github.com/spf13/pflag"

	"github.com/felixzheng98/cedar-java/lib/codec"
	"github.com/felixzheng98/cedar-java/lib/conversion"
	"github.com/felixzheng98/cedar-java/lib/policyengine"
	"github.com/felixzheng98/cedar-java/lib/service"
)

// caller runs one conversion action and decodes its result into
// result, which may be nil.
type caller interface {
	call(ctx context.Context, action string, fields map[string]any, result any) error
}

// localCaller converts in-process. Results take the same CBOR path a
// socket response does, so both callers decode identically.
type localCaller struct {
	handler *conversion.Handler
}

func (c localCaller) call(ctx context.Context, action string, fields map[string]any, result any) error {
	request := make(map[string]any, len(fields)+1)
	maps.Copy(request, fields)
	request["action"] = action
	raw, err := codec.Marshal(request)
	if err != nil {
		return fmt.Errorf("encoding %s request: %w", action, err)
	}

	value, err := c.handler.Invoke(ctx, action, raw)
	if err != nil {
		return err
	}
	if result == nil {
		return nil
	}
	data, err := codec.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding %s result: %w", action, err)
	}
	return codec.Unmarshal(data, result)
}

// remoteCaller converts through a running service.
type remoteCaller struct {
	client *service.ServiceClient
}

func (c remoteCaller) call(ctx context.Context, action string, fields map[string]any, result any) error {
	return c.client.Call(ctx, action, fields, result)
}

// connectionFlags selects between local and remote conversion.
type connectionFlags struct {
	socketPath string
	verbose    bool
}

func (f *connectionFlags) add(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&f.socketPath, "socket", "", "convert through the service at this socket instead of in-process")
	flagSet.BoolVarP(&f.verbose, "verbose", "v", false, "log conversions at debug level")
}

func (f *connectionFlags) caller(stderr io.Writer) caller {
	if f.socketPath != "" {
		return remoteCaller{client: service.NewServiceClient(f.socketPath)}
	}
	level := slog.LevelWarn
	if f.verbose {
		level = slog.LevelDebug
	}
	logger := newLogger(stderr, level)
	return localCaller{handler: conversion.NewHandler(logger, nil, policyengine.New(logger))}
}

// singleArgument parses flags and requires exactly one positional
// argument, named by what for the usage message.
func singleArgument(flagSet *pflag.FlagSet, args []string, stderr io.Writer, what string) (string, error) {
	if err := parseFlags(flagSet, args, stderr); err != nil {
		return "", err
	}
	if flagSet.NArg() != 1 {
		return "", &exitError{code: 2, err: fmt.Errorf("usage: %s <%s>", flagSet.Name(), what)}
	}
	return flagSet.Arg(0), nil
}

func runParseUID(args []string, stdout, stderr io.Writer) error {
	var connection connectionFlags
	flagSet := pflag.NewFlagSet("cedarbridge parse-uid", pflag.ContinueOnError)
	connection.add(flagSet)
	source, err := singleArgument(flagSet, args, stderr, "entity-uid")
	if err != nil {
		return err
	}

	var result conversion.EntityUIDResult
	if err := connection.caller(stderr).call(context.Background(), conversion.ActionParseEntityUID,
		map[string]any{"source": source}, &result); err != nil {
		return err
	}
	if err := writeJSON(stdout, result); err != nil {
		return err
	}
	if !result.Present {
		return &exitError{code: 1}
	}
	return nil
}

func runParseType(args []string, stdout, stderr io.Writer) error {
	var connection connectionFlags
	flagSet := pflag.NewFlagSet("cedarbridge parse-type", pflag.ContinueOnError)
	connection.add(flagSet)
	source, err := singleArgument(flagSet, args, stderr, "type-name")
	if err != nil {
		return err
	}

	var result conversion.TypeNameResult
	if err := connection.caller(stderr).call(context.Background(), conversion.ActionParseTypeName,
		map[string]any{"source": source}, &result); err != nil {
		return err
	}
	if err := writeJSON(stdout, result); err != nil {
		return err
	}
	if !result.Present {
		return &exitError{code: 1}
	}
	return nil
}

func runBuildUID(args []string, stdout, stderr io.Writer) error {
	var connection connectionFlags
	var typeName, id string
	flagSet := pflag.NewFlagSet("cedarbridge build-uid", pflag.ContinueOnError)
	connection.add(flagSet)
	flagSet.StringVar(&typeName, "type", "", "entity type name, e.g. App::User (required)")
	flagSet.StringVar(&id, "id", "", "raw entity id, unescaped")
	if err := parseFlags(flagSet, args, stderr); err != nil {
		return err
	}
	if typeName == "" || flagSet.NArg() != 0 {
		return &exitError{code: 2, err: fmt.Errorf("usage: cedarbridge build-uid --type <type-name> --id <id>")}
	}

	var result conversion.EntityUIDResult
	if err := connection.caller(stderr).call(context.Background(), conversion.ActionBuildEntityUID,
		map[string]any{"type_name": typeName, "id": id}, &result); err != nil {
		return err
	}
	return writeJSON(stdout, result)
}

func runEscapeID(args []string, stdout, stderr io.Writer) error {
	var connection connectionFlags
	flagSet := pflag.NewFlagSet("cedarbridge escape-id", pflag.ContinueOnError)
	connection.add(flagSet)
	id, err := singleArgument(flagSet, args, stderr, "id")
	if err != nil {
		return err
	}

	var result conversion.EscapeIDResult
	if err := connection.caller(stderr).call(context.Background(), conversion.ActionEscapeID,
		map[string]any{"id": id}, &result); err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, result.Escaped)
	return err
}

func runPolicies(args []string, stdout, stderr io.Writer) error {
	var connection connectionFlags
	flagSet := pflag.NewFlagSet("cedarbridge policies", pflag.ContinueOnError)
	connection.add(flagSet)
	path, err := singleArgument(flagSet, args, stderr, "file.cedar")
	if err != nil {
		return err
	}

	document, err := readInput(path)
	if err != nil {
		return err
	}
	var result conversion.PolicySetResult
	if err := connection.caller(stderr).call(context.Background(), conversion.ActionParsePolicySet,
		map[string]any{"name": path, "document": string(document)}, &result); err != nil {
		return err
	}
	return writeJSON(stdout, result)
}

// readInput reads path, or stdin for "-".
func readInput(path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

// writeJSON prints value as JSON, indented when w is a terminal.
func writeJSON(w io.Writer, value any) error {
	encoder := json.NewEncoder(w)
	if isTerminal(w) {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(value); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}
