// Copyright 2026 The cedar-java Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"github.com/felixzheng98/cedar-java/lib/conversion"
	"github.com/felixzheng98/cedar-java/lib/policystore"
)

// storeFlags adds --db to the connection flags. In-process conversion
// opens the database itself; --socket uses the service's store.
type storeFlags struct {
	connectionFlags
	databasePath string
}

func (f *storeFlags) add(flagSet *pflag.FlagSet) {
	f.connectionFlags.add(flagSet)
	flagSet.StringVar(&f.databasePath, "db", "", "policy store database for in-process conversion")
}

// open returns a caller with a policy store and a function that
// releases it.
func (f *storeFlags) open(stderr io.Writer) (caller, func() error, error) {
	conversions := f.caller(stderr)
	if f.socketPath != "" {
		return conversions, func() error { return nil }, nil
	}
	if f.databasePath == "" {
		return nil, nil, &exitError{code: 2, err: fmt.Errorf("one of --db or --socket is required")}
	}
	store, err := policystore.Open(policystore.Config{Path: f.databasePath})
	if err != nil {
		return nil, nil, err
	}
	conversions.(localCaller).handler.SetStore(store)
	return conversions, store.Close, nil
}

func runStore(args []string, stdout, stderr io.Writer) (err error) {
	var flags storeFlags
	flagSet := pflag.NewFlagSet("cedarbridge store", pflag.ContinueOnError)
	flags.add(flagSet)
	path, err := singleArgument(flagSet, args, stderr, "file.cedar")
	if err != nil {
		return err
	}

	conversions, release, err := flags.open(stderr)
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := release(); releaseErr != nil && err == nil {
			err = releaseErr
		}
	}()
	document, err := readInput(path)
	if err != nil {
		return err
	}

	var result conversion.PolicySetResult
	if err := conversions.call(context.Background(), conversion.ActionStorePolicySet,
		map[string]any{"name": path, "document": string(document)}, &result); err != nil {
		return err
	}
	return writeJSON(stdout, result)
}

func runLookup(args []string, stdout, stderr io.Writer) (err error) {
	var flags storeFlags
	flagSet := pflag.NewFlagSet("cedarbridge lookup", pflag.ContinueOnError)
	flags.add(flagSet)
	digest, err := singleArgument(flagSet, args, stderr, "digest")
	if err != nil {
		return err
	}

	conversions, release, err := flags.open(stderr)
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := release(); releaseErr != nil && err == nil {
			err = releaseErr
		}
	}()

	var result conversion.StoredPolicyResult
	if err := conversions.call(context.Background(), conversion.ActionLookupPolicy,
		map[string]any{"digest": digest}, &result); err != nil {
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
