// Copyright 2026 The cedar-java Authors
// SPDX-License-Identifier: Apache-2.0

// cedarbridge converts Cedar names, entity references, and policies
// across the managed-object boundary.
//
// "cedarbridge serve" runs the conversion service on a Unix socket,
// with an optional Prometheus listener. The other subcommands run one
// conversion and print the result as JSON. They convert in-process
// unless --socket names a running service.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/felixzheng98/cedar-java/lib/version"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		var coder interface{ ExitCode() int }
		if errors.As(err, &coder) {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// subcommand runs with the arguments after its name.
type subcommand struct {
	summary string
	run     func(args []string, stdout, stderr io.Writer) error
}

var subcommands = map[string]subcommand{
	"serve":      {"run the conversion service", runServe},
	"parse-uid":  {`parse an entity reference such as App::User::"alice"`, runParseUID},
	"parse-type": {"parse an entity type name such as App::User", runParseType},
	"build-uid":  {"build an entity reference from a type name and a raw id", runBuildUID},
	"escape-id":  {"print the escaped form of an entity id", runEscapeID},
	"policies":   {"validate a policy file and print each policy normalized", runPolicies},
	"store":      {"validate a policy file and save its policies by digest", runStore},
	"lookup":     {"print a stored policy by digest", runLookup},
	"batch":      {"run a JSON-with-comments file of conversion requests", runBatch},
}

// subcommandOrder fixes the help listing order.
var subcommandOrder = []string{"serve", "parse-uid", "parse-type", "build-uid", "escape-id", "policies", "store", "lookup", "batch"}

func run(args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		printHelp(stderr)
		return &exitError{code: 2}
	}

	switch args[0] {
	case "--version", "version":
		fmt.Fprintf(stdout, "cedarbridge %s\n", version.Full())
		return nil
	case "-h", "--help", "help":
		printHelp(stdout)
		return nil
	}

	command, exists := subcommands[args[0]]
	if !exists {
		printHelp(stderr)
		return fmt.Errorf("unknown command %q", args[0])
	}
	if err := command.run(args[1:], stdout, stderr); err != nil && !errors.Is(err, errHelpShown) {
		return err
	}
	return nil
}

func printHelp(w io.Writer) {
	fmt.Fprintf(w, "cedarbridge converts Cedar values across the managed-object boundary.\n\nUsage:\n  cedarbridge <command> [flags]\n\nCommands:\n")
	for _, name := range subcommandOrder {
		fmt.Fprintf(w, "  %-11s %s\n", name, subcommands[name].summary)
	}
	fmt.Fprintf(w, "\nRun \"cedarbridge <command> --help\" for command flags.\n")
}

// parseFlags parses args with flagSet. Help output goes to stderr and
// yields errHelpShown, which run treats as success.
func parseFlags(flagSet *pflag.FlagSet, args []string, stderr io.Writer) error {
	flagSet.SetOutput(stderr)
	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return errHelpShown
		}
		return &exitError{code: 2, err: err}
	}
	return nil
}

// errHelpShown stops a subcommand after --help without reporting an
// error.
var errHelpShown = errors.New("help shown")

// exitError carries a process exit status. A nil err exits silently.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

func (e *exitError) ExitCode() int { return e.code }

// newLogger writes text records to a terminal and JSON records
// otherwise.
func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	options := &slog.HandlerOptions{Level: level}
	if isTerminal(w) {
		return slog.New(slog.NewTextHandler(w, options))
	}
	return slog.New(slog.NewJSONHandler(w, options))
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}
