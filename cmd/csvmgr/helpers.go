// Shared helpers for csvmgr CLI commands.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/csvmgr/internal/tui"
	"github.com/mesh-intelligence/csvmgr/pkg/csvmgr"
	"github.com/mesh-intelligence/csvmgr/pkg/types"
)

// errUsage marks bad command lines: wrong argument counts, unknown flags,
// malformed assignments.
var errUsage = errors.New("usage")

func usageError(err error) error {
	return fmt.Errorf("%w: %v", errUsage, err)
}

// usageArgs wraps a cobra argument validator so its errors count as usage
// errors.
func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return usageError(err)
		}
		return nil
	}
}

func ioError(what string, err error) error {
	return fmt.Errorf("%w: %s: %v", types.ErrIO, what, err)
}

// exitCode maps an error to the process exit status. Problems the user can
// fix by changing the input exit 1; everything else exits 2.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitSuccess
	case errors.Is(err, errUsage),
		errors.Is(err, types.ErrNotFound),
		errors.Is(err, types.ErrValidation),
		errors.Is(err, types.ErrParse):
		return exitUserError
	default:
		return exitSysError
	}
}

// openManager opens the record manager for the resolved settings.
func (a *app) openManager() (csvmgr.Manager, error) {
	return csvmgr.Open(a.settings.managerConfig(), a.log)
}

// parseAssignments turns field=value arguments into a value map.
func parseAssignments(args []string) (map[string]string, error) {
	values := make(map[string]string, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, usageError(fmt.Errorf("invalid assignment %q (expected field=value)", arg))
		}
		if _, dup := values[key]; dup {
			return nil, usageError(fmt.Errorf("field %q given twice", key))
		}
		values[key] = value
	}
	return values, nil
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, usageError(fmt.Errorf("invalid id %q (expected a positive integer)", arg))
	}
	return id, nil
}

// printRecords writes records as a table, or in the export JSON format
// in --json mode.
func (a *app) printRecords(schema types.Schema, records []types.Record) error {
	if a.flags.jsonMode {
		data, err := csvmgr.EncodeJSON(schema, records)
		if err != nil {
			return err
		}
		_, err = a.out.Write(data)
		return err
	}
	_, err := fmt.Fprintln(a.out, tui.RenderTable(schema.Header(), records))
	return err
}

// printJSON writes v as indented JSON followed by a newline.
func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// report prints a plain status line, or obj as JSON in --json mode.
func (a *app) report(obj any, format string, args ...any) error {
	if a.flags.jsonMode {
		return a.printJSON(obj)
	}
	_, err := fmt.Fprintf(a.out, format+"\n", args...)
	return err
}
