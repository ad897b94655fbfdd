// Import command appends records from a JSON file.
package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

type importResult struct {
	Path    string `json:"path"`
	Added   []int  `json:"added"`
	Skipped []int  `json:"skipped"`
}

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import [path]",
		Short: "Import records from JSON",
		Long: `Import appends the records of a JSON array produced by export. Records
whose id already exists are skipped; records without an id get the next
free one. Nothing is written if any element is invalid.`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.settings.JSONPath
			if len(args) == 1 {
				path = args[0]
			}
			mgr, err := a.openManager()
			if err != nil {
				return err
			}
			res, err := mgr.Import(path)
			if err != nil {
				return err
			}

			out := importResult{Path: path, Added: res.Added, Skipped: res.Skipped}
			if out.Added == nil {
				out.Added = []int{}
			}
			if out.Skipped == nil {
				out.Skipped = []int{}
			}
			if a.flags.jsonMode {
				return a.printJSON(out)
			}
			fmt.Fprintf(a.out, "Imported %d new records\n", len(res.Added))
			if len(res.Skipped) > 0 {
				fmt.Fprintf(a.out, "Skipped duplicate IDs: %s\n", joinInts(res.Skipped))
			}
			return nil
		},
	}
}

func joinInts(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ", ")
}
