// Export command writes all records to a JSON file.
package main

import (
	"github.com/spf13/cobra"
)

type exportResult struct {
	Path  string `json:"path"`
	Count int    `json:"count"`
}

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export [path]",
		Short: "Export records to JSON",
		Long: `Export writes every record to a JSON array. The default path is
data.json in the data directory.`,
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
			n, err := mgr.Export(path)
			if err != nil {
				return err
			}
			return a.report(exportResult{Path: path, Count: n}, "Exported %d records to %s", n, path)
		},
	}
}
