// View command prints every record.
package main

import (
	"github.com/spf13/cobra"
)

func newViewCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "Show all records",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := a.openManager()
			if err != nil {
				return err
			}
			records, err := mgr.View()
			if err != nil {
				return err
			}
			return a.printRecords(mgr.Schema(), records)
		},
	}
}
