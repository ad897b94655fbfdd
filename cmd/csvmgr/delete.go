// Delete command removes a record by id.
package main

import (
	"github.com/spf13/cobra"
)

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a record",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			mgr, err := a.openManager()
			if err != nil {
				return err
			}
			if err := mgr.Delete(id); err != nil {
				return err
			}
			return a.report(map[string]int{"deleted": id}, "Deleted record %d", id)
		},
	}
}
