// Update command changes fields of an existing record.
package main

import (
	"github.com/spf13/cobra"
)

func newUpdateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "update <id> field=value...",
		Short: "Update fields of a record",
		Long: `Update sets the given fields of the record with the given id. Fields
not named keep their values. The id itself cannot be changed.

Example:
  csvmgr update 3 tujuan=Surabaya`,
		Args: usageArgs(cobra.MinimumNArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			values, err := parseAssignments(args[1:])
			if err != nil {
				return err
			}
			mgr, err := a.openManager()
			if err != nil {
				return err
			}
			if _, err := mgr.Update(id, values); err != nil {
				return err
			}
			return a.report(map[string]int{"updated": id}, "Updated record %d", id)
		},
	}
}
