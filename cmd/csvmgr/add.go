// Add command appends a new record.
package main

import (
	"github.com/spf13/cobra"
)

func newAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add field=value...",
		Short: "Add a record",
		Long: `Add appends a record with the next free id. Every configured field
must be given exactly once.

Example:
  csvmgr add "nama kapal=KM Sinar" bendera=ID agen=Pelni gt=1250 muatan=beras tujuan=Makassar`,
		Args: usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseAssignments(args)
			if err != nil {
				return err
			}
			mgr, err := a.openManager()
			if err != nil {
				return err
			}
			rec, err := mgr.Add(values)
			if err != nil {
				return err
			}
			return a.report(map[string]int{"added": rec.ID}, "Added record %d", rec.ID)
		},
	}
}
