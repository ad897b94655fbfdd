// Erase command removes every record.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newEraseCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "erase --yes",
		Short: "Remove all records, keeping the header",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := a.openManager()
			if err != nil {
				return err
			}
			if !yes {
				records, err := mgr.View()
				if err != nil {
					return err
				}
				return usageError(fmt.Errorf("refusing to erase %d records without --yes", len(records)))
			}
			n, err := mgr.EraseAll()
			if err != nil {
				return err
			}
			return a.report(map[string]int{"erased": n}, "All data erased (%d records)", n)
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm erasing every record")
	return cmd
}
