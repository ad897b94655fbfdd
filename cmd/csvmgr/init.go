// Init command for the csvmgr CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the configuration, data file, and backup directory",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			// setup already wrote config.yaml; opening the manager creates the
			// data file with its header.
			mgr, err := a.openManager()
			if err != nil {
				return err
			}
			if err := os.MkdirAll(mgr.BackupDir(), 0o755); err != nil {
				return ioError("create backup dir", err)
			}

			fmt.Fprintln(a.out, "csvmgr initialized")
			fmt.Fprintln(a.out, "  config:", a.settings.ConfigDir)
			fmt.Fprintln(a.out, "  data:  ", mgr.DataFile())
			fmt.Fprintln(a.out, "  backup:", mgr.BackupDir())
			return nil
		},
	}
}
