// Backup command copies the data file into the backup directory.
package main

import (
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

type backupResult struct {
	Path  string `json:"path"`
	Bytes int64  `json:"bytes"`
}

func newBackupCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Create a timestamped backup of the data file",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := a.openManager()
			if err != nil {
				return err
			}
			dest, err := mgr.Backup()
			if err != nil {
				return err
			}
			res := backupResult{Path: dest}
			if info, err := os.Stat(dest); err == nil {
				res.Bytes = info.Size()
			}
			return a.report(res, "Backup created: %s (%s)", dest, humanize.Bytes(uint64(res.Bytes)))
		},
	}
}
