// Find command searches records by field values.
package main

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/csvmgr/pkg/types"
)

func newFindCmd(a *app) *cobra.Command {
	var q types.Query
	cmd := &cobra.Command{
		Use:   "find [field=value...]",
		Short: "Search records",
		Long: `Find lists the records matching every field=value filter.

Filters match the whole value unless --contains is given, in which case
they match case-insensitive substrings. The id field always matches
exactly. Without filters every record is listed.

Example:
  csvmgr find bendera=ID
  csvmgr find "nama kapal=sinar" --contains --sort gt --desc`,
		RunE: func(cmd *cobra.Command, args []string) error {
			where, err := parseAssignments(args)
			if err != nil {
				return err
			}
			q.Where = where

			mgr, err := a.openManager()
			if err != nil {
				return err
			}
			records, err := mgr.Find(q)
			if err != nil {
				return err
			}
			return a.printRecords(mgr.Schema(), records)
		},
	}
	cmd.Flags().BoolVar(&q.Contains, "contains", false, "match case-insensitive substrings")
	cmd.Flags().StringVar(&q.SortBy, "sort", "", "sort by field (default: file order)")
	cmd.Flags().BoolVar(&q.Desc, "desc", false, "sort in descending order")
	return cmd
}
