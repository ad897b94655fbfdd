// Config command prints the resolved configuration.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the resolved configuration",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.flags.jsonMode {
				return a.printJSON(a.settings)
			}
			out, err := yaml.Marshal(a.settings)
			if err != nil {
				return fmt.Errorf("marshal config: %w", err)
			}
			_, err = a.out.Write(out)
			return err
		},
	}
}
