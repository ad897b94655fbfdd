// Menu command starts the interactive session.
package main

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/csvmgr/internal/menu"
	"github.com/mesh-intelligence/csvmgr/internal/tui"
)

func newMenuCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Start the interactive menu (default)",
		Args:  usageArgs(cobra.NoArgs),
		RunE:  a.runMenu,
	}
}

func (a *app) runMenu(cmd *cobra.Command, args []string) error {
	mgr, err := a.openManager()
	if err != nil {
		return err
	}
	term := tui.NewTerminal(a.in, a.out)
	menu.New(mgr, term, a.settings.JSONPath).Run()
	return nil
}
