package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func packageCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "package <id>",
		Short: "Show one package",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := a.packages.ByID(cmd.Context(), args[0])
			if p == nil {
				return fmt.Errorf("package %s not found", args[0])
			}
			return printJSON(cmd.OutOrStdout(), p)
		},
	}
}
