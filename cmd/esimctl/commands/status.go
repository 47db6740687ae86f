package commands

import (
	"errors"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/BouramaNG/designfrontwaw-sub001/internal/confirmation"
)

func statusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status <ref_command>",
		Short: "Show the confirmation view for an order reference",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v := confirmation.NewFlow(a.orders).Resolve(cmd.Context(), url.Values{"ref_command": {args[0]}})
			if err := printJSON(cmd.OutOrStdout(), v); err != nil {
				return err
			}
			if v.State != confirmation.StateFound {
				if v.Message == "" {
					return errors.New("order not found")
				}
				return errors.New(v.Message)
			}
			return nil
		},
	}
}
