package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/BouramaNG/designfrontwaw-sub001/internal/catalog"
)

func destinationsCmd(a *app) *cobra.Command {
	var f catalog.Filter

	cmd := &cobra.Command{
		Use:   "destinations",
		Short: "List destinations and their cheapest package",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := catalog.NewLoader(a.packages).Refresh(cmd.Context())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CODE\tNAME\tCONTINENT\tPACKAGES\tFROM")
			for _, d := range f.Apply(c.Destinations) {
				from := "coming soon"
				if !d.ComingSoon() {
					cheapest := d.Packages[0]
					for _, p := range d.Packages[1:] {
						if p.Price.LessThan(cheapest.Price) {
							cheapest = p
						}
					}
					from = cheapest.Price.StringFixed(2) + " " + cheapest.Currency
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", d.ISOCode, d.Name, d.Continent, len(d.Packages), from)
			}
			if c.Failed > 0 {
				fmt.Fprintf(tw, "\n%d destination(s) could not be loaded\n", c.Failed)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&f.Continent, "continent", "", "only show one continent")
	cmd.Flags().StringVar(&f.Query, "q", "", "match name or ISO code")
	return cmd
}
