package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"watchtag/internal/api"
)

func newItemsCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	var kinds []string
	var limit int
	var startIndex int

	cmd := &cobra.Command{
		Use:   "items <provider>",
		Short: "List catalog items tagged for a provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			bundle, err := buildServices(cfg)
			if err != nil {
				return err
			}

			resp, err := bundle.provider.Items(cmd.Context(), api.ItemsQuery{
				Provider:   args[0],
				Kinds:      kinds,
				StartIndex: startIndex,
				Limit:      limit,
			})
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd, resp)
			}

			if len(resp.Items) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No items tagged for %q\n", args[0])
				return nil
			}

			rows := make([][]string, 0, len(resp.Items))
			for _, item := range resp.Items {
				rows = append(rows, []string{
					item.ID,
					item.Name,
					item.Kind,
					strings.Join(item.Tags, ", "),
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Name", "Kind", "Tags"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
			))
			fmt.Fprintf(out, "Showing %d of %d items\n", len(resp.Items), resp.Total)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print items as JSON")
	cmd.Flags().StringSliceVar(&kinds, "kind", nil, "Filter by item kind (Movie, Series, Episode)")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of items to list")
	cmd.Flags().IntVar(&startIndex, "start", 0, "Pagination start index")
	return cmd
}
