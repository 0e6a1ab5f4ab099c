package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newProvidersCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	var resolve bool

	cmd := &cobra.Command{
		Use:   "providers",
		Short: "List configured provider rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			bundle, err := buildServices(cfg)
			if err != nil {
				return err
			}

			service := bundle.provider
			if !resolve {
				// Without --resolve, skip the collection lookups so the
				// command works while the media server is down.
				service = serviceWithoutCollections(bundle)
			}

			views, err := service.List(cmd.Context())
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd, views)
			}

			if len(views) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No provider rules configured")
				return nil
			}

			rows := make([][]string, 0, len(views))
			for _, view := range views {
				ids := make([]string, 0, len(view.ProviderIDs))
				for _, id := range view.ProviderIDs {
					ids = append(ids, strconv.Itoa(id))
				}
				rows = append(rows, []string{
					view.Name,
					view.Tag,
					strings.Join(ids, ", "),
					yesNo(view.CreateCollection),
					view.CollectionID,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Name", "Tag", "Provider IDs", "Collection", "Collection ID"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print provider rules as JSON")
	cmd.Flags().BoolVar(&resolve, "resolve", false, "Resolve collection IDs against the media server")
	return cmd
}
