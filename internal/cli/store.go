package cli

import (
	"net/url"

	"github.com/spf13/cobra"
)

func newStoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Browse the game catalog",
	}

	var section, query string
	list := &cobra.Command{
		Use:   "list",
		Short: "List the games of a store section",
		RunE: func(cmd *cobra.Command, args []string) error {
			params := url.Values{}
			if section != "" {
				params.Set("section", section)
			}
			if query != "" {
				params.Set("q", query)
			}
			path := "/api/v1/games"
			if len(params) > 0 {
				path += "?" + params.Encode()
			}
			return getAndPrint[[]Game](path)
		},
	}
	list.Flags().StringVar(&section, "section", "featured", "Section: featured, new, top, free")
	list.Flags().StringVarP(&query, "query", "q", "", "Search title, description and category")
	cmd.AddCommand(list)

	cmd.AddCommand(&cobra.Command{
		Use:   "featured",
		Short: "Show the featured game",
		RunE: func(cmd *cobra.Command, args []string) error {
			return getAndPrint[Game]("/api/v1/games/featured")
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show <game_id>",
		Short: "Show a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return getAndPrint[Game]("/api/v1/games/" + url.PathEscape(args[0]))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "categories",
		Short: "List categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			return getAndPrint[Categories]("/api/v1/categories")
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "category <category>",
		Short: "List the games of a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return getAndPrint[[]Game]("/api/v1/categories/" + url.PathEscape(args[0]) + "/games")
		},
	})

	return cmd
}
