package cli

import (
	"net/url"

	"github.com/spf13/cobra"
)

func newLibraryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "library",
		Short: "Library commands",
	}

	var filter string
	list := &cobra.Command{
		Use:   "list",
		Short: "List library games",
		RunE: originCmd(func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/library"
			if filter != "" {
				path += "?filter=" + url.QueryEscape(filter)
			}
			return getAndPrint[Library](path)
		}),
	}
	list.Flags().StringVar(&filter, "filter", "all", "Filter: all, installed, recent, favorites, webgl")
	cmd.AddCommand(list)

	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Show library size",
		RunE: originCmd(func(cmd *cobra.Command, args []string) error {
			return getAndPrint[LibraryStats]("/api/v1/library/stats")
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <game_id>",
		Short: "Add a game to the library",
		Args:  cobra.ExactArgs(1),
		RunE: originCmd(func(cmd *cobra.Command, args []string) error {
			var result LibraryChange
			if err := client.Post(gamePath(args[0]), nil, &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <game_id>",
		Short: "Remove a game from the library",
		Args:  cobra.ExactArgs(1),
		RunE: originCmd(func(cmd *cobra.Command, args []string) error {
			var result LibraryChange
			if err := client.Delete(gamePath(args[0]), &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "favorite <game_id>",
		Short: "Toggle a game's favorite flag",
		Args:  cobra.ExactArgs(1),
		RunE: originCmd(func(cmd *cobra.Command, args []string) error {
			var result GameFlags
			if err := client.Post(gamePath(args[0])+"/favorite", nil, &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		}),
	})

	cmd.AddCommand(newInstalledCmd("install", "Mark a game installed", true))
	cmd.AddCommand(newInstalledCmd("uninstall", "Mark a game not installed", false))

	return cmd
}

func newInstalledCmd(use, short string, installed bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <game_id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: originCmd(func(cmd *cobra.Command, args []string) error {
			var result GameFlags
			if err := client.Put(gamePath(args[0])+"/installed", map[string]bool{"installed": installed}, &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		}),
	}
}

func gamePath(id string) string {
	return "/api/v1/library/" + url.PathEscape(id)
}
