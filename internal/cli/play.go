package cli

import (
	"github.com/spf13/cobra"
)

func newPlayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play session commands",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "start <game_id>",
		Short: "Start playing a game",
		Args:  cobra.ExactArgs(1),
		RunE: originCmd(func(cmd *cobra.Command, args []string) error {
			var result Session
			if err := client.Post("/api/v1/sessions", map[string]string{"game_id": args[0]}, &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the open play session",
		RunE: originCmd(func(cmd *cobra.Command, args []string) error {
			return getAndPrint[Session]("/api/v1/sessions/current")
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "stop",
		Short: "Stop playing and record the session",
		RunE: originCmd(func(cmd *cobra.Command, args []string) error {
			var result SessionEnded
			if err := client.Delete("/api/v1/sessions/current", &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		}),
	})

	return cmd
}
