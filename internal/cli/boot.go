package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newBootCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "boot",
		Short: "Boot a console origin and save it for later commands",
		Long: `Boot a console origin. Without --name the server allocates a fresh one,
unless an origin is already configured, in which case that one is booted.
The origin is saved to the origin file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{}
			switch {
			case name != "":
				req["origin"] = name
			case cfg.Origin != "":
				req["origin"] = cfg.Origin
			}

			var result OriginResult
			if err := client.Post("/api/v1/origins", req, &result); err != nil {
				return err
			}

			if err := cfg.SaveOrigin(result.Origin); err != nil {
				return fmt.Errorf("failed to save origin: %w", err)
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Origin to boot (allocated when empty)")

	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Reset the profile and forget the saved origin",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.RequireOrigin(); err != nil {
				return err
			}
			if err := client.Delete("/api/v1/profile", nil); err != nil {
				return err
			}
			if err := cfg.ClearOrigin(); err != nil {
				return fmt.Errorf("failed to remove origin file: %w", err)
			}
			NewOutput(cfg.Output).PrintMessage("Profile reset")
			return nil
		},
	}
}
