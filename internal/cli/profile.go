package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// originCmd wraps a run function so it fails early without an origin
func originCmd(run func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := cfg.RequireOrigin(); err != nil {
			return err
		}
		return run(cmd, args)
	}
}

// getAndPrint fetches a path into result and prints it
func getAndPrint[T any](path string) error {
	var result T
	if err := client.Get(path, &result); err != nil {
		return err
	}
	NewOutput(cfg.Output).Print(result)
	return nil
}

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Profile commands",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the profile",
		RunE: originCmd(func(cmd *cobra.Command, args []string) error {
			return getAndPrint[Profile]("/api/v1/profile")
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Show the profile summary",
		RunE: originCmd(func(cmd *cobra.Command, args []string) error {
			return getAndPrint[ProfileStats]("/api/v1/profile/stats")
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "storage",
		Short: "List the keys the console origin holds in storage",
		RunE: originCmd(func(cmd *cobra.Command, args []string) error {
			return getAndPrint[StorageKeys]("/api/v1/profile/storage")
		}),
	})

	cmd.AddCommand(newProfileSetCmd())

	cmd.AddCommand(&cobra.Command{
		Use:   "xp <amount>",
		Short: "Add experience",
		Args:  cobra.ExactArgs(1),
		RunE: originCmd(func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid amount %q", args[0])
			}
			var result Experience
			if err := client.Post("/api/v1/profile/experience", map[string]int{"amount": amount}, &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		}),
	})

	return cmd
}

func newProfileSetCmd() *cobra.Command {
	var username, avatar string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change the username or avatar",
		RunE: originCmd(func(cmd *cobra.Command, args []string) error {
			req := map[string]string{}
			if username != "" {
				req["username"] = username
			}
			if avatar != "" {
				req["avatar"] = avatar
			}
			if len(req) == 0 {
				return fmt.Errorf("--username or --avatar is required")
			}

			var result Profile
			if err := client.Patch("/api/v1/profile", req, &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		}),
	}

	cmd.Flags().StringVar(&username, "username", "", "New username")
	cmd.Flags().StringVar(&avatar, "avatar", "", "Avatar name (default, avatar1, avatar2, avatar3)")

	return cmd
}

func newPrefsCmd() *cobra.Command {
	var theme, language string
	var volume int

	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show or change preferences",
		Long: `Without flags, show the current preferences.
With --theme, --volume or --language, change them.`,
		RunE: originCmd(func(cmd *cobra.Command, args []string) error {
			req := map[string]any{}
			if theme != "" {
				req["theme"] = theme
			}
			if cmd.Flags().Changed("volume") {
				req["volume"] = volume
			}
			if language != "" {
				req["language"] = language
			}

			if len(req) == 0 {
				var p Profile
				if err := client.Get("/api/v1/profile", &p); err != nil {
					return err
				}
				NewOutput(cfg.Output).Print(p.Preferences)
				return nil
			}

			var result Preferences
			if err := client.Patch("/api/v1/profile/preferences", req, &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		}),
	}

	cmd.Flags().StringVar(&theme, "theme", "", "Theme: dark, light")
	cmd.Flags().IntVar(&volume, "volume", 0, "Volume: 0-100")
	cmd.Flags().StringVar(&language, "language", "", "Language: ar, en")

	return cmd
}

func newAchievementsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "achievements",
		Short: "Achievement commands",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List unlocked achievements",
		RunE: originCmd(func(cmd *cobra.Command, args []string) error {
			var result AchievementUnlock
			if err := client.Get("/api/v1/profile/achievements", &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result.Achievements)
			return nil
		}),
	})

	var description, icon string
	unlock := &cobra.Command{
		Use:   "unlock <title>",
		Short: "Unlock an achievement",
		Args:  cobra.ExactArgs(1),
		RunE: originCmd(func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"title": args[0], "description": description, "icon": icon}
			var result AchievementUnlock
			if err := client.Post("/api/v1/profile/achievements", req, &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		}),
	}
	unlock.Flags().StringVar(&description, "description", "", "Achievement description")
	unlock.Flags().StringVar(&icon, "icon", "fa-trophy", "Icon class")
	cmd.AddCommand(unlock)

	return cmd
}
