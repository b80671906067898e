package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"optionsage/internal/catalog"
	apperrors "optionsage/internal/errors"
	"optionsage/internal/models"
	"optionsage/internal/progress"
)

func requireStore(app *App) error {
	if app.Store == nil {
		return fmt.Errorf("storage unavailable: %w", apperrors.ErrStorageUnavailable)
	}
	return nil
}

func requireProfile(app *App, cmd *cobra.Command) (*models.UserProfile, error) {
	if err := requireStore(app); err != nil {
		return nil, err
	}
	profile := app.Store.GetUserProfile(cmd.Context())
	if profile == nil {
		return nil, fmt.Errorf("run 'optionsage login' first: %w", apperrors.ErrNoProfile)
	}
	return profile, nil
}

func addProfileCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newLoginCmd(app))
	rootCmd.AddCommand(newProfileCmd(app))
}

func newLoginCmd(app *App) *cobra.Command {
	var friendlyName, memberLevel string

	cmd := &cobra.Command{
		Use:   "login <username>",
		Short: "Create or update the local user profile",
		Long: `Create the local user profile, or update its identity fields if one
already exists. Progress and API keys on an existing profile are preserved.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireStore(app); err != nil {
				return err
			}
			output := NewOutput(cmd)

			profile := app.Store.GetUserProfile(cmd.Context())
			if profile == nil {
				profile = &models.UserProfile{MemberLevel: "Member"}
			}
			profile.Username = args[0]
			if friendlyName != "" {
				profile.FriendlyName = friendlyName
			}
			if memberLevel != "" {
				profile.MemberLevel = memberLevel
			}
			app.Store.SaveUserProfile(cmd.Context(), *profile)

			if output.IsJSON() {
				return output.JSON(profile)
			}
			output.Success("Logged in as %s", profile.Username)
			return nil
		},
	}

	cmd.Flags().StringVar(&friendlyName, "name", "", "display name")
	cmd.Flags().StringVar(&memberLevel, "member-level", "", "membership tier label")
	return cmd
}

func newProfileCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Profile and curriculum progress",
	}

	cmd.AddCommand(newProfileShowCmd(app))
	cmd.AddCommand(newProfileProgressCmd(app))
	cmd.AddCommand(newProfileCompleteCmd(app))
	cmd.AddCommand(newProfileKeysCmd(app))
	return cmd
}

func newProfileShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := requireProfile(app, cmd)
			if err != nil {
				return err
			}
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(profile)
			}

			output.Bold("%s", profile.Username)
			if profile.FriendlyName != "" {
				output.Printf("  Name:          %s\n", profile.FriendlyName)
			}
			output.Printf("  Member level:  %s\n", profile.MemberLevel)
			output.Printf("  Completed:     %d of %d modules\n", len(profile.CompletedModules), len(catalog.Courses))
			output.Printf("  Current level: %d (%s)\n", progress.CurrentLevel(*profile), catalog.LevelTitles[progress.CurrentLevel(*profile)])
			return nil
		},
	}
}

func newProfileProgressCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "progress",
		Short: "Show curriculum progress by level",
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := requireProfile(app, cmd)
			if err != nil {
				return err
			}
			output := NewOutput(cmd)

			current := progress.CurrentLevel(*profile)
			if output.IsJSON() {
				levels := make([]map[string]interface{}, 0, catalog.MaxLevel)
				for level := 1; level <= catalog.MaxLevel; level++ {
					levels = append(levels, map[string]interface{}{
						"level":   level,
						"title":   catalog.LevelTitles[level],
						"percent": progress.LevelCompletion(*profile, level),
						"current": level == current,
					})
				}
				return output.JSON(map[string]interface{}{
					"globalPercent": progress.Global(*profile),
					"currentLevel":  current,
					"levels":        levels,
				})
			}

			output.Bold("Curriculum progress: %d%%", progress.Global(*profile))
			output.Println()
			table := NewTable(output, "LEVEL", "TITLE", "COMPLETE", "")
			for level := 1; level <= catalog.MaxLevel; level++ {
				marker := ""
				if level == current {
					marker = output.Green("<- current")
				}
				table.AddRow(
					fmt.Sprintf("%d", level),
					catalog.LevelTitles[level],
					fmt.Sprintf("%d%%", progress.LevelCompletion(*profile, level)),
					marker,
				)
			}
			table.Render()
			return nil
		},
	}
}

func newProfileCompleteCmd(app *App) *cobra.Command {
	var slides, video bool

	cmd := &cobra.Command{
		Use:   "complete <module-id>",
		Short: "Record finished slides or video for a module",
		Long: `Record that you finished a module's slides, video, or both. A module
counts as completed once both halves are done.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := requireProfile(app, cmd)
			if err != nil {
				return err
			}
			if !slides && !video {
				return fmt.Errorf("specify --slides, --video, or both")
			}
			moduleID := args[0]
			if _, ok := catalog.Find(moduleID); !ok {
				return fmt.Errorf("module %s: %w", moduleID, apperrors.ErrModuleNotFound)
			}

			updated := *profile
			if slides {
				updated = progress.ApplyModuleProgress(updated, moduleID, progress.ContentSlides)
			}
			if video {
				updated = progress.ApplyModuleProgress(updated, moduleID, progress.ContentVideo)
			}
			app.Store.SaveUserProfile(cmd.Context(), updated)

			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(updated)
			}
			if updated.HasCompleted(moduleID) {
				output.Success("Module %s completed", moduleID)
			} else {
				output.Info("Progress recorded for %s", moduleID)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&slides, "slides", false, "mark slides as finished")
	cmd.Flags().BoolVar(&video, "video", false, "mark video as finished")
	return cmd
}

func newProfileKeysCmd(app *App) *cobra.Command {
	var tradierKey string

	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Store per-user API keys on the profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := requireProfile(app, cmd)
			if err != nil {
				return err
			}
			if tradierKey == "" {
				return fmt.Errorf("nothing to set; use --tradier")
			}
			updated := profile.Clone()
			if updated.APIKeys == nil {
				updated.APIKeys = &models.APIKeys{}
			}
			updated.APIKeys.Tradier = tradierKey
			app.Store.SaveUserProfile(cmd.Context(), *updated)
			NewOutput(cmd).Success("Tradier key saved to profile")
			return nil
		},
	}

	cmd.Flags().StringVar(&tradierKey, "tradier", "", "Tradier API key")
	return cmd
}
