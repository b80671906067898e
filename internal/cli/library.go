package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"optionsage/internal/catalog"
	apperrors "optionsage/internal/errors"
	"optionsage/internal/models"
)

func addLibraryCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newLibraryCmd(app))
}

func newLibraryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "library",
		Short: "Browse the course catalog",
	}

	cmd.AddCommand(newLibraryListCmd(app))
	cmd.AddCommand(newLibraryShowCmd(app))
	return cmd
}

func newLibraryListCmd(app *App) *cobra.Command {
	var level int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List course modules",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			courses := catalog.Courses
			if level > 0 {
				courses = catalog.ByLevel(level)
			}
			if output.IsJSON() {
				return output.JSON(courses)
			}

			var profile *models.UserProfile
			if app.Store != nil {
				profile = app.Store.GetUserProfile(cmd.Context())
			}

			table := NewTable(output, "ID", "TITLE", "LEVEL", "DURATION", "STATUS")
			for _, c := range courses {
				status := ""
				switch {
				case profile == nil:
				case profile.HasCompleted(c.ID):
					status = output.Green("done")
				default:
					p := profile.ModuleProgress[c.ID]
					if p.Slides || p.Video {
						status = output.Yellow("in progress")
					}
				}
				table.AddRow(c.ID, c.Title, fmt.Sprintf("%d", c.Level), c.Duration, status)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().IntVar(&level, "level", 0, "filter by curriculum level (1-8)")
	return cmd
}

func newLibraryShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <module-id>",
		Short: "Show one course module",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			course, ok := catalog.Find(args[0])
			if !ok {
				return fmt.Errorf("module %s: %w", args[0], apperrors.ErrModuleNotFound)
			}

			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(course)
			}

			output.Bold("%s", course.Title)
			output.Printf("  Category: %s\n", course.Category)
			output.Printf("  Level:    %d (%s)\n", course.Level, catalog.LevelTitles[course.Level])
			output.Printf("  Duration: %s\n", course.Duration)
			if course.Description != "" {
				output.Println()
				output.Println(course.Description)
			}
			return nil
		},
	}
}
