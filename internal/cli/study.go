package cli

import (
	"encoding/base64"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"optionsage/internal/catalog"
	apperrors "optionsage/internal/errors"
	"optionsage/internal/logging"
	"optionsage/internal/models"
	"optionsage/internal/progress"
	"optionsage/internal/summary"
)

func requireSummaries(app *App) error {
	if err := requireStore(app); err != nil {
		return err
	}
	if app.Summaries == nil {
		return fmt.Errorf("AI features disabled: %w", apperrors.ErrNoAPIKey)
	}
	return nil
}

func addStudyCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newStudyCmd(app))
}

func newStudyCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "study",
		Short: "Generate and manage AI study guides",
	}

	cmd.AddCommand(newStudyAnalyzeCmd(app))
	cmd.AddCommand(newStudyListCmd(app))
	cmd.AddCommand(newStudyViewCmd(app))
	cmd.AddCommand(newStudyDeleteCmd(app))
	return cmd
}

func newStudyAnalyzeCmd(app *App) *cobra.Command {
	var (
		text       string
		textFile   string
		uploadPath string
		mimeType   string
		source     string
		adhocTitle string
		instructor string
		notes      string
		noSave     bool
	)

	cmd := &cobra.Command{
		Use:   "analyze [module-id]",
		Short: "Generate a study guide from class content",
		Long: `Generate an AI study guide for a course module, or for ad hoc content
such as a daily market update (--adhoc-title instead of a module id).

Content can come from the module's own transcript (default), pasted text
(--text / --text-file), or an uploaded slide deck, recording, or image
(--upload). The result is saved as a summary unless --no-save is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSummaries(app); err != nil {
				return err
			}
			output := NewOutput(cmd)

			var module catalog.ResolvedModule
			switch {
			case len(args) == 1:
				course, ok := catalog.Find(args[0])
				if !ok {
					return fmt.Errorf("module %s: %w", args[0], apperrors.ErrModuleNotFound)
				}
				module = catalog.ResolvedModule{CourseModule: course}
			case adhocTitle != "":
				module = catalog.ResolvedModule{
					CourseModule: models.CourseModule{
						ID:       "adhoc-" + models.NewID(),
						Title:    adhocTitle,
						Category: catalog.LevelTitles[0],
						Level:    0,
						Duration: "N/A",
					},
					Synthesized: true,
				}
			default:
				return fmt.Errorf("provide a module id or --adhoc-title")
			}

			textContext := text
			if textFile != "" {
				raw, err := os.ReadFile(textFile)
				if err != nil {
					return fmt.Errorf("read transcript: %w", err)
				}
				textContext = string(raw)
			}
			if textContext == "" {
				textContext = module.Transcript
			}

			var file *models.FileData
			if uploadPath != "" {
				raw, err := os.ReadFile(uploadPath)
				if err != nil {
					return fmt.Errorf("read upload: %w", err)
				}
				mt := mimeType
				if mt == "" {
					mt = mime.TypeByExtension(filepath.Ext(uploadPath))
				}
				if mt == "" {
					return fmt.Errorf("cannot determine mime type of %s, use --mime", uploadPath)
				}
				file = &models.FileData{
					MimeType:   mt,
					Base64Data: base64.StdEncoding.EncodeToString(raw),
				}
			}

			if !output.IsJSON() {
				output.Info("%s", summary.LoadingMessageFor(file))
			}

			start := time.Now()
			content := app.Summaries.StartAnalysis(cmd.Context(), module, textContext, file, source)
			logging.LogAnalysis(app.Logger, module.Title, source, time.Since(start))

			recordContentProgress(app, cmd, module, file, source)

			if noSave {
				if output.IsJSON() {
					return output.JSON(map[string]string{"content": content})
				}
				output.Markdown(content)
				return nil
			}

			record, _, err := app.Summaries.Save(cmd.Context(), instructor, notes)
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(record)
			}
			output.Markdown(content)
			output.Println()
			output.Success("Saved summary %s for %s", record.ID, module.Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "pasted transcript or context text")
	cmd.Flags().StringVar(&textFile, "text-file", "", "file containing transcript text")
	cmd.Flags().StringVar(&uploadPath, "upload", "", "slide deck, recording, or image to analyze")
	cmd.Flags().StringVar(&mimeType, "mime", "", "mime type of the upload (default: by extension)")
	cmd.Flags().StringVar(&source, "source", "", "source label, e.g. an archive link")
	cmd.Flags().StringVar(&adhocTitle, "adhoc-title", "", "title for ad hoc content outside the catalog")
	cmd.Flags().StringVar(&instructor, "instructor", "", "instructor name to record")
	cmd.Flags().StringVar(&notes, "notes", "", "personal notes to record")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "print the study guide without saving it")
	return cmd
}

// recordContentProgress marks the analyzed half of a catalog module finished:
// video sources count toward the video half, slide decks toward the slides
// half. Ad hoc content tracks no progress.
func recordContentProgress(app *App, cmd *cobra.Command, module catalog.ResolvedModule, file *models.FileData, source string) {
	if module.Synthesized || app.Store == nil {
		return
	}
	profile := app.Store.GetUserProfile(cmd.Context())
	if profile == nil {
		return
	}

	var kind progress.ContentKind
	switch {
	case file != nil && strings.HasPrefix(file.MimeType, "video"), source != "":
		kind = progress.ContentVideo
	case file != nil:
		kind = progress.ContentSlides
	default:
		return
	}

	updated := progress.ApplyModuleProgress(*profile, module.ID, kind)
	app.Store.SaveUserProfile(cmd.Context(), updated)
}

func newStudyListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved summaries, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireStore(app); err != nil {
				return err
			}
			output := NewOutput(cmd)

			summaries := app.Store.GetSummaries(cmd.Context())
			if output.IsJSON() {
				return output.JSON(summaries)
			}
			if len(summaries) == 0 {
				output.Dim("No saved summaries. Run 'optionsage study analyze' to create one.")
				return nil
			}

			table := NewTable(output, "ID", "MODULE", "TAGS", "CREATED")
			for _, s := range summaries {
				table.AddRow(
					s.ID,
					s.ModuleTitle,
					strings.Join(s.Tags, ", "),
					time.UnixMilli(s.CreatedAt).Format("2006-01-02"),
				)
			}
			table.Render()
			return nil
		},
	}
}

func newStudyViewCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "view <summary-id>",
		Short: "View a saved summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireStore(app); err != nil {
				return err
			}
			output := NewOutput(cmd)

			for _, s := range app.Store.GetSummaries(cmd.Context()) {
				if s.ID != args[0] {
					continue
				}
				if output.IsJSON() {
					return output.JSON(s)
				}

				module := catalog.Resolve(s)
				output.Bold("%s", module.Title)
				if module.Synthesized {
					output.Dim("Ad hoc content (%s)", module.Category)
				}
				if s.Instructor != "" {
					output.Printf("Instructor: %s\n", s.Instructor)
				}
				if s.VideoURL != "" {
					output.Printf("Source: %s\n", s.VideoURL)
				}
				output.Println()
				output.Markdown(s.Content)
				if s.Notes != "" {
					output.Println()
					output.Bold("Notes")
					output.Println(s.Notes)
				}
				return nil
			}
			return fmt.Errorf("summary %s: %w", args[0], apperrors.ErrSummaryNotFound)
		},
	}
}

func newStudyDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <summary-id>",
		Short: "Delete a saved summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireStore(app); err != nil {
				return err
			}
			updated := app.Store.DeleteSummary(cmd.Context(), args[0])
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(updated)
			}
			output.Success("Deleted summary %s (%d remaining)", args[0], len(updated))
			return nil
		},
	}
}
