package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"optionsage/internal/store"
)

func addBackupCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newBackupCmd(app))
}

func newBackupCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export and import all study data as a JSON snapshot",
	}

	cmd.AddCommand(newBackupExportCmd(app))
	cmd.AddCommand(newBackupImportCmd(app))
	return cmd
}

func newBackupExportCmd(app *App) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write profile, summaries, plans, and watchlist to a backup file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireStore(app); err != nil {
				return err
			}
			snapshot := app.Store.Snapshot(cmd.Context())

			data, err := json.MarshalIndent(snapshot, "", "  ")
			if err != nil {
				return fmt.Errorf("encoding backup: %w", err)
			}

			if out == "" {
				out = store.BackupFilename(time.Now())
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("writing backup: %w", err)
			}

			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"file":      out,
					"summaries": len(snapshot.Summaries),
					"plans":     len(snapshot.Plans),
					"watchlist": len(snapshot.Watchlist),
				})
			}
			output.Success("Exported backup to %s", out)
			output.Dim("%d summaries, %d plans, %d watchlist entries", len(snapshot.Summaries), len(snapshot.Plans), len(snapshot.Watchlist))
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "output path (default OptionSage_Backup_<date>.json)")
	return cmd
}

func newBackupImportCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Restore from a backup file, replacing current data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireStore(app); err != nil {
				return err
			}
			output := NewOutput(cmd)

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading backup: %w", err)
			}
			backup, err := store.ParseBackup(data)
			if err != nil {
				return err
			}

			if !yes {
				output.Warning("Importing replaces the collections present in the backup. Re-run with --yes to confirm.")
				return nil
			}

			if err := app.Store.Restore(cmd.Context(), backup); err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"file":      args[0],
					"timestamp": backup.Timestamp,
					"version":   backup.Version,
				})
			}
			output.Success("Restored backup from %s (taken %s)", args[0], backup.Timestamp)
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "skip the confirmation prompt")
	return cmd
}
