package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	apperrors "optionsage/internal/errors"
	"optionsage/internal/models"
)

// BackupVersion is the current backup payload version.
const BackupVersion = "1.0"

// Backup is the full export payload. Collection fields reuse the storage
// keys as JSON keys so an exported file reads the same as the store itself.
type Backup struct {
	User      *models.UserProfile               `json:"user"`
	Summaries []models.SavedSummary             `json:"summaries"`
	Plans     []models.TradingPlan              `json:"plans"`
	Watchlist []models.StockFundamentalAnalysis `json:"watchlist"`
	Timestamp string                            `json:"timestamp"`
	Version   string                            `json:"version"`
}

// BackupFilename returns the conventional export filename for a point in
// time, e.g. OptionSage_Backup_2026-08-31.json.
func BackupFilename(now time.Time) string {
	return fmt.Sprintf("OptionSage_Backup_%s.json", now.UTC().Format("2006-01-02"))
}

// Snapshot captures every collection into a versioned backup payload.
func (s *SQLiteStore) Snapshot(ctx context.Context) Backup {
	return Backup{
		User:      s.GetUserProfile(ctx),
		Summaries: s.GetSummaries(ctx),
		Plans:     s.GetPlans(ctx),
		Watchlist: s.GetWatchlist(ctx),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   BackupVersion,
	}
}

// Restore overwrites stored collections from a backup payload. Restoration is
// per-collection: only collections present in the payload are written, so a
// partial backup leaves the other collections untouched.
func (s *SQLiteStore) Restore(ctx context.Context, backup Backup) error {
	if backup.User == nil && backup.Summaries == nil && backup.Plans == nil && backup.Watchlist == nil {
		return &apperrors.RestoreError{Key: "backup", Err: apperrors.ErrRestoreFailed}
	}

	if backup.User != nil {
		s.SaveUserProfile(ctx, *backup.User)
	}
	if backup.Summaries != nil {
		s.mu.Lock()
		s.writeDoc(ctx, KeySummaries, backup.Summaries)
		s.mu.Unlock()
	}
	if backup.Plans != nil {
		s.mu.Lock()
		s.writeDoc(ctx, KeyPlans, backup.Plans)
		s.mu.Unlock()
	}
	if backup.Watchlist != nil {
		s.mu.Lock()
		s.writeDoc(ctx, KeyWatchlist, backup.Watchlist)
		s.mu.Unlock()
	}
	return nil
}

// ParseBackup decodes an exported backup file. The decode is strict about
// JSON validity but tolerant of missing collections.
func ParseBackup(data []byte) (Backup, error) {
	var backup Backup
	if err := json.Unmarshal(data, &backup); err != nil {
		return Backup{}, &apperrors.RestoreError{Key: "backup", Err: err}
	}
	return backup, nil
}
