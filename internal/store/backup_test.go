package store

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"optionsage/internal/models"
)

func TestSnapshotCapturesAllCollections(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.SaveUserProfile(ctx, models.UserProfile{Username: "trader01"})
	s.SaveSummary(ctx, models.SavedSummary{ID: "1"})
	plan := models.NewTradingPlan()
	s.SavePlan(ctx, plan)
	s.SaveWatchlist(ctx, []models.StockFundamentalAnalysis{{Symbol: "AAPL"}})

	backup := s.Snapshot(ctx)
	if backup.Version != BackupVersion {
		t.Errorf("Expected version %q, got %q", BackupVersion, backup.Version)
	}
	if backup.User == nil || backup.User.Username != "trader01" {
		t.Errorf("Profile missing from snapshot: %+v", backup.User)
	}
	if len(backup.Summaries) != 1 || len(backup.Plans) != 1 || len(backup.Watchlist) != 1 {
		t.Errorf("Collections missing from snapshot: %+v", backup)
	}
	if _, err := time.Parse(time.RFC3339, backup.Timestamp); err != nil {
		t.Errorf("Timestamp not RFC3339: %q", backup.Timestamp)
	}
}

func TestRestoreRoundTrip(t *testing.T) {
	src := newTestStore(t)
	dst := newTestStore(t)
	ctx := context.Background()

	src.SaveUserProfile(ctx, models.UserProfile{Username: "trader01", MemberLevel: "Elite"})
	src.SaveSummary(ctx, models.SavedSummary{ID: "1", Content: "# Notes"})
	src.SaveWatchlist(ctx, []models.StockFundamentalAnalysis{{Symbol: "MSFT"}})

	raw, err := json.Marshal(src.Snapshot(ctx))
	if err != nil {
		t.Fatalf("Failed to marshal backup: %v", err)
	}
	backup, err := ParseBackup(raw)
	if err != nil {
		t.Fatalf("Failed to parse backup: %v", err)
	}
	if err := dst.Restore(ctx, backup); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	if p := dst.GetUserProfile(ctx); p == nil || p.MemberLevel != "Elite" {
		t.Errorf("Profile not restored: %+v", p)
	}
	if got := dst.GetSummaries(ctx); len(got) != 1 || got[0].Content != "# Notes" {
		t.Errorf("Summaries not restored: %+v", got)
	}
	if got := dst.GetWatchlist(ctx); len(got) != 1 || got[0].Symbol != "MSFT" {
		t.Errorf("Watchlist not restored: %+v", got)
	}
}

func TestRestorePartialBackupLeavesOtherCollections(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.SaveUserProfile(ctx, models.UserProfile{Username: "keepme"})
	s.SaveSummary(ctx, models.SavedSummary{ID: "old"})

	backup, err := ParseBackup([]byte(`{"summaries":[{"id":"new","moduleId":"oa-1.1"}]}`))
	if err != nil {
		t.Fatalf("Failed to parse backup: %v", err)
	}
	if err := s.Restore(ctx, backup); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	if got := s.GetSummaries(ctx); len(got) != 1 || got[0].ID != "new" {
		t.Errorf("Summaries not replaced: %+v", got)
	}
	if p := s.GetUserProfile(ctx); p == nil || p.Username != "keepme" {
		t.Errorf("Profile should be untouched by partial restore: %+v", p)
	}
}

func TestRestoreRejectsEmptyPayload(t *testing.T) {
	s := newTestStore(t)
	if err := s.Restore(context.Background(), Backup{}); err == nil {
		t.Fatal("Expected error restoring empty payload")
	}
}

func TestParseBackupRejectsInvalidJSON(t *testing.T) {
	if _, err := ParseBackup([]byte("not json")); err == nil {
		t.Fatal("Expected error for invalid JSON")
	}
}

func TestBackupFilename(t *testing.T) {
	now := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	got := BackupFilename(now)
	if got != "OptionSage_Backup_2026-08-31.json" {
		t.Errorf("Unexpected filename: %q", got)
	}
	if !strings.HasSuffix(got, ".json") {
		t.Errorf("Filename should end in .json: %q", got)
	}
}
