package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"optionsage/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "optionsage_test.db")
	s, err := NewSQLiteStore(dbPath, zerolog.Nop())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveSummaryPrependsNew(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := models.SavedSummary{ID: "1", ModuleID: "oa-1.1", ModuleTitle: "1.1 The OptionsANIMAL Method", Content: "# Notes"}
	second := models.SavedSummary{ID: "2", ModuleID: "oa-2.1", ModuleTitle: "2.1 Calls and Puts", Content: "# More notes"}

	got := s.SaveSummary(ctx, first)
	if len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("Expected [1], got %+v", got)
	}

	got = s.SaveSummary(ctx, second)
	if len(got) != 2 {
		t.Fatalf("Expected 2 summaries, got %d", len(got))
	}
	if got[0].ID != "2" || got[1].ID != "1" {
		t.Errorf("New summary should be prepended, got order %s, %s", got[0].ID, got[1].ID)
	}
}

func TestSaveSummaryReplacesInPlace(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.SaveSummary(ctx, models.SavedSummary{ID: "1", Content: "old"})
	s.SaveSummary(ctx, models.SavedSummary{ID: "2", Content: "other"})

	got := s.SaveSummary(ctx, models.SavedSummary{ID: "1", Content: "updated"})
	if len(got) != 2 {
		t.Fatalf("Upsert must not grow the collection, got %d entries", len(got))
	}
	// Position is preserved for existing entries.
	if got[1].ID != "1" || got[1].Content != "updated" {
		t.Errorf("Expected updated summary at original position, got %+v", got)
	}
}

func TestDeleteSummary(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.SaveSummary(ctx, models.SavedSummary{ID: "1"})
	s.SaveSummary(ctx, models.SavedSummary{ID: "2"})

	got := s.DeleteSummary(ctx, "1")
	if len(got) != 1 || got[0].ID != "2" {
		t.Fatalf("Expected only summary 2 to remain, got %+v", got)
	}

	// Deleting an unknown id is a no-op.
	got = s.DeleteSummary(ctx, "missing")
	if len(got) != 1 {
		t.Errorf("Delete of unknown id changed the collection: %+v", got)
	}
}

func TestPlanUpsertAndDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	plan := models.NewTradingPlan()
	plan.Symbol = "AAPL"
	got := s.SavePlan(ctx, plan)
	if len(got) != 1 || got[0].Symbol != "AAPL" {
		t.Fatalf("Expected saved plan, got %+v", got)
	}

	plan.Status = models.PlanGraded
	plan.AIFeedback = "Solid thesis."
	got = s.SavePlan(ctx, plan)
	if len(got) != 1 {
		t.Fatalf("Upsert must not duplicate the plan, got %d entries", len(got))
	}
	if got[0].Status != models.PlanGraded || got[0].AIFeedback != "Solid thesis." {
		t.Errorf("Expected graded plan, got %+v", got[0])
	}

	got = s.DeletePlan(ctx, plan.ID)
	if len(got) != 0 {
		t.Errorf("Expected empty collection after delete, got %+v", got)
	}
}

func TestPlanStatusRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// Completed is a legacy status. It must survive a round trip unchanged.
	plan := models.NewTradingPlan()
	plan.Status = models.PlanCompleted
	s.SavePlan(ctx, plan)

	got := s.GetPlans(ctx)
	if len(got) != 1 || got[0].Status != models.PlanCompleted {
		t.Fatalf("Completed status not preserved, got %+v", got)
	}
}

func TestGetUserProfileMissingReturnsNil(t *testing.T) {
	s := newTestStore(t)
	if p := s.GetUserProfile(context.Background()); p != nil {
		t.Fatalf("Expected nil profile, got %+v", p)
	}
}

func TestUserProfileRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	profile := models.UserProfile{
		Username:         "trader01",
		FriendlyName:     "Alex",
		MemberLevel:      "Elite",
		CompletedModules: []string{"oa-1.1"},
		ModuleProgress: map[string]models.ModuleProgress{
			"oa-1.1": {Slides: true, Video: true},
		},
	}
	s.SaveUserProfile(ctx, profile)

	got := s.GetUserProfile(ctx)
	if got == nil {
		t.Fatal("Expected profile, got nil")
	}
	if got.Username != "trader01" || len(got.CompletedModules) != 1 {
		t.Errorf("Profile mismatch: %+v", got)
	}
	if !got.HasCompleted("oa-1.1") {
		t.Error("Expected oa-1.1 to be completed")
	}
}

func TestWatchlistRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	list := []models.StockFundamentalAnalysis{
		{Symbol: "AAPL", Name: "Apple Inc"},
		{Symbol: "MSFT", Name: "Microsoft Corp"},
	}
	s.SaveWatchlist(ctx, list)

	got := s.GetWatchlist(ctx)
	if len(got) != 2 || got[0].Symbol != "AAPL" {
		t.Fatalf("Watchlist mismatch: %+v", got)
	}
}

func TestReadsDegradeOnCorruptDocument(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.SaveSummary(ctx, models.SavedSummary{ID: "1"})
	if _, err := s.db.Exec(`UPDATE documents SET value = 'not json' WHERE key = ?`, KeySummaries); err != nil {
		t.Fatalf("Failed to corrupt document: %v", err)
	}

	got := s.GetSummaries(ctx)
	if len(got) != 0 {
		t.Errorf("Corrupt document should degrade to empty collection, got %+v", got)
	}
}

func TestWriteAfterCloseReturnsMutation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	s.Close()

	// Persistence is gone but the caller still gets the mutated collection.
	got := s.SaveSummary(ctx, models.SavedSummary{ID: "1", Content: "in memory"})
	if len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("Expected in-memory result despite closed store, got %+v", got)
	}
}
