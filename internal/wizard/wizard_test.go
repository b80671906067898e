package wizard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	apperrors "optionsage/internal/errors"
	"optionsage/internal/models"
	"optionsage/internal/store"
)

// memStore is an in-memory DataStore for wizard tests.
type memStore struct {
	mu    sync.Mutex
	plans []models.TradingPlan
}

var _ store.DataStore = (*memStore)(nil)

func (m *memStore) GetSummaries(ctx context.Context) []models.SavedSummary { return nil }
func (m *memStore) SaveSummary(ctx context.Context, s models.SavedSummary) []models.SavedSummary {
	return nil
}
func (m *memStore) DeleteSummary(ctx context.Context, id string) []models.SavedSummary { return nil }

func (m *memStore) GetPlans(ctx context.Context) []models.TradingPlan {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.TradingPlan(nil), m.plans...)
}

func (m *memStore) SavePlan(ctx context.Context, plan models.TradingPlan) []models.TradingPlan {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.plans {
		if existing.ID == plan.ID {
			m.plans[i] = plan
			return append([]models.TradingPlan(nil), m.plans...)
		}
	}
	m.plans = append([]models.TradingPlan{plan}, m.plans...)
	return append([]models.TradingPlan(nil), m.plans...)
}

func (m *memStore) DeletePlan(ctx context.Context, id string) []models.TradingPlan { return nil }
func (m *memStore) GetUserProfile(ctx context.Context) *models.UserProfile         { return nil }
func (m *memStore) SaveUserProfile(ctx context.Context, p models.UserProfile)      {}
func (m *memStore) GetWatchlist(ctx context.Context) []models.StockFundamentalAnalysis {
	return nil
}
func (m *memStore) SaveWatchlist(ctx context.Context, l []models.StockFundamentalAnalysis) {}
func (m *memStore) Snapshot(ctx context.Context) store.Backup                              { return store.Backup{} }
func (m *memStore) Restore(ctx context.Context, b store.Backup) error                      { return nil }
func (m *memStore) Close() error                                                           { return nil }

// fakeCoach is an ai.Gateway with a scripted review and an optional gate to
// hold a review in flight.
type fakeCoach struct {
	review  string
	gate    chan struct{}
	reviews int
	mu      sync.Mutex
}

func (f *fakeCoach) GenerateSummary(ctx context.Context, title, textContext string, file *models.FileData) string {
	return ""
}

func (f *fakeCoach) ReviewTradingPlan(ctx context.Context, plan models.TradingPlan) string {
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	f.reviews++
	f.mu.Unlock()
	return f.review
}

func (f *fakeCoach) GetStockFundamentals(ctx context.Context, symbol string) (models.StockFundamentalAnalysis, error) {
	return models.StockFundamentalAnalysis{}, nil
}

func newTestWizard(coach *fakeCoach) (*Wizard, *memStore) {
	ms := &memStore{}
	return New(ms, coach, zerolog.Nop()), ms
}

func TestCreateNewEntersEditor(t *testing.T) {
	w, _ := newTestWizard(&fakeCoach{})

	plan := w.CreateNew()
	if w.Mode() != ModeEditor || w.Step() != FirstStep {
		t.Fatalf("Expected editor at step 1, got %s step %d", w.Mode(), w.Step())
	}
	if plan.Status != models.PlanDraft || plan.ID == "" {
		t.Errorf("Fresh draft malformed: %+v", plan)
	}
	if plan.Date == "" {
		t.Error("Fresh draft should carry today's date")
	}
}

func TestStepNavigationUnrestricted(t *testing.T) {
	w, _ := newTestWizard(&fakeCoach{})
	w.CreateNew()

	// Any step in any order.
	for _, step := range []int{6, 2, 4, 1, 5, 3, 6} {
		if err := w.GoToStep(step); err != nil {
			t.Fatalf("GoToStep(%d) failed: %v", step, err)
		}
		if w.Step() != step {
			t.Fatalf("Step = %d, want %d", w.Step(), step)
		}
	}

	if err := w.GoToStep(0); err == nil {
		t.Error("Expected error for step 0")
	}
	if err := w.GoToStep(7); err == nil {
		t.Error("Expected error for step 7")
	}
}

func TestMutatorsAreImmutableReplace(t *testing.T) {
	w, _ := newTestWizard(&fakeCoach{})
	w.CreateNew()

	before := w.Draft()
	w.SetSymbol(" aapl ")
	w.SetStep1(models.Step1{Fundamentals: "Solid", Conclusion: models.DirectionBullish})

	if before.Symbol != "" || before.Step1.Fundamentals != "" {
		t.Error("Earlier snapshot must not observe later mutations")
	}

	after := w.Draft()
	if after.Symbol != "AAPL" {
		t.Errorf("Symbol = %q, want AAPL", after.Symbol)
	}
	if after.Step1.Conclusion != models.DirectionBullish {
		t.Errorf("Step1 not replaced: %+v", after.Step1)
	}
}

func TestSetStep2CopiesStrategies(t *testing.T) {
	w, _ := newTestWizard(&fakeCoach{})
	w.CreateNew()

	strategies := []string{"Bull Put Spread"}
	w.SetStep2(models.Step2{ImpliedVolatility: models.IVHigh, CandidateStrategies: strategies})
	strategies[0] = "mutated"

	if got := w.Draft().Step2.CandidateStrategies[0]; got != "Bull Put Spread" {
		t.Errorf("Draft aliases caller slice: %q", got)
	}
}

func TestSaveDraftPersistsAndKeepsEditing(t *testing.T) {
	w, ms := newTestWizard(&fakeCoach{})
	w.CreateNew()
	w.SetSymbol("AAPL")

	plans, err := w.SaveDraft(context.Background())
	if err != nil {
		t.Fatalf("SaveDraft failed: %v", err)
	}
	if len(plans) != 1 || plans[0].Symbol != "AAPL" {
		t.Fatalf("Plan not persisted: %+v", plans)
	}

	// Post-save edits stay local until saved again.
	w.SetSymbol("MSFT")
	if got := ms.GetPlans(context.Background())[0].Symbol; got != "AAPL" {
		t.Errorf("Storage changed without save: %q", got)
	}
}

func TestEditLoadsSavedPlan(t *testing.T) {
	w, _ := newTestWizard(&fakeCoach{})
	w.CreateNew()
	w.SetSymbol("AAPL")
	saved, _ := w.SaveDraft(context.Background())
	w.Back()

	if w.Mode() != ModeList || w.Draft() != nil {
		t.Fatalf("Back should return to list with no draft")
	}

	if err := w.Edit(context.Background(), saved[0].ID); err != nil {
		t.Fatalf("Edit failed: %v", err)
	}
	if w.Mode() != ModeEditor || w.Draft().Symbol != "AAPL" {
		t.Errorf("Plan not loaded: mode %s, draft %+v", w.Mode(), w.Draft())
	}
}

func TestEditUnknownPlan(t *testing.T) {
	w, _ := newTestWizard(&fakeCoach{})
	err := w.Edit(context.Background(), "missing")
	if !errors.Is(err, apperrors.ErrPlanNotFound) {
		t.Fatalf("Expected ErrPlanNotFound, got %v", err)
	}
}

func TestPreviewAndReEdit(t *testing.T) {
	w, _ := newTestWizard(&fakeCoach{})
	w.CreateNew()

	if err := w.Preview(); err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	if w.Mode() != ModeDocument {
		t.Fatalf("Expected document mode, got %s", w.Mode())
	}

	if err := w.EditDraft(); err != nil {
		t.Fatalf("EditDraft failed: %v", err)
	}
	if w.Mode() != ModeEditor {
		t.Errorf("Expected editor mode, got %s", w.Mode())
	}
}

func TestRequestReviewGradesAndPersists(t *testing.T) {
	coach := &fakeCoach{review: "**Coach's Verdict**: Pass. LGTM."}
	w, ms := newTestWizard(coach)

	w.CreateNew()
	w.SetSymbol("AAPL")
	w.SetStep1(models.Step1{Fundamentals: "Strong cash flow", Conclusion: models.DirectionBullish})
	w.SetStep2(models.Step2{ImpliedVolatility: models.IVHigh, CandidateStrategies: []string{"Bull Put Spread"}})
	w.SetStep3(models.Step3{SelectedStrategy: "Bull Put Spread", Strikes: "180/175", Expiration: "45 DTE"})
	w.SetStep4(models.Step4{PrimaryExit: "50% of max profit", SecondaryExitBearish: "Roll down and out"})

	if err := w.RequestReview(context.Background()); err == nil {
		t.Fatal("Review should be rejected before step 6")
	}

	if err := w.GoToStep(LastStep); err != nil {
		t.Fatalf("GoToStep failed: %v", err)
	}
	if err := w.RequestReview(context.Background()); err != nil {
		t.Fatalf("RequestReview failed: %v", err)
	}

	if w.Mode() != ModeDocument {
		t.Errorf("Expected document view after review, got %s", w.Mode())
	}
	draft := w.Draft()
	if draft.Status != models.PlanGraded {
		t.Errorf("Status = %s, want Graded", draft.Status)
	}
	if draft.AIFeedback != "**Coach's Verdict**: Pass. LGTM." {
		t.Errorf("Feedback not merged: %q", draft.AIFeedback)
	}
	if !draft.Reviewed() {
		t.Error("Reviewed() should be true after grading")
	}

	persisted := ms.GetPlans(context.Background())
	if len(persisted) != 1 || persisted[0].Status != models.PlanGraded {
		t.Errorf("Graded plan not persisted: %+v", persisted)
	}
}

func TestRequestReviewSingleFlight(t *testing.T) {
	coach := &fakeCoach{review: "Pass", gate: make(chan struct{})}
	w, _ := newTestWizard(coach)

	w.CreateNew()
	w.GoToStep(LastStep)

	done := make(chan error, 1)
	go func() { done <- w.RequestReview(context.Background()) }()

	// Wait for the first review to be in flight.
	for i := 0; i < 100 && !w.Reviewing(); i++ {
		time.Sleep(time.Millisecond)
	}
	if !w.Reviewing() {
		t.Fatal("First review never started")
	}

	if err := w.RequestReview(context.Background()); !errors.Is(err, apperrors.ErrReviewPending) {
		t.Fatalf("Second review should be rejected as pending, got %v", err)
	}

	close(coach.gate)
	if err := <-done; err != nil {
		t.Fatalf("First review failed: %v", err)
	}

	coach.mu.Lock()
	defer coach.mu.Unlock()
	if coach.reviews != 1 {
		t.Errorf("Coach called %d times, want 1", coach.reviews)
	}
}
