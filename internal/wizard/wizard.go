// Package wizard implements the six-step trading plan editor as an explicit
// state machine over a detached draft plan.
package wizard

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"optionsage/internal/ai"
	apperrors "optionsage/internal/errors"
	"optionsage/internal/logging"
	"optionsage/internal/models"
	"optionsage/internal/store"
)

// Mode is the wizard's top-level state.
type Mode string

const (
	ModeList     Mode = "LIST"
	ModeEditor   Mode = "EDITOR"
	ModeDocument Mode = "DOCUMENT"
)

// Step bounds for editor navigation.
const (
	FirstStep = 1
	LastStep  = 6
)

// Wizard drives the plan editing loop. The wizard owns a detached copy of
// the plan being edited; nothing reaches the persisted collection until an
// explicit save or a completed review.
type Wizard struct {
	store   store.DataStore
	gateway ai.Gateway
	logger  zerolog.Logger

	mu        sync.Mutex
	mode      Mode
	step      int
	draft     *models.TradingPlan
	reviewing bool
}

// New creates a wizard in the list state.
func New(dataStore store.DataStore, gateway ai.Gateway, logger zerolog.Logger) *Wizard {
	return &Wizard{
		store:   dataStore,
		gateway: gateway,
		logger:  logger.With().Str("component", "wizard").Logger(),
		mode:    ModeList,
	}
}

// Mode returns the current top-level state.
func (w *Wizard) Mode() Mode {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.mode
}

// Step returns the current editor step.
func (w *Wizard) Step() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// Draft returns a copy of the in-editor plan, or nil outside the editor and
// document states.
func (w *Wizard) Draft() *models.TradingPlan {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.draft == nil {
		return nil
	}
	return w.draft.Clone()
}

// Reviewing reports whether an AI review is in flight.
func (w *Wizard) Reviewing() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.reviewing
}

// CreateNew starts a fresh draft and enters the editor at step 1.
func (w *Wizard) CreateNew() *models.TradingPlan {
	w.mu.Lock()
	defer w.mu.Unlock()
	plan := models.NewTradingPlan()
	w.draft = &plan
	w.mode = ModeEditor
	w.step = FirstStep
	return plan.Clone()
}

// Edit loads a saved plan into the editor.
func (w *Wizard) Edit(ctx context.Context, id string) error {
	plan, err := w.findPlan(ctx, id)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft = plan.Clone()
	w.mode = ModeEditor
	w.step = FirstStep
	return nil
}

// ViewDocument loads a saved plan into the read-only document view.
func (w *Wizard) ViewDocument(ctx context.Context, id string) error {
	plan, err := w.findPlan(ctx, id)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft = plan.Clone()
	w.mode = ModeDocument
	return nil
}

func (w *Wizard) findPlan(ctx context.Context, id string) (*models.TradingPlan, error) {
	for _, plan := range w.store.GetPlans(ctx) {
		if plan.ID == id {
			p := plan
			return &p, nil
		}
	}
	return nil, fmt.Errorf("plan %s: %w", id, apperrors.ErrPlanNotFound)
}

// GoToStep moves the editor to any step 1..6. Navigation is deliberately
// unrestricted; this is a drafting tool, not a linear form.
func (w *Wizard) GoToStep(step int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.mode != ModeEditor {
		return fmt.Errorf("step navigation outside editor (mode %s)", w.mode)
	}
	if step < FirstStep || step > LastStep {
		return fmt.Errorf("step %d out of range %d..%d", step, FirstStep, LastStep)
	}
	w.step = step
	return nil
}

// Preview shows the draft as a rendered document without persisting it.
func (w *Wizard) Preview() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.draft == nil {
		return apperrors.ErrPlanNotFound
	}
	w.mode = ModeDocument
	return nil
}

// EditDraft re-enters the editor from the document view with the same plan.
func (w *Wizard) EditDraft() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.draft == nil {
		return apperrors.ErrPlanNotFound
	}
	w.mode = ModeEditor
	if w.step < FirstStep {
		w.step = FirstStep
	}
	return nil
}

// Back returns to the list, discarding unsaved draft changes.
func (w *Wizard) Back() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.mode = ModeList
	w.draft = nil
	w.step = 0
}

// SaveDraft upserts the draft into the persisted collection and returns the
// updated collection. The wizard keeps its own copy; later edits are not
// reflected in storage until saved again.
func (w *Wizard) SaveDraft(ctx context.Context) ([]models.TradingPlan, error) {
	w.mu.Lock()
	if w.draft == nil {
		w.mu.Unlock()
		return nil, apperrors.ErrPlanNotFound
	}
	plan := *w.draft.Clone()
	w.mu.Unlock()
	return w.store.SavePlan(ctx, plan), nil
}

// Every mutator replaces the draft wholesale instead of writing through the
// old pointer, so a previously returned Draft() snapshot stays stable.

// SetSymbol updates the plan's symbol, normalized to upper case.
func (w *Wizard) SetSymbol(symbol string) {
	w.mutate(func(p *models.TradingPlan) {
		p.Symbol = models.NormalizeSymbol(symbol)
	})
}

// SetStep1 replaces the direction analysis section.
func (w *Wizard) SetStep1(s models.Step1) {
	w.mutate(func(p *models.TradingPlan) { p.Step1 = s })
}

// SetStep2 replaces the IV and strategy possibilities section.
func (w *Wizard) SetStep2(s models.Step2) {
	w.mutate(func(p *models.TradingPlan) {
		s.CandidateStrategies = append([]string(nil), s.CandidateStrategies...)
		p.Step2 = s
	})
}

// SetStep3 replaces the trade structure section.
func (w *Wizard) SetStep3(s models.Step3) {
	w.mutate(func(p *models.TradingPlan) { p.Step3 = s })
}

// SetStep4 replaces the exits section.
func (w *Wizard) SetStep4(s models.Step4) {
	w.mutate(func(p *models.TradingPlan) { p.Step4 = s })
}

// SetStep56 replaces the placement and monitoring section.
func (w *Wizard) SetStep56(s models.Step56) {
	w.mutate(func(p *models.TradingPlan) { p.Step56 = s })
}

func (w *Wizard) mutate(apply func(*models.TradingPlan)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.draft == nil {
		return
	}
	next := w.draft.Clone()
	apply(next)
	w.draft = next
}

// RequestReview sends steps 1-4 of the draft to the AI coach, merges the
// critique into the plan, marks it Graded, persists it, and switches to the
// document view. Review is only actionable from step 6, and only one review
// can be in flight; a second request while pending is rejected.
func (w *Wizard) RequestReview(ctx context.Context) error {
	w.mu.Lock()
	if w.mode != ModeEditor || w.step != LastStep {
		w.mu.Unlock()
		return fmt.Errorf("review requires editor step %d", LastStep)
	}
	if w.reviewing {
		w.mu.Unlock()
		return apperrors.ErrReviewPending
	}
	if w.draft == nil {
		w.mu.Unlock()
		return apperrors.ErrPlanNotFound
	}
	w.reviewing = true
	plan := *w.draft.Clone()
	w.mu.Unlock()

	feedback := w.gateway.ReviewTradingPlan(ctx, plan)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.reviewing = false

	next := plan.Clone()
	next.AIFeedback = feedback
	next.Status = models.PlanGraded
	w.draft = next
	w.mode = ModeDocument

	logging.LogReview(w.logger, next.ID, next.Symbol, true)
	w.store.SavePlan(ctx, *next)
	return nil
}
