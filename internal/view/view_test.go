package view

import (
	"encoding/json"
	"testing"
)

func TestInitialState(t *testing.T) {
	if got := Initial(false); got.Screen != ScreenLanding || got.LoggedIn {
		t.Errorf("Initial(false) = %+v", got)
	}
	if got := Initial(true); got.Screen != ScreenDashboard || !got.LoggedIn {
		t.Errorf("Initial(true) = %+v", got)
	}
}

func TestLoginFlow(t *testing.T) {
	state := Initial(false)

	state = Reduce(state, GetStarted{})
	if state.Screen != ScreenLogin {
		t.Fatalf("Expected login screen, got %s", state.Screen)
	}

	state = Reduce(state, LoggedIn{})
	if state.Screen != ScreenDashboard || !state.LoggedIn {
		t.Fatalf("Expected dashboard after login, got %+v", state)
	}

	state = Reduce(state, LoggedOut{})
	if state.Screen != ScreenLanding || state.LoggedIn {
		t.Fatalf("Expected landing after logout, got %+v", state)
	}
}

func TestGetStartedOnlyFromLanding(t *testing.T) {
	state := Initial(true)
	state = Reduce(state, GetStarted{})
	if state.Screen != ScreenDashboard {
		t.Errorf("GetStarted should be a no-op off the landing page, got %s", state.Screen)
	}
}

func TestNavigateRequiresSession(t *testing.T) {
	state := Initial(false)
	state = Reduce(state, Navigate{To: ScreenGraduation})
	if state.Screen != ScreenLogin {
		t.Errorf("Navigation without session should redirect to login, got %s", state.Screen)
	}

	state = Reduce(state, LoggedIn{})
	state = Reduce(state, Navigate{To: ScreenGraduation})
	if state.Screen != ScreenGraduation {
		t.Errorf("Expected graduation screen, got %s", state.Screen)
	}
}

func TestNavigateClosesModals(t *testing.T) {
	state := Initial(true)
	state = Reduce(state, OpenAnalyze{ModuleID: "oa-1.1"})
	state = Reduce(state, OpenSummary{SummaryID: "s1"})
	state = Reduce(state, Navigate{To: ScreenProfile})

	if state.Analyze.Open || state.Summary.Open {
		t.Errorf("Navigation should close modals, got %+v", state)
	}
}

func TestAnalyzeModalLifecycle(t *testing.T) {
	state := Initial(true)

	state = Reduce(state, OpenAnalyze{ModuleID: "oa-3.1"})
	if !state.Analyze.Open || state.Analyze.ModuleID != "oa-3.1" {
		t.Fatalf("Analyze modal not opened: %+v", state.Analyze)
	}
	if state.Analyze.ActiveTab != TabLink {
		t.Errorf("Default tab should be LINK, got %s", state.Analyze.ActiveTab)
	}

	state = Reduce(state, SwitchTab{Tab: TabUpload})
	if state.Analyze.ActiveTab != TabUpload {
		t.Errorf("Tab not switched: %s", state.Analyze.ActiveTab)
	}

	state = Reduce(state, CloseAnalyze{})
	if state.Analyze.Open {
		t.Error("Analyze modal should be closed")
	}
}

func TestSwitchTabIgnoredWhenClosed(t *testing.T) {
	state := Initial(true)
	state = Reduce(state, SwitchTab{Tab: TabTranscript})
	if state.Analyze.ActiveTab != "" {
		t.Errorf("SwitchTab on closed modal should be a no-op, got %+v", state.Analyze)
	}
}

func TestSummaryGenerationFlow(t *testing.T) {
	state := Initial(true)
	state = Reduce(state, OpenAnalyze{ModuleID: "oa-2.2"})

	state = Reduce(state, GenerationStarted{Message: "Analyzing content..."})
	if !state.Summary.Generating || state.Summary.LoadingMessage != "Analyzing content..." {
		t.Fatalf("Generation not started: %+v", state.Summary)
	}

	state = Reduce(state, GenerationFinished{SummaryID: "123"})
	if state.Summary.Generating {
		t.Error("Generating flag should clear on finish")
	}
	if !state.Summary.Open || state.Summary.SummaryID != "123" {
		t.Errorf("Summary viewer should show the result: %+v", state.Summary)
	}
	if state.Analyze.Open {
		t.Error("Analyze modal should close when generation finishes")
	}
}

func TestStateIsSerializable(t *testing.T) {
	state := Initial(true)
	state = Reduce(state, OpenAnalyze{ModuleID: "oa-1.1"})
	state = Reduce(state, SelectPlan{PlanID: "p1"})

	raw, err := json.Marshal(state)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var decoded State
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if decoded != state {
		t.Errorf("Round trip changed state:\n got %+v\nwant %+v", decoded, state)
	}
}
