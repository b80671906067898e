// Package view models the application's screen state as a single
// serializable value updated through a reducer. Transitions are total: every
// event applied to every state yields a valid next state, which keeps the
// navigation logic testable without any rendering layer.
package view

// Screen identifies the top-level screen.
type Screen string

const (
	ScreenLanding      Screen = "LANDING"
	ScreenLogin        Screen = "LOGIN"
	ScreenDashboard    Screen = "DASHBOARD"
	ScreenLibrary      Screen = "LIBRARY"
	ScreenMarketReport Screen = "MARKET_REPORT"
	ScreenGraduation   Screen = "GRADUATION"
	ScreenRoutine      Screen = "ROUTINE"
	ScreenProfile      Screen = "PROFILE"
)

// AnalysisTab identifies the input mode of the analyze modal.
type AnalysisTab string

const (
	TabLink       AnalysisTab = "LINK"
	TabTranscript AnalysisTab = "TRANSCRIPT"
	TabUpload     AnalysisTab = "UPLOAD"
)

// AnalyzeModal is the sub-state of the content-analysis dialog.
type AnalyzeModal struct {
	Open      bool        `json:"open"`
	ModuleID  string      `json:"moduleId,omitempty"`
	ActiveTab AnalysisTab `json:"activeTab,omitempty"`
}

// SummaryModal is the sub-state of the study-guide viewer.
type SummaryModal struct {
	Open           bool   `json:"open"`
	SummaryID      string `json:"summaryId,omitempty"`
	Generating     bool   `json:"generating"`
	LoadingMessage string `json:"loadingMessage,omitempty"`
}

// State is the complete view state tree.
type State struct {
	Screen       Screen       `json:"screen"`
	LoggedIn     bool         `json:"loggedIn"`
	Analyze      AnalyzeModal `json:"analyze"`
	Summary      SummaryModal `json:"summary"`
	SelectedPlan string       `json:"selectedPlanId,omitempty"`
}

// Initial returns the state shown before any interaction. A session that is
// already logged in lands on the dashboard instead.
func Initial(loggedIn bool) State {
	if loggedIn {
		return State{Screen: ScreenDashboard, LoggedIn: true}
	}
	return State{Screen: ScreenLanding}
}

// Event is a view transition request.
type Event interface{ isEvent() }

// GetStarted moves from the landing page to login.
type GetStarted struct{}

// LoggedIn records a successful login.
type LoggedIn struct{}

// LoggedOut drops the session and returns to the landing page.
type LoggedOut struct{}

// Navigate switches to another top-level screen. Screens other than landing
// and login require a session; without one the event redirects to login.
type Navigate struct{ To Screen }

// OpenAnalyze opens the content-analysis dialog for a module.
type OpenAnalyze struct{ ModuleID string }

// SwitchTab changes the analyze dialog's input mode.
type SwitchTab struct{ Tab AnalysisTab }

// CloseAnalyze dismisses the analyze dialog.
type CloseAnalyze struct{}

// GenerationStarted marks the summary viewer busy with a loading message.
type GenerationStarted struct{ Message string }

// GenerationFinished opens the summary viewer on the produced summary.
type GenerationFinished struct{ SummaryID string }

// OpenSummary opens the viewer on a previously saved summary.
type OpenSummary struct{ SummaryID string }

// CloseSummary dismisses the summary viewer.
type CloseSummary struct{}

// SelectPlan records the plan being worked on in the graduation screen.
type SelectPlan struct{ PlanID string }

func (GetStarted) isEvent()         {}
func (LoggedIn) isEvent()           {}
func (LoggedOut) isEvent()          {}
func (Navigate) isEvent()           {}
func (OpenAnalyze) isEvent()        {}
func (SwitchTab) isEvent()          {}
func (CloseAnalyze) isEvent()       {}
func (GenerationStarted) isEvent()  {}
func (GenerationFinished) isEvent() {}
func (OpenSummary) isEvent()        {}
func (CloseSummary) isEvent()       {}
func (SelectPlan) isEvent()         {}

// Reduce applies one event to the state. Unknown or inapplicable events
// leave the state unchanged.
func Reduce(state State, event Event) State {
	switch e := event.(type) {
	case GetStarted:
		if state.Screen == ScreenLanding {
			state.Screen = ScreenLogin
		}
	case LoggedIn:
		state.LoggedIn = true
		state.Screen = ScreenDashboard
	case LoggedOut:
		return State{Screen: ScreenLanding}
	case Navigate:
		if e.To == ScreenLanding || e.To == ScreenLogin {
			state.Screen = e.To
			return state
		}
		if !state.LoggedIn {
			state.Screen = ScreenLogin
			return state
		}
		state.Screen = e.To
		// Leaving a screen closes its modals.
		state.Analyze = AnalyzeModal{}
		state.Summary = SummaryModal{}
	case OpenAnalyze:
		if state.LoggedIn {
			state.Analyze = AnalyzeModal{Open: true, ModuleID: e.ModuleID, ActiveTab: TabLink}
		}
	case SwitchTab:
		if state.Analyze.Open {
			state.Analyze.ActiveTab = e.Tab
		}
	case CloseAnalyze:
		state.Analyze = AnalyzeModal{}
	case GenerationStarted:
		state.Summary = SummaryModal{Open: true, Generating: true, LoadingMessage: e.Message}
	case GenerationFinished:
		state.Summary = SummaryModal{Open: true, SummaryID: e.SummaryID}
		state.Analyze = AnalyzeModal{}
	case OpenSummary:
		if state.LoggedIn {
			state.Summary = SummaryModal{Open: true, SummaryID: e.SummaryID}
		}
	case CloseSummary:
		state.Summary = SummaryModal{}
	case SelectPlan:
		state.SelectedPlan = e.PlanID
	}
	return state
}
