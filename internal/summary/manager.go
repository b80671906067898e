// Package summary bridges "analyze this content" requests and persisted
// study-guide records.
package summary

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"optionsage/internal/ai"
	"optionsage/internal/catalog"
	apperrors "optionsage/internal/errors"
	"optionsage/internal/models"
	"optionsage/internal/store"
)

// Loading messages shown while the AI gateway works, chosen by input kind.
const (
	loadingVideo   = "Processing video content: Analyzing charts, audio, and on-screen text..."
	loadingAudio   = "Transcribing instructor audio..."
	loadingDefault = "Analyzing content..."
)

// Current is the in-memory working summary: the one being generated, viewed,
// or edited. It is independent of the persisted collection until saved.
type Current struct {
	SummaryID      string
	Module         catalog.ResolvedModule
	Content        string
	Instructor     string
	Notes          string
	VideoURL       string
	Generating     bool
	LoadingMessage string
}

// Manager owns the working summary and its persistence.
type Manager struct {
	store   store.DataStore
	gateway ai.Gateway
	logger  zerolog.Logger

	mu      sync.Mutex
	current Current
}

// NewManager creates a summary manager.
func NewManager(dataStore store.DataStore, gateway ai.Gateway, logger zerolog.Logger) *Manager {
	return &Manager{
		store:   dataStore,
		gateway: gateway,
		logger:  logger.With().Str("component", "summary").Logger(),
	}
}

// Current returns a snapshot of the working summary.
func (m *Manager) Current() Current {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// LoadingMessageFor picks the user-facing progress message for an input.
func LoadingMessageFor(file *models.FileData) string {
	switch {
	case file != nil && strings.HasPrefix(file.MimeType, "video"):
		return loadingVideo
	case file != nil && strings.HasPrefix(file.MimeType, "audio"):
		return loadingAudio
	default:
		return loadingDefault
	}
}

// StartAnalysis clears any previous working summary, generates a study guide
// for the module through the AI gateway, and stores the result as the
// current unsaved content. Gateway failures arrive as markdown error content,
// so the working summary never stays in a loading state.
func (m *Manager) StartAnalysis(ctx context.Context, module catalog.ResolvedModule, textContext string, file *models.FileData, sourceLabel string) string {
	m.mu.Lock()
	m.current = Current{
		Module:         module,
		VideoURL:       sourceLabel,
		Generating:     true,
		LoadingMessage: LoadingMessageFor(file),
	}
	m.mu.Unlock()

	m.logger.Info().Str("module", module.ID).Str("title", module.Title).Msg("Starting content analysis")
	content := m.gateway.GenerateSummary(ctx, module.Title, textContext, file)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.current.Content = content
	m.current.Generating = false
	m.current.LoadingMessage = ""
	return content
}

// Save constructs a SavedSummary from the working summary and upserts it.
// Re-saving a previously saved summary reuses its id; a fresh one mints a
// new id. Returns the saved record and the updated collection.
func (m *Manager) Save(ctx context.Context, instructor, notes string) (models.SavedSummary, []models.SavedSummary, error) {
	m.mu.Lock()
	if m.current.Module.ID == "" {
		m.mu.Unlock()
		return models.SavedSummary{}, nil, apperrors.ErrModuleNotFound
	}
	if m.current.Content == "" {
		m.mu.Unlock()
		return models.SavedSummary{}, nil, apperrors.ErrEmptyContent
	}

	id := m.current.SummaryID
	if id == "" {
		id = models.NewID()
	}
	record := models.SavedSummary{
		ID:          id,
		ModuleID:    m.current.Module.ID,
		ModuleTitle: m.current.Module.Title,
		Content:     m.current.Content,
		CreatedAt:   time.Now().UnixMilli(),
		Tags:        []string{m.current.Module.Category, fmt.Sprintf("Level %d", m.current.Module.Level)},
		Instructor:  instructor,
		Notes:       notes,
		VideoURL:    m.current.VideoURL,
	}
	m.current.SummaryID = id
	m.current.Instructor = instructor
	m.current.Notes = notes
	m.mu.Unlock()

	updated := m.store.SaveSummary(ctx, record)
	return record, updated, nil
}

// View loads a previously saved summary back into the working state,
// resolving its course from the catalog or synthesizing a stand-in for ad
// hoc content.
func (m *Manager) View(saved models.SavedSummary) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = Current{
		SummaryID:  saved.ID,
		Module:     catalog.Resolve(saved),
		Content:    saved.Content,
		Instructor: saved.Instructor,
		Notes:      saved.Notes,
		VideoURL:   saved.VideoURL,
	}
}

// IsSaved reports whether the working summary already exists in storage with
// identical content, notes, and instructor. The save action is a no-op (and
// is disabled) while this holds.
func (m *Manager) IsSaved(ctx context.Context) bool {
	m.mu.Lock()
	current := m.current
	m.mu.Unlock()

	if current.SummaryID == "" {
		return false
	}
	for _, saved := range m.store.GetSummaries(ctx) {
		if saved.ID == current.SummaryID &&
			saved.Content == current.Content &&
			saved.Notes == current.Notes &&
			saved.Instructor == current.Instructor {
			return true
		}
	}
	return false
}
