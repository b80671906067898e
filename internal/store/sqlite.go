package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	apperrors "optionsage/internal/errors"
	"optionsage/internal/models"
)

// SQLiteStore implements DataStore using SQLite. Each collection is stored as
// a single JSON document keyed by its storage key, mirroring the one-key
// one-collection layout of the original data files, so writes are whole
// document last-write-wins.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.Mutex
	logger zerolog.Logger
}

// NewSQLiteStore creates a new SQLite-based data store.
func NewSQLiteStore(dbPath string, logger zerolog.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{
		db:     db,
		logger: logger.With().Str("component", "store").Logger(),
	}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// readDoc loads and decodes one collection document into out. A missing row
// leaves out untouched. Decode and query failures are logged and swallowed so
// callers always get a usable (possibly empty) value.
func (s *SQLiteStore) readDoc(ctx context.Context, key string, out interface{}) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM documents WHERE key = ?`, key).Scan(&raw)
	if err == sql.ErrNoRows {
		return
	}
	if err != nil {
		s.logger.Warn().Err(&apperrors.StorageError{Key: key, Op: "read", Err: err}).
			Str("key", key).Msg("Failed to read collection, using empty value")
		return
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		s.logger.Warn().Err(&apperrors.StorageError{Key: key, Op: "decode", Err: err}).
			Str("key", key).Msg("Failed to decode collection, using empty value")
	}
}

// writeDoc encodes and upserts one collection document. Failures are logged,
// never returned; the caller's in-memory state stays authoritative for the
// session.
func (s *SQLiteStore) writeDoc(ctx context.Context, key string, value interface{}) {
	raw, err := json.Marshal(value)
	if err != nil {
		s.logger.Error().Err(&apperrors.StorageError{Key: key, Op: "encode", Err: err}).
			Str("key", key).Msg("Failed to encode collection")
		return
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO documents (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)`,
		key, string(raw))
	if err != nil {
		s.logger.Error().Err(&apperrors.StorageError{Key: key, Op: "write", Err: err}).
			Str("key", key).Msg("Failed to persist collection")
	}
}

// GetSummaries returns all saved summaries, newest first.
func (s *SQLiteStore) GetSummaries(ctx context.Context) []models.SavedSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	summaries := []models.SavedSummary{}
	s.readDoc(ctx, KeySummaries, &summaries)
	return summaries
}

// SaveSummary upserts a summary by id and returns the updated collection.
// An existing summary is replaced in place; a new one is prepended.
func (s *SQLiteStore) SaveSummary(ctx context.Context, summary models.SavedSummary) []models.SavedSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	summaries := []models.SavedSummary{}
	s.readDoc(ctx, KeySummaries, &summaries)
	summaries = upsertSummary(summaries, summary)
	s.writeDoc(ctx, KeySummaries, summaries)
	return summaries
}

// DeleteSummary removes a summary by id and returns the updated collection.
func (s *SQLiteStore) DeleteSummary(ctx context.Context, id string) []models.SavedSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	summaries := []models.SavedSummary{}
	s.readDoc(ctx, KeySummaries, &summaries)
	kept := summaries[:0]
	for _, sum := range summaries {
		if sum.ID != id {
			kept = append(kept, sum)
		}
	}
	s.writeDoc(ctx, KeySummaries, kept)
	return kept
}

// GetPlans returns all trading plans, newest first.
func (s *SQLiteStore) GetPlans(ctx context.Context) []models.TradingPlan {
	s.mu.Lock()
	defer s.mu.Unlock()
	plans := []models.TradingPlan{}
	s.readDoc(ctx, KeyPlans, &plans)
	return plans
}

// SavePlan upserts a plan by id and returns the updated collection.
// An existing plan is replaced in place; a new one is prepended.
func (s *SQLiteStore) SavePlan(ctx context.Context, plan models.TradingPlan) []models.TradingPlan {
	s.mu.Lock()
	defer s.mu.Unlock()
	plans := []models.TradingPlan{}
	s.readDoc(ctx, KeyPlans, &plans)
	plans = upsertPlan(plans, plan)
	s.writeDoc(ctx, KeyPlans, plans)
	return plans
}

// DeletePlan removes a plan by id and returns the updated collection.
func (s *SQLiteStore) DeletePlan(ctx context.Context, id string) []models.TradingPlan {
	s.mu.Lock()
	defer s.mu.Unlock()
	plans := []models.TradingPlan{}
	s.readDoc(ctx, KeyPlans, &plans)
	kept := plans[:0]
	for _, p := range plans {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	s.writeDoc(ctx, KeyPlans, kept)
	return kept
}

// GetUserProfile returns the stored profile, or nil when none exists.
func (s *SQLiteStore) GetUserProfile(ctx context.Context) *models.UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	var profile *models.UserProfile
	s.readDoc(ctx, KeyUser, &profile)
	return profile
}

// SaveUserProfile overwrites the stored profile.
func (s *SQLiteStore) SaveUserProfile(ctx context.Context, profile models.UserProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeDoc(ctx, KeyUser, &profile)
}

// GetWatchlist returns the stored watchlist.
func (s *SQLiteStore) GetWatchlist(ctx context.Context) []models.StockFundamentalAnalysis {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := []models.StockFundamentalAnalysis{}
	s.readDoc(ctx, KeyWatchlist, &list)
	return list
}

// SaveWatchlist overwrites the stored watchlist.
func (s *SQLiteStore) SaveWatchlist(ctx context.Context, list []models.StockFundamentalAnalysis) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeDoc(ctx, KeyWatchlist, list)
}

func upsertSummary(summaries []models.SavedSummary, summary models.SavedSummary) []models.SavedSummary {
	for i, existing := range summaries {
		if existing.ID == summary.ID {
			summaries[i] = summary
			return summaries
		}
	}
	return append([]models.SavedSummary{summary}, summaries...)
}

func upsertPlan(plans []models.TradingPlan, plan models.TradingPlan) []models.TradingPlan {
	for i, existing := range plans {
		if existing.ID == plan.ID {
			plans[i] = plan
			return plans
		}
	}
	return append([]models.TradingPlan{plan}, plans...)
}
