// Package store provides data persistence implementations.
package store

import (
	"context"

	"optionsage/internal/models"
)

// Storage keys namespace the four persisted collections. They double as the
// top-level keys of an exported backup, so they are part of the on-disk
// contract and must not change.
const (
	KeySummaries = "optionsAI_summaries"
	KeyPlans     = "optionsAI_plans"
	KeyUser      = "optionsAI_user"
	KeyWatchlist = "optionsAI_watchlist"
)

// DataStore defines the interface for data persistence.
//
// Reads never fail: a missing or unreadable collection degrades to its empty
// value and the cause is logged. Writes that cannot reach the store are
// logged and the in-memory result of the mutation is still returned, so the
// caller's session keeps working even when persistence is gone.
type DataStore interface {
	// Summaries
	GetSummaries(ctx context.Context) []models.SavedSummary
	SaveSummary(ctx context.Context, summary models.SavedSummary) []models.SavedSummary
	DeleteSummary(ctx context.Context, id string) []models.SavedSummary

	// Trading plans
	GetPlans(ctx context.Context) []models.TradingPlan
	SavePlan(ctx context.Context, plan models.TradingPlan) []models.TradingPlan
	DeletePlan(ctx context.Context, id string) []models.TradingPlan

	// User profile. GetUserProfile returns nil when no profile is stored.
	GetUserProfile(ctx context.Context) *models.UserProfile
	SaveUserProfile(ctx context.Context, profile models.UserProfile)

	// Watchlist
	GetWatchlist(ctx context.Context) []models.StockFundamentalAnalysis
	SaveWatchlist(ctx context.Context, list []models.StockFundamentalAnalysis)

	// Backup
	Snapshot(ctx context.Context) Backup
	Restore(ctx context.Context, backup Backup) error

	Close() error
}
