// Package models provides domain models for the study companion.
package models

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"
)

// PlanStatus represents the lifecycle status of a trading plan.
type PlanStatus string

const (
	PlanDraft  PlanStatus = "Draft"
	PlanGraded PlanStatus = "Graded"

	// PlanCompleted is accepted on decode and rendered in listings, but no
	// transition in the app produces it. Kept for compatibility with plans
	// edited by hand in storage.
	PlanCompleted PlanStatus = "Completed"
)

// Direction is the directional conclusion of step 1.
type Direction string

const (
	DirectionBullish  Direction = "Bullish"
	DirectionBearish  Direction = "Bearish"
	DirectionNeutral  Direction = "Neutral"
	DirectionStagnant Direction = "Stagnant"
)

// IVLevel is the implied volatility environment of step 2.
type IVLevel string

const (
	IVLow    IVLevel = "Low"
	IVMedium IVLevel = "Medium"
	IVHigh   IVLevel = "High"
)

// Step1 holds the directional analysis.
type Step1 struct {
	Fundamentals string    `json:"fundamentals"`
	Technicals   string    `json:"technicals"`
	Sentiment    string    `json:"sentiment"`
	Conclusion   Direction `json:"conclusion"`
}

// Step2 holds the volatility read and candidate strategies.
type Step2 struct {
	ImpliedVolatility   IVLevel  `json:"impliedVolatility"`
	CandidateStrategies []string `json:"candidateStrategies"`
}

// Step3 holds the selected strategy structure.
type Step3 struct {
	SelectedStrategy string `json:"selectedStrategy"`
	Strikes          string `json:"strikes"`
	Expiration       string `json:"expiration"`
	RiskRewardRatio  string `json:"riskRewardRatio"`
}

// Step4 holds the exit plans.
type Step4 struct {
	PrimaryExit          string `json:"primaryExit"`
	SecondaryExitBullish string `json:"secondaryExitBullish"`
	SecondaryExitBearish string `json:"secondaryExitBearish"`
}

// Step56 holds trade placement and monitoring notes (steps 5 and 6 share a record).
type Step56 struct {
	PlacementNotes string `json:"placementNotes"`
	MonitoringPlan string `json:"monitoringPlan"`
}

// TradingPlan is a six-step graduation trading plan.
type TradingPlan struct {
	ID     string     `json:"id"`
	Symbol string     `json:"symbol"`
	Date   string     `json:"date"` // calendar date, YYYY-MM-DD
	Status PlanStatus `json:"status"`

	Step1  Step1  `json:"step1"`
	Step2  Step2  `json:"step2"`
	Step3  Step3  `json:"step3"`
	Step4  Step4  `json:"step4"`
	Step56 Step56 `json:"step5_6"`

	// AIFeedback is the coach's markdown critique. Its presence is what the
	// UI treats as "has been reviewed".
	AIFeedback string `json:"aiFeedback,omitempty"`
}

// Reviewed reports whether the plan has coach feedback attached.
func (p *TradingPlan) Reviewed() bool {
	return p.AIFeedback != ""
}

// Clone returns a deep copy of the plan. Step records are value types, so only
// the candidate strategies slice needs an explicit copy.
func (p *TradingPlan) Clone() *TradingPlan {
	c := *p
	if p.Step2.CandidateStrategies != nil {
		c.Step2.CandidateStrategies = append([]string(nil), p.Step2.CandidateStrategies...)
	}
	return &c
}

// NewTradingPlan creates an empty Draft plan dated today.
func NewTradingPlan() TradingPlan {
	return TradingPlan{
		ID:     NewID(),
		Date:   time.Now().Format("2006-01-02"),
		Status: PlanDraft,
		Step1:  Step1{Conclusion: DirectionNeutral},
		Step2:  Step2{ImpliedVolatility: IVMedium, CandidateStrategies: []string{}},
	}
}

// NormalizeSymbol uppercases and trims a user-supplied ticker.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

var lastIDMillis atomic.Int64

// NewID returns a time-based identifier in the same shape the app has always
// produced (millisecond epoch, decimal). When two entities are minted in the
// same millisecond the stamp is bumped forward, keeping ids unique for a
// single-user local store without a UUID dependency.
func NewID() string {
	ms := time.Now().UnixMilli()
	for {
		last := lastIDMillis.Load()
		if ms <= last {
			ms = last + 1
		}
		if lastIDMillis.CompareAndSwap(last, ms) {
			return fmt.Sprintf("%d", ms)
		}
	}
}
