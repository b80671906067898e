// Package catalog provides the static OptionsANIMAL curriculum and module
// resolution for saved summaries.
package catalog

import (
	"sort"

	"optionsage/internal/models"
)

// LevelTitles maps curriculum level numbers to their names. Level 0 covers
// ad hoc content (daily market updates) that is not part of the catalog.
var LevelTitles = map[int]string{
	0: "Daily Market Updates",
	1: "Due Diligence",
	2: "Options Instruments",
	3: "Credit Spreads",
	4: "Debit Spreads",
	5: "Hedged Trades",
	6: "Trade Application",
	7: "Trade Adjustments",
	8: "Advanced Application",
}

// MaxLevel is the highest curriculum level.
const MaxLevel = 8

// Courses is the static course catalog, ordered by level then id.
var Courses = []models.CourseModule{
	{
		ID: "oa-1.0", Title: "1.0 OptionsANIMAL Orientation", Category: "Orientation", Level: 1, Duration: "25 min",
		Description: "Overview of the 8 levels of education, the proprietary method, and how to navigate the education center.",
		Transcript:  "Welcome to the OptionsANIMAL Orientation. This program is designed to take you from a novice to a professional grade trader.",
	},
	{
		ID: "oa-1.1", Title: "1.1 The OptionsANIMAL Method", Category: "Live Class Archives", Level: 1, Duration: "55 min",
		Description: "Core philosophy: capital preservation, spread trading, and the secondary exit strategy.",
		Transcript:  "The OptionsANIMAL method is distinct. We do not gamble. We trade with a plan and a secondary exit.",
	},
	{
		ID: "oa-1.2", Title: "1.2 Stock Market Basics", Category: "Live Class Archives", Level: 1, Duration: "48 min",
		Description: "Market mechanics, order types, and understanding bid/ask spreads.",
		Transcript:  "Let's cover the basics. What is a stock? What is an option? How do orders route and fill?",
	},
	{
		ID: "oa-1.3", Title: "1.3 Fundamental Analysis", Category: "Live Class Archives", Level: 1, Duration: "52 min",
		Description: "Reading earnings, volume, institutional ownership, and the due-diligence checklist.",
		Transcript:  "Fundamental analysis verifies the company behind the ticker before any trade is structured.",
	},
	{
		ID: "oa-2.1", Title: "2.1 Calls and Puts", Category: "Live Class Archives", Level: 2, Duration: "50 min",
		Description: "The option contract: rights, obligations, intrinsic and extrinsic value.",
		Transcript:  "An option is a contract. Calls confer the right to buy, puts the right to sell, at the strike.",
	},
	{
		ID: "oa-2.2", Title: "2.2 The Greeks", Category: "Live Class Archives", Level: 2, Duration: "58 min",
		Description: "Delta, gamma, theta, vega, and how each shapes position behavior.",
		Transcript:  "The greeks measure sensitivity. Delta to price, theta to time, vega to implied volatility.",
	},
	{
		ID: "oa-2.3", Title: "2.3 Implied Volatility", Category: "Live Class Archives", Level: 2, Duration: "45 min",
		Description: "IV rank, IV percentile, and matching strategy families to the IV environment.",
		Transcript:  "Implied volatility tells you what the market is paying for uncertainty. Sell it high, buy it low.",
	},
	{
		ID: "oa-3.1", Title: "3.1 Bull Put Spreads", Category: "Live Class Archives", Level: 3, Duration: "55 min",
		Description: "Constructing and managing the bull put credit spread.",
		Transcript:  "The bull put spread collects premium below support. Width and delta set the risk.",
	},
	{
		ID: "oa-3.2", Title: "3.2 Bear Call Spreads", Category: "Live Class Archives", Level: 3, Duration: "53 min",
		Description: "Constructing and managing the bear call credit spread.",
		Transcript:  "The bear call spread collects premium above resistance. It profits from time and stagnation.",
	},
	{
		ID: "oa-3.3", Title: "3.3 Credit Spread Exits", Category: "Live Class Archives", Level: 3, Duration: "47 min",
		Description: "Primary and secondary exits for credit spreads, including rolling.",
		Transcript:  "Every credit spread needs a primary exit and a secondary exit before entry.",
	},
	{
		ID: "oa-4.1", Title: "4.1 Bull Call Spreads", Category: "Live Class Archives", Level: 4, Duration: "51 min",
		Description: "Constructing and managing the bull call debit spread.",
		Transcript:  "The bull call spread pays a debit for defined-risk directional exposure.",
	},
	{
		ID: "oa-4.2", Title: "4.2 Bear Put Spreads", Category: "Live Class Archives", Level: 4, Duration: "49 min",
		Description: "Constructing and managing the bear put debit spread.",
		Transcript:  "The bear put spread profits from a measured move down with capped loss.",
	},
	{
		ID: "oa-5.1", Title: "5.1 Collar Trades", Category: "Live Class Archives", Level: 5, Duration: "60 min",
		Description: "Protecting stock with collars and managing the hedge through expiration cycles.",
		Transcript:  "The collar pairs a protective put with a covered call. The stock is insured, not abandoned.",
	},
	{
		ID: "oa-5.2", Title: "5.2 Married Puts", Category: "Live Class Archives", Level: 5, Duration: "44 min",
		Description: "Stock plus protective put as a bullish position with a hard floor.",
		Transcript:  "The married put buys insurance at entry. The floor is known before the trade is placed.",
	},
	{
		ID: "oa-6.1", Title: "6.1 Building the Trading Plan", Category: "Live Class Archives", Level: 6, Duration: "65 min",
		Description: "Applying the 6-step process end to end on a live candidate.",
		Transcript:  "Step one, direction. Step two, possibilities. Step three, structure. Then exits, placement, monitoring.",
	},
	{
		ID: "oa-6.2", Title: "6.2 Position Sizing", Category: "Live Class Archives", Level: 6, Duration: "42 min",
		Description: "Allocation rules and portfolio-level risk budgeting.",
		Transcript:  "No single trade should be able to hurt the account. Size from the loss side, not the win side.",
	},
	{
		ID: "oa-7.1", Title: "7.1 Adjusting Credit Spreads", Category: "Live Class Archives", Level: 7, Duration: "62 min",
		Description: "Secondary exit execution: rolling, converting, and repairing challenged spreads.",
		Transcript:  "An adjustment is a planned response, not a rescue. The secondary exit was written at entry.",
	},
	{
		ID: "oa-7.2", Title: "7.2 Adjusting Collars", Category: "Live Class Archives", Level: 7, Duration: "57 min",
		Description: "Rolling hedges through earnings and trend changes.",
		Transcript:  "Collars are adjusted by rolling the put, the call, or both as the stock moves.",
	},
	{
		ID: "oa-8.1", Title: "8.1 Graduation Project Workshop", Category: "Live Class Archives", Level: 8, Duration: "70 min",
		Description: "Assembling the graduation trading plan and preparing for instructor review.",
		Transcript:  "Your graduation plan demonstrates mastery of all six steps on a ticker of your choosing.",
	},
	{
		ID: "oa-8.2", Title: "8.2 Trading as a Business", Category: "Live Class Archives", Level: 8, Duration: "54 min",
		Description: "Routines, journaling, and sustaining an edge after graduation.",
		Transcript:  "Professionals run a routine. The 6-step process is the routine, every week, every trade.",
	},
}

// Find returns the catalog module with the given id.
func Find(moduleID string) (models.CourseModule, bool) {
	for _, c := range Courses {
		if c.ID == moduleID {
			return c, true
		}
	}
	return models.CourseModule{}, false
}

// ByLevel returns the catalog modules for one level, in catalog order.
func ByLevel(level int) []models.CourseModule {
	var out []models.CourseModule
	for _, c := range Courses {
		if c.Level == level {
			out = append(out, c)
		}
	}
	return out
}

// Levels returns the sorted list of levels that have at least one module.
func Levels() []int {
	seen := map[int]bool{}
	for _, c := range Courses {
		seen[c.Level] = true
	}
	levels := make([]int, 0, len(seen))
	for l := range seen {
		levels = append(levels, l)
	}
	sort.Ints(levels)
	return levels
}

// ResolvedModule is a course module resolved for a saved summary. Synthesized
// is set when the summary's module is not in the static catalog (ad hoc
// content such as a daily market update) and the module was fabricated from
// the summary's own fields.
type ResolvedModule struct {
	models.CourseModule
	Synthesized bool
}

// Resolve returns the module a saved summary belongs to. Summaries for
// catalog modules resolve to the catalog entry; anything else gets a
// synthesized level-0 stand-in built from the summary.
func Resolve(summary models.SavedSummary) ResolvedModule {
	if c, ok := Find(summary.ModuleID); ok {
		return ResolvedModule{CourseModule: c}
	}

	category := LevelTitles[0]
	if len(summary.Tags) > 0 && summary.Tags[0] != "" {
		category = summary.Tags[0]
	}
	return ResolvedModule{
		CourseModule: models.CourseModule{
			ID:       summary.ModuleID,
			Title:    summary.ModuleTitle,
			Category: category,
			Level:    0,
			Duration: "N/A",
		},
		Synthesized: true,
	}
}
