package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	apperrors "optionsage/internal/errors"
	"optionsage/internal/models"
)

// Gateway is the AI collaborator contract. GenerateSummary and
// ReviewTradingPlan never fail: any provider error is converted into a
// markdown string that occupies the content slot, so callers render the
// result unconditionally and need no separate error path.
type Gateway interface {
	GenerateSummary(ctx context.Context, title, textContext string, file *models.FileData) string
	ReviewTradingPlan(ctx context.Context, plan models.TradingPlan) string
	GetStockFundamentals(ctx context.Context, symbol string) (models.StockFundamentalAnalysis, error)
}

// Error content returned in place of generated text when the provider fails.
const (
	summaryErrorContent = "## Error\nCould not generate summary. Please check your API key, ensure the file is a valid PDF, or try again later."
	reviewErrorContent  = "Error generating feedback. Please try again."
)

const summaryTemperature = 0.3
const reviewTemperature = 0.4

// LLMGateway implements Gateway on top of an LLMClient.
type LLMGateway struct {
	llm    LLMClient
	logger zerolog.Logger
}

// NewLLMGateway creates a gateway backed by the given LLM client.
func NewLLMGateway(llm LLMClient, logger zerolog.Logger) *LLMGateway {
	return &LLMGateway{
		llm:    llm,
		logger: logger.With().Str("component", "ai").Logger(),
	}
}

// GenerateSummary produces a four-section markdown study guide for a module.
// When a file is attached the provider summarizes the file; otherwise it works
// from the transcript or pasted context.
func (g *LLMGateway) GenerateSummary(ctx context.Context, title, textContext string, file *models.FileData) string {
	var (
		content string
		err     error
	)
	if file != nil {
		prompt := summaryFilePrompt(title)
		content, err = g.llm.CompleteWithFile(ctx, prompt, *file, summaryTemperature)
	} else {
		content, err = g.llm.Complete(ctx, summaryTranscriptPrompt(title, textContext), summaryTemperature)
	}
	if err != nil {
		g.logger.Error().Err(&apperrors.GatewayError{Operation: "generateSummary", Err: err}).
			Str("title", title).Msg("Summary generation failed")
		return summaryErrorContent
	}
	if strings.TrimSpace(content) == "" {
		return "Failed to generate summary."
	}
	return content
}

// ReviewTradingPlan critiques a graduation plan against the 6-step process
// and returns the critique as markdown.
func (g *LLMGateway) ReviewTradingPlan(ctx context.Context, plan models.TradingPlan) string {
	content, err := g.llm.Complete(ctx, reviewPrompt(plan), reviewTemperature)
	if err != nil {
		g.logger.Error().Err(&apperrors.GatewayError{Operation: "reviewTradingPlan", Err: err}).
			Str("plan_id", plan.ID).Str("symbol", plan.Symbol).Msg("Plan review failed")
		return reviewErrorContent
	}
	if strings.TrimSpace(content) == "" {
		return "Unable to generate review."
	}
	return content
}

// GetStockFundamentals asks the provider for a best-effort fill of the
// watchlist worksheet. The result is partial: fields the provider cannot
// source stay empty for the student to complete.
func (g *LLMGateway) GetStockFundamentals(ctx context.Context, symbol string) (models.StockFundamentalAnalysis, error) {
	content, err := g.llm.Complete(ctx, fundamentalsPrompt(symbol), summaryTemperature)
	if err != nil {
		return models.StockFundamentalAnalysis{}, &apperrors.GatewayError{Operation: "getStockFundamentals", Err: err}
	}

	var analysis models.StockFundamentalAnalysis
	if err := json.Unmarshal([]byte(stripCodeFence(content)), &analysis); err != nil {
		return models.StockFundamentalAnalysis{}, &apperrors.GatewayError{Operation: "getStockFundamentals", Err: err}
	}
	analysis.Symbol = models.NormalizeSymbol(symbol)
	return analysis, nil
}

func summaryFilePrompt(title string) string {
	return fmt.Sprintf(`You are an expert Options Trading instructor assisting a student.
Please summarize the educational content provided in the attached file (Slide Deck/PDF) titled %q.

The file contains training slides. Extract the key concepts, strategies, and rules defined in the visual slides.

Format the response in Markdown with the following structure:
## Core Concept
(Brief explanation of the strategy/topic found in the slides)

## Setup & Mechanics
(Bulleted list of how to execute the trade or specific rules mentioned)

## Risk Management
(What are the risks and how to mitigate them)

## Key Takeaways
(The most important lessons to remember)`, title)
}

func summaryTranscriptPrompt(title, textContext string) string {
	return fmt.Sprintf(`You are an expert Options Trading instructor assisting a student.
Please summarize the following educational content titled %q.

Format the response in Markdown with the following structure:
## Core Concept
(Brief explanation of the strategy/topic)

## Setup & Mechanics
(Bulleted list of how to execute the trade or specific rules)

## Risk Management
(What are the risks and how to mitigate them)

## Key Takeaways
(The most important lessons to remember)

---
TRANSCRIPT CONTENT:
%s`, title, textContext)
}

func reviewPrompt(plan models.TradingPlan) string {
	return fmt.Sprintf(`You are a senior instructor at OptionsANIMAL. Review this student's graduation trading plan based on our 6-Step Process.
Critique their logic. Ensure their strategy matches their analysis.

Student Plan:
Symbol: %s

Step 1 (Direction):
- Fundamentals: %s
- Technicals: %s
- Sentiment: %s
- Conclusion: %s

Step 2 (IV & Possibilities):
- IV Environment: %s
- Strategies Considered: %s

Step 3 (Structure):
- Selected Strategy: %s
- Strikes/Expiration: %s / %s

Step 4 (Exits):
- Primary: %s
- Secondary (Bullish Adjustment): %s
- Secondary (Bearish Adjustment): %s

Provide a constructive critique in Markdown.
1. **Analysis Grade**: Does the analysis support the direction?
2. **Strategy Fit**: Is the strategy appropriate for the IV environment and directional bias?
3. **Risk Management**: Are the secondary exits realistic?
4. **Coach's Verdict**: Pass or Needs Improvement?`,
		plan.Symbol,
		plan.Step1.Fundamentals,
		plan.Step1.Technicals,
		plan.Step1.Sentiment,
		plan.Step1.Conclusion,
		plan.Step2.ImpliedVolatility,
		strings.Join(plan.Step2.CandidateStrategies, ", "),
		plan.Step3.SelectedStrategy,
		plan.Step3.Strikes,
		plan.Step3.Expiration,
		plan.Step4.PrimaryExit,
		plan.Step4.SecondaryExitBullish,
		plan.Step4.SecondaryExitBearish,
	)
}

func fundamentalsPrompt(symbol string) string {
	return fmt.Sprintf(`You are a stock research assistant for options traders.
Fill in a fundamental analysis worksheet for the stock %q using your general knowledge.
Leave any field you are not confident about as an empty string.

Respond with ONLY a JSON object matching this shape, no code fences, no commentary:
{
  "symbol": "",
  "name": "",
  "overview": "",
  "avgVolume": "",
  "institutionalOwnership": "",
  "earningsDate": "",
  "range52Week": "",
  "debtToEquity": "",
  "peRatio": "",
  "dividend": "",
  "intrinsicValue": "",
  "analystTargetPrice": "",
  "management": {"roic": "", "roa": "", "roe": ""},
  "growth": {"currentQtr": "", "nextQtr": "", "currentYear": "", "nextYear": "", "next5Years": "", "past5Years": "", "industryAvg": ""},
  "notes": ""
}`, models.NormalizeSymbol(symbol))
}

// stripCodeFence removes a surrounding markdown code fence if the provider
// added one despite instructions.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
