package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"optionsage/internal/models"
)

// fakeLLM returns a canned response or error and records the last prompt.
type fakeLLM struct {
	response   string
	err        error
	lastPrompt string
	lastFile   *models.FileData
}

func (f *fakeLLM) Complete(ctx context.Context, prompt string, temperature float32) (string, error) {
	f.lastPrompt = prompt
	return f.response, f.err
}

func (f *fakeLLM) CompleteWithFile(ctx context.Context, prompt string, file models.FileData, temperature float32) (string, error) {
	f.lastPrompt = prompt
	f.lastFile = &file
	return f.response, f.err
}

func TestGenerateSummaryReturnsContent(t *testing.T) {
	llm := &fakeLLM{response: "## Core Concept\nSpreads."}
	g := NewLLMGateway(llm, zerolog.Nop())

	got := g.GenerateSummary(context.Background(), "3.1 Bull Put Spreads", "transcript text", nil)
	if got != "## Core Concept\nSpreads." {
		t.Errorf("Unexpected summary: %q", got)
	}
	if !strings.Contains(llm.lastPrompt, "3.1 Bull Put Spreads") {
		t.Error("Prompt should contain the module title")
	}
	if !strings.Contains(llm.lastPrompt, "transcript text") {
		t.Error("Prompt should contain the transcript")
	}
}

func TestGenerateSummaryFailureIsContained(t *testing.T) {
	llm := &fakeLLM{err: errors.New("connection refused")}
	g := NewLLMGateway(llm, zerolog.Nop())

	got := g.GenerateSummary(context.Background(), "Title", "context", nil)
	if !strings.HasPrefix(got, "## Error") {
		t.Errorf("Failure must render as markdown error content, got %q", got)
	}
}

func TestGenerateSummaryEmptyResponse(t *testing.T) {
	llm := &fakeLLM{response: "   "}
	g := NewLLMGateway(llm, zerolog.Nop())

	got := g.GenerateSummary(context.Background(), "Title", "context", nil)
	if got != "Failed to generate summary." {
		t.Errorf("Unexpected fallback: %q", got)
	}
}

func TestGenerateSummaryWithFileUsesAttachment(t *testing.T) {
	llm := &fakeLLM{response: "## Core Concept\nFrom slides."}
	g := NewLLMGateway(llm, zerolog.Nop())

	file := &models.FileData{MimeType: "application/pdf", Base64Data: "aGVsbG8="}
	got := g.GenerateSummary(context.Background(), "Slides", "", file)
	if got != "## Core Concept\nFrom slides." {
		t.Errorf("Unexpected summary: %q", got)
	}
	if llm.lastFile == nil || llm.lastFile.MimeType != "application/pdf" {
		t.Errorf("Attachment not forwarded: %+v", llm.lastFile)
	}
	if !strings.Contains(llm.lastPrompt, "attached file") {
		t.Error("File prompt variant should mention the attachment")
	}
}

func TestReviewTradingPlanPromptCoversSteps(t *testing.T) {
	llm := &fakeLLM{response: "**Coach's Verdict**: Pass"}
	g := NewLLMGateway(llm, zerolog.Nop())

	plan := models.NewTradingPlan()
	plan.Symbol = "AAPL"
	plan.Step1.Fundamentals = "Strong balance sheet"
	plan.Step2.CandidateStrategies = []string{"Bull Put Spread", "Collar"}
	plan.Step3.SelectedStrategy = "Bull Put Spread"
	plan.Step4.SecondaryExitBearish = "Roll the short put down and out"

	got := g.ReviewTradingPlan(context.Background(), plan)
	if got != "**Coach's Verdict**: Pass" {
		t.Errorf("Unexpected review: %q", got)
	}
	for _, want := range []string{"AAPL", "Strong balance sheet", "Bull Put Spread, Collar", "Roll the short put down and out"} {
		if !strings.Contains(llm.lastPrompt, want) {
			t.Errorf("Review prompt missing %q", want)
		}
	}
}

func TestReviewTradingPlanFailureIsContained(t *testing.T) {
	llm := &fakeLLM{err: errors.New("rate limited")}
	g := NewLLMGateway(llm, zerolog.Nop())

	got := g.ReviewTradingPlan(context.Background(), models.NewTradingPlan())
	if got != reviewErrorContent {
		t.Errorf("Failure must render as feedback error content, got %q", got)
	}
}

func TestGetStockFundamentals(t *testing.T) {
	llm := &fakeLLM{response: "```json\n{\"name\": \"Apple Inc\", \"peRatio\": \"28.5\"}\n```"}
	g := NewLLMGateway(llm, zerolog.Nop())

	got, err := g.GetStockFundamentals(context.Background(), " aapl ")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got.Symbol != "AAPL" {
		t.Errorf("Symbol should be normalized, got %q", got.Symbol)
	}
	if got.Name != "Apple Inc" || got.PERatio != "28.5" {
		t.Errorf("Fields not filled: %+v", got)
	}
}

func TestGetStockFundamentalsMalformedJSON(t *testing.T) {
	llm := &fakeLLM{response: "I cannot help with that."}
	g := NewLLMGateway(llm, zerolog.Nop())

	if _, err := g.GetStockFundamentals(context.Background(), "AAPL"); err == nil {
		t.Fatal("Expected error for malformed JSON response")
	}
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"no fence", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripCodeFence(tt.input); got != tt.want {
				t.Errorf("stripCodeFence(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
