// Package ai provides the generative-AI gateway used for study guides,
// trading plan reviews, and watchlist research.
package ai

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"optionsage/internal/models"
)

// LLMClient abstracts the text-generation provider so the gateway can be
// tested without network access.
type LLMClient interface {
	Complete(ctx context.Context, prompt string, temperature float32) (string, error)
	CompleteWithFile(ctx context.Context, prompt string, file models.FileData, temperature float32) (string, error)
}

// OpenAIClient implements LLMClient using the OpenAI API.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient creates a new OpenAI LLM client.
func NewOpenAIClient(apiKey string, model string) *OpenAIClient {
	return &OpenAIClient{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// Complete sends a prompt to the LLM and returns the response.
func (c *OpenAIClient) Complete(ctx context.Context, prompt string, temperature float32) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from openai")
	}
	return resp.Choices[0].Message.Content, nil
}

// CompleteWithFile sends a prompt together with an attached file. Image
// attachments are passed inline as a data URI; other mime types cannot be
// attached to a chat completion, so the prompt goes through text-only and the
// provider works from whatever context the prompt carries.
func (c *OpenAIClient) CompleteWithFile(ctx context.Context, prompt string, file models.FileData, temperature float32) (string, error) {
	if !isImageMime(file.MimeType) {
		return c.Complete(ctx, prompt, temperature)
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: prompt},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL: fmt.Sprintf("data:%s;base64,%s", file.MimeType, file.Base64Data),
						},
					},
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from openai")
	}
	return resp.Choices[0].Message.Content, nil
}

func isImageMime(mimeType string) bool {
	switch mimeType {
	case "image/png", "image/jpeg", "image/webp", "image/gif":
		return true
	}
	return false
}
