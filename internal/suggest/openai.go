package suggest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"
)

const systemPrompt = `You suggest household chores for children. Respond with a JSON object
of the form {"suggestions": [...]} where each suggestion has the fields
title, description, suggestedCoins, suggestedXp, frequency and icon.
frequency must be one of "Daily", "Weekly", "Fortnightly" or "One-off".
icon is a single emoji. Keep coins between 5 and 50 and XP between 10
and 100, scaled to effort.`

// OpenAIProvider asks a chat-completion model for chore ideas.
type OpenAIProvider struct {
	client *openai.Client
	model  string
	logger *slog.Logger
}

// NewOpenAIProvider builds a provider. baseURL may be empty for the public
// API, or point at a compatible endpoint (or a test server).
func NewOpenAIProvider(apiKey, baseURL, modelName string, logger *slog.Logger) *OpenAIProvider {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if modelName == "" {
		modelName = openai.GPT4oMini
	}
	return &OpenAIProvider{
		client: openai.NewClientWithConfig(cfg),
		model:  modelName,
		logger: logger,
	}
}

func (p *OpenAIProvider) Suggest(ctx context.Context, count int, hint string) ([]Suggestion, error) {
	if count <= 0 {
		count = 3
	}
	user := fmt.Sprintf("Suggest %d chores.", count)
	if hint != "" {
		user = fmt.Sprintf("Suggest %d chores. Context from the parent: %s", count, hint)
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("chore suggestions: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("chore suggestions: empty response")
	}

	var payload struct {
		Suggestions []Suggestion `json:"suggestions"`
	}
	content := resp.Choices[0].Message.Content
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		p.logger.Warn("unparseable suggestion payload", "error", err)
		return nil, fmt.Errorf("decode suggestions: %w", err)
	}
	return payload.Suggestions, nil
}
