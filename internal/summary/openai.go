package summary

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

type OpenAISummarizer struct {
	client *openai.Client
	prompt string
	model  string
}

// NewOpenAISummarizer creates a summarizer backed by any OpenAI-compatible API.
// An empty baseURL means api.openai.com.
func NewOpenAISummarizer(baseURL, apiKey, prompt, model string) *OpenAISummarizer {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAISummarizer{
		client: openai.NewClientWithConfig(cfg),
		prompt: prompt,
		model:  model,
	}
}

func (o *OpenAISummarizer) Summarize(ctx context.Context, text string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: o.prompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from model %q", o.model)
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
