package summary

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/ollama/ollama/api"
)

type OllamaSummarizer struct {
	client *api.Client
	prompt string
	model  string
	mu     sync.Mutex
}

// NewOllamaSummarizer talks to an Ollama server. baseURL may be a bare
// host:port or a full URL.
func NewOllamaSummarizer(baseURL, prompt, model string) *OllamaSummarizer {
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		u = &url.URL{Scheme: "http", Host: baseURL, Path: "/"}
	}

	return &OllamaSummarizer{
		client: api.NewClient(u, &http.Client{}),
		prompt: prompt,
		model:  model,
	}
}

// Summarize runs one generation at a time; a local model serves a single
// request well and queues the rest anyway.
func (o *OllamaSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	stream := false
	req := &api.GenerateRequest{
		Model:  o.model,
		System: o.prompt,
		Prompt: text,
		Stream: &stream,
	}

	var sb strings.Builder
	err := o.client.Generate(ctx, req, func(resp api.GenerateResponse) error {
		sb.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(sb.String()), nil
}
