// Package summary produces short AI summaries of content items.
package summary

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/go-shiori/go-readability"

	"github.com/0x0BSoD/am5tv/internal/model"
)

const DefaultPrompt = "Summarize the following news report in two or three short sentences. " +
	"Answer in the language of the report."

var ErrNothingToSummarize = errors.New("item has no text to summarize")

type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

type cacheKey struct {
	kind model.Kind
	id   int64
}

// Items summarizes content items and remembers the result per item.
type Items struct {
	summarizer Summarizer
	timeout    time.Duration

	mu    sync.Mutex
	cache map[cacheKey]string
}

func NewItems(summarizer Summarizer, timeout time.Duration) *Items {
	return &Items{
		summarizer: summarizer,
		timeout:    timeout,
		cache:      make(map[cacheKey]string),
	}
}

func (s *Items) Summarize(ctx context.Context, item model.ContentItem) (string, error) {
	key := cacheKey{item.Kind, item.ID}

	s.mu.Lock()
	cached, ok := s.cache[key]
	s.mu.Unlock()
	if ok {
		return cached, nil
	}

	text := ItemText(item)
	if text == "" {
		return "", ErrNothingToSummarize
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	out, err := s.summarizer.Summarize(ctx, text)
	if err != nil {
		return "", fmt.Errorf("summarize %s %d: %w", item.Kind, item.ID, err)
	}

	s.mu.Lock()
	s.cache[key] = out
	s.mu.Unlock()

	return out, nil
}

// ItemText is the title and plain-text description of item.
func ItemText(item model.ContentItem) string {
	desc := PlainText(item.Description)
	title := strings.TrimSpace(item.Title)

	switch {
	case desc == "":
		return ""
	case title == "":
		return desc
	default:
		return title + "\n\n" + desc
	}
}

var redundantNewLines = regexp.MustCompile(`\n{3,}`)

// PlainText strips markup from an uploaded description. Input readability
// cannot make sense of is returned trimmed.
func PlainText(src string) string {
	src = strings.TrimSpace(src)
	if src == "" || !strings.Contains(src, "<") {
		return src
	}

	doc, err := readability.FromReader(strings.NewReader(src), nil)
	if err != nil || strings.TrimSpace(doc.TextContent) == "" {
		return src
	}

	return strings.TrimSpace(redundantNewLines.ReplaceAllString(doc.TextContent, "\n"))
}
