package summary

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0x0BSoD/am5tv/internal/model"
)

type stubSummarizer struct {
	calls []string
	out   string
	err   error
}

func (s *stubSummarizer) Summarize(_ context.Context, text string) (string, error) {
	s.calls = append(s.calls, text)
	return s.out, s.err
}

func TestItems_CachesPerItem(t *testing.T) {
	stub := &stubSummarizer{out: "Short."}
	s := NewItems(stub, time.Second)

	item := model.ContentItem{Kind: model.KindVideo, ID: 1, Title: "Floods", Description: "Heavy rain in Warangal."}

	got, err := s.Summarize(context.Background(), item)
	require.NoError(t, err)
	assert.Equal(t, "Short.", got)

	_, err = s.Summarize(context.Background(), item)
	require.NoError(t, err)
	require.Len(t, stub.calls, 1)
	assert.Equal(t, "Floods\n\nHeavy rain in Warangal.", stub.calls[0])

	item.Kind = model.KindImageNews
	_, err = s.Summarize(context.Background(), item)
	require.NoError(t, err)
	assert.Len(t, stub.calls, 2)
}

func TestItems_Errors(t *testing.T) {
	stub := &stubSummarizer{err: errors.New("model offline")}
	s := NewItems(stub, time.Second)

	_, err := s.Summarize(context.Background(), model.ContentItem{ID: 1, Title: "No body"})
	assert.ErrorIs(t, err, ErrNothingToSummarize)
	assert.Empty(t, stub.calls)

	_, err = s.Summarize(context.Background(), model.ContentItem{ID: 2, Description: "Some text here"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model offline")

	stub.err = nil
	stub.out = "ok"
	got, err := s.Summarize(context.Background(), model.ContentItem{ID: 2, Description: "Some text here"})
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "", PlainText("   "))
	assert.Equal(t, "already plain", PlainText(" already plain "))

	got := PlainText("<html><body><article><p>Markets rallied today across the region.</p></article></body></html>")
	assert.Contains(t, got, "Markets rallied today")
	assert.NotContains(t, got, "<p>")
}
