package carousel

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0x0BSoD/am5tv/internal/model"
)

func news(id int64, urls ...string) model.ContentItem {
	return model.ContentItem{Kind: model.KindImageNews, ID: id, ImageURLs: urls}
}

func TestRotate(t *testing.T) {
	r := New(time.Hour)
	r.Track([]model.ContentItem{
		news(1, "a", "b", "c"),
		news(2, "only"),
		{Kind: model.KindVideo, ID: 3},
	})

	r.Rotate()
	assert.Equal(t, 1, r.Index(1))
	assert.Equal(t, 0, r.Index(2))
	assert.Equal(t, 0, r.Index(3))

	r.Rotate()
	r.Rotate()
	assert.Equal(t, 0, r.Index(1), "wraps to the first image")
	assert.Equal(t, "a", r.Current(news(1, "a", "b", "c")))

	r.Rotate()
	assert.Equal(t, "b", r.Current(news(1, "a", "b", "c")))
	assert.Equal(t, "", r.Current(model.ContentItem{ID: 9}))
}

func TestTrackResets(t *testing.T) {
	r := New(time.Hour)
	r.Track([]model.ContentItem{news(1, "a", "b")})
	r.Rotate()
	require.Equal(t, 1, r.Index(1))

	r.Track([]model.ContentItem{news(1, "a", "b")})
	assert.Equal(t, 0, r.Index(1))
}

func TestStart_StopsWithContext(t *testing.T) {
	r := New(5 * time.Millisecond)
	r.Track([]model.ContentItem{news(1, "a", "b")})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Start(ctx) }()

	require.Eventually(t, func() bool { return r.Index(1) == 1 }, time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(time.Second):
		t.Fatal("rotator did not stop")
	}
}
