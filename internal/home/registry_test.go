package home

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0x0BSoD/am5tv/internal/session"
)

func TestRegistry_ViewPerChat(t *testing.T) {
	r := NewRegistry(&stubFetcher{}, 25, time.Hour, time.Hour)
	ads := session.NewContext(session.NewMemoryStore(), "chat:1")

	a := r.View(1, ads)
	assert.Same(t, a, r.View(1, ads))
	assert.NotSame(t, a, r.View(2, ads))
	assert.Equal(t, 2, r.Len())

	r.Close(1)
	r.Close(1)
	assert.Equal(t, 1, r.Len())
	assert.NotSame(t, a, r.View(1, ads))
}

func TestRegistry_Sweep(t *testing.T) {
	r := NewRegistry(&stubFetcher{}, 25, time.Hour, time.Minute)
	ads := session.NewContext(session.NewMemoryStore(), "chat:1")

	r.View(1, ads)
	r.View(2, ads)

	assert.Equal(t, 0, r.Sweep(time.Now()))
	assert.Equal(t, 2, r.Sweep(time.Now().Add(2*time.Minute)))
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_OnCloseSeesClosedAndSweptViews(t *testing.T) {
	r := NewRegistry(&stubFetcher{}, 25, time.Hour, time.Minute)
	ads := session.NewContext(session.NewMemoryStore(), "chat:1")

	var closed []int64
	r.OnClose(func(chatID int64) { closed = append(closed, chatID) })

	r.View(1, ads)
	r.View(2, ads)

	r.Close(1)
	r.Close(1)
	assert.Equal(t, []int64{1}, closed)

	r.Sweep(time.Now().Add(2 * time.Minute))
	assert.Equal(t, []int64{1, 2}, closed)
}

func TestRegistry_StartClosesOnCancel(t *testing.T) {
	r := NewRegistry(&stubFetcher{}, 25, time.Hour, time.Hour)
	r.View(1, session.NewContext(session.NewMemoryStore(), "chat:1"))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Start(ctx) }()

	cancel()

	select {
	case err := <-done:
		require.True(t, errors.Is(err, context.Canceled))
	case <-time.After(time.Second):
		t.Fatal("registry did not stop")
	}
	assert.Equal(t, 0, r.Len())
}
