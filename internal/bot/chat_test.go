package bot

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChats_SweptViewDropsSession(t *testing.T) {
	h := newHarness(t)

	first := h.chat()
	require.Equal(t, 1, h.chats.sessions.Len())

	assert.Equal(t, 1, h.chats.views.Sweep(time.Now().Add(2*time.Hour)))
	assert.Equal(t, 0, h.chats.sessions.Len())

	again, err := h.chats.Resolve(context.Background(), testChat)
	require.NoError(t, err)
	assert.NotSame(t, first.Session, again.Session)
	assert.NotSame(t, first.Home, again.Home)
}
