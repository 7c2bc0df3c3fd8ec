package reporter

import (
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0x0BSoD/am5tv/internal/botkit/telegramtest"
)

func TestReporter_DeduplicatesWithinQuietPeriod(t *testing.T) {
	srv, bot := telegramtest.New(t)
	r := New(bot, 99, time.Minute)

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	r.Failure("/home", errors.New("backend down"))
	r.Failure("/home", errors.New("backend down"))
	r.Failure("/news", errors.New("backend down"))

	now = now.Add(2 * time.Minute)
	r.Failure("/home", errors.New("backend down"))

	sent := srv.Sent()
	require.Len(t, sent, 3)
	assert.Equal(t, "⚠️ /home failed: backend down", sent[0])
	assert.Equal(t, "⚠️ /news failed: backend down", sent[1])

	for _, c := range srv.Calls() {
		if c.Method == "sendMessage" {
			assert.Equal(t, "99", c.Params.Get("chat_id"))
		}
	}
}

func TestReporter_TruncatesLongNotices(t *testing.T) {
	srv, bot := telegramtest.New(t)
	r := New(bot, 99, time.Minute)

	r.Notify(strings.Repeat("x", 5000))

	got := srv.LastText()
	assert.Equal(t, maxNoticeLen, utf8.RuneCountInString(got))
	assert.True(t, strings.HasSuffix(got, "…"))
}

func TestReporter_TruncatesOnRuneBoundary(t *testing.T) {
	srv, bot := telegramtest.New(t)
	r := New(bot, 99, time.Minute)

	r.Failure("/upload", errors.New("a"+strings.Repeat("हिंदी", 400)))

	got := srv.LastText()
	require.NotEmpty(t, got)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, maxNoticeLen, utf8.RuneCountInString(got))
}

func TestReporter_NilSafe(t *testing.T) {
	var r *Reporter
	assert.NotPanics(t, func() { r.Notify("ignored") })

	srv, bot := telegramtest.New(t)
	New(bot, 0, time.Minute).Notify("ignored")
	assert.Empty(t, srv.Sent())
}
