package middleware

import (
	"context"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0x0BSoD/am5tv/internal/bot"
	"github.com/0x0BSoD/am5tv/internal/botkit/telegramtest"
	"github.com/0x0BSoD/am5tv/internal/model"
	"github.com/0x0BSoD/am5tv/internal/session"
)

type staticChats struct {
	chat *bot.Chat
}

func (s staticChats) Resolve(context.Context, int64) (*bot.Chat, error) {
	return s.chat, nil
}

func newChat() *bot.Chat {
	return &bot.Chat{ID: 1, Session: session.NewContext(session.NewMemoryStore(), "chat:1")}
}

func TestAdminsOnly(t *testing.T) {
	srv, api := telegramtest.New(t)
	chat := newChat()

	var called int
	view := AdminsOnly(staticChats{chat}, func(context.Context, *tgbotapi.BotAPI, tgbotapi.Update) error {
		called++
		return nil
	})

	update := telegramtest.Command(1, "pending", "")

	require.NoError(t, view(context.Background(), api, update))
	assert.Zero(t, called)
	assert.Contains(t, srv.LastText(), "/adminlogin")

	require.NoError(t, chat.Session.Set(context.Background(), model.Session{Role: model.RoleUser, Token: "u"}))
	require.NoError(t, view(context.Background(), api, update))
	assert.Zero(t, called)

	require.NoError(t, chat.Session.Set(context.Background(), model.Session{Role: model.RoleAdmin, Token: "a"}))
	require.NoError(t, view(context.Background(), api, update))
	assert.Equal(t, 1, called)
}

func TestLoggedIn(t *testing.T) {
	srv, api := telegramtest.New(t)
	chat := newChat()

	var called int
	view := LoggedIn(staticChats{chat}, func(context.Context, *tgbotapi.BotAPI, tgbotapi.Update) error {
		called++
		return nil
	})

	update := telegramtest.Command(1, "me", "")

	require.NoError(t, view(context.Background(), api, update))
	assert.Zero(t, called)
	assert.Equal(t, "Please /login first.", srv.LastText())

	require.NoError(t, chat.Session.Set(context.Background(), model.Session{Role: model.RoleAdmin, Token: "a"}))
	require.NoError(t, view(context.Background(), api, update))
	assert.Equal(t, 1, called)
}
