// Package bot holds the Telegram command views of am5tv. Every chat is one
// view: its own selection, session and locally submitted ads.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/0x0BSoD/am5tv/internal/api"
	"github.com/0x0BSoD/am5tv/internal/botkit"
	"github.com/0x0BSoD/am5tv/internal/home"
	"github.com/0x0BSoD/am5tv/internal/model"
	"github.com/0x0BSoD/am5tv/internal/session"
)

const parseModeMarkdownV2 = "MarkdownV2"

// Chat is everything a view needs to serve one Telegram chat.
type Chat struct {
	ID      int64
	Session *session.Context
	Home    *home.View
	API     *api.Client
}

type ChatResolver interface {
	Resolve(ctx context.Context, chatID int64) (*Chat, error)
}

type Chats struct {
	sessions *session.Manager
	views    *home.Registry
	client   *api.Client
}

// NewChats ties the session of a chat to its view: when the registry closes
// an idle view, the loaded session is dropped with it.
func NewChats(sessions *session.Manager, views *home.Registry, client *api.Client) *Chats {
	views.OnClose(func(chatID int64) {
		sessions.Forget(session.ChatNamespace(chatID))
	})
	return &Chats{sessions: sessions, views: views, client: client}
}

func (c *Chats) Resolve(ctx context.Context, chatID int64) (*Chat, error) {
	sess, err := c.sessions.For(ctx, session.ChatNamespace(chatID))
	if err != nil {
		return nil, fmt.Errorf("load session of chat %d: %w", chatID, err)
	}

	return &Chat{
		ID:      chatID,
		Session: sess,
		Home:    c.views.View(chatID, sess),
		API:     c.client.WithTokens(sess),
	}, nil
}

type ChatViewFunc func(ctx context.Context, bot *tgbotapi.BotAPI, update tgbotapi.Update, chat *Chat) error

// WithChat resolves the chat of the update before running view.
func WithChat(chats ChatResolver, view ChatViewFunc) botkit.ViewFunc {
	return func(ctx context.Context, bot *tgbotapi.BotAPI, update tgbotapi.Update) error {
		chat, err := chats.Resolve(ctx, update.Message.Chat.ID)
		if err != nil {
			return err
		}
		return view(ctx, bot, update, chat)
	}
}

func reply(bot *tgbotapi.BotAPI, chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.DisableWebPagePreview = true

	_, err := bot.Send(msg)
	return err
}

func replyMarkdown(bot *tgbotapi.BotAPI, chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = parseModeMarkdownV2
	msg.DisableWebPagePreview = true

	_, err := bot.Send(msg)
	return err
}

// failure answers the user for err and decides what the bot still has to
// log. Validation problems and missing logins are fully handled here.
func failure(ctx context.Context, bot *tgbotapi.BotAPI, chat *Chat, what string, err error) error {
	var invalid *model.ValidationError

	switch {
	case errors.As(err, &invalid):
		return reply(bot, chat.ID, "Please fix the following:\n• "+strings.Join(invalid.Problems, "\n• "))

	case errors.Is(err, api.ErrNotAuthenticated):
		return reply(bot, chat.ID, "Please /login first.")

	case api.IsAuthorization(err) && chat.Session.IsAdmin():
		if clearErr := chat.Session.Clear(ctx, model.RoleAdmin); clearErr != nil {
			log.Printf("[ERROR] failed to clear admin session of chat %d: %v", chat.ID, clearErr)
		}
		_ = reply(bot, chat.ID, "Your admin session is no longer valid. Please sign in again with /adminlogin.")
		return botkit.Answered(fmt.Errorf("%s: %w", what, err))

	case api.IsAuthorization(err):
		_ = reply(bot, chat.ID, "You are not allowed to do that. Your session may have expired, please /login again.")
		return botkit.Answered(fmt.Errorf("%s: %w", what, err))

	case api.IsNotFound(err):
		return reply(bot, chat.ID, "Nothing found with that id.")
	}

	_ = reply(bot, chat.ID, fmt.Sprintf("Could not %s. Please try again later.", what))
	return botkit.Answered(fmt.Errorf("%s: %w", what, err))
}

// parseKindID reads "[video|image] <id>" from args starting at i. The kind
// defaults to video.
func parseKindID(args botkit.Args, i int) (model.Kind, int64, int, error) {
	kind := model.KindVideo
	switch strings.ToLower(args.String(i)) {
	case "video", "videos":
		i++
	case "image", "images", "news":
		kind = model.KindImageNews
		i++
	}

	id, err := args.Int64(i)
	if err != nil {
		return "", 0, 0, err
	}
	return kind, id, i + 1, nil
}

func kindLabel(kind model.Kind) string {
	if kind == model.KindImageNews {
		return "image news"
	}
	return "video"
}
