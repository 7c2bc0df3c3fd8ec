package middleware

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/0x0BSoD/am5tv/internal/bot"
	"github.com/0x0BSoD/am5tv/internal/botkit"
)

// AdminsOnly runs next only for chats holding an admin session.
func AdminsOnly(chats bot.ChatResolver, next botkit.ViewFunc) botkit.ViewFunc {
	return guard(chats, next, func(chat *bot.Chat) bool {
		return chat.Session.IsAdmin()
	}, "This command is for admins. Sign in with /adminlogin.")
}

// LoggedIn runs next only for chats holding a user or admin session.
func LoggedIn(chats bot.ChatResolver, next botkit.ViewFunc) botkit.ViewFunc {
	return guard(chats, next, func(chat *bot.Chat) bool {
		return chat.Session.LoggedIn()
	}, "Please /login first.")
}

func guard(chats bot.ChatResolver, next botkit.ViewFunc, allowed func(*bot.Chat) bool, denied string) botkit.ViewFunc {
	return func(ctx context.Context, api *tgbotapi.BotAPI, update tgbotapi.Update) error {
		chat, err := chats.Resolve(ctx, update.Message.Chat.ID)
		if err != nil {
			return err
		}

		if !allowed(chat) {
			_, err := api.Send(tgbotapi.NewMessage(update.Message.Chat.ID, denied))
			return err
		}

		return next(ctx, api, update)
	}
}
