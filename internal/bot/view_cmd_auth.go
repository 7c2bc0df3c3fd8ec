package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/samber/lo"

	"github.com/0x0BSoD/am5tv/internal/api"
	"github.com/0x0BSoD/am5tv/internal/botkit"
	"github.com/0x0BSoD/am5tv/internal/model"
)

func credentialsArgs(update tgbotapi.Update) (email, password string, ok bool) {
	args := botkit.SplitArgs(update.Message.CommandArguments())
	if len(args) != 2 {
		return "", "", false
	}
	return args[0], args[1], true
}

// deleteSecret removes the message carrying a password from the chat.
func deleteSecret(bot *tgbotapi.BotAPI, update tgbotapi.Update) {
	del := tgbotapi.NewDeleteMessage(update.Message.Chat.ID, update.Message.MessageID)
	if _, err := bot.Request(del); err != nil {
		log.Printf("[ERROR] failed to delete credentials message: %v", err)
	}
}

func ViewCmdLogin(chats ChatResolver) botkit.ViewFunc {
	return WithChat(chats, func(ctx context.Context, bot *tgbotapi.BotAPI, update tgbotapi.Update, chat *Chat) error {
		email, password, ok := credentialsArgs(update)
		if !ok {
			return reply(bot, chat.ID, "Usage: /login <email> <password>")
		}
		deleteSecret(bot, update)

		resp, err := chat.API.Login(ctx, email, password)
		if api.IsAuthorization(err) {
			return reply(bot, chat.ID, "Wrong email or password.")
		}
		if err != nil {
			return failure(ctx, bot, chat, "log you in", err)
		}

		if err := chat.Session.Set(ctx, model.Session{Role: model.RoleUser, Token: resp.AccessToken, User: resp.User}); err != nil {
			return err
		}
		return reply(bot, chat.ID, fmt.Sprintf("Welcome, %s!", resp.User.Username))
	})
}

func ViewCmdAdminLogin(chats ChatResolver) botkit.ViewFunc {
	return WithChat(chats, func(ctx context.Context, bot *tgbotapi.BotAPI, update tgbotapi.Update, chat *Chat) error {
		email, password, ok := credentialsArgs(update)
		if !ok {
			return reply(bot, chat.ID, "Usage: /adminlogin <email> <password>")
		}
		deleteSecret(bot, update)

		resp, err := chat.API.LoginAdmin(ctx, email, password)
		switch {
		case errors.Is(err, api.ErrNotAdmin):
			return reply(bot, chat.ID, "This account does not have admin access.")
		case api.IsAuthorization(err):
			return reply(bot, chat.ID, "Wrong email or password.")
		case err != nil:
			return failure(ctx, bot, chat, "log you in", err)
		}

		if err := chat.Session.Set(ctx, model.Session{Role: model.RoleAdmin, Token: resp.AccessToken, User: resp.User}); err != nil {
			return err
		}
		return reply(bot, chat.ID, fmt.Sprintf("Signed in as admin %s. See /pending.", resp.User.Username))
	})
}

func ViewCmdRegister(chats ChatResolver) botkit.ViewFunc {
	const usage = `Usage: /register {"username":"...","email":"...","password":"...","firstName":"...","lastName":"...","contactNumber":"9876543210"}`

	return WithChat(chats, func(ctx context.Context, bot *tgbotapi.BotAPI, update tgbotapi.Update, chat *Chat) error {
		reg, err := botkit.ParseJSON[model.Registration](update.Message.CommandArguments())
		if err != nil {
			return reply(bot, chat.ID, usage)
		}
		deleteSecret(bot, update)

		if err := chat.API.Register(ctx, reg); err != nil {
			return failure(ctx, bot, chat, "register you", err)
		}
		return reply(bot, chat.ID, fmt.Sprintf("We sent a code to %s. Confirm with /verify %s <code>.", reg.Email, reg.Email))
	})
}

func ViewCmdVerify(chats ChatResolver) botkit.ViewFunc {
	return WithChat(chats, func(ctx context.Context, bot *tgbotapi.BotAPI, update tgbotapi.Update, chat *Chat) error {
		args := botkit.SplitArgs(update.Message.CommandArguments())
		if len(args) != 2 {
			return reply(bot, chat.ID, "Usage: /verify <email> <code>")
		}

		resp, ok, err := chat.API.VerifyOTP(ctx, args[0], args[1])
		if err != nil {
			return failure(ctx, bot, chat, "verify the code", err)
		}
		if !ok {
			return reply(bot, chat.ID, "Your account is verified. Please /login.")
		}

		if err := chat.Session.Set(ctx, model.Session{Role: model.RoleUser, Token: resp.AccessToken, User: resp.User}); err != nil {
			return err
		}
		return reply(bot, chat.ID, fmt.Sprintf("Your account is verified. Welcome, %s!", resp.User.Username))
	})
}

func ViewCmdLogout(chats ChatResolver) botkit.ViewFunc {
	return WithChat(chats, func(ctx context.Context, bot *tgbotapi.BotAPI, _ tgbotapi.Update, chat *Chat) error {
		if err := chat.Session.ClearAll(ctx); err != nil {
			return err
		}
		return reply(bot, chat.ID, "You are logged out.")
	})
}

// ViewCmdMe refreshes the stored profile and lists the user's uploads.
func ViewCmdMe(chats ChatResolver) botkit.ViewFunc {
	return WithChat(chats, func(ctx context.Context, bot *tgbotapi.BotAPI, _ tgbotapi.Update, chat *Chat) error {
		user, err := chat.API.Me(ctx)
		if err != nil {
			return failure(ctx, bot, chat, "load your profile", err)
		}
		if err := chat.Session.UpdateUser(ctx, user); err != nil {
			log.Printf("[ERROR] failed to store profile of chat %d: %v", chat.ID, err)
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "%s (%s)\n", user.Username, user.Email)
		if name := strings.TrimSpace(user.FirstName + " " + user.LastName); name != "" {
			fmt.Fprintf(&sb, "%s\n", name)
		}
		if sess, ok := chat.Session.Current(); ok {
			fmt.Fprintf(&sb, "Signed in as %s\n", sess.Role)
		}

		uploads, err := chat.API.UserVideos(ctx, user.ID)
		if err != nil {
			log.Printf("[ERROR] failed to load uploads of user %d: %v", user.ID, err)
			return reply(bot, chat.ID, sb.String())
		}

		byStatus := lo.CountValuesBy(uploads, func(item model.ContentItem) string {
			return strings.ToLower(lo.CoalesceOrEmpty(item.Status, "unknown"))
		})
		fmt.Fprintf(&sb, "\nUploads: %d", len(uploads))
		statuses := lo.Keys(byStatus)
		slices.Sort(statuses)
		for _, status := range statuses {
			fmt.Fprintf(&sb, "\n%s: %d", status, byStatus[status])
		}

		return reply(bot, chat.ID, sb.String())
	})
}
