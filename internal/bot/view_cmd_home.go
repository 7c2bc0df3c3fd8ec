package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/samber/lo"

	"github.com/0x0BSoD/am5tv/internal/botkit"
	"github.com/0x0BSoD/am5tv/internal/botkit/markup"
	"github.com/0x0BSoD/am5tv/internal/home"
	"github.com/0x0BSoD/am5tv/internal/locale"
	"github.com/0x0BSoD/am5tv/internal/model"
)

const helpText = `Welcome to AM5TV, regional video and news.

Browse
/home - videos, ads and stories for your selection
/scope india|global - choose where news comes from
/state <name> - narrow India to a state
/district <name> - narrow a state to a district
/category <id> - filter by topic, see /categories
/news [all|video|image] - latest videos and image news
/video <id>, /image <id> - open an item
/search <text>, /suggest <text>
/summary video|image <id> - short AI summary

Interact
/comments <id>, /comment <id> <text>
/like [image] <id>, /share [image] <id>, /report <id> <reason>

Account
/login <email> <password>, /register {json}, /verify <email> <otp>
/me, /logout, /upload {json} as a reply to a video or photo
/advertise {json}, /ads

Admins
/adminlogin <email> <password>, /pending, /approve, /reject, /delete
/users [text], /toggleuser <id>, /deleteuser <id>, /reports, /deletereport <id>`

func ViewCmdStart(chats ChatResolver) botkit.ViewFunc {
	return WithChat(chats, func(ctx context.Context, bot *tgbotapi.BotAPI, update tgbotapi.Update, chat *Chat) error {
		if err := reply(bot, chat.ID, helpText); err != nil {
			return err
		}
		return showHome(bot, chat, chat.Home.Reload(ctx))
	})
}

func ViewCmdHome(chats ChatResolver) botkit.ViewFunc {
	return WithChat(chats, func(ctx context.Context, bot *tgbotapi.BotAPI, _ tgbotapi.Update, chat *Chat) error {
		return showHome(bot, chat, chat.Home.Reload(ctx))
	})
}

// showHome renders what the view holds. A failed load keeps the previous
// content on screen with a notice.
func showHome(bot *tgbotapi.BotAPI, chat *Chat, loadErr error) error {
	text := renderHome(chat.Home.Snapshot(), chat.Home.Rotator())
	if loadErr != nil {
		text += "\n" + markup.Italic("⚠️ Some content could not be loaded. Showing what we have.")
	}

	if err := replyMarkdown(bot, chat.ID, text); err != nil {
		return err
	}

	if loadErr != nil {
		return botkit.Answered(fmt.Errorf("load home: %w", loadErr))
	}
	return nil
}

// selectionProblem answers invalid selection input. It reports false for
// errors that are not about the selection.
func selectionProblem(bot *tgbotapi.BotAPI, chat *Chat, err error) (bool, error) {
	sel := chat.Home.Selection()

	switch {
	case errors.Is(err, home.ErrUnknownScope):
		return true, reply(bot, chat.ID, "Usage: /scope india|global")
	case errors.Is(err, home.ErrStateOutsideIn):
		return true, reply(bot, chat.ID, "States are only available for India. Use /scope india first.")
	case errors.Is(err, home.ErrUnknownState):
		return true, reply(bot, chat.ID, "Known states: "+strings.Join(locale.States(), ", "))
	case errors.Is(err, home.ErrNoState):
		return true, reply(bot, chat.ID, "Choose a state with /state first.")
	case errors.Is(err, home.ErrUnknownDistrict):
		return true, reply(bot, chat.ID, fmt.Sprintf("Districts of %s: %s", sel.State, strings.Join(locale.Districts(sel.State), ", ")))
	case errors.Is(err, home.ErrUnknownCategory):
		return true, reply(bot, chat.ID, "Unknown category. See /categories.")
	}

	return false, nil
}

func selectionView(change func(ctx context.Context, chat *Chat, arg string) error, usage string) ChatViewFunc {
	return func(ctx context.Context, bot *tgbotapi.BotAPI, update tgbotapi.Update, chat *Chat) error {
		arg := strings.TrimSpace(update.Message.CommandArguments())
		if arg == "" {
			return reply(bot, chat.ID, usage)
		}

		err := change(ctx, chat, arg)
		if handled, replyErr := selectionProblem(bot, chat, err); handled {
			return replyErr
		}
		return showHome(bot, chat, err)
	}
}

func ViewCmdScope(chats ChatResolver) botkit.ViewFunc {
	return WithChat(chats, selectionView(func(ctx context.Context, chat *Chat, arg string) error {
		return chat.Home.SetScope(ctx, model.Scope(strings.ToLower(arg)))
	}, "Usage: /scope india|global"))
}

func ViewCmdState(chats ChatResolver) botkit.ViewFunc {
	return WithChat(chats, selectionView(func(ctx context.Context, chat *Chat, arg string) error {
		return chat.Home.SetState(ctx, arg)
	}, "Usage: /state <name>. Known states: "+strings.Join(locale.States(), ", ")))
}

func ViewCmdDistrict(chats ChatResolver) botkit.ViewFunc {
	return WithChat(chats, selectionView(func(ctx context.Context, chat *Chat, arg string) error {
		return chat.Home.SetDistrict(ctx, arg)
	}, "Usage: /district <name>"))
}

func ViewCmdCategory(chats ChatResolver) botkit.ViewFunc {
	return WithChat(chats, selectionView(func(ctx context.Context, chat *Chat, arg string) error {
		return chat.Home.SetCategory(ctx, arg)
	}, "Usage: /category <id>. See /categories."))
}

func ViewCmdCategories() botkit.ViewFunc {
	line := func(cats []locale.Category) string {
		return strings.Join(lo.Map(cats, func(c locale.Category, _ int) string {
			return fmt.Sprintf("%s (%s)", c.Label, c.ID)
		}), "\n")
	}

	text := "Categories:\n" + line(locale.VisibleCategories()) + "\n\nMore:\n" + line(locale.MoreCategories())

	return func(_ context.Context, bot *tgbotapi.BotAPI, update tgbotapi.Update) error {
		return reply(bot, update.Message.Chat.ID, text)
	}
}
