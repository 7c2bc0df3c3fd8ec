package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/samber/lo"

	"github.com/0x0BSoD/am5tv/internal/botkit"
	"github.com/0x0BSoD/am5tv/internal/botkit/markup"
	"github.com/0x0BSoD/am5tv/internal/model"
)

func ViewCmdPending(chats ChatResolver) botkit.ViewFunc {
	return WithChat(chats, func(ctx context.Context, bot *tgbotapi.BotAPI, _ tgbotapi.Update, chat *Chat) error {
		videos, err := chat.API.PendingVideos(ctx)
		if err != nil {
			return failure(ctx, bot, chat, "load pending videos", err)
		}
		images, err := chat.API.PendingImageNews(ctx)
		if err != nil {
			return failure(ctx, bot, chat, "load pending image news", err)
		}

		if err := replyMarkdown(bot, chat.ID, renderItems(fmt.Sprintf("PENDING VIDEOS (%d)", len(videos)), videos, nil)); err != nil {
			return err
		}
		return replyMarkdown(bot, chat.ID, renderItems(fmt.Sprintf("PENDING IMAGE NEWS (%d)", len(images)), images, nil))
	})
}

func ViewCmdApprove(chats ChatResolver) botkit.ViewFunc {
	return WithChat(chats, func(ctx context.Context, bot *tgbotapi.BotAPI, update tgbotapi.Update, chat *Chat) error {
		kind, id, _, err := parseKindID(botkit.SplitArgs(update.Message.CommandArguments()), 0)
		if err != nil {
			return reply(bot, chat.ID, "Usage: /approve [video|image] <id>")
		}

		if err := chat.API.Approve(ctx, kind, id); err != nil {
			return failure(ctx, bot, chat, "approve the "+kindLabel(kind), err)
		}
		return reply(bot, chat.ID, fmt.Sprintf("Approved %s %d.", kindLabel(kind), id))
	})
}

func ViewCmdReject(chats ChatResolver) botkit.ViewFunc {
	return WithChat(chats, func(ctx context.Context, bot *tgbotapi.BotAPI, update tgbotapi.Update, chat *Chat) error {
		args := botkit.SplitArgs(update.Message.CommandArguments())
		kind, id, next, err := parseKindID(args, 0)
		reason := args.Rest(next)
		if err != nil || reason == "" {
			return reply(bot, chat.ID, "Usage: /reject [video|image] <id> <reason>")
		}

		if err := chat.API.Reject(ctx, kind, id, reason); err != nil {
			return failure(ctx, bot, chat, "reject the "+kindLabel(kind), err)
		}
		return reply(bot, chat.ID, fmt.Sprintf("Rejected %s %d.", kindLabel(kind), id))
	})
}

func ViewCmdDelete(chats ChatResolver) botkit.ViewFunc {
	return idCommand(chats, "Usage: /delete <video id>", "delete the video",
		func(ctx context.Context, chat *Chat, id int64) error { return chat.API.DeleteVideo(ctx, id) },
		"Deleted video %d.")
}

func ViewCmdToggleUser(chats ChatResolver) botkit.ViewFunc {
	return idCommand(chats, "Usage: /toggleuser <user id>", "change the user status",
		func(ctx context.Context, chat *Chat, id int64) error { return chat.API.ToggleUserStatus(ctx, id) },
		"Toggled the status of user %d.")
}

func ViewCmdDeleteUser(chats ChatResolver) botkit.ViewFunc {
	return idCommand(chats, "Usage: /deleteuser <user id>", "delete the user",
		func(ctx context.Context, chat *Chat, id int64) error { return chat.API.DeleteUser(ctx, id) },
		"Deleted user %d.")
}

func ViewCmdDeleteReport(chats ChatResolver) botkit.ViewFunc {
	return idCommand(chats, "Usage: /deletereport <report id>", "delete the report",
		func(ctx context.Context, chat *Chat, id int64) error { return chat.API.DeleteReport(ctx, id) },
		"Deleted report %d.")
}

func idCommand(
	chats ChatResolver,
	usage, what string,
	action func(ctx context.Context, chat *Chat, id int64) error,
	doneFormat string,
) botkit.ViewFunc {
	return WithChat(chats, func(ctx context.Context, bot *tgbotapi.BotAPI, update tgbotapi.Update, chat *Chat) error {
		id, err := botkit.SplitArgs(update.Message.CommandArguments()).Int64(0)
		if err != nil {
			return reply(bot, chat.ID, usage)
		}

		if err := action(ctx, chat, id); err != nil {
			return failure(ctx, bot, chat, what, err)
		}
		return reply(bot, chat.ID, fmt.Sprintf(doneFormat, id))
	})
}

func ViewCmdUsers(chats ChatResolver) botkit.ViewFunc {
	return WithChat(chats, func(ctx context.Context, bot *tgbotapi.BotAPI, update tgbotapi.Update, chat *Chat) error {
		var (
			users []model.User
			err   error
		)
		if query := strings.TrimSpace(update.Message.CommandArguments()); query != "" {
			users, err = chat.API.SearchUsers(ctx, query)
		} else {
			users, err = chat.API.Users(ctx)
		}
		if err != nil {
			return failure(ctx, bot, chat, "load users", err)
		}
		if len(users) == 0 {
			return reply(bot, chat.ID, "No users found.")
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "Users (%d):\n", len(users))
		for _, u := range lo.Subset(users, 0, maxListed) {
			status := "active"
			if u.Active != nil && !*u.Active {
				status = "disabled"
			}
			fmt.Fprintf(&sb, "\n#%d %s <%s> %s", u.ID, markup.Truncate(u.Username, fieldLen), markup.Truncate(u.Email, fieldLen), status)
			if u.IsAdmin() {
				sb.WriteString(" admin")
			}
		}
		writeHidden(&sb, len(users))

		return reply(bot, chat.ID, sb.String())
	})
}

func ViewCmdReports(chats ChatResolver) botkit.ViewFunc {
	return WithChat(chats, func(ctx context.Context, bot *tgbotapi.BotAPI, _ tgbotapi.Update, chat *Chat) error {
		reports, err := chat.API.Reports(ctx)
		if err != nil {
			return failure(ctx, bot, chat, "load reports", err)
		}
		if len(reports) == 0 {
			return reply(bot, chat.ID, "No open reports.")
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "Reports (%d):\n", len(reports))
		for _, r := range lo.Subset(reports, 0, maxListed) {
			fmt.Fprintf(&sb, "\n#%d video %d by %s: %s",
				r.ID, r.VideoID, markup.Truncate(r.Reporter, fieldLen), markup.Truncate(r.Reason, reasonLen))
		}
		writeHidden(&sb, len(reports))

		return reply(bot, chat.ID, sb.String())
	})
}
