package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/samber/lo"

	"github.com/0x0BSoD/am5tv/internal/botkit"
	"github.com/0x0BSoD/am5tv/internal/botkit/markup"
)

func ViewCmdComments(chats ChatResolver) botkit.ViewFunc {
	return WithChat(chats, func(ctx context.Context, bot *tgbotapi.BotAPI, update tgbotapi.Update, chat *Chat) error {
		id, err := botkit.SplitArgs(update.Message.CommandArguments()).Int64(0)
		if err != nil {
			return reply(bot, chat.ID, "Usage: /comments <video id>")
		}

		comments, err := chat.API.Comments(ctx, id)
		if err != nil {
			return failure(ctx, bot, chat, "load comments", err)
		}
		if len(comments) == 0 {
			return reply(bot, chat.ID, "No comments yet. Be the first with /comment.")
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "Comments on video %d (%d):\n", id, len(comments))
		for _, c := range lo.Subset(comments, 0, maxListed) {
			fmt.Fprintf(&sb, "\n%s: %s", markup.Truncate(c.Author, fieldLen), markup.Truncate(c.Text, reasonLen))
		}
		writeHidden(&sb, len(comments))
		return reply(bot, chat.ID, sb.String())
	})
}

func ViewCmdComment(chats ChatResolver) botkit.ViewFunc {
	return WithChat(chats, func(ctx context.Context, bot *tgbotapi.BotAPI, update tgbotapi.Update, chat *Chat) error {
		args := botkit.SplitArgs(update.Message.CommandArguments())
		id, err := args.Int64(0)
		text := args.Rest(1)
		if err != nil || text == "" {
			return reply(bot, chat.ID, "Usage: /comment <video id> <text>")
		}

		if err := chat.API.AddComment(ctx, id, text); err != nil {
			return failure(ctx, bot, chat, "post your comment", err)
		}
		return reply(bot, chat.ID, "Comment posted.")
	})
}

func ViewCmdLike(chats ChatResolver) botkit.ViewFunc {
	return WithChat(chats, func(ctx context.Context, bot *tgbotapi.BotAPI, update tgbotapi.Update, chat *Chat) error {
		kind, id, _, err := parseKindID(botkit.SplitArgs(update.Message.CommandArguments()), 0)
		if err != nil {
			return reply(bot, chat.ID, "Usage: /like [image] <id>")
		}

		if err := chat.API.Like(ctx, kind, id); err != nil {
			return failure(ctx, bot, chat, "like the "+kindLabel(kind), err)
		}
		return reply(bot, chat.ID, "❤️ Liked.")
	})
}

func ViewCmdShare(chats ChatResolver) botkit.ViewFunc {
	return WithChat(chats, func(ctx context.Context, bot *tgbotapi.BotAPI, update tgbotapi.Update, chat *Chat) error {
		kind, id, _, err := parseKindID(botkit.SplitArgs(update.Message.CommandArguments()), 0)
		if err != nil {
			return reply(bot, chat.ID, "Usage: /share [image] <id>")
		}

		item, err := chat.API.Item(ctx, kind, id)
		if err != nil {
			return failure(ctx, bot, chat, "load the "+kindLabel(kind), err)
		}
		if err := chat.API.Share(ctx, kind, id); err != nil {
			return failure(ctx, bot, chat, "share the "+kindLabel(kind), err)
		}

		link := item.StreamURL
		if link == "" {
			link = item.ThumbnailURL
		}
		return reply(bot, chat.ID, fmt.Sprintf("Share this %s: %s\n%s", kindLabel(kind), item.Title, link))
	})
}

func ViewCmdReport(chats ChatResolver) botkit.ViewFunc {
	return WithChat(chats, func(ctx context.Context, bot *tgbotapi.BotAPI, update tgbotapi.Update, chat *Chat) error {
		args := botkit.SplitArgs(update.Message.CommandArguments())
		id, err := args.Int64(0)
		reason := args.Rest(1)
		if err != nil || reason == "" {
			return reply(bot, chat.ID, "Usage: /report <video id> <reason>")
		}

		if err := chat.API.ReportVideo(ctx, id, reason); err != nil {
			return failure(ctx, bot, chat, "report the video", err)
		}
		return reply(bot, chat.ID, "Thanks, the video was reported to the moderators.")
	})
}
