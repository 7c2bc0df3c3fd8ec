package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/samber/lo"

	"github.com/0x0BSoD/am5tv/internal/botkit"
	"github.com/0x0BSoD/am5tv/internal/botkit/markup"
	"github.com/0x0BSoD/am5tv/internal/home"
	"github.com/0x0BSoD/am5tv/internal/model"
	"github.com/0x0BSoD/am5tv/internal/summary"
)

func ViewCmdNews(chats ChatResolver) botkit.ViewFunc {
	return WithChat(chats, func(ctx context.Context, bot *tgbotapi.BotAPI, update tgbotapi.Update, chat *Chat) error {
		newsType, err := home.ParseNewsType(update.Message.CommandArguments())
		if err != nil {
			return reply(bot, chat.ID, "Usage: /news [all|video|image]")
		}

		sel := chat.Home.Selection()
		items, err := chat.Home.LoadNews(ctx, home.NewsFilter{
			Scope:    sel.Scope,
			Category: sel.Category,
			Type:     newsType,
		})
		if err != nil {
			return failure(ctx, bot, chat, "load the news", err)
		}

		title := "LATEST NEWS"
		if newsType != home.NewsAll {
			title = "LATEST " + strings.ToUpper(string(newsType)) + " NEWS"
		}

		return replyMarkdown(bot, chat.ID, renderItems(title, items, chat.Home.Rotator()))
	})
}

func ViewCmdVideo(chats ChatResolver) botkit.ViewFunc {
	return WithChat(chats, func(ctx context.Context, bot *tgbotapi.BotAPI, update tgbotapi.Update, chat *Chat) error {
		id, err := botkit.SplitArgs(update.Message.CommandArguments()).Int64(0)
		if err != nil {
			return reply(bot, chat.ID, "Usage: /video <id>")
		}

		item, err := chat.API.Video(ctx, id)
		if err != nil {
			return failure(ctx, bot, chat, "load the video", err)
		}

		countView(ctx, chat, item)
		return replyMarkdown(bot, chat.ID, renderItem(item))
	})
}

func ViewCmdImage(chats ChatResolver) botkit.ViewFunc {
	return WithChat(chats, func(ctx context.Context, bot *tgbotapi.BotAPI, update tgbotapi.Update, chat *Chat) error {
		id, err := botkit.SplitArgs(update.Message.CommandArguments()).Int64(0)
		if err != nil {
			return reply(bot, chat.ID, "Usage: /image <id>")
		}

		item, err := chat.API.ImageNews(ctx, id)
		if err != nil {
			return failure(ctx, bot, chat, "load the news report", err)
		}

		countView(ctx, chat, item)

		image := chat.Home.Rotator().Current(item)
		if image == "" {
			image = item.ThumbnailURL
		}
		if image != "" {
			photo := tgbotapi.NewPhoto(chat.ID, tgbotapi.FileURL(image))
			photo.Caption = fmt.Sprintf("%s (%d images)", item.Title, len(item.ImageURLs))
			if _, err := bot.Send(photo); err != nil {
				log.Printf("[ERROR] failed to send image of news %d: %v", item.ID, err)
			}
		}

		return replyMarkdown(bot, chat.ID, renderItem(item))
	})
}

func countView(ctx context.Context, chat *Chat, item model.ContentItem) {
	if err := chat.API.View(ctx, item.Kind, item.ID); err != nil {
		log.Printf("[ERROR] failed to count view of %s %d: %v", item.Kind, item.ID, err)
	}
}

func ViewCmdSearch(chats ChatResolver) botkit.ViewFunc {
	return WithChat(chats, func(ctx context.Context, bot *tgbotapi.BotAPI, update tgbotapi.Update, chat *Chat) error {
		query := strings.TrimSpace(update.Message.CommandArguments())
		if query == "" {
			return reply(bot, chat.ID, "Usage: /search <text>")
		}

		items, err := chat.API.Search(ctx, query)
		if err != nil {
			return failure(ctx, bot, chat, "search", err)
		}

		return replyMarkdown(bot, chat.ID, renderItems("RESULTS FOR "+strings.ToUpper(markup.Truncate(query, fieldLen)), items, nil))
	})
}

func ViewCmdSuggest(chats ChatResolver) botkit.ViewFunc {
	return WithChat(chats, func(ctx context.Context, bot *tgbotapi.BotAPI, update tgbotapi.Update, chat *Chat) error {
		query := strings.TrimSpace(update.Message.CommandArguments())
		if query == "" {
			return reply(bot, chat.ID, "Usage: /suggest <text>")
		}

		suggestions, err := chat.API.Suggestions(ctx, query)
		if err != nil {
			return failure(ctx, bot, chat, "load suggestions", err)
		}
		if len(suggestions) == 0 {
			return reply(bot, chat.ID, "No suggestions.")
		}

		suggestions = lo.Map(lo.Subset(suggestions, 0, maxListed), func(s string, _ int) string {
			return markup.Truncate(s, fieldLen)
		})
		return reply(bot, chat.ID, "Did you mean:\n"+strings.Join(suggestions, "\n"))
	})
}

type ItemSummarizer interface {
	Summarize(ctx context.Context, item model.ContentItem) (string, error)
}

// ViewCmdSummary answers with an AI summary of an item. A nil summarizer
// disables the command.
func ViewCmdSummary(chats ChatResolver, summarizer ItemSummarizer) botkit.ViewFunc {
	return WithChat(chats, func(ctx context.Context, bot *tgbotapi.BotAPI, update tgbotapi.Update, chat *Chat) error {
		if summarizer == nil {
			return reply(bot, chat.ID, "Summaries are not enabled.")
		}

		kind, id, _, err := parseKindID(botkit.SplitArgs(update.Message.CommandArguments()), 0)
		if err != nil {
			return reply(bot, chat.ID, "Usage: /summary video|image <id>")
		}

		item, err := chat.API.Item(ctx, kind, id)
		if err != nil {
			return failure(ctx, bot, chat, "load the "+kindLabel(kind), err)
		}

		text, err := summarizer.Summarize(ctx, item)
		if errors.Is(err, summary.ErrNothingToSummarize) {
			return reply(bot, chat.ID, "This "+kindLabel(kind)+" has no description to summarize.")
		}
		if err != nil {
			return failure(ctx, bot, chat, "summarize the "+kindLabel(kind), err)
		}

		return replyMarkdown(bot, chat.ID, markup.Bold(markup.Truncate(item.Title, titleLen*2))+"\n\n"+markup.EscapeForMarkdown(markup.Truncate(text, bodyLen)))
	})
}
