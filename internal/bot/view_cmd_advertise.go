package bot

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/0x0BSoD/am5tv/internal/botkit"
	"github.com/0x0BSoD/am5tv/internal/botkit/markup"
	"github.com/0x0BSoD/am5tv/internal/home"
	"github.com/0x0BSoD/am5tv/internal/model"
)

type AdStorage interface {
	AppendAd(ctx context.Context, ad model.AdRecord) error
	AdsFor(ctx context.Context, sel model.Selection) ([]model.AdRecord, error)
}

// ViewCmdAdvertise stores an ad submission for this chat. The ad shows up on
// the home view of matching selections.
func ViewCmdAdvertise(chats ChatResolver) botkit.ViewFunc {
	const usage = "Usage: /advertise " +
		`{"name":"...","email":"...","contactNumber":"...","adType":"banner","description":"...","media":"https://...","scope":"india","state":"Telangana","district":"Warangal"}`

	return WithChat(chats, func(ctx context.Context, bot *tgbotapi.BotAPI, update tgbotapi.Update, chat *Chat) error {
		sub, err := botkit.ParseJSON[model.AdSubmission](update.Message.CommandArguments())
		if err != nil {
			return reply(bot, chat.ID, usage)
		}

		if err := sub.Validate(); err != nil {
			return failure(ctx, bot, chat, "submit the ad", err)
		}

		if sub.State != "" || sub.District != "" {
			sel, err := home.Normalize(model.Selection{Scope: sub.Scope, State: sub.State, District: sub.District})
			if err != nil {
				return reply(bot, chat.ID, "Invalid ad location: "+err.Error())
			}
			sub.State, sub.District = sel.State, sel.District
		}

		ad := sub.Record(uuid.NewString(), time.Now().UTC())
		if err := storeAd(ctx, chat.Session, ad); err != nil {
			return err
		}

		var (
			msgText = fmt.Sprintf(
				"Ad submitted with ID: `%s`\\. It is shown to %s viewers\\.",
				ad.ID,
				markup.EscapeForMarkdown(adAudience(ad)),
			)
			msg = tgbotapi.NewMessage(chat.ID, msgText)
		)

		msg.ParseMode = parseModeMarkdownV2

		if _, err := bot.Send(msg); err != nil {
			return err
		}

		return nil
	})
}

func storeAd(ctx context.Context, storage AdStorage, ad model.AdRecord) error {
	if err := storage.AppendAd(ctx, ad); err != nil {
		return fmt.Errorf("store ad %s: %w", ad.ID, err)
	}
	return nil
}

func adAudience(ad model.AdRecord) string {
	if ad.Scope != model.ScopeIndia {
		return "global"
	}
	parts := []string{"India"}
	if ad.State != "" {
		parts = append([]string{ad.State}, parts...)
	}
	if ad.District != "" {
		parts = append([]string{ad.District}, parts...)
	}
	return strings.Join(parts, ", ")
}

// ViewCmdAds lists the ads shown for the chat's current selection.
func ViewCmdAds(chats ChatResolver) botkit.ViewFunc {
	return WithChat(chats, func(ctx context.Context, bot *tgbotapi.BotAPI, _ tgbotapi.Update, chat *Chat) error {
		return listAds(ctx, bot, chat.ID, chat.Session, chat.Home.Selection())
	})
}

func listAds(ctx context.Context, bot *tgbotapi.BotAPI, chatID int64, storage AdStorage, sel model.Selection) error {
	ads, err := storage.AdsFor(ctx, sel)
	if err != nil {
		log.Printf("[ERROR] failed to read ads of chat %d: %v", chatID, err)
	}

	var sb strings.Builder
	sb.WriteString(markup.Bold("ADS") + "\n")
	sb.WriteString(markup.EscapeForMarkdown(selectionLine(sel)) + "\n\n")
	for _, ad := range lo.Subset(ads, 0, maxListed) {
		sb.WriteString(adLine(ad) + "\n")
	}
	if hidden := len(ads) - maxListed; hidden > 0 {
		sb.WriteString(moreLine(hidden, "") + "\n")
	}

	return replyMarkdown(bot, chatID, sb.String())
}
