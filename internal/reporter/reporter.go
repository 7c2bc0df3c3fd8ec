// Package reporter forwards failures to the Telegram admin chat.
package reporter

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/0x0BSoD/am5tv/internal/botkit/markup"
)

const maxNoticeLen = 1000

// Reporter sends short failure notices to a Telegram admin chat. Identical
// notices are sent at most once per quiet period. It is nil-safe: with a
// nil receiver or a zero adminID every call is a no-op.
type Reporter struct {
	bot     *tgbotapi.BotAPI
	adminID int64
	quiet   time.Duration
	now     func() time.Time

	mu   sync.Mutex
	sent map[string]time.Time
}

func New(bot *tgbotapi.BotAPI, adminID int64, quiet time.Duration) *Reporter {
	return &Reporter{
		bot:     bot,
		adminID: adminID,
		quiet:   quiet,
		now:     time.Now,
		sent:    make(map[string]time.Time),
	}
}

func (r *Reporter) Notify(msg string) {
	if r == nil || r.adminID == 0 {
		return
	}
	msg = markup.Truncate(msg, maxNoticeLen)

	if !r.due(msg) {
		return
	}

	if _, err := r.bot.Send(tgbotapi.NewMessage(r.adminID, msg)); err != nil {
		slog.Error("failed to send error notification", "err", err)
	}
}

// Failure reports err raised while handling what.
func (r *Reporter) Failure(what string, err error) {
	r.Notify(fmt.Sprintf("⚠️ %s failed: %v", what, err))
}

func (r *Reporter) due(msg string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if last, ok := r.sent[msg]; ok && now.Sub(last) < r.quiet {
		return false
	}

	for m, at := range r.sent {
		if now.Sub(at) >= r.quiet {
			delete(r.sent, m)
		}
	}
	r.sent[msg] = now

	return true
}
