// Package botkit dispatches Telegram commands to registered views.
package botkit

import (
	"context"
	"errors"
	"fmt"
	"log"
	"runtime/debug"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/0x0BSoD/am5tv/internal/metrics"
)

const (
	updateTimeout  = 60
	defaultTimeout = 30 * time.Second
)

type ViewFunc func(ctx context.Context, bot *tgbotapi.BotAPI, update tgbotapi.Update) error

type Bot struct {
	api      *tgbotapi.BotAPI
	cmdViews map[string]ViewFunc
	timeout  time.Duration
	onError  func(update tgbotapi.Update, err error)
}

func New(api *tgbotapi.BotAPI) *Bot {
	return &Bot{
		api:      api,
		cmdViews: make(map[string]ViewFunc),
		timeout:  defaultTimeout,
	}
}

// WithTimeout bounds the handling of a single update.
func (b *Bot) WithTimeout(d time.Duration) *Bot {
	b.timeout = d
	return b
}

// OnError is called for every view error after the user was answered.
func (b *Bot) OnError(fn func(update tgbotapi.Update, err error)) *Bot {
	b.onError = fn
	return b
}

func (b *Bot) RegisterCmdView(cmd string, view ViewFunc) {
	b.cmdViews[cmd] = view
}

// Commands lists the registered command names.
func (b *Bot) Commands() []string {
	out := make([]string, 0, len(b.cmdViews))
	for cmd := range b.cmdViews {
		out = append(out, cmd)
	}
	return out
}

func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = updateTimeout

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case update := <-updates:
			updateCtx, cancel := context.WithTimeout(ctx, b.timeout)
			go func() {
				defer cancel()
				b.HandleUpdate(updateCtx, update)
			}()
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// HandleUpdate runs the view registered for the command of update. Panics
// in views are recovered and logged.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	var cmd string

	defer func() {
		if p := recover(); p != nil {
			metrics.BotCommandsTotal.WithLabelValues(cmd, "panic").Inc()
			log.Printf("[ERROR] panic recovered in /%s: %v\n%s", cmd, p, string(debug.Stack()))
		}
	}()

	if update.Message == nil || !update.Message.IsCommand() {
		return
	}

	cmd = update.Message.Command()

	view, ok := b.cmdViews[cmd]
	if !ok {
		metrics.BotCommandsTotal.WithLabelValues("unknown", "ignored").Inc()
		return
	}

	if err := view(ctx, b.api, update); err != nil {
		metrics.BotCommandsTotal.WithLabelValues(cmd, "error").Inc()
		log.Printf("[ERROR] failed to handle /%s: %v", cmd, err)

		var answered *answeredError
		if !errors.As(err, &answered) {
			if _, err := b.api.Send(tgbotapi.NewMessage(update.Message.Chat.ID, internalErrorText)); err != nil {
				log.Printf("[ERROR] failed to send error reply: %v", err)
			}
		}
		if b.onError != nil {
			b.onError(update, fmt.Errorf("/%s: %w", cmd, err))
		}
		return
	}

	metrics.BotCommandsTotal.WithLabelValues(cmd, "ok").Inc()
}

const internalErrorText = "Something went wrong. Please try again later."

type answeredError struct {
	err error
}

func (e *answeredError) Error() string { return e.err.Error() }
func (e *answeredError) Unwrap() error { return e.err }

// Answered marks err as already explained to the user, so the bot only logs
// and reports it.
func Answered(err error) error {
	if err == nil {
		return nil
	}
	return &answeredError{err: err}
}
