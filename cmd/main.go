// Copyright (c) 2024, 0x0BSoD. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/0x0BSoD/am5tv/internal/api"
	"github.com/0x0BSoD/am5tv/internal/bot"
	"github.com/0x0BSoD/am5tv/internal/bot/middleware"
	"github.com/0x0BSoD/am5tv/internal/botkit"
	"github.com/0x0BSoD/am5tv/internal/config"
	"github.com/0x0BSoD/am5tv/internal/home"
	"github.com/0x0BSoD/am5tv/internal/reporter"
	"github.com/0x0BSoD/am5tv/internal/server"
	"github.com/0x0BSoD/am5tv/internal/session"
	"github.com/0x0BSoD/am5tv/internal/summary"
)

const webNamespace = "web"

func main() {
	botAPI, err := tgbotapi.NewBotAPI(config.Get().TelegramBotToken)
	if err != nil {
		log.Printf("[ERROR] failed to create botAPI: %v", err)
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var store session.Store
	switch config.Get().SessionBackend {
	case "postgres":
		db, err := sqlx.Connect("postgres", config.Get().DatabaseDSN)
		if err != nil {
			log.Printf("[ERROR] failed to connect to db: %v", err)
			return
		}
		defer db.Close()

		pgStore := session.NewPostgresStore(db)
		if err := pgStore.Init(ctx); err != nil {
			log.Printf("[ERROR] failed to prepare session table: %v", err)
			return
		}
		store = pgStore
		log.Printf("[INFO] using postgres session store")
	default:
		store = session.NewMemoryStore()
		log.Printf("[INFO] using in-memory session store")
	}

	var (
		client = api.New(
			config.Get().APIBaseURL,
			config.Get().APITimeout,
			config.Get().FeedSize,
		)
		sessions = session.NewManager(store)
		views    = home.NewRegistry(
			client,
			config.Get().ImageNewsSize,
			config.Get().CarouselInterval,
			config.Get().ViewIdleTTL,
		)
		chats  = bot.NewChats(sessions, views, client)
		report = reporter.New(botAPI, config.Get().TelegramAdminChatID, config.Get().ReportQuietPeriod)
	)

	var summarizer bot.ItemSummarizer
	switch config.Get().AIType {
	case "openai":
		if config.Get().AIKey == "" {
			log.Printf("[ERROR] ai_key is required when ai_type is \"openai\"")
			return
		}
		summarizer = summary.NewItems(summary.NewOpenAISummarizer(
			config.Get().AIBaseURL,
			config.Get().AIKey,
			aiPrompt(),
			config.Get().AIModel,
		), config.Get().AITimeout)
		log.Printf("[INFO] using OpenAI-compatible summarizer (model: %s)", config.Get().AIModel)
	case "ollama":
		if config.Get().AIBaseURL == "" {
			log.Printf("[INFO] ai_base_url is not set, summaries are disabled")
			break
		}
		summarizer = summary.NewItems(summary.NewOllamaSummarizer(
			config.Get().AIBaseURL,
			aiPrompt(),
			config.Get().AIModel,
		), config.Get().AITimeout)
		log.Printf("[INFO] using Ollama summarizer (model: %s)", config.Get().AIModel)
	default:
		log.Printf("[INFO] summaries are disabled")
	}

	tvBot := botkit.New(botAPI).
		WithTimeout(config.Get().UpdateTimeout).
		OnError(func(update tgbotapi.Update, err error) {
			report.Failure(fmt.Sprintf("chat %d", update.Message.Chat.ID), err)
		})

	// browsing
	tvBot.RegisterCmdView("start", bot.ViewCmdStart(chats))
	tvBot.RegisterCmdView("home", bot.ViewCmdHome(chats))
	tvBot.RegisterCmdView("scope", bot.ViewCmdScope(chats))
	tvBot.RegisterCmdView("state", bot.ViewCmdState(chats))
	tvBot.RegisterCmdView("district", bot.ViewCmdDistrict(chats))
	tvBot.RegisterCmdView("category", bot.ViewCmdCategory(chats))
	tvBot.RegisterCmdView("categories", bot.ViewCmdCategories())
	tvBot.RegisterCmdView("news", bot.ViewCmdNews(chats))
	tvBot.RegisterCmdView("video", bot.ViewCmdVideo(chats))
	tvBot.RegisterCmdView("image", bot.ViewCmdImage(chats))
	tvBot.RegisterCmdView("search", bot.ViewCmdSearch(chats))
	tvBot.RegisterCmdView("suggest", bot.ViewCmdSuggest(chats))
	tvBot.RegisterCmdView("summary", bot.ViewCmdSummary(chats, summarizer))

	// interactions
	tvBot.RegisterCmdView("comments", bot.ViewCmdComments(chats))
	tvBot.RegisterCmdView("comment", middleware.LoggedIn(chats, bot.ViewCmdComment(chats)))
	tvBot.RegisterCmdView("like", bot.ViewCmdLike(chats))
	tvBot.RegisterCmdView("share", bot.ViewCmdShare(chats))
	tvBot.RegisterCmdView("report", middleware.LoggedIn(chats, bot.ViewCmdReport(chats)))

	// account
	tvBot.RegisterCmdView("login", bot.ViewCmdLogin(chats))
	tvBot.RegisterCmdView("adminlogin", bot.ViewCmdAdminLogin(chats))
	tvBot.RegisterCmdView("register", bot.ViewCmdRegister(chats))
	tvBot.RegisterCmdView("verify", bot.ViewCmdVerify(chats))
	tvBot.RegisterCmdView("logout", bot.ViewCmdLogout(chats))
	tvBot.RegisterCmdView("me", middleware.LoggedIn(chats, bot.ViewCmdMe(chats)))
	tvBot.RegisterCmdView("upload", middleware.LoggedIn(
		chats,
		bot.ViewCmdUpload(chats, bot.NewTelegramFiles(config.Get().APITimeout)),
	))
	tvBot.RegisterCmdView("advertise", bot.ViewCmdAdvertise(chats))
	tvBot.RegisterCmdView("ads", bot.ViewCmdAds(chats))

	// moderation
	adminViews := map[string]botkit.ViewFunc{
		"pending":      bot.ViewCmdPending(chats),
		"approve":      bot.ViewCmdApprove(chats),
		"reject":       bot.ViewCmdReject(chats),
		"delete":       bot.ViewCmdDelete(chats),
		"users":        bot.ViewCmdUsers(chats),
		"toggleuser":   bot.ViewCmdToggleUser(chats),
		"deleteuser":   bot.ViewCmdDeleteUser(chats),
		"reports":      bot.ViewCmdReports(chats),
		"deletereport": bot.ViewCmdDeleteReport(chats),
	}
	for cmd, view := range adminViews {
		tvBot.RegisterCmdView(cmd, middleware.AdminsOnly(chats, view))
	}

	httpServer := server.New(config.Get().HTTPAddr, server.NewRouter(server.Options{
		Fetcher:          client,
		Ads:              session.NewContext(store, webNamespace),
		ImageNewsSize:    config.Get().ImageNewsSize,
		CarouselInterval: config.Get().CarouselInterval,
		Timeout:          config.Get().APITimeout,
	}))

	go func(ctx context.Context) {
		if err := views.Start(ctx); err != nil {
			if !errors.Is(err, context.Canceled) {
				log.Printf("[ERROR] failed to run view registry: %v", err)
				return
			}

			log.Printf("[INFO] view registry stopped")
		}
	}(ctx)

	go func(ctx context.Context) {
		if err := httpServer.Start(ctx); err != nil {
			if !errors.Is(err, context.Canceled) {
				log.Printf("[ERROR] failed to run http server: %v", err)
				return
			}

			log.Printf("[INFO] http server stopped")
		}
	}(ctx)

	log.Printf("[INFO] bot @%s started with %d commands", botAPI.Self.UserName, len(tvBot.Commands()))

	if err := tvBot.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("[ERROR] failed to run botkit: %v", err)
	}
}

func aiPrompt() string {
	if config.Get().AIPrompt != "" {
		return config.Get().AIPrompt
	}
	return summary.DefaultPrompt
}
