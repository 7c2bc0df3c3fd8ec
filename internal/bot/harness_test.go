package bot

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/0x0BSoD/am5tv/internal/api"
	"github.com/0x0BSoD/am5tv/internal/botkit"
	"github.com/0x0BSoD/am5tv/internal/botkit/telegramtest"
	"github.com/0x0BSoD/am5tv/internal/home"
	"github.com/0x0BSoD/am5tv/internal/session"
)

const testChat int64 = 4242

// backend is a fake content backend recording every request.
type backend struct {
	mux *http.ServeMux

	mu       sync.Mutex
	requests []*http.Request
	bodies   []string
}

func newBackend(t *testing.T) (*backend, *httptest.Server) {
	t.Helper()

	b := &backend{mux: http.NewServeMux()}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		b.mu.Lock()
		b.requests = append(b.requests, r)
		b.bodies = append(b.bodies, string(body))
		b.mu.Unlock()

		r.Body = io.NopCloser(strings.NewReader(string(body)))
		b.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	return b, srv
}

func (b *backend) handleJSON(pattern string, status int, v any) {
	b.mux.HandleFunc(pattern, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	})
}

// last returns the last request to path and its body.
func (b *backend) last(path string) (*http.Request, string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i := len(b.requests) - 1; i >= 0; i-- {
		if b.requests[i].URL.Path == path {
			return b.requests[i], b.bodies[i]
		}
	}
	return nil, ""
}

type harness struct {
	t        *testing.T
	backend  *backend
	telegram *telegramtest.Server
	api      *tgbotapi.BotAPI
	chats    *Chats
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	be, srv := newBackend(t)
	tg, botAPI := telegramtest.New(t)

	client := api.New(srv.URL, 5*time.Second, 50)
	registry := home.NewRegistry(client, 25, time.Hour, time.Hour)
	t.Cleanup(func() { registry.Close(testChat) })

	return &harness{
		t:        t,
		backend:  be,
		telegram: tg,
		api:      botAPI,
		chats:    NewChats(session.NewManager(session.NewMemoryStore()), registry, client),
	}
}

func newTestBot(h *harness, cmd string, view botkit.ViewFunc) *botkit.Bot {
	b := botkit.New(h.api)
	b.RegisterCmdView(cmd, view)
	return b
}

func commandUpdate(cmd, args string) tgbotapi.Update {
	return telegramtest.Command(testChat, cmd, args)
}

// run dispatches /cmd args to view and returns the last reply.
func (h *harness) run(view botkit.ViewFunc, cmd, args string) string {
	h.t.Helper()

	newTestBot(h, cmd, view).HandleUpdate(context.Background(), commandUpdate(cmd, args))

	return h.telegram.LastText()
}

func (h *harness) chat() *Chat {
	h.t.Helper()

	chat, err := h.chats.Resolve(context.Background(), testChat)
	if err != nil {
		h.t.Fatal(err)
	}
	return chat
}

func videoRecord(id int64, title string) map[string]any {
	return map[string]any{
		"id":         id,
		"title":      title,
		"location":   "Global",
		"categories": []string{"news"},
		"createdAt":  "2025-03-01T10:00:00",
		"user":       map[string]any{"id": 1, "username": "reporter"},
	}
}

func imageRecord(id int64, title, images string) map[string]any {
	return map[string]any{
		"id":        id,
		"title":     title,
		"imageUrls": images,
		"location":  "Hyderabad, Telangana, India",
		"createdAt": "2025-03-02T10:00:00",
	}
}

func authResponse(token, username, role string) map[string]any {
	return map[string]any{
		"accessToken": token,
		"user":        map[string]any{"id": 7, "username": username, "email": username + "@example.com", "role": role},
	}
}
