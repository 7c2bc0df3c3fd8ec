// Package telegramtest runs a fake Telegram Bot API for tests.
package telegramtest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/require"
)

const Token = "123:test"

// Call is a single Bot API request received by the server.
type Call struct {
	Method string
	Params url.Values
}

type Server struct {
	srv *httptest.Server

	mu    sync.Mutex
	calls []Call
	files map[string]string
}

// New starts the server and returns it with a BotAPI talking to it.
func New(t *testing.T) (*Server, *tgbotapi.BotAPI) {
	t.Helper()

	s := &Server{files: make(map[string]string)}
	s.srv = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.srv.Close)

	bot, err := tgbotapi.NewBotAPIWithClient(Token, s.srv.URL+"/bot%s/%s", s.srv.Client())
	require.NoError(t, err)

	return s, bot
}

// AddFile makes getFile answer fileID with path.
func (s *Server) AddFile(fileID, path string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.files[fileID] = path
}

func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]Call(nil), s.calls...)
}

// Sent returns the text of every message sent, in order.
func (s *Server) Sent() []string {
	var out []string
	for _, c := range s.Calls() {
		switch c.Method {
		case "sendMessage":
			out = append(out, c.Params.Get("text"))
		case "sendPhoto", "sendVideo":
			out = append(out, c.Params.Get("caption"))
		}
	}
	return out
}

// LastText returns the text of the last message sent, or "".
func (s *Server) LastText() string {
	sent := s.Sent()
	if len(sent) == 0 {
		return ""
	}
	return sent[len(sent)-1]
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	method := parts[len(parts)-1]

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		_ = r.ParseMultipartForm(32 << 20)
	} else {
		_ = r.ParseForm()
	}

	s.mu.Lock()
	s.calls = append(s.calls, Call{Method: method, Params: r.Form})
	filePath := s.files[r.Form.Get("file_id")]
	s.mu.Unlock()

	var result any
	switch method {
	case "getMe":
		result = map[string]any{"id": 1, "is_bot": true, "first_name": "am5tv", "username": "am5tv_bot"}
	case "getFile":
		result = map[string]any{"file_id": r.Form.Get("file_id"), "file_path": filePath}
	case "sendMessage", "sendPhoto", "sendVideo", "editMessageText":
		chatID, _ := strconv.ParseInt(r.Form.Get("chat_id"), 10, 64)
		result = map[string]any{
			"message_id": len(s.Calls()),
			"date":       0,
			"chat":       map[string]any{"id": chatID, "type": "private"},
			"text":       r.Form.Get("text"),
		}
	default:
		result = true
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "result": result})
}

// Command builds an update carrying /cmd args sent from chatID.
func Command(chatID int64, cmd, args string) tgbotapi.Update {
	text := "/" + cmd
	if args != "" {
		text += " " + args
	}

	return tgbotapi.Update{
		UpdateID: 1,
		Message: &tgbotapi.Message{
			MessageID: 1,
			From:      &tgbotapi.User{ID: chatID, UserName: "tester"},
			Chat:      &tgbotapi.Chat{ID: chatID, Type: "private"},
			Text:      text,
			Entities: []tgbotapi.MessageEntity{
				{Type: "bot_command", Offset: 0, Length: len(cmd) + 1},
			},
		},
	}
}
