package bot

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/0x0BSoD/am5tv/internal/botkit"
	"github.com/0x0BSoD/am5tv/internal/home"
	"github.com/0x0BSoD/am5tv/internal/model"
)

type FileOpener interface {
	Open(ctx context.Context, bot *tgbotapi.BotAPI, fileID string) (io.ReadCloser, error)
}

// TelegramFiles downloads files users sent to the bot.
type TelegramFiles struct {
	client *http.Client
}

func NewTelegramFiles(timeout time.Duration) *TelegramFiles {
	return &TelegramFiles{client: &http.Client{Timeout: timeout}}
}

func (f *TelegramFiles) Open(ctx context.Context, bot *tgbotapi.BotAPI, fileID string) (io.ReadCloser, error) {
	link, err := bot.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("resolve file %s: %w", fileID, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file %s: %w", fileID, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("download file %s: status %d", fileID, resp.StatusCode)
	}

	return resp.Body, nil
}

type uploadArgs struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Tags        string      `json:"tags"`
	Category    string      `json:"category"`
	Scope       model.Scope `json:"scope"`
	State       string      `json:"state"`
	District    string      `json:"district"`
}

type attachment struct {
	kind   model.Kind
	fileID string
	name   string
}

// attachmentOf finds the media of the message the command replies to.
func attachmentOf(msg *tgbotapi.Message) (attachment, bool) {
	if msg == nil {
		return attachment{}, false
	}

	switch {
	case msg.Video != nil:
		return attachment{model.KindVideo, msg.Video.FileID, nameOr(msg.Video.FileName, msg.Video.FileUniqueID+".mp4")}, true
	case len(msg.Photo) > 0:
		largest := msg.Photo[len(msg.Photo)-1]
		return attachment{model.KindImageNews, largest.FileID, largest.FileUniqueID + ".jpg"}, true
	case msg.Document != nil && strings.HasPrefix(msg.Document.MimeType, "video/"):
		return attachment{model.KindVideo, msg.Document.FileID, nameOr(msg.Document.FileName, msg.Document.FileUniqueID)}, true
	case msg.Document != nil && strings.HasPrefix(msg.Document.MimeType, "image/"):
		return attachment{model.KindImageNews, msg.Document.FileID, nameOr(msg.Document.FileName, msg.Document.FileUniqueID)}, true
	}

	return attachment{}, false
}

func nameOr(name, fallback string) string {
	if name != "" {
		return name
	}
	return fallback
}

// ViewCmdUpload submits the video or photo the command replies to. Without
// an explicit location the upload is filed under the chat's selection.
func ViewCmdUpload(chats ChatResolver, files FileOpener) botkit.ViewFunc {
	const usage = "Reply to a video or photo with /upload " +
		`{"title":"...","description":"...","category":"news","tags":"...","scope":"india","state":"Telangana","district":"Warangal"}`

	return WithChat(chats, func(ctx context.Context, bot *tgbotapi.BotAPI, update tgbotapi.Update, chat *Chat) error {
		media, ok := attachmentOf(update.Message.ReplyToMessage)
		if !ok {
			return reply(bot, chat.ID, usage)
		}

		args, err := botkit.ParseJSON[uploadArgs](update.Message.CommandArguments())
		if err != nil {
			return reply(bot, chat.ID, usage)
		}

		loc := model.Selection{Scope: args.Scope, State: args.State, District: args.District}
		if loc.Scope == "" && loc.State == "" && loc.District == "" {
			loc = chat.Home.Selection()
		} else if loc, err = home.Normalize(loc); err != nil {
			return reply(bot, chat.ID, "Invalid location: "+err.Error())
		}

		req := model.UploadRequest{
			Kind:        media.kind,
			Title:       args.Title,
			Description: args.Description,
			Tags:        args.Tags,
			Category:    args.Category,
			Scope:       loc.Scope,
			State:       loc.State,
			District:    loc.District,
		}

		// Validate before downloading anything.
		req.Files = []model.MediaFile{{Name: media.name, Reader: strings.NewReader("")}}
		if err := req.Validate(); err != nil {
			return failure(ctx, bot, chat, "upload", err)
		}

		body, err := files.Open(ctx, bot, media.fileID)
		if err != nil {
			return failure(ctx, bot, chat, "download your file", err)
		}
		defer body.Close()

		req.Files = []model.MediaFile{{Name: media.name, Reader: body}}

		res, err := chat.API.Upload(ctx, req)
		if err != nil {
			return failure(ctx, bot, chat, "upload your "+kindLabel(media.kind), err)
		}

		return reply(bot, chat.ID, fmt.Sprintf("Your %s was submitted for review (id %d, status %s).",
			kindLabel(media.kind), res.ID, strings.ToLower(nameOr(res.Status, "pending"))))
	})
}
