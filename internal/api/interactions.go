package api

import (
	"context"
	"net/http"

	"github.com/0x0BSoD/am5tv/internal/model"
)

var empty = struct{}{}

func (c *Client) Comments(ctx context.Context, videoID int64) ([]model.Comment, error) {
	var out []model.Comment
	if err := c.getJSON(ctx, "comments", idPath("/api/videos/%d/comments", videoID), nil, authNone, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AddComment(ctx context.Context, videoID int64, text string) error {
	return c.sendJSON(ctx, "add_comment", http.MethodPost, idPath("/api/videos/%d/comments", videoID),
		authUser, map[string]string{"text": text}, nil)
}

// Like likes a video or image news item. Liking a video requires a session.
func (c *Client) Like(ctx context.Context, kind model.Kind, id int64) error {
	if kind == model.KindImageNews {
		return c.sendJSON(ctx, "like", http.MethodPost, idPath("/api/image-news/%d/like", id), authNone, empty, nil)
	}
	return c.sendJSON(ctx, "like", http.MethodPost, idPath("/api/videos/%d/like", id), authUser, empty, nil)
}

func (c *Client) Share(ctx context.Context, kind model.Kind, id int64) error {
	return c.sendJSON(ctx, "share", http.MethodPost, counterPath(kind, id, "share"), authNone, empty, nil)
}

func (c *Client) View(ctx context.Context, kind model.Kind, id int64) error {
	return c.sendJSON(ctx, "view", http.MethodPost, counterPath(kind, id, "view"), authNone, empty, nil)
}

func (c *Client) ReportVideo(ctx context.Context, videoID int64, reason string) error {
	return c.sendJSON(ctx, "report", http.MethodPost, idPath("/api/videos/%d/report", videoID),
		authUser, map[string]string{"reason": reason}, nil)
}

func counterPath(kind model.Kind, id int64, action string) string {
	if kind == model.KindImageNews {
		return idPath("/api/image-news/%d/", id) + action
	}
	return idPath("/api/videos/%d/", id) + action
}
