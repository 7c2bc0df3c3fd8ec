package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/0x0BSoD/am5tv/internal/model"
)

func (c *Client) PendingVideos(ctx context.Context) ([]model.ContentItem, error) {
	var resp listOrPage[contentRecord]
	if err := c.getJSON(ctx, "admin_pending_videos", "/api/admin/pending-videos", nil, authAdmin, &resp); err != nil {
		return nil, err
	}
	return c.toItems(model.KindVideo, resp.Items)
}

func (c *Client) PendingImageNews(ctx context.Context) ([]model.ContentItem, error) {
	var resp listOrPage[contentRecord]
	if err := c.getJSON(ctx, "admin_pending_image_news", "/api/admin/pending-image-news", nil, authAdmin, &resp); err != nil {
		return nil, err
	}
	return c.toItems(model.KindImageNews, resp.Items)
}

func moderationPath(kind model.Kind, id int64) string {
	if kind == model.KindImageNews {
		return idPath("/api/admin/image-news/%d", id)
	}
	return idPath("/api/admin/videos/%d", id)
}

func (c *Client) Approve(ctx context.Context, kind model.Kind, id int64) error {
	return c.sendJSON(ctx, "admin_approve", http.MethodPut, moderationPath(kind, id)+"/approve", authAdmin, empty, nil)
}

func (c *Client) Reject(ctx context.Context, kind model.Kind, id int64, reason string) error {
	return c.sendJSON(ctx, "admin_reject", http.MethodPut, moderationPath(kind, id)+"/reject", authAdmin,
		map[string]string{"reason": reason}, nil)
}

func (c *Client) DeleteVideo(ctx context.Context, id int64) error {
	return c.sendJSON(ctx, "admin_delete_video", http.MethodDelete, idPath("/api/admin/videos/%d", id), authAdmin, nil, nil)
}

func (c *Client) Users(ctx context.Context) ([]model.User, error) {
	var out listOrPage[model.User]
	if err := c.getJSON(ctx, "admin_users", "/api/admin/users", nil, authAdmin, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

func (c *Client) SearchUsers(ctx context.Context, query string) ([]model.User, error) {
	var out listOrPage[model.User]
	if err := c.getJSON(ctx, "admin_search_users", "/api/admin/users/search", url.Values{"q": {query}}, authAdmin, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

func (c *Client) ToggleUserStatus(ctx context.Context, userID int64) error {
	return c.sendJSON(ctx, "admin_toggle_user", http.MethodPut, idPath("/api/admin/users/%d/toggle-status", userID), authAdmin, empty, nil)
}

func (c *Client) DeleteUser(ctx context.Context, userID int64) error {
	return c.sendJSON(ctx, "admin_delete_user", http.MethodDelete, idPath("/api/admin/users/%d", userID), authAdmin, nil, nil)
}

func (c *Client) Reports(ctx context.Context) ([]model.Report, error) {
	var out listOrPage[model.Report]
	if err := c.getJSON(ctx, "admin_reports", "/api/admin/reports", nil, authAdmin, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

func (c *Client) DeleteReport(ctx context.Context, reportID int64) error {
	return c.sendJSON(ctx, "admin_delete_report", http.MethodDelete, idPath("/api/admin/reports/%d", reportID), authAdmin, nil, nil)
}

func (c *Client) AdminSearchVideos(ctx context.Context, query string, page, size int) ([]model.ContentItem, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))

	var resp listOrPage[contentRecord]
	if err := c.getJSON(ctx, "admin_search_videos", "/api/admin/videos/search", q, authAdmin, &resp); err != nil {
		return nil, err
	}
	return c.toItems(model.KindVideo, resp.Items)
}
