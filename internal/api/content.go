package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/0x0BSoD/am5tv/internal/metrics"
	"github.com/0x0BSoD/am5tv/internal/model"
)

// DefaultAuthor is shown for items that carry no uploader.
const DefaultAuthor = "AM5TV News"

type backendUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// contentRecord is the union of the video and image news shapes served by
// the backend.
type contentRecord struct {
	ID           int64           `json:"id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	ThumbnailURL string          `json:"thumbnailUrl"`
	ImageURLs    string          `json:"imageUrls"`
	Categories   json.RawMessage `json:"categories"`
	Location     string          `json:"location"`
	Tags         string          `json:"tags"`
	Status       string          `json:"status"`
	LikesCount   int64           `json:"likesCount"`
	Views        int64           `json:"views"`
	ShareCount   int64           `json:"shareCount"`
	CreatedAt    string          `json:"createdAt"`
	User         *backendUser    `json:"user"`
	Username     string          `json:"username"`
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unknown time format %q", s)
}

// ParseCategories accepts a JSON list, a serialized JSON list or a comma
// separated string.
func ParseCategories(raw json.RawMessage) []string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return cleanList(list)
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	if err := json.Unmarshal([]byte(s), &list); err == nil {
		return cleanList(list)
	}

	return cleanList(strings.Split(s, ","))
}

func cleanList(in []string) []string {
	out := lo.FilterMap(in, func(s string, _ int) (string, bool) {
		s = strings.TrimSpace(s)
		return s, s != ""
	})
	if len(out) == 0 {
		return nil
	}
	return out
}

func (c *Client) toItem(kind model.Kind, r contentRecord) (model.ContentItem, error) {
	if r.ID <= 0 {
		return model.ContentItem{}, fmt.Errorf("%w: %s record without id", ErrMalformed, kind)
	}

	createdAt, err := parseTime(r.CreatedAt)
	if err != nil {
		return model.ContentItem{}, fmt.Errorf("%w: %s %d: %v", ErrMalformed, kind, r.ID, err)
	}

	author := DefaultAuthor
	switch {
	case r.User != nil && r.User.Username != "":
		author = r.User.Username
	case r.Username != "":
		author = r.Username
	}

	item := model.ContentItem{
		Kind:        kind,
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		CreatedAt:   createdAt,
		Location:    r.Location,
		Categories:  ParseCategories(r.Categories),
		Tags:        r.Tags,
		Author:      author,
		Status:      r.Status,
		Views:       r.Views,
		Likes:       r.LikesCount,
		Shares:      r.ShareCount,
	}

	switch kind {
	case model.KindVideo:
		item.StreamURL = c.StreamURL(r.ID)
		item.ThumbnailURL = c.thumbnailURL(r.ID, r.ThumbnailURL)
	case model.KindImageNews:
		item.ImageURLs = cleanList(strings.Split(r.ImageURLs, ","))
		item.ThumbnailURL = c.ImageURL(r.ID, 0)
	}

	return item, nil
}

// toItems converts list records, skipping the malformed ones. It fails only
// when records were served and none of them is usable.
func (c *Client) toItems(kind model.Kind, records []contentRecord) ([]model.ContentItem, error) {
	out := make([]model.ContentItem, 0, len(records))
	var firstErr error
	for _, r := range records {
		item, err := c.toItem(kind, r)
		if err != nil {
			log.Printf("[ERROR] skipping %s record: %v", kind, err)
			metrics.SkippedRecordsTotal.WithLabelValues(string(kind)).Inc()
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		out = append(out, item)
	}

	if len(out) == 0 && firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}

// listOrPage decodes either a bare JSON list or a paginated envelope with a
// content field.
type listOrPage[T any] struct {
	Items []T
}

func (l *listOrPage[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		return json.Unmarshal(data, &l.Items)
	}

	var page model.Page[T]
	if err := json.Unmarshal(data, &page); err != nil {
		return err
	}
	l.Items = page.Content

	return nil
}

func (c *Client) StreamURL(id int64) string {
	return c.baseURL + idPath("/api/videos/%d/stream", id)
}

func (c *Client) thumbnailURL(id int64, stored string) string {
	if strings.Contains(stored, "placehold.co") {
		return stored
	}
	return c.baseURL + idPath("/api/videos/%d/thumbnail", id)
}

func (c *Client) ImageURL(newsID int64, index int) string {
	return fmt.Sprintf("%s/api/image-news/%d/image/%d", c.baseURL, newsID, index)
}

// FetchFeed returns approved videos, optionally narrowed by category and
// location. The "all" category is not sent.
func (c *Client) FetchFeed(ctx context.Context, category, location string) ([]model.ContentItem, error) {
	q := url.Values{}
	q.Set("size", strconv.Itoa(c.feedSize))
	if category != "" && category != model.CategoryAll {
		q.Set("category", category)
	}
	if location != "" {
		q.Set("location", location)
	}

	var resp listOrPage[contentRecord]
	if err := c.getJSON(ctx, "video_feed", "/api/videos/feed", q, authNone, &resp); err != nil {
		return nil, err
	}

	return c.toItems(model.KindVideo, resp.Items)
}

func (c *Client) FetchImageNewsFeed(ctx context.Context, page, size int, location string) ([]model.ContentItem, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	if location != "" {
		q.Set("location", location)
	}

	var resp listOrPage[contentRecord]
	if err := c.getJSON(ctx, "image_news_feed", "/api/image-news/feed", q, authNone, &resp); err != nil {
		return nil, err
	}

	return c.toItems(model.KindImageNews, resp.Items)
}

func (c *Client) Video(ctx context.Context, id int64) (model.ContentItem, error) {
	var r contentRecord
	if err := c.getJSON(ctx, "video", idPath("/api/videos/%d", id), nil, authNone, &r); err != nil {
		return model.ContentItem{}, err
	}
	return c.toItem(model.KindVideo, r)
}

func (c *Client) ImageNews(ctx context.Context, id int64) (model.ContentItem, error) {
	var r contentRecord
	if err := c.getJSON(ctx, "image_news", idPath("/api/image-news/%d", id), nil, authNone, &r); err != nil {
		return model.ContentItem{}, err
	}
	return c.toItem(model.KindImageNews, r)
}

// Item fetches a single item of the given kind.
func (c *Client) Item(ctx context.Context, kind model.Kind, id int64) (model.ContentItem, error) {
	if kind == model.KindImageNews {
		return c.ImageNews(ctx, id)
	}
	return c.Video(ctx, id)
}

func (c *Client) Search(ctx context.Context, query string) ([]model.ContentItem, error) {
	var resp listOrPage[contentRecord]
	if err := c.getJSON(ctx, "search", "/api/videos/search", url.Values{"q": {query}}, authNone, &resp); err != nil {
		return nil, err
	}
	return c.toItems(model.KindVideo, resp.Items)
}

func (c *Client) Suggestions(ctx context.Context, query string) ([]string, error) {
	var out []string
	if err := c.getJSON(ctx, "suggestions", "/api/videos/suggestions", url.Values{"q": {query}}, authNone, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UserVideos lists the uploads of a user, including pending ones.
func (c *Client) UserVideos(ctx context.Context, userID int64) ([]model.ContentItem, error) {
	var resp listOrPage[contentRecord]
	if err := c.getJSON(ctx, "user_videos", idPath("/api/videos/user/%d", userID), nil, authUser, &resp); err != nil {
		return nil, err
	}
	return c.toItems(model.KindVideo, resp.Items)
}
