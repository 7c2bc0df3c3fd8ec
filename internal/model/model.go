// Package model defines the data structures shared by the am5tv front-end: content items surfaced by the backend (videos and image news), the sections they are grouped into, the locale selection of a view, locally persisted advertisement records and user sessions.
package model

import (
	"strings"
	"time"
)

type Kind string

const (
	KindVideo     Kind = "video"
	KindImageNews Kind = "image_news"
)

// ContentItem is a video or an image news record as surfaced to the client.
// Exactly one of StreamURL (video) or ImageURLs (image news) is meaningful,
// depending on Kind.
type ContentItem struct {
	Kind         Kind
	ID           int64
	Title        string
	Description  string
	ThumbnailURL string
	CreatedAt    time.Time
	Location     string
	Categories   []string
	Tags         string
	Author       string
	Status       string

	Views  int64
	Likes  int64
	Shares int64

	StreamURL string
	ImageURLs []string
}

func (c ContentItem) IsImageNews() bool {
	return c.Kind == KindImageNews
}

// HasCategory reports whether the item is tagged with the given category id.
func (c ContentItem) HasCategory(category string) bool {
	for _, cat := range c.Categories {
		if strings.EqualFold(strings.TrimSpace(cat), category) {
			return true
		}
	}
	return false
}

type Section struct {
	Title string
	Items []ContentItem
}

type Scope string

const (
	ScopeIndia  Scope = "india"
	ScopeGlobal Scope = "global"
)

func (s Scope) Valid() bool {
	return s == ScopeIndia || s == ScopeGlobal
}

const CategoryAll = "all"

// Selection is the filter state of a single view.
type Selection struct {
	Scope    Scope
	State    string
	District string
	Category string
}

func DefaultSelection() Selection {
	return Selection{Scope: ScopeGlobal, Category: CategoryAll}
}

type Comment struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
}

type Report struct {
	ID        int64     `json:"id"`
	VideoID   int64     `json:"videoId"`
	Reason    string    `json:"reason"`
	Reporter  string    `json:"reporter"`
	CreatedAt time.Time `json:"createdAt"`
}

// Page is the paginated envelope returned by the backend list endpoints.
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
}
