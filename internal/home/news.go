package home

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"

	"github.com/samber/lo"

	"github.com/0x0BSoD/am5tv/internal/model"
)

type NewsType string

const (
	NewsAll   NewsType = "all"
	NewsVideo NewsType = "video"
	NewsImage NewsType = "image"
)

var ErrUnknownNewsType = errors.New("type must be all, video or image")

func ParseNewsType(s string) (NewsType, error) {
	switch t := NewsType(strings.ToLower(strings.TrimSpace(s))); t {
	case "":
		return NewsAll, nil
	case NewsAll, NewsVideo, NewsImage:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownNewsType, s)
	}
}

// NewsFilter narrows the combined news page.
type NewsFilter struct {
	Scope    model.Scope
	Category string
	Type     NewsType
}

// MergeNews combines videos and image news, newest first.
func MergeNews(videos, images []model.ContentItem) []model.ContentItem {
	out := make([]model.ContentItem, 0, len(videos)+len(images))
	out = append(out, videos...)
	out = append(out, images...)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return out
}

// FilterNews keeps the items matching f. The india scope keeps items whose
// recorded location mentions India.
func FilterNews(items []model.ContentItem, f NewsFilter) []model.ContentItem {
	return lo.Filter(items, func(item model.ContentItem, _ int) bool {
		if f.Category != "" && f.Category != model.CategoryAll && !item.HasCategory(f.Category) {
			return false
		}
		if f.Scope == model.ScopeIndia && !strings.Contains(strings.ToLower(item.Location), "india") {
			return false
		}
		switch f.Type {
		case NewsVideo:
			return !item.IsImageNews()
		case NewsImage:
			return item.IsImageNews()
		}
		return true
	})
}

// LoadNews fetches both feeds unfiltered and returns the merged page
// narrowed by f. When either feed fails the page is emptied.
func (v *View) LoadNews(ctx context.Context, f NewsFilter) ([]model.ContentItem, error) {
	v.touch()

	var (
		wg                 sync.WaitGroup
		videos, images     []model.ContentItem
		videoErr, imageErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		videos, videoErr = v.fetcher.FetchFeed(ctx, model.CategoryAll, "")
	}()
	go func() {
		defer wg.Done()
		images, imageErr = v.fetcher.FetchImageNewsFeed(ctx, 0, v.imageNewsSize, "")
	}()
	wg.Wait()

	if err := errors.Join(videoErr, imageErr); err != nil {
		log.Printf("[ERROR] failed to load news: %v", err)
		v.rotator.Track(nil)
		return nil, fmt.Errorf("load news: %w", err)
	}

	filtered := FilterNews(MergeNews(videos, images), f)
	v.rotator.Track(filtered)

	return filtered, nil
}
