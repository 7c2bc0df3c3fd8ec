// Package home implements the per-chat home and news views: the locale and
// category selection, the ads and content loaded for it, and the rows built
// from that content.
package home

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/0x0BSoD/am5tv/internal/carousel"
	"github.com/0x0BSoD/am5tv/internal/locale"
	"github.com/0x0BSoD/am5tv/internal/metrics"
	"github.com/0x0BSoD/am5tv/internal/model"
	"github.com/0x0BSoD/am5tv/internal/section"
)

var (
	ErrUnknownScope    = errors.New("scope must be india or global")
	ErrUnknownState    = errors.New("unknown state")
	ErrUnknownDistrict = errors.New("unknown district")
	ErrUnknownCategory = errors.New("unknown category")
	ErrStateOutsideIn  = errors.New("states can only be chosen within the india scope")
	ErrNoState         = errors.New("choose a state first")
)

type ContentFetcher interface {
	FetchFeed(ctx context.Context, category, location string) ([]model.ContentItem, error)
	FetchImageNewsFeed(ctx context.Context, page, size int, location string) ([]model.ContentItem, error)
}

type AdSource interface {
	AdsFor(ctx context.Context, sel model.Selection) ([]model.AdRecord, error)
}

// Snapshot is a copy of the view state taken for rendering.
type Snapshot struct {
	Selection model.Selection
	Videos    []model.ContentItem
	Sections  []model.Section
	Ads       []model.AdRecord
	Stories   []model.ContentItem
	Sidebar   []model.ContentItem
	LoadedAt  time.Time
}

type View struct {
	fetcher       ContentFetcher
	ads           AdSource
	imageNewsSize int
	rotator       *carousel.Rotator

	mu        sync.RWMutex
	sel       model.Selection
	videos    []model.ContentItem
	sections  []model.Section
	adList    []model.AdRecord
	imageNews []model.ContentItem
	loadedAt  time.Time
	lastUsed  time.Time
}

func NewView(fetcher ContentFetcher, ads AdSource, imageNewsSize int, rotator *carousel.Rotator) *View {
	return &View{
		fetcher:       fetcher,
		ads:           ads,
		imageNewsSize: imageNewsSize,
		rotator:       rotator,
		sel:           model.DefaultSelection(),
		sections:      section.Organize(nil, model.DefaultSelection()),
		adList:        locale.WithFallback(nil),
		lastUsed:      time.Now(),
	}
}

func (v *View) Selection() model.Selection {
	v.mu.RLock()
	defer v.mu.RUnlock()

	return v.sel
}

func (v *View) Rotator() *carousel.Rotator {
	return v.rotator
}

func (v *View) touch() {
	v.mu.Lock()
	v.lastUsed = time.Now()
	v.mu.Unlock()
}

func (v *View) idleSince() time.Time {
	v.mu.RLock()
	defer v.mu.RUnlock()

	return v.lastUsed
}

// SetScope switches the scope and drops the state and district.
func (v *View) SetScope(ctx context.Context, scope model.Scope) error {
	if !scope.Valid() {
		return ErrUnknownScope
	}

	v.mu.Lock()
	v.sel.Scope = scope
	v.sel.State = ""
	v.sel.District = ""
	v.mu.Unlock()

	return v.Reload(ctx)
}

// SetState chooses a state within the india scope and drops the district.
func (v *View) SetState(ctx context.Context, name string) error {
	state, ok := locale.CanonicalState(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownState, name)
	}

	v.mu.Lock()
	if v.sel.Scope != model.ScopeIndia {
		v.mu.Unlock()
		return ErrStateOutsideIn
	}
	v.sel.State = state
	v.sel.District = ""
	v.mu.Unlock()

	return v.Reload(ctx)
}

func (v *View) SetDistrict(ctx context.Context, name string) error {
	v.mu.Lock()
	if v.sel.State == "" {
		v.mu.Unlock()
		return ErrNoState
	}
	district, ok := locale.CanonicalDistrict(v.sel.State, name)
	if !ok {
		v.mu.Unlock()
		return fmt.Errorf("%w: %q in %s", ErrUnknownDistrict, name, v.sel.State)
	}
	v.sel.District = district
	v.mu.Unlock()

	return v.Reload(ctx)
}

// SetCategory changes the category. The image news feed has no category
// filter, so only ads and videos are reloaded.
func (v *View) SetCategory(ctx context.Context, id string) error {
	cat, ok := locale.LookupCategory(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, id)
	}

	v.mu.Lock()
	v.sel.Category = cat.ID
	v.lastUsed = time.Now()
	sel := v.sel
	v.mu.Unlock()

	v.loadAds(ctx, sel)
	return v.loadVideos(ctx, sel)
}

// Normalize validates a complete selection and returns its canonical form.
// Empty scope and category mean global and all.
func Normalize(sel model.Selection) (model.Selection, error) {
	out := model.DefaultSelection()

	if sel.Scope != "" {
		if !sel.Scope.Valid() {
			return out, ErrUnknownScope
		}
		out.Scope = sel.Scope
	}

	if sel.Category != "" {
		cat, ok := locale.LookupCategory(sel.Category)
		if !ok {
			return out, fmt.Errorf("%w: %q", ErrUnknownCategory, sel.Category)
		}
		out.Category = cat.ID
	}

	if sel.State != "" {
		if out.Scope != model.ScopeIndia {
			return out, ErrStateOutsideIn
		}
		state, ok := locale.CanonicalState(sel.State)
		if !ok {
			return out, fmt.Errorf("%w: %q", ErrUnknownState, sel.State)
		}
		out.State = state
	}

	if sel.District != "" {
		if out.State == "" {
			return out, ErrNoState
		}
		district, ok := locale.CanonicalDistrict(out.State, sel.District)
		if !ok {
			return out, fmt.Errorf("%w: %q in %s", ErrUnknownDistrict, sel.District, out.State)
		}
		out.District = district
	}

	return out, nil
}

// Apply replaces the whole selection and reloads once.
func (v *View) Apply(ctx context.Context, sel model.Selection) error {
	sel, err := Normalize(sel)
	if err != nil {
		return err
	}

	v.mu.Lock()
	v.sel = sel
	v.mu.Unlock()

	return v.Reload(ctx)
}

// Reload refreshes ads, videos and image news for the current selection.
// Videos and image news are fetched concurrently and each applies as soon
// as it resolves. Nothing orders overlapping reloads: whichever response
// resolves last is what the view shows.
func (v *View) Reload(ctx context.Context) error {
	sel := v.Selection()
	v.touch()

	v.loadAds(ctx, sel)

	var (
		wg                 sync.WaitGroup
		videoErr, imageErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		videoErr = v.loadVideos(ctx, sel)
	}()
	go func() {
		defer wg.Done()
		imageErr = v.loadImageNews(ctx, sel)
	}()
	wg.Wait()

	return errors.Join(videoErr, imageErr)
}

func (v *View) loadAds(ctx context.Context, sel model.Selection) {
	ads, err := v.ads.AdsFor(ctx, sel)
	if err != nil {
		log.Printf("[ERROR] failed to read stored ads: %v", err)
	}

	v.mu.Lock()
	v.adList = ads
	v.mu.Unlock()
}

func (v *View) loadVideos(ctx context.Context, sel model.Selection) error {
	videos, err := v.fetcher.FetchFeed(ctx, sel.Category, locale.Location(sel))
	if err != nil {
		metrics.HomeReloadsTotal.WithLabelValues("videos", "error").Inc()
		log.Printf("[ERROR] failed to load videos: %v", err)
		return fmt.Errorf("load videos: %w", err)
	}
	metrics.HomeReloadsTotal.WithLabelValues("videos", "ok").Inc()

	sections := section.Organize(videos, sel)

	v.mu.Lock()
	v.videos = videos
	v.sections = sections
	v.loadedAt = time.Now()
	v.mu.Unlock()

	return nil
}

func (v *View) loadImageNews(ctx context.Context, sel model.Selection) error {
	items, err := v.fetcher.FetchImageNewsFeed(ctx, 0, v.imageNewsSize, locale.ImageNewsLocation(sel))
	if err != nil {
		metrics.HomeReloadsTotal.WithLabelValues("image_news", "error").Inc()
		log.Printf("[ERROR] failed to load image news: %v", err)
		return fmt.Errorf("load image news: %w", err)
	}
	metrics.HomeReloadsTotal.WithLabelValues("image_news", "ok").Inc()

	v.mu.Lock()
	v.imageNews = items
	v.mu.Unlock()

	v.rotator.Track(items)
	return nil
}

func (v *View) Snapshot() Snapshot {
	v.mu.RLock()
	defer v.mu.RUnlock()

	sections := make([]model.Section, len(v.sections))
	for i, s := range v.sections {
		sections[i] = model.Section{Title: s.Title, Items: append([]model.ContentItem(nil), s.Items...)}
	}

	return Snapshot{
		Selection: v.sel,
		Videos:    append([]model.ContentItem(nil), v.videos...),
		Sections:  sections,
		Ads:       append([]model.AdRecord(nil), v.adList...),
		Stories:   append([]model.ContentItem(nil), section.Stories(v.imageNews)...),
		Sidebar:   section.Sidebar(v.imageNews),
		LoadedAt:  v.loadedAt,
	}
}
