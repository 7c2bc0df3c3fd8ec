package home

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0x0BSoD/am5tv/internal/carousel"
	"github.com/0x0BSoD/am5tv/internal/model"
	"github.com/0x0BSoD/am5tv/internal/session"
)

type feedCall struct {
	category string
	location string
}

type stubFetcher struct {
	mu         sync.Mutex
	videos     []model.ContentItem
	images     []model.ContentItem
	videoErr   error
	imageErr   error
	feedCalls  []feedCall
	imageCalls []string
}

func (s *stubFetcher) FetchFeed(_ context.Context, category, location string) ([]model.ContentItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.feedCalls = append(s.feedCalls, feedCall{category, location})
	return s.videos, s.videoErr
}

func (s *stubFetcher) FetchImageNewsFeed(_ context.Context, _, _ int, location string) ([]model.ContentItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.imageCalls = append(s.imageCalls, location)
	return s.images, s.imageErr
}

func (s *stubFetcher) lastFeed() feedCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.feedCalls[len(s.feedCalls)-1]
}

func (s *stubFetcher) lastImage() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.imageCalls[len(s.imageCalls)-1]
}

func videos(n int) []model.ContentItem {
	out := make([]model.ContentItem, n)
	for i := range out {
		out[i] = model.ContentItem{Kind: model.KindVideo, ID: int64(i + 1)}
	}
	return out
}

func newTestView(f *stubFetcher) (*View, *session.Context) {
	ads := session.NewContext(session.NewMemoryStore(), "chat:1")
	return NewView(f, ads, 25, carousel.New(time.Hour)), ads
}

func TestReload_Default(t *testing.T) {
	f := &stubFetcher{videos: videos(5), images: []model.ContentItem{
		{Kind: model.KindImageNews, ID: 9, ImageURLs: []string{"a", "b"}},
	}}
	v, _ := newTestView(f)

	require.NoError(t, v.Reload(context.Background()))

	assert.Equal(t, feedCall{model.CategoryAll, ""}, f.lastFeed())
	assert.Equal(t, "", f.lastImage())

	snap := v.Snapshot()
	require.Len(t, snap.Sections, 6)
	assert.Equal(t, "NEWS TODAY", snap.Sections[0].Title)
	assert.Len(t, snap.Sections[1].Items, 2)
	assert.Len(t, snap.Ads, 2)
	assert.Len(t, snap.Stories, 1)
	assert.False(t, snap.LoadedAt.IsZero())

	v.Rotator().Rotate()
	assert.Equal(t, 1, v.Rotator().Index(9))
}

func TestSelectionFlow(t *testing.T) {
	ctx := context.Background()
	f := &stubFetcher{videos: videos(4)}
	v, _ := newTestView(f)

	require.NoError(t, v.SetScope(ctx, model.ScopeIndia))
	assert.Equal(t, feedCall{model.CategoryAll, "India"}, f.lastFeed())
	assert.Equal(t, "", f.lastImage())
	assert.Len(t, v.Snapshot().Sections, 6)

	require.NoError(t, v.SetState(ctx, "telangana"))
	assert.Equal(t, feedCall{model.CategoryAll, "Telangana"}, f.lastFeed())
	assert.Equal(t, "Telangana", f.lastImage())

	snap := v.Snapshot()
	require.Len(t, snap.Sections, 1)
	assert.Equal(t, "LATEST IN NEWS", snap.Sections[0].Title)
	assert.Len(t, snap.Sections[0].Items, 4)

	require.NoError(t, v.SetDistrict(ctx, "Warangal"))
	assert.Equal(t, feedCall{model.CategoryAll, "Warangal"}, f.lastFeed())
	assert.Equal(t, "Warangal", f.lastImage())

	require.NoError(t, v.SetState(ctx, "Andhra Pradesh"))
	assert.Empty(t, v.Selection().District)

	require.NoError(t, v.SetScope(ctx, model.ScopeGlobal))
	sel := v.Selection()
	assert.Empty(t, sel.State)
	assert.Empty(t, sel.District)
}

func TestSetCategory_SkipsImageNews(t *testing.T) {
	f := &stubFetcher{videos: videos(2)}
	v, _ := newTestView(f)

	require.NoError(t, v.SetCategory(context.Background(), "Sports"))

	assert.Equal(t, feedCall{"sports", ""}, f.lastFeed())
	assert.Empty(t, f.imageCalls)

	snap := v.Snapshot()
	require.Len(t, snap.Sections, 1)
	assert.Equal(t, "LATEST IN SPORTS", snap.Sections[0].Title)
}

func TestSelectionValidation(t *testing.T) {
	ctx := context.Background()
	f := &stubFetcher{}
	v, _ := newTestView(f)

	assert.ErrorIs(t, v.SetScope(ctx, "mars"), ErrUnknownScope)
	assert.ErrorIs(t, v.SetState(ctx, "Telangana"), ErrStateOutsideIn)
	assert.ErrorIs(t, v.SetDistrict(ctx, "Warangal"), ErrNoState)
	assert.ErrorIs(t, v.SetCategory(ctx, "cooking"), ErrUnknownCategory)

	require.NoError(t, v.SetScope(ctx, model.ScopeIndia))
	assert.ErrorIs(t, v.SetState(ctx, "Kerala"), ErrUnknownState)
	require.NoError(t, v.SetState(ctx, "Telangana"))
	assert.ErrorIs(t, v.SetDistrict(ctx, "Guntur"), ErrUnknownDistrict)
}

func TestReload_ErrorKeepsPriorState(t *testing.T) {
	ctx := context.Background()
	f := &stubFetcher{videos: videos(3)}
	v, _ := newTestView(f)

	require.NoError(t, v.Reload(ctx))
	before := v.Snapshot().Sections

	f.videoErr = errors.New("connection refused")
	f.videos = nil

	err := v.Reload(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load videos")
	assert.Equal(t, before, v.Snapshot().Sections)
}

func TestReload_AdsFollowSelection(t *testing.T) {
	ctx := context.Background()
	f := &stubFetcher{}
	v, ads := newTestView(f)

	require.NoError(t, ads.AppendAd(ctx, model.AdRecord{ID: "tg", Scope: model.ScopeIndia, State: "Telangana"}))
	require.NoError(t, ads.AppendAd(ctx, model.AdRecord{ID: "g1", Scope: model.ScopeGlobal}))
	require.NoError(t, ads.AppendAd(ctx, model.AdRecord{ID: "g2", Scope: model.ScopeGlobal}))

	require.NoError(t, v.Reload(ctx))
	got := v.Snapshot().Ads
	require.Len(t, got, 2)
	assert.Equal(t, "g1", got[0].ID)
	assert.Equal(t, "g2", got[1].ID)

	require.NoError(t, v.SetScope(ctx, model.ScopeIndia))
	require.NoError(t, v.SetState(ctx, "Telangana"))
	got = v.Snapshot().Ads
	require.Len(t, got, 2)
	assert.Equal(t, "tg", got[0].ID)
	assert.True(t, got[1].Placeholder)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		in      model.Selection
		want    model.Selection
		wantErr error
	}{
		{"empty", model.Selection{}, model.DefaultSelection(), nil},
		{
			"canonical names",
			model.Selection{Scope: model.ScopeIndia, State: "TELANGANA", District: "warangal", Category: "Sports"},
			model.Selection{Scope: model.ScopeIndia, State: "Telangana", District: "Warangal", Category: "sports"},
			nil,
		},
		{"state outside india", model.Selection{State: "Telangana"}, model.Selection{}, ErrStateOutsideIn},
		{"district without state", model.Selection{Scope: model.ScopeIndia, District: "Warangal"}, model.Selection{}, ErrNoState},
		{"bad scope", model.Selection{Scope: "mars"}, model.Selection{}, ErrUnknownScope},
		{"bad category", model.Selection{Category: "cooking"}, model.Selection{}, ErrUnknownCategory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApply_ReloadsOnce(t *testing.T) {
	f := &stubFetcher{videos: videos(3)}
	v, _ := newTestView(f)

	require.NoError(t, v.Apply(context.Background(), model.Selection{
		Scope: model.ScopeIndia, State: "Andhra Pradesh", District: "Guntur",
	}))

	assert.Len(t, f.feedCalls, 1)
	assert.Equal(t, feedCall{model.CategoryAll, "Guntur"}, f.lastFeed())
	assert.Equal(t, "Guntur", v.Selection().District)
}
