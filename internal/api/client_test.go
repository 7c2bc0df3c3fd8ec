package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0x0BSoD/am5tv/internal/model"
)

type staticTokens map[model.Role]string

func (s staticTokens) Token(role model.Role) string { return s[role] }

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL, 5*time.Second, 50)
}

const videoList = `[
	{"id": 1, "title": "Flood in Warangal", "categories": "[\"news\",\"local\"]", "location": "Warangal, Telangana, India",
	 "likesCount": 3, "views": 10, "shareCount": 1, "createdAt": "2025-01-02T10:00:00", "user": {"id": 7, "username": "reporter"}},
	{"id": 2, "title": "Cricket", "categories": "sports, viral", "thumbnailUrl": "https://placehold.co/640x360", "createdAt": "2025-01-03T10:00:00.123"}
]`

func TestFetchFeed_BareList(t *testing.T) {
	var gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/videos/feed", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-Id"))
		gotQuery = r.URL.RawQuery
		_, _ = io.WriteString(w, videoList)
	})

	items, err := c.FetchFeed(context.Background(), model.CategoryAll, "Telangana")
	require.NoError(t, err)

	assert.Equal(t, "location=Telangana&size=50", gotQuery)
	require.Len(t, items, 2)

	assert.Equal(t, model.KindVideo, items[0].Kind)
	assert.Equal(t, []string{"news", "local"}, items[0].Categories)
	assert.Equal(t, "reporter", items[0].Author)
	assert.Equal(t, int64(3), items[0].Likes)
	assert.Equal(t, c.BaseURL()+"/api/videos/1/stream", items[0].StreamURL)
	assert.Equal(t, c.BaseURL()+"/api/videos/1/thumbnail", items[0].ThumbnailURL)
	assert.Equal(t, time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC), items[0].CreatedAt)

	assert.Equal(t, []string{"sports", "viral"}, items[1].Categories)
	assert.Equal(t, DefaultAuthor, items[1].Author)
	assert.Equal(t, "https://placehold.co/640x360", items[1].ThumbnailURL)
}

func TestFetchFeed_CategorySent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "sports", r.URL.Query().Get("category"))
		assert.False(t, r.URL.Query().Has("location"))
		_, _ = io.WriteString(w, `[]`)
	})

	items, err := c.FetchFeed(context.Background(), "sports", "")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestFetchImageNewsFeed_Envelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/image-news/feed", r.URL.Path)
		assert.Equal(t, "0", r.URL.Query().Get("page"))
		assert.Equal(t, "25", r.URL.Query().Get("size"))
		_, _ = io.WriteString(w, `{"content": [{"id": 5, "title": "Rally", "imageUrls": "a.jpg, b.jpg,,c.jpg",
			"categories": ["politics"], "createdAt": "2025-02-01T08:00:00Z"}], "totalElements": 1, "totalPages": 1}`)
	})

	items, err := c.FetchImageNewsFeed(context.Background(), 0, 25, "")
	require.NoError(t, err)
	require.Len(t, items, 1)

	assert.Equal(t, model.KindImageNews, items[0].Kind)
	assert.Equal(t, []string{"a.jpg", "b.jpg", "c.jpg"}, items[0].ImageURLs)
	assert.Equal(t, c.BaseURL()+"/api/image-news/5/image/0", items[0].ThumbnailURL)
	assert.Equal(t, []string{"politics"}, items[0].Categories)
}

func TestFetchFeed_RejectsRecordWithoutID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"title": "no id"}]`)
	})

	_, err := c.FetchFeed(context.Background(), "", "")
	require.ErrorIs(t, err, ErrMalformed)
}

func TestFetchFeed_SkipsMalformedRecords(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[
			{"id": 1, "title": "Flood in Warangal", "createdAt": "2025-01-02T10:00:00"},
			{"id": 2, "title": "Bad date", "createdAt": "yesterday"},
			{"title": "no id"},
			{"id": 4, "title": "Cricket", "createdAt": "2025-01-03T10:00:00"}
		]`)
	})

	items, err := c.FetchFeed(context.Background(), "", "")
	require.NoError(t, err)

	ids := make([]int64, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	assert.Equal(t, []int64{1, 4}, ids)
}

func TestVideo_RejectsMalformedRecord(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"id": 2, "title": "Bad date", "createdAt": "yesterday"}`)
	})

	_, err := c.Video(context.Background(), 2)
	require.ErrorIs(t, err, ErrMalformed)
}

func TestFetchFeed_StatusError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := c.FetchFeed(context.Background(), "", "")

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusInternalServerError, se.Code)
	assert.Equal(t, "boom", se.Body)
	assert.False(t, IsAuthorization(err))
}

func TestFetchFeed_TransportError(t *testing.T) {
	c := New("http://127.0.0.1:1", time.Second, 50)

	_, err := c.FetchFeed(context.Background(), "", "")
	require.Error(t, err)

	var se *StatusError
	assert.False(t, errors.As(err, &se))
}

func TestParseCategories(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{`["news","sports"]`, []string{"news", "sports"}},
		{`"[\"news\"]"`, []string{"news"}},
		{`"news, sports"`, []string{"news", "sports"}},
		{`""`, nil},
		{`null`, nil},
		{``, nil},
		{`42`, nil},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseCategories(json.RawMessage(tt.raw)), tt.raw)
	}
}

func TestAuthenticatedCalls(t *testing.T) {
	var gotAuth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	})

	t.Run("no session", func(t *testing.T) {
		err := c.AddComment(context.Background(), 1, "hi")
		require.ErrorIs(t, err, ErrNotAuthenticated)
		assert.True(t, IsAuthorization(err))
	})

	t.Run("user token", func(t *testing.T) {
		uc := c.WithTokens(staticTokens{model.RoleUser: "u-token"})
		require.NoError(t, uc.Like(context.Background(), model.KindVideo, 1))
		assert.Equal(t, "Bearer u-token", gotAuth)
	})

	t.Run("user call falls back to admin token", func(t *testing.T) {
		ac := c.WithTokens(staticTokens{model.RoleAdmin: "a-token"})
		require.NoError(t, ac.ReportVideo(context.Background(), 1, "spam"))
		assert.Equal(t, "Bearer a-token", gotAuth)
	})

	t.Run("admin call needs admin token", func(t *testing.T) {
		uc := c.WithTokens(staticTokens{model.RoleUser: "u-token"})
		require.ErrorIs(t, uc.Approve(context.Background(), model.KindVideo, 1), ErrNotAuthenticated)
	})

	t.Run("image news like is anonymous", func(t *testing.T) {
		gotAuth = "unset"
		require.NoError(t, c.Like(context.Background(), model.KindImageNews, 3))
		assert.Empty(t, gotAuth)
	})
}

func TestAdminForbidden(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/admin/image-news/9/reject", r.URL.Path)

		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "blurry", body["reason"])

		w.WriteHeader(http.StatusForbidden)
	}).WithTokens(staticTokens{model.RoleAdmin: "expired"})

	err := c.Reject(context.Background(), model.KindImageNews, 9, "blurry")
	assert.True(t, IsAuthorization(err))
}

func TestLoginAdmin(t *testing.T) {
	role := "USER"
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		_ = json.NewEncoder(w).Encode(AuthResponse{
			AccessToken: "tok",
			User:        model.User{ID: 1, Email: "a@b.c", Role: role},
		})
	})

	_, err := c.LoginAdmin(context.Background(), "a@b.c", "secret")
	require.ErrorIs(t, err, ErrNotAdmin)

	role = "ADMIN"
	resp, err := c.LoginAdmin(context.Background(), "a@b.c", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok", resp.AccessToken)
}

func TestRegister_ValidatesBeforeDispatch(t *testing.T) {
	called := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	err := c.Register(context.Background(), model.Registration{Email: "nope"})
	require.Error(t, err)
	assert.True(t, model.IsValidation(err))
	assert.False(t, called)
}

func TestUpload_Multipart(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/image-news/upload", r.URL.Path)
		assert.Equal(t, "Bearer u", r.Header.Get("Authorization"))
		assert.NoError(t, r.ParseMultipartForm(1<<20))

		assert.Equal(t, "Warangal, Telangana, India", r.FormValue("location"))
		assert.Equal(t, `["local"]`, r.FormValue("categories"))
		assert.Len(t, r.MultipartForm.File["imageFiles"], 2)

		_, _ = io.WriteString(w, `{"id": 12, "status": "PENDING"}`)
	}).WithTokens(staticTokens{model.RoleUser: "u"})

	res, err := c.Upload(context.Background(), model.UploadRequest{
		Kind:        model.KindImageNews,
		Title:       "Bridge opened",
		Description: "The new bridge opened today",
		Category:    "local",
		Scope:       model.ScopeIndia,
		State:       "Telangana",
		District:    "Warangal",
		Files: []model.MediaFile{
			{Name: "a.jpg", Reader: strings.NewReader("aaa")},
			{Name: "b.jpg", Reader: strings.NewReader("bbb")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(12), res.ID)
	assert.Equal(t, "PENDING", res.Status)
}

func TestUpload_Invalid(t *testing.T) {
	c := New("http://127.0.0.1:1", time.Second, 50)

	_, err := c.Upload(context.Background(), model.UploadRequest{Kind: model.KindVideo})
	require.Error(t, err)
	assert.True(t, model.IsValidation(err))
}
