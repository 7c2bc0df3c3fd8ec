package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/samber/lo"

	"github.com/0x0BSoD/am5tv/internal/carousel"
	"github.com/0x0BSoD/am5tv/internal/home"
	"github.com/0x0BSoD/am5tv/internal/locale"
	"github.com/0x0BSoD/am5tv/internal/model"
)

type handlers struct {
	opts Options
}

type itemJSON struct {
	Kind         model.Kind `json:"kind"`
	ID           int64      `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	ThumbnailURL string     `json:"thumbnailUrl,omitempty"`
	StreamURL    string     `json:"streamUrl,omitempty"`
	ImageURLs    []string   `json:"imageUrls,omitempty"`
	Location     string     `json:"location,omitempty"`
	Categories   []string   `json:"categories,omitempty"`
	Author       string     `json:"author,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	Views        int64      `json:"views"`
	Likes        int64      `json:"likes"`
	Shares       int64      `json:"shares"`
}

type sectionJSON struct {
	Title string     `json:"title"`
	Items []itemJSON `json:"items"`
}

type selectionJSON struct {
	Scope    model.Scope `json:"scope"`
	State    string      `json:"state,omitempty"`
	District string      `json:"district,omitempty"`
	Category string      `json:"category"`
	Location string      `json:"location"`
}

type homeJSON struct {
	Selection selectionJSON    `json:"selection"`
	Sections  []sectionJSON    `json:"sections"`
	Ads       []model.AdRecord `json:"ads"`
	Stories   []itemJSON       `json:"stories"`
	Sidebar   []itemJSON       `json:"sidebar"`
	LoadedAt  time.Time        `json:"loadedAt"`
}

func toItemJSON(item model.ContentItem, _ int) itemJSON {
	return itemJSON{
		Kind:         item.Kind,
		ID:           item.ID,
		Title:        item.Title,
		Description:  item.Description,
		ThumbnailURL: item.ThumbnailURL,
		StreamURL:    item.StreamURL,
		ImageURLs:    item.ImageURLs,
		Location:     item.Location,
		Categories:   item.Categories,
		Author:       item.Author,
		CreatedAt:    item.CreatedAt,
		Views:        item.Views,
		Likes:        item.Likes,
		Shares:       item.Shares,
	}
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handlers) health(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

var selectionErrors = []error{
	home.ErrUnknownScope,
	home.ErrUnknownState,
	home.ErrUnknownDistrict,
	home.ErrUnknownCategory,
	home.ErrStateOutsideIn,
	home.ErrNoState,
}

// home loads the home view for the selection given in the query.
func (h *handlers) home(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sel := model.Selection{
		Scope:    model.Scope(q.Get("scope")),
		State:    q.Get("state"),
		District: q.Get("district"),
		Category: q.Get("category"),
	}

	view := home.NewView(h.opts.Fetcher, h.opts.Ads, h.opts.ImageNewsSize, carousel.New(h.opts.CarouselInterval))

	if err := view.Apply(r.Context(), sel); err != nil {
		if lo.ContainsBy(selectionErrors, func(target error) bool { return errors.Is(err, target) }) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("[ERROR] failed to load home: %v", err)
		writeError(w, http.StatusBadGateway, "content backend unavailable")
		return
	}

	snap := view.Snapshot()
	writeJSON(w, http.StatusOK, homeJSON{
		Selection: selectionJSON{
			Scope:    snap.Selection.Scope,
			State:    snap.Selection.State,
			District: snap.Selection.District,
			Category: snap.Selection.Category,
			Location: locale.Location(snap.Selection),
		},
		Sections: lo.Map(snap.Sections, func(s model.Section, _ int) sectionJSON {
			return sectionJSON{Title: s.Title, Items: lo.Map(s.Items, toItemJSON)}
		}),
		Ads:      snap.Ads,
		Stories:  lo.Map(snap.Stories, toItemJSON),
		Sidebar:  lo.Map(snap.Sidebar, toItemJSON),
		LoadedAt: snap.LoadedAt,
	})
}

type categoryJSON struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Visible bool   `json:"visible"`
}

type catalogJSON struct {
	Categories []categoryJSON      `json:"categories"`
	Districts  map[string][]string `json:"districts"`
}

func (h *handlers) categories(w http.ResponseWriter, _ *http.Request) {
	visible := len(locale.VisibleCategories())

	writeJSON(w, http.StatusOK, catalogJSON{
		Categories: lo.Map(locale.Categories(), func(c locale.Category, i int) categoryJSON {
			return categoryJSON{ID: c.ID, Label: c.Label, Visible: i < visible}
		}),
		Districts: lo.SliceToMap(locale.States(), func(state string) (string, []string) {
			return state, locale.Districts(state)
		}),
	})
}
