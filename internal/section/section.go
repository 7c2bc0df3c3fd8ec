// Package section groups a flat content list into the rows shown on the home
// page.
package section

import (
	"strings"

	"github.com/0x0BSoD/am5tv/internal/model"
)

// Size is the number of items a default row holds.
const Size = 3

// Titles are the fixed rows of the unfiltered home page.
var Titles = [...]string{
	"NEWS TODAY",
	"INDIA FIRST",
	"BUSINESS TODAY",
	"TECH & GADGETS",
	"ENTERTAINMENT",
	"SPORTS 360",
}

// Filtered reports whether the selection collapses the home page into a
// single row: a category is chosen, or a state is chosen within india.
func Filtered(sel model.Selection) bool {
	return (sel.Category != "" && sel.Category != model.CategoryAll) ||
		(sel.Scope == model.ScopeIndia && sel.State != "")
}

// Organize partitions items into sections. Rows may overlap when there are
// few items; no deduplication is attempted.
func Organize(items []model.ContentItem, sel model.Selection) []model.Section {
	if Filtered(sel) {
		return []model.Section{{Title: FilteredTitle(sel), Items: items}}
	}

	sections := make([]model.Section, len(Titles))
	for i, title := range Titles {
		sections[i] = model.Section{Title: title, Items: window(items, i)}
	}

	return sections
}

func FilteredTitle(sel model.Selection) string {
	name := "NEWS"
	if sel.Category != "" && sel.Category != model.CategoryAll {
		name = strings.ToUpper(sel.Category)
	}
	return "LATEST IN " + name
}

// window returns up to Size items starting at (i*Size) mod len(items),
// without wrapping past the end.
func window(items []model.ContentItem, i int) []model.ContentItem {
	if len(items) == 0 {
		return []model.ContentItem{}
	}

	start := (i * Size) % len(items)
	end := min(start+Size, len(items))

	out := make([]model.ContentItem, end-start)
	copy(out, items[start:end])

	return out
}

// Chunk splits items into consecutive groups of size.
func Chunk[T any](items []T, size int) [][]T {
	if size <= 0 {
		return nil
	}
	var out [][]T
	for i := 0; i < len(items); i += size {
		out = append(out, items[i:min(i+size, len(items))])
	}
	return out
}

const (
	// StoryCount is the number of image news shown as visual stories.
	StoryCount = 5
	// SidebarFill is the number of entries the flash news sidebar wants.
	SidebarFill = 20
)

// Stories returns the visual stories part of the image news feed.
func Stories(items []model.ContentItem) []model.ContentItem {
	return items[:min(StoryCount, len(items))]
}

// Sidebar builds the flash news sidebar from the image news feed: the items
// after the stories, or all of them when there are too few, doubled until the
// sidebar is full.
func Sidebar(items []model.ContentItem) []model.ContentItem {
	source := items
	if len(items) > StoryCount {
		source = items[StoryCount:]
	}

	out := append([]model.ContentItem(nil), source...)
	for len(out) > 0 && len(out) < SidebarFill {
		out = append(out, out...)
	}

	return out
}
