package bot

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/0x0BSoD/am5tv/internal/api"
	"github.com/0x0BSoD/am5tv/internal/botkit/markup"
	"github.com/0x0BSoD/am5tv/internal/carousel"
	"github.com/0x0BSoD/am5tv/internal/home"
	"github.com/0x0BSoD/am5tv/internal/locale"
	"github.com/0x0BSoD/am5tv/internal/model"
	"github.com/0x0BSoD/am5tv/internal/section"
)

const (
	flashLimit = 5
	// sectionLimit caps the rows of a home section; a filtered selection
	// puts the whole feed in one section.
	sectionLimit = 10
	adLimit      = 5
	// maxListed caps every item and record listing.
	maxListed = 20

	titleLen  = 72
	authorLen = 32
	fieldLen  = 64
	reasonLen = 120
	bodyLen   = 3000
)

func selectionLine(sel model.Selection) string {
	place := "Global"
	if sel.Scope == model.ScopeIndia {
		place = strings.Join(lo.Compact([]string{sel.District, sel.State, "India"}), ", ")
	}

	category := "All categories"
	if cat, ok := locale.LookupCategory(sel.Category); ok && cat.ID != model.CategoryAll {
		category = cat.Label
	}

	return fmt.Sprintf("📍 %s · 🏷 %s", place, category)
}

func author(item model.ContentItem) string {
	if item.Author == "" {
		return api.DefaultAuthor
	}
	return markup.Truncate(item.Author, authorLen)
}

// moreLine tells how many entries a capped listing left out.
func moreLine(hidden int, hint string) string {
	return markup.Italic(fmt.Sprintf("…and %d more%s", hidden, hint))
}

func itemLine(item model.ContentItem, rot *carousel.Rotator) string {
	link := item.StreamURL
	icon := "🎬"
	if item.IsImageNews() {
		icon = "📰"
		if rot != nil {
			link = rot.Current(item)
		}
		if link == "" {
			link = item.ThumbnailURL
		}
	}

	title := markup.Truncate(item.Title, titleLen)
	if title == "" {
		title = fmt.Sprintf("%s %d", kindLabel(item.Kind), item.ID)
	}

	return fmt.Sprintf("%s %s %s",
		icon,
		markup.Link(title, link),
		markup.EscapeForMarkdown(fmt.Sprintf("· %s · #%d", author(item), item.ID)),
	)
}

func adLine(ad model.AdRecord) string {
	name := markup.Truncate(ad.Name, fieldLen)
	if ad.Placeholder || name == "" {
		name = "Advertise here"
	}
	if ad.MediaURL == "" {
		return "📣 " + markup.EscapeForMarkdown(name)
	}
	return "📣 " + markup.Link(name, ad.MediaURL)
}

// renderHome draws the home view: ads, sections, stories and the flash line.
func renderHome(snap home.Snapshot, rot *carousel.Rotator) string {
	var sb strings.Builder

	sb.WriteString(markup.Bold("AM5TV") + "\n")
	sb.WriteString(markup.EscapeForMarkdown(selectionLine(snap.Selection)) + "\n\n")

	for _, ad := range lo.Subset(snap.Ads, 0, adLimit) {
		sb.WriteString(adLine(ad) + "\n")
	}

	for _, sec := range snap.Sections {
		sb.WriteString("\n" + markup.Bold(sec.Title) + "\n")
		if len(sec.Items) == 0 {
			sb.WriteString(markup.Italic("No videos yet") + "\n")
			continue
		}
		for _, item := range lo.Subset(sec.Items, 0, sectionLimit) {
			sb.WriteString(itemLine(item, rot) + "\n")
		}
		if hidden := len(sec.Items) - sectionLimit; hidden > 0 {
			sb.WriteString(moreLine(hidden, ", see /news") + "\n")
		}
	}

	if len(snap.Stories) > 0 {
		sb.WriteString("\n" + markup.Bold("STORIES") + "\n")
		for _, pair := range section.Chunk(snap.Stories, 2) {
			lines := lo.Map(pair, func(item model.ContentItem, _ int) string { return itemLine(item, rot) })
			sb.WriteString(strings.Join(lines, "\n") + "\n")
		}
	}

	flash := lo.UniqBy(snap.Sidebar, func(item model.ContentItem) int64 { return item.ID })
	if len(flash) > 0 {
		titles := lo.Map(lo.Subset(flash, 0, flashLimit), func(item model.ContentItem, _ int) string {
			return markup.Truncate(item.Title, fieldLen)
		})
		sb.WriteString("\n⚡ " + markup.EscapeForMarkdown(strings.Join(titles, " | ")) + "\n")
	}

	return sb.String()
}

func renderItems(title string, items []model.ContentItem, rot *carousel.Rotator) string {
	var sb strings.Builder

	sb.WriteString(markup.Bold(title) + "\n")
	if len(items) == 0 {
		sb.WriteString(markup.Italic("Nothing here yet"))
		return sb.String()
	}
	for _, item := range lo.Subset(items, 0, maxListed) {
		sb.WriteString(itemLine(item, rot) + "\n")
	}
	if hidden := len(items) - maxListed; hidden > 0 {
		sb.WriteString(moreLine(hidden, "") + "\n")
	}

	return sb.String()
}

// writeHidden notes the entries of a plain text listing of total that
// maxListed left out.
func writeHidden(sb *strings.Builder, total int) {
	if hidden := total - maxListed; hidden > 0 {
		fmt.Fprintf(sb, "\n…and %d more", hidden)
	}
}

// renderItem is the detail card of a single video or image news item.
func renderItem(item model.ContentItem) string {
	var sb strings.Builder

	sb.WriteString(markup.Bold(markup.Truncate(item.Title, titleLen*2)) + "\n")
	sb.WriteString(markup.EscapeForMarkdown(fmt.Sprintf("%s · %s", author(item), item.CreatedAt.Format("02 Jan 2006"))) + "\n")
	if item.Location != "" {
		sb.WriteString(markup.EscapeForMarkdown("📍 "+markup.Truncate(item.Location, fieldLen*2)) + "\n")
	}
	if len(item.Categories) > 0 {
		sb.WriteString(markup.EscapeForMarkdown("🏷 "+markup.Truncate(strings.Join(item.Categories, ", "), fieldLen*2)) + "\n")
	}
	if item.Description != "" {
		sb.WriteString("\n" + markup.EscapeForMarkdown(markup.Truncate(item.Description, bodyLen)) + "\n")
	}

	sb.WriteString("\n" + markup.EscapeForMarkdown(fmt.Sprintf("👁 %d  ❤️ %d  🔁 %d", item.Views, item.Likes, item.Shares)) + "\n")
	if item.StreamURL != "" {
		sb.WriteString(markup.Link("▶️ Watch", item.StreamURL) + "\n")
	}

	return sb.String()
}
