// Package locale turns the scope/state/district selection of a view into the
// location string sent to the backend and filters locally stored ads by it.
package locale

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/0x0BSoD/am5tv/internal/model"
)

// MinAds is the number of ad slots a view always fills.
const MinAds = 2

// Location returns the most specific location of the selection: district if
// set, else state, else "India" for the india scope. An empty string means
// the query is unscoped.
func Location(sel model.Selection) string {
	switch {
	case sel.District != "":
		return sel.District
	case sel.State != "":
		return sel.State
	case sel.Scope == model.ScopeIndia:
		return "India"
	default:
		return ""
	}
}

// ImageNewsLocation is Location without the country fallback; the image news
// feed is global unless a state or district is chosen.
func ImageNewsLocation(sel model.Selection) string {
	if sel.District != "" {
		return sel.District
	}
	return sel.State
}

// FilterAds keeps the ads recorded for the selected scope and, when chosen,
// for the selected state and district.
func FilterAds(ads []model.AdRecord, sel model.Selection) []model.AdRecord {
	return lo.Filter(ads, func(ad model.AdRecord, _ int) bool {
		if sel.Scope != ad.Scope {
			return false
		}
		if sel.Scope == model.ScopeIndia && sel.State != "" && sel.State != ad.State {
			return false
		}
		if sel.District != "" && sel.District != ad.District {
			return false
		}
		return true
	})
}

// WithFallback pads ads with placeholder records up to MinAds.
func WithFallback(ads []model.AdRecord) []model.AdRecord {
	out := make([]model.AdRecord, 0, max(len(ads), MinAds))
	out = append(out, ads...)

	for i := len(out); i < MinAds; i++ {
		out = append(out, Placeholder(i+1))
	}

	return out
}

func Placeholder(n int) model.AdRecord {
	return model.AdRecord{
		ID:          fmt.Sprintf("placeholder-%d", n),
		Scope:       model.ScopeGlobal,
		MediaURL:    fmt.Sprintf("https://placehold.co/640x360?text=Ad+%d", n),
		Placeholder: true,
	}
}
