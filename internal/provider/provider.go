package provider

import (
	"image/color"
	"slices"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// FirstParty is the label key for a site's own (non-delegated) login.
const FirstParty = "first"

// supported is kept in the column order of the crawl exports.
var supported = []string{
	"amazon",
	"apple",
	"github",
	"google",
	"facebook",
	"linkedin",
	"microsoft",
	"twitter",
	"yahoo",
}

// categories maps labeler category names to label keys.
var categories = map[string]string{
	"1st":       FirstParty,
	"Amazon":    "amazon",
	"Apple":     "apple",
	"Github":    "github",
	"Google":    "google",
	"Facebook":  "facebook",
	"Linkedin":  "linkedin",
	"Microsoft": "microsoft",
	"Twitter":   "twitter",
	"Yahoo":     "yahoo",
}

// Supported returns the supported provider identifiers in canonical order.
// The returned slice is a copy.
func Supported() []string {
	return slices.Clone(supported)
}

// IsSupported reports whether id is one of the supported providers.
// FirstParty is not a provider and returns false.
func IsSupported(id string) bool {
	return slices.Contains(supported, id)
}

// Normalize lower-cases and trims an identifier read from a file name or a
// data export.
func Normalize(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// Category resolves a labeler category ("Google", "1st") to its label key.
// Categories that do not name a provider ("Other", "Cat-shop") return false.
func Category(name string) (string, bool) {
	key, ok := categories[name]
	return key, ok
}

// Color returns the legend colour used when drawing detections for id.
//
// Supported providers get evenly spaced hues so each is distinguishable on
// the same screenshot. Anything else is drawn in neutral gray.
func Color(id string) color.RGBA {
	idx := slices.Index(supported, id)
	if idx < 0 {
		return color.RGBA{R: 160, G: 160, B: 160, A: 255}
	}
	hue := float64(idx) * 360.0 / float64(len(supported))
	r, g, b := colorful.Hsv(hue, 0.9, 1.0).Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
