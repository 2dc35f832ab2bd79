package matcher

import (
	"image"
	"slices"
)

// Result describes one accepted template match.
type Result struct {
	// Confidence is the correlation score of the accepted variant.
	Confidence float64 `json:"confidence"`

	// Provider is the provider id of the matched template.
	Provider string `json:"provider"`

	// TemplateName names the variant that matched, e.g. "google-20.jpg_1".
	TemplateName string `json:"template_name"`

	TemplateWidth  int `json:"template_width"`
	TemplateHeight int `json:"template_height"`

	// X, Y is the top-left corner of the match in screenshot pixels.
	X int `json:"match_x"`
	Y int `json:"match_y"`
}

// Bounds returns the screenshot region covered by the match.
func (r Result) Bounds() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.TemplateWidth, r.Y+r.TemplateHeight)
}

// Providers returns the sorted provider ids present in results.
func Providers(results []Result) []string {
	out := make([]string, 0, len(results))
	for _, r := range results {
		if !slices.Contains(out, r.Provider) {
			out = append(out, r.Provider)
		}
	}
	slices.Sort(out)
	return out
}
