package report

import (
	"fmt"

	"github.com/ironsheep/ssodetect/internal/imaging"
	"github.com/ironsheep/ssodetect/internal/matcher"
	"github.com/ironsheep/ssodetect/internal/provider"
)

// Overlay returns the boxes and legend that outline results on their
// screenshot. Each provider gets its legend colour and one legend line.
func Overlay(results []matcher.Result) ([]imaging.Box, []imaging.LegendEntry) {
	boxes := make([]imaging.Box, 0, len(results))
	legend := make([]imaging.LegendEntry, 0, len(results))
	for _, r := range results {
		c := provider.Color(r.Provider)
		boxes = append(boxes, imaging.Box{Rect: r.Bounds(), Color: c})
		legend = append(legend, imaging.LegendEntry{
			Label: fmt.Sprintf("%s %.3f", r.Provider, r.Confidence),
			Color: c,
		})
	}
	return boxes, legend
}
