package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Box is a labeled rectangle to outline on an image.
type Box struct {
	Rect  image.Rectangle
	Color color.RGBA
}

// LegendEntry is one line of the legend drawn in the top-left corner.
type LegendEntry struct {
	Label string
	Color color.RGBA
}

const (
	boxThickness = 2
	legendMargin = 8
	legendLineH  = 16
)

// Annotate returns a color copy of img with every box outlined and the legend
// entries written in the top-left corner. img is not modified.
//
// Boxes are clipped to the image bounds. Legend lines are drawn with the
// 7x13 basic font over a translucent black backdrop so they stay readable on
// both light and dark pages.
func Annotate(img image.Image, boxes []Box, legend []LegendEntry) *image.RGBA {
	bounds := img.Bounds()
	out := image.NewRGBA(bounds)
	draw.Draw(out, bounds, img, bounds.Min, draw.Src)

	for _, b := range boxes {
		drawRect(out, b.Rect, b.Color, boxThickness)
	}

	if len(legend) > 0 {
		drawLegend(out, legend)
	}

	return out
}

// drawRect outlines r with the given stroke width, clipped to img.
func drawRect(img *image.RGBA, r image.Rectangle, c color.RGBA, thickness int) {
	r = r.Canon()
	edges := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+thickness),
		image.Rect(r.Min.X, r.Max.Y-thickness, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+thickness, r.Max.Y),
		image.Rect(r.Max.X-thickness, r.Min.Y, r.Max.X, r.Max.Y),
	}
	src := image.NewUniform(c)
	for _, e := range edges {
		e = e.Intersect(img.Bounds())
		if e.Empty() {
			continue
		}
		draw.Draw(img, e, src, image.Point{}, draw.Src)
	}
}

func drawLegend(img *image.RGBA, legend []LegendEntry) {
	face := basicfont.Face7x13
	bounds := img.Bounds()

	widest := 0
	for _, e := range legend {
		if w := font.MeasureString(face, e.Label).Ceil(); w > widest {
			widest = w
		}
	}

	bg := image.Rect(
		bounds.Min.X,
		bounds.Min.Y,
		bounds.Min.X+widest+2*legendMargin,
		bounds.Min.Y+len(legend)*legendLineH+legendMargin,
	).Intersect(bounds)
	draw.Draw(img, bg, image.NewUniform(color.RGBA{0, 0, 0, 180}), image.Point{}, draw.Over)

	for i, e := range legend {
		d := &font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(e.Color),
			Face: face,
			Dot: fixed.Point26_6{
				X: fixed.I(bounds.Min.X + legendMargin),
				Y: fixed.I(bounds.Min.Y + (i+1)*legendLineH),
			},
		}
		d.DrawString(e.Label)
	}
}

// AnnotateResult contains an annotated image encoded as base64 PNG.
type AnnotateResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
	Boxes       int    `json:"boxes"`
}

// EncodeAnnotation annotates img and returns the result as base64 PNG.
func EncodeAnnotation(img image.Image, boxes []Box, legend []LegendEntry) (*AnnotateResult, error) {
	out := Annotate(img, boxes, legend)

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("failed to encode annotated image: %w", err)
	}

	return &AnnotateResult{
		Width:       out.Bounds().Dx(),
		Height:      out.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
		Boxes:       len(boxes),
	}, nil
}

// Save writes img to path. The format follows the file extension.
func Save(path string, img image.Image) error {
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("failed to save image %s: %w", path, err)
	}
	return nil
}
