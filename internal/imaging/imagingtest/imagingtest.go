// Package imagingtest builds synthetic logos and screenshots for tests.
package imagingtest

import (
	"image"
	"image/draw"
	"image/png"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"
)

// Background is the page intensity used by Canvas and the logo border.
const Background = 255

const (
	logoBorder = 2
	logoBlock  = 6
)

// Logo returns a size×size grayscale logo whose interior is a grid of
// 6-pixel blocks with pseudo-random intensities. Different seeds give
// uncorrelated logos. The outer 2 pixels match Background so the logo
// blends into a Canvas at its edges.
func Logo(seed uint64, size int) *image.Gray {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	cells := (size - 2*logoBorder + logoBlock - 1) / logoBlock
	shades := make([]uint8, cells*cells)
	for i := range shades {
		shades[i] = uint8(rng.IntN(200))
	}

	img := image.NewGray(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			v := uint8(Background)
			if x >= logoBorder && x < size-logoBorder && y >= logoBorder && y < size-logoBorder {
				cx := (x - logoBorder) / logoBlock
				cy := (y - logoBorder) / logoBlock
				v = shades[cy*cells+cx]
			}
			img.Pix[y*img.Stride+x] = v
		}
	}
	return img
}

// Canvas returns a w×h grayscale image filled with Background.
func Canvas(w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = Background
	}
	return img
}

// Noise returns a w×h image of per-pixel random intensities.
func Noise(seed uint64, w, h int) *image.Gray {
	rng := rand.New(rand.NewPCG(seed, seed+1))
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = uint8(rng.IntN(256))
	}
	return img
}

// Paste copies src onto dst with its top-left corner at (x, y).
func Paste(dst *image.Gray, src image.Image, x, y int) {
	b := src.Bounds()
	draw.Draw(dst, image.Rect(x, y, x+b.Dx(), y+b.Dy()), src, b.Min, draw.Src)
}

// WritePNG encodes img to dir/name and returns the path.
func WritePNG(tb testing.TB, dir, name string, img image.Image) string {
	tb.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		tb.Fatalf("failed to create %s: %v", path, err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		tb.Fatalf("failed to encode %s: %v", path, err)
	}
	return path
}
