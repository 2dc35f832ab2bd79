package imaging

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"
)

// ToGray converts img to single-channel luminance.
//
// A *image.Gray whose bounds start at the origin is returned as is; callers
// must not modify it. Everything else is converted with bild's luminance
// weights, discarding color and alpha. The result always has Min == (0,0).
func ToGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok && g.Rect.Min == (image.Point{}) {
		return g
	}
	return fromRGBA(effect.Grayscale(img))
}

// fromRGBA copies the red channel of bild's grayscale output, which stores
// the luminance in R, G and B alike, into a Gray based at the origin.
func fromRGBA(src *image.RGBA) *image.Gray {
	b := src.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		off := src.PixOffset(b.Min.X, b.Min.Y+y)
		dstRow := dst.Pix[y*dst.Stride:]
		for x := 0; x < b.Dx(); x++ {
			dstRow[x] = src.Pix[off+x*4]
		}
	}
	return dst
}

// Scale resizes a grayscale image uniformly by factor using a linear filter.
//
// Target dimensions are rounded to the nearest pixel and never drop below 1.
// A factor of 1 returns the input unchanged.
func Scale(img *image.Gray, factor float64) *image.Gray {
	if factor == 1 {
		return img
	}
	b := img.Bounds()
	w := scaledDim(b.Dx(), factor)
	h := scaledDim(b.Dy(), factor)
	return fromNRGBA(imaging.Resize(img, w, h, imaging.Linear))
}

func scaledDim(n int, factor float64) int {
	d := int(math.Round(float64(n) * factor))
	if d < 1 {
		return 1
	}
	return d
}

// fromNRGBA copies the red channel of a resized gray image. Resizing a
// gray source keeps R == G == B, so no weighting is needed.
func fromNRGBA(src *image.NRGBA) *image.Gray {
	b := src.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		srcRow := src.Pix[y*src.Stride:]
		dstRow := dst.Pix[y*dst.Stride:]
		for x := 0; x < b.Dx(); x++ {
			dstRow[x] = srcRow[x*4]
		}
	}
	return dst
}
