package matcher

import (
	"errors"
	"fmt"
	"image"
	"math"
)

// ErrTemplateTooLarge is returned when a template does not fit inside the
// image it is correlated against.
var ErrTemplateTooLarge = errors.New("template larger than target")

// ScoreMap holds one correlation score per template position. The score at
// (x, y) belongs to the window whose top-left corner is (x, y).
type ScoreMap struct {
	Width  int
	Height int
	Scores []float32
}

// At returns the score for the window at (x, y).
func (s *ScoreMap) At(x, y int) float64 {
	return float64(s.Scores[y*s.Width+x])
}

// Max returns the highest score and its window position. Ties resolve to the
// first position in row-major order.
func (s *ScoreMap) Max() (float64, image.Point) {
	best := float32(math.Inf(-1))
	bestIdx := 0
	for i, v := range s.Scores {
		if v > best {
			best = v
			bestIdx = i
		}
	}
	return float64(best), image.Pt(bestIdx%s.Width, bestIdx/s.Width)
}

// CheckFits returns ErrTemplateTooLarge unless tmpl fits inside img.
func CheckFits(img, tmpl image.Rectangle) error {
	if tmpl.Dx() > img.Dx() || tmpl.Dy() > img.Dy() {
		return fmt.Errorf("%w: template %dx%d, image %dx%d",
			ErrTemplateTooLarge, tmpl.Dx(), tmpl.Dy(), img.Dx(), img.Dy())
	}
	return nil
}

// NCC correlates tmpl with every window of img it fits into.
//
// The score is the zero-mean normalized cross-correlation
//
//	sum((T - mean T) * (I - mean I)) / sqrt(sum((T - mean T)^2) * sum((I - mean I)^2))
//
// taken over the window, which is the TM_CCOEFF_NORMED formulation. A flat
// template or a flat window scores 0.
//
// The default build computes scores in pure Go. Building with the gocv tag
// (and cgo) hands the correlation to OpenCV's matchTemplate instead.
func NCC(img, tmpl *image.Gray) (*ScoreMap, error) {
	ib, tb := img.Bounds(), tmpl.Bounds()
	if tb.Empty() {
		return nil, errors.New("empty template")
	}
	if err := CheckFits(ib, tb); err != nil {
		return nil, err
	}

	out := &ScoreMap{Width: ib.Dx() - tb.Dx() + 1, Height: ib.Dy() - tb.Dy() + 1}
	out.Scores = make([]float32, out.Width*out.Height)
	if flat(tmpl) {
		return out, nil
	}
	if err := correlate(img, tmpl, out); err != nil {
		return nil, err
	}
	return out, nil
}

// flat reports whether every pixel of g has the same value.
func flat(g *image.Gray) bool {
	b := g.Bounds()
	first := g.Pix[g.PixOffset(b.Min.X, b.Min.Y)]
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := g.Pix[g.PixOffset(b.Min.X, y):]
		for x := 0; x < b.Dx(); x++ {
			if row[x] != first {
				return false
			}
		}
	}
	return true
}

// windowVariances returns n times the sum of squared deviations of every
// window, laid out like out.Scores. It is exact in integers, so a value of
// zero marks a flat window.
func windowVariances(img *image.Gray, w, h int, out *ScoreMap) []int64 {
	sum, sq := integral(img)
	stride := img.Bounds().Dx() + 1
	n := int64(w * h)
	nvar := make([]int64, out.Width*out.Height)
	for y := 0; y < out.Height; y++ {
		for x := 0; x < out.Width; x++ {
			s := windowSum(sum, stride, x, y, w, h)
			s2 := windowSum(sq, stride, x, y, w, h)
			nvar[y*out.Width+x] = n*s2 - s*s
		}
	}
	return nvar
}

func clamp(score float64) float32 {
	if score > 1 {
		return 1
	}
	if score < -1 {
		return -1
	}
	return float32(score)
}

// integral returns summed-area tables of the pixel values and their squares,
// each (W+1)*(H+1) with a zero first row and column.
func integral(img *image.Gray) (sum, sq []int64) {
	b := img.Bounds()
	W, H := b.Dx(), b.Dy()
	stride := W + 1
	sum = make([]int64, stride*(H+1))
	sq = make([]int64, stride*(H+1))
	for y := 0; y < H; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, b.Min.Y+y):]
		var rs, rq int64
		for x := 0; x < W; x++ {
			p := int64(row[x])
			rs += p
			rq += p * p
			i := (y+1)*stride + x + 1
			sum[i] = sum[i-stride] + rs
			sq[i] = sq[i-stride] + rq
		}
	}
	return sum, sq
}

func windowSum(t []int64, stride, x, y, w, h int) int64 {
	return t[(y+h)*stride+x+w] - t[y*stride+x+w] - t[(y+h)*stride+x] + t[y*stride+x]
}
