//go:build !gocv || !cgo

package matcher

import (
	"image"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// correlate fills out with scores for a template that is not flat. Output
// rows are split into bands that are scored concurrently.
func correlate(img, tmpl *image.Gray, out *ScoreMap) error {
	ib, tb := img.Bounds(), tmpl.Bounds()
	W, H := ib.Dx(), ib.Dy()
	w, h := tb.Dx(), tb.Dy()
	n := float64(w * h)

	// Zero-mean template. Because the centred template sums to zero, the
	// window mean drops out of the numerator.
	var tsum int64
	for y := 0; y < h; y++ {
		row := tmpl.Pix[tmpl.PixOffset(tb.Min.X, tb.Min.Y+y):]
		for x := 0; x < w; x++ {
			tsum += int64(row[x])
		}
	}
	tmean := float64(tsum) / n
	tc := make([]float64, w*h)
	var tnorm2 float64
	for y := 0; y < h; y++ {
		row := tmpl.Pix[tmpl.PixOffset(tb.Min.X, tb.Min.Y+y):]
		for x := 0; x < w; x++ {
			d := float64(row[x]) - tmean
			tc[y*w+x] = d
			tnorm2 += d * d
		}
	}
	tnorm := math.Sqrt(tnorm2)

	pix := make([]float64, W*H)
	for y := 0; y < H; y++ {
		row := img.Pix[img.PixOffset(ib.Min.X, ib.Min.Y+y):]
		for x := 0; x < W; x++ {
			pix[y*W+x] = float64(row[x])
		}
	}
	nvar := windowVariances(img, w, h, out)

	scoreRow := func(y int) {
		for x := 0; x < out.Width; x++ {
			i := y*out.Width + x
			if nvar[i] <= 0 {
				continue
			}

			var num float64
			for ty := 0; ty < h; ty++ {
				off := (y+ty)*W + x
				irow := pix[off : off+w]
				trow := tc[ty*w : ty*w+w]
				for u, t := range trow {
					num += t * irow[u]
				}
			}

			denom := tnorm * math.Sqrt(float64(nvar[i])/n)
			out.Scores[i] = clamp(num / denom)
		}
	}

	workers := runtime.GOMAXPROCS(0)
	band := (out.Height + workers - 1) / workers
	var g errgroup.Group
	for start := 0; start < out.Height; start += band {
		end := min(start+band, out.Height)
		g.Go(func() error {
			for y := start; y < end; y++ {
				scoreRow(y)
			}
			return nil
		})
	}
	return g.Wait()
}
