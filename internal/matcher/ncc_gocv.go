//go:build gocv && cgo

package matcher

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// correlate fills out with OpenCV's TM_CCOEFF_NORMED scores for a template
// that is not flat. Flat windows are forced to 0 and scores are clamped to
// [-1, 1] so both builds agree on the edge cases.
func correlate(img, tmpl *image.Gray, out *ScoreMap) error {
	src, err := grayToMat(img)
	if err != nil {
		return err
	}
	defer src.Close()

	t, err := grayToMat(tmpl)
	if err != nil {
		return err
	}
	defer t.Close()

	res := gocv.NewMat()
	defer res.Close()
	mask := gocv.NewMat()
	defer mask.Close()

	gocv.MatchTemplate(src, t, &res, gocv.TmCcoeffNormed, mask)
	if res.Cols() != out.Width || res.Rows() != out.Height {
		return fmt.Errorf("matchTemplate returned %dx%d, want %dx%d",
			res.Cols(), res.Rows(), out.Width, out.Height)
	}
	scores, err := res.DataPtrFloat32()
	if err != nil {
		return fmt.Errorf("matchTemplate result: %w", err)
	}

	tb := tmpl.Bounds()
	nvar := windowVariances(img, tb.Dx(), tb.Dy(), out)
	for i, v := range scores {
		if nvar[i] <= 0 {
			continue
		}
		out.Scores[i] = clamp(float64(v))
	}
	return nil
}

// grayToMat copies g into a single-channel 8-bit Mat. The pixels are packed
// first because Mat rows cannot carry a sub-image's stride.
func grayToMat(g *image.Gray) (gocv.Mat, error) {
	b := g.Bounds()
	w, h := b.Dx(), b.Dy()
	buf := make([]byte, w*h)
	for y := 0; y < h; y++ {
		copy(buf[y*w:(y+1)*w], g.Pix[g.PixOffset(b.Min.X, b.Min.Y+y):])
	}
	m, err := gocv.NewMatFromBytes(h, w, gocv.MatTypeCV8UC1, buf)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("failed to create mat: %w", err)
	}
	return m, nil
}
