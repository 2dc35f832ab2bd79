package matcher

import (
	"errors"
	"image"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/ssodetect/internal/imaging/imagingtest"
)

func TestNCC_ExactLocation(t *testing.T) {
	img := imagingtest.Canvas(80, 60)
	logo := imagingtest.Logo(11, 20)
	imagingtest.Paste(img, logo, 33, 17)

	scores, err := NCC(img, logo)
	require.NoError(t, err)
	assert.Equal(t, 61, scores.Width)
	assert.Equal(t, 41, scores.Height)

	best, loc := scores.Max()
	assert.InDelta(t, 1.0, best, 1e-5)
	assert.Equal(t, image.Pt(33, 17), loc)
}

func TestNCC_SameSize(t *testing.T) {
	logo := imagingtest.Logo(5, 16)
	scores, err := NCC(logo, logo)
	require.NoError(t, err)
	require.Len(t, scores.Scores, 1)
	assert.InDelta(t, 1.0, scores.At(0, 0), 1e-5)
}

func TestNCC_InvertedContrast(t *testing.T) {
	logo := imagingtest.Logo(5, 16)
	inv := image.NewGray(logo.Bounds())
	for i, v := range logo.Pix {
		inv.Pix[i] = 255 - v
	}

	scores, err := NCC(inv, logo)
	require.NoError(t, err)
	assert.InDelta(t, -1.0, scores.At(0, 0), 1e-5)
}

func TestNCC_LinearBrightnessInvariance(t *testing.T) {
	logo := imagingtest.Logo(8, 20)
	img := imagingtest.Canvas(50, 50)
	imagingtest.Paste(img, logo, 10, 12)
	for i, v := range img.Pix {
		img.Pix[i] = v/2 + 40
	}

	scores, err := NCC(img, logo)
	require.NoError(t, err)
	best, loc := scores.Max()
	assert.Greater(t, best, 0.99)
	assert.Equal(t, image.Pt(10, 12), loc)
}

func TestNCC_FlatInputsScoreZero(t *testing.T) {
	flat := imagingtest.Canvas(10, 10)
	logo := imagingtest.Logo(1, 10)

	t.Run("flat template", func(t *testing.T) {
		scores, err := NCC(imagingtest.Noise(1, 30, 30), flat)
		require.NoError(t, err)
		for _, s := range scores.Scores {
			require.Zero(t, s)
		}
	})

	t.Run("flat image", func(t *testing.T) {
		scores, err := NCC(imagingtest.Canvas(30, 30), logo)
		require.NoError(t, err)
		best, _ := scores.Max()
		assert.Zero(t, best)
	})
}

func TestNCC_SubImage(t *testing.T) {
	img := imagingtest.Canvas(60, 60)
	logo := imagingtest.Logo(3, 20)
	imagingtest.Paste(img, logo, 30, 30)

	sub := img.SubImage(image.Rect(20, 20, 60, 60)).(*image.Gray)
	scores, err := NCC(sub, logo)
	require.NoError(t, err)
	best, loc := scores.Max()
	assert.InDelta(t, 1.0, best, 1e-5)
	assert.Equal(t, image.Pt(10, 10), loc)
}

// directNCC scores one window straight from the defining formula.
func directNCC(img, tmpl *image.Gray, x0, y0 int) float64 {
	w, h := tmpl.Bounds().Dx(), tmpl.Bounds().Dy()
	var tm, im float64
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			tm += float64(tmpl.GrayAt(x, y).Y)
			im += float64(img.GrayAt(x0+x, y0+y).Y)
		}
	}
	n := float64(w * h)
	tm, im = tm/n, im/n

	var num, tv, iv float64
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dt := float64(tmpl.GrayAt(x, y).Y) - tm
			di := float64(img.GrayAt(x0+x, y0+y).Y) - im
			num += dt * di
			tv += dt * dt
			iv += di * di
		}
	}
	if tv == 0 || iv == 0 {
		return 0
	}
	return num / math.Sqrt(tv*iv)
}

func TestNCC_MatchesDirectFormula(t *testing.T) {
	img := imagingtest.Noise(7, 64, 48)
	imagingtest.Paste(img, imagingtest.Canvas(64, 10), 0, 0)
	tmpl := imagingtest.Noise(8, 6, 6)
	imagingtest.Paste(img, tmpl, 40, 30)

	scores, err := NCC(img, tmpl)
	require.NoError(t, err)
	require.Equal(t, 59, scores.Width)
	require.Equal(t, 43, scores.Height)

	for y := 0; y < scores.Height; y++ {
		for x := 0; x < scores.Width; x++ {
			want := directNCC(img, tmpl, x, y)
			require.InDelta(t, want, scores.At(x, y), 2e-3, "window (%d,%d)", x, y)
		}
	}
	// Windows lying entirely in the flat strip score exactly zero.
	assert.Zero(t, scores.At(10, 2))

	best, loc := scores.Max()
	assert.InDelta(t, 1.0, best, 1e-3)
	assert.Equal(t, image.Pt(40, 30), loc)
}

func TestNCC_TemplateTooLarge(t *testing.T) {
	tests := []struct {
		name string
		tmpl image.Rectangle
	}{
		{"wider", image.Rect(0, 0, 31, 10)},
		{"taller", image.Rect(0, 0, 10, 21)},
	}
	img := imagingtest.Canvas(30, 20)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NCC(img, image.NewGray(tt.tmpl))
			assert.True(t, errors.Is(err, ErrTemplateTooLarge))
		})
	}
}

func TestScoreMap_MaxTiesFirst(t *testing.T) {
	s := &ScoreMap{Width: 3, Height: 2, Scores: []float32{0.1, 0.9, 0.2, 0.9, 0.3, 0.4}}
	best, loc := s.Max()
	assert.InDelta(t, 0.9, best, 1e-6)
	assert.Equal(t, image.Pt(1, 0), loc)
}
