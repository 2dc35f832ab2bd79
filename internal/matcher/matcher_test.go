package matcher

import (
	"bytes"
	"errors"
	"image"
	"image/draw"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/ssodetect/internal/config"
	"github.com/ironsheep/ssodetect/internal/imaging"
	"github.com/ironsheep/ssodetect/internal/imaging/imagingtest"
	"github.com/ironsheep/ssodetect/internal/template"
)

const logoSize = 40

var logoSeeds = map[string]uint64{
	"google": 101,
	"apple":  202,
	"github": 303,
	"yahoo":  404,
}

// placements put logos at coordinates that stay integral at 95% and 90%.
var placements = map[string]image.Point{
	"google": image.Pt(20, 20),
	"apple":  image.Pt(100, 20),
	"github": image.Pt(20, 60),
}

func newTestStore(t *testing.T) *template.Store {
	t.Helper()
	s, err := template.NewStore(template.DefaultOptions())
	require.NoError(t, err)
	for id, seed := range logoSeeds {
		s.Add(id, id+"-1.png", imagingtest.Logo(seed, logoSize))
	}
	return s
}

// loginPage draws the given providers' logos on a blank 160x120 page.
func loginPage(providers ...string) *image.Gray {
	page := imagingtest.Canvas(160, 120)
	for _, id := range providers {
		p := placements[id]
		imagingtest.Paste(page, imagingtest.Logo(logoSeeds[id], logoSize), p.X, p.Y)
	}
	return page
}

func TestMatch_NoLogos(t *testing.T) {
	m := New(newTestStore(t))

	t.Run("blank page", func(t *testing.T) {
		results, err := m.Match(imagingtest.Canvas(160, 120))
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("noisy page", func(t *testing.T) {
		results, err := m.Match(imagingtest.Noise(42, 160, 120))
		require.NoError(t, err)
		assert.Empty(t, results)
	})
}

func TestMatch_FindsExactlyPresentProviders(t *testing.T) {
	m := New(newTestStore(t))

	results, err := m.Match(loginPage("google", "apple", "github"))
	require.NoError(t, err)
	assert.Equal(t, []string{"apple", "github", "google"}, Providers(results))

	for _, r := range results {
		p := placements[r.Provider]
		assert.Equal(t, p.X, r.X, r.Provider)
		assert.Equal(t, p.Y, r.Y, r.Provider)
		assert.Equal(t, r.Provider+"-1.png", r.TemplateName)
		assert.Equal(t, logoSize, r.TemplateWidth)
		assert.Equal(t, logoSize, r.TemplateHeight)
		assert.GreaterOrEqual(t, r.Confidence, config.DefaultThreshold)
		assert.Equal(t, image.Rect(p.X, p.Y, p.X+logoSize, p.Y+logoSize), r.Bounds())
	}
}

func TestMatch_StoreOrder(t *testing.T) {
	m := New(newTestStore(t))

	results, err := m.Match(loginPage("github", "google", "apple"))
	require.NoError(t, err)
	require.Len(t, results, 3)
	// Store order is lexical; results are not re-sorted by confidence.
	assert.Equal(t, "apple", results[0].Provider)
	assert.Equal(t, "github", results[1].Provider)
	assert.Equal(t, "google", results[2].Provider)
}

func TestMatch_OneResultPerProvider(t *testing.T) {
	m := New(newTestStore(t))

	page := imagingtest.Canvas(160, 120)
	logo := imagingtest.Logo(logoSeeds["google"], logoSize)
	imagingtest.Paste(page, logo, 10, 10)
	imagingtest.Paste(page, logo, 100, 60)

	results, err := m.Match(page)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "google", results[0].Provider)
}

func TestMatch_ScaledScreenshot(t *testing.T) {
	page := loginPage("google", "apple", "github")

	tests := []struct {
		factor  float64
		variant string
		width   int
	}{
		{0.95, "_1", 38},
		{0.90, "_2", 36},
	}
	for _, tt := range tests {
		scaled := imaging.Scale(page, tt.factor)

		t.Run("first policy", func(t *testing.T) {
			m := New(newTestStore(t))
			results, err := m.Match(scaled)
			require.NoError(t, err)
			assert.Equal(t, []string{"apple", "github", "google"}, Providers(results))
		})

		t.Run("best policy", func(t *testing.T) {
			m := New(newTestStore(t), WithPolicy(PolicyBest))
			results, err := m.Match(scaled)
			require.NoError(t, err)
			require.Len(t, results, 3)
			for _, r := range results {
				assert.Equal(t, r.Provider+"-1.png"+tt.variant, r.TemplateName)
				assert.Equal(t, tt.width, r.TemplateWidth)
				assert.InDelta(t, 1.0, r.Confidence, 1e-4)

				p := placements[r.Provider]
				assert.Equal(t, int(float64(p.X)*tt.factor+0.5), r.X)
				assert.Equal(t, int(float64(p.Y)*tt.factor+0.5), r.Y)
			}
		})
	}
}

func TestMatch_ProviderThreshold(t *testing.T) {
	page := loginPage("google", "apple")

	m := New(newTestStore(t), WithProviderThreshold("google", 1.5))
	assert.Equal(t, 1.5, m.Threshold("google"))
	assert.Equal(t, config.DefaultThreshold, m.Threshold("apple"))

	results, err := m.Match(page)
	require.NoError(t, err)
	assert.Equal(t, []string{"apple"}, Providers(results))
}

func TestMatch_GlobalThreshold(t *testing.T) {
	page := loginPage("google")

	strict := New(newTestStore(t), WithThreshold(1.5))
	results, err := strict.Match(page)
	require.NoError(t, err)
	assert.Empty(t, results)

	relaxed := New(newTestStore(t), WithThreshold(0.5), WithThresholds(map[string]float64{"google": 1.5}))
	results, err = relaxed.Match(page)
	require.NoError(t, err)
	assert.NotContains(t, Providers(results), "google")
}

func TestMatch_WithConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Threshold = 0.8
	cfg.Thresholds = map[string]float64{"apple": 0.99}
	cfg.Policy = "best"

	m := New(newTestStore(t), WithConfig(cfg))
	assert.Equal(t, 0.8, m.Threshold("google"))
	assert.Equal(t, 0.99, m.Threshold("apple"))
	assert.Equal(t, PolicyBest, m.Policy())
}

func TestMatch_TemplateTooLarge(t *testing.T) {
	m := New(newTestStore(t))
	_, err := m.Match(imagingtest.Canvas(logoSize-1, 200))
	assert.True(t, errors.Is(err, ErrTemplateTooLarge))
}

func TestMatch_DoesNotMutateInputs(t *testing.T) {
	store := newTestStore(t)
	before := make(map[string][]byte)
	for _, id := range store.Providers() {
		for _, v := range store.Variants(id) {
			before[v.Name] = append([]byte(nil), v.Image.Pix...)
		}
	}
	page := loginPage("google")
	pageBefore := append([]byte(nil), page.Pix...)

	_, err := New(store).Match(page)
	require.NoError(t, err)

	assert.Equal(t, pageBefore, page.Pix)
	for _, id := range store.Providers() {
		for _, v := range store.Variants(id) {
			assert.Equal(t, before[v.Name], v.Image.Pix, v.Name)
		}
	}
}

func TestMatch_DebugLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := New(newTestStore(t), WithLogger(logger)).Match(loginPage("google"))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "variant=google-1.png")
}

func TestMatchImage_Color(t *testing.T) {
	gray := loginPage("apple")
	rgba := image.NewRGBA(gray.Bounds())
	draw.Draw(rgba, rgba.Bounds(), gray, image.Point{}, draw.Src)

	results, err := New(newTestStore(t)).MatchImage(rgba)
	require.NoError(t, err)
	assert.Equal(t, []string{"apple"}, Providers(results))
}

func TestMatchFile(t *testing.T) {
	dir := t.TempDir()
	path := imagingtest.WritePNG(t, dir, "login.png", loginPage("github", "google"))

	m := New(newTestStore(t))
	results, err := m.MatchFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"github", "google"}, Providers(results))

	_, err = m.MatchFile(dir + "/missing.png")
	assert.Error(t, err)
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("best")
	require.NoError(t, err)
	assert.Equal(t, PolicyBest, p)
	assert.Equal(t, "best", p.String())

	p, err = ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyFirst, p)
	assert.Equal(t, "first", p.String())

	_, err = ParsePolicy("max")
	assert.Error(t, err)
}
