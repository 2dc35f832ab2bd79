package template

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/ironsheep/ssodetect/internal/config"
	"github.com/ironsheep/ssodetect/internal/imaging"
	"github.com/ironsheep/ssodetect/internal/provider"
)

var (
	// ErrNoTemplates is returned when a template directory has no images.
	ErrNoTemplates = errors.New("no template images found")

	// ErrNoProviderSeparator is returned for a template file name without a
	// "<provider>-" prefix.
	ErrNoProviderSeparator = errors.New("template name has no provider separator")
)

// Separator splits the provider id from the rest of a template file name.
const Separator = "-"

// Variant is one scaled copy of a provider logo.
type Variant struct {
	// Provider is the provider id the logo represents.
	Provider string

	// Name is the template file name for the original and
	// "<file name>_<i>" for the i-th shrunk copy.
	Name string

	// Scale is the factor applied to the original (1 for the original).
	Scale float64

	// Image is the luminance data. It is shared and must not be modified.
	Image *image.Gray
}

// Width returns the variant width in pixels.
func (v Variant) Width() int { return v.Image.Bounds().Dx() }

// Height returns the variant height in pixels.
func (v Variant) Height() int { return v.Image.Bounds().Dy() }

// Options controls how templates are expanded into variants.
type Options struct {
	ScaleFactor   float64
	ScaleVersions int
	Logger        *slog.Logger
}

// DefaultOptions returns the default scale settings.
func DefaultOptions() Options {
	return Options{
		ScaleFactor:   config.DefaultScaleFactor,
		ScaleVersions: config.DefaultScaleVersions,
	}
}

// OptionsFromConfig copies the scale settings out of cfg.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		ScaleFactor:   cfg.ScaleFactor,
		ScaleVersions: cfg.ScaleVersions,
	}
}

func (o Options) validate() error {
	if o.ScaleVersions < 1 {
		return fmt.Errorf("scale versions must be at least 1, got %d", o.ScaleVersions)
	}
	if o.ScaleFactor < 0 || o.ScaleFactor*float64(o.ScaleVersions-1) >= 1 {
		return fmt.Errorf("scale factor %v invalid for %d versions", o.ScaleFactor, o.ScaleVersions)
	}
	return nil
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// Store maps provider ids to their ordered template variants.
type Store struct {
	opts      Options
	providers []string
	variants  map[string][]Variant
}

// NewStore returns an empty store that expands templates with opts.
// Populate it with Add before handing it to a matcher.
func NewStore(opts Options) (*Store, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return &Store{
		opts:     opts,
		variants: make(map[string][]Variant),
	}, nil
}

// Load reads every image in dir and returns the populated store.
//
// Files are processed in name order so variant order is reproducible. A
// file whose name has no provider prefix fails the whole load.
func Load(dir string, opts Options) (*Store, error) {
	s, err := NewStore(opts)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read template dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() && imaging.IsImageFile(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	if len(names) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoTemplates, dir)
	}

	log := opts.logger()
	for _, name := range names {
		id, err := ProviderFromName(name)
		if err != nil {
			return nil, err
		}

		log.Debug("loading template", "file", name, "provider", id)
		img, err := imaging.OpenGray(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		s.Add(id, name, img)
	}

	if unsupported := s.Unsupported(); len(unsupported) > 0 {
		log.Warn("templates for unsupported providers loaded",
			"providers", unsupported)
	}

	return s, nil
}

// ProviderFromName derives the provider id from a template file name:
// "google-20.jpg" yields "google".
func ProviderFromName(name string) (string, error) {
	base := filepath.Base(name)
	prefix, _, found := strings.Cut(base, Separator)
	if !found || prefix == "" {
		return "", fmt.Errorf("%w: %q", ErrNoProviderSeparator, base)
	}
	return provider.Normalize(prefix), nil
}

// Add registers a template for id under name, appending the original and
// its shrunk copies in that order. img must already be grayscale.
func (s *Store) Add(id, name string, img *image.Gray) {
	if _, ok := s.variants[id]; !ok {
		s.providers = append(s.providers, id)
		sort.Strings(s.providers)
	}

	vs := s.variants[id]
	vs = append(vs, Variant{Provider: id, Name: name, Scale: 1, Image: img})
	for i := 1; i < s.opts.ScaleVersions; i++ {
		f := 1.0 - s.opts.ScaleFactor*float64(i)
		vs = append(vs, Variant{
			Provider: id,
			Name:     fmt.Sprintf("%s_%d", name, i),
			Scale:    f,
			Image:    imaging.Scale(img, f),
		})
	}
	s.variants[id] = vs
}

// Providers returns the provider ids in iteration order.
func (s *Store) Providers() []string {
	return slices.Clone(s.providers)
}

// Variants returns the variants for id in match order, or nil.
func (s *Store) Variants(id string) []Variant {
	return slices.Clone(s.variants[id])
}

// Len returns the number of providers in the store.
func (s *Store) Len() int {
	return len(s.providers)
}

// VariantCount returns the total number of variants across providers.
func (s *Store) VariantCount() int {
	n := 0
	for _, vs := range s.variants {
		n += len(vs)
	}
	return n
}

// Unsupported returns provider ids present in the store that are not in the
// supported provider set.
func (s *Store) Unsupported() []string {
	var out []string
	for _, id := range s.providers {
		if !provider.IsSupported(id) {
			out = append(out, id)
		}
	}
	return out
}

// Summary describes the templates loaded for one provider.
type Summary struct {
	Provider  string   `json:"provider"`
	Supported bool     `json:"supported"`
	Variants  []string `json:"variants"`
}

// Summaries lists every provider with its variant names, in store order.
func (s *Store) Summaries() []Summary {
	out := make([]Summary, 0, len(s.providers))
	for _, id := range s.providers {
		names := make([]string, 0, len(s.variants[id]))
		for _, v := range s.variants[id] {
			names = append(names, v.Name)
		}
		out = append(out, Summary{
			Provider:  id,
			Supported: provider.IsSupported(id),
			Variants:  names,
		})
	}
	return out
}
