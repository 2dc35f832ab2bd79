package matcher

import (
	"fmt"
	"image"
	"log/slog"
	"maps"

	"github.com/ironsheep/ssodetect/internal/config"
	"github.com/ironsheep/ssodetect/internal/imaging"
	"github.com/ironsheep/ssodetect/internal/template"
)

// Policy selects which accepted variant represents a provider.
type Policy int

const (
	// PolicyFirst accepts the first variant, in store order, that clears
	// the threshold and skips the remaining variants.
	PolicyFirst Policy = iota

	// PolicyBest scores every variant and keeps the highest accepted one.
	PolicyBest
)

// String returns the config spelling of the policy.
func (p Policy) String() string {
	if p == PolicyBest {
		return "best"
	}
	return "first"
}

// ParsePolicy parses "first" or "best".
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "first", "":
		return PolicyFirst, nil
	case "best":
		return PolicyBest, nil
	}
	return PolicyFirst, fmt.Errorf("unknown match policy %q", s)
}

// Matcher detects provider logos in screenshots. It never modifies the
// store or the screenshots it is given, and is safe for concurrent use.
type Matcher struct {
	store      *template.Store
	threshold  float64
	thresholds map[string]float64
	policy     Policy
	logger     *slog.Logger
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithThreshold sets the default acceptance threshold.
func WithThreshold(th float64) Option {
	return func(m *Matcher) {
		m.threshold = th
	}
}

// WithProviderThreshold overrides the threshold for one provider.
func WithProviderThreshold(id string, th float64) Option {
	return func(m *Matcher) {
		m.thresholds[id] = th
	}
}

// WithThresholds merges per-provider threshold overrides.
func WithThresholds(ths map[string]float64) Option {
	return func(m *Matcher) {
		maps.Copy(m.thresholds, ths)
	}
}

// WithPolicy selects the variant acceptance policy.
func WithPolicy(p Policy) Option {
	return func(m *Matcher) {
		m.policy = p
	}
}

// WithLogger sets the logger used for per-variant debug output.
func WithLogger(l *slog.Logger) Option {
	return func(m *Matcher) {
		m.logger = l
	}
}

// WithConfig applies the threshold and policy settings of cfg. cfg is
// expected to have passed Validate.
func WithConfig(cfg *config.Config) Option {
	return func(m *Matcher) {
		m.threshold = cfg.Threshold
		maps.Copy(m.thresholds, cfg.Thresholds)
		if p, err := ParsePolicy(cfg.Policy); err == nil {
			m.policy = p
		}
	}
}

// New creates a Matcher over store. Without options it uses the default
// threshold and PolicyFirst.
func New(store *template.Store, opts ...Option) *Matcher {
	m := &Matcher{
		store:      store,
		threshold:  config.DefaultThreshold,
		thresholds: make(map[string]float64),
		policy:     PolicyFirst,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	return m
}

// Store returns the template store the matcher searches with.
func (m *Matcher) Store() *template.Store {
	return m.store
}

// Policy returns the variant acceptance policy.
func (m *Matcher) Policy() Policy {
	return m.policy
}

// Threshold returns the acceptance threshold for provider id.
func (m *Matcher) Threshold(id string) float64 {
	if th, ok := m.thresholds[id]; ok {
		return th
	}
	return m.threshold
}

// Match returns at most one Result per provider found in img.
//
// Every variant is checked against the screenshot size before any
// correlation runs; a variant larger than img fails the call with
// ErrTemplateTooLarge.
func (m *Matcher) Match(img *image.Gray) ([]Result, error) {
	providers := m.store.Providers()

	for _, id := range providers {
		for _, v := range m.store.Variants(id) {
			if err := CheckFits(img.Bounds(), v.Image.Bounds()); err != nil {
				return nil, fmt.Errorf("provider %s variant %s: %w", id, v.Name, err)
			}
		}
	}

	results := make([]Result, 0)
	for _, id := range providers {
		r, ok, err := m.matchProvider(img, id)
		if err != nil {
			return nil, err
		}
		if ok {
			results = append(results, r)
		}
	}
	return results, nil
}

// matchProvider searches img with the variants of one provider.
func (m *Matcher) matchProvider(img *image.Gray, id string) (Result, bool, error) {
	threshold := m.Threshold(id)

	var best Result
	found := false
	for _, v := range m.store.Variants(id) {
		scores, err := NCC(img, v.Image)
		if err != nil {
			return Result{}, false, fmt.Errorf("provider %s variant %s: %w", id, v.Name, err)
		}
		score, loc := scores.Max()

		m.logger.Debug("variant score",
			"provider", id,
			"variant", v.Name,
			"score", score,
			"x", loc.X,
			"y", loc.Y,
		)

		if score < threshold {
			continue
		}
		if found && score <= best.Confidence {
			continue
		}

		best = Result{
			Confidence:     score,
			Provider:       id,
			TemplateName:   v.Name,
			TemplateWidth:  v.Width(),
			TemplateHeight: v.Height(),
			X:              loc.X,
			Y:              loc.Y,
		}
		found = true

		if m.policy == PolicyFirst {
			break
		}
	}
	return best, found, nil
}

// MatchImage converts img to grayscale and matches it.
func (m *Matcher) MatchImage(img image.Image) ([]Result, error) {
	return m.Match(imaging.ToGray(img))
}

// MatchFile decodes the screenshot at path, converts it to grayscale and
// matches it.
func (m *Matcher) MatchFile(path string) ([]Result, error) {
	img, err := imaging.OpenGray(path)
	if err != nil {
		return nil, err
	}
	results, err := m.Match(img)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return results, nil
}
