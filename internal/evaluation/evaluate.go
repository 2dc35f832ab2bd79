package evaluation

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/ironsheep/ssodetect/internal/labels"
	"github.com/ironsheep/ssodetect/internal/provider"
)

// ErrNoKeys is returned when Evaluate is called without keys to check.
var ErrNoKeys = errors.New("no keys to check")

// KeysSSO returns every supported provider, without the first-party key.
func KeysSSO() []string { return provider.Supported() }

// KeysFirstParty returns only the first-party key.
func KeysFirstParty() []string { return []string{provider.FirstParty} }

// KeysAll returns the first-party key followed by every supported provider.
func KeysAll() []string { return append(KeysFirstParty(), provider.Supported()...) }

// SiteResult is the tally of one site.
type SiteResult struct {
	Site  string `json:"site"`
	Tally Tally  `json:"tally"`
}

// Samples holds the raw per-site values behind each Summary, in site order.
type Samples struct {
	Correct []float64 `json:"correct"`
	TPR     []float64 `json:"tpr"`
	FNR     []float64 `json:"fnr"`
	FPR     []float64 `json:"fpr"`
	TNR     []float64 `json:"tnr"`
}

// Result is the outcome of one evaluation run.
type Result struct {
	Keys []string `json:"keys"`

	// Sites holds the tally of every evaluated site, sorted by site.
	Sites []SiteResult `json:"sites"`

	// Totals is the sum of all site tallies.
	Totals Tally `json:"totals"`

	Correct Summary `json:"correct"`
	TPR     Summary `json:"tpr"`
	FNR     Summary `json:"fnr"`
	FPR     Summary `json:"fpr"`
	TNR     Summary `json:"tnr"`

	Samples Samples `json:"samples"`

	// Missing lists ground-truth sites with no prediction, sorted.
	Missing []string `json:"missing"`

	// MissingWithPositives counts the Missing sites whose ground truth has
	// at least one checked key set.
	MissingWithPositives int `json:"missing_with_positives"`
}

// Evaluated is the number of sites that were tallied.
func (r *Result) Evaluated() int { return len(r.Sites) }

type options struct {
	logger *slog.Logger
}

// Option configures Evaluate.
type Option func(*options)

// WithLogger sets the logger used for per-site debug output.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Evaluate compares predicted against actual over keys.
//
// Every site of actual is visited in sorted order. A key absent from a
// vector counts as not present. Sites only in predicted are ignored.
func Evaluate(actual, predicted map[string]labels.Vector, keys []string, opts ...Option) (*Result, error) {
	if len(keys) == 0 {
		return nil, ErrNoKeys
	}
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	sites := make([]string, 0, len(actual))
	for site := range actual {
		sites = append(sites, site)
	}
	slices.Sort(sites)

	res := &Result{
		Keys:  slices.Clone(keys),
		Sites: make([]SiteResult, 0, len(sites)),
	}
	for _, site := range sites {
		want := actual[site]
		got, ok := predicted[site]
		if !ok {
			res.Missing = append(res.Missing, site)
			if want.AnyOf(keys) {
				res.MissingWithPositives++
			}
			o.logger.Debug("no prediction for site", "site", site, "positive", want.AnyOf(keys))
			continue
		}

		var t Tally
		for _, k := range keys {
			t.Add(want.Get(k), got.Get(k))
		}
		res.Sites = append(res.Sites, SiteResult{Site: site, Tally: t})
		res.Totals.Merge(t)
		res.sample(t)

		o.logger.Debug("site tally", "site", site, "tp", t.TP, "fp", t.FP, "tn", t.TN, "fn", t.FN)
	}

	res.Correct = Summarize(res.Samples.Correct)
	res.TPR = Summarize(res.Samples.TPR)
	res.FNR = Summarize(res.Samples.FNR)
	res.FPR = Summarize(res.Samples.FPR)
	res.TNR = Summarize(res.Samples.TNR)
	return res, nil
}

func (r *Result) sample(t Tally) {
	s := &r.Samples
	s.Correct = append(s.Correct, t.PercentCorrect())
	if v, ok := t.TPR(); ok {
		s.TPR = append(s.TPR, v)
	}
	if v, ok := t.FNR(); ok {
		s.FNR = append(s.FNR, v)
	}
	if v, ok := t.FPR(); ok {
		s.FPR = append(s.FPR, v)
	}
	if v, ok := t.TNR(); ok {
		s.TNR = append(s.TNR, v)
	}
}

// KeysByName resolves a key preset: "sso", "first" or "all".
func KeysByName(name string) ([]string, error) {
	switch name {
	case "sso":
		return KeysSSO(), nil
	case "first":
		return KeysFirstParty(), nil
	case "all":
		return KeysAll(), nil
	}
	return nil, fmt.Errorf("unknown key set %q (want sso, first or all)", name)
}
