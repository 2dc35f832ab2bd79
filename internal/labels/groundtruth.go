package labels

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sort"
	"strings"

	"github.com/ironsheep/ssodetect/internal/provider"
)

// Labeler meta categories.
const (
	MetaBroken     = "Meta-broken"
	MetaNonEnglish = "Meta-nonenglish"
	MetaRecrawl    = "Meta-recrawl"
	MetaNoSSO      = "Meta-nosso"
)

// skipCategories mark screenshots that cannot be judged; such sites are
// left out of the ground truth entirely.
var skipCategories = []string{MetaNonEnglish, MetaBroken, MetaRecrawl}

// OtherCategory marks a login option the labelers saw but that has no
// provider of its own.
const OtherCategory = "Other"

// Prefixes of labeler categories that never name a provider.
const (
	metaPrefix = "Meta-"
	catPrefix  = "Cat-"
)

// GroundTruthStats counts how labeled entries were classified.
type GroundTruthStats struct {
	Total   int `json:"total"`
	Skipped int `json:"skipped"`
	NoSSO   int `json:"no_sso"`
	SSO     int `json:"sso"`

	// Unsupported counts categories that are neither a provider nor a
	// known non-provider tag, e.g. "Twitch" or a typo like "Gogle".
	Unsupported int `json:"unsupported"`
}

// nonProviderCategory reports whether c is a tag the labelers use for
// something other than a login provider.
func nonProviderCategory(c string) bool {
	return c == OtherCategory || strings.HasPrefix(c, metaPrefix) || strings.HasPrefix(c, catPrefix)
}

// ReadGroundTruth reads the labeling export: a JSON object mapping a
// screenshot name to its category list, e.g.
//
//	{"1000-https!cardgames.io-20230201094318999-combined.png": ["Google", "Apple", "Cat-ent"]}
//
// Entries tagged Meta-nonenglish, Meta-broken or Meta-recrawl are skipped.
// Meta-nosso yields an all-false vector. Otherwise "1st" and the provider
// categories set their keys, and "Other", "Meta-*" and "Cat-*" are ignored.
// Any remaining category is returned as an anomaly and counted in
// GroundTruthStats.Unsupported; it does not touch the vector. Every returned
// vector carries the first-party key and all supported providers.
func ReadGroundTruth(r io.Reader) (map[string]Vector, GroundTruthStats, []Anomaly, error) {
	var raw map[string][]string
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, GroundTruthStats{}, nil, fmt.Errorf("ground truth: %w", err)
	}

	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	var stats GroundTruthStats
	var anomalies []Anomaly
	out := make(map[string]Vector, len(raw))
	for _, name := range names {
		stats.Total++
		key, err := ParseSiteKey(name)
		if err != nil {
			return nil, stats, nil, fmt.Errorf("ground truth: %w", err)
		}
		cats := raw[name]

		switch {
		case slices.ContainsFunc(cats, func(c string) bool { return slices.Contains(skipCategories, c) }):
			stats.Skipped++
			slog.Debug("skipping labeled site", "site", key.Host, "categories", cats)
			continue
		case slices.Contains(cats, MetaNoSSO):
			stats.NoSSO++
			out[key.Host] = EmptyAll()
		default:
			stats.SSO++
			v := EmptyAll()
			for _, c := range cats {
				if k, ok := provider.Category(c); ok {
					v[k] = true
					continue
				}
				if nonProviderCategory(c) {
					continue
				}
				stats.Unsupported++
				anomalies = append(anomalies, Anomaly{Site: key.Host, Source: name, Provider: c})
				slog.Warn("labeled category is not a supported provider",
					"site", key.Host, "category", c)
			}
			out[key.Host] = v
		}
	}

	return out, stats, anomalies, nil
}
