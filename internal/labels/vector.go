package labels

import (
	"maps"
	"slices"

	"github.com/ironsheep/ssodetect/internal/provider"
)

// Vector maps a label key (provider id or provider.FirstParty) to presence.
// A missing key reads as absent.
type Vector map[string]bool

// NewVector returns a vector with every given key present and set to false.
func NewVector(keys ...string) Vector {
	v := make(Vector, len(keys))
	for _, k := range keys {
		v[k] = false
	}
	return v
}

// EmptySSO returns a vector with every supported provider set to false and
// no first-party key.
func EmptySSO() Vector {
	return NewVector(provider.Supported()...)
}

// EmptyAll returns a vector with the first-party key and every supported
// provider set to false.
func EmptyAll() Vector {
	return NewVector(append([]string{provider.FirstParty}, provider.Supported()...)...)
}

// Get reports whether key is present.
func (v Vector) Get(key string) bool {
	return v[key]
}

// Bit returns 1 if key is present and 0 otherwise.
func (v Vector) Bit(key string) int {
	if v[key] {
		return 1
	}
	return 0
}

// AnyOf reports whether any of keys is present.
func (v Vector) AnyOf(keys []string) bool {
	for _, k := range keys {
		if v[k] {
			return true
		}
	}
	return false
}

// Present returns the sorted keys set to true.
func (v Vector) Present() []string {
	var out []string
	for k, ok := range v {
		if ok {
			out = append(out, k)
		}
	}
	slices.Sort(out)
	return out
}

// Clone returns an independent copy.
func (v Vector) Clone() Vector {
	return maps.Clone(v)
}

// Anomaly records a provider id that is not in the supported set.
type Anomaly struct {
	// Site is the hostname the id was reported for, if known.
	Site string `json:"site,omitempty"`

	// Source names the record, e.g. the screenshot file or "line 12".
	Source string `json:"source"`

	// Provider is the unsupported id as read.
	Provider string `json:"provider"`
}
