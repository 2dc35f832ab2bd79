package labels

import (
	"fmt"
	"net/url"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// SiteKey is the structured form of a crawl artefact name.
//
//	1000-https!www.priceline.com-20230201102900088-1.png
//	^rank ^scheme ^host           ^timestamp        ^suffix ^ext
type SiteKey struct {
	Rank      int
	Scheme    string
	Host      string
	Timestamp string
	Suffix    string
	Ext       string
}

// siteKeyRE anchors the timestamp as the last 17-digit run followed by a
// suffix, so hosts containing '-' parse correctly.
var siteKeyRE = regexp.MustCompile(`^(\d+)-([a-z][a-z0-9+.-]*)!(.+)-(\d{17})-([^.]+)\.([A-Za-z0-9]+)$`)

// ParseSiteKey parses a crawl artefact file name. Directory components are
// ignored.
func ParseSiteKey(name string) (SiteKey, error) {
	base := filepath.Base(name)
	m := siteKeyRE.FindStringSubmatch(base)
	if m == nil {
		return SiteKey{}, fmt.Errorf("unrecognised crawl artefact name %q", base)
	}
	rank, err := strconv.Atoi(m[1])
	if err != nil {
		return SiteKey{}, fmt.Errorf("crawl artefact %q: bad rank: %w", base, err)
	}
	return SiteKey{
		Rank:      rank,
		Scheme:    m[2],
		Host:      strings.ToLower(m[3]),
		Timestamp: m[4],
		Suffix:    m[5],
		Ext:       m[6],
	}, nil
}

// String rebuilds the artefact file name.
func (k SiteKey) String() string {
	return fmt.Sprintf("%d-%s!%s-%s-%s.%s", k.Rank, k.Scheme, k.Host, k.Timestamp, k.Suffix, k.Ext)
}

// HostFromURL returns the lower-cased hostname of a site URL.
func HostFromURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("bad site url %q: %w", raw, err)
	}
	host := u.Hostname()
	if host == "" {
		return "", fmt.Errorf("site url %q has no host", raw)
	}
	return strings.ToLower(host), nil
}
