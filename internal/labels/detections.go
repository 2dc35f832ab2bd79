package labels

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/ironsheep/ssodetect/internal/matcher"
	"github.com/ironsheep/ssodetect/internal/provider"
)

// ReadDetections reads detector output, one detection per line:
//
//	<screenshot>,<provider>,<template>,<confidence>
//
// Screenshot names are parsed with ParseSiteKey and keyed by host. A site's
// screenshots are merged: a provider found in any of them is present. Every
// site that appears gets all supported providers, without a first-party key.
//
// Unsupported provider ids are returned as anomalies and do not touch the
// site's vector.
func ReadDetections(r io.Reader) (map[string]Vector, []Anomaly, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 4
	cr.TrimLeadingSpace = true

	out := make(map[string]Vector)
	var anomalies []Anomaly
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("detections: %w", err)
		}
		line, _ := cr.FieldPos(0)

		key, err := ParseSiteKey(rec[0])
		if err != nil {
			return nil, nil, fmt.Errorf("detections line %d: %w", line, err)
		}
		if _, err := strconv.ParseFloat(rec[3], 64); err != nil {
			return nil, nil, fmt.Errorf("detections line %d: bad confidence %q", line, rec[3])
		}

		v, ok := out[key.Host]
		if !ok {
			v = EmptySSO()
			out[key.Host] = v
		}

		id := provider.Normalize(rec[1])
		if !provider.IsSupported(id) {
			anomalies = append(anomalies, Anomaly{
				Site:     key.Host,
				Source:   fmt.Sprintf("line %d", line),
				Provider: id,
			})
			slog.Warn("detected provider is not supported",
				"site", key.Host, "provider", id, "line", line)
			continue
		}
		v[id] = true
	}
	return out, anomalies, nil
}

// FromResults reduces one screenshot's detections to a vector over the
// supported providers. source identifies the screenshot in anomalies.
func FromResults(source string, results []matcher.Result) (Vector, []Anomaly) {
	v := EmptySSO()
	var anomalies []Anomaly
	for _, r := range results {
		id := provider.Normalize(r.Provider)
		if !provider.IsSupported(id) {
			anomalies = append(anomalies, Anomaly{Source: source, Provider: id})
			continue
		}
		v[id] = true
	}
	return v, anomalies
}

// Merge ORs v into the vector stored for site, creating it if needed.
func Merge(dst map[string]Vector, site string, v Vector) {
	cur, ok := dst[site]
	if !ok {
		dst[site] = v.Clone()
		return
	}
	for k, present := range v {
		cur[k] = cur[k] || present
	}
}

// FromBatch builds per-site predictions from a batch of matched screenshots.
// Screenshots of the same site are merged. Files that failed to match, or
// whose names are not crawl artefacts, are skipped with a warning.
func FromBatch(results []matcher.FileResult) (map[string]Vector, []Anomaly) {
	out := make(map[string]Vector)
	var anomalies []Anomaly
	for _, fr := range results {
		if fr.Err != nil {
			continue
		}
		key, err := ParseSiteKey(fr.Path)
		if err != nil {
			slog.Warn("screenshot skipped for evaluation", "path", fr.Path, "error", err)
			continue
		}
		v, found := FromResults(fr.Path, fr.Results)
		for i := range found {
			found[i].Site = key.Host
		}
		anomalies = append(anomalies, found...)
		Merge(out, key.Host, v)
	}
	return out, anomalies
}
