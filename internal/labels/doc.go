// Package labels holds per-site label vectors and reads them from the
// crawl's data exports.
//
// A Vector records, for one website, which SSO providers (and optionally the
// first-party login) are present. Vectors come from three sources:
//
//   - ground truth: the human labeling export (ReadGroundTruth)
//   - DOM inference: the crawler's per-site CSV (ReadDOMInference)
//   - the logo detector: its output lines or in-process results
//     (ReadDetections, FromResults)
//
// All sources key sites by hostname. Crawl artefact names such as
// "1000-https!www.example.com-20230201094318999-combined.png" are parsed
// with ParseSiteKey rather than sliced by position.
//
// Provider ids outside the supported set are reported as Anomaly values and
// never written into a vector.
package labels
