// Package provider defines the closed set of single-sign-on providers the
// detector and the evaluator understand.
//
// Provider identifiers are lower-case ASCII strings ("google", "github").
// The extra FirstParty key marks a site's own login form; it only appears in
// label vectors and never names a logo template.
//
// Any identifier outside Supported is an anomaly. Callers are expected to
// count or log it instead of folding it into a label slot.
package provider
