// Package template loads SSO provider logos and prepares the multi-scale
// variants the matcher searches a screenshot with.
//
// # Directory Layout
//
// Templates live in one flat directory. Each file is named
// <provider>-<anything>.<ext>, for example "google-20.jpg"; the provider id is
// the lower-cased text before the first '-'. PNG, JPEG and GIF are accepted.
//
// # Variants
//
// Logos render at slightly different sizes across sites, so each template
// is stored as ScaleVersions variants: the original, then copies shrunk by
// 1 - ScaleFactor*i for i = 1..ScaleVersions-1. With the defaults (0.05, 3)
// that is 100%, 95% and 90%. Variant order is match order: the matcher
// tries the original first.
//
// # Thread Safety
//
// A Store is immutable once Load (or the builder) returns, and is safe for
// concurrent reads.
package template
