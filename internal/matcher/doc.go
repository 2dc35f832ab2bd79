// Package matcher finds SSO provider logos in page screenshots by
// normalized cross-correlation against a template.Store.
//
// # Algorithm
//
// For each provider, in store order, the matcher correlates every template
// variant with the whole screenshot:
//
//  1. NCC computes the zero-mean normalized cross-correlation of the variant
//     at every position where it fits entirely inside the screenshot.
//  2. The best score and its top-left position are taken.
//  3. If the score reaches the provider's threshold the variant is accepted.
//
// Under PolicyFirst (the default) the first accepted variant ends the search
// for that provider. PolicyBest scores every variant and keeps the highest
// accepted one, which makes the outcome independent of variant order at the
// cost of always probing every variant.
//
// At most one Result is produced per provider per screenshot. Results follow
// store order and are not re-sorted by confidence.
//
// # Confidence Scores
//
// Scores lie in [-1, 1]:
//   - 1.0 = the window is a positive linear function of the template
//   - 0.0 = no correlation, or a flat (zero-variance) window
//   - negative values indicate inverted contrast
//
// Scores are invariant to linear brightness changes of the screenshot, so a
// logo on a darker theme still matches as long as its contrast is preserved.
//
// # Thresholds
//
// A single default threshold (0.92) applies to every provider unless a
// per-provider override is configured. The matching algorithm itself does
// not depend on the threshold.
//
// # Performance Considerations
//
// Correlation is computed directly, O(W·H·w·h) per variant, with window
// statistics taken from summed-area tables. Matching a full-page screenshot
// against a few dozen variants takes seconds; Batch spreads many screenshots
// across goroutines.
package matcher
