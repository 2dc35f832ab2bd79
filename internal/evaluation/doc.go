// Package evaluation scores a classifier's per-site label vectors against
// ground truth.
//
// For every site present in both maps each selected key is classified as a
// true/false positive/negative. The per-site tallies are reduced to five
// samples (percent correct, TPR, FNR, FPR, TNR) and summarised with count,
// mean, median and deciles. A rate is sampled only for sites where its
// denominator is non-zero.
//
// Sites without a prediction are not errors. They are listed in
// Result.Missing and counted separately when the ground truth says the site
// offered at least one of the checked keys.
package evaluation
