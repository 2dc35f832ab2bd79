package evaluation

import (
	"slices"
)

// Deciles is the number of intervals used for Summary.Deciles.
const Deciles = 10

// Summary describes one sample of per-site values.
type Summary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`

	// Deciles holds the 9 cut points dividing the sample into 10 groups.
	// Nil for an empty sample.
	Deciles []float64 `json:"deciles,omitempty"`
}

// Summarize computes the summary of values. values is not modified.
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	return Summary{
		Count:   len(sorted),
		Mean:    mean(sorted),
		Median:  median(sorted),
		Deciles: quantiles(sorted, Deciles),
	}
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// median expects sorted input.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// quantiles returns the n-1 cut points of sorted using the exclusive method
// (R type 6). Points beyond the data are linearly extrapolated from the two
// outermost values. A single value is repeated.
func quantiles(sorted []float64, n int) []float64 {
	ld := len(sorted)
	switch {
	case ld == 0 || n < 1:
		return nil
	case ld == 1:
		out := make([]float64, n-1)
		for i := range out {
			out[i] = sorted[0]
		}
		return out
	}

	m := ld + 1
	out := make([]float64, 0, n-1)
	for i := 1; i < n; i++ {
		j := i * m / n
		j = max(1, min(j, ld-1))
		delta := i*m - j*n
		out = append(out, (sorted[j-1]*float64(n-delta)+sorted[j]*float64(delta))/float64(n))
	}
	return out
}
