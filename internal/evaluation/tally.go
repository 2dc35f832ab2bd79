package evaluation

// Tally is a binary confusion matrix over the checked keys of one site.
type Tally struct {
	TP int `json:"tp"`
	FP int `json:"fp"`
	TN int `json:"tn"`
	FN int `json:"fn"`
}

// Add records one comparison.
func (t *Tally) Add(actual, predicted bool) {
	switch {
	case actual && predicted:
		t.TP++
	case actual:
		t.FN++
	case predicted:
		t.FP++
	default:
		t.TN++
	}
}

// Merge adds o's counts to t.
func (t *Tally) Merge(o Tally) {
	t.TP += o.TP
	t.FP += o.FP
	t.TN += o.TN
	t.FN += o.FN
}

// P is the number of actual positives.
func (t Tally) P() int { return t.TP + t.FN }

// N is the number of actual negatives.
func (t Tally) N() int { return t.FP + t.TN }

// Total is the number of comparisons.
func (t Tally) Total() int { return t.P() + t.N() }

// PercentCorrect returns (TP+TN)/total, or 0 for an empty tally.
func (t Tally) PercentCorrect() float64 {
	if t.Total() == 0 {
		return 0
	}
	return float64(t.TP+t.TN) / float64(t.Total())
}

// TPR returns TP/P. ok is false when P is zero.
func (t Tally) TPR() (rate float64, ok bool) { return ratio(t.TP, t.P()) }

// FNR returns FN/P. ok is false when P is zero.
func (t Tally) FNR() (rate float64, ok bool) { return ratio(t.FN, t.P()) }

// FPR returns FP/N. ok is false when N is zero.
func (t Tally) FPR() (rate float64, ok bool) { return ratio(t.FP, t.N()) }

// TNR returns TN/N. ok is false when N is zero.
func (t Tally) TNR() (rate float64, ok bool) { return ratio(t.TN, t.N()) }

func ratio(num, den int) (float64, bool) {
	if den == 0 {
		return 0, false
	}
	return float64(num) / float64(den), true
}
