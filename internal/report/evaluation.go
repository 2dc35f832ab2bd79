package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/ironsheep/ssodetect/internal/evaluation"
	"github.com/ironsheep/ssodetect/internal/labels"
)

// Evaluation bundles an evaluation result with the ingestion facts worth
// reporting next to it.
type Evaluation struct {
	Title  string             `json:"title,omitempty"`
	Result *evaluation.Result `json:"result"`

	// Anomalies are unsupported providers seen while reading the ground
	// truth or the predictions.
	Anomalies []labels.Anomaly `json:"anomalies,omitempty"`

	// GroundTruth is set when the actual labels came from a labeling export.
	GroundTruth *labels.GroundTruthStats `json:"ground_truth,omitempty"`
}

// Writer outputs an evaluation in some format.
type Writer interface {
	Write(ev *Evaluation) (int, error)
}

type metric struct {
	name    string
	summary evaluation.Summary
}

func metrics(r *evaluation.Result) []metric {
	return []metric{
		{"correct", r.Correct},
		{"TPR", r.TPR},
		{"FNR", r.FNR},
		{"FPR", r.FPR},
		{"TNR", r.TNR},
	}
}

// TextWriter writes a terse plain text summary.
type TextWriter struct {
	output io.Writer
}

// NewTextWriter creates a TextWriter on output.
func NewTextWriter(output io.Writer) *TextWriter {
	return &TextWriter{output: output}
}

// Write implements Writer.
func (w *TextWriter) Write(ev *Evaluation) (int, error) {
	var b strings.Builder
	r := ev.Result

	if ev.Title != "" {
		fmt.Fprintf(&b, "%s\n", ev.Title)
	}
	if gt := ev.GroundTruth; gt != nil {
		fmt.Fprintf(&b, "labeled: %d total, %d skipped, %d no sso, %d sso, %d unsupported categories\n",
			gt.Total, gt.Skipped, gt.NoSSO, gt.SSO, gt.Unsupported)
	}
	fmt.Fprintf(&b, "keys: %s\n", strings.Join(r.Keys, ","))
	fmt.Fprintf(&b, "sites evaluated: %d\n", r.Evaluated())
	fmt.Fprintf(&b, "sites without prediction: %d (%d with positive labels)\n", len(r.Missing), r.MissingWithPositives)
	t := r.Totals
	fmt.Fprintf(&b, "totals: TP=%d FP=%d TN=%d FN=%d\n", t.TP, t.FP, t.TN, t.FN)

	for _, m := range metrics(r) {
		fmt.Fprintf(&b, "%s median: %s mean: %s length: %d\n",
			m.name, formatFloat(m.summary.Median, m.summary.Count), formatFloat(m.summary.Mean, m.summary.Count), m.summary.Count)
		if len(m.summary.Deciles) > 0 {
			fmt.Fprintf(&b, "%s deciles: %s\n", m.name, formatDeciles(m.summary.Deciles))
		}
	}

	for _, a := range ev.Anomalies {
		fmt.Fprintf(&b, "unsupported provider %q at %s %s\n", a.Provider, a.Site, a.Source)
	}
	return io.WriteString(w.output, b.String())
}

func formatFloat(v float64, count int) string {
	if count == 0 {
		return "-"
	}
	return fmt.Sprintf("%.4f", v)
}

func formatDeciles(ds []float64) string {
	parts := make([]string, len(ds))
	for i, d := range ds {
		parts[i] = fmt.Sprintf("%.4f", d)
	}
	return strings.Join(parts, " ")
}
