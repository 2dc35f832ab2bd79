package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"

	"github.com/ironsheep/ssodetect/internal/evaluation"
)

// maxMissingListed caps the bullet list of sites without a prediction.
const maxMissingListed = 50

// MarkdownWriter outputs an evaluation as a Markdown document.
type MarkdownWriter struct {
	output io.Writer
}

// NewMarkdownWriter creates a MarkdownWriter on output.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{output: output}
}

// Write implements Writer.
func (w *MarkdownWriter) Write(ev *Evaluation) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, ev)
	w.writeSummary(md, ev.Result)
	w.writeDeciles(md, ev.Result)
	w.writeMissing(md, ev.Result)
	w.writeAnomalies(md, ev)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, ev *Evaluation) {
	title := ev.Title
	if title == "" {
		title = "SSO Detection Evaluation"
	}
	md.H1(title)
	md.PlainText("")

	r := ev.Result
	rows := [][]string{
		{"Keys", "`" + strings.Join(r.Keys, ",") + "`"},
		{"Sites evaluated", strconv.Itoa(r.Evaluated())},
		{"Sites without prediction", strconv.Itoa(len(r.Missing))},
		{"TP / FP / TN / FN", fmt.Sprintf("%d / %d / %d / %d", r.Totals.TP, r.Totals.FP, r.Totals.TN, r.Totals.FN)},
	}
	if gt := ev.GroundTruth; gt != nil {
		rows = append(rows,
			[]string{"Labeled entries", strconv.Itoa(gt.Total)},
			[]string{"Skipped (broken, non-English, recrawl)", strconv.Itoa(gt.Skipped)},
			[]string{"Labeled without SSO", strconv.Itoa(gt.NoSSO)},
			[]string{"Unsupported label categories", strconv.Itoa(gt.Unsupported)},
		)
	}
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, r *evaluation.Result) {
	md.H2("Summary")
	md.PlainText("")

	rows := make([][]string, 0, 5)
	for _, m := range metrics(r) {
		rows = append(rows, []string{
			m.name,
			strconv.Itoa(m.summary.Count),
			formatFloat(m.summary.Mean, m.summary.Count),
			formatFloat(m.summary.Median, m.summary.Count),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Sites", "Mean", "Median"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeDeciles(md *markdown.Markdown, r *evaluation.Result) {
	md.H2("Deciles")
	md.PlainText("")

	header := []string{"Metric"}
	for i := 1; i < evaluation.Deciles; i++ {
		header = append(header, fmt.Sprintf("%d%%", i*100/evaluation.Deciles))
	}
	var rows [][]string
	for _, m := range metrics(r) {
		if len(m.summary.Deciles) == 0 {
			continue
		}
		row := []string{m.name}
		for _, d := range m.summary.Deciles {
			row = append(row, fmt.Sprintf("%.4f", d))
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		md.PlainText("No samples.")
		md.PlainText("")
		return
	}
	md.Table(markdown.TableSet{Header: header, Rows: rows})
	md.PlainText("")
}

func (w *MarkdownWriter) writeMissing(md *markdown.Markdown, r *evaluation.Result) {
	md.H2("Sites Without Prediction")
	md.PlainText("")

	if len(r.Missing) == 0 {
		md.Tip("Every labeled site has a prediction.")
		md.PlainText("")
		return
	}
	if r.MissingWithPositives > 0 {
		md.Warningf("%d of %d sites without a prediction had at least one positive label.",
			r.MissingWithPositives, len(r.Missing))
	} else {
		md.Note("None of the sites without a prediction had a positive label.")
	}
	md.PlainText("")

	listed := r.Missing
	if len(listed) > maxMissingListed {
		listed = listed[:maxMissingListed]
	}
	md.BulletList(listed...)
	if rest := len(r.Missing) - len(listed); rest > 0 {
		md.PlainTextf("... and %d more", rest)
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writeAnomalies(md *markdown.Markdown, ev *Evaluation) {
	if len(ev.Anomalies) == 0 {
		return
	}
	md.H2("Unsupported Providers")
	md.PlainText("")
	md.Cautionf("%d label(s) or detection(s) named a provider outside the supported set.", len(ev.Anomalies))
	md.PlainText("")

	rows := make([][]string, len(ev.Anomalies))
	for i, a := range ev.Anomalies {
		rows[i] = []string{a.Provider, orDash(a.Site), orDash(a.Source)}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Provider", "Site", "Source"},
		Rows:   rows,
	})
	md.PlainText("")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
