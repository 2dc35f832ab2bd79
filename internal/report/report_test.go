package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/ssodetect/internal/evaluation"
	"github.com/ironsheep/ssodetect/internal/labels"
	"github.com/ironsheep/ssodetect/internal/matcher"
)

func TestWriteDetections(t *testing.T) {
	var buf bytes.Buffer
	err := WriteDetections(&buf, "shot.png", []matcher.Result{
		{Provider: "google", TemplateName: "google-20.jpg", Confidence: 0.981},
		{Provider: "apple", TemplateName: "apple-1.jpg_2", Confidence: 0.95},
	})
	require.NoError(t, err)
	assert.Equal(t,
		"shot.png,google,google-20.jpg,0.981000\nshot.png,apple,apple-1.jpg_2,0.950000\n",
		buf.String())
}

func TestWriteDetectionsEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteDetections(&buf, "shot.png", nil))
	assert.Empty(t, buf.String())
}

func testEvaluation(t *testing.T) *Evaluation {
	t.Helper()
	actual := map[string]labels.Vector{
		"a.com":    {"google": true, "apple": true},
		"b.com":    labels.EmptySSO(),
		"gone.com": {"github": true},
	}
	predicted := map[string]labels.Vector{
		"a.com": {"google": true},
		"b.com": {"yahoo": true},
	}
	res, err := evaluation.Evaluate(actual, predicted, evaluation.KeysSSO())
	require.NoError(t, err)
	return &Evaluation{
		Title:       "DOM inference",
		Result:      res,
		Anomalies: []labels.Anomaly{
			{Site: "a.com", Source: "1-https!a.com-20230201102900088-combined.png", Provider: "Twitch"},
			{Site: "b.com", Source: "line 4", Provider: "spotify"},
		},
		GroundTruth: &labels.GroundTruthStats{Total: 4, Skipped: 1, NoSSO: 1, SSO: 2, Unsupported: 1},
	}
}

func TestMarkdownWriter(t *testing.T) {
	var buf bytes.Buffer
	n, err := NewMarkdownWriter(&buf).Write(testEvaluation(t))
	require.NoError(t, err)
	assert.Positive(t, n)

	out := buf.String()
	for _, want := range []string{
		"# DOM inference",
		"## Summary",
		"## Deciles",
		"## Sites Without Prediction",
		"gone.com",
		"## Unsupported Providers",
		"spotify",
		"Twitch",
		"Unsupported label categories",
		"TPR",
	} {
		assert.Contains(t, out, want)
	}
}

func TestMarkdownWriterNoMissing(t *testing.T) {
	res, err := evaluation.Evaluate(
		map[string]labels.Vector{"a.com": {"google": true}},
		map[string]labels.Vector{"a.com": {"google": true}},
		evaluation.KeysSSO(),
	)
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = NewMarkdownWriter(&buf).Write(&Evaluation{Result: res})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "# SSO Detection Evaluation")
	assert.Contains(t, out, "Every labeled site has a prediction.")
	assert.NotContains(t, out, "Unsupported Providers")
}

func TestTextWriter(t *testing.T) {
	var buf bytes.Buffer
	_, err := NewTextWriter(&buf).Write(testEvaluation(t))
	require.NoError(t, err)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "DOM inference\n"))
	assert.Contains(t, out, "labeled: 4 total, 1 skipped, 1 no sso, 2 sso, 1 unsupported categories")
	assert.Contains(t, out, `unsupported provider "Twitch" at a.com 1-https!a.com-20230201102900088-combined.png`)
	assert.Contains(t, out, "sites evaluated: 2")
	assert.Contains(t, out, "sites without prediction: 1 (1 with positive labels)")
	assert.Contains(t, out, "TPR median: 0.5000 mean: 0.5000 length: 1")
	assert.Contains(t, out, `unsupported provider "spotify" at b.com line 4`)
}
