package labels

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("dom")
	require.NoError(t, err)
	assert.Equal(t, FormatDOM, f)

	f, err = ParseFormat("templatematch")
	require.NoError(t, err)
	assert.Equal(t, FormatTemplateMatch, f)

	_, err = ParseFormat("ocr")
	assert.Error(t, err)
}

func TestReadGroundTruthFile(t *testing.T) {
	got, stats, anomalies, err := ReadGroundTruthFile(writeFile(t, "labeled.json", groundTruthJSON))
	require.NoError(t, err)
	assert.Len(t, got, 3)
	assert.Equal(t, 4, stats.Total)
	assert.Empty(t, anomalies)

	_, _, _, err = ReadGroundTruthFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestReadPredictionsFile(t *testing.T) {
	dom, anomalies, err := ReadPredictionsFile(writeFile(t, "dom.csv", domCSV), FormatDOM)
	require.NoError(t, err)
	assert.Len(t, dom, 2)
	assert.Empty(t, anomalies)

	det, anomalies, err := ReadPredictionsFile(writeFile(t, "tm.txt", detectionsCSV), FormatTemplateMatch)
	require.NoError(t, err)
	assert.Len(t, det, 2)
	assert.Len(t, anomalies, 1)

	_, _, err = ReadPredictionsFile(writeFile(t, "x.txt", ""), Format("bogus"))
	assert.Error(t, err)
}
