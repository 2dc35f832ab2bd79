package labels

import (
	"fmt"
	"os"
)

// Format names a prediction source.
type Format string

const (
	// FormatDOM is the crawler's DOM-inference CSV.
	FormatDOM Format = "dom"

	// FormatTemplateMatch is detector output lines.
	FormatTemplateMatch Format = "templatematch"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatDOM, FormatTemplateMatch:
		return f, nil
	}
	return "", fmt.Errorf("unknown prediction format %q (want %s or %s)", s, FormatDOM, FormatTemplateMatch)
}

// ReadGroundTruthFile opens path and reads it with ReadGroundTruth.
func ReadGroundTruthFile(path string) (map[string]Vector, GroundTruthStats, []Anomaly, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, GroundTruthStats{}, nil, fmt.Errorf("failed to open ground truth: %w", err)
	}
	defer f.Close()
	return ReadGroundTruth(f)
}

// ReadPredictionsFile opens path and reads it in the given format.
// Anomalies are only reported for FormatTemplateMatch.
func ReadPredictionsFile(path string, format Format) (map[string]Vector, []Anomaly, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open predictions: %w", err)
	}
	defer f.Close()

	switch format {
	case FormatDOM:
		v, err := ReadDOMInference(f)
		return v, nil, err
	case FormatTemplateMatch:
		return ReadDetections(f)
	}
	return nil, nil, fmt.Errorf("unknown prediction format %q", format)
}
