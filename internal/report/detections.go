package report

import (
	"fmt"
	"io"

	"github.com/ironsheep/ssodetect/internal/matcher"
)

// WriteDetections writes one line per result:
//
//	<name>,<provider>,<template>,<confidence>
func WriteDetections(w io.Writer, name string, results []matcher.Result) error {
	for _, r := range results {
		if _, err := fmt.Fprintf(w, "%s,%s,%s,%f\n", name, r.Provider, r.TemplateName, r.Confidence); err != nil {
			return fmt.Errorf("write detection: %w", err)
		}
	}
	return nil
}
