package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ironsheep/ssodetect/internal/evaluation"
	"github.com/ironsheep/ssodetect/internal/imaging"
	"github.com/ironsheep/ssodetect/internal/labels"
	"github.com/ironsheep/ssodetect/internal/matcher"
	"github.com/ironsheep/ssodetect/internal/report"
)

func newMatchCmd() *cobra.Command {
	var (
		flags       detectorFlags
		annotateDir string
		labelsPath  string
		keysName    string
		reportPath  string
	)

	cmd := &cobra.Command{
		Use:   "match <screenshot|dir>...",
		Short: "Detect SSO provider logos on screenshots",
		Long: `Match every logo template against each screenshot and print one line per
detection:

  <screenshot>,<provider>,<template>,<confidence>

Directories are expanded to the image files they contain. The output can be
fed back to "ssodetect evaluate --format templatematch".

With --labels the detections are also scored against the labeled ground
truth. Screenshots must then carry crawl artefact names
(<rank>-<scheme>!<host>-<timestamp>-<suffix>.<ext>). The summary goes to
stderr, or as Markdown to --report.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, cfg, err := flags.matcher(cmd)
			if err != nil {
				return err
			}
			paths, err := expandPaths(args)
			if err != nil {
				return err
			}
			if annotateDir != "" {
				if err := os.MkdirAll(annotateDir, 0o755); err != nil {
					return fmt.Errorf("failed to create annotation dir: %w", err)
				}
			}

			results, err := m.Batch(cmd.Context(), paths, cfg.Workers)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			failed := 0
			for _, fr := range results {
				if fr.Err != nil {
					failed++
					slog.Error("match failed", "path", fr.Path, "error", fr.Err)
					continue
				}
				if err := report.WriteDetections(out, filepath.Base(fr.Path), fr.Results); err != nil {
					return err
				}
				if annotateDir != "" {
					if err := annotate(fr.Path, annotateDir, fr.Results); err != nil {
						return err
					}
				}
			}
			if labelsPath != "" {
				if err := evaluateBatch(cmd, results, labelsPath, keysName, reportPath); err != nil {
					return err
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d screenshots failed", failed, len(paths))
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&annotateDir, "annotate", "", "Write annotated copies of the screenshots to this directory")
	cmd.Flags().StringVar(&labelsPath, "labels", "", "Score detections against this labeled ground truth JSON")
	cmd.Flags().StringVar(&keysName, "keys", "sso", "Label keys to check with --labels: sso, first or all")
	cmd.Flags().StringVar(&reportPath, "report", "", "Write the --labels evaluation as Markdown to this file")

	return cmd
}

// expandPaths replaces directories with their image files, sorted by name.
func expandPaths(args []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			out = append(out, arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, err
		}
		var files []string
		for _, e := range entries {
			if e.Type().IsRegular() && imaging.IsImageFile(e.Name()) {
				files = append(files, filepath.Join(arg, e.Name()))
			}
		}
		slices.Sort(files)
		out = append(out, files...)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no screenshots found")
	}
	return out, nil
}

// annotate writes <dir>/<name>-annotated.png with every result outlined.
func annotate(path, dir string, results []matcher.Result) error {
	img, err := imaging.Open(path)
	if err != nil {
		return err
	}
	boxes, legend := report.Overlay(results)
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base)) + "-annotated.png"
	return imaging.Save(filepath.Join(dir, name), imaging.Annotate(img, boxes, legend))
}

// evaluateBatch scores the batch against the ground truth in labelsPath.
func evaluateBatch(cmd *cobra.Command, results []matcher.FileResult, labelsPath, keysName, reportPath string) error {
	keys, err := evaluation.KeysByName(keysName)
	if err != nil {
		return err
	}
	actual, stats, unsupported, err := labels.ReadGroundTruthFile(labelsPath)
	if err != nil {
		return err
	}
	predicted, anomalies := labels.FromBatch(results)
	anomalies = append(unsupported, anomalies...)

	res, err := evaluation.Evaluate(actual, predicted, keys)
	if err != nil {
		return err
	}
	ev := &report.Evaluation{
		Title:       fmt.Sprintf("Template match evaluation (%s keys)", keysName),
		Result:      res,
		Anomalies:   anomalies,
		GroundTruth: &stats,
	}

	if reportPath == "" {
		_, err = report.NewTextWriter(cmd.ErrOrStderr()).Write(ev)
		return err
	}
	f, err := os.Create(reportPath)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	defer f.Close()
	_, err = report.NewMarkdownWriter(f).Write(ev)
	return err
}
