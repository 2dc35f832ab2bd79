package main

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ironsheep/ssodetect/internal/evaluation"
	"github.com/ironsheep/ssodetect/internal/labels"
	"github.com/ironsheep/ssodetect/internal/report"
)

func newEvaluateCmd() *cobra.Command {
	var (
		actualPath    string
		predictedPath string
		format        string
		keysName      string
		title         string
		asMarkdown    bool
		asJSON        bool
	)

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Score predictions against labeled ground truth",
		Long: `Compare per-site predictions with labeled ground truth and summarise the
per-site percent correct, TPR, FNR, FPR and TNR.

Predictions are either detector output lines (--format templatematch) or the
crawler's DOM inference CSV (--format dom). --keys selects the label keys
checked: sso (every supported provider), first (first-party login only) or
all.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if asMarkdown && asJSON {
				return fmt.Errorf("--markdown and --json are mutually exclusive")
			}
			f, err := labels.ParseFormat(format)
			if err != nil {
				return err
			}
			keys, err := evaluation.KeysByName(keysName)
			if err != nil {
				return err
			}

			actual, stats, unsupported, err := labels.ReadGroundTruthFile(actualPath)
			if err != nil {
				return err
			}
			slog.Debug("ground truth loaded", "total", stats.Total, "skipped", stats.Skipped, "no_sso", stats.NoSSO, "unsupported", stats.Unsupported)

			predicted, anomalies, err := labels.ReadPredictionsFile(predictedPath, f)
			if err != nil {
				return err
			}
			anomalies = append(unsupported, anomalies...)

			res, err := evaluation.Evaluate(actual, predicted, keys)
			if err != nil {
				return err
			}

			if title == "" {
				title = fmt.Sprintf("Evaluation of %s predictions (%s keys)", f, keysName)
			}
			ev := &report.Evaluation{
				Title:       title,
				Result:      res,
				Anomalies:   anomalies,
				GroundTruth: &stats,
			}

			out := cmd.OutOrStdout()
			switch {
			case asJSON:
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(ev)
			case asMarkdown:
				_, err = report.NewMarkdownWriter(out).Write(ev)
			default:
				_, err = report.NewTextWriter(out).Write(ev)
			}
			return err
		},
	}

	cmd.Flags().StringVar(&actualPath, "actual", "", "Labeled ground truth JSON")
	cmd.Flags().StringVar(&predictedPath, "predicted", "", "Predictions file")
	cmd.Flags().StringVar(&format, "format", string(labels.FormatTemplateMatch), "Prediction format: templatematch or dom")
	cmd.Flags().StringVar(&keysName, "keys", "sso", "Label keys to check: sso, first or all")
	cmd.Flags().StringVar(&title, "title", "", "Report title")
	cmd.Flags().BoolVar(&asMarkdown, "markdown", false, "Write a Markdown report")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Write the full result as JSON")
	_ = cmd.MarkFlagRequired("actual")
	_ = cmd.MarkFlagRequired("predicted")

	return cmd
}
