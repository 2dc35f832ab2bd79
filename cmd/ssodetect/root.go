package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ironsheep/ssodetect/internal/config"
	"github.com/ironsheep/ssodetect/internal/matcher"
	"github.com/ironsheep/ssodetect/internal/template"
)

// logLevelEnv enables debug logging when set to "debug".
const logLevelEnv = "SSODETECT_LOG_LEVEL"

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ssodetect",
		Short: "Detect and evaluate SSO provider logos on login pages",
		Long: `ssodetect matches SSO provider logo templates against login page screenshots
and scores detections, or any other per-site classifier output, against
labeled ground truth.

Logs are written to stderr. Set ` + logLevelEnv + `=debug or pass --debug for
per-variant scores and per-site tallies.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			setupLogging(cmd, debug)
			return nil
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")

	cmd.AddCommand(newMatchCmd())
	cmd.AddCommand(newEvaluateCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// setupLogging installs a text handler on stderr as the default logger.
// stdout is reserved for results and the MCP protocol.
func setupLogging(cmd *cobra.Command, debug bool) {
	level := slog.LevelInfo
	if debug || strings.EqualFold(os.Getenv(logLevelEnv), "debug") {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(h))
}

// detectorFlags are shared by the commands that load templates.
type detectorFlags struct {
	configPath  string
	templateDir string
	threshold   float64
	policy      string
	workers     int
}

func (f *detectorFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.configPath, "config", "", "YAML configuration file")
	cmd.Flags().StringVar(&f.templateDir, "template-dir", "", "Directory of <provider>-<name>.<ext> logo templates")
	cmd.Flags().Float64Var(&f.threshold, "threshold", config.DefaultThreshold, "Minimum correlation for a detection")
	cmd.Flags().StringVar(&f.policy, "policy", config.DefaultPolicy, "Variant policy: first or best")
	cmd.Flags().IntVar(&f.workers, "workers", config.DefaultWorkers, "Screenshots matched concurrently")
}

// config loads the configuration file, if any, and applies the flags that
// were set explicitly.
func (f *detectorFlags) config(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if f.configPath != "" {
		loaded, err := config.Load(f.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("template-dir") {
		cfg.TemplateDir = f.templateDir
	}
	if flags.Changed("threshold") {
		cfg.Threshold = f.threshold
	}
	if flags.Changed("policy") {
		cfg.Policy = f.policy
	}
	if flags.Changed("workers") {
		cfg.Workers = f.workers
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.TemplateDir == "" {
		return nil, fmt.Errorf("--template-dir is required")
	}
	return cfg, nil
}

// matcher loads the templates and builds a Matcher from the configuration.
func (f *detectorFlags) matcher(cmd *cobra.Command) (*matcher.Matcher, *config.Config, error) {
	cfg, err := f.config(cmd)
	if err != nil {
		return nil, nil, err
	}
	store, err := template.Load(cfg.TemplateDir, template.OptionsFromConfig(cfg))
	if err != nil {
		return nil, nil, err
	}
	slog.Debug("templates loaded",
		"dir", cfg.TemplateDir,
		"providers", store.Len(),
		"variants", store.VariantCount(),
	)
	return matcher.New(store, matcher.WithConfig(cfg)), cfg, nil
}
