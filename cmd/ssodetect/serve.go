package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ironsheep/ssodetect/internal/server"
)

func newServeCmd() *cobra.Command {
	var flags detectorFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdin/stdout",
		Long: `Start an MCP (Model Context Protocol) server speaking JSON-RPC 2.0 over
stdin/stdout. Templates are loaded once at startup.

Tools:
  sso_providers  Loaded templates and thresholds
  sso_match      Detect provider logos on a screenshot
  sso_annotate   Detect and outline provider logos
  sso_evaluate   Score predictions against labeled ground truth`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, _, err := flags.matcher(cmd)
			if err != nil {
				return err
			}
			slog.Info("MCP server starting", "version", Version, "commit", GitCommit)
			srv := server.New(m, server.WithLogger(slog.Default()), server.WithVersion(Version))
			return srv.Serve(cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	flags.register(cmd)
	return cmd
}
