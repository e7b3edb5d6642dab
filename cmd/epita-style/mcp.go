package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/epitastyle/internal/config"
	"github.com/dusk-indust/epitastyle/internal/mcptools"
)

func newMCPCmd(stderr io.Writer) *cobra.Command {
	var (
		configFile string
		httpAddr   string
		verbose    bool
	)
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the checker as MCP tools over stdio",
		Long: `Run a Model Context Protocol server on stdin/stdout, or over HTTP with
--http, exposing the tools check_file, check_paths and list_rules. The
configuration is resolved once at startup the same way the check command does;
each call may add a preset and enable or disable rules.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := newLogger(stderr, verbose)
			settings, err := config.Load(config.LoadOptions{
				ConfigFile: configFile,
				Flags:      cmd.Flags(),
				Logger:     logger,
			})
			if err != nil {
				return err
			}
			c, err := newChecker(settings, logger)
			if err != nil {
				return err
			}

			svc := mcptools.NewStyleService(c, mcptools.ServiceOptions{
				Config:  settings.Config,
				Exclude: settings.Exclude,
				Workers: settings.Workers,
				Logger:  logger,
			})
			server := mcptools.NewServer(svc, version)
			if httpAddr != "" {
				logger.Info("serving MCP over HTTP", "addr", httpAddr)
				return mcptools.RunHTTP(cmd.Context(), server, httpAddr)
			}
			logger.Debug("serving MCP on stdio")
			return mcptools.RunStdio(cmd.Context(), server)
		},
	}
	addConfigFlags(cmd.Flags(), &configFile)
	cmd.Flags().StringVar(&httpAddr, "http", "", "serve the streamable HTTP transport on this address instead of stdio")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "debug logging on stderr")
	return cmd
}
