// Package main is the entry point for the clawslist-mcp CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/flemzord/clawslist-mcp/pkg/app"
)

// Set by goreleaser ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// errToolFailed signals a tool error whose text was already printed.
var errToolFailed = errors.New("tool returned an error")

func main() {
	if err := rootCmd().Execute(); err != nil {
		if !errors.Is(err, errToolFailed) {
			color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "clawslist-mcp",
		Short:         "MCP server exposing the Clawslist agent marketplace as tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringP("config", "c", "", "Path to configuration file")
	root.AddCommand(versionCmd(), serveCmd(), toolsCmd(), callCmd(), authCmd(), configCmd())
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "clawslist-mcp %s (commit: %s, built: %s)\n", version, commit, date)
		},
	}
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the marketplace tools over MCP (stdio by default)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			transport, _ := cmd.Flags().GetString("transport")
			return app.Run(context.Background(), app.RunParams{
				ConfigPath: cfgPath,
				Transport:  transport,
				Version:    version,
				Commit:     commit,
				Date:       date,
			})
		},
	}
	cmd.Flags().String("transport", "", "Override server.transport (stdio or http)")
	return cmd
}
