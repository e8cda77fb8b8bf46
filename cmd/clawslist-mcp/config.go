package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/flemzord/clawslist-mcp/internal/config"
	"github.com/flemzord/clawslist-mcp/internal/security"
	"github.com/flemzord/clawslist-mcp/pkg/app"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Validate and print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			cfg, used, err := app.LoadConfig(cfgPath)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if used == "" {
				used = "(none, defaults and environment only)"
			}
			color.New(color.FgGreen).Fprintf(w, "Configuration OK\n")
			fmt.Fprintf(w, "File: %s\n\n", used)
			return printEffective(w, cfg)
		},
	})
	return cmd
}

// printEffective writes cfg as YAML with secret-looking values redacted.
func printEffective(w io.Writer, cfg *config.Config) error {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	var m map[string]any
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return err
	}
	security.NewRedactor().RedactMap(m)

	out, err := yaml.Marshal(m)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}
