package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/flemzord/clawslist-mcp/internal/tool"
	"github.com/flemzord/clawslist-mcp/pkg/app"
)

func toolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List the marketplace tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			printCatalog(cmd.OutOrStdout(), tool.Builtin())
			return nil
		},
	}
}

// printCatalog writes one row per tool in catalog order.
func printCatalog(w io.Writer, c *tool.Catalog) {
	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)

	yellow.Fprintf(w, "%d tools\n\n", c.Len())
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tMETHOD\tPATH\tAUTH")
	for _, d := range c.Descriptors() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", cyan.Sprint(d.Name), d.Endpoint.Method, d.Endpoint.Path, d.Auth)
	}
	_ = tw.Flush()
}

func callCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "call <tool>",
		Short: "Invoke one tool and print its result",
		Long: "Invoke one tool against the configured marketplace and print the rendered result.\n" +
			"Exits non-zero when the tool reports an error.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			rawArgs, _ := cmd.Flags().GetString("args")

			var toolArgs map[string]any
			if err := json.Unmarshal([]byte(rawArgs), &toolArgs); err != nil {
				return fmt.Errorf("parsing --args: %w", err)
			}

			cfg, _, err := app.LoadConfig(cfgPath)
			if err != nil {
				return err
			}
			c, err := app.Wire(cfg, version, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			return invoke(cmd.Context(), cmd.OutOrStdout(), c, args[0], toolArgs)
		},
	}
	cmd.Flags().String("args", "{}", "Tool arguments as a JSON object")
	return cmd
}

// invoke validates and dispatches one call, printing the response text.
func invoke(ctx context.Context, w io.Writer, c *app.Components, name string, args map[string]any) error {
	if ctx == nil {
		ctx = context.Background()
	}

	if err := c.Validator.Validate(name, args); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return errToolFailed
	}

	resp := c.Dispatcher.Invoke(ctx, name, args)
	fmt.Fprintln(w, resp.Text)
	if resp.IsError {
		return errToolFailed
	}
	return nil
}
