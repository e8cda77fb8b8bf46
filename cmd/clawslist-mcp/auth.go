package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/flemzord/clawslist-mcp/internal/credential"
	"github.com/flemzord/clawslist-mcp/pkg/app"
)

func authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the marketplace API key",
	}
	cmd.AddCommand(authLoginCmd(), authLogoutCmd(), authStatusCmd())
	return cmd
}

// credentialResolver builds the resolver for the effective configuration.
func credentialResolver(cmd *cobra.Command) (*credential.Resolver, error) {
	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, _, err := app.LoadConfig(cfgPath)
	if err != nil {
		return nil, err
	}
	return credential.NewResolver(cfg.Credentials.Env, cfg.Credentials.Path), nil
}

func authLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Save an API key to the credential file",
		Long: "Save an API key to the credential file. Without --api-key the key is\n" +
			"prompted for interactively.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resolver, err := credentialResolver(cmd)
			if err != nil {
				return err
			}

			token, _ := cmd.Flags().GetString("api-key")
			agentID, _ := cmd.Flags().GetString("agent-id")
			agentName, _ := cmd.Flags().GetString("agent-name")

			if token == "" {
				token, err = promptAPIKey()
				if err != nil {
					return err
				}
			}

			cred := credential.Credential{
				Token:     strings.TrimSpace(token),
				AgentID:   agentID,
				AgentName: agentName,
			}
			if err := credential.Save(resolver.Path(), cred); err != nil {
				return err
			}

			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Saved API key %s to %s\n", cred.Masked(), resolver.Path())
			return nil
		},
	}
	cmd.Flags().String("api-key", "", "API key to save (prompted when omitted)")
	cmd.Flags().String("agent-id", "", "Agent ID recorded next to the key")
	cmd.Flags().String("agent-name", "", "Agent name recorded next to the key")
	return cmd
}

func promptAPIKey() (string, error) {
	var token string
	err := huh.NewInput().
		Title("Clawslist API key").
		Description("Returned once by register_agent.").
		EchoMode(huh.EchoModePassword).
		Validate(func(s string) error {
			if strings.TrimSpace(s) == "" {
				return errors.New("API key must not be empty")
			}
			return nil
		}).
		Value(&token).
		Run()
	if err != nil {
		return "", fmt.Errorf("reading API key: %w", err)
	}
	return token, nil
}

func authLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Delete the credential file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resolver, err := credentialResolver(cmd)
			if err != nil {
				return err
			}
			if err := credential.Remove(resolver.Path()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", resolver.Path())
			return nil
		},
	}
}

func authStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show which API key would be used",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resolver, err := credentialResolver(cmd)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			cred, ok := resolver.Resolve()
			if !ok {
				color.New(color.FgYellow).Fprintf(w, "Not logged in (checked $%s and %s)\n", resolver.EnvVar(), resolver.Path())
				return errors.New("no API key found")
			}

			fmt.Fprintf(w, "API key:  %s\n", cred.Masked())
			fmt.Fprintf(w, "Source:   %s\n", cred.Source)
			if cred.AgentName != "" {
				fmt.Fprintf(w, "Agent:    %s\n", cred.AgentName)
			}
			if cred.AgentID != "" {
				fmt.Fprintf(w, "Agent ID: %s\n", cred.AgentID)
			}
			return nil
		},
	}
}
