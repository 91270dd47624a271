package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rburke/adscale/config"
	"github.com/rburke/adscale/meta"
)

var rootCmd = &cobra.Command{
	Use:   "adscale",
	Short: "Automation for Meta ad campaign management",
	Long: `Adscale automates routine operations against Meta ad accounts.

It provides tools for:
  - Listing campaigns with recent performance metrics
  - Creating campaigns in bulk from a JSON configuration
  - Rescaling daily budgets based on recent spend and conversions
  - Journaling every run for later reconciliation

Credentials come from the environment: set META_ACCESS_TOKEN, and
optionally META_ACCOUNT_ID as a default account.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

// newClient builds an API client from the environment, honoring an
// explicit base URL override.
func newClient(env config.Env, baseURL string) *meta.Client {
	if baseURL == "" {
		baseURL = env.APIURL
	}
	return meta.NewClient(env.AccessToken, baseURL)
}

// resolveAccount picks the account id: flag first, then environment.
func resolveAccount(flagValue string, env config.Env) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if env.AccountID != "" {
		return env.AccountID, nil
	}
	return "", fmt.Errorf("no account id: pass --account or set META_ACCOUNT_ID")
}
