package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rburke/adscale/config"
	"github.com/rburke/adscale/retry"
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create campaigns in bulk from a JSON configuration",
	Long: `Create campaigns from a JSON array of campaign definitions.
Budgets in the file are in dollars. Creation continues past individual
failures; the exit status is non-zero if any campaign failed.

Example campaigns.json:
  [
    {
      "name": "Q1_Brand_Awareness",
      "objective": "OUTCOME_AWARENESS",
      "daily_budget": 50.00,
      "status": "PAUSED"
    }
  ]

Example:
  adscale create --account act_1234567890 --config campaigns.json`,
	RunE: runCreate,
}

var (
	createAccount string
	createConfig  string
)

func init() {
	rootCmd.AddCommand(createCmd)

	createCmd.Flags().StringVarP(&createAccount, "account", "a", "", "ad account id (default $META_ACCOUNT_ID)")
	createCmd.Flags().StringVarP(&createConfig, "config", "f", "", "path to campaign JSON file (required)")
	createCmd.MarkFlagRequired("config")
}

func runCreate(cmd *cobra.Command, args []string) error {
	env, err := config.LoadEnv()
	if err != nil {
		return fmt.Errorf("load credentials: %w", err)
	}
	account, err := resolveAccount(createAccount, env)
	if err != nil {
		return err
	}

	specs, err := config.LoadCampaignSpecs(createConfig)
	if err != nil {
		return err
	}

	client := newClient(env, "")
	ctx := cmd.Context()
	exec := retry.Executor{}

	created, failed := 0, 0
	for i, spec := range specs {
		spec := spec
		id, err := retry.DoValue(ctx, exec, func() (string, error) {
			return client.CreateCampaign(ctx, account, spec)
		})
		if err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ Failed to create campaign %d (%s): %v\n", i+1, spec.Name, err)
			continue
		}
		created++
		fmt.Printf("✓ Created campaign %d: %s (ID: %s)\n", i+1, spec.Name, id)
	}

	fmt.Printf("\nSummary: %d created, %d failed\n", created, failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d campaigns failed", failed, len(specs))
	}
	return nil
}
