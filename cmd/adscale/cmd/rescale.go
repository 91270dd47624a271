package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rburke/adscale/ads"
	"github.com/rburke/adscale/config"
	"github.com/rburke/adscale/journal"
	"github.com/rburke/adscale/meta"
	"github.com/rburke/adscale/rescale"
	"github.com/rburke/adscale/retry"
)

var rescaleCmd = &cobra.Command{
	Use:   "rescale",
	Short: "Rescale campaign budgets based on recent performance",
	Long: `Adjust daily budgets for the account's campaigns based on spend and
conversion metrics over a lookback window. Adjustments are capped at
±50% regardless of the requested percentage. Without --campaign flags
every ACTIVE campaign in the account is processed.

Examples:
  adscale rescale --config adscale.yaml
  adscale rescale --account act_42 --adjustment 10 --lookback 7
  adscale rescale --config adscale.yaml --dry-run`,
	RunE: runRescale,
}

var (
	rescaleConfig     string
	rescaleAccount    string
	rescaleAdjustment float64
	rescaleLookback   int
	rescaleCampaigns  []string
	rescaleDryRun     bool
)

func init() {
	rootCmd.AddCommand(rescaleCmd)

	rescaleCmd.Flags().StringVarP(&rescaleConfig, "config", "f", "", "path to config file (YAML or JSON)")
	rescaleCmd.Flags().StringVarP(&rescaleAccount, "account", "a", "", "ad account id (default from config or $META_ACCOUNT_ID)")
	rescaleCmd.Flags().Float64Var(&rescaleAdjustment, "adjustment", 0, "adjustment percentage override, e.g. 10 or -5")
	rescaleCmd.Flags().IntVar(&rescaleLookback, "lookback", 0, "lookback window override in days")
	rescaleCmd.Flags().StringArrayVar(&rescaleCampaigns, "campaign", nil, "campaign id to process (repeatable; default all ACTIVE)")
	rescaleCmd.Flags().BoolVar(&rescaleDryRun, "dry-run", false, "decide but do not write anything remotely")
}

func runRescale(cmd *cobra.Command, args []string) error {
	env, err := config.LoadEnv()
	if err != nil {
		return fmt.Errorf("load credentials: %w", err)
	}

	cfg := config.Default()
	if rescaleConfig != "" {
		cfg, err = config.LoadFromFile(rescaleConfig)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
	}

	account := rescaleAccount
	if account == "" && cfg.Account.ID != "" && rescaleConfig != "" {
		account = cfg.Account.ID
	}
	account, err = resolveAccount(account, env)
	if err != nil {
		return err
	}

	p := cfg.Policy.ToPolicy()
	if cmd.Flags().Changed("adjustment") {
		p.AdjustmentFraction = rescaleAdjustment / 100
	}
	if cmd.Flags().Changed("lookback") {
		p.LookbackDays = rescaleLookback
	}

	log := cfg.Log.NewLogger(os.Stderr)
	client := newClient(env, cfg.API.BaseURL)
	ctx := cmd.Context()

	ids := rescaleCampaigns
	if len(ids) == 0 {
		campaigns, err := retry.DoValue(ctx, retry.Executor{}, func() ([]ads.Campaign, error) {
			return client.GetCampaigns(ctx, account, meta.CampaignFilter{
				Statuses: []ads.Status{ads.StatusActive},
			})
		})
		if err != nil {
			return fmt.Errorf("list active campaigns: %w", err)
		}
		for _, c := range campaigns {
			ids = append(ids, c.ID)
		}
	}
	if len(ids) == 0 {
		fmt.Println("No active campaigns to process.")
		return nil
	}

	runner := &rescale.Runner{
		Reader:   client,
		Insights: client,
		Mutator:  client,
		Exec:     retry.Executor{},
		Log:      log,
	}
	if rescaleDryRun {
		runner.Mutator = rescale.NopMutator{}
		fmt.Println("Dry run: no remote changes will be made.")
	}

	fmt.Printf("Analyzing %d campaigns (lookback: %d days, adjustment: %+.1f%%)\n\n",
		len(ids), p.LookbackDays, p.AdjustmentFraction*100)

	sum, runErr := runner.Run(ctx, ids, p)
	printSummary(sum)

	if !rescaleDryRun {
		if err := journalRun(cfg.Journal, account, sum); err != nil {
			fmt.Fprintf(os.Stderr, "warning: journal run: %v\n", err)
		}
	}

	if runErr != nil {
		return fmt.Errorf("run aborted: %w", runErr)
	}
	return nil
}

func printSummary(sum rescale.Summary) {
	for _, o := range sum.Outcomes {
		switch o.Result {
		case rescale.ResultUpdated:
			fmt.Printf("✓ %s (%s): %s -> %s (%s)\n", o.Name, o.CampaignID, o.OldBudget, o.NewBudget, o.Reason)
		case rescale.ResultErrored:
			fmt.Printf("✗ %s (%s): %s\n", o.Name, o.CampaignID, o.Err)
		default:
			fmt.Printf("- %s (%s): %s (%s)\n", o.Name, o.CampaignID, o.Result, o.Reason)
		}
	}

	fmt.Printf("\nRun %s: %d updated, %d skipped, %d paused, %d errored\n",
		sum.RunID, sum.Updated, sum.Skipped, sum.Paused, sum.Errored)
}

func journalRun(jc config.JournalConfig, account string, sum rescale.Summary) error {
	var (
		j   journal.Journal
		err error
	)
	switch jc.Type {
	case "csv":
		j, err = journal.NewCSV(jc.RunsFile, jc.OutcomesFile)
	case "sqlite":
		j, err = journal.NewSQLite(jc.DBPath)
	default:
		j = journal.Nop{}
	}
	if err != nil {
		return err
	}
	defer j.Close()

	return journal.Record(j, meta.NormalizeAccountID(account), sum)
}
