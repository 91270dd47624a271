package cmd

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rburke/adscale/ads"
	"github.com/rburke/adscale/config"
	"github.com/rburke/adscale/meta"
	"github.com/rburke/adscale/retry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List campaigns for an ad account",
	Long: `List the account's campaigns with status and daily budget,
optionally with performance insights over a lookback window.

Examples:
  adscale list --account act_1234567890
  adscale list --account act_1234567890 --insights --lookback 7
  adscale list --account act_1234567890 --output campaigns.csv`,
	RunE: runList,
}

var (
	listAccount  string
	listLimit    int
	listStatus   string
	listInsights bool
	listLookback int
	listOutput   string
)

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVarP(&listAccount, "account", "a", "", "ad account id (default $META_ACCOUNT_ID)")
	listCmd.Flags().IntVar(&listLimit, "limit", 100, "maximum campaigns to retrieve")
	listCmd.Flags().StringVar(&listStatus, "status", "", "filter by effective status (e.g. ACTIVE)")
	listCmd.Flags().BoolVar(&listInsights, "insights", false, "include performance insights")
	listCmd.Flags().IntVar(&listLookback, "lookback", 7, "insight lookback window in days")
	listCmd.Flags().StringVarP(&listOutput, "output", "o", "", "export to CSV file")
}

func runList(cmd *cobra.Command, args []string) error {
	env, err := config.LoadEnv()
	if err != nil {
		return fmt.Errorf("load credentials: %w", err)
	}
	account, err := resolveAccount(listAccount, env)
	if err != nil {
		return err
	}

	client := newClient(env, "")
	ctx := cmd.Context()

	filter := meta.CampaignFilter{Limit: listLimit}
	if listStatus != "" {
		filter.Statuses = []ads.Status{ads.Status(listStatus)}
	}

	exec := retry.Executor{}
	campaigns, err := retry.DoValue(ctx, exec, func() ([]ads.Campaign, error) {
		return client.GetCampaigns(ctx, account, filter)
	})
	if err != nil {
		return fmt.Errorf("retrieve campaigns: %w", err)
	}

	if len(campaigns) == 0 {
		fmt.Println("No campaigns found.")
		return nil
	}
	fmt.Printf("Found %d campaigns for %s\n\n", len(campaigns), meta.NormalizeAccountID(account))

	perfs := map[string]ads.Performance{}
	if listInsights {
		for _, c := range campaigns {
			perf, err := retry.DoValue(ctx, exec, func() (ads.Performance, error) {
				return client.GetInsights(ctx, c.ID, listLookback)
			})
			if err != nil {
				fmt.Fprintf(os.Stderr, "warning: no insights for %s: %v\n", c.ID, err)
				continue
			}
			perfs[c.ID] = perf
		}
	}

	printCampaignTable(campaigns, perfs)

	if listOutput != "" {
		if err := exportCampaignsCSV(listOutput, campaigns, perfs); err != nil {
			return fmt.Errorf("export csv: %w", err)
		}
		fmt.Printf("\nExported to %s\n", listOutput)
	}
	return nil
}

func printCampaignTable(campaigns []ads.Campaign, perfs map[string]ads.Performance) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()

	if len(perfs) > 0 {
		fmt.Fprintln(w, "ID\tNAME\tSTATUS\tDAILY BUDGET\tSPEND\tCONV\tCPA")
	} else {
		fmt.Fprintln(w, "ID\tNAME\tSTATUS\tDAILY BUDGET\tOBJECTIVE")
	}

	for _, c := range campaigns {
		if len(perfs) > 0 {
			perf := perfs[c.ID]
			cpa := "N/A"
			if v, ok := perf.CPA(); ok {
				cpa = v.String()
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
				c.ID, c.Name, c.Status, c.DailyBudget, perf.Spend, perf.Conversions, cpa)
		} else {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				c.ID, c.Name, c.Status, c.DailyBudget, c.Objective)
		}
	}
}

func exportCampaignsCSV(path string, campaigns []ads.Campaign, perfs map[string]ads.Performance) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"id", "name", "status", "daily_budget", "objective", "spend", "conversions"}); err != nil {
		return err
	}
	for _, c := range campaigns {
		perf := perfs[c.ID]
		err := w.Write([]string{
			c.ID,
			c.Name,
			string(c.Status),
			strconv.FormatInt(int64(c.DailyBudget), 10),
			c.Objective,
			strconv.FormatInt(int64(perf.Spend), 10),
			strconv.FormatInt(perf.Conversions, 10),
		})
		if err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
