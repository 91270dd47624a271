package meta

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/rburke/adscale/ads"
)

// apiAction is one entry of an actions / action_values breakdown.
type apiAction struct {
	ActionType string `json:"action_type"`
	Value      string `json:"value"`
}

type apiInsight struct {
	Spend        string      `json:"spend"`
	Actions      []apiAction `json:"actions"`
	ActionValues []apiAction `json:"action_values"`
}

type insightsPage struct {
	Data []apiInsight `json:"data"`
}

// GetInsights aggregates campaign-level performance over the trailing
// lookback window ending today. An empty insight listing means the window
// had no delivery and yields a zero Performance, not an error.
func (c *Client) GetInsights(ctx context.Context, campaignID string, lookbackDays int) (ads.Performance, error) {
	if lookbackDays <= 0 {
		return ads.Performance{}, fmt.Errorf("campaign %s: lookback days must be positive, got %d", campaignID, lookbackDays)
	}

	until := c.now()
	since := until.AddDate(0, 0, -lookbackDays)

	params := url.Values{}
	params.Set("level", "campaign")
	params.Set("fields", "spend,actions,action_values")
	params.Set("time_range", fmt.Sprintf(`{"since":%q,"until":%q}`,
		since.Format("2006-01-02"), until.Format("2006-01-02")))

	var page insightsPage
	if err := c.getJSON(ctx, "/"+campaignID+"/insights", params, &page); err != nil {
		return ads.Performance{}, err
	}

	perf := ads.Performance{CampaignID: campaignID, LookbackDays: lookbackDays}
	for _, row := range page.Data {
		if row.Spend != "" {
			spend, err := strconv.ParseFloat(row.Spend, 64)
			if err != nil {
				return ads.Performance{}, fmt.Errorf("campaign %s: parse spend %q: %w", campaignID, row.Spend, err)
			}
			perf.Spend += ads.CentsFromDollars(spend)
		}

		for _, a := range row.Actions {
			n, err := strconv.ParseInt(a.Value, 10, 64)
			if err != nil {
				return ads.Performance{}, fmt.Errorf("campaign %s: parse action %s value %q: %w", campaignID, a.ActionType, a.Value, err)
			}
			perf.Conversions += n
		}

		for _, a := range row.ActionValues {
			v, err := strconv.ParseFloat(a.Value, 64)
			if err != nil {
				return ads.Performance{}, fmt.Errorf("campaign %s: parse action value %s %q: %w", campaignID, a.ActionType, a.Value, err)
			}
			perf.Revenue += ads.CentsFromDollars(v)
		}
	}

	return perf, nil
}
