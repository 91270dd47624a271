package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rburke/adscale/ads"
	"github.com/rburke/adscale/meta"
)

// campaignEntry is one element of a campaign creation file. Budgets are
// written in dollars; the wire format wants cents.
type campaignEntry struct {
	Name                string   `json:"name"`
	Objective           string   `json:"objective"`
	DailyBudget         float64  `json:"daily_budget"`
	Status              string   `json:"status,omitempty"`
	SpecialAdCategories []string `json:"special_ad_categories,omitempty"`
}

// LoadCampaignSpecs parses a campaign creation file: a JSON array of
// campaign objects. Every entry is validated up front so a bad entry is
// reported before anything is created.
func LoadCampaignSpecs(path string) ([]meta.CampaignSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read campaign config: %w", err)
	}

	var entries []campaignEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse campaign config (must be a JSON array): %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("campaign config %s contains no campaigns", path)
	}

	specs := make([]meta.CampaignSpec, 0, len(entries))
	for i, e := range entries {
		spec := meta.CampaignSpec{
			Name:                e.Name,
			Objective:           e.Objective,
			Status:              ads.Status(e.Status),
			DailyBudget:         ads.CentsFromDollars(e.DailyBudget),
			SpecialAdCategories: e.SpecialAdCategories,
		}
		if err := spec.Validate(); err != nil {
			return nil, fmt.Errorf("campaign %d: %w", i+1, err)
		}
		specs = append(specs, spec)
	}
	return specs, nil
}
