package meta

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/rburke/adscale/ads"
)

const campaignFields = "id,name,status,daily_budget,objective,created_time"

// createdTimeLayout is the Graph API timestamp format (ISO 8601 with a
// ±HHMM zone offset, no colon).
const createdTimeLayout = "2006-01-02T15:04:05-0700"

// apiCampaign is a campaign node as returned by the Graph API. Budgets
// come back as decimal strings of cents.
type apiCampaign struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Status      string `json:"status"`
	DailyBudget string `json:"daily_budget"`
	Objective   string `json:"objective"`
	CreatedTime string `json:"created_time"`
}

func (a apiCampaign) toCampaign() (ads.Campaign, error) {
	c := ads.Campaign{
		ID:        a.ID,
		Name:      a.Name,
		Status:    ads.Status(a.Status),
		Objective: a.Objective,
	}

	if a.DailyBudget != "" {
		cents, err := strconv.ParseInt(a.DailyBudget, 10, 64)
		if err != nil {
			return c, fmt.Errorf("campaign %s: parse daily_budget %q: %w", a.ID, a.DailyBudget, err)
		}
		c.DailyBudget = ads.Cents(cents)
	}

	if a.CreatedTime != "" {
		t, err := time.Parse(createdTimeLayout, a.CreatedTime)
		if err != nil {
			return c, fmt.Errorf("campaign %s: parse created_time %q: %w", a.ID, a.CreatedTime, err)
		}
		c.CreatedTime = t
	}

	return c, nil
}

type campaignsPage struct {
	Data   []apiCampaign `json:"data"`
	Paging struct {
		Cursors struct {
			After string `json:"after"`
		} `json:"cursors"`
		Next string `json:"next"`
	} `json:"paging"`
}

// CampaignFilter narrows a campaign listing.
type CampaignFilter struct {
	Statuses []ads.Status // effective_status filter; empty means all
	Limit    int          // page size, default 100
}

// GetCampaigns lists the account's campaigns, following cursor paging
// until the listing is exhausted.
func (c *Client) GetCampaigns(ctx context.Context, accountID string, filter CampaignFilter) ([]ads.Campaign, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	params := url.Values{}
	params.Set("fields", campaignFields)
	params.Set("limit", strconv.Itoa(limit))

	if len(filter.Statuses) > 0 {
		f, err := statusFiltering(filter.Statuses)
		if err != nil {
			return nil, err
		}
		params.Set("filtering", f)
	}

	path := "/" + NormalizeAccountID(accountID) + "/campaigns"

	var out []ads.Campaign
	for {
		var page campaignsPage
		if err := c.getJSON(ctx, path, params, &page); err != nil {
			return nil, err
		}

		for _, a := range page.Data {
			campaign, err := a.toCampaign()
			if err != nil {
				return nil, err
			}
			out = append(out, campaign)
		}

		if page.Paging.Next == "" || page.Paging.Cursors.After == "" {
			return out, nil
		}
		params.Set("after", page.Paging.Cursors.After)
	}
}

// statusFiltering builds the JSON filtering expression the listing
// endpoint expects.
func statusFiltering(statuses []ads.Status) (string, error) {
	values := make([]string, len(statuses))
	for i, s := range statuses {
		values[i] = string(s)
	}
	expr := []map[string]any{{
		"field":    "effective_status",
		"operator": "IN",
		"value":    values,
	}}
	b, err := json.Marshal(expr)
	if err != nil {
		return "", fmt.Errorf("marshal filtering: %w", err)
	}
	return string(b), nil
}

// GetCampaign fetches a single campaign snapshot by id.
func (c *Client) GetCampaign(ctx context.Context, campaignID string) (ads.Campaign, error) {
	params := url.Values{}
	params.Set("fields", campaignFields)

	var a apiCampaign
	if err := c.getJSON(ctx, "/"+campaignID, params, &a); err != nil {
		return ads.Campaign{}, err
	}
	return a.toCampaign()
}

// SetDailyBudget persists a new daily budget, in cents, for the campaign.
// Budget writes are last-write-wins; there is no compare-and-swap on the
// remote side.
func (c *Client) SetDailyBudget(ctx context.Context, campaignID string, budget ads.Cents) error {
	if budget <= 0 {
		return fmt.Errorf("campaign %s: refusing to set non-positive budget %d", campaignID, budget)
	}
	params := url.Values{}
	params.Set("daily_budget", strconv.FormatInt(int64(budget), 10))
	return c.postForm(ctx, "/"+campaignID, params, nil)
}

// SetStatus changes the campaign's configured status.
func (c *Client) SetStatus(ctx context.Context, campaignID string, status ads.Status) error {
	if !status.Known() {
		return fmt.Errorf("campaign %s: unknown status %q", campaignID, status)
	}
	params := url.Values{}
	params.Set("status", string(status))
	return c.postForm(ctx, "/"+campaignID, params, nil)
}

// CampaignSpec describes a campaign to create.
type CampaignSpec struct {
	Name                string     `json:"name"`
	Objective           string     `json:"objective"`
	Status              ads.Status `json:"status"`
	DailyBudget         ads.Cents  `json:"-"`
	SpecialAdCategories []string   `json:"special_ad_categories,omitempty"`
}

// Validate checks the spec has everything the create endpoint requires.
func (s CampaignSpec) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("campaign name is required")
	}
	if s.Objective == "" {
		return fmt.Errorf("campaign %q: objective is required", s.Name)
	}
	if s.DailyBudget <= 0 {
		return fmt.Errorf("campaign %q: daily budget must be positive", s.Name)
	}
	if s.Status != "" && !s.Status.Known() {
		return fmt.Errorf("campaign %q: unknown status %q", s.Name, s.Status)
	}
	return nil
}

// CreateCampaign creates a campaign under the account and returns the new
// campaign id. New campaigns default to PAUSED so nothing spends before an
// operator reviews it.
func (c *Client) CreateCampaign(ctx context.Context, accountID string, spec CampaignSpec) (string, error) {
	if err := spec.Validate(); err != nil {
		return "", err
	}

	status := spec.Status
	if status == "" {
		status = ads.StatusPaused
	}

	categories := spec.SpecialAdCategories
	if categories == nil {
		categories = []string{}
	}
	catJSON, err := json.Marshal(categories)
	if err != nil {
		return "", fmt.Errorf("marshal special_ad_categories: %w", err)
	}

	params := url.Values{}
	params.Set("name", spec.Name)
	params.Set("objective", spec.Objective)
	params.Set("status", string(status))
	params.Set("daily_budget", strconv.FormatInt(int64(spec.DailyBudget), 10))
	params.Set("special_ad_categories", string(catJSON))

	var resp struct {
		ID string `json:"id"`
	}
	if err := c.postForm(ctx, "/"+NormalizeAccountID(accountID)+"/campaigns", params, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}
