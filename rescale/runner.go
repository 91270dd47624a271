// Package rescale orchestrates a budget-adjustment run: for each campaign
// it pulls a snapshot and a performance window through the rate-limited
// executor, asks the policy engine for a decision, and applies the result.
// A single campaign's failure never aborts the run.
package rescale

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rburke/adscale/ads"
	"github.com/rburke/adscale/pkg/id"
	"github.com/rburke/adscale/policy"
	"github.com/rburke/adscale/retry"
)

// CampaignReader fetches campaign snapshots.
type CampaignReader interface {
	GetCampaign(ctx context.Context, campaignID string) (ads.Campaign, error)
}

// InsightsReader fetches aggregated performance for a lookback window.
type InsightsReader interface {
	GetInsights(ctx context.Context, campaignID string, lookbackDays int) (ads.Performance, error)
}

// Mutator persists budget and status changes remotely.
type Mutator interface {
	SetDailyBudget(ctx context.Context, campaignID string, budget ads.Cents) error
	SetStatus(ctx context.Context, campaignID string, status ads.Status) error
}

// NopMutator records nothing remotely; it backs --dry-run.
type NopMutator struct{}

func (NopMutator) SetDailyBudget(context.Context, string, ads.Cents) error { return nil }
func (NopMutator) SetStatus(context.Context, string, ads.Status) error     { return nil }

// Runner drives one rescaling pass over a campaign list. Collaborators are
// interfaces so tests can fake the remote side; *meta.Client satisfies all
// three. A Runner is stateless between runs and each run is strictly
// sequential: the remote rate limit is a shared resource, so fanning out
// would only trip it faster.
type Runner struct {
	Reader   CampaignReader
	Insights InsightsReader
	Mutator  Mutator
	Exec     retry.Executor

	// Log defaults to slog.Default.
	Log *slog.Logger

	// Now is injectable for tests; nil means time.Now.
	Now func() time.Time
}

// Run processes the campaigns in the order supplied and returns the
// accumulated summary. Per-campaign failures are converted into errored
// outcomes; the only run-level errors are an empty campaign list, an
// invalid policy, or cancellation. On cancellation the partial summary is
// returned alongside ctx.Err.
func (r *Runner) Run(ctx context.Context, campaignIDs []string, p policy.Policy) (Summary, error) {
	if len(campaignIDs) == 0 {
		return Summary{}, errors.New("no campaigns to process")
	}
	if err := p.Validate(); err != nil {
		return Summary{}, fmt.Errorf("invalid policy: %w", err)
	}

	log := r.Log
	if log == nil {
		log = slog.Default()
	}
	now := r.Now
	if now == nil {
		now = time.Now
	}

	sum := Summary{RunID: id.New(), Started: now()}

	for _, cid := range campaignIDs {
		// Cancellation is honored between campaigns only; an in-flight
		// remote call always runs to completion.
		if err := ctx.Err(); err != nil {
			sum.Finished = now()
			return sum, err
		}

		out := r.processCampaign(ctx, cid, p)
		sum.record(out)

		if out.Err != "" {
			log.Warn("campaign errored", "campaign", cid, "name", out.Name, "err", out.Err)
		} else {
			log.Info("campaign processed",
				"campaign", cid, "name", out.Name, "result", out.Result, "reason", out.Reason)
		}
	}

	sum.Finished = now()
	return sum, nil
}

func (r *Runner) processCampaign(ctx context.Context, campaignID string, p policy.Policy) CampaignOutcome {
	out := CampaignOutcome{CampaignID: campaignID}

	snapshot, err := retry.DoValue(ctx, r.Exec, func() (ads.Campaign, error) {
		return r.Reader.GetCampaign(ctx, campaignID)
	})
	if err != nil {
		return out.errored(fmt.Errorf("fetch campaign: %w", err))
	}
	out.Name = snapshot.Name
	out.OldBudget = snapshot.DailyBudget

	perf, err := retry.DoValue(ctx, r.Exec, func() (ads.Performance, error) {
		return r.Insights.GetInsights(ctx, campaignID, p.LookbackDays)
	})
	if err != nil {
		return out.errored(fmt.Errorf("fetch insights: %w", err))
	}

	decision, err := policy.Decide(snapshot, perf, p)
	if err != nil {
		return out.errored(fmt.Errorf("decide: %w", err))
	}
	out.Reason = decision.Reason

	switch decision.Outcome {
	case policy.Apply:
		err := r.Exec.Do(ctx, func() error {
			return r.Mutator.SetDailyBudget(ctx, campaignID, decision.NewBudget)
		})
		if err != nil {
			return out.errored(fmt.Errorf("set budget: %w", err))
		}
		out.Result = ResultUpdated
		out.NewBudget = decision.NewBudget

	case policy.Pause:
		err := r.Exec.Do(ctx, func() error {
			return r.Mutator.SetStatus(ctx, campaignID, ads.StatusPaused)
		})
		if err != nil {
			return out.errored(fmt.Errorf("pause campaign: %w", err))
		}
		out.Result = ResultPaused

	default:
		out.Result = ResultSkipped
	}

	return out
}
