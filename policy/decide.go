package policy

import (
	"fmt"
	"math"

	"github.com/rburke/adscale/ads"
)

// Outcome tags what the orchestrator should do with a campaign.
type Outcome string

const (
	Apply Outcome = "APPLY"
	Skip  Outcome = "SKIP"
	Pause Outcome = "PAUSE"
)

// Decision is the engine's verdict for one campaign in one run. NewBudget
// is meaningful only when Outcome is Apply.
type Decision struct {
	Outcome   Outcome
	NewBudget ads.Cents
	Reason    string
}

// Decide computes the budget decision for a single campaign. It is a pure
// function of its inputs: no I/O, no clock, no hidden state, so identical
// inputs always yield identical decisions.
func Decide(c ads.Campaign, perf ads.Performance, p Policy) (Decision, error) {
	if c.DailyBudget <= 0 {
		return Decision{}, fmt.Errorf("campaign %s: daily budget %s is not positive", c.ID, c.DailyBudget)
	}

	if perf.Spend <= 0 {
		return Decision{Outcome: Skip, Reason: "no spend data"}, nil
	}

	if d, breached := p.checkThresholds(perf); breached {
		return d, nil
	}

	frac := clamp(p.AdjustmentFraction, p.maxFraction())
	newBudget := ads.Cents(math.Round(float64(c.DailyBudget) * (1 + frac)))
	if p.MaxDailyBudget > 0 && newBudget > p.MaxDailyBudget {
		newBudget = p.MaxDailyBudget
	}
	if newBudget <= 0 {
		return Decision{}, fmt.Errorf("campaign %s: computed budget %s is not positive", c.ID, newBudget)
	}

	if newBudget == c.DailyBudget && p.SkipUnchanged {
		return Decision{Outcome: Skip, Reason: "budget unchanged"}, nil
	}

	return Decision{
		Outcome:   Apply,
		NewBudget: newBudget,
		Reason:    fmt.Sprintf("adjusted %+.1f%%: %s -> %s", frac*100, c.DailyBudget, newBudget),
	}, nil
}

// checkThresholds evaluates the configured performance gates. The breach
// outcome is Skip by default and Pause when the policy asks for it.
func (p Policy) checkThresholds(perf ads.Performance) (Decision, bool) {
	breach := Skip
	if p.PauseOnBreach {
		breach = Pause
	}

	if p.CPACeiling > 0 {
		cpa, ok := perf.CPA()
		if !ok {
			// Spend with zero conversions is an unbounded CPA.
			return Decision{
				Outcome: breach,
				Reason:  fmt.Sprintf("spend %s with no conversions exceeds CPA ceiling %s", perf.Spend, p.CPACeiling),
			}, true
		}
		if cpa > p.CPACeiling {
			return Decision{
				Outcome: breach,
				Reason:  fmt.Sprintf("CPA %s exceeds ceiling %s", cpa, p.CPACeiling),
			}, true
		}
	}

	if p.ROASFloor > 0 && perf.Revenue > 0 {
		if roas, ok := perf.ROAS(); ok && roas < p.ROASFloor {
			return Decision{
				Outcome: breach,
				Reason:  fmt.Sprintf("ROAS %.2f below floor %.2f", roas, p.ROASFloor),
			}, true
		}
	}

	return Decision{}, false
}

func clamp(f, max float64) float64 {
	if f > max {
		return max
	}
	if f < -max {
		return -max
	}
	return f
}
