package policy

import (
	"fmt"

	"github.com/rburke/adscale/ads"
)

// Policy holds the knobs for one rescaling run. It is an immutable value
// passed through the call chain, never process-wide state, so runs against
// different accounts can carry different policies in the same process.
type Policy struct {
	// AdjustmentFraction is the signed budget change to apply, e.g. 0.10
	// for +10% or -0.05 for -5%. Clamped to ±MaxAdjustmentFraction.
	AdjustmentFraction float64

	// MaxAdjustmentFraction bounds the blast radius of a misconfigured
	// adjustment. Zero means DefaultMaxAdjustment.
	MaxAdjustmentFraction float64

	// LookbackDays is the trailing window insights are aggregated over.
	LookbackDays int

	// CPACeiling skips (or pauses, see PauseOnBreach) campaigns whose cost
	// per acquisition over the window exceeds it. Zero disables the check.
	// A campaign with spend but no conversions counts as breaching.
	CPACeiling ads.Cents

	// ROASFloor skips or pauses campaigns whose return on ad spend is below
	// it. Only evaluated when the window reported revenue. Zero disables.
	ROASFloor float64

	// MaxDailyBudget is a hard ceiling on any computed budget, regardless
	// of the adjustment math. Zero means uncapped.
	MaxDailyBudget ads.Cents

	// PauseOnBreach upgrades a threshold breach from skip to pause.
	PauseOnBreach bool

	// SkipUnchanged suppresses no-op budget writes.
	SkipUnchanged bool
}

const (
	DefaultMaxAdjustment = 0.50
	DefaultLookbackDays  = 7
)

// Default returns a policy with sensible defaults and no thresholds.
func Default() Policy {
	return Policy{
		AdjustmentFraction:    0.10,
		MaxAdjustmentFraction: DefaultMaxAdjustment,
		LookbackDays:          DefaultLookbackDays,
		SkipUnchanged:         true,
	}
}

// Validate checks the policy is internally consistent.
func (p Policy) Validate() error {
	if p.LookbackDays <= 0 {
		return fmt.Errorf("lookback_days must be positive, got %d", p.LookbackDays)
	}
	if p.MaxAdjustmentFraction < 0 || p.MaxAdjustmentFraction > 1 {
		return fmt.Errorf("max_adjustment_fraction must be in [0, 1], got %g", p.MaxAdjustmentFraction)
	}
	if p.CPACeiling < 0 {
		return fmt.Errorf("cpa_ceiling must not be negative")
	}
	if p.ROASFloor < 0 {
		return fmt.Errorf("roas_floor must not be negative")
	}
	if p.MaxDailyBudget < 0 {
		return fmt.Errorf("max_daily_budget must not be negative")
	}
	return nil
}

// maxFraction resolves the adjustment cap, applying the default when unset.
func (p Policy) maxFraction() float64 {
	if p.MaxAdjustmentFraction == 0 {
		return DefaultMaxAdjustment
	}
	return p.MaxAdjustmentFraction
}
