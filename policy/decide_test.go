package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rburke/adscale/ads"
)

func campaign(budget ads.Cents) ads.Campaign {
	return ads.Campaign{ID: "123", Name: "Test", Status: ads.StatusActive, DailyBudget: budget}
}

func spent(c ads.Cents) ads.Performance {
	return ads.Performance{CampaignID: "123", LookbackDays: 7, Spend: c, Conversions: 10}
}

func TestDecide_ZeroSpendSkips(t *testing.T) {
	t.Parallel()

	// Zero spend always skips, whatever the policy says.
	policies := []Policy{
		Default(),
		{AdjustmentFraction: 0.5, LookbackDays: 1},
		{AdjustmentFraction: -0.5, CPACeiling: 1, PauseOnBreach: true, LookbackDays: 30},
	}

	for _, p := range policies {
		d, err := Decide(campaign(5000), ads.Performance{Spend: 0}, p)
		require.NoError(t, err)
		assert.Equal(t, Skip, d.Outcome)
		assert.Equal(t, "no spend data", d.Reason)
	}
}

func TestDecide_ApplyScenarios(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		budget   ads.Cents
		fraction float64
		want     ads.Cents
	}{
		{"ten percent up", 5000, 0.10, 5500},
		{"five percent down", 7500, -0.05, 7125},
		{"fractional cents down", 3333, 0.10, 3666}, // 3666.3
		{"fractional cents up", 105, 0.10, 116},     // 115.5 rounds half up
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := Default()
			p.AdjustmentFraction = tt.fraction

			d, err := Decide(campaign(tt.budget), spent(2000), p)
			require.NoError(t, err)
			assert.Equal(t, Apply, d.Outcome)
			assert.Equal(t, tt.want, d.NewBudget)
			assert.NotEmpty(t, d.Reason)
		})
	}
}

func TestDecide_ClampsAdjustment(t *testing.T) {
	t.Parallel()

	t.Run("over the cap", func(t *testing.T) {
		t.Parallel()

		p := Policy{AdjustmentFraction: 0.90, MaxAdjustmentFraction: 0.50, LookbackDays: 7}
		d, err := Decide(campaign(10000), spent(4000), p)
		require.NoError(t, err)
		assert.Equal(t, Apply, d.Outcome)
		assert.Equal(t, ads.Cents(15000), d.NewBudget, "a 90 percent request must clamp to 50, not apply 190.00")
	})

	t.Run("under the negative cap", func(t *testing.T) {
		t.Parallel()

		p := Policy{AdjustmentFraction: -0.95, MaxAdjustmentFraction: 0.50, LookbackDays: 7}
		d, err := Decide(campaign(10000), spent(4000), p)
		require.NoError(t, err)
		assert.Equal(t, Apply, d.Outcome)
		assert.Equal(t, ads.Cents(5000), d.NewBudget)
	})

	t.Run("default cap when unset", func(t *testing.T) {
		t.Parallel()

		p := Policy{AdjustmentFraction: 2.0, LookbackDays: 7}
		d, err := Decide(campaign(100), spent(50), p)
		require.NoError(t, err)
		assert.Equal(t, ads.Cents(150), d.NewBudget)
	})
}

func TestDecide_HardBudgetCeiling(t *testing.T) {
	t.Parallel()

	p := Default()
	p.AdjustmentFraction = 0.50
	p.MaxDailyBudget = 12000

	d, err := Decide(campaign(10000), spent(4000), p)
	require.NoError(t, err)
	assert.Equal(t, Apply, d.Outcome)
	assert.Equal(t, ads.Cents(12000), d.NewBudget, "hard ceiling wins over computed value")
}

func TestDecide_CPACeiling(t *testing.T) {
	t.Parallel()

	t.Run("breach skips by default", func(t *testing.T) {
		t.Parallel()

		p := Default()
		p.CPACeiling = 2000

		// 100.00 spend / 2 conversions = 50.00 CPA
		perf := ads.Performance{Spend: 10000, Conversions: 2}
		d, err := Decide(campaign(5000), perf, p)
		require.NoError(t, err)
		assert.Equal(t, Skip, d.Outcome)
		assert.Contains(t, d.Reason, "CPA")
		assert.Contains(t, d.Reason, "$20.00")
	})

	t.Run("breach pauses when configured", func(t *testing.T) {
		t.Parallel()

		p := Default()
		p.CPACeiling = 2000
		p.PauseOnBreach = true

		perf := ads.Performance{Spend: 10000, Conversions: 2}
		d, err := Decide(campaign(5000), perf, p)
		require.NoError(t, err)
		assert.Equal(t, Pause, d.Outcome)
	})

	t.Run("spend without conversions breaches", func(t *testing.T) {
		t.Parallel()

		p := Default()
		p.CPACeiling = 2000

		perf := ads.Performance{Spend: 10000, Conversions: 0}
		d, err := Decide(campaign(5000), perf, p)
		require.NoError(t, err)
		assert.Equal(t, Skip, d.Outcome)
		assert.Contains(t, d.Reason, "no conversions")
	})

	t.Run("within ceiling applies", func(t *testing.T) {
		t.Parallel()

		p := Default()
		p.CPACeiling = 2000

		perf := ads.Performance{Spend: 10000, Conversions: 10} // CPA 10.00
		d, err := Decide(campaign(5000), perf, p)
		require.NoError(t, err)
		assert.Equal(t, Apply, d.Outcome)
	})
}

func TestDecide_ROASFloor(t *testing.T) {
	t.Parallel()

	p := Default()
	p.ROASFloor = 2.0

	t.Run("below floor", func(t *testing.T) {
		t.Parallel()

		perf := ads.Performance{Spend: 10000, Conversions: 5, Revenue: 12000}
		d, err := Decide(campaign(5000), perf, p)
		require.NoError(t, err)
		assert.Equal(t, Skip, d.Outcome)
		assert.Contains(t, d.Reason, "ROAS")
	})

	t.Run("no revenue reported is not a breach", func(t *testing.T) {
		t.Parallel()

		perf := ads.Performance{Spend: 10000, Conversions: 5, Revenue: 0}
		d, err := Decide(campaign(5000), perf, p)
		require.NoError(t, err)
		assert.Equal(t, Apply, d.Outcome)
	})
}

func TestDecide_InvalidBudget(t *testing.T) {
	t.Parallel()

	_, err := Decide(campaign(0), spent(1000), Default())
	assert.Error(t, err)

	_, err = Decide(campaign(-100), spent(1000), Default())
	assert.Error(t, err)
}

func TestDecide_UnchangedBudget(t *testing.T) {
	t.Parallel()

	t.Run("skip when configured", func(t *testing.T) {
		t.Parallel()

		p := Default()
		p.AdjustmentFraction = 0

		d, err := Decide(campaign(5000), spent(1000), p)
		require.NoError(t, err)
		assert.Equal(t, Skip, d.Outcome)
		assert.Equal(t, "budget unchanged", d.Reason)
	})

	t.Run("no-op apply otherwise", func(t *testing.T) {
		t.Parallel()

		p := Default()
		p.AdjustmentFraction = 0
		p.SkipUnchanged = false

		d, err := Decide(campaign(5000), spent(1000), p)
		require.NoError(t, err)
		assert.Equal(t, Apply, d.Outcome)
		assert.Equal(t, ads.Cents(5000), d.NewBudget)
	})
}

func TestDecide_Deterministic(t *testing.T) {
	t.Parallel()

	c := campaign(7777)
	perf := ads.Performance{Spend: 12345, Conversions: 3, Revenue: 33000}
	p := Default()
	p.AdjustmentFraction = 0.17
	p.CPACeiling = 9999

	first, err1 := Decide(c, perf, p)
	second, err2 := Decide(c, perf, p)
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, first, second)
}

func TestPolicyValidate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Default().Validate())

	bad := Default()
	bad.LookbackDays = 0
	assert.Error(t, bad.Validate())

	bad = Default()
	bad.MaxAdjustmentFraction = 1.5
	assert.Error(t, bad.Validate())

	bad = Default()
	bad.CPACeiling = -1
	assert.Error(t, bad.Validate())
}
