package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rburke/adscale/ads"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFromFile_YAML(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "config.yaml", `
account:
  id: act_1234567890
policy:
  adjustment_percent: 10
  lookback_days: 7
  cpa_ceiling: 25.50
  pause_on_breach: true
journal:
  type: sqlite
  db_path: ./runs.db
log:
  level: debug
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "act_1234567890", cfg.Account.ID)
	assert.Equal(t, 10.0, cfg.Policy.AdjustmentPercent)
	assert.True(t, cfg.Policy.PauseOnBreach)
	assert.Equal(t, "sqlite", cfg.Journal.Type)
	assert.Equal(t, slog.LevelDebug, cfg.Log.SlogLevel())

	p := cfg.Policy.ToPolicy()
	assert.InDelta(t, 0.10, p.AdjustmentFraction, 1e-9)
	assert.Equal(t, ads.Cents(2550), p.CPACeiling)
	assert.Equal(t, 7, p.LookbackDays)
	assert.True(t, p.SkipUnchanged, "skip-unchanged is the default")
}

func TestLoadFromFile_JSON(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "config.json", `{
		"account": {"id": "act_42"},
		"policy": {"adjustment_percent": -5, "lookback_days": 14},
		"journal": {"type": "none"}
	}`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "act_42", cfg.Account.ID)
	assert.InDelta(t, -0.05, cfg.Policy.ToPolicy().AdjustmentFraction, 1e-9)
}

func TestLoadFromFile_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{"missing account", `{"policy": {"adjustment_percent": 10, "lookback_days": 7}}`},
		{"zero lookback", `{"account": {"id": "a"}, "policy": {"adjustment_percent": 10}}`},
		{"csv without paths", `{"account": {"id": "a"}, "policy": {"lookback_days": 7}, "journal": {"type": "csv"}}`},
		{"bad journal type", `{"account": {"id": "a"}, "policy": {"lookback_days": 7}, "journal": {"type": "parquet"}}`},
		{"bad log level", `{"account": {"id": "a"}, "policy": {"lookback_days": 7}, "log": {"level": "loud"}}`},
		{"not yaml or json", "{{{{"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := LoadFromFile(writeFile(t, "bad.json", tt.content))
			assert.Error(t, err)
		})
	}
}

func TestDefaultRoundTrips(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.NoError(t, cfg.Validate())

	path := filepath.Join(t.TempDir(), "default.yaml")
	require.NoError(t, cfg.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Policy, loaded.Policy)
	assert.Equal(t, cfg.Journal, loaded.Journal)
}

func TestLoadCampaignSpecs(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "campaigns.json", `[
			{"name": "Q1_Brand_Awareness", "objective": "OUTCOME_AWARENESS", "daily_budget": 50.00, "status": "PAUSED"},
			{"name": "Q1_Sales", "objective": "OUTCOME_SALES", "daily_budget": 120.50}
		]`)

		specs, err := LoadCampaignSpecs(path)
		require.NoError(t, err)
		require.Len(t, specs, 2)

		assert.Equal(t, "Q1_Brand_Awareness", specs[0].Name)
		assert.Equal(t, ads.Cents(5000), specs[0].DailyBudget)
		assert.Equal(t, ads.StatusPaused, specs[0].Status)
		assert.Equal(t, ads.Cents(12050), specs[1].DailyBudget)
	})

	t.Run("rejects bad entries", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "campaigns.json", `[
			{"name": "ok", "objective": "OUTCOME_SALES", "daily_budget": 10},
			{"name": "no budget", "objective": "OUTCOME_SALES"}
		]`)

		_, err := LoadCampaignSpecs(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "campaign 2")
	})

	t.Run("rejects empty array", func(t *testing.T) {
		t.Parallel()

		_, err := LoadCampaignSpecs(writeFile(t, "campaigns.json", `[]`))
		assert.Error(t, err)
	})

	t.Run("rejects non-array", func(t *testing.T) {
		t.Parallel()

		_, err := LoadCampaignSpecs(writeFile(t, "campaigns.json", `{"name": "x"}`))
		assert.Error(t, err)
	})
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("META_ACCESS_TOKEN", "tok-123")
	t.Setenv("META_ACCOUNT_ID", "act_42")

	e, err := LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, "tok-123", e.AccessToken)
	assert.Equal(t, "act_42", e.AccountID)
}

func TestLoadEnv_MissingToken(t *testing.T) {
	t.Setenv("META_ACCESS_TOKEN", "")

	_, err := LoadEnv()
	assert.Error(t, err)
}
