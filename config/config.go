package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rburke/adscale/ads"
	"github.com/rburke/adscale/policy"
)

// Config is the complete run configuration loaded from a file. Credentials
// never live here; they come from the environment (see Env).
type Config struct {
	Account AccountConfig `json:"account" yaml:"account"`
	Policy  PolicyConfig  `json:"policy" yaml:"policy"`
	Journal JournalConfig `json:"journal" yaml:"journal"`
	API     APIConfig     `json:"api,omitempty" yaml:"api,omitempty"`
	Log     LogConfig     `json:"log,omitempty" yaml:"log,omitempty"`
}

// AccountConfig identifies the ad account being managed.
type AccountConfig struct {
	ID string `json:"id" yaml:"id"`
}

// PolicyConfig holds the budget policy in operator-friendly units:
// percentages as whole numbers and currency amounts in dollars.
type PolicyConfig struct {
	AdjustmentPercent    float64 `json:"adjustment_percent" yaml:"adjustment_percent"`
	MaxAdjustmentPercent float64 `json:"max_adjustment_percent,omitempty" yaml:"max_adjustment_percent,omitempty"`
	LookbackDays         int     `json:"lookback_days" yaml:"lookback_days"`
	CPACeiling           float64 `json:"cpa_ceiling,omitempty" yaml:"cpa_ceiling,omitempty"`
	ROASFloor            float64 `json:"roas_floor,omitempty" yaml:"roas_floor,omitempty"`
	MaxDailyBudget       float64 `json:"max_daily_budget,omitempty" yaml:"max_daily_budget,omitempty"`
	PauseOnBreach        bool    `json:"pause_on_breach,omitempty" yaml:"pause_on_breach,omitempty"`
	UpdateUnchanged      bool    `json:"update_unchanged,omitempty" yaml:"update_unchanged,omitempty"`
}

// ToPolicy converts the config units into the engine's policy value.
func (pc PolicyConfig) ToPolicy() policy.Policy {
	return policy.Policy{
		AdjustmentFraction:    pc.AdjustmentPercent / 100,
		MaxAdjustmentFraction: pc.MaxAdjustmentPercent / 100,
		LookbackDays:          pc.LookbackDays,
		CPACeiling:            ads.CentsFromDollars(pc.CPACeiling),
		ROASFloor:             pc.ROASFloor,
		MaxDailyBudget:        ads.CentsFromDollars(pc.MaxDailyBudget),
		PauseOnBreach:         pc.PauseOnBreach,
		SkipUnchanged:         !pc.UpdateUnchanged,
	}
}

// JournalConfig selects where run summaries are persisted.
type JournalConfig struct {
	Type         string `json:"type" yaml:"type"` // "csv", "sqlite" or "none"
	RunsFile     string `json:"runs_file,omitempty" yaml:"runs_file,omitempty"`
	OutcomesFile string `json:"outcomes_file,omitempty" yaml:"outcomes_file,omitempty"`
	DBPath       string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// APIConfig overrides remote endpoint details, mainly for testing against
// a stub server.
type APIConfig struct {
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
}

// LogConfig configures the structured logger.
type LogConfig struct {
	Level  string `json:"level,omitempty" yaml:"level,omitempty"`   // debug, info, warn, error
	Format string `json:"format,omitempty" yaml:"format,omitempty"` // text or json
}

// LoadFromFile loads configuration from a YAML or JSON file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON.
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile writes the configuration as YAML or JSON based on extension.
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks the configuration is usable.
func (c *Config) Validate() error {
	if c.Account.ID == "" {
		return fmt.Errorf("account.id is required")
	}
	if c.Policy.LookbackDays <= 0 {
		return fmt.Errorf("policy.lookback_days must be positive")
	}
	if err := c.Policy.ToPolicy().Validate(); err != nil {
		return fmt.Errorf("policy: %w", err)
	}

	switch c.Journal.Type {
	case "csv":
		if c.Journal.RunsFile == "" || c.Journal.OutcomesFile == "" {
			return fmt.Errorf("journal runs_file and outcomes_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	case "none", "":
	default:
		return fmt.Errorf("journal.type must be 'csv', 'sqlite' or 'none'")
	}

	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error")
	}

	return nil
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Account: AccountConfig{ID: "act_0000000000"},
		Policy: PolicyConfig{
			AdjustmentPercent:    10,
			MaxAdjustmentPercent: 50,
			LookbackDays:         7,
		},
		Journal: JournalConfig{
			Type:   "sqlite",
			DBPath: "./adscale.db",
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}
