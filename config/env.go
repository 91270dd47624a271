package config

import (
	"github.com/caarlos0/env/v11"
)

// Env holds credentials and environment-level overrides. The access token
// deliberately never appears in config files.
type Env struct {
	// AccessToken authenticates against the Marketing API.
	AccessToken string `env:"META_ACCESS_TOKEN,required,notEmpty"`

	// AccountID is a fallback when the config file or flags don't name one.
	AccountID string `env:"META_ACCOUNT_ID"`

	// APIURL overrides the Graph API endpoint, mainly for stub servers.
	APIURL string `env:"META_API_URL"`
}

// LoadEnv reads credentials from the process environment.
func LoadEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return e, err
	}
	return e, nil
}
