// Package config builds the run configuration from CLI inputs and the environment.
package config

import (
	"fmt"

	"github.com/uoregon/roster-duckids/pkg/client"
)

// EnvAPIKey names the environment variable holding the subscription key.
const EnvAPIKey = "BANNER_API_KEY"

// Config holds the three inputs of a run.
type Config struct {
	TermCode string
	CRN      string
	APIKey   string
}

// Load combines the term code and CRN with the API key read through getenv.
// It fails with a configuration error before anything touches the network.
func Load(termCode, crn string, getenv func(string) string) (Config, error) {
	if termCode == "" {
		return Config{}, configError(fmt.Errorf("term code is required"))
	}
	if crn == "" {
		return Config{}, configError(fmt.Errorf("crn is required"))
	}

	apiKey := getenv(EnvAPIKey)
	if apiKey == "" {
		return Config{}, configError(fmt.Errorf("%s environment variable is not set: %w", EnvAPIKey, client.ErrMissingAPIKey))
	}

	return Config{
		TermCode: termCode,
		CRN:      crn,
		APIKey:   apiKey,
	}, nil
}

func configError(err error) error {
	return &client.Error{Kind: client.ErrorKindConfiguration, Err: err}
}
