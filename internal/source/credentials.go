package source

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FeedCredentials describe the remote live feed and the one booth it
// serves. Loaded once at startup; rotation means restarting with a new
// file.
type FeedCredentials struct {
	BaseURL   string `yaml:"base_url"`
	Token     string `yaml:"token"`
	Sheet     string `yaml:"sheet"`
	Worksheet string `yaml:"worksheet"`
	Location  string `yaml:"location"`
	Booth     string `yaml:"booth"`
}

// LoadFeedCredentials reads a feed credential file.
func LoadFeedCredentials(path string) (FeedCredentials, error) {
	var creds FeedCredentials
	if path == "" {
		return creds, errors.New("source: empty credentials path")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return creds, fmt.Errorf("source: read credentials: %w", err)
	}
	if err := yaml.Unmarshal(data, &creds); err != nil {
		return creds, fmt.Errorf("source: parse credentials: %w", err)
	}
	if creds.BaseURL == "" || creds.Sheet == "" || creds.Worksheet == "" {
		return creds, errors.New("source: credentials missing base_url, sheet or worksheet")
	}
	if creds.Location == "" || creds.Booth == "" {
		return creds, errors.New("source: credentials missing booth designation")
	}
	return creds, nil
}
