// Package twelvedata provides a client for the Twelve Data stock market API.
package twelvedata

import "time"

// ProviderName identifies Twelve Data in logs and error messages.
const ProviderName = "twelvedata"

// Config holds configuration for the Twelve Data API client.
type Config struct {
	APIKey     string        // API key for authentication
	BaseURL    string        // Base URL for the API (e.g., "https://api.twelvedata.com")
	Timeout    time.Duration // HTTP request timeout
	Interval   string        // Bar interval requested for every symbol (e.g., "1day")
	OutputSize int           // Number of bars requested per symbol
}

// withDefaults fills zero values.
func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = "https://api.twelvedata.com"
	}
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	if c.Interval == "" {
		c.Interval = "1day"
	}
	if c.OutputSize <= 0 {
		c.OutputSize = 5000
	}
	return c
}
