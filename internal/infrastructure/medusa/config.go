package medusa

import "errors"

// Config holds connection settings for the commerce platform admin API.
type Config struct {
	// BaseURL is the platform root, e.g. "http://localhost:9000".
	BaseURL string
	// APIToken is the admin API bearer token used for all requests.
	APIToken string
	// TimeoutSeconds bounds each HTTP request.
	TimeoutSeconds int
}

// DefaultConfig returns settings suitable for local development.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:        "http://localhost:9000",
		TimeoutSeconds: 30,
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("medusa: config is nil")
	}
	if c.BaseURL == "" {
		return errors.New("medusa: base URL is required")
	}
	// An empty token is allowed so development setups can boot without one;
	// the platform then rejects each request and reads degrade per-call.
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	return nil
}
