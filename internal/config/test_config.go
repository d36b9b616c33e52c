package config

import "time"

// TestConfig returns a configuration suitable for tests: no rate limiting,
// no debounce surprises, caching off and logging disabled.
func TestConfig() *Config {
	d := defaultConfig()
	return &Config{
		API: APIConfig{
			Endpoint:             "http://127.0.0.1:0/graphql",
			Timeout:              5 * time.Second,
			UserAgent:            "dex-test/1.0",
			Language:             "en",
			MaxRequestsPerSecond: 0,
		},
		Database: DatabaseConfig{
			Path:    ":memory:",
			Timeout: 1 * time.Second,
		},
		Cache: CacheConfig{
			Enabled: false,
			TTL:     time.Hour,
		},
		UI: UIConfig{
			PageSize:       20,
			SearchDebounce: 300 * time.Millisecond,
			Colors:         d.UI.Colors,
		},
		Media: d.Media,
		Keys:  d.Keys,
		Log:   LogConfig{Level: "off"},
	}
}
