// Package crawler implements the depth-bounded crawling engine and its
// fetch and parse collaborators.
package crawler

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config captures every knob that influences a crawl run. All values
// originate from Viper so the crawler can be configured via files, env vars,
// or CLI flags, but the struct itself is decoupled from Viper for testing.
type Config struct {
	Seeds          []string
	UserAgent      string
	MaxDepth       int
	Concurrency    int
	RequestTimeout time.Duration

	// StopWords overrides the default stop-word list when non-empty.
	StopWords []string
}

// LoadConfig constructs a Config by reading from Viper.
func LoadConfig(v *viper.Viper) (Config, error) {
	cfg := Config{
		Seeds:          v.GetStringSlice("crawler.seed_urls"),
		UserAgent:      v.GetString("crawler.user_agent"),
		MaxDepth:       v.GetInt("crawler.max_depth"),
		Concurrency:    v.GetInt("crawler.concurrency"),
		RequestTimeout: v.GetDuration("crawler.request_timeout"),
		StopWords:      v.GetStringSlice("crawler.stop_words"),
	}
	return cfg, cfg.Validate()
}

// Validate checks for obviously bad configuration combinations.
func (c Config) Validate() error {
	if len(c.Seeds) == 0 {
		return fmt.Errorf("crawler.seed_urls must include at least one seed URL")
	}
	if c.UserAgent == "" {
		return fmt.Errorf("crawler.user_agent must be set")
	}
	if c.MaxDepth <= 0 {
		return fmt.Errorf("crawler.max_depth must be > 0")
	}
	if c.Concurrency <= 0 {
		return fmt.Errorf("crawler.concurrency must be > 0")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("crawler.request_timeout must be > 0")
	}
	return nil
}
