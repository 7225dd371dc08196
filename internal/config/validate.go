package config

import (
	"errors"
	"fmt"
	"net/url"
)

// ErrMissingAPIKey indicates the OpenAI API key is absent. The pipeline
// cannot generate anything without it, so startup fails.
var ErrMissingAPIKey = errors.New("OPENAI_API_KEY is not set")

// Validate checks the configuration for startup-fatal problems.
// Incomplete platform credentials are not fatal; the affected adapter is
// constructed disabled and reports skipped results instead.
func (c *Config) Validate() error {
	if c.OpenAI.APIKey == "" {
		return ErrMissingAPIKey
	}

	if c.Crawl.Origin != "" {
		u, err := url.Parse(c.Crawl.Origin)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid crawl origin %q", c.Crawl.Origin)
		}
	}

	if c.Crawl.MaxPages <= 0 {
		return fmt.Errorf("crawl max_pages must be positive, got %d", c.Crawl.MaxPages)
	}
	if c.Crawl.ContextPages <= 0 {
		return fmt.Errorf("crawl context_pages must be positive, got %d", c.Crawl.ContextPages)
	}
	if c.Crawl.ContextPages > c.Crawl.MaxPages {
		return fmt.Errorf("crawl context_pages (%d) cannot exceed max_pages (%d)",
			c.Crawl.ContextPages, c.Crawl.MaxPages)
	}

	return nil
}
