// Package config loads and validates the agent configuration from the
// environment and an optional config file. Business logic never reads the
// environment directly; it receives this Config at construction time.
package config

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/jonesrussell/contentagent/internal/logger"
)

// Config is the process-wide configuration, constructed once at startup and
// read-only afterwards.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Logger    logger.Config   `mapstructure:"logger"`
	Server    ServerConfig    `mapstructure:"server"`
	Crawl     CrawlConfig     `mapstructure:"crawl"`
	OpenAI    OpenAIConfig    `mapstructure:"openai"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Facebook  FacebookConfig  `mapstructure:"facebook"`
	Instagram InstagramConfig `mapstructure:"instagram"`
	LinkedIn  LinkedInConfig  `mapstructure:"linkedin"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	Debug       bool   `mapstructure:"debug"`
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Address      string        `mapstructure:"address"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// CrawlConfig holds the site collector settings.
type CrawlConfig struct {
	// Origin is the start URL; the crawl never leaves its host.
	Origin string `mapstructure:"origin"`
	// MaxPages caps the number of distinct URLs visited.
	MaxPages int `mapstructure:"max_pages"`
	// ContextPages is how many collected pages feed the prompt context.
	ContextPages int `mapstructure:"context_pages"`
	// Delay throttles successive page requests.
	Delay time.Duration `mapstructure:"delay"`
}

// OpenAIConfig holds the model API settings.
type OpenAIConfig struct {
	APIKey     string `mapstructure:"api_key"`
	BaseURL    string `mapstructure:"base_url"`
	TextModel  string `mapstructure:"text_model"`
	ImageModel string `mapstructure:"image_model"`
}

// DatabaseConfig holds the optional publish-history database settings.
type DatabaseConfig struct {
	// URL is a Postgres DSN. Empty disables history recording.
	URL string `mapstructure:"url"`
}

// FacebookConfig holds Facebook page credentials.
type FacebookConfig struct {
	PageToken string `mapstructure:"page_token"`
	PageID    string `mapstructure:"page_id"`
}

// InstagramConfig holds Instagram business account credentials.
// Instagram posting goes through the Graph API, so the access token defaults
// to the Facebook page token when unset.
type InstagramConfig struct {
	AccountID   string `mapstructure:"account_id"`
	AccessToken string `mapstructure:"access_token"`
}

// LinkedInConfig holds LinkedIn organization credentials.
type LinkedInConfig struct {
	AccessToken     string `mapstructure:"access_token"`
	OrganizationURN string `mapstructure:"organization_urn"`
}

// Load builds a Config from viper's current settings and applies defaults.
// Call after viper has been initialized (see cmd.initConfig).
func Load() (*Config, error) {
	cfg := &Config{}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return nil, fmt.Errorf("create config decoder: %w", err)
	}

	if err := decoder.Decode(viper.AllSettings()); err != nil {
		return nil, fmt.Errorf("decode configuration: %w", err)
	}

	if cfg.Instagram.AccessToken == "" {
		cfg.Instagram.AccessToken = cfg.Facebook.PageToken
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Enabled reports whether Facebook posting credentials are complete.
func (c FacebookConfig) Enabled() bool {
	return c.PageToken != "" && c.PageID != ""
}

// Enabled reports whether Instagram posting credentials are complete.
func (c InstagramConfig) Enabled() bool {
	return c.AccountID != "" && c.AccessToken != ""
}

// Enabled reports whether LinkedIn posting credentials are complete.
func (c LinkedInConfig) Enabled() bool {
	return c.AccessToken != "" && c.OrganizationURN != ""
}
