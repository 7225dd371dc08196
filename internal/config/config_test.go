package config_test

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/contentagent/internal/config"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func setRequired() {
	viper.Set("openai.api_key", "sk-test")
	viper.Set("crawl.origin", "https://cloudjune.com")
	viper.Set("crawl.max_pages", 10)
	viper.Set("crawl.context_pages", 3)
}

func TestLoad(t *testing.T) {
	resetViper(t)
	setRequired()
	viper.Set("crawl.delay", "1s")
	viper.Set("server.address", ":8080")
	viper.Set("facebook.page_token", "fb-token")
	viper.Set("facebook.page_id", "page-1")
	viper.Set("instagram.account_id", "ig-1")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "sk-test", cfg.OpenAI.APIKey)
	assert.Equal(t, "https://cloudjune.com", cfg.Crawl.Origin)
	assert.Equal(t, 10, cfg.Crawl.MaxPages)
	assert.Equal(t, time.Second, cfg.Crawl.Delay)
	assert.Equal(t, ":8080", cfg.Server.Address)
}

func TestLoad_InstagramTokenDefaultsToPageToken(t *testing.T) {
	resetViper(t)
	setRequired()
	viper.Set("facebook.page_token", "fb-token")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "fb-token", cfg.Instagram.AccessToken)
}

func TestLoad_ExplicitInstagramTokenWins(t *testing.T) {
	resetViper(t)
	setRequired()
	viper.Set("facebook.page_token", "fb-token")
	viper.Set("instagram.access_token", "ig-token")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "ig-token", cfg.Instagram.AccessToken)
}

func TestLoad_MissingAPIKey(t *testing.T) {
	resetViper(t)
	viper.Set("crawl.origin", "https://cloudjune.com")
	viper.Set("crawl.max_pages", 10)
	viper.Set("crawl.context_pages", 3)

	_, err := config.Load()
	require.ErrorIs(t, err, config.ErrMissingAPIKey)
}

func TestValidate(t *testing.T) {
	base := func() *config.Config {
		cfg := &config.Config{}
		cfg.OpenAI.APIKey = "sk-test"
		cfg.Crawl.Origin = "https://cloudjune.com"
		cfg.Crawl.MaxPages = 10
		cfg.Crawl.ContextPages = 3
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(*config.Config) {},
		},
		{
			name:    "origin without scheme",
			mutate:  func(c *config.Config) { c.Crawl.Origin = "cloudjune.com" },
			wantErr: "invalid crawl origin",
		},
		{
			name:    "zero max pages",
			mutate:  func(c *config.Config) { c.Crawl.MaxPages = 0 },
			wantErr: "max_pages must be positive",
		},
		{
			name:    "zero context pages",
			mutate:  func(c *config.Config) { c.Crawl.ContextPages = 0 },
			wantErr: "context_pages must be positive",
		},
		{
			name: "context pages above max pages",
			mutate: func(c *config.Config) {
				c.Crawl.ContextPages = 20
			},
			wantErr: "cannot exceed max_pages",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestPlatformEnabled(t *testing.T) {
	assert.False(t, config.FacebookConfig{PageToken: "t"}.Enabled())
	assert.True(t, config.FacebookConfig{PageToken: "t", PageID: "p"}.Enabled())

	assert.False(t, config.InstagramConfig{AccountID: "a"}.Enabled())
	assert.True(t, config.InstagramConfig{AccountID: "a", AccessToken: "t"}.Enabled())

	assert.False(t, config.LinkedInConfig{AccessToken: "t"}.Enabled())
	assert.True(t, config.LinkedInConfig{AccessToken: "t", OrganizationURN: "urn:li:organization:1"}.Enabled())
}
