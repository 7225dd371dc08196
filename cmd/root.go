// Package cmd implements the command-line interface for the content agent.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jonesrussell/contentagent/cmd/generate"
	"github.com/jonesrussell/contentagent/cmd/httpd"
	"github.com/jonesrussell/contentagent/internal/app"
)

var (
	// cfgFile holds the path to the configuration file.
	cfgFile string

	// debug enables debug logging for all commands.
	debug bool

	rootCmd = &cobra.Command{
		Use:   "contentagent",
		Short: "B2B social media content agent",
		Long: `Generates B2B social media posts for a topic: collects context from a
website, generates a caption, body, and illustration, then publishes or
schedules the post across the requested platforms.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

// Execute runs the root command.
func Execute() error {
	if err := initConfig(); err != nil {
		return fmt.Errorf("failed to initialize configuration: %w", err)
	}
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("contentagent version %s\n", app.Version)
		},
	})

	rootCmd.AddCommand(generate.Command())
	rootCmd.AddCommand(httpd.Command())
}

// initConfig reads the .env file, environment variables, and the optional
// config file into viper.
func initConfig() error {
	// .env first so its values are visible to AutomaticEnv. Not having one
	// is fine; plain environment variables work too.
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}

	viper.AutomaticEnv()
	setDefaults()

	if err := bindEnvVars(); err != nil {
		return err
	}

	if err := viper.ReadInConfig(); err != nil {
		// Config file is optional; defaults and environment variables suffice.
		fmt.Fprintf(os.Stderr, "Warning: config file not found: %v\n", err)
	}

	_ = rootCmd.ParseFlags(os.Args[1:])
	if debug {
		viper.Set("logger.level", "debug")
		viper.Set("logger.development", true)
	}

	return nil
}

// bindEnvVars maps the flat environment variable names to config keys.
func bindEnvVars() error {
	bindings := map[string][]string{
		"logger.level":              {"LOG_LEVEL"},
		"server.address":            {"SERVER_ADDRESS"},
		"crawl.origin":              {"CRAWL_ORIGIN"},
		"openai.api_key":            {"OPENAI_API_KEY"},
		"openai.base_url":           {"OPENAI_BASE_URL"},
		"database.url":              {"DATABASE_URL"},
		"facebook.page_token":       {"FACEBOOK_PAGE_TOKEN"},
		"facebook.page_id":          {"FACEBOOK_PAGE_ID"},
		"instagram.account_id":      {"IG_ACCOUNT_ID", "INSTAGRAM_ACCOUNT_ID"},
		"instagram.access_token":    {"INSTAGRAM_ACCESS_TOKEN"},
		"linkedin.access_token":     {"LINKEDIN_ACCESS_TOKEN"},
		"linkedin.organization_urn": {"LINKEDIN_COMPANY_URN"},
	}

	for key, envs := range bindings {
		args := append([]string{key}, envs...)
		if err := viper.BindEnv(args...); err != nil {
			return fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}
	return nil
}

// setDefaults sets production-safe default configuration values.
func setDefaults() {
	viper.SetDefault("app", map[string]any{
		"name":        "contentagent",
		"environment": "production",
		"debug":       false,
	})

	viper.SetDefault("logger", map[string]any{
		"level":        "info",
		"development":  false,
		"output_paths": []string{"stdout"},
	})

	viper.SetDefault("server", map[string]any{
		"address":       ":8080",
		"read_timeout":  "15s",
		"write_timeout": "120s",
		"idle_timeout":  "60s",
	})

	viper.SetDefault("crawl", map[string]any{
		"origin":        "https://cloudjune.com",
		"max_pages":     10,
		"context_pages": 3,
		"delay":         "1s",
	})

	viper.SetDefault("openai", map[string]any{
		"base_url":    "",
		"text_model":  "gpt-4o-mini",
		"image_model": "dall-e-3",
	})
}
