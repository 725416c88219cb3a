package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	// RenderTable draws terminal tables
	RenderTable = "table"
	// RenderMarkdown writes markdown documents
	RenderMarkdown = "markdown"

	// ReportText writes plain text summaries
	ReportText = "text"
	// ReportMarkdown writes markdown summaries
	ReportMarkdown = "markdown"

	// CryptoHistorical selects the historical price series
	CryptoHistorical = "historical"
	// CryptoSnapshot selects the legacy ticker snapshot
	CryptoSnapshot = "snapshot"
)

// Config holds all configuration for apiviz.
type Config struct {
	// Base URLs for API endpoints (configurable for testing)
	CryptoBaseURL   string `mapstructure:"crypto_base_url"`
	DogBaseURL      string `mapstructure:"dog_base_url"`
	AutobahnBaseURL string `mapstructure:"autobahn_base_url"`

	// Crypto series selection
	CryptoCoin     string `mapstructure:"crypto_coin"`
	CryptoStart    string `mapstructure:"crypto_start"`
	CryptoInterval string `mapstructure:"crypto_interval"`
	CryptoVariant  string `mapstructure:"crypto_variant"`

	// Output
	OutputDir    string `mapstructure:"output_dir"`
	RenderFormat string `mapstructure:"render_format"`
	ReportFormat string `mapstructure:"report_format"`
	LogLevel     string `mapstructure:"log_level"`

	// HTTP behavior
	HTTPTimeout       time.Duration `mapstructure:"http_timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
}

// Load reads configuration from environment variables and optional config file.
// Environment variables take precedence over config file values.
//
// Recognized environment variables (all optional):
//   - APIVIZ_CRYPTO_BASE_URL, APIVIZ_DOG_BASE_URL, APIVIZ_AUTOBAHN_BASE_URL
//   - APIVIZ_CRYPTO_COIN, APIVIZ_CRYPTO_START, APIVIZ_CRYPTO_INTERVAL
//   - APIVIZ_CRYPTO_VARIANT (historical or snapshot)
//   - APIVIZ_OUTPUT_DIR, APIVIZ_RENDER_FORMAT (table or markdown)
//   - APIVIZ_REPORT_FORMAT (text or markdown), APIVIZ_LOG_LEVEL
//   - APIVIZ_HTTP_TIMEOUT (e.g. 30s), APIVIZ_REQUESTS_PER_SECOND
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("crypto_base_url", "https://api.coinpaprika.com/v1")
	v.SetDefault("dog_base_url", "https://dog.ceo/api")
	v.SetDefault("autobahn_base_url", "https://api.deutschland-api.dev")
	v.SetDefault("crypto_coin", "btc-bitcoin")
	v.SetDefault("crypto_start", "2024-07-01")
	v.SetDefault("crypto_interval", "1d")
	v.SetDefault("crypto_variant", CryptoHistorical)
	v.SetDefault("output_dir", ".")
	v.SetDefault("render_format", RenderTable)
	v.SetDefault("report_format", ReportText)
	v.SetDefault("log_level", "info")
	v.SetDefault("http_timeout", 30*time.Second)
	v.SetDefault("requests_per_second", 5.0)

	// Optionally read from config file if it exists
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.apiviz")

	// Read config file (ignore if not found)
	_ = v.ReadInConfig()

	for _, key := range v.AllKeys() {
		v.BindEnv(key, "APIVIZ_"+strings.ToUpper(key))
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks enumerated values and base URLs
func (c *Config) Validate() error {
	var problems []string

	for name, raw := range map[string]string{
		"crypto_base_url":   c.CryptoBaseURL,
		"dog_base_url":      c.DogBaseURL,
		"autobahn_base_url": c.AutobahnBaseURL,
	} {
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			problems = append(problems, fmt.Sprintf("%s %q is not an http(s) URL", name, raw))
		}
	}

	if !slices.Contains([]string{RenderTable, RenderMarkdown}, c.RenderFormat) {
		problems = append(problems, fmt.Sprintf("render_format %q must be %s or %s", c.RenderFormat, RenderTable, RenderMarkdown))
	}
	if !slices.Contains([]string{ReportText, ReportMarkdown}, c.ReportFormat) {
		problems = append(problems, fmt.Sprintf("report_format %q must be %s or %s", c.ReportFormat, ReportText, ReportMarkdown))
	}
	if !slices.Contains([]string{CryptoHistorical, CryptoSnapshot}, c.CryptoVariant) {
		problems = append(problems, fmt.Sprintf("crypto_variant %q must be %s or %s", c.CryptoVariant, CryptoHistorical, CryptoSnapshot))
	}
	if c.HTTPTimeout < 0 {
		problems = append(problems, "http_timeout must not be negative")
	}

	if len(problems) > 0 {
		slices.Sort(problems)
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}

	return nil
}
