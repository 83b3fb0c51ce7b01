package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Gmail      GmailConfig      `yaml:"gmail"`
	YouTube    YouTubeConfig    `yaml:"youtube"`
	AI         AIConfig         `yaml:"ai"`
	Store      StoreConfig      `yaml:"store"`
	Newsletter NewsletterConfig `yaml:"newsletter"`
	Server     ServerConfig     `yaml:"server"`
	Schedule   string           `yaml:"schedule"`
}

type GmailConfig struct {
	ClientID     string `yaml:"client_id" env:"GOOGLE_CLIENT_ID"`
	ClientSecret string `yaml:"client_secret" env:"GOOGLE_CLIENT_SECRET"`
	RefreshToken string `yaml:"refresh_token" env:"GOOGLE_REFRESH_TOKEN"`
}

type YouTubeConfig struct {
	APIKey string `yaml:"api_key" env:"YOUTUBE_API_KEY"`
}

type AIConfig struct {
	GeminiAPIKey string `yaml:"gemini_api_key" env:"GEMINI_API_KEY"`
	Model        string `yaml:"model"`
}

type StoreConfig struct {
	DatabaseURL string `yaml:"database_url" env:"DATABASE_URL"`
}

type NewsletterConfig struct {
	Senders           []string `yaml:"senders"`
	LookbackWeeks     int      `yaml:"lookback_weeks"`
	WindowDays        int      `yaml:"window_days"`
	WindowDelayMillis int      `yaml:"window_delay_millis"`
	MetadataBatchSize int      `yaml:"metadata_batch_size"`
	EnrichmentWorkers int      `yaml:"enrichment_workers"`
}

type ServerConfig struct {
	Port    int    `yaml:"port" env:"PORT"`
	BaseURL string `yaml:"base_url"`
}

// defaultSenders matches the newsletters the feed was built around.
var defaultSenders = []string{
	"theneuron.ai",
	"aibreakfast",
	"dan@tldrnewsletter.com",
	"tldrnewsletter.com",
	"therundown.ai",
	"neuron",
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config

	configFile := os.Getenv("CONFIG_FILE")
	if configFile == "" {
		configFile = "config.yaml"
	}

	// The YAML file is optional: every required setting can come from
	// the environment.
	if data, err := os.ReadFile(configFile); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configFile, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
	}

	if cfg.Gmail.ClientID == "" {
		cfg.Gmail.ClientID = os.Getenv("GOOGLE_CLIENT_ID")
	}
	if cfg.Gmail.ClientSecret == "" {
		cfg.Gmail.ClientSecret = os.Getenv("GOOGLE_CLIENT_SECRET")
	}
	if cfg.Gmail.RefreshToken == "" {
		cfg.Gmail.RefreshToken = os.Getenv("GOOGLE_REFRESH_TOKEN")
	}
	if cfg.YouTube.APIKey == "" {
		cfg.YouTube.APIKey = os.Getenv("YOUTUBE_API_KEY")
	}
	if cfg.YouTube.APIKey == "" {
		cfg.YouTube.APIKey = os.Getenv("GOOGLE_API_KEY")
	}
	if cfg.AI.GeminiAPIKey == "" {
		cfg.AI.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.Store.DatabaseURL == "" {
		cfg.Store.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.Server.Port == 0 {
		if port := os.Getenv("PORT"); port != "" {
			fmt.Sscanf(port, "%d", &cfg.Server.Port)
		}
	}

	if cfg.AI.Model == "" {
		cfg.AI.Model = "gemini-2.5-flash"
	}
	if len(cfg.Newsletter.Senders) == 0 {
		cfg.Newsletter.Senders = defaultSenders
	}
	if cfg.Newsletter.LookbackWeeks == 0 {
		cfg.Newsletter.LookbackWeeks = 12
	}
	if cfg.Newsletter.WindowDays == 0 {
		cfg.Newsletter.WindowDays = 7
	}
	if cfg.Newsletter.WindowDelayMillis == 0 {
		cfg.Newsletter.WindowDelayMillis = 500
	}
	if cfg.Newsletter.MetadataBatchSize == 0 {
		cfg.Newsletter.MetadataBatchSize = 50
	}
	if cfg.Newsletter.EnrichmentWorkers == 0 {
		cfg.Newsletter.EnrichmentWorkers = 4
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.BaseURL == "" {
		cfg.Server.BaseURL = fmt.Sprintf("http://localhost:%d", cfg.Server.Port)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// validate checks the credentials the pipeline cannot run without.
// The YouTube API key and the Gemini key are deliberately not required:
// without the former the enricher yields no results, without the latter
// the classifier runs heuristic-only.
func (c *Config) validate() error {
	if c.Gmail.ClientID == "" {
		return fmt.Errorf("Gmail client ID is required (set GOOGLE_CLIENT_ID or gmail.client_id)")
	}
	if c.Gmail.ClientSecret == "" {
		return fmt.Errorf("Gmail client secret is required (set GOOGLE_CLIENT_SECRET or gmail.client_secret)")
	}
	if c.Gmail.RefreshToken == "" {
		return fmt.Errorf("Gmail refresh token is required (set GOOGLE_REFRESH_TOKEN or gmail.refresh_token)")
	}
	if c.Store.DatabaseURL == "" {
		return fmt.Errorf("store database URL is required (set DATABASE_URL or store.database_url)")
	}
	return nil
}
