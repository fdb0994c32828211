// Package config holds the dashboard configuration and its YAML loader.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pulseboard/pulseboard/internal/clock"
)

type Config struct {
	Dashboard struct {
		Title    string `yaml:"title"`
		Image    string `yaml:"image,omitempty"`
		Location string `yaml:"location"`

		// BaseUpdateInterval is the HH:MM delay used when an update is
		// scheduled without a target time.
		BaseUpdateInterval string `yaml:"base_update_interval"`
	} `yaml:"dashboard"`

	Stats struct {
		AreaName string `yaml:"area_name"`
		AreaType string `yaml:"area_type"`
		Nation   string `yaml:"nation"`
		Commas   bool   `yaml:"commas"`
	} `yaml:"stats"`

	News struct {
		APIKey            string   `yaml:"api_key"`
		Queries           []string `yaml:"queries"`
		Language          string   `yaml:"language"`
		SortBy            string   `yaml:"sort_by"`
		DisplayedContent  string   `yaml:"displayed_content"`
		MaxArticles       int      `yaml:"max_articles"`
		NoArticlesMessage string   `yaml:"no_articles_message"`
	} `yaml:"news"`

	Server struct {
		Addr        string `yaml:"addr"`
		RerouteAddr string `yaml:"reroute_path"`
	} `yaml:"server"`
}

// Default returns a config with sensible defaults. The news API key
// has no default; the provider rejects anonymous requests.
func Default() *Config {
	cfg := &Config{}
	cfg.Dashboard.Title = "Pulseboard"
	cfg.Dashboard.BaseUpdateInterval = "01:00"
	cfg.Dashboard.Location = "Exeter"
	cfg.Stats.AreaName = "Exeter"
	cfg.Stats.AreaType = "ltla"
	cfg.Stats.Nation = "England"
	cfg.Stats.Commas = true
	cfg.News.Queries = []string{"Covid", "Coronavirus"}
	cfg.News.Language = "en"
	cfg.News.SortBy = "publishedAt"
	cfg.News.DisplayedContent = "description"
	cfg.News.MaxArticles = 4
	cfg.News.NoArticlesMessage = "No articles to display."
	cfg.Server.Addr = ":8080"
	cfg.Server.RerouteAddr = "/index"
	return cfg
}

// Load reads the config file at path over the defaults. A missing file
// is an error: the dashboard is useless without its news API key, so
// the caller is expected to abort.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects configs the dashboard cannot run with.
func (c *Config) Validate() error {
	if c.Stats.AreaName == "" || c.Stats.AreaType == "" {
		return fmt.Errorf("stats area_name and area_type are required")
	}
	if c.Stats.Nation == "" {
		return fmt.Errorf("stats nation is required")
	}
	if len(c.News.Queries) == 0 {
		return fmt.Errorf("at least one news query is required")
	}
	if f := c.News.DisplayedContent; f != "description" && f != "content" {
		return fmt.Errorf("news displayed_content must be %q or %q, got %q", "description", "content", f)
	}
	if c.News.MaxArticles < 1 {
		return fmt.Errorf("news max_articles must be at least 1")
	}
	if !clock.Valid(c.Dashboard.BaseUpdateInterval) {
		return fmt.Errorf("dashboard base_update_interval %q is not HH:MM", c.Dashboard.BaseUpdateInterval)
	}
	return nil
}

// Write marshals the config to path, used by the init-config command
// to hand the user a starting point.
func (c *Config) Write(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
