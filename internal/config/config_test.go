package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
dashboard:
  title: "Plague Board"
  base_update_interval: "00:30"
stats:
  area_name: Leeds
news:
  api_key: secret
  queries: [Covid]
  max_articles: 2
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Dashboard.Title != "Plague Board" {
		t.Errorf("title: got %q", cfg.Dashboard.Title)
	}
	if cfg.Stats.AreaName != "Leeds" {
		t.Errorf("area name: got %q", cfg.Stats.AreaName)
	}
	if cfg.News.MaxArticles != 2 {
		t.Errorf("max articles: got %d", cfg.News.MaxArticles)
	}
	// Untouched keys keep their defaults.
	if cfg.Stats.AreaType != "ltla" {
		t.Errorf("area type default lost: got %q", cfg.Stats.AreaType)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("addr default lost: got %q", cfg.Server.Addr)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("a missing config file must be an error")
	}
}

func TestLoadRejectsBadInterval(t *testing.T) {
	path := writeConfig(t, `
dashboard:
  base_update_interval: "soon"
`)
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "base_update_interval") {
		t.Errorf("expected interval validation error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no area", func(c *Config) { c.Stats.AreaName = "" }},
		{"no nation", func(c *Config) { c.Stats.Nation = "" }},
		{"no queries", func(c *Config) { c.News.Queries = nil }},
		{"bad displayed content", func(c *Config) { c.News.DisplayedContent = "summary" }},
		{"zero max articles", func(c *Config) { c.News.MaxArticles = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
	if err := Default().Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestWriteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := Default()
	cfg.News.APIKey = "secret"
	if err := cfg.Write(path); err != nil {
		t.Fatalf("Write: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.News.APIKey != "secret" {
		t.Errorf("api key lost in round trip: %q", loaded.News.APIKey)
	}
}
