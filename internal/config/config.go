// Package config loads and validates the blog build configuration.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	berrors "github.com/thought2/blog/internal/errors"
)

// Config represents the application configuration
type Config struct {
	Site    SiteConfig    `yaml:"site"`
	Source  string        `yaml:"source"`
	Output  OutputConfig  `yaml:"output"`
	Build   BuildConfig   `yaml:"build,omitempty"`
	History HistoryConfig `yaml:"history,omitempty"`
	Notify  NotifyConfig  `yaml:"notify,omitempty"`
}

// SiteConfig carries site-wide metadata rendered into pages and the feed.
type SiteConfig struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description,omitempty"`
	Author      string `yaml:"author,omitempty"`
	BaseURL     string `yaml:"base_url,omitempty"`
	// BasePath is prepended to every generated internal link and asset
	// reference. Optional; empty means links are rooted at "/".
	BasePath string `yaml:"base_path,omitempty"`
}

// OutputConfig represents output configuration
type OutputConfig struct {
	Directory string `yaml:"directory"`
}

// BuildConfig carries per-build toggles.
type BuildConfig struct {
	// Drafts includes posts marked draft: true.
	Drafts bool `yaml:"drafts,omitempty"`
	// Ref is the branch to check out when source is a git URL.
	Ref string `yaml:"ref,omitempty"`
}

// HistoryConfig enables recording build manifests to a sqlite database.
type HistoryConfig struct {
	Database string `yaml:"database,omitempty"`
}

// NotifyConfig enables publishing build-completed events over NATS.
type NotifyConfig struct {
	Enabled bool   `yaml:"enabled,omitempty"`
	URL     string `yaml:"url,omitempty"`
	Subject string `yaml:"subject,omitempty"`
}

// Load loads configuration from the specified file
func Load(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, berrors.ConfigNotFound(configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Normalize()
	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns a configuration with all defaults applied.
func Default() *Config {
	cfg := &Config{}
	cfg.Normalize()
	return cfg
}

// Normalize fills defaults for unset fields.
func (c *Config) Normalize() {
	if c.Source == "" {
		c.Source = "./content"
	}
	if c.Output.Directory == "" {
		c.Output.Directory = "./public"
	}
	if c.Site.Title == "" {
		c.Site.Title = "Blog"
	}
	if c.Notify.Subject == "" {
		c.Notify.Subject = "blog.builds"
	}
	c.Site.BasePath = NormalizeBasePath(c.Site.BasePath)
}

// NormalizeBasePath canonicalizes a base path: empty stays empty, anything
// else gets a single leading slash and no trailing slash.
func NormalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" || p == "/" {
		return ""
	}
	p = "/" + strings.Trim(p, "/")
	return p
}

// Validate checks the configuration for contradictions.
func (c *Config) Validate() error {
	if c.Source == "" {
		return berrors.ValidationFailed("source", "must not be empty")
	}
	if c.Output.Directory == "" {
		return berrors.ValidationFailed("output.directory", "must not be empty")
	}
	if c.Notify.Enabled && c.Notify.URL == "" {
		return berrors.ValidationFailed("notify.url", "required when notify is enabled")
	}
	return nil
}

// Environment overrides. Only a small allowlist; the config file is the
// primary surface and these exist for CI overrides.
var envOverrides = map[string]func(*Config, string){
	"BLOG_SOURCE":     func(c *Config, v string) { c.Source = v },
	"BLOG_OUTPUT":     func(c *Config, v string) { c.Output.Directory = v },
	"BLOG_BASE_PATH":  func(c *Config, v string) { c.Site.BasePath = NormalizeBasePath(v) },
	"BLOG_TITLE":      func(c *Config, v string) { c.Site.Title = v },
	"BLOG_NOTIFY_URL": func(c *Config, v string) { c.Notify.URL = v },
}

func (c *Config) applyEnvOverrides() {
	for key, apply := range envOverrides {
		if v := os.Getenv(key); v != "" {
			apply(c, v)
		}
	}
}
