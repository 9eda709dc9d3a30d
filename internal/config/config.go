package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port string `env:"PORT" envDefault:"8090"`

	// Auth for the reindex and stats endpoints.
	DocnavAPIKey string `env:"DOCNAV_API_KEY"`

	// Content API connection
	ContentAPIURL string `env:"CONTENT_API_URL"`
	ContentAPIKey string `env:"CONTENT_API_KEY"`

	// Local content
	ContentDir    string `env:"CONTENT_DIR" envDefault:"content"`
	HVDContentDir string `env:"HVD_CONTENT_DIR"`

	// Catalog
	Products     []string `env:"PRODUCTS" envSeparator:"," envDefault:"terraform,vault,consul,nomad,waypoint,boundary,packer,vagrant"`
	BetaProducts []string `env:"BETA_PRODUCTS" envSeparator:"," envDefault:"vault,waypoint"`
	NavSections  []string `env:"NAV_SECTIONS" envSeparator:"," envDefault:"docs"`
	NavVersion   string   `env:"NAV_VERSION" envDefault:"latest"`

	// Worker pool
	WorkerCount        int `env:"WORKER_COUNT" envDefault:"2"`
	MaxQueueSize       int `env:"MAX_QUEUE_SIZE" envDefault:"16"`
	MaxConcurrentFetch int `env:"MAX_CONCURRENT_FETCH" envDefault:"4"`

	// Job state
	JobTTL time.Duration `env:"JOB_TTL" envDefault:"1h"`

	// Request limits
	MaxBodyBytes int64 `env:"MAX_BODY_BYTES" envDefault:"5242880"` // 5MB

	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`
	LearnBaseURL string `env:"LEARN_BASE_URL" envDefault:"https://learn.hashicorp.com"`
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first without overriding variables already set.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return Parse()
}

// Parse reads configuration from the process environment only.
func Parse() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	cfg.normalize()
	return cfg, nil
}

func (c *Config) normalize() {
	if c.WorkerCount <= 0 {
		c.WorkerCount = 2
	}
	if c.MaxQueueSize <= 0 {
		c.MaxQueueSize = 16
	}
	if c.MaxConcurrentFetch <= 0 {
		c.MaxConcurrentFetch = 4
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = 5242880
	}
	if c.JobTTL <= 0 {
		c.JobTTL = 1 * time.Hour
	}
	c.Products = cleanList(c.Products)
	c.BetaProducts = cleanList(c.BetaProducts)
	c.NavSections = cleanList(c.NavSections)
}

func (c Config) Validate() error {
	if c.DocnavAPIKey == "" {
		return fmt.Errorf("DOCNAV_API_KEY is required")
	}
	if c.ContentAPIURL == "" && c.ContentDir == "" {
		return fmt.Errorf("one of CONTENT_API_URL or CONTENT_DIR is required")
	}
	if c.ContentAPIURL != "" {
		if u, err := url.Parse(c.ContentAPIURL); err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("CONTENT_API_URL %q is not an absolute url", c.ContentAPIURL)
		}
	}
	if len(c.Products) == 0 || len(c.NavSections) == 0 {
		return fmt.Errorf("PRODUCTS and NAV_SECTIONS must not be empty")
	}
	return nil
}

func cleanList(in []string) []string {
	out := in[:0]
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
