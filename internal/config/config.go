package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the full set of recognised options. Every component receives the
// slice of it that it needs through its constructor.
type Config struct {
	Site      SiteConfig      `yaml:"site"`
	Output    OutputConfig    `yaml:"output"`
	Index     IndexConfig     `yaml:"index"`
	Providers ProvidersConfig `yaml:"providers"`
	Trends    TrendsConfig    `yaml:"trends"`
	Schedule  ScheduleConfig  `yaml:"schedule"`
	Sync      SyncConfig      `yaml:"sync"`
	Quality   QualityConfig   `yaml:"quality"`
	Database  DatabaseConfig  `yaml:"database"`
	Notify    NotifyConfig    `yaml:"notify"`
	Logging   LoggingConfig   `yaml:"logging"`
	Preview   PreviewConfig   `yaml:"preview"`

	// Seed fixes title/template randomness. Zero means seed from the clock.
	Seed int64 `yaml:"seed"`
}

type SiteConfig struct {
	URL         string `yaml:"url"`
	BlogURL     string `yaml:"blog_url"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Author      string `yaml:"author"`
	Email       string `yaml:"email"`
	Language    string `yaml:"language"`
	Generator   string `yaml:"generator"`
	Image       string `yaml:"image"`
}

// PostURL is the canonical URL of a post page.
func (s SiteConfig) PostURL(slug string) string {
	return s.BlogURL + "/posts/" + slug + ".html"
}

type OutputConfig struct {
	Dir      string `yaml:"dir"`
	PostsDir string `yaml:"posts_dir"` // relative to Dir
	// SiteDir holds sitemap.xml and robots.txt. Empty means the parent of Dir.
	SiteDir string `yaml:"site_dir"`
}

// SiteRoot resolves where site-wide files live.
func (o OutputConfig) SiteRoot() string {
	if o.SiteDir != "" {
		return o.SiteDir
	}
	return filepath.Dir(filepath.Clean(o.Dir))
}

type IndexConfig struct {
	Cap int `yaml:"cap"`
}

type ProvidersConfig struct {
	Priority []string      `yaml:"priority"`
	Timeout  time.Duration `yaml:"timeout"`
}

type TrendsConfig struct {
	Regions    []string      `yaml:"regions"`
	Seeds      []string      `yaml:"seeds"`
	Wikipedia  bool          `yaml:"wikipedia"`
	TopK       int           `yaml:"top_k"`
	PerSource  int           `yaml:"per_source"`
	Timeout    time.Duration `yaml:"timeout"`
	RatePerSec float64       `yaml:"rate_per_sec"`
	RedisAddr  string        `yaml:"redis_addr"`
	CacheTTL   time.Duration `yaml:"cache_ttl"`
}

type ScheduleConfig struct {
	Cron        string        `yaml:"cron"`
	MinInterval time.Duration `yaml:"min_interval"`
	MaxPerDay   int           `yaml:"max_per_day"`
	Rotate      bool          `yaml:"rotate"`
	Topics      []string      `yaml:"topics"`
}

type SyncConfig struct {
	Lock bool `yaml:"lock"`
}

type QualityConfig struct {
	Enabled    bool    `yaml:"enabled"`
	BlockBelow float64 `yaml:"block_below"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type NotifyConfig struct {
	Topic  string `yaml:"topic"`
	Token  string `yaml:"token"`
	Events string `yaml:"events"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

type PreviewConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Site: SiteConfig{
			URL:         "https://astroaura.me",
			BlogURL:     "https://astroaura.me/blog",
			Title:       "AstroAura Cosmic Insights Blog",
			Description: "Daily astrology insights, cosmic guidance and trending topics through an astrological lens from the AstroAura team.",
			Author:      "AstroAura AI Cosmic Team",
			Email:       "cosmic@astroaura.me",
			Language:    "en-US",
			Generator:   "AstroAura Blog Automation System",
			Image:       "https://astroaura.me/assets/images/blog/cosmic-insights-og.jpg",
		},
		Output:    OutputConfig{Dir: "blog", PostsDir: "posts"},
		Index:     IndexConfig{Cap: 50},
		Providers: ProvidersConfig{Priority: []string{"gemini", "anthropic", "cohere", "huggingface"}, Timeout: 60 * time.Second},
		Trends: TrendsConfig{
			Regions:    []string{"US", "GB", "CA", "AU"},
			Seeds:      []string{"astrology", "horoscope", "zodiac"},
			Wikipedia:  true,
			TopK:       10,
			PerSource:  10,
			Timeout:    15 * time.Second,
			RatePerSec: 2,
			CacheTTL:   6 * time.Hour,
		},
		Schedule: ScheduleConfig{
			Cron:        "0 9,15,20 * * *",
			MinInterval: 24 * time.Hour,
			MaxPerDay:   3,
			Rotate:      true,
			Topics: []string{
				"Mercury Retrograde Survival Guide",
				"New Moon Intentions",
				"Full Moon Release Rituals",
				"Venus and Modern Love",
				"Saturn Return Lessons",
				"Mindfulness and Mental Health",
				"Career Astrology for Remote Work",
			},
		},
		Quality:  QualityConfig{Enabled: true},
		Database: DatabaseConfig{Path: "astroblog.db"},
		Notify:   NotifyConfig{Events: "published,failed"},
		Logging:  LoggingConfig{Level: "info"},
		Preview:  PreviewConfig{Addr: "127.0.0.1:8080"},
	}
}

// Load reads path (a missing file means defaults), loads .env from the working
// directory, applies environment overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("ASTROBLOG_OUTPUT_DIR"); v != "" {
		c.Output.Dir = v
	}
	if v := os.Getenv("ASTROBLOG_INDEX_CAP"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("ASTROBLOG_INDEX_CAP: %w", err)
		}
		c.Index.Cap = n
	}
	if v := os.Getenv("ASTROBLOG_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("ASTROBLOG_DB"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("NTFY_TOPIC"); v != "" {
		c.Notify.Topic = v
	}
	if v := os.Getenv("NTFY_TOKEN"); v != "" {
		c.Notify.Token = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Trends.RedisAddr = v
	}
	return nil
}

var knownProviders = map[string]bool{
	"gemini":      true,
	"anthropic":   true,
	"cohere":      true,
	"huggingface": true,
	"openai":      true,
}

// Validate checks if the configuration is usable.
func (c *Config) Validate() error {
	if c.Site.URL == "" {
		return fmt.Errorf("site.url is required")
	}
	if c.Site.BlogURL == "" {
		return fmt.Errorf("site.blog_url is required")
	}
	if c.Output.Dir == "" {
		return fmt.Errorf("output.dir is required")
	}
	if c.Output.PostsDir == "" {
		return fmt.Errorf("output.posts_dir is required")
	}
	if c.Index.Cap < 1 || c.Index.Cap > 1000 {
		return fmt.Errorf("index.cap must be between 1 and 1000, got %d", c.Index.Cap)
	}
	for _, p := range c.Providers.Priority {
		if !knownProviders[p] {
			return fmt.Errorf("providers.priority: unknown provider %q", p)
		}
	}
	if c.Providers.Timeout <= 0 {
		return fmt.Errorf("providers.timeout must be positive")
	}
	if c.Trends.TopK < 1 {
		return fmt.Errorf("trends.top_k must be at least 1")
	}
	if c.Trends.RatePerSec <= 0 {
		return fmt.Errorf("trends.rate_per_sec must be positive")
	}
	if c.Schedule.MaxPerDay < 1 {
		return fmt.Errorf("schedule.max_per_day must be at least 1")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	return nil
}
