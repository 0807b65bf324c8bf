// handles configuration: autopost.yaml, .env, environment and command-line flags
package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/Kush-Singh-26/autopost/builder/models"
)

// Transfer protocols understood by the publisher.
const (
	ProtocolFTP  = "ftp"
	ProtocolFTPS = "ftps"
	ProtocolSFTP = "sftp"
)

// Kinds of news source used by the scraping tier.
const (
	SourceHTML = "html"
	SourceRSS  = "rss"
)

type SiteConfig struct {
	Name     string `yaml:"name"`
	BaseURL  string `yaml:"baseURL"`
	Template string `yaml:"template"`
}

// SourceConfig describes one news page and the selectors used to read it.
type SourceConfig struct {
	Name    string `yaml:"name"`
	URL     string `yaml:"url"`
	Kind    string `yaml:"kind"`    // html (default) or rss
	Item    string `yaml:"item"`    // selector for one article card
	Title   string `yaml:"title"`   // selector inside the card
	Summary string `yaml:"summary"` // selector inside the card
	Limit   int    `yaml:"limit"`
}

type CuratedImage struct {
	Keyword string `yaml:"keyword"`
	URL     string `yaml:"url"`
}

type LLMConfig struct {
	BaseURL           string        `yaml:"baseURL"`
	APIKey            string        `yaml:"-"`
	TextModel         string        `yaml:"textModel"`
	CheapModel        string        `yaml:"cheapModel"`
	BrowseModel       string        `yaml:"browseModel"`
	ImageModel        string        `yaml:"imageModel"`
	ImageSize         string        `yaml:"imageSize"`
	Timeout           time.Duration `yaml:"timeout"`
	MaxRetries        int           `yaml:"maxRetries"`
	RequestsPerSecond float64       `yaml:"requestsPerSecond"`
}

type StockConfig struct {
	BaseURL   string        `yaml:"baseURL"`
	AccessKey string        `yaml:"-"`
	Timeout   time.Duration `yaml:"timeout"`
}

type ScrapeConfig struct {
	UserAgent       string        `yaml:"userAgent"`
	Timeout         time.Duration `yaml:"timeout"`
	RequestInterval time.Duration `yaml:"requestInterval"`
	RespectRobots   bool          `yaml:"respectRobots"`
}

type ImageConfig struct {
	MaxWidth        int           `yaml:"maxWidth"`
	WebP            bool          `yaml:"webp"`
	Quality         float32       `yaml:"quality"`
	DownloadTimeout time.Duration `yaml:"downloadTimeout"`
	MaxBytes        int64         `yaml:"maxBytes"`
}

type PublishConfig struct {
	Protocol        string        `yaml:"protocol"`
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"-"`
	RootDir         string        `yaml:"rootDir"`
	Timeout         time.Duration `yaml:"timeout"`
	KnownHosts      string        `yaml:"knownHosts"`
	InsecureHostKey bool          `yaml:"insecureHostKey"`
	ChangedOnly     bool          `yaml:"changedOnly"`
}

// Config is the full run configuration passed explicitly to every component.
type Config struct {
	Site          SiteConfig      `yaml:"site"`
	ContentDir    string          `yaml:"contentDir"`
	CacheDir      string          `yaml:"cacheDir"`
	PostsPerRun   int             `yaml:"postsPerRun"`
	MinAccepted   int             `yaml:"minAccepted"`
	Keywords      []string        `yaml:"keywords"`
	Categories    []string        `yaml:"categories"`
	Authors       []models.Author `yaml:"authors"`
	Sources       []SourceConfig  `yaml:"sources"`
	CuratedImages []CuratedImage  `yaml:"curatedImages"`
	DefaultImage  string          `yaml:"defaultImage"`
	LLM           LLMConfig       `yaml:"llm"`
	Stock         StockConfig     `yaml:"stock"`
	Scrape        ScrapeConfig    `yaml:"scrape"`
	Images        ImageConfig     `yaml:"images"`
	Publish       PublishConfig   `yaml:"publish"`
	LogFormat     string          `yaml:"logFormat"`
	Compress      bool            `yaml:"compress"`

	// Command-line only
	ConfigPath string `yaml:"-"`
	NoPublish  bool   `yaml:"-"`
	Verbose    bool   `yaml:"-"`
}

// Load builds the configuration from defaults, the YAML file, .env, the
// environment and finally the command-line flags, in that order.
func Load(args []string) (*Config, error) {
	fs := flag.NewFlagSet("autopost", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	configFlag := fs.String("config", "", "Path to autopost.yaml")
	postsFlag := fs.Int("posts", 0, "Number of posts to generate")
	outFlag := fs.String("out", "", "Local content directory")
	noPublishFlag := fs.Bool("no-publish", false, "Generate only, skip the upload")
	protocolFlag := fs.String("protocol", "", "Transfer protocol: ftp, ftps or sftp")
	verboseFlag := fs.Bool("verbose", false, "Debug logging")
	compressFlag := fs.Bool("compress", false, "Minify documents and re-encode images as WebP")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}

	cfg := DefaultConfig()

	path := *configFlag
	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && *configFlag != "" {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err == nil {
			// Parse error keeps defaults, like a missing file
			if yerr := yaml.Unmarshal(data, cfg); yerr != nil {
				fmt.Printf("⚠️ Failed to parse %s, using defaults: %v\n", path, yerr)
				cfg = DefaultConfig()
			}
			cfg.ConfigPath = path
		}
	}

	// A missing .env is the normal case in CI
	_ = godotenv.Load()
	cfg.applyEnv()

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "posts":
			cfg.PostsPerRun = *postsFlag
		case "out":
			cfg.ContentDir = *outFlag
		case "no-publish":
			cfg.NoPublish = *noPublishFlag
		case "protocol":
			cfg.Publish.Protocol = strings.ToLower(*protocolFlag)
		case "verbose":
			cfg.Verbose = *verboseFlag
		case "compress":
			cfg.Compress = *compressFlag
			cfg.Images.WebP = *compressFlag
		}
	})

	cfg.validate()
	return cfg, nil
}

func findConfigFile() string {
	for _, name := range []string{"autopost.yaml", "config.yaml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

func (c *Config) applyEnv() {
	setString := func(dst *string, key string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	setString(&c.LLM.APIKey, "OPENAI_API_KEY")
	setString(&c.LLM.BaseURL, "OPENAI_BASE_URL")
	setString(&c.Stock.AccessKey, "UNSPLASH_ACCESS_KEY")
	setString(&c.Publish.Host, "FTP_HOST")
	setString(&c.Publish.User, "FTP_USER")
	setString(&c.Publish.Password, "FTP_PASS")
	setString(&c.Publish.RootDir, "FTP_BLOG_DIR")
	setString(&c.Publish.Protocol, "FTP_PROTOCOL")
	if v := os.Getenv("FTP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Publish.Port = port
		}
	}
}

// validate ensures configuration values are within reasonable bounds
func (c *Config) validate() {
	if c.PostsPerRun < 1 {
		c.PostsPerRun = 1
	}
	if c.PostsPerRun > 20 {
		c.PostsPerRun = 20
	}
	if c.MinAccepted < 1 {
		c.MinAccepted = 1
	}
	if c.ContentDir == "" {
		c.ContentDir = "blog-posts"
	}
	if c.CacheDir == "" {
		c.CacheDir = ".autopost-cache"
	}
	if len(c.Categories) == 0 {
		c.Categories = DefaultConfig().Categories
	}
	if len(c.Authors) == 0 {
		c.Authors = DefaultConfig().Authors
	}

	// LLM
	c.LLM.BaseURL = strings.TrimSuffix(c.LLM.BaseURL, "/")
	if c.LLM.Timeout < 5*time.Second {
		c.LLM.Timeout = 5 * time.Second
	}
	if c.LLM.Timeout > 5*time.Minute {
		c.LLM.Timeout = 5 * time.Minute
	}
	if c.LLM.MaxRetries < 0 {
		c.LLM.MaxRetries = 0
	}
	if c.LLM.MaxRetries > 10 {
		c.LLM.MaxRetries = 10
	}
	if c.LLM.RequestsPerSecond <= 0 {
		c.LLM.RequestsPerSecond = 1
	}
	if c.LLM.CheapModel == "" {
		c.LLM.CheapModel = c.LLM.TextModel
	}

	// Scraping
	if c.Scrape.Timeout < time.Second {
		c.Scrape.Timeout = time.Second
	}
	if c.Scrape.RequestInterval < 0 {
		c.Scrape.RequestInterval = 0
	}
	for i := range c.Sources {
		if c.Sources[i].Kind == "" {
			c.Sources[i].Kind = SourceHTML
		}
		if c.Sources[i].Limit <= 0 {
			c.Sources[i].Limit = 5
		}
	}

	// Images
	if c.Images.MaxWidth < 320 {
		c.Images.MaxWidth = 320
	}
	if c.Images.MaxWidth > 4096 {
		c.Images.MaxWidth = 4096
	}
	if c.Images.Quality < 1 || c.Images.Quality > 100 {
		c.Images.Quality = 80
	}
	if c.Images.DownloadTimeout < time.Second {
		c.Images.DownloadTimeout = time.Second
	}
	if c.Images.MaxBytes < 1024*1024 {
		c.Images.MaxBytes = 1024 * 1024
	}

	// Publishing
	c.Publish.Protocol = strings.ToLower(c.Publish.Protocol)
	switch c.Publish.Protocol {
	case ProtocolFTP, ProtocolFTPS, ProtocolSFTP:
	default:
		c.Publish.Protocol = ProtocolFTP
	}
	if c.Publish.Port <= 0 || c.Publish.Port > 65535 {
		if c.Publish.Protocol == ProtocolSFTP {
			c.Publish.Port = 22
		} else {
			c.Publish.Port = 21
		}
	}
	if c.Publish.RootDir == "" {
		c.Publish.RootDir = "/"
	}
	if c.Publish.Timeout < time.Second {
		c.Publish.Timeout = 30 * time.Second
	}

	c.Site.BaseURL = strings.TrimSuffix(c.Site.BaseURL, "/")
	if c.LogFormat != "json" {
		c.LogFormat = "text"
	}
}
