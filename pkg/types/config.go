package types

import (
	"fmt"
	"time"
)

// HTTPConfig holds shared HTTP settings used by components that make network requests.
type HTTPConfig struct {
	// Timeout bounds a single request, including redirects and body read.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "arxiv-research/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// MaxRetries bounds retries on 429/503 responses (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// SearchConfig holds settings for the arXiv search client.
type SearchConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// BaseURL is the arXiv query endpoint.
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// Categories restricts every query to these category codes.
	Categories []string `json:"categories" yaml:"categories" mapstructure:"categories"`
}

// SourceConfig names one HTML rendering source for paper content.
type SourceConfig struct {
	Name    string `json:"name" yaml:"name" mapstructure:"name"`
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`
}

// FetchConfig holds settings for the content fetcher.
type FetchConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// Sources are tried in order; the first success wins.
	Sources []SourceConfig `json:"sources" yaml:"sources" mapstructure:"sources"`
}

// AgentConfig holds the limits applied to one research session.
type AgentConfig struct {
	// MaxArxivCalls caps search calls per session.
	MaxArxivCalls int `json:"max_arxiv_calls" yaml:"max_arxiv_calls" mapstructure:"max_arxiv_calls"`

	DefaultDaysBack  int `json:"default_days_back" yaml:"default_days_back" mapstructure:"default_days_back"`
	DefaultMaxPapers int `json:"default_max_papers" yaml:"default_max_papers" mapstructure:"default_max_papers"`

	// AbstractMaxChars truncates abstracts returned by the search tool.
	AbstractMaxChars int `json:"abstract_max_chars" yaml:"abstract_max_chars" mapstructure:"abstract_max_chars"`

	// MaxAuthors caps the author list returned by the search tool.
	MaxAuthors int `json:"max_authors" yaml:"max_authors" mapstructure:"max_authors"`

	// ContentMaxChars truncates paper text returned by the fetch tool.
	ContentMaxChars int `json:"content_max_chars" yaml:"content_max_chars" mapstructure:"content_max_chars"`
}

// ServerConfig holds settings for the HTTP API.
type ServerConfig struct {
	Addr            string        `json:"addr" yaml:"addr" mapstructure:"addr"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// StorageConfig holds output locations.
type StorageConfig struct {
	// OutputDir receives saved research documents.
	OutputDir string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`

	// SessionDB is the SQLite file holding session history. Empty keeps
	// history in memory.
	SessionDB string `json:"session_db" yaml:"session_db" mapstructure:"session_db"`
}

// LogConfig selects log level and format ("json" or "text").
type LogConfig struct {
	Level  string `json:"level" yaml:"level" mapstructure:"level"`
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// Config groups all component configurations.
type Config struct {
	Search  SearchConfig  `json:"search" yaml:"search" mapstructure:"search"`
	Fetch   FetchConfig   `json:"fetch" yaml:"fetch" mapstructure:"fetch"`
	Agent   AgentConfig   `json:"agent" yaml:"agent" mapstructure:"agent"`
	Server  ServerConfig  `json:"server" yaml:"server" mapstructure:"server"`
	Storage StorageConfig `json:"storage" yaml:"storage" mapstructure:"storage"`
	Log     LogConfig     `json:"log" yaml:"log" mapstructure:"log"`
}

// DefaultUserAgent identifies the service to upstream APIs.
const DefaultUserAgent = "arxiv-research/0.1"

// DefaultConfig returns the configuration used when no file or environment
// overrides are present.
func DefaultConfig() Config {
	return Config{
		Search: SearchConfig{
			HTTPConfig: HTTPConfig{Timeout: 30 * time.Second, UserAgent: DefaultUserAgent, MaxRetries: 3},
			BaseURL:    "https://export.arxiv.org/api/query",
			Categories: []string{"cs.AI", "cs.LG", "cs.CL", "cs.MA"},
		},
		Fetch: FetchConfig{
			HTTPConfig: HTTPConfig{Timeout: 60 * time.Second, UserAgent: DefaultUserAgent, MaxRetries: 3},
			Sources: []SourceConfig{
				{Name: "ar5iv", BaseURL: "https://ar5iv.org/html"},
				{Name: "arxiv-html", BaseURL: "https://arxiv.org/html"},
			},
		},
		Agent: AgentConfig{
			MaxArxivCalls:    5,
			DefaultDaysBack:  7,
			DefaultMaxPapers: 10,
			AbstractMaxChars: 500,
			MaxAuthors:       5,
			ContentMaxChars:  50000,
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
		Storage: StorageConfig{
			OutputDir: "output",
			SessionDB: "output/sessions.db",
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// Validate reports the first configuration value that cannot work.
func (c Config) Validate() error {
	if c.Search.BaseURL == "" {
		return fmt.Errorf("search.base_url is required")
	}
	if len(c.Search.Categories) == 0 {
		return fmt.Errorf("search.categories must list at least one category")
	}
	if len(c.Fetch.Sources) == 0 {
		return fmt.Errorf("fetch.sources must list at least one source")
	}
	for i, s := range c.Fetch.Sources {
		if s.BaseURL == "" {
			return fmt.Errorf("fetch.sources[%d].base_url is required", i)
		}
	}
	if c.Agent.MaxArxivCalls < 1 {
		return fmt.Errorf("agent.max_arxiv_calls must be positive, got %d", c.Agent.MaxArxivCalls)
	}
	if c.Agent.DefaultDaysBack < MinDaysBack || c.Agent.DefaultDaysBack > MaxDaysBack {
		return fmt.Errorf("agent.default_days_back must be between %d and %d", MinDaysBack, MaxDaysBack)
	}
	if c.Agent.DefaultMaxPapers < MinMaxResults || c.Agent.DefaultMaxPapers > MaxMaxResults {
		return fmt.Errorf("agent.default_max_papers must be between %d and %d", MinMaxResults, MaxMaxResults)
	}
	return nil
}
