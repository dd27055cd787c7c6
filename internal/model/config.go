package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoEngine is returned when a configuration enables no tagging engine
var ErrNoEngine = errors.New("no tagging engine configured")

// Config is the explicit per-call configuration of an annotation run
type Config struct {
	Engines     []EngineID        `yaml:"engines" mapstructure:"engines"`
	Grammar     GrammarConfig     `yaml:"grammar" mapstructure:"grammar"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
	Services    ServicesConfig    `yaml:"services" mapstructure:"services"`
	OpenAI      OpenAIConfig      `yaml:"openai" mapstructure:"openai"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Input       InputConfig       `yaml:"input" mapstructure:"input"`
	Proxy       ProxyConfig       `yaml:"proxy,omitempty" mapstructure:"proxy"`
}

// GrammarConfig controls the optional grammar-conformance check
type GrammarConfig struct {
	Enabled  bool   `yaml:"enabled" mapstructure:"enabled"`
	File     string `yaml:"file,omitempty" mapstructure:"file"` // Replacement grammar; empty uses the built-in one
	MaxTrees int    `yaml:"max_trees" mapstructure:"max_trees"` // Derivations kept per sentence
	MaxEdges int    `yaml:"max_edges" mapstructure:"max_edges"` // Chart work budget per sentence
}

// OutputConfig controls rendering
type OutputConfig struct {
	Format  string `yaml:"format" mapstructure:"format"` // text, json, yaml
	Trees   bool   `yaml:"trees" mapstructure:"trees"`   // Print derivation trees in text mode
	Verbose bool   `yaml:"verbose" mapstructure:"verbose"`
}

// ServiceConfig describes one remote tagging service
type ServiceConfig struct {
	URL     string        `yaml:"url" mapstructure:"url"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
	Retries int           `yaml:"retries" mapstructure:"retries"` // Extra attempts on transient failures
	Rate    float64       `yaml:"rate" mapstructure:"rate"`       // Requests per second
	Burst   int           `yaml:"burst" mapstructure:"burst"`
}

// ServicesConfig groups the HTTP-backed engines
type ServicesConfig struct {
	Spacy  ServiceConfig `yaml:"spacy" mapstructure:"spacy"`
	Stanza ServiceConfig `yaml:"stanza" mapstructure:"stanza"`
}

// OpenAIConfig configures the chat-completion tagger
type OpenAIConfig struct {
	APIKey  string        `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL string        `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Model   string        `yaml:"model" mapstructure:"model"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// ConcurrencyConfig bounds the (engine x sentence) fan-out
type ConcurrencyConfig struct {
	Engines   int `yaml:"engines" mapstructure:"engines"`
	Sentences int `yaml:"sentences" mapstructure:"sentences"`
}

// CacheConfig controls in-process memoization of tagger output
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// InputConfig controls how raw input is read
type InputConfig struct {
	HTML  bool `yaml:"html" mapstructure:"html"`   // Extract visible text from HTML first
	Lines bool `yaml:"lines" mapstructure:"lines"` // Treat every line as its own document
}

// ProxyConfig routes remote engine traffic. Empty fields fall back to the
// HTTP_PROXY, HTTPS_PROXY and NO_PROXY environment variables.
type ProxyConfig struct {
	HTTP    string `yaml:"http,omitempty" mapstructure:"http"`
	HTTPS   string `yaml:"https,omitempty" mapstructure:"https"`
	NoProxy string `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// DefaultConfig returns the configuration used when nothing overrides it
func DefaultConfig() *Config {
	return &Config{
		Engines: []EngineID{EngineRule},
		Grammar: GrammarConfig{
			Enabled:  false,
			MaxTrees: 16,
			MaxEdges: 100_000,
		},
		Output: OutputConfig{
			Format: "text",
		},
		Services: ServicesConfig{
			Spacy: ServiceConfig{
				URL:     "http://localhost:8080/tag",
				Timeout: 30 * time.Second,
				Rate:    10,
				Burst:   5,
			},
			Stanza: ServiceConfig{
				URL:     "http://localhost:8081/tag",
				Timeout: 60 * time.Second,
				Rate:    5,
				Burst:   2,
			},
		},
		OpenAI: OpenAIConfig{
			Model:   "gpt-4o-mini",
			Timeout: 60 * time.Second,
		},
		Concurrency: ConcurrencyConfig{
			Engines:   4,
			Sentences: 8,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     30 * time.Minute,
		},
	}
}

// Validate rejects structurally invalid configurations
func (c *Config) Validate() error {
	if len(c.Engines) == 0 {
		return ErrNoEngine
	}
	seen := make(map[EngineID]bool, len(c.Engines))
	for _, id := range c.Engines {
		if seen[id] {
			return fmt.Errorf("engine %q listed twice", id)
		}
		seen[id] = true
	}
	switch c.Output.Format {
	case "", "text", "json", "yaml":
	default:
		return fmt.Errorf("unknown output format %q (supported: text, json, yaml)", c.Output.Format)
	}
	return nil
}
