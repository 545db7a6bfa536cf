package model

import (
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultFastTrackThreshold is the damage amount below which clean claims are fast-tracked
const DefaultFastTrackThreshold = 25000

// Config holds all claimroute configuration
type Config struct {
	Routing      RoutingConfig     `yaml:"routing" mapstructure:"routing"`
	Compliance   ComplianceConfig  `yaml:"compliance" mapstructure:"compliance"`
	HTTP         HTTPConfig        `yaml:"http" mapstructure:"http"`
	Cache        CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Concurrency  ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimiting RateLimitConfig   `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Output       OutputConfig      `yaml:"output" mapstructure:"output"`
	Log          LogConfig         `yaml:"log" mapstructure:"log"`
	Server       ServerConfig      `yaml:"server" mapstructure:"server"`
	LLM          LLMConfig         `yaml:"llm" mapstructure:"llm"`
}

// RoutingConfig is passed explicitly to every pipeline call
type RoutingConfig struct {
	FastTrackThreshold float64 `yaml:"fast_track_threshold" mapstructure:"fast_track_threshold"`
}

// Threshold returns the fast-track threshold as a decimal.
// A zero or negative setting means the default.
func (r RoutingConfig) Threshold() decimal.Decimal {
	if r.FastTrackThreshold <= 0 {
		return decimal.NewFromInt(DefaultFastTrackThreshold)
	}
	return decimal.NewFromFloat(r.FastTrackThreshold)
}

// ComplianceConfig points at an alternative jurisdiction table
type ComplianceConfig struct {
	TableFile string `yaml:"table_file" mapstructure:"table_file"` // Empty uses the embedded table
}

// HTTPConfig controls remote document fetching
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	InsecureTLS   bool          `yaml:"insecure_tls" mapstructure:"insecure_tls"`
	HTTPProxy     string        `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy    string        `yaml:"https_proxy" mapstructure:"https_proxy"`
	NoProxy       string        `yaml:"no_proxy" mapstructure:"no_proxy"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
}

// CacheConfig controls the document cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ConcurrencyConfig controls batch workers
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// RateLimitConfig limits requests per remote host
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// OutputConfig controls rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" mapstructure:"verbose"`
	Pretty        bool `yaml:"pretty" mapstructure:"pretty"`
	IncludeFooter bool `yaml:"include_footer" mapstructure:"include_footer"`
}

// LogConfig controls the zap logger
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // json or console
}

// ServerConfig controls the HTTP intake server
type ServerConfig struct {
	Addr         string        `yaml:"addr" mapstructure:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
}

// LLMConfig controls the optional adjuster summary
type LLMConfig struct {
	Provider    string `yaml:"provider" mapstructure:"provider"` // openai or empty to disable
	Model       string `yaml:"model" mapstructure:"model"`
	APIKey      string `yaml:"-" mapstructure:"api_key"` // Never written to config files
	BaseURL     string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout     int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	StrictRoute bool   `yaml:"strict_route" mapstructure:"strict_route"`
	MaxTokens   int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	cacheDir := filepath.Join(os.TempDir(), "claimroute-cache")
	if home, err := os.UserHomeDir(); err == nil {
		cacheDir = filepath.Join(home, ".claimroute", "cache")
	}

	return &Config{
		Routing: RoutingConfig{
			FastTrackThreshold: DefaultFastTrackThreshold,
		},
		HTTP: HTTPConfig{
			Timeout:       30 * time.Second,
			UserAgent:     "claimroute/0.1 (+https://github.com/ppiankov/claimroute)",
			MaxBodyBytes:  5_000_000,
			RespectRobots: true,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       cacheDir,
			MemoryTTL: 15 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		RateLimiting: RateLimitConfig{
			RequestsPerSecond: 2,
			BurstSize:         4,
		},
		Output: OutputConfig{
			Pretty:        true,
			IncludeFooter: true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Server: ServerConfig{
			Addr:         "127.0.0.1:8080",
			ReadTimeout:  15 * time.Second,
			MaxBodyBytes: 1_000_000,
		},
		LLM: LLMConfig{
			Timeout:     30,
			StrictRoute: true,
			MaxTokens:   600,
		},
	}
}
