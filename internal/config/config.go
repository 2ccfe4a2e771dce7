package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/searchapi/internal/resilience"
)

// Config holds the searchapi configuration.
type Config struct {
	HTTP         HTTPConfig         `yaml:"http"`
	Database     DatabaseConfig     `yaml:"database"`
	Search       SearchConfig       `yaml:"search"`
	Autocomplete AutocompleteConfig `yaml:"autocomplete"`
	Popularity   PopularityConfig   `yaml:"popularity"`
	Forbidden    ForbiddenConfig    `yaml:"forbidden"`
	Auth         AuthConfig         `yaml:"auth"`
	Resilience   ResilienceConfig   `yaml:"resilience"`
	RateLimit    RateLimitConfig    `yaml:"rate_limit"`
	Logging      LoggingConfig      `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings. No keys disables auth.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds document store connection settings.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
	WriteTimeoutMs   int      `yaml:"write_timeout_ms"`
	// CreateIndexes creates missing FT indexes at startup.
	CreateIndexes bool `yaml:"create_indexes"`
}

// SearchConfig describes the document index and query shaping.
type SearchConfig struct {
	Index         string `yaml:"index"`
	KeyPrefix     string `yaml:"key_prefix"`
	DateField     string `yaml:"date_field"`
	CategoryField string `yaml:"category_field"`
	// TextFields are the full-text attributes created with the index.
	TextFields []string `yaml:"text_fields"`
	// FieldWeights sets the FT.CREATE relevance weight of listed text fields.
	FieldWeights map[string]float64 `yaml:"field_weights"`
	// ReturnFields limits stored fields per hit; empty returns all.
	ReturnFields    []string `yaml:"return_fields"`
	Boost           float64  `yaml:"boost"`
	MinScore        float64  `yaml:"min_score"`
	PreTag          string   `yaml:"pre_tag"`
	PostTag         string   `yaml:"post_tag"`
	FragmentSize    int      `yaml:"fragment_size"`
	Fragments       int      `yaml:"fragments"`
	DefaultPageSize int      `yaml:"default_page_size"`
	MaxPageSize     int      `yaml:"max_page_size"`
	TimeoutMs       int      `yaml:"timeout_ms"`
}

// AutocompleteConfig describes the suggestion index.
type AutocompleteConfig struct {
	Index     string `yaml:"index"`
	KeyPrefix string `yaml:"key_prefix"`
	Field     string `yaml:"field"`
	Size      int    `yaml:"size"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// PopularityConfig describes the search log index.
type PopularityConfig struct {
	Index     string `yaml:"index"`
	KeyPrefix string `yaml:"key_prefix"`
	// Record disables search-log writes when false.
	Record    *bool `yaml:"record"`
	TimeoutMs int   `yaml:"timeout_ms"`
}

// ForbiddenConfig points at the JSON list of banned words.
type ForbiddenConfig struct {
	Path  string `yaml:"path"`
	Watch bool   `yaml:"watch"`
}

// ResilienceConfig tunes the store circuit breakers.
type ResilienceConfig struct {
	Enabled          *bool   `yaml:"enabled"`
	MinRequests      uint32  `yaml:"min_requests"`
	FailureRatio     float64 `yaml:"failure_ratio"`
	OpenTimeoutSec   int     `yaml:"open_timeout_sec"`
	HalfOpenMaxCalls uint32  `yaml:"half_open_max_calls"`
	IntervalSec      int     `yaml:"interval_sec"`
}

// RateLimitConfig holds the global request rate limit. Zero RPS disables it.
type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse decodes YAML after ${VAR} expansion, applies defaults and validates.
func Parse(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(expandEnvVars(data), &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	setInt(&c.HTTP.ReadTimeoutSec, 10)
	setInt(&c.HTTP.WriteTimeoutSec, 10)
	setInt(&c.HTTP.ShutdownSec, 10)

	setInt(&c.Database.ReadinessTimeout, 10)

	s := &c.Search
	setString(&s.Index, "articles")
	setString(&s.KeyPrefix, s.Index+":")
	setString(&s.DateField, "writeDate")
	setString(&s.CategoryField, "category")
	if s.Boost <= 0 {
		s.Boost = 2.0
	}
	if s.MinScore <= 0 {
		s.MinScore = 2.0
	}
	setString(&s.PreTag, "<b>")
	setString(&s.PostTag, "</b>")
	setInt(&s.FragmentSize, 10000)
	setInt(&s.DefaultPageSize, 10)
	setInt(&s.MaxPageSize, 100)
	setInt(&s.TimeoutMs, 3000)

	a := &c.Autocomplete
	setString(&a.Index, "autocomplete")
	setString(&a.KeyPrefix, a.Index+":")
	setString(&a.Field, "word")
	setInt(&a.Size, 100)
	setInt(&a.TimeoutMs, 1000)

	p := &c.Popularity
	setString(&p.Index, "searchlog")
	setString(&p.KeyPrefix, p.Index+":")
	if p.Record == nil {
		on := true
		p.Record = &on
	}
	setInt(&p.TimeoutMs, 1000)

	setString(&c.Forbidden.Path, "config/forbidden_words.json")
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	if c.Search.Fragments < 0 || c.Search.FragmentSize < 0 {
		return fmt.Errorf("search.fragments and search.fragment_size must not be negative")
	}
	for f, w := range c.Search.FieldWeights {
		if w <= 0 {
			return fmt.Errorf("search.field_weights.%s must be positive, got %v", f, w)
		}
		if !slices.Contains(c.Search.TextFields, f) {
			return fmt.Errorf("search.field_weights.%s is not one of search.text_fields", f)
		}
	}
	if c.Search.DefaultPageSize > c.Search.MaxPageSize {
		return fmt.Errorf("search.default_page_size %d exceeds search.max_page_size %d",
			c.Search.DefaultPageSize, c.Search.MaxPageSize)
	}
	indexes := map[string]string{}
	for _, ix := range []struct{ section, name string }{
		{"search", c.Search.Index},
		{"autocomplete", c.Autocomplete.Index},
		{"popularity", c.Popularity.Index},
	} {
		if other, dup := indexes[ix.name]; dup {
			return fmt.Errorf("%s.index and %s.index must differ, both are %q", other, ix.section, ix.name)
		}
		indexes[ix.name] = ix.section
	}
	if r := c.RateLimit; r.RPS < 0 || r.Burst < 0 {
		return fmt.Errorf("rate_limit.rps and rate_limit.burst must not be negative")
	}
	if f := c.Resilience.FailureRatio; f < 0 || f > 1 {
		return fmt.Errorf("resilience.failure_ratio must be within [0, 1], got %v", f)
	}
	return nil
}

// Breaker converts the resilience section into executor settings.
func (r ResilienceConfig) Breaker() resilience.Config {
	cfg := resilience.DefaultConfig()
	if r.Enabled != nil {
		cfg.Enabled = *r.Enabled
	}
	if r.MinRequests > 0 {
		cfg.MinRequests = r.MinRequests
	}
	if r.FailureRatio > 0 {
		cfg.FailureRatio = r.FailureRatio
	}
	if r.OpenTimeoutSec > 0 {
		cfg.OpenTimeout = time.Duration(r.OpenTimeoutSec) * time.Second
	}
	if r.HalfOpenMaxCalls > 0 {
		cfg.HalfOpenMaxCalls = r.HalfOpenMaxCalls
	}
	if r.IntervalSec > 0 {
		cfg.Interval = time.Duration(r.IntervalSec) * time.Second
	}
	return cfg
}

// Millis converts a millisecond setting into a duration.
func Millis(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

func setInt(v *int, def int) {
	if *v <= 0 {
		*v = def
	}
}

func setString(v *string, def string) {
	if *v == "" {
		*v = def
	}
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// relative to the source file, for tests run from package dirs
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1])
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
