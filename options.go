package searchapi

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type indexConfig struct {
	name      string
	keyPrefix string
}

type clientConfig struct {
	addrs    []string
	password string

	documents     indexConfig
	dateField     string
	categoryField string

	suggestions     indexConfig
	suggestionField string

	searchLog indexConfig
	record    bool

	forbiddenWords []string
	createIndexes  bool

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

func defaultClientConfig() *clientConfig {
	return &clientConfig{
		documents:       indexConfig{name: "articles", keyPrefix: "articles:"},
		dateField:       "writeDate",
		categoryField:   "category",
		suggestions:     indexConfig{name: "autocomplete", keyPrefix: "autocomplete:"},
		suggestionField: "word",
		searchLog:       indexConfig{name: "searchlog", keyPrefix: "searchlog:"},
		record:          true,
	}
}

// WithRedis configures the client to connect to a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithDocumentIndex sets the searched index and the key prefix stripped from hit IDs.
// Default: "articles", "articles:".
func WithDocumentIndex(name, keyPrefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.documents = indexConfig{name: name, keyPrefix: keyPrefix}
	})
}

// WithDateField sets the yyyymmdd numeric field used for periods and date sorting.
// Default: "writeDate".
func WithDateField(name string) Option {
	return optionFunc(func(c *clientConfig) {
		c.dateField = name
	})
}

// WithCategoryField sets the field category caps apply to. Default: "category".
func WithCategoryField(name string) Option {
	return optionFunc(func(c *clientConfig) {
		c.categoryField = name
	})
}

// WithAutocompleteIndex sets the suggestion index and the field matched against.
// Default: "autocomplete", "autocomplete:", "word".
func WithAutocompleteIndex(name, keyPrefix, field string) Option {
	return optionFunc(func(c *clientConfig) {
		c.suggestions = indexConfig{name: name, keyPrefix: keyPrefix}
		c.suggestionField = field
	})
}

// WithSearchLog sets the index searched terms are recorded in.
// Default: "searchlog", "searchlog:".
func WithSearchLog(name, keyPrefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.searchLog = indexConfig{name: name, keyPrefix: keyPrefix}
	})
}

// WithoutRecording stops searches from being written to the search log.
// TopSearched keeps reading whatever the log already holds.
func WithoutRecording() Option {
	return optionFunc(func(c *clientConfig) {
		c.record = false
	})
}

// WithForbiddenWords rejects keywords containing any of words.
func WithForbiddenWords(words ...string) Option {
	return optionFunc(func(c *clientConfig) {
		c.forbiddenWords = append(c.forbiddenWords, words...)
	})
}

// WithCreateIndexes creates the search log index on connect if it is missing.
func WithCreateIndexes() Option {
	return optionFunc(func(c *clientConfig) {
		c.createIndexes = true
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
