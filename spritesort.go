package spritesort

import (
	"log/slog"
	"net/http"
	"time"
)

// DefaultConcurrency is the maximum number of lookups in flight at once.
const DefaultConcurrency = 50

// DefaultBaseURL is the PokeAPI endpoint the resolver appends ids to.
const DefaultBaseURL = "https://pokeapi.co/api/v2/pokemon"

// Config holds all dependencies injected by the consumer.
type Config struct {
	Resolver    Resolver     // nil = HTTPResolver against BaseURL
	HTTPClient  *http.Client // optional: client for the default resolver (nil = http.DefaultClient)
	BaseURL     string       // default: DefaultBaseURL
	UserAgent   string       // default: "Mozilla/5.0 (compatible; go-spritesort/1.0)"
	Timeout     time.Duration
	Concurrency int // admission gate size (default: DefaultConcurrency)

	// Rules is the priority-ordered classification table. Empty means DefaultRules.
	Rules []Rule

	// Inspect enables per-file image probing and writes manifest.json into the
	// destination root.
	Inspect bool

	Logger *slog.Logger // default: slog.Default()

	// Optional callbacks for metrics/logging.
	OnDispatch func(DispatchEvent)
	OnLookup   func(id EntityID, res Resolution)
}

// DispatchEvent describes the outcome of one file.
type DispatchEvent struct {
	File     SourceFile
	ID       EntityID
	Category Category
	Err      error
}

// defaults fills zero-value fields with sensible defaults.
func (c *Config) defaults() {
	if c.Concurrency <= 0 {
		c.Concurrency = DefaultConcurrency
	}
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.UserAgent == "" {
		c.UserAgent = "Mozilla/5.0 (compatible; go-spritesort/1.0)"
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.HTTPClient == nil {
		c.HTTPClient = http.DefaultClient
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.Resolver == nil {
		c.Resolver = &HTTPResolver{
			BaseURL:    c.BaseURL,
			HTTPClient: c.HTTPClient,
			UserAgent:  c.UserAgent,
			Timeout:    c.Timeout,
		}
	}
}
