package spritesort

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultTimeout   = 10 * time.Second
	maxResponseBytes = 4 << 20 // PokeAPI pokemon documents are a few hundred KB
	retryDelay       = 500 * time.Millisecond
)

// ErrUnavailable wraps every failed lookup: transport errors, timeouts,
// non-200 statuses and undecodable bodies.
var ErrUnavailable = errors.New("attributes unavailable")

// Resolver looks up the attribute names of one entity.
type Resolver interface {
	Resolve(ctx context.Context, id EntityID) ([]string, error)
}

// HTTPResolver fetches `{BaseURL}/{id}` and reads the type names from a
// PokeAPI-shaped document.
type HTTPResolver struct {
	BaseURL    string
	HTTPClient *http.Client  // nil = http.DefaultClient
	UserAgent  string        // optional
	Timeout    time.Duration // per-attempt timeout (default: 10s)

	// MaxRetries is the number of extra attempts after a transport error, 429
	// or 5xx. Zero keeps one attempt per id.
	MaxRetries int

	// Limiter optionally paces outgoing requests.
	Limiter *rate.Limiter
}

// NewRateLimiter returns a limiter allowing rps requests per second, or nil
// when rps is not positive.
func NewRateLimiter(rps float64, burst int) *rate.Limiter {
	if rps <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}

type pokemonType struct {
	Slot int `json:"slot"`
	Type struct {
		Name string `json:"name"`
	} `json:"type"`
}

// pokemonDocument.Types is nil when the field is absent, which is an error;
// an empty list is a valid answer.
type pokemonDocument struct {
	Types *[]pokemonType `json:"types"`
}

// statusError carries a non-200 response status.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return "status " + strconv.Itoa(e.code)
}

func (e *statusError) retryable() bool {
	return e.code == http.StatusTooManyRequests || e.code >= http.StatusInternalServerError
}

// Resolve returns the attribute names for id. The list may be empty. Every
// failure is returned wrapped in ErrUnavailable.
func (r *HTTPResolver) Resolve(ctx context.Context, id EntityID) ([]string, error) {
	var lastErr error
	for attempt := 0; attempt <= r.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: id %d: %w", ErrUnavailable, id, ctx.Err())
			case <-time.After(retryDelay * time.Duration(attempt)):
			}
		}

		attrs, retry, err := r.fetch(ctx, id)
		if err == nil {
			return attrs, nil
		}
		lastErr = err
		if !retry {
			break
		}
	}
	return nil, fmt.Errorf("%w: id %d: %w", ErrUnavailable, id, lastErr)
}

func (r *HTTPResolver) fetch(ctx context.Context, id EntityID) ([]string, bool, error) {
	if r.Limiter != nil {
		if err := r.Limiter.Wait(ctx); err != nil {
			return nil, false, err
		}
	}

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	url := strings.TrimRight(r.BaseURL, "/") + "/" + strconv.Itoa(int(id))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("Accept", "application/json")
	if r.UserAgent != "" {
		req.Header.Set("User-Agent", r.UserAgent)
	}

	client := r.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req) //nolint:gosec // G704: base URL comes from operator config
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		se := &statusError{code: resp.StatusCode}
		return nil, se.retryable(), se
	}

	var doc pokemonDocument
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&doc); err != nil {
		return nil, false, fmt.Errorf("decode response: %w", err)
	}

	if doc.Types == nil {
		return nil, false, errors.New("decode response: missing types")
	}

	attrs := make([]string, 0, len(*doc.Types))
	for i, t := range *doc.Types {
		if t.Type.Name == "" {
			return nil, false, fmt.Errorf("decode response: types[%d] has no name", i)
		}
		attrs = append(attrs, t.Type.Name)
	}
	return attrs, false, nil
}
