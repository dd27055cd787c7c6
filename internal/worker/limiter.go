package worker

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter rate-limits requests per service endpoint (scheme + host)
type Limiter struct {
	limiters     map[string]*rate.Limiter
	mu           sync.RWMutex
	defaultRate  rate.Limit
	defaultBurst int
}

// NewLimiter creates a limiter. A non-positive rate disables limiting.
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 5
	}
	limit := rate.Limit(requestsPerSecond)
	if requestsPerSecond <= 0 {
		limit = rate.Inf
	}

	return &Limiter{
		limiters:     make(map[string]*rate.Limiter),
		defaultRate:  limit,
		defaultBurst: burst,
	}
}

// Wait blocks until a request to rawURL may proceed
func (l *Limiter) Wait(ctx context.Context, rawURL string) error {
	endpoint, err := endpointKey(rawURL)
	if err != nil {
		return err
	}
	return l.get(endpoint).Wait(ctx)
}

// Allow reports whether a request to rawURL may proceed now, consuming a token if so
func (l *Limiter) Allow(rawURL string) bool {
	endpoint, err := endpointKey(rawURL)
	if err != nil {
		return false
	}
	return l.get(endpoint).Allow()
}

// SetEndpointRate overrides the rate of one endpoint, given as a URL
func (l *Limiter) SetEndpointRate(rawURL string, requestsPerSecond float64, burst int) error {
	endpoint, err := endpointKey(rawURL)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if burst <= 0 {
		burst = l.defaultBurst
	}
	l.limiters[endpoint] = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
	return nil
}

func (l *Limiter) get(endpoint string) *rate.Limiter {
	l.mu.RLock()
	limiter, exists := l.limiters[endpoint]
	l.mu.RUnlock()

	if exists {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Double-check after acquiring write lock
	if limiter, exists := l.limiters[endpoint]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(l.defaultRate, l.defaultBurst)
	l.limiters[endpoint] = limiter
	return limiter
}

func endpointKey(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("no host in %q", rawURL)
	}
	return parsed.Scheme + "://" + parsed.Host, nil
}
