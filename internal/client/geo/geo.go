// Package geo resolves US places from ZIP codes and street suggestions from
// partial addresses using public geocoding services.
package geo

import (
	"time"

	httpclient "github.com/cyphera/address-relay/internal/client/http"
	"github.com/cyphera/address-relay/internal/metrics"

	"golang.org/x/time/rate"
)

const (
	// KindLocation labels ZIP to place lookups in logs and metrics.
	KindLocation = "location"
	// KindSuggestion labels street suggestion lookups in logs and metrics.
	KindSuggestion = "suggestion"
)

// Config configures a geo client.
type Config struct {
	BaseURL string
	// UserAgent is sent with every request. Nominatim rejects anonymous clients.
	UserAgent string
	Timeout   time.Duration
	// RatePerSecond throttles outgoing requests. Zero or less disables throttling.
	RatePerSecond float64
	Metrics       *metrics.Metrics
	// HTTPOptions are appended to the client options, mainly for tests.
	HTTPOptions []httpclient.ClientOption
}

func newHTTPClient(name string, cfg Config) *httpclient.HTTPClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	options := []httpclient.ClientOption{
		httpclient.WithName(name),
		httpclient.WithBaseURL(cfg.BaseURL),
		httpclient.WithTimeout(timeout),
		httpclient.WithMiddleware(httpclient.LoggingMiddleware()),
	}
	if cfg.UserAgent != "" {
		options = append(options, httpclient.WithDefaultHeader("User-Agent", cfg.UserAgent))
	}
	if cfg.Metrics != nil {
		options = append(options, httpclient.WithMetricsCollector(cfg.Metrics))
	}
	options = append(options, cfg.HTTPOptions...)

	return httpclient.NewHTTPClient(options...)
}

func newLimiter(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Limit(perSecond), 1)
}
