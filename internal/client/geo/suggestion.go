package geo

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	httpclient "github.com/cyphera/address-relay/internal/client/http"
	"github.com/cyphera/address-relay/internal/logger"
	"github.com/cyphera/address-relay/internal/metrics"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	// MinStreetLength is the shortest street text that is searched.
	MinStreetLength = 3
	// MaxSuggestions caps the number of candidates requested.
	MaxSuggestions = 5

	countryQualifier = "USA"
)

type nominatimResult struct {
	DisplayName string `json:"display_name"`
}

// SuggestionClient searches full address candidates for partial street text.
type SuggestionClient struct {
	client  *httpclient.HTTPClient
	limiter *rate.Limiter
	metrics *metrics.Metrics
}

// NewSuggestionClient creates a street search client against a Nominatim compatible API.
func NewSuggestionClient(cfg Config) *SuggestionClient {
	return &SuggestionClient{
		client:  newHTTPClient(KindSuggestion, cfg),
		limiter: newLimiter(cfg.RatePerSecond),
		metrics: cfg.Metrics,
	}
}

// SearchQuery builds the free text query sent to the search service.
func SearchQuery(street, city, state string) string {
	return fmt.Sprintf("%s, %s, %s, %s", strings.TrimSpace(street), strings.TrimSpace(city), strings.TrimSpace(state), countryQualifier)
}

// Suggest returns up to MaxSuggestions display labels for street within city
// and state. Street text shorter than MinStreetLength returns nothing
// without a request. Failures return an empty list with the error.
func (c *SuggestionClient) Suggest(ctx context.Context, street, city, state string) ([]string, error) {
	if len(strings.TrimSpace(street)) < MinStreetLength {
		return []string{}, nil
	}

	start := time.Now()
	labels, err := c.search(ctx, SearchQuery(street, city, state))
	c.metrics.RecordLookup(KindSuggestion, err == nil, time.Since(start))
	if err != nil {
		logger.Debug("Suggestion lookup failed", zap.String("street", street), zap.Error(err))
		return []string{}, err
	}
	return labels, nil
}

func (c *SuggestionClient) search(ctx context.Context, query string) ([]string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(err, "suggestion lookup throttled")
	}

	params := url.Values{
		"q":            {query},
		"format":       {"json"},
		"countrycodes": {"us"},
		"limit":        {fmt.Sprint(MaxSuggestions)},
	}
	resp, err := c.client.Get(ctx, "/search", httpclient.WithQuery(params))
	if err != nil {
		return nil, errors.Wrap(err, "suggestion lookup request failed")
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, errors.Errorf("suggestion lookup returned status %d", resp.StatusCode)
	}

	var results []nominatimResult
	if err := c.client.ProcessJSONResponse(resp, &results); err != nil {
		return nil, errors.Wrap(err, "suggestion lookup response")
	}

	labels := make([]string, 0, len(results))
	for _, r := range results {
		if label := strings.TrimSpace(r.DisplayName); label != "" {
			labels = append(labels, label)
		}
	}
	if len(labels) > MaxSuggestions {
		labels = labels[:MaxSuggestions]
	}
	return labels, nil
}
