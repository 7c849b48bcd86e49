package geo

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/cyphera/address-relay/internal/address"
	httpclient "github.com/cyphera/address-relay/internal/client/http"
	"github.com/cyphera/address-relay/internal/logger"
	"github.com/cyphera/address-relay/internal/metrics"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// MinZipLength is the number of digits a ZIP needs before it is looked up.
const MinZipLength = 5

// Place is the result of a ZIP lookup. A nil field was not resolved.
type Place struct {
	City  *string `json:"city,omitempty"`
	State *string `json:"state,omitempty"`
}

// Found reports whether any field resolved.
func (p Place) Found() bool {
	return p.City != nil || p.State != nil
}

// Apply merges the resolved fields into addr, leaving unresolved fields untouched.
func (p Place) Apply(addr address.Address) address.Address {
	if p.City != nil {
		addr.City = *p.City
	}
	if p.State != nil {
		addr.State = address.NormalizeState(strings.TrimSpace(*p.State))
	}
	return addr
}

// zippopotamResponse is the body returned by api.zippopotam.us.
type zippopotamResponse struct {
	PostCode string `json:"post code"`
	Places   []struct {
		PlaceName         string `json:"place name"`
		State             string `json:"state"`
		StateAbbreviation string `json:"state abbreviation"`
	} `json:"places"`
}

// LocationClient resolves a US ZIP code to a city and state.
type LocationClient struct {
	client  *httpclient.HTTPClient
	limiter *rate.Limiter
	metrics *metrics.Metrics
}

// NewLocationClient creates a ZIP lookup client against a Zippopotam compatible API.
func NewLocationClient(cfg Config) *LocationClient {
	return &LocationClient{
		client:  newHTTPClient(KindLocation, cfg),
		limiter: newLimiter(cfg.RatePerSecond),
		metrics: cfg.Metrics,
	}
}

// CleanZip strips everything except digits and hyphens.
func CleanZip(zip string) string {
	return strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '-' {
			return r
		}
		return -1
	}, zip)
}

// ZipReady reports whether a ZIP has enough digits to be looked up and
// returns its five digit prefix.
func ZipReady(zip string) (string, bool) {
	cleaned := CleanZip(zip)
	digits := strings.ReplaceAll(cleaned, "-", "")
	if len(cleaned) < MinZipLength || len(digits) < MinZipLength {
		return "", false
	}
	return digits[:MinZipLength], true
}

// Locate looks up zip. Short input returns an empty Place without a request.
// Failures return an empty Place together with the error; callers are
// expected to treat both as "no result".
func (c *LocationClient) Locate(ctx context.Context, zip string) (Place, error) {
	zip5, ok := ZipReady(zip)
	if !ok {
		return Place{}, nil
	}

	start := time.Now()
	place, err := c.locate(ctx, zip5)
	c.metrics.RecordLookup(KindLocation, err == nil, time.Since(start))
	if err != nil {
		logger.Debug("Location lookup failed", zap.String("zip", zip5), zap.Error(err))
		return Place{}, err
	}
	return place, nil
}

func (c *LocationClient) locate(ctx context.Context, zip5 string) (Place, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return Place{}, errors.Wrap(err, "location lookup throttled")
	}

	resp, err := c.client.Get(ctx, "/us/"+zip5)
	if err != nil {
		return Place{}, errors.Wrap(err, "location lookup request failed")
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return Place{}, errors.Errorf("location lookup returned status %d", resp.StatusCode)
	}

	var body zippopotamResponse
	if err := c.client.ProcessJSONResponse(resp, &body); err != nil {
		return Place{}, errors.Wrap(err, "location lookup response")
	}
	if len(body.Places) == 0 {
		return Place{}, nil
	}

	first := body.Places[0]
	var place Place
	if city := strings.TrimSpace(first.PlaceName); city != "" {
		place.City = &city
	}
	if state := address.NormalizeState(strings.TrimSpace(first.State)); state != "" {
		place.State = &state
	}
	return place, nil
}
