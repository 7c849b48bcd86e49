package outbound

import (
	"context"
	"io"
	"time"

	httpclient "github.com/cyphera/address-relay/internal/client/http"
	"github.com/cyphera/address-relay/internal/logger"
	"github.com/cyphera/address-relay/internal/metrics"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// AutomationClient sends submissions to the automation platform's webhook.
type AutomationClient struct {
	client *httpclient.HTTPClient
}

// NewAutomationClient creates a client for the endpoint at endpointURL.
// Requests are never retried.
func NewAutomationClient(endpointURL string, timeout time.Duration, m *metrics.Metrics, options ...httpclient.ClientOption) *AutomationClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	opts := []httpclient.ClientOption{
		httpclient.WithName("automation"),
		httpclient.WithBaseURL(endpointURL),
		httpclient.WithTimeout(timeout),
		httpclient.WithRetryConfig(nil),
	}
	if m != nil {
		opts = append(opts, httpclient.WithMetricsCollector(m))
	}
	opts = append(opts, options...)

	return &AutomationClient{client: httpclient.NewHTTPClient(opts...)}
}

// Dispatch sends one request carrying the whole submission. Any transport
// failure or non-2xx status is returned as an error.
func (c *AutomationClient) Dispatch(ctx context.Context, submission Submission) error {
	query, err := submission.Query()
	if err != nil {
		return err
	}

	resp, err := c.client.Get(ctx, "", httpclient.WithQuery(query))
	if err != nil {
		return errors.Wrap(err, "automation request failed")
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.Errorf("automation endpoint returned status %d", resp.StatusCode)
	}

	logger.Info("Address update dispatched",
		zap.String("submission_id", submission.ID),
		zap.Int("changes", len(submission.Changes)),
		zap.Int("status", resp.StatusCode))

	return nil
}
