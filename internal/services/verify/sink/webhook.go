package sink

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	perr "addrcheck/internal/platform/errors"
	"addrcheck/internal/platform/metrics"
	"addrcheck/internal/platform/net/httpclient"
	dom "addrcheck/internal/services/verify/domain"

	"github.com/hashicorp/go-retryablehttp"
)

// WebhookOptions configures the push sink
type WebhookOptions struct {
	URL        string
	Timeout    time.Duration
	MaxRetries int
	RetryWait  time.Duration
	Transport  http.RoundTripper
}

// Webhook POSTs each delivery as JSON to a fixed URL
type Webhook struct {
	url string
	hc  *retryablehttp.Client
}

// NewWebhook builds a webhook sink
func NewWebhook(o WebhookOptions) *Webhook {
	if o.Timeout <= 0 {
		o.Timeout = 10 * time.Second
	}
	return &Webhook{
		url: o.URL,
		hc: httpclient.New(httpclient.Options{
			Name:         "sink-webhook",
			Timeout:      o.Timeout,
			MaxRetries:   o.MaxRetries,
			RetryWaitMin: o.RetryWait,
			RetryWaitMax: 4 * o.RetryWait,
			Transport:    o.Transport,
		}),
	}
}

// Deliver posts d; any non 2xx answer is an upstream error
func (w *Webhook) Deliver(ctx context.Context, d dom.Delivery) (err error) {
	defer func() {
		result := "ok"
		if err != nil {
			result = "error"
		}
		metrics.Deliveries.WithLabelValues("webhook", result).Inc()
	}()

	body, err := json.Marshal(d)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeJSON, "encode delivery")
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, w.url, body)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeInvalidArgument, "build webhook request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Check-ID", string(d.RequestID))
	httpclient.WithRequestID(ctx, req.Header)

	resp, err := w.hc.Do(req)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeUpstream, "webhook delivery")
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return perr.Upstreamf("webhook answered %d", resp.StatusCode)
	}
	return nil
}
