// Package httpclient builds outbound HTTP clients with retry and zerolog output
package httpclient

import (
	"context"
	"net/http"
	"time"

	"addrcheck/internal/platform/logger"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
)

// Options configures a retrying client
type Options struct {
	Name         string // logger component
	Timeout      time.Duration
	MaxRetries   int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	Transport    http.RoundTripper // optional, tests use it
}

// New returns a retryablehttp client. Connection errors, 429 and 5xx are retried
func New(o Options) *retryablehttp.Client {
	c := retryablehttp.NewClient()
	c.RetryMax = max(o.MaxRetries, 0)
	if o.RetryWaitMin > 0 {
		c.RetryWaitMin = o.RetryWaitMin
	}
	if o.RetryWaitMax > 0 {
		c.RetryWaitMax = o.RetryWaitMax
	}
	if c.RetryWaitMax < c.RetryWaitMin {
		c.RetryWaitMax = c.RetryWaitMin
	}
	if o.Timeout > 0 {
		c.HTTPClient.Timeout = o.Timeout
	}
	if o.Transport != nil {
		c.HTTPClient.Transport = o.Transport
	}
	c.Logger = Leveled(logger.Named(o.Name))
	return c
}

// WithRequestID copies the chi request id from ctx onto an outbound request
func WithRequestID(ctx context.Context, h http.Header) {
	if id := chimw.GetReqID(ctx); id != "" {
		h.Set(chimw.RequestIDHeader, id)
	}
}

// Leveled adapts a zerolog logger to retryablehttp.LeveledLogger.
// Per-attempt chatter goes to debug
func Leveled(l *zerolog.Logger) retryablehttp.LeveledLogger { return leveled{l: l} }

type leveled struct{ l *zerolog.Logger }

func (z leveled) Error(msg string, kv ...any) { fields(z.l.Error(), kv).Msg(msg) }
func (z leveled) Warn(msg string, kv ...any)  { fields(z.l.Warn(), kv).Msg(msg) }
func (z leveled) Info(msg string, kv ...any)  { fields(z.l.Debug(), kv).Msg(msg) }
func (z leveled) Debug(msg string, kv ...any) { fields(z.l.Debug(), kv).Msg(msg) }

func fields(e *zerolog.Event, kv []any) *zerolog.Event {
	for i := 0; i+1 < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			continue
		}
		e = e.Interface(k, kv[i+1])
	}
	return e
}
