// Package sink holds ResultSink implementations for deferred results
package sink

import (
	"context"
	"time"

	"addrcheck/internal/platform/metrics"
	dom "addrcheck/internal/services/verify/domain"

	"github.com/patrickmn/go-cache"
)

// DefaultResultTTL is how long a delivered result can be read back
const DefaultResultTTL = time.Hour

// Mailbox keeps delivered results in memory so a client can fetch them later
type Mailbox struct {
	c *cache.Cache
}

var (
	_ dom.ResultSink   = (*Mailbox)(nil)
	_ dom.ResultReader = (*Mailbox)(nil)
)

// NewMailbox returns a mailbox whose entries live for ttl (DefaultResultTTL when <= 0)
func NewMailbox(ttl time.Duration) *Mailbox {
	if ttl <= 0 {
		ttl = DefaultResultTTL
	}
	return &Mailbox{c: cache.New(ttl, max(ttl/2, time.Second))}
}

// Deliver stores d under its request id, replacing any earlier delivery
func (m *Mailbox) Deliver(_ context.Context, d dom.Delivery) error {
	m.c.SetDefault(string(d.RequestID), d)
	metrics.Deliveries.WithLabelValues("mailbox", "ok").Inc()
	return nil
}

// Lookup returns the delivery for id if it has not expired
func (m *Mailbox) Lookup(id dom.RequestID) (dom.Delivery, bool) {
	v, ok := m.c.Get(string(id))
	if !ok {
		return dom.Delivery{}, false
	}
	d, ok := v.(dom.Delivery)
	return d, ok
}

// Len reports stored deliveries
func (m *Mailbox) Len() int { return m.c.ItemCount() }
