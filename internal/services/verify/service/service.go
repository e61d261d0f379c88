// Package service implements request admission, dispatch to the verification collaborator,
// and supervision of deferred results
package service

import (
	"context"
	"encoding/hex"
	"sync"
	"time"

	"addrcheck/internal/platform/logger"
	"addrcheck/internal/platform/metrics"
	dom "addrcheck/internal/services/verify/domain"
	"addrcheck/internal/services/verify/registry"

	"github.com/google/uuid"
)

// Deps are the collaborators of the service. Reader and Journal are optional
type Deps struct {
	Registry *registry.Registry
	Client   dom.VerificationClient
	Sink     dom.ResultSink
	Reader   dom.ResultReader
	Journal  dom.Journal
}

// Config controls dispatch and polling
type Config struct {
	Poll PollConfig
	// CheckTimeout bounds one Check call; 0 leaves it to the caller context
	CheckTimeout time.Duration
}

// Svc implements domain.ServicePort
type Svc struct {
	reg     *registry.Registry
	client  dom.VerificationClient
	reader  dom.ResultReader
	journal dom.Journal
	sup     *Supervisor
	cfg     Config
	newID   func() dom.RequestID

	// ids with a Check call in flight
	inflight sync.Map
}

var _ dom.ServicePort = (*Svc)(nil)

// newRequestID returns 32 lowercase hex chars from a random uuid
func newRequestID() dom.RequestID {
	u := uuid.New()
	return dom.RequestID(hex.EncodeToString(u[:]))
}

// New wires the dispatcher and its supervisor. Registry evictions cancel orphaned loops
func New(d Deps, cfg Config) *Svc {
	s := &Svc{
		reg:     d.Registry,
		client:  d.Client,
		reader:  d.Reader,
		journal: d.Journal,
		cfg:     cfg,
		newID:   newRequestID,
	}
	s.sup = NewSupervisor(d.Client, d.Sink, d.Registry, d.Journal, cfg.Poll)
	d.Registry.OnEvict(func(id dom.RequestID, _ dom.Address) {
		s.sup.Cancel(id)
		metrics.PendingRequests.Set(float64(s.reg.Len()))
	})
	return s
}

// Supervisor exposes the poll loop manager
func (s *Svc) Supervisor() *Supervisor { return s.sup }

// Shutdown stops all poll loops
func (s *Svc) Shutdown(ctx context.Context) error {
	logger.Named("verify").Info().Int("active", s.sup.Active()).Msg("stopping poll loops")
	return s.sup.Shutdown(ctx)
}

// observe records collaborator call latency
func observe(op string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.CheckLatency.WithLabelValues(op, result).Observe(time.Since(start).Seconds())
}

// record writes to the journal when one is configured; failures are logged only
func record(ctx context.Context, j dom.Journal, e dom.HistoryEntry) {
	if j == nil {
		return
	}
	if err := j.Record(ctx, e); err != nil {
		logger.C(ctx).Warn().Err(err).Str("status", string(e.Status)).Msg("history record failed")
	}
}

func historyFromDelivery(d dom.Delivery) dom.HistoryEntry {
	o := d.Outcome()
	e := dom.HistoryEntry{
		RequestID:  d.RequestID,
		Address:    d.Address,
		Blockchain: d.Blockchain,
		Status:     o.Status,
		Attempts:   d.Attempts,
		CreatedAt:  d.At,
	}
	if d.Result != nil {
		e.Content, e.Detail = d.Result.Content, d.Result.Detail
	} else {
		e.Detail = d.Failure
	}
	return e
}
