package service

import (
	"context"
	"sync"
	"time"

	"addrcheck/internal/core/chains"
	perr "addrcheck/internal/platform/errors"
	"addrcheck/internal/platform/logger"
	"addrcheck/internal/platform/metrics"
	dom "addrcheck/internal/services/verify/domain"
)

// DefaultPollInterval is the wait between rechecks of a deferred result
const DefaultPollInterval = 30 * time.Second

// deliverTimeout bounds a sink call made after the loop context is gone
const deliverTimeout = 10 * time.Second

// failureNotice is delivered when the attempt cap is reached
const failureNotice = "verification did not complete in time, please try again"

// PollConfig shapes the recheck loop. The zero value polls every 30s forever
type PollConfig struct {
	Interval    time.Duration
	MaxAttempts int     // 0 = unbounded
	Multiplier  float64 // <= 1 keeps the interval fixed
	MaxInterval time.Duration
}

func (c PollConfig) normalized() PollConfig {
	if c.Interval <= 0 {
		c.Interval = DefaultPollInterval
	}
	if c.MaxAttempts < 0 {
		c.MaxAttempts = 0
	}
	if c.Multiplier < 1 {
		c.Multiplier = 1
	}
	if c.MaxInterval < c.Interval {
		c.MaxInterval = c.Interval
	}
	return c
}

// next grows cur by the multiplier, capped at MaxInterval
func (c PollConfig) next(cur time.Duration) time.Duration {
	if c.Multiplier == 1 {
		return cur
	}
	return min(time.Duration(float64(cur)*c.Multiplier), c.MaxInterval)
}

// remover is the slice of the registry the supervisor needs
type remover interface {
	Remove(id dom.RequestID)
}

// task stays in the table until its loop has removed the registry entry,
// so an id is always either tracked or gone
type task struct {
	cancel   context.CancelFunc
	stopping bool
}

// Supervisor runs one recheck loop per deferred request and owns their lifetimes
type Supervisor struct {
	client  dom.VerificationClient
	sink    dom.ResultSink
	reg     remover
	journal dom.Journal
	cfg     PollConfig

	root context.Context
	stop context.CancelFunc

	mu     sync.Mutex
	tasks  map[dom.RequestID]*task
	closed bool
	wg     sync.WaitGroup
}

// NewSupervisor builds a supervisor; journal may be nil
func NewSupervisor(client dom.VerificationClient, sink dom.ResultSink, reg remover, journal dom.Journal, cfg PollConfig) *Supervisor {
	root, stop := context.WithCancel(context.Background())
	return &Supervisor{
		client:  client,
		sink:    sink,
		reg:     reg,
		journal: journal,
		cfg:     cfg.normalized(),
		root:    root,
		stop:    stop,
		tasks:   map[dom.RequestID]*task{},
	}
}

// Start launches the recheck loop for id and returns at once.
// A second Start for a tracked id is a conflict
func (s *Supervisor) Start(id dom.RequestID, uid string, addr dom.Address, code chains.Code) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return perr.Unavailablef("supervisor is shutting down")
	}
	if _, ok := s.tasks[id]; ok {
		s.mu.Unlock()
		return perr.Conflictf("request %s is already being polled", id)
	}
	ctx, cancel := context.WithCancel(s.root)
	t := &task{cancel: cancel}
	s.tasks[id] = t
	s.wg.Add(1)
	s.mu.Unlock()

	metrics.ActivePollers.Inc()
	go s.loop(logger.WithCheck(ctx, string(id)), t, id, uid, addr, code)
	return nil
}

// Tracking reports whether a loop is running for id
func (s *Supervisor) Tracking(id dom.RequestID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.tasks[id]
	return ok
}

// Cancel stops the loop for id. The loop removes the registry entry on its way out,
// then leaves the table
func (s *Supervisor) Cancel(id dom.RequestID) bool {
	s.mu.Lock()
	t, ok := s.tasks[id]
	if !ok || t.stopping {
		s.mu.Unlock()
		return false
	}
	t.stopping = true
	s.mu.Unlock()
	t.cancel()
	return true
}

// Active reports the number of running loops
func (s *Supervisor) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Shutdown cancels every loop and waits for them, or for ctx
func (s *Supervisor) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.stop()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Supervisor) loop(ctx context.Context, t *task, id dom.RequestID, uid string, addr dom.Address, code chains.Code) {
	log := logger.C(ctx).With().Str("component", "supervisor").Str("uid", uid).Str("blockchain", string(code)).Logger()
	reason := "cancelled"
	defer func() {
		s.finish(id, t)
		metrics.ActivePollers.Dec()
		metrics.LoopExits.WithLabelValues(reason).Inc()
		s.wg.Done()
		log.Debug().Str("reason", reason).Msg("poll loop exited")
	}()

	wait := s.cfg.Interval
	for attempt := 1; ; attempt++ {
		start := time.Now()
		res, err := s.client.PollRecheck(ctx, uid, addr, code)
		observe("recheck", start, err)

		switch {
		case err != nil:
			if ctx.Err() != nil {
				return
			}
			metrics.Polls.WithLabelValues("error").Inc()
			log.Warn().Err(err).Int("attempt", attempt).Msg("recheck failed")
		case res != nil:
			metrics.Polls.WithLabelValues("resolved").Inc()
			reason = "resolved"
			s.deliver(ctx, dom.Delivery{
				RequestID:  id,
				Address:    addr,
				Blockchain: code,
				Result:     res,
				Attempts:   attempt,
				At:         time.Now().UTC(),
			})
			return
		default:
			metrics.Polls.WithLabelValues("pending").Inc()
		}

		if s.cfg.MaxAttempts > 0 && attempt >= s.cfg.MaxAttempts {
			reason = "exhausted"
			log.Warn().Int("attempts", attempt).Msg("recheck attempts exhausted")
			s.deliver(ctx, dom.Delivery{
				RequestID:  id,
				Address:    addr,
				Blockchain: code,
				Failure:    failureNotice,
				Attempts:   attempt,
				At:         time.Now().UTC(),
			})
			return
		}

		if err := sleepCtx(ctx, wait); err != nil {
			return
		}
		wait = s.cfg.next(wait)
	}
}

// deliver hands d to the sink and the journal. Errors are logged, never returned
func (s *Supervisor) deliver(ctx context.Context, d dom.Delivery) {
	dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), deliverTimeout)
	defer cancel()

	if err := s.sink.Deliver(dctx, d); err != nil {
		logger.C(ctx).Warn().Err(err).Msg("result delivery failed")
	}
	record(dctx, s.journal, historyFromDelivery(d))
}

// finish removes the registry entry, then drops the task. Runs on every loop exit.
// Remove may call back into Cancel through the eviction hook, so no lock is held
func (s *Supervisor) finish(id dom.RequestID, t *task) {
	s.reg.Remove(id)
	s.mu.Lock()
	if s.tasks[id] == t {
		delete(s.tasks, id)
	}
	s.mu.Unlock()
	t.cancel()
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
