package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"addrcheck/internal/core/chains"
	dom "addrcheck/internal/services/verify/domain"
	"addrcheck/internal/services/verify/registry"
)

const (
	validAddr = "1BoatSLRHtKNngkdXEeobR76b53LETtpyT"
	fastPoll  = 2 * time.Millisecond
)

type fakeClient struct {
	mu     sync.Mutex
	check  func(addrs []dom.Address, code chains.Code) (dom.CheckResult, error)
	poll   func(n int) (*dom.Immediate, error)
	checks int
	polls  int
}

func (f *fakeClient) Check(_ context.Context, addrs []dom.Address, code chains.Code) (dom.CheckResult, error) {
	f.mu.Lock()
	f.checks++
	fn := f.check
	f.mu.Unlock()
	return fn(addrs, code)
}

func (f *fakeClient) PollRecheck(_ context.Context, _ string, _ dom.Address, _ chains.Code) (*dom.Immediate, error) {
	f.mu.Lock()
	f.polls++
	n, fn := f.polls, f.poll
	f.mu.Unlock()
	if fn == nil {
		return nil, nil
	}
	return fn(n)
}

func (f *fakeClient) Checks() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.checks
}

func (f *fakeClient) Polls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.polls
}

func immediate(content string) func([]dom.Address, chains.Code) (dom.CheckResult, error) {
	return func([]dom.Address, chains.Code) (dom.CheckResult, error) {
		return dom.Immediate{Content: content, Detail: "stub_detail"}, nil
	}
}

func postponed(uid string) func([]dom.Address, chains.Code) (dom.CheckResult, error) {
	return func(a []dom.Address, c chains.Code) (dom.CheckResult, error) {
		return dom.Postponed{UID: uid, Address: a[0], Blockchain: c}, nil
	}
}

type recSink struct {
	mu  sync.Mutex
	got []dom.Delivery
	err error
}

func (s *recSink) Deliver(_ context.Context, d dom.Delivery) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.got = append(s.got, d)
	return s.err
}

func (s *recSink) Lookup(id dom.RequestID) (dom.Delivery, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.got {
		if d.RequestID == id {
			return d, true
		}
	}
	return dom.Delivery{}, false
}

func (s *recSink) All() []dom.Delivery {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]dom.Delivery(nil), s.got...)
}

type memJournal struct {
	mu      sync.Mutex
	entries []dom.HistoryEntry
}

func (j *memJournal) Record(_ context.Context, e dom.HistoryEntry) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, e)
	return nil
}

func (j *memJournal) ByAddress(_ context.Context, addr dom.Address, limit int) ([]dom.HistoryEntry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	var out []dom.HistoryEntry
	for i := len(j.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if j.entries[i].Address == addr {
			out = append(out, j.entries[i])
		}
	}
	return out, nil
}

func (j *memJournal) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.entries)
}

type harness struct {
	svc     *Svc
	reg     *registry.Registry
	client  *fakeClient
	sink    *recSink
	journal *memJournal
}

func newHarness(t *testing.T, client *fakeClient, poll PollConfig) *harness {
	t.Helper()
	if poll.Interval == 0 {
		poll.Interval = fastPoll
	}
	h := &harness{
		reg:     registry.New(0),
		client:  client,
		sink:    &recSink{},
		journal: &memJournal{},
	}
	h.svc = New(Deps{
		Registry: h.reg,
		Client:   client,
		Sink:     h.sink,
		Reader:   h.sink,
		Journal:  h.journal,
	}, Config{Poll: poll})
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = h.svc.Shutdown(ctx)
	})
	return h
}

func (h *harness) admit(t *testing.T) dom.RequestID {
	t.Helper()
	sub, err := h.svc.Submit(context.Background(), validAddr)
	if err != nil || sub.Status != dom.SubmissionAccepted {
		t.Fatalf("Submit = %+v, %v", sub, err)
	}
	return sub.RequestID
}

func (h *harness) present(id dom.RequestID) bool {
	_, ok := h.reg.Get(id)
	return ok
}
