package sink

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"addrcheck/internal/core/chains"
	perr "addrcheck/internal/platform/errors"
	kit "addrcheck/internal/platform/testkit"
	dom "addrcheck/internal/services/verify/domain"
)

func sample() dom.Delivery {
	return dom.Delivery{
		RequestID:  "abc",
		Address:    "1BoatSLRHtKNngkdXEeobR76b53LETtpyT",
		Blockchain: chains.BTC,
		Result:     &dom.Immediate{Content: "immediate_response", Detail: "stub_detail"},
		Attempts:   2,
		At:         time.Unix(1700000000, 0).UTC(),
	}
}

func TestMailbox_DeliverLookupExpire(t *testing.T) {
	t.Parallel()
	m := NewMailbox(50 * time.Millisecond)

	if _, ok := m.Lookup("abc"); ok {
		t.Fatal("empty mailbox should miss")
	}
	if err := m.Deliver(context.Background(), sample()); err != nil {
		t.Fatal(err)
	}
	d, ok := m.Lookup("abc")
	if !ok || d.Result.Content != "immediate_response" || m.Len() != 1 {
		t.Fatalf("Lookup = %+v,%v", d, ok)
	}
	kit.Eventually(t, time.Second, func() bool { _, ok := m.Lookup("abc"); return !ok }, "result expires")
}

type countingSink struct {
	n   atomic.Int32
	err error
}

func (c *countingSink) Deliver(context.Context, dom.Delivery) error {
	c.n.Add(1)
	return c.err
}

func TestFallback(t *testing.T) {
	t.Parallel()

	editErr := errors.New("edit failed")
	sendErr := errors.New("send failed")

	cases := []struct {
		name         string
		primaryErr   error
		hasFallback  bool
		fallbackErr  error
		wantFallback int32
	}{
		{"primary ok", nil, true, nil, 0},
		{"primary fails", editErr, true, nil, 1},
		{"both fail", editErr, true, sendErr, 1},
		{"no fallback", editErr, false, nil, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			primary := &countingSink{err: c.primaryErr}
			f := Fallback{Primary: primary}
			var spare *countingSink
			if c.hasFallback {
				spare = &countingSink{err: c.fallbackErr}
				f.Fallback = spare
			}

			if err := f.Deliver(context.Background(), sample()); err != nil {
				t.Fatalf("Fallback must swallow errors, got %v", err)
			}
			if got := primary.n.Load(); got != 1 {
				t.Fatalf("primary calls = %d, want 1", got)
			}
			if spare != nil {
				if got := spare.n.Load(); got != c.wantFallback {
					t.Fatalf("fallback calls = %d, want %d", got, c.wantFallback)
				}
			}
		})
	}
}

func TestMulti_DeliversToAllAndJoinsErrors(t *testing.T) {
	t.Parallel()
	a, b := &countingSink{}, &countingSink{err: errors.New("boom")}

	err := Multi{a, b, Log{}}.Deliver(context.Background(), sample())
	if err == nil || a.n.Load() != 1 || b.n.Load() != 1 {
		t.Fatalf("err = %v, a = %d, b = %d", err, a.n.Load(), b.n.Load())
	}
	if err := (Multi{a}).Deliver(context.Background(), sample()); err != nil {
		t.Fatal(err)
	}
}

func TestLog_FailureDelivery(t *testing.T) {
	t.Parallel()
	d := sample()
	d.Result, d.Failure = nil, "gave up"
	if err := (Log{}).Deliver(context.Background(), d); err != nil {
		t.Fatal(err)
	}
}

func TestWebhook_PostsJSON(t *testing.T) {
	t.Parallel()

	var got dom.Delivery
	var hdr http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hdr = r.Header.Clone()
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	wh := NewWebhook(WebhookOptions{URL: srv.URL, RetryWait: time.Millisecond})
	if err := wh.Deliver(context.Background(), sample()); err != nil {
		t.Fatal(err)
	}
	if got.RequestID != "abc" || got.Result == nil || got.Result.Detail != "stub_detail" {
		t.Fatalf("payload = %+v", got)
	}
	if hdr.Get("X-Check-ID") != "abc" || hdr.Get("Content-Type") != "application/json" {
		t.Fatalf("headers = %v", hdr)
	}
}

func TestWebhook_ErrorsAreUpstream(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path == "/gone" {
			w.WriteHeader(http.StatusGone)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	gone := NewWebhook(WebhookOptions{URL: srv.URL + "/gone", RetryWait: time.Millisecond})
	if err := gone.Deliver(context.Background(), sample()); !perr.IsCode(err, perr.ErrorCodeUpstream) {
		t.Fatalf("4xx: expected upstream error, got %v", err)
	}
	if hits.Load() != 1 {
		t.Fatalf("4xx must not be retried, hits = %d", hits.Load())
	}

	hits.Store(0)
	flaky := NewWebhook(WebhookOptions{URL: srv.URL, MaxRetries: 2, RetryWait: time.Millisecond})
	if err := flaky.Deliver(context.Background(), sample()); !perr.IsCode(err, perr.ErrorCodeUpstream) {
		t.Fatalf("5xx: expected upstream error, got %v", err)
	}
	if hits.Load() != 3 {
		t.Fatalf("5xx hits = %d, want 3", hits.Load())
	}

	// fallback swallows webhook failures
	spare := &countingSink{}
	if err := (Fallback{Primary: gone, Fallback: spare}).Deliver(context.Background(), sample()); err != nil || spare.n.Load() != 1 {
		t.Fatalf("fallback err = %v, spare = %d", err, spare.n.Load())
	}
}
